package redis

// DefaultKeyPrefix namespaces all bingo data
const DefaultKeyPrefix = "bingo"

// keys builds Redis keys under a namespace
type keys struct {
	prefix string
}

func newKeys(prefix string) keys {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return keys{prefix: prefix}
}

// attempts is the HASH of creation attempts by user
func (k keys) attempts() string {
	return k.prefix + ":attempts"
}

// attemptsDay holds the day the attempt counts belong to
func (k keys) attemptsDay() string {
	return k.prefix + ":attempts:day"
}

// summaries is the LIST of finished game summaries, newest first
func (k keys) summaries() string {
	return k.prefix + ":summaries"
}
