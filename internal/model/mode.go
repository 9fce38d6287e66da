package model

import "strings"

// Mode identifies the winning pattern for a game
type Mode string

const (
	ModeLine     Mode = "line"
	ModeVertical Mode = "vertical"
	ModeDiagonal Mode = "diagonal"
	ModeCorners  Mode = "corners"
	ModeBlock    Mode = "block"
	ModeLetterB  Mode = "B"
	ModeLetterI  Mode = "I"
	ModeLetterN  Mode = "N"
	ModeLetterG  Mode = "G"
	ModeLetterO  Mode = "O"
)

// DefaultMode is the mode a fresh process starts with
const DefaultMode = ModeLine

var allModes = []Mode{
	ModeLine, ModeVertical, ModeDiagonal, ModeCorners, ModeBlock,
	ModeLetterB, ModeLetterI, ModeLetterN, ModeLetterG, ModeLetterO,
}

// ValidModes returns every accepted mode in display order
func ValidModes() []Mode {
	result := make([]Mode, len(allModes))
	copy(result, allModes)
	return result
}

// ParseMode converts user input into a Mode.
// Geometric names are lower-cased and single letters upper-cased before lookup.
func ParseMode(s string) (Mode, error) {
	s = strings.TrimSpace(s)
	var m Mode
	if len(s) == 1 {
		m = Mode(strings.ToUpper(s))
	} else {
		m = Mode(strings.ToLower(s))
	}
	if !m.Valid() {
		return "", ErrInvalidMode
	}
	return m, nil
}

// Valid returns true if m is one of the known modes
func (m Mode) Valid() bool {
	for _, v := range allModes {
		if v == m {
			return true
		}
	}
	return false
}

// IsLetter returns true for the B/I/N/G/O shape modes
func (m Mode) IsLetter() bool {
	_, ok := letterShapes[m]
	return ok
}

// letterShapes draws each letter on the 5x5 grid, row by row
var letterShapes = map[Mode][CardSize]string{
	ModeLetterB: {"XXXX.", "X...X", "XXXX.", "X...X", "XXXX."},
	ModeLetterI: {"XXXXX", "..X..", "..X..", "..X..", "XXXXX"},
	ModeLetterN: {"X...X", "XX..X", "X.X.X", "X..XX", "X...X"},
	ModeLetterG: {".XXXX", "X....", "X.XXX", "X...X", ".XXXX"},
	ModeLetterO: {".XXX.", "X...X", "X...X", "X...X", ".XXX."},
}

// LetterIndices returns the cell indices that make up a letter mode's shape,
// or nil if m is not a letter mode
func LetterIndices(m Mode) []int {
	shape, ok := letterShapes[m]
	if !ok {
		return nil
	}
	var result []int
	for row, line := range shape {
		for col, ch := range line {
			if ch == 'X' {
				result = append(result, Index(row, col))
			}
		}
	}
	return result
}
