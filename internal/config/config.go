package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Config is the server's configuration, read from the environment
type Config struct {
	// Discord
	DiscordToken string `env:"DISCORD_TOKEN"`
	ChannelID    string `env:"BINGO_CHANNEL_ID"` // Optional: restrict commands to one channel
	GuildID      string `env:"BINGO_GUILD_ID"`
	AdminRoleID  string `env:"BINGO_ADMIN_ROLE_ID"`

	// HTTP
	HTTPAddr     string  `env:"BINGO_HTTP_ADDR"     envDefault:":3000"`
	AdminKeyHash string  `env:"BINGO_ADMIN_KEY_HASH"` // bcrypt hash of the API admin key
	APIRate      float64 `env:"BINGO_API_RATE"      envDefault:"5"`
	APIBurst     int     `env:"BINGO_API_BURST"     envDefault:"10"`

	// Storage
	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"REDIS_URL"`
	RedisPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"bingo"`

	// Game
	LobbyWindow  time.Duration `env:"BINGO_LOBBY_WINDOW"  envDefault:"15s"`
	CallInterval time.Duration `env:"BINGO_CALL_INTERVAL" envDefault:"15s"`
	Cooldown     time.Duration `env:"BINGO_COOLDOWN"      envDefault:"5s"`
	DailyLimit   int           `env:"BINGO_DAILY_LIMIT"   envDefault:"3"`
	TimeZone     string        `env:"BINGO_TIMEZONE"      envDefault:"UTC"`
	RandomSeed   uint64        `env:"BINGO_RANDOM_SEED"` // Non-zero makes cards and calls reproducible

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Location is resolved from TimeZone
	Location *time.Location `env:"-"`
}

// Load reads an optional .env file, then parses the process environment.
// Variables already set in the environment win over the file.
func Load(dotenvPath string) (Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", dotenvPath, err)
		}
	}
	return parse(env.Options{})
}

// FromMap parses configuration from the given variables only
func FromMap(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return Config{}, fmt.Errorf("load time zone %q: %w", cfg.TimeZone, err)
	}
	cfg.Location = loc
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StorageType {
	case StorageTypeMemory, "":
	case StorageTypeRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL required when STORAGE_TYPE=redis")
		}
	default:
		return fmt.Errorf("unknown STORAGE_TYPE %q", c.StorageType)
	}
	if c.LobbyWindow <= 0 || c.CallInterval <= 0 || c.Cooldown <= 0 {
		return errors.New("game durations must be positive")
	}
	if c.DailyLimit <= 0 {
		return errors.New("BINGO_DAILY_LIMIT must be positive")
	}
	return nil
}
