package cli

import (
	"github.com/caarlos0/env/v11"
)

// Config holds CLI configuration. Flags override the environment.
type Config struct {
	ServerURL string `env:"BINGO_SERVER" envDefault:"http://localhost:3000"`
	Player    string `env:"BINGO_PLAYER"`
	AdminKey  string `env:"BINGO_ADMIN_KEY"`
	Output    string `env:"BINGO_OUTPUT" envDefault:"text"`
}

// DefaultConfig reads the CLI defaults from the environment
func DefaultConfig() *Config {
	var c Config
	if err := env.Parse(&c); err != nil {
		return &Config{ServerURL: "http://localhost:3000", Output: "text"}
	}
	return &c
}
