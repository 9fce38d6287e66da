package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "bingoctl",
		Short: "CLI tool for the bingo bot API",
		Long: `bingoctl is a CLI tool for interacting with the bingo bot JSON API.

It supports every game command the chat bot offers, plus live event
streaming. Commands act as the player given by --player; privileged
commands (mode, stop) also need --admin-key.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = NewClient(cfg.ServerURL, cfg.Player, cfg.AdminKey)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: BINGO_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Player, "player", "p", cfg.Player, "Player id (env: BINGO_PLAYER)")
	rootCmd.PersistentFlags().StringVar(&cfg.AdminKey, "admin-key", cfg.AdminKey, "Admin key for privileged commands (env: BINGO_ADMIN_KEY)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json (env: BINGO_OUTPUT)")

	// Add subcommands
	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newJoinCmd())
	rootCmd.AddCommand(newModeCmd())
	rootCmd.AddCommand(newMarkCmd())
	rootCmd.AddCommand(newBingoCmd())
	rootCmd.AddCommand(newStopCmd())
	rootCmd.AddCommand(newPlayersCmd())
	rootCmd.AddCommand(newCardCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
