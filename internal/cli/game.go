package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Open a new game lobby",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Post(cmd.Context(), "/api/v1/game", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join",
		Short: "Join the current game and receive a card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Card

			if err := client.Post(cmd.Context(), "/api/v1/game/join", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newModeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mode <mode>",
		Short: "Set the winning pattern (admin only)",
		Long: `Set the winning pattern for the current game. The mode carries over
to later games.

Modes: line, vertical, diagonal, corners, block, B, I, N, G, O`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"mode": args[0]}
			var result ModeResult

			if err := client.Put(cmd.Context(), "/api/v1/game/mode", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newMarkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mark <number>",
		Short: "Mark a called number on your card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			number, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid number: %w", err)
			}

			req := map[string]int{"number": number}
			var result MarkResult

			if err := client.Post(cmd.Context(), "/api/v1/game/mark", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newBingoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bingo",
		Short: "Declare bingo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result BingoResult

			if err := client.Post(cmd.Context(), "/api/v1/game/bingo", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the current game (admin only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), "/api/v1/game"); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.PrintMessage("Game stopped")
			return nil
		},
	}
}

func newPlayersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "players",
		Short: "List players in the current game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Players

			if err := client.Get(cmd.Context(), "/api/v1/game/players", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newCardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "card",
		Short: "Show your card and what is still needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result CardView

			if err := client.Get(cmd.Context(), "/api/v1/game/card", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current game state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Get(cmd.Context(), "/api/v1/game", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently finished games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result History

			if err := client.Get(cmd.Context(), fmt.Sprintf("/api/v1/history?limit=%d", limit), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of games to show (1-100)")

	return cmd
}
