package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

var cfg *Config

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "gomoku",
		Short: "CLI client for the gomokuhub websocket server",
		Long: `gomoku is a client for the gomokuhub matchmaking server.

It speaks the server's websocket message protocol: listing and creating
rooms, joining and leaving them, readying up, and playing games.
Identity is taken from --user-id/--user-name or the GOMOKU_USER_ID and
GOMOKU_USER_NAME environment variables.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "rooms" || cmd.Name() == "watch" {
				return nil // read-only commands need no identity
			}
			if cfg.UserID == "" || cfg.UserName == "" {
				return errors.New("user identity required: set --user-id and --user-name")
			}
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server websocket URL (env: GOMOKU_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.UserID, "user-id", cfg.UserID, "User id (env: GOMOKU_USER_ID)")
	rootCmd.PersistentFlags().StringVar(&cfg.UserName, "user-name", cfg.UserName, "Display name (env: GOMOKU_USER_NAME)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")

	// Add subcommands
	rootCmd.AddCommand(newRoomsCmd())
	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newJoinCmd())
	rootCmd.AddCommand(newLeaveCmd())
	rootCmd.AddCommand(newReadyCmd())
	rootCmd.AddCommand(newStartCmd())
	rootCmd.AddCommand(newPlaceCmd())
	rootCmd.AddCommand(newEndCmd())
	rootCmd.AddCommand(newWatchCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
