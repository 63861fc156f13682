package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream server events",
		Long: `Connect and print every message the server pushes, in real time.
Registering with --user-id includes targeted room updates for that
user; without it only broadcasts arrive.

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchEvents(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// watchedEvent is one printed event
type watchedEvent struct {
	Time time.Time       `json:"time"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func watchEvents(jsonOutput bool) error {
	client, err := Dial(cfg.ServerURL)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if cfg.UserID != "" && cfg.UserName != "" {
		if err := client.Register(cfg.UserID, cfg.UserName); err != nil {
			return err
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		_ = client.Close()
	}()

	fmt.Fprintf(os.Stderr, "watching %s\n", cfg.ServerURL)

	for {
		env, err := client.Next()
		if err != nil {
			// Closed by the signal handler or the server going away
			return nil
		}

		event := watchedEvent{Time: time.Now(), Type: env.Type, Data: env.Data}
		if jsonOutput {
			line, _ := json.Marshal(event)
			fmt.Println(string(line))
		} else {
			fmt.Printf("[%s] %s %s\n",
				event.Time.Format(time.TimeOnly), event.Type, string(event.Data))
		}
	}
}
