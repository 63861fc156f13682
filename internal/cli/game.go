package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/seiwell/gomokuhub/internal/model"
	"github.com/seiwell/gomokuhub/internal/ws"
)

func newReadyCmd() *cobra.Command {
	var status int

	cmd := &cobra.Command{
		Use:   "ready <room-id>",
		Short: "Set your player status in a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := Dial(cfg.ServerURL)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			if err := client.Register(cfg.UserID, cfg.UserName); err != nil {
				return err
			}
			if err := client.Send(ws.MsgSetPlayerStatus, ws.SetPlayerStatusPayload{
				RoomID:   model.RoomID(args[0]),
				PlayerID: model.UserID(cfg.UserID),
				Status:   model.PlayerStatus(status),
			}); err != nil {
				return err
			}

			return printRoomUpdate(client)
		},
	}

	cmd.Flags().IntVar(&status, "status", int(model.StatusReady), "Status to set: 0 idle, 1 ready, 2 playing")

	return cmd
}

func newStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <room-id>",
		Short: "Start the game in a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := Dial(cfg.ServerURL)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			if err := client.Register(cfg.UserID, cfg.UserName); err != nil {
				return err
			}
			if err := client.Send(ws.MsgStartGame, ws.StartGamePayload{
				RoomID: model.RoomID(args[0]),
			}); err != nil {
				return err
			}

			return printRoomUpdate(client)
		},
	}
}

func newPlaceCmd() *cobra.Command {
	var role int
	var boardFile string

	cmd := &cobra.Command{
		Use:   "place <room-id>",
		Short: "Submit a board state for your turn",
		Long: `Submit the full board state after your move. The board is read as
JSON (a 15x15 array of ints) from --board-file, or from stdin when the
file is "-".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := readBoard(boardFile)
			if err != nil {
				return err
			}

			client, err := Dial(cfg.ServerURL)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			if err := client.Register(cfg.UserID, cfg.UserName); err != nil {
				return err
			}
			if err := client.Send(ws.MsgPlaceStone, ws.PlaceStonePayload{
				RoomID:    model.RoomID(args[0]),
				BoardData: board,
				Role:      model.TurnSlot(role),
			}); err != nil {
				return err
			}

			return printRoomUpdate(client)
		},
	}

	cmd.Flags().IntVar(&role, "role", 0, "Your turn slot: 0 or 1")
	cmd.Flags().StringVar(&boardFile, "board-file", "-", "Board JSON file, or - for stdin")

	return cmd
}

func newEndCmd() *cobra.Command {
	var winner string

	cmd := &cobra.Command{
		Use:   "end <room-id>",
		Short: "End the game, declaring a winner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if winner == "" {
				winner = cfg.UserID
			}

			client, err := Dial(cfg.ServerURL)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			if err := client.Register(cfg.UserID, cfg.UserName); err != nil {
				return err
			}
			if err := client.Send(ws.MsgEndGame, ws.EndGamePayload{
				RoomID: model.RoomID(args[0]),
				Winner: model.UserID(winner),
			}); err != nil {
				return err
			}

			data, err := client.WaitFor(ws.MsgWinnerExit)
			if err != nil {
				return err
			}

			var won model.UserID
			if err := json.Unmarshal(data, &won); err != nil {
				return fmt.Errorf("decoding winner: %w", err)
			}
			NewOutput(cfg.Output).PrintMessage(fmt.Sprintf("winner: %s", won))
			return nil
		},
	}

	cmd.Flags().StringVar(&winner, "winner", "", "Winning user id (default: you)")

	return cmd
}

// printRoomUpdate waits for the room_players push and prints the room
func printRoomUpdate(client *Client) error {
	data, err := client.WaitFor(ws.MsgRoomPlayers)
	if err != nil {
		return err
	}

	var room *model.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return fmt.Errorf("decoding room: %w", err)
	}
	NewOutput(cfg.Output).PrintRoom(room)
	return nil
}

// readBoard loads a board from a JSON file or stdin
func readBoard(path string) (model.Board, error) {
	var reader io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		reader = f
	}

	var board model.Board
	if err := json.NewDecoder(reader).Decode(&board); err != nil {
		return nil, fmt.Errorf("decoding board: %w", err)
	}
	if err := board.Validate(); err != nil {
		return nil, err
	}
	return board, nil
}
