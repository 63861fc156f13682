package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seiwell/gomokuhub/internal/model"
	"github.com/seiwell/gomokuhub/internal/ws"
)

func newRoomsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rooms",
		Short: "List all rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := Dial(cfg.ServerURL)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			// The server pushes a snapshot on connect
			data, err := client.WaitFor(ws.MsgRoomsList)
			if err != nil {
				return err
			}

			var rooms []*model.Room
			if err := json.Unmarshal(data, &rooms); err != nil {
				return fmt.Errorf("decoding room list: %w", err)
			}

			NewOutput(cfg.Output).PrintRooms(rooms)
			return nil
		},
	}
}

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a room and join it as the first player",
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
			if err := client.Send(ws.MsgCreateRoom, ws.CreateRoomPayload{
				RoomName:    args[0],
				CreatorID:   model.UserID(cfg.UserID),
				CreatorName: cfg.UserName,
			}); err != nil {
				return err
			}

			data, err := client.WaitFor(ws.MsgRoomEntered)
			if err != nil {
				return err
			}

			var room *model.Room
			if err := json.Unmarshal(data, &room); err != nil {
				return fmt.Errorf("decoding room: %w", err)
			}

			NewOutput(cfg.Output).PrintRoom(room)
			return nil
		},
	}
}

func newJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <room-id>",
		Short: "Join a room",
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
			if err := client.Send(ws.MsgJoinRoom, ws.JoinRoomPayload{
				RoomID:     model.RoomID(args[0]),
				PlayerID:   model.UserID(cfg.UserID),
				PlayerName: cfg.UserName,
			}); err != nil {
				return err
			}

			data, err := client.WaitFor(ws.MsgRoomEntered)
			if err != nil {
				return err
			}

			var room *model.Room
			if err := json.Unmarshal(data, &room); err != nil {
				return fmt.Errorf("decoding room: %w", err)
			}
			if room == nil {
				return fmt.Errorf("could not join room %s (full or missing)", args[0])
			}

			NewOutput(cfg.Output).PrintRoom(room)
			return nil
		},
	}
}

func newLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <room-id>",
		Short: "Leave a room",
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
			if err := client.Send(ws.MsgLeaveRoom, ws.LeaveRoomPayload{
				RoomID:   model.RoomID(args[0]),
				PlayerID: model.UserID(cfg.UserID),
			}); err != nil {
				return err
			}

			data, err := client.WaitFor(ws.MsgRoomLeft)
			if err != nil {
				return err
			}

			var result ws.RoomLeftData
			if err := json.Unmarshal(data, &result); err != nil {
				return fmt.Errorf("decoding result: %w", err)
			}

			NewOutput(cfg.Output).PrintMessage(result.Message)
			return nil
		},
	}
}
