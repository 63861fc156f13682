package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/seiwell/gomokuhub/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// PrintJSON outputs data as indented JSON
func (o *Output) PrintJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

// PrintRoom outputs one room
func (o *Output) PrintRoom(room *model.Room) {
	if room == nil {
		o.PrintMessage("(no room)")
		return
	}
	if o.format == "json" {
		o.PrintJSON(room)
		return
	}

	fmt.Printf("Room %s (%s)\n", room.Name, room.ID)
	fmt.Printf("  game: status=%d turn=%d", room.Game.Status, room.Game.CurrentTurn)
	if room.Game.Winner != nil {
		fmt.Printf(" winner=%s", *room.Game.Winner)
	}
	fmt.Println()
	for _, p := range room.Players {
		fmt.Printf("  player %s (%s) status=%d\n", p.Name, p.ID, p.Status)
	}
}

// PrintRooms outputs a room list
func (o *Output) PrintRooms(rooms []*model.Room) {
	if o.format == "json" {
		o.PrintJSON(rooms)
		return
	}
	if len(rooms) == 0 {
		fmt.Println("No rooms")
		return
	}
	for _, room := range rooms {
		fmt.Printf("%s  %s  players=%d  status=%d\n",
			room.ID, room.Name, len(room.Players), room.Game.Status)
	}
}
