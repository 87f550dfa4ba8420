package game

import (
	"context"
	"errors"
)

// ErrNoSave is returned by a Saver when the slot has nothing saved in it.
var ErrNoSave = errors.New("no saved game in slot")

// Entry is one piece of output for the player.
type Entry struct {
	// Text is narration, or the player's own input when Echo is set.
	Text string

	// Echo marks an entry as the input line being responded to rather than
	// something the game said.
	Echo bool
}

// SessionData is the part of the session state that live front-ends show
// alongside the narration.
type SessionData struct {
	Score int `json:"score"`
	Moves int `json:"moves"`
}

// UI is a front-end that a Game can be played through. The console and the
// websocket server each provide one.
type UI interface {
	// ReadLine blocks until the player sends a line of input. It returns
	// io.EOF when the player has disconnected.
	ReadLine(ctx context.Context) (string, error)

	// Write shows the output of one command.
	Write(entries []Entry) error

	// PushState is called after every command with the current counters.
	PushState(data SessionData) error
}

// Saver stores and loads saved games. Slots name independent saves. Load
// returns an error matching ErrNoSave when the slot is empty.
type Saver interface {
	Save(ctx context.Context, slot string, data []byte) error
	Load(ctx context.Context, slot string) ([]byte, error)
}

// Status is the lifecycle state of a Game.
type Status int

const (
	Uninitialized Status = iota
	Running
	Ended
)

func (s Status) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}
