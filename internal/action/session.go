package action

import (
	"fmt"

	"github.com/dekarrin/notea/internal/world"
)

// Session is what a handler can see and do while it runs. It is implemented by
// the game session that is dispatching the command.
type Session interface {
	// Narrate appends text to the output of the current command.
	Narrate(text string)

	// Narratef is Narrate with a formatted message.
	Narratef(format string, a ...interface{})

	// Do parses and dispatches text as if the player had typed it, inside the
	// current turn. It returns the parse failure (after narrating it) or the
	// handler error that stopped the nested command, if any.
	Do(text string) error

	// World is the entity graph of the session.
	World() *world.Graph

	// PC is the player character.
	PC() *world.Thing

	// Here is the room the player character is in, or nil.
	Here() *world.Thing

	Score() int
	AddScore(n int)
	Moves() int

	// End asks the session to stop once the current command is done.
	End()

	// Save and Restore ask the session to save or restore the game once the
	// current command is done.
	Save()
	Restore()

	Verbosity() Verbosity
	SetVerbosity(v Verbosity)
}

// Verbosity controls how much is said about a room when the player enters it.
type Verbosity int

const (
	// Verbose describes a room every time it is entered.
	Verbose Verbosity = iota

	// Brief describes a room only the first time it is entered.
	Brief

	// Superbrief never describes a room on entry, only its name.
	Superbrief
)

func (v Verbosity) String() string {
	switch v {
	case Verbose:
		return "verbose"
	case Brief:
		return "brief"
	case Superbrief:
		return "superbrief"
	default:
		return fmt.Sprintf("Verbosity(%d)", int(v))
	}
}

// Handler responds to an action. objs are the resolved objects of the
// command, empty when the action was used on its own.
type Handler func(s Session, objs []*world.Thing) error

// GroupHandler runs before the handlers of every action in its group. If it
// returns true, the command is cancelled: no further group handlers and no
// action handlers run.
type GroupHandler func(s Session, objs []*world.Thing) (cancel bool, err error)
