// Package stdact has the standard actions every game starts with: looking,
// examining, taking and dropping things, moving between rooms, and the meta
// keywords such as "inventory", "score", "save" and "quit". They are ordinary
// registrations; games add handlers alongside them or register more specific
// ones to override them for particular things.
package stdact

import (
	"github.com/dekarrin/notea/internal/action"
	"github.com/dekarrin/notea/internal/world"
	"github.com/dekarrin/rosed"
)

// Groups the standard actions belong to.
const (
	GroupSight    = "sight"
	GroupTouch    = "touch"
	GroupMovement = "movement"
)

// Attributes the standard actions read and set.
const (
	// VisitedAttr is set on a room once the player has seen its description.
	VisitedAttr = "visited"

	// StandoutAttr set to false keeps a thing out of the list of what is in a
	// room, for things the room's description already mentions.
	StandoutAttr = "standout"

	// MovedAttr is set on a thing once the player has picked it up or dropped
	// it.
	MovedAttr = "moved"
)

var commandHelp = [][2]string{
	{"LOOK/L", "describe the room you are in"},
	{"EXAMINE/X [thing]", "look closely at something"},
	{"GET/TAKE [thing]", "pick something up"},
	{"DROP [thing]", "put down something you are holding"},
	{"GO [direction]", "leave the room in a direction; the direction alone (N, SW, UP) also works"},
	{"STAND", "get up from whatever you are on or in"},
	{"EXITS", "list the ways out of the room"},
	{"WAIT/Z", "let time pass"},
	{"INVENTORY/I", "list what you are carrying"},
	{"SCORE", "show your score and the number of moves"},
	{"SAVE, RESTORE", "save the game, or go back to the last save"},
	{"VERBOSE, BRIEF, SUPERBRIEF", "describe rooms every time, the first time only, or never"},
	{"QUIT/Q", "end the game"},
}

// Register adds the standard actions to r.
func Register(r *action.Registry) {
	registerWorldActions(r)
	registerKeywords(r)
}

func mustAlias(r *action.Registry, act string, aliases ...string) {
	for _, a := range aliases {
		if err := r.Alias(a, act); err != nil {
			// the standard aliases never collide with each other
			panic(err)
		}
	}
}

func registerKeywords(r *action.Registry) {
	r.Register([]string{"inventory"}, action.Any(), nil, inventory)
	mustAlias(r, "inventory", "i", "inv")

	r.Register([]string{"score"}, action.Any(), nil, func(s action.Session, objs []*world.Thing) error {
		s.Narratef("Your score is %d in %d moves.", s.Score(), s.Moves())
		return nil
	})

	r.Register([]string{"quit"}, action.Any(), nil, func(s action.Session, objs []*world.Thing) error {
		s.Narrate("Goodbye.")
		s.End()
		return nil
	})
	mustAlias(r, "quit", "q")

	r.Register([]string{"save"}, action.Any(), nil, func(s action.Session, objs []*world.Thing) error {
		s.Save()
		return nil
	})

	r.Register([]string{"restore"}, action.Any(), nil, func(s action.Session, objs []*world.Thing) error {
		s.Restore()
		return nil
	})
	mustAlias(r, "restore", "load")

	r.Register([]string{"verbose"}, action.Any(), nil, setVerbosity(action.Verbose, "Verbose descriptions."))
	r.Register([]string{"brief"}, action.Any(), nil, setVerbosity(action.Brief, "Brief descriptions."))
	r.Register([]string{"superbrief"}, action.Any(), nil, setVerbosity(action.Superbrief, "Superbrief descriptions."))

	r.Register([]string{"help"}, action.Any(), nil, func(s action.Session, objs []*world.Thing) error {
		ed := rosed.
			Edit("").
			WithOptions(rosed.Options{ParagraphSeparator: "\n"}).
			InsertDefinitionsTable(0, commandHelp, 80)
		s.Narrate(ed.Insert(0, "Here are some of the commands you can use:\n").String())
		return nil
	})

	r.SetMeta("inventory", "score", "quit", "save", "restore", "verbose", "brief", "superbrief", "help")
}

func setVerbosity(v action.Verbosity, msg string) action.Handler {
	return func(s action.Session, objs []*world.Thing) error {
		s.SetVerbosity(v)
		s.Narrate(msg)
		return nil
	}
}

func inventory(s action.Session, objs []*world.Thing) error {
	held := s.World().Inventory(s.PC())
	if len(held) == 0 {
		s.Narrate("You have nothing.")
		return nil
	}

	text := "You have:"
	for _, t := range held {
		text += "\n  " + t.A()
		for _, inner := range s.World().Contents(t) {
			text += "\n    " + inner.A()
		}
	}
	s.Narrate(text)
	return nil
}
