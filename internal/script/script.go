// Package script runs handlers written in Lua. World files attach snippets of
// Lua to actions; Compile turns each snippet into a function that the action
// registry can call like any handler written in Go.
//
// A snippet sees two globals while it runs. "objects" is a list of the labels
// of the objects of the command, and "game" is a table of functions that act on
// the session the command is running in:
//
//	game.narrate(text)         add text to the output
//	game.run(command)          run another command; true if it succeeded
//	game.get(label, attr)      read an attribute; nil if unset
//	game.set(label, attr, v)   set an attribute; nil unsets it
//	game.move(label, dest)     move a thing into another
//	game.location(label)       label of the thing's container
//	game.here()                label of the player's room
//	game.holding(label)        whether the player holds the thing
//	game.score([n])            add n to the score and return the score
//	game.moves()               number of moves made
//	game.finish()              end the game after the current command
//
// Wherever a label is expected, "player" refers to the player character, "here"
// to their room and "nowhere" to the place out of play. A snippet that returns
// a true value from a group handler cancels the command.
package script

import (
	"context"
	"fmt"
	"time"

	"github.com/dekarrin/notea/internal/action"
	"github.com/dekarrin/notea/internal/world"
	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout is the longest a single snippet may run for before it is
// stopped.
const DefaultTimeout = 2 * time.Second

// Runtime holds the Lua state that compiled snippets run in. A Runtime is not
// safe for concurrent use; each game session should have its own.
type Runtime struct {
	L *lua.LState

	// Timeout bounds the run time of one snippet. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Chunk is a compiled snippet.
type Chunk struct {
	rt   *Runtime
	name string
	fn   *lua.LFunction
}

// New creates a Runtime with the Lua base libraries loaded.
func New() *Runtime {
	return &Runtime{L: lua.NewState()}
}

// Close releases the Lua state. Chunks compiled by the Runtime must not be run
// afterwards.
func (rt *Runtime) Close() {
	rt.L.Close()
}

// Compile parses src. name is used in error messages.
func (rt *Runtime) Compile(name, src string) (*Chunk, error) {
	fn, err := rt.L.LoadString(src)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return &Chunk{rt: rt, name: name, fn: fn}, nil
}

// Run calls the chunk with s as the session and objs as the objects, and
// returns whether the chunk returned a true value.
func (c *Chunk) Run(s action.Session, objs []*world.Thing) (bool, error) {
	L := c.rt.L

	// a chunk run from game.run inside another chunk shares the outer chunk's
	// deadline and must hand its globals back when it returns.
	if L.Context() == nil {
		timeout := c.rt.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		L.SetContext(ctx)
		defer L.RemoveContext()
	}

	prevGame, prevObjects := L.GetGlobal("game"), L.GetGlobal("objects")
	defer func() {
		L.SetGlobal("game", prevGame)
		L.SetGlobal("objects", prevObjects)
	}()

	L.SetGlobal("game", injectGameAPI(L, s))
	L.SetGlobal("objects", labelList(L, objs))

	err := L.CallByParam(lua.P{
		Fn:      c.fn,
		NRet:    1,
		Protect: true,
	})
	if err != nil {
		return false, fmt.Errorf("script %s: %w", c.name, err)
	}

	ret := L.Get(-1)
	L.Pop(1)
	return lua.LVAsBool(ret), nil
}

// Handler adapts the chunk to an action handler. Its return value is ignored.
func (c *Chunk) Handler() action.Handler {
	return func(s action.Session, objs []*world.Thing) error {
		_, err := c.Run(s, objs)
		return err
	}
}

// GroupHandler adapts the chunk to a group handler.
func (c *Chunk) GroupHandler() action.GroupHandler {
	return c.Run
}

// StartHandler adapts the chunk to a handler run when a game starts. It is run
// with no objects.
func (c *Chunk) StartHandler() func(s action.Session) error {
	return func(s action.Session) error {
		_, err := c.Run(s, nil)
		return err
	}
}

func labelList(L *lua.LState, objs []*world.Thing) *lua.LTable {
	tbl := L.NewTable()
	for _, t := range objs {
		tbl.Append(lua.LString(t.Label))
	}
	return tbl
}
