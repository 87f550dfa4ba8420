package game

import (
	"errors"
	"fmt"

	"github.com/dekarrin/notea/internal/action"
	"github.com/dekarrin/notea/internal/command"
	"github.com/dekarrin/notea/internal/nterrors"
	"github.com/dekarrin/notea/internal/world"
)

// MaxDoDepth is how deeply Do calls can nest inside handlers.
const MaxDoDepth = 32

const (
	msgNoAction   = "I don't know how to do that."
	msgNotApplied = "You can't do that."
)

// Outcome is what happened when a command was dispatched.
type Outcome struct {
	Action string

	// Cancelled is set when a group handler stopped the command.
	Cancelled bool

	// Handled is set when at least one action handler ran to completion.
	Handled bool

	// NoHandler is set when nothing was registered that applies to the
	// command.
	NoHandler bool
}

// dispatch runs the group handlers and then the action handlers for cmd. The
// implicit "all" group runs first, then the action's groups in the order they
// were given. A group handler that returns true stops the command. Handler
// errors and panics are returned as *nterrors.HandlerError and stop the
// command where it is.
func (g *Game) dispatch(cmd command.Parsed) (Outcome, error) {
	out := Outcome{Action: cmd.Action}

	if !g.registry.Has(cmd.Action) {
		g.Narrate(msgNoAction)
		out.NoHandler = true
		return out, nil
	}

	groups := append([]string{action.GroupAll}, g.registry.GroupsFor(cmd.Action)...)
	for _, group := range groups {
		for _, reg := range g.registry.GroupHandlersFor(group, cmd.Objects) {
			cancel, err := g.invoke(cmd.Action, reg, cmd.Objects)
			if err != nil {
				return out, err
			}
			if cancel {
				out.Cancelled = true
				return out, nil
			}
		}
	}

	handlers := g.registry.HandlersFor(cmd.Action, cmd.Objects)
	if len(handlers) == 0 {
		g.Narrate(msgNotApplied)
		out.NoHandler = true
		return out, nil
	}

	for _, reg := range handlers {
		if _, err := g.invoke(cmd.Action, reg, cmd.Objects); err != nil {
			return out, err
		}
		out.Handled = true
	}

	return out, nil
}

// invoke runs a single handler, turning a returned error or a panic into a
// HandlerError.
func (g *Game) invoke(act string, reg *action.Registration, objs []*world.Thing) (cancel bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			cancel = false
			err = &nterrors.HandlerError{Action: act, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	cancel, err = reg.Invoke(g, objs)
	if err != nil {
		var shown *narratedError
		if errors.As(err, &shown) {
			// the player has already been told; the handler just stopped early
			g.log.Debug().Err(err).Str("action", act).Msg("handler returned a nested parse failure")
			return cancel, nil
		}

		var handlerErr *nterrors.HandlerError
		if !errors.As(err, &handlerErr) {
			err = &nterrors.HandlerError{Action: act, Err: err}
		}
	}
	return cancel, err
}

// narratedError is a failure from Do that was narrated when it happened.
type narratedError struct {
	err error
}

func (e *narratedError) Error() string {
	return e.err.Error()
}

func (e *narratedError) Unwrap() error {
	return e.err
}

// Do runs text as if the player had typed it, as part of the current command.
// Nothing is echoed and no move is counted. Parse failures are narrated and
// returned; a handler that passes one on just stops, and the command carries on
// as if it had returned nil. A handler failure stops the nested command and is
// returned without being narrated; a handler that returns it has it reported
// as its own failure.
func (g *Game) Do(text string) error {
	if g.depth >= MaxDoDepth {
		return nterrors.ErrDoDepth
	}
	g.depth++
	defer func() {
		g.depth--
	}()

	for _, sentence := range command.Sentences(text) {
		cmd, err := g.parser.Parse(sentence, g.scope())
		if err != nil {
			g.Narrate(nterrors.GameMessage(err))
			return &narratedError{err: err}
		}

		g.log.Debug().Str("action", cmd.Action).Int("depth", g.depth).Msg("dispatching nested command")
		if _, err := g.dispatch(cmd); err != nil {
			return err
		}
		if g.ending {
			break
		}
	}
	return nil
}
