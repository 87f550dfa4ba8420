// Package nterrors holds the error types used across notea. Errors that have
// something to tell the player implement GameMessage; front-ends show that
// message instead of the technical one.
package nterrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAlreadyStarted is returned when Start is called on a game that has
	// already left the Uninitialized state.
	ErrAlreadyStarted = errors.New("game has already been started")

	// ErrEnded is returned by operations that require a game that has not yet
	// ended.
	ErrEnded = errors.New("game has ended")

	// ErrDoDepth is returned when nested Do calls recurse too deeply.
	ErrDoDepth = errors.New("too many nested commands")
)

// messenger is implemented by every error that carries an in-game message.
type messenger interface {
	GameMessage() string
}

// FailureKind is the category of a ParseFailure.
type FailureKind int

const (
	UnknownAction FailureKind = iota
	UnknownObject
	AmbiguousObject
	NoInput
	TooManyObjects
)

func (fk FailureKind) String() string {
	switch fk {
	case UnknownAction:
		return "UnknownAction"
	case UnknownObject:
		return "UnknownObject"
	case AmbiguousObject:
		return "AmbiguousObject"
	case NoInput:
		return "NoInput"
	case TooManyObjects:
		return "TooManyObjects"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(fk))
	}
}

// ParseFailure is returned when a sentence could not be resolved into an
// action and its objects. It never changes game state; the session narrates
// its GameMessage and moves on.
type ParseFailure struct {
	Kind FailureKind

	// Phrase is the text that could not be understood. For UnknownAction it is
	// the first word of the sentence; for UnknownObject and AmbiguousObject it
	// is the object phrase.
	Phrase string

	// Candidates holds the display names (with definite articles) of the
	// things an AmbiguousObject phrase could refer to.
	Candidates []string
}

func (pf *ParseFailure) Error() string {
	switch pf.Kind {
	case AmbiguousObject:
		return fmt.Sprintf("parse failure: %s %q matches %s", pf.Kind, pf.Phrase, strings.Join(pf.Candidates, ", "))
	case NoInput, TooManyObjects:
		return fmt.Sprintf("parse failure: %s", pf.Kind)
	default:
		return fmt.Sprintf("parse failure: %s %q", pf.Kind, pf.Phrase)
	}
}

// GameMessage is the narration shown to the player for the failure.
func (pf *ParseFailure) GameMessage() string {
	switch pf.Kind {
	case NoInput:
		return "What?"
	case UnknownAction:
		return fmt.Sprintf("I don't know the word %q.", pf.Phrase)
	case UnknownObject:
		return fmt.Sprintf("You see no %s here!", pf.Phrase)
	case AmbiguousObject:
		return "Did you mean " + orList(pf.Candidates) + "?"
	case TooManyObjects:
		return "You can't use that many things at once."
	default:
		return "I don't understand that."
	}
}

// Is makes errors.Is match any ParseFailure of the same Kind when the target
// has no phrase set.
func (pf *ParseFailure) Is(target error) bool {
	other, ok := target.(*ParseFailure)
	if !ok {
		return false
	}
	if other.Phrase == "" {
		return other.Kind == pf.Kind
	}
	return other.Kind == pf.Kind && other.Phrase == pf.Phrase
}

// Parse returns a new ParseFailure.
func Parse(kind FailureKind, phrase string, candidates ...string) error {
	return &ParseFailure{Kind: kind, Phrase: phrase, Candidates: candidates}
}

// InvalidLocationError is returned when moving a thing would break the
// location graph: a thing inside itself, a thing inside something it
// contains, or a container from another world.
type InvalidLocationError struct {
	Thing     string
	Container string
	Reason    string
}

func (e *InvalidLocationError) Error() string {
	return fmt.Sprintf("cannot place %q in %q: %s", e.Thing, e.Container, e.Reason)
}

// GenericFailure is narrated when a handler fails without a message of its own.
const GenericFailure = "Something went wrong. (The game may be in an odd state.)"

// HandlerError wraps a failure that came out of a registered handler, either
// as a returned error or a recovered panic.
type HandlerError struct {
	Action string
	Err    error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler for %q: %v", e.Action, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}

// GameMessage is the narration shown when a handler fails. A handler that
// failed with an error carrying its own game message gets that message;
// anything else gets a generic one.
func (e *HandlerError) GameMessage() string {
	var m messenger
	if errors.As(e.Err, &m) {
		return m.GameMessage()
	}
	return GenericFailure
}

// gameError is an error with a separate message for the player.
type gameError struct {
	msg   string
	human string
	wrap  error
}

func (e *gameError) Error() string {
	return e.msg
}

func (e *gameError) GameMessage() string {
	return e.human
}

func (e *gameError) Unwrap() error {
	return e.wrap
}

// Game returns an error that shows the given message to the player. If
// technical is empty, one is generated.
func Game(human, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("game error: %q", human)
	}
	return &gameError{msg: technical, human: human}
}

// Gamef is Game with a formatted player message.
func Gamef(format string, a ...interface{}) error {
	return Game(fmt.Sprintf(format, a...), "")
}

// WrapGame is Game that also wraps e.
func WrapGame(e error, human, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("game error: %q: %v", human, e)
	}
	return &gameError{msg: technical, human: human, wrap: e}
}

// GameMessage gets the message to show the player for err. Errors that carry
// a game message anywhere in their chain use it; anything else gives
// err.Error().
func GameMessage(err error) string {
	var m messenger
	if errors.As(err, &m) {
		return m.GameMessage()
	}
	return err.Error()
}

func orList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " or " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", or " + items[len(items)-1]
	}
}
