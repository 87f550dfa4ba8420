package nterrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_GameMessage(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		expect string
	}{
		{
			name:   "no input",
			err:    Parse(NoInput, ""),
			expect: "What?",
		},
		{
			name:   "unknown action",
			err:    Parse(UnknownAction, "xyzzy"),
			expect: `I don't know the word "xyzzy".`,
		},
		{
			name:   "unknown object",
			err:    Parse(UnknownObject, "towel"),
			expect: "You see no towel here!",
		},
		{
			name:   "ambiguous between two",
			err:    Parse(AmbiguousObject, "cube", "the red cube", "the blue cube"),
			expect: "Did you mean the red cube or the blue cube?",
		},
		{
			name:   "ambiguous between three",
			err:    Parse(AmbiguousObject, "cube", "the red cube", "the blue cube", "the green cube"),
			expect: "Did you mean the red cube, the blue cube, or the green cube?",
		},
		{
			name:   "handler error with plain cause",
			err:    &HandlerError{Action: "get", Err: errors.New("boom")},
			expect: GenericFailure,
		},
		{
			name:   "handler error around invalid location",
			err:    &HandlerError{Action: "put", Err: &InvalidLocationError{Thing: "box", Container: "box", Reason: "a thing cannot contain itself"}},
			expect: GenericFailure,
		},
		{
			name:   "handler error with a game message",
			err:    &HandlerError{Action: "open", Err: Game("It's locked.", "")},
			expect: "It's locked.",
		},
		{
			name:   "wrapped game error",
			err:    fmt.Errorf("save: %w", WrapGame(errors.New("disk full"), "Save failed.", "")),
			expect: "Save failed.",
		},
		{
			name:   "plain error",
			err:    errors.New("plain"),
			expect: "plain",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, GameMessage(tc.err))
		})
	}
}

func Test_ParseFailure_Is(t *testing.T) {
	assert := assert.New(t)
	err := fmt.Errorf("parse: %w", Parse(UnknownObject, "towel"))

	assert.ErrorIs(err, &ParseFailure{Kind: UnknownObject})
	assert.ErrorIs(err, &ParseFailure{Kind: UnknownObject, Phrase: "towel"})
	assert.NotErrorIs(err, &ParseFailure{Kind: UnknownObject, Phrase: "gown"})
	assert.NotErrorIs(err, &ParseFailure{Kind: UnknownAction})
}

func Test_WrapGame_unwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapGame(cause, "Save failed.", "")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk full")
}
