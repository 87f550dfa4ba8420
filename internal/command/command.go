// Package command turns player input into commands: it splits a line into
// sentences and resolves each sentence into an action and the things it acts
// on. It also defines the Reader interface that line sources implement.
package command

import (
	"strings"

	"github.com/dekarrin/notea/internal/world"
)

// Parsed is a sentence resolved against the current scope.
type Parsed struct {
	// Text is the sentence as it was given.
	Text string

	// Verb is the action phrase found at the start of the sentence, folded.
	// It is the phrase the player used, which may be an alias of Action.
	Verb string

	// Action is the registered action the verb names.
	Action string

	// Objects are the things the sentence refers to, in the order they
	// appear. It is empty when the action is used on its own.
	Objects []*world.Thing
}

// Reader is a type that can be used for getting command input.
type Reader interface {
	// ReadCommand reads a single line of input. It will block until one is
	// ready. If there is an error or output is at end (EOF), the returned
	// string will be empty.
	//
	// When error is io.EOF, string will always be empty. If EOF was encountered
	// on a call but some input was received, the input will be returned and
	// error will be nil, and the next call to ReadCommand will return "",
	// io.EOF.
	ReadCommand() (string, error)

	// Close performs any operations required to clean the resources created by
	// the Reader. It should be called at least once when the Reader is no
	// longer needed.
	Close() error
}

// Sentences splits a line of input into the sentences it contains. Periods and
// line breaks end a sentence. Empty sentences are dropped, so a blank line
// gives no sentences at all.
func Sentences(line string) []string {
	parts := strings.FieldsFunc(line, func(r rune) bool {
		return r == '.' || r == '\n' || r == '\r'
	})

	var sentences []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}
