package command

import (
	"errors"
	"testing"

	"github.com/dekarrin/notea/internal/action"
	"github.com/dekarrin/notea/internal/nterrors"
	"github.com/dekarrin/notea/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	g        *world.Graph
	reg      *action.Registry
	pc       *world.Thing
	bedroom  *world.Thing
	lamp     *world.Thing
	cube     *world.Thing
	gown     *world.Thing
	hair     *world.Thing
	tooth    *world.Thing
	heldCube *world.Thing
}

func newFixture(t *testing.T) fixture {
	var f fixture
	f.g = world.New()
	f.reg = action.NewRegistry()

	noop := func(s action.Session, objs []*world.Thing) error { return nil }
	f.reg.Register([]string{"look"}, action.Any(), nil, noop)
	f.reg.Register([]string{"examine"}, action.Any(), nil, noop)
	f.reg.Register([]string{"get"}, action.Any(), nil, noop)
	f.reg.Register([]string{"go"}, action.Any(), nil, noop)
	f.reg.Register([]string{"turn"}, action.Any(), nil, noop)
	f.reg.Register([]string{"turn on"}, action.Any(), nil, noop)
	f.reg.Register([]string{"put"}, action.Any(), nil, noop)
	require.NoError(t, f.reg.Alias("x", "examine"))
	require.NoError(t, f.reg.Alias("pick up", "get"))
	require.NoError(t, f.reg.Alias("look at", "examine"))

	f.bedroom = f.g.NewRoom([]string{"Bedroom"}, "")
	f.pc = f.g.NewPlayer("Arthur Dent")
	f.lamp = f.g.NewThing([]string{"light", "lamp"}, "")
	f.cube = f.g.NewItem([]string{"cube"}, "")
	f.gown = f.g.NewItem([]string{"tatty dressing gown", "robe", "gown"}, "")
	f.hair = f.g.NewItem([]string{"hair brush"}, "")
	f.tooth = f.g.NewItem([]string{"tooth brush"}, "")
	f.heldCube = f.g.NewItem([]string{"cube"}, "")

	for _, th := range []*world.Thing{f.pc, f.lamp, f.cube, f.gown, f.hair, f.tooth} {
		require.NoError(t, f.g.SetLocation(th, f.bedroom))
	}
	require.NoError(t, f.g.SetLocation(f.heldCube, f.pc))
	return f
}

func Test_Parser_Parse(t *testing.T) {
	testCases := []struct {
		name         string
		input        string
		expectAction string
		expectVerb   string
		expectObjs   func(f fixture) []*world.Thing
		expectErr    *nterrors.ParseFailure
	}{
		{
			name:         "intransitive",
			input:        "look",
			expectAction: "look",
			expectVerb:   "look",
			expectObjs:   func(f fixture) []*world.Thing { return nil },
		},
		{
			name:         "case-insensitive verb and object",
			input:        "EXAMINE Lamp",
			expectAction: "examine",
			expectVerb:   "examine",
			expectObjs:   func(f fixture) []*world.Thing { return []*world.Thing{f.lamp} },
		},
		{
			name:         "alias resolves to action",
			input:        "x light",
			expectAction: "examine",
			expectVerb:   "x",
			expectObjs:   func(f fixture) []*world.Thing { return []*world.Thing{f.lamp} },
		},
		{
			name:         "longest verb wins",
			input:        "turn on the lamp",
			expectAction: "turn on",
			expectVerb:   "turn on",
			expectObjs:   func(f fixture) []*world.Thing { return []*world.Thing{f.lamp} },
		},
		{
			name:         "multi-word alias",
			input:        "pick up robe",
			expectAction: "get",
			expectVerb:   "pick up",
			expectObjs:   func(f fixture) []*world.Thing { return []*world.Thing{f.gown} },
		},
		{
			name:         "longest name phrase",
			input:        "get the tatty dressing gown",
			expectAction: "get",
			expectVerb:   "get",
			expectObjs:   func(f fixture) []*world.Thing { return []*world.Thing{f.gown} },
		},
		{
			name:         "inventory wins a shared name",
			input:        "examine cube",
			expectAction: "examine",
			expectVerb:   "examine",
			expectObjs:   func(f fixture) []*world.Thing { return []*world.Thing{f.heldCube} },
		},
		{
			name:         "two objects in sentence order",
			input:        "put gown on lamp",
			expectAction: "put",
			expectVerb:   "put",
			expectObjs:   func(f fixture) []*world.Thing { return []*world.Thing{f.gown, f.lamp} },
		},
		{
			name:         "partial name",
			input:        "examine tatty gown",
			expectAction: "examine",
			expectVerb:   "examine",
			expectObjs:   func(f fixture) []*world.Thing { return []*world.Thing{f.gown} },
		},
		{
			name:         "partial unique name",
			input:        "get hair",
			expectAction: "get",
			expectVerb:   "get",
			expectObjs:   func(f fixture) []*world.Thing { return []*world.Thing{f.hair} },
		},
		{
			name:         "room noun",
			input:        "look at room",
			expectAction: "examine",
			expectVerb:   "look at",
			expectObjs:   func(f fixture) []*world.Thing { return []*world.Thing{f.bedroom} },
		},
		{
			name:         "direction object",
			input:        "go north",
			expectAction: "go",
			expectVerb:   "go",
			expectObjs: func(f fixture) []*world.Thing {
				n, _ := f.g.Direction("n")
				return []*world.Thing{n}
			},
		},
		{
			name:         "bare direction goes",
			input:        "Sw",
			expectAction: "go",
			expectVerb:   "go",
			expectObjs: func(f fixture) []*world.Thing {
				sw, _ := f.g.Direction("southwest")
				return []*world.Thing{sw}
			},
		},
		{
			name:      "punctuation only",
			input:     "?!",
			expectErr: &nterrors.ParseFailure{Kind: nterrors.NoInput},
		},
		{
			name:      "unknown verb",
			input:     "xyzzy lamp",
			expectErr: &nterrors.ParseFailure{Kind: nterrors.UnknownAction, Phrase: "xyzzy"},
		},
		{
			name:      "verb must end on a word boundary",
			input:     "lookout",
			expectErr: &nterrors.ParseFailure{Kind: nterrors.UnknownAction, Phrase: "lookout"},
		},
		{
			name:      "unknown object",
			input:     "examine nonexistent",
			expectErr: &nterrors.ParseFailure{Kind: nterrors.UnknownObject, Phrase: "nonexistent"},
		},
		{
			name:      "unknown object after known one",
			input:     "put cube in the nonexistent box",
			expectErr: &nterrors.ParseFailure{Kind: nterrors.UnknownObject, Phrase: "nonexistent box"},
		},
		{
			name:      "ambiguous partial name",
			input:     "get brush",
			expectErr: &nterrors.ParseFailure{Kind: nterrors.AmbiguousObject, Phrase: "brush"},
		},
		{
			name:      "too many objects",
			input:     "put cube lamp robe",
			expectErr: &nterrors.ParseFailure{Kind: nterrors.TooManyObjects},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			f := newFixture(t)
			p := NewParser(f.reg, f.g)

			actual, err := p.Parse(tc.input, f.g.Scope(f.pc))

			if tc.expectErr != nil {
				assert.True(errors.Is(err, tc.expectErr), "expected %v, got %v", tc.expectErr, err)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.input, actual.Text)
			assert.Equal(tc.expectAction, actual.Action)
			assert.Equal(tc.expectVerb, actual.Verb)
			assert.Equal(tc.expectObjs(f), actual.Objects)
		})
	}
}

func Test_Parser_Parse_ambiguousNamesCandidates(t *testing.T) {
	assert := assert.New(t)
	f := newFixture(t)
	p := NewParser(f.reg, f.g)

	_, err := p.Parse("get brush", f.g.Scope(f.pc))

	var pf *nterrors.ParseFailure
	if assert.True(errors.As(err, &pf)) {
		assert.Equal([]string{"the hair brush", "the tooth brush"}, pf.Candidates)
		assert.Equal("Did you mean the hair brush or the tooth brush?", pf.GameMessage())
	}
}

func Test_Parser_Parse_bareDirectionNeedsGo(t *testing.T) {
	assert := assert.New(t)

	g := world.New()
	reg := action.NewRegistry()
	reg.Register([]string{"look"}, action.Any(), nil, func(s action.Session, objs []*world.Thing) error { return nil })
	p := NewParser(reg, g)

	_, err := p.Parse("north", nil)

	assert.True(errors.Is(err, &nterrors.ParseFailure{Kind: nterrors.UnknownAction, Phrase: "north"}))
}

func Test_Sentences(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []string
	}{
		{name: "blank", input: "   ", expect: nil},
		{name: "single", input: "look", expect: []string{"look"}},
		{name: "trailing period", input: "get cube.", expect: []string{"get cube"}},
		{name: "two sentences", input: "get cube. solve cube.", expect: []string{"get cube", "solve cube"}},
		{name: "newlines and repeated periods", input: "n\r\nlook...  wait", expect: []string{"n", "look", "wait"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, Sentences(tc.input))
		})
	}
}
