package stdact_test

import (
	"context"
	"strings"
	"testing"

	"github.com/dekarrin/notea/internal/game"
	"github.com/dekarrin/notea/internal/stdact"
	"github.com/dekarrin/notea/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type house struct {
	g       *game.Game
	bedroom *world.Thing
	porch   *world.Thing
	gown    *world.Thing
	fluff   *world.Thing
	bed     *world.Thing
	carpet  *world.Thing
}

func newHouse(t *testing.T) house {
	g := game.New("House")
	w := g.World()

	h := house{g: g}
	h.bedroom = w.NewRoom([]string{"bedroom"}, "The bedroom is a mess.")
	h.porch = w.NewRoom([]string{"front porch"}, "The front!")
	h.gown = w.NewItem([]string{"tatty dressing gown", "gown"}, "The dressing gown is faded and battered.")
	h.fluff = w.NewItem([]string{"pocket fluff"}, "")
	h.bed = w.NewThing([]string{"bed"}, "")
	h.carpet = w.NewThing([]string{"faded carpet"}, "")
	h.carpet.Background = true

	require.NoError(t, w.Connect(h.porch, "n", h.bedroom))
	require.NoError(t, w.Connect(h.bedroom, "s", h.porch))
	require.NoError(t, w.SetLocation(h.gown, h.bedroom))
	require.NoError(t, w.SetLocation(h.fluff, h.gown))
	require.NoError(t, w.SetLocation(h.bed, h.bedroom))
	require.NoError(t, w.SetLocation(h.carpet, h.bedroom))
	require.NoError(t, g.Place(h.bedroom))
	return h
}

func say(h house, lines ...string) [][]string {
	var all [][]string
	for _, line := range lines {
		var texts []string
		for _, e := range h.g.Step(context.Background(), line) {
			if !e.Echo {
				texts = append(texts, e.Text)
			}
		}
		all = append(all, texts)
	}
	return all
}

func Test_StandardActions(t *testing.T) {
	testCases := []struct {
		name   string
		lines  []string
		expect []string
	}{
		{
			name:   "look describes the room",
			lines:  []string{"look"},
			expect: []string{"Bedroom", "The bedroom is a mess.", "You can see a tatty dressing gown and a bed here."},
		},
		{
			name:   "look at room",
			lines:  []string{"examine room"},
			expect: []string{"Bedroom", "The bedroom is a mess.", "You can see a tatty dressing gown and a bed here."},
		},
		{
			name:   "examine with description and contents",
			lines:  []string{"x gown"},
			expect: []string{"The dressing gown is faded and battered.", "The tatty dressing gown contains a pocket fluff."},
		},
		{
			name:   "examine without description",
			lines:  []string{"look bed"},
			expect: []string{"You see nothing special about the bed."},
		},
		{
			name:   "examine yourself",
			lines:  []string{"examine me"},
			expect: []string{"As good-looking as ever."},
		},
		{
			name:   "examine alone",
			lines:  []string{"examine"},
			expect: []string{"What do you want to examine?"},
		},
		{
			name:   "get",
			lines:  []string{"take the gown"},
			expect: []string{"Gotten."},
		},
		{
			name:   "get twice",
			lines:  []string{"get gown", "pick up gown"},
			expect: []string{"You're already holding the tatty dressing gown."},
		},
		{
			name:   "get something fixed",
			lines:  []string{"get bed"},
			expect: []string{"You can't be serious."},
		},
		{
			name:   "get nothing",
			lines:  []string{"get"},
			expect: []string{"What do you want to get?"},
		},
		{
			name:   "drop",
			lines:  []string{"get gown", "drop gown"},
			expect: []string{"Dropped."},
		},
		{
			name:   "drop something not held",
			lines:  []string{"discard gown"},
			expect: []string{"You're not holding the tatty dressing gown."},
		},
		{
			name:   "background things are left alone",
			lines:  []string{"get carpet"},
			expect: []string{"That's not important; leave it alone."},
		},
		{
			name:   "inventory",
			lines:  []string{"get gown", "inventory"},
			expect: []string{"You have:\n  a tatty dressing gown\n    a pocket fluff"},
		},
		{
			name:   "go",
			lines:  []string{"go south"},
			expect: []string{"Front Porch", "The front!"},
		},
		{
			name:   "direction alone",
			lines:  []string{"s", "n"},
			expect: []string{"Bedroom", "The bedroom is a mess.", "You can see a tatty dressing gown and a bed here."},
		},
		{
			name:   "no exit",
			lines:  []string{"walk west"},
			expect: []string{"You can't go that way."},
		},
		{
			name:   "go nowhere",
			lines:  []string{"go"},
			expect: []string{"Where do you want to go?"},
		},
		{
			name:   "go to a thing",
			lines:  []string{"go bed"},
			expect: []string{"You can't go that way."},
		},
		{
			name:   "exits",
			lines:  []string{"exits"},
			expect: []string{"You can go south."},
		},
		{
			name:   "wait",
			lines:  []string{"z"},
			expect: []string{"Time passes."},
		},
		{
			name:   "score",
			lines:  []string{"wait", "score"},
			expect: []string{"Your score is 0 in 1 moves."},
		},
		{
			name:   "verbosity",
			lines:  []string{"superbrief"},
			expect: []string{"Superbrief descriptions."},
		},
		{
			name:   "quit",
			lines:  []string{"q"},
			expect: []string{"Goodbye."},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			h := newHouse(t)

			out := say(h, tc.lines...)

			assert.Equal(tc.expect, out[len(out)-1])
		})
	}
}

func Test_StandardActions_moves(t *testing.T) {
	assert := assert.New(t)
	h := newHouse(t)

	say(h, "get gown", "inventory", "score", "drop gown", "help", "brief")

	assert.Equal(2, h.g.Moves())
	assert.Equal(h.bedroom, h.g.World().Location(h.gown))
}

func Test_StandardActions_help(t *testing.T) {
	assert := assert.New(t)
	h := newHouse(t)

	out := say(h, "help")

	if assert.Len(out[0], 1) {
		assert.True(strings.HasPrefix(out[0][0], "Here are some of the commands you can use:"))
		assert.Contains(out[0][0], "INVENTORY/I")
	}
}

func Test_Mountable(t *testing.T) {
	assert := assert.New(t)
	h := newHouse(t)
	require.NoError(t, stdact.Mountable(h.g.Registry(), h.bed, world.Mount{}, "lie on", "sit on"))

	out := say(h,
		"lie on bed",
		"sit on bed",
		"get gown",
		"s",
		"look",
		"get off bed",
		"get off bed",
		"get on bed",
		"stand",
		"stand",
		"get gown",
	)

	assert.Equal([]string{"You are now on the bed."}, out[0])
	assert.Equal([]string{"You're already on the bed."}, out[1])
	assert.Equal([]string{"You can't reach it."}, out[2])
	assert.Equal([]string{"You'll have to get off the bed first."}, out[3])
	assert.Equal("You are on the bed.", out[4][len(out[4])-1])
	assert.Equal([]string{"You stand."}, out[5])
	assert.Equal([]string{"You're not on the bed."}, out[6])
	assert.Equal([]string{"You are now on the bed."}, out[7])
	assert.Equal([]string{"You stand."}, out[8])
	assert.Equal([]string{"You're already standing."}, out[9])
	assert.Equal([]string{"Gotten."}, out[10])
	assert.Equal(h.g.PC(), h.g.World().Location(h.gown))
}

func Test_Mountable_reachableAndSticky(t *testing.T) {
	assert := assert.New(t)
	h := newHouse(t)
	m := world.Mount{
		Reachable:  []*world.Thing{h.gown},
		Sticky:     true,
		StickyText: "The bed is too comfortable to leave.",
	}
	require.NoError(t, stdact.Mountable(h.g.Registry(), h.bed, m, "lie in"))

	out := say(h, "get in bed", "get gown", "get out of bed", "stand")

	assert.Equal([]string{"You are now in the bed."}, out[0])
	assert.Equal([]string{"Gotten."}, out[1])
	assert.Equal([]string{"The bed is too comfortable to leave."}, out[2])
	assert.Equal([]string{"The bed is too comfortable to leave."}, out[3])
	assert.Equal(h.bed, h.g.World().Position(h.g.PC()))
}

func Test_Mountable_badPhrase(t *testing.T) {
	h := newHouse(t)

	err := stdact.Mountable(h.g.Registry(), h.bed, world.Mount{}, "lie")

	assert.Error(t, err)
	assert.Nil(t, h.bed.Mount)
}

func Test_StandardActions_standout(t *testing.T) {
	assert := assert.New(t)
	h := newHouse(t)
	require.NoError(t, h.gown.Set(stdact.StandoutAttr, false))

	out := say(h, "look", "get gown", "drop gown", "look")

	assert.Contains(out[0], "You can see a bed here.")
	assert.Contains(out[3], "You can see a tatty dressing gown and a bed here.")
}
