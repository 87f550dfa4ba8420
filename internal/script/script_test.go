package script_test

import (
	"context"
	"testing"
	"time"

	"github.com/dekarrin/notea/internal/action"
	"github.com/dekarrin/notea/internal/game"
	"github.com/dekarrin/notea/internal/script"
	"github.com/dekarrin/notea/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scene struct {
	g       *game.Game
	rt      *script.Runtime
	bedroom *world.Thing
	porch   *world.Thing
	lamp    *world.Thing
	gown    *world.Thing
}

func newScene(t *testing.T) scene {
	g := game.New("Scripts")
	w := g.World()

	sc := scene{g: g, rt: script.New()}
	t.Cleanup(sc.rt.Close)

	var err error
	sc.bedroom, err = w.Create(world.KindRoom, "bedroom", []string{"Bedroom"}, "A mess.")
	require.NoError(t, err)
	sc.porch, err = w.Create(world.KindRoom, "porch", []string{"Front Porch"}, "The front!")
	require.NoError(t, err)
	sc.lamp, err = w.Create(world.KindThing, "lamp", []string{"lamp"}, "")
	require.NoError(t, err)
	sc.gown, err = w.Create(world.KindItem, "gown", []string{"gown"}, "")
	require.NoError(t, err)

	require.NoError(t, w.Link(sc.bedroom, "s", sc.porch))
	require.NoError(t, w.SetLocation(sc.lamp, sc.bedroom))
	require.NoError(t, w.SetLocation(sc.gown, sc.bedroom))
	require.NoError(t, g.Place(sc.bedroom))
	return sc
}

func (sc scene) on(t *testing.T, verb, src string) {
	chunk, err := sc.rt.Compile(verb, src)
	require.NoError(t, err)
	sc.g.On([]string{verb}, action.Any(), chunk.Handler())
}

func narration(entries []game.Entry) []string {
	var texts []string
	for _, e := range entries {
		if !e.Echo {
			texts = append(texts, e.Text)
		}
	}
	return texts
}

func Test_Chunk_Handler(t *testing.T) {
	testCases := []struct {
		name   string
		src    string
		input  string
		expect []string
	}{
		{
			name:   "narrate",
			src:    `game.narrate("Hello.")`,
			input:  "greet",
			expect: []string{"Hello."},
		},
		{
			name:   "objects are labels",
			src:    `game.narrate("You poke the " .. objects[1] .. ".")`,
			input:  "greet lamp",
			expect: []string{"You poke the lamp."},
		},
		{
			name:   "no objects",
			src:    `game.narrate(tostring(#objects))`,
			input:  "greet",
			expect: []string{"0"},
		},
		{
			name:   "attributes",
			src:    `game.set("lamp", "fuel", 3); game.narrate(tostring(game.get("lamp", "fuel") + 1))`,
			input:  "greet",
			expect: []string{"4"},
		},
		{
			name:   "unset attribute is nil",
			src:    `if game.get("lamp", "lit") == nil then game.narrate("unlit") end`,
			input:  "greet",
			expect: []string{"unlit"},
		},
		{
			name:   "here and location",
			src:    `game.narrate(game.here() .. " " .. game.location("gown") .. " " .. game.location("player"))`,
			input:  "greet",
			expect: []string{"bedroom bedroom bedroom"},
		},
		{
			name:   "move and holding",
			src:    `game.move("gown", "player"); if game.holding("gown") then game.narrate("held") end`,
			input:  "greet",
			expect: []string{"held"},
		},
		{
			name:   "move out of play",
			src:    `game.move("lamp", "nowhere"); game.narrate(game.location("lamp"))`,
			input:  "greet",
			expect: []string{"nowhere"},
		},
		{
			name:   "run another command",
			src:    `if game.run("wait") then game.narrate("waited") end`,
			input:  "greet",
			expect: []string{"Time passes.", "waited"},
		},
		{
			name:   "run a command that does not parse",
			src:    `if not game.run("xyzzy") then game.narrate("nope") end`,
			input:  "greet",
			expect: []string{`I don't know the word "xyzzy".`, "nope"},
		},
		{
			name:   "score",
			src:    `game.score(5); game.narrate(tostring(game.score()))`,
			input:  "greet",
			expect: []string{"5"},
		},
		{
			name:   "unknown label is an error",
			src:    `game.move("towel", "player")`,
			input:  "greet",
			expect: []string{"Something went wrong. (The game may be in an odd state.)"},
		},
		{
			name:   "runtime error",
			src:    `error("boom")`,
			input:  "greet",
			expect: []string{"Something went wrong. (The game may be in an odd state.)"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			sc := newScene(t)
			sc.on(t, "greet", tc.src)

			out := narration(sc.g.Step(context.Background(), tc.input))

			assert.Equal(tc.expect, out)
		})
	}
}

func Test_Chunk_Handler_runsOtherScript(t *testing.T) {
	assert := assert.New(t)
	sc := newScene(t)
	sc.on(t, "spin", `game.narrate("You spin the " .. objects[1] .. ".")`)
	sc.on(t, "greet", `
		if game.run("spin lamp") then
			game.narrate("Then you greet the " .. objects[1] .. ".")
		end
	`)

	out := narration(sc.g.Step(context.Background(), "greet gown"))

	assert.Equal([]string{"You spin the lamp.", "Then you greet the gown."}, out)
	assert.Equal(1, sc.g.Moves())
}

func Test_Chunk_Handler_nestedScriptFailure(t *testing.T) {
	assert := assert.New(t)
	sc := newScene(t)
	sc.on(t, "spin", `error("dizzy")`)
	sc.on(t, "greet", `
		if not game.run("spin") then
			game.narrate("You think better of it.")
		end
	`)

	out := narration(sc.g.Step(context.Background(), "greet"))

	assert.Equal("You think better of it.", out[len(out)-1])
}

func Test_Chunk_GroupHandler_cancels(t *testing.T) {
	assert := assert.New(t)
	sc := newScene(t)

	chunk, err := sc.rt.Compile("dark", `
		if not game.get("lamp", "lit") then
			game.narrate("It's too dark to see!")
			return true
		end
	`)
	require.NoError(t, err)
	sc.g.OnGroup("sight", action.Any(), chunk.GroupHandler())

	assert.Equal([]string{"It's too dark to see!"}, narration(sc.g.Step(context.Background(), "look")))

	require.NoError(t, sc.lamp.Set("lit", true))
	assert.Equal("Bedroom", narration(sc.g.Step(context.Background(), "look"))[0])
}

func Test_Chunk_StartHandler(t *testing.T) {
	assert := assert.New(t)
	sc := newScene(t)

	chunk, err := sc.rt.Compile("start", `game.narrate("Welcome."); game.set("player", "awake", true)`)
	require.NoError(t, err)

	assert.NoError(chunk.StartHandler()(sc.g))
	assert.True(sc.g.PC().Bool("awake"))
}

func Test_Chunk_finish(t *testing.T) {
	assert := assert.New(t)
	sc := newScene(t)
	sc.on(t, "sleep", `game.narrate("You sleep."); game.finish()`)

	out := narration(sc.g.Step(context.Background(), "sleep. wait"))

	assert.Equal([]string{"You sleep."}, out)
}

func Test_Runtime_Compile_syntaxError(t *testing.T) {
	rt := script.New()
	defer rt.Close()

	_, err := rt.Compile("broken", `game.narrate("unterminated)`)

	assert.Error(t, err)
}

func Test_Chunk_Run_timeout(t *testing.T) {
	assert := assert.New(t)
	sc := newScene(t)
	sc.rt.Timeout = 50 * time.Millisecond

	chunk, err := sc.rt.Compile("spin", `while true do end`)
	require.NoError(t, err)

	_, err = chunk.Run(sc.g, nil)

	assert.Error(err)
}
