package action

import (
	"testing"

	"github.com/dekarrin/notea/internal/world"
	"github.com/stretchr/testify/assert"
)

// recorder builds handlers that note their name in calls when run.
type recorder struct {
	calls []string
}

func (rec *recorder) handler(name string) Handler {
	return func(s Session, objs []*world.Thing) error {
		rec.calls = append(rec.calls, name)
		return nil
	}
}

func (rec *recorder) group(name string, cancel bool) GroupHandler {
	return func(s Session, objs []*world.Thing) (bool, error) {
		rec.calls = append(rec.calls, name)
		return cancel, nil
	}
}

func invokeAll(regs []*Registration, objs []*world.Thing) {
	for _, reg := range regs {
		_, _ = reg.Invoke(nil, objs)
	}
}

func Test_Registry_HandlersFor_order(t *testing.T) {
	g := world.New()
	cube := g.NewItem([]string{"cube"}, "")
	lamp := g.NewThing([]string{"lamp"}, "")

	testCases := []struct {
		name   string
		setup  func(r *Registry, rec *recorder)
		action string
		objs   []*world.Thing
		expect []string
	}{
		{
			name: "registrations accumulate in order",
			setup: func(r *Registry, rec *recorder) {
				r.Register([]string{"look"}, Any(), nil, rec.handler("first"))
				r.Register([]string{"look"}, Any(), nil, rec.handler("second"))
			},
			action: "look",
			expect: []string{"first", "second"},
		},
		{
			name: "specific before any",
			setup: func(r *Registry, rec *recorder) {
				r.Register([]string{"examine"}, Any(), nil, rec.handler("any"))
				r.Register([]string{"examine"}, On(cube), nil, rec.handler("cube"))
			},
			action: "examine",
			objs:   []*world.Thing{cube},
			expect: []string{"cube", "any"},
		},
		{
			name: "specific for another object is skipped",
			setup: func(r *Registry, rec *recorder) {
				r.Register([]string{"examine"}, Any(), nil, rec.handler("any"))
				r.Register([]string{"examine"}, On(cube), nil, rec.handler("cube"))
			},
			action: "examine",
			objs:   []*world.Thing{lamp},
			expect: []string{"any"},
		},
		{
			name: "specific never applies without objects",
			setup: func(r *Registry, rec *recorder) {
				r.Register([]string{"examine"}, On(cube), nil, rec.handler("cube"))
			},
			action: "examine",
			expect: nil,
		},
		{
			name: "kind targets are specific",
			setup: func(r *Registry, rec *recorder) {
				r.Register([]string{"examine"}, Any(), nil, rec.handler("any"))
				r.Register([]string{"examine"}, OfKind(world.KindItem), nil, rec.handler("item"))
			},
			action: "examine",
			objs:   []*world.Thing{cube},
			expect: []string{"item", "any"},
		},
		{
			name: "action names are case-insensitive",
			setup: func(r *Registry, rec *recorder) {
				r.Register([]string{"Turn On"}, Any(), nil, rec.handler("on"))
			},
			action: "turn  on",
			expect: []string{"on"},
		},
		{
			name: "one registration serves several names",
			setup: func(r *Registry, rec *recorder) {
				r.Register([]string{"turn on", "switch on"}, On(lamp), nil, rec.handler("on"))
			},
			action: "switch on",
			objs:   []*world.Thing{lamp},
			expect: []string{"on"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			r := NewRegistry()
			rec := &recorder{}
			tc.setup(r, rec)

			invokeAll(r.HandlersFor(tc.action, tc.objs), tc.objs)

			assert.Equal(tc.expect, rec.calls)
		})
	}
}

func Test_Registry_GroupsFor(t *testing.T) {
	testCases := []struct {
		name   string
		setup  func(r *Registry)
		action string
		expect []string
	}{
		{
			name: "unknown action",
			setup: func(r *Registry) {
			},
			action: "look",
			expect: nil,
		},
		{
			name: "first-seen order across registrations",
			setup: func(r *Registry) {
				r.Register([]string{"examine"}, Any(), []string{"sight"}, nil)
				r.Register([]string{"examine"}, Any(), []string{"touch", "sight"}, nil)
				r.AddGroups("examine", "magic", "TOUCH")
			},
			action: "examine",
			expect: []string{"sight", "touch", "magic"},
		},
		{
			name: "all is implicit and never listed",
			setup: func(r *Registry) {
				r.Register([]string{"wait"}, Any(), []string{"all"}, nil)
			},
			action: "wait",
			expect: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			r := NewRegistry()
			tc.setup(r)

			assert.Equal(tc.expect, r.GroupsFor(tc.action))
		})
	}
}

func Test_Registry_GroupHandlersFor(t *testing.T) {
	assert := assert.New(t)

	g := world.New()
	carpet := g.NewThing([]string{"faded carpet"}, "")
	carpet.Background = true
	cube := g.NewItem([]string{"cube"}, "")

	r := NewRegistry()
	rec := &recorder{}
	r.RegisterGroup("sight", Any(), rec.group("dark", true))
	r.RegisterGroup("all", Where(func(t *world.Thing) bool { return t.Background }), rec.group("background", true))

	invokeAll(r.GroupHandlersFor("SIGHT", nil), nil)
	invokeAll(r.GroupHandlersFor("all", []*world.Thing{cube}), []*world.Thing{cube})
	invokeAll(r.GroupHandlersFor("all", []*world.Thing{carpet}), []*world.Thing{carpet})

	assert.Equal([]string{"dark", "background"}, rec.calls)
}

func Test_Registration_controls(t *testing.T) {
	testCases := []struct {
		name   string
		adjust func(reg *Registration)
		runs   int
		expect int
	}{
		{
			name:   "enabled runs every time",
			adjust: func(reg *Registration) {},
			runs:   3,
			expect: 3,
		},
		{
			name:   "disabled never runs",
			adjust: func(reg *Registration) { reg.Disable() },
			runs:   3,
			expect: 0,
		},
		{
			name:   "re-enabled runs",
			adjust: func(reg *Registration) { reg.Disable().Enable() },
			runs:   2,
			expect: 2,
		},
		{
			name:   "limit stops after n runs",
			adjust: func(reg *Registration) { reg.Limit(2) },
			runs:   5,
			expect: 2,
		},
		{
			name:   "removed never runs and cannot be enabled",
			adjust: func(reg *Registration) { reg.Remove(); reg.Enable() },
			runs:   2,
			expect: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			r := NewRegistry()
			rec := &recorder{}
			reg := r.Register([]string{"wait"}, Any(), nil, rec.handler("wait"))
			tc.adjust(reg)

			for i := 0; i < tc.runs; i++ {
				invokeAll(r.HandlersFor("wait", nil), nil)
			}

			assert.Len(rec.calls, tc.expect)
		})
	}
}

func Test_Registry_Alias(t *testing.T) {
	assert := assert.New(t)

	r := NewRegistry()
	r.Register([]string{"examine"}, Any(), nil, nil)
	r.Register([]string{"get"}, Any(), nil, nil)

	assert.NoError(r.Alias("x", "examine"))
	assert.NoError(r.Alias("Pick Up", "get"))
	assert.NoError(r.Alias("x", "examine"), "same alias twice is fine")
	assert.Error(r.Alias("x", "get"))
	assert.Error(r.Alias("get", "examine"))
	assert.Error(r.Alias("frob", "frobnicate"))

	name, ok := r.Resolve("pick   up")
	assert.True(ok)
	assert.Equal("get", name)

	name, ok = r.Resolve("EXAMINE")
	assert.True(ok)
	assert.Equal("examine", name)

	_, ok = r.Resolve("xyzzy")
	assert.False(ok)

	var texts []string
	for _, p := range r.Phrases() {
		texts = append(texts, p.Text)
	}
	assert.Equal([]string{"examine", "x", "get", "pick up"}, texts)
}

func Test_Registry_Phrases_aliasesTakeActionOrder(t *testing.T) {
	assert := assert.New(t)

	r := NewRegistry()
	r.Register([]string{"examine"}, Any(), nil, nil)
	r.Register([]string{"get"}, Any(), nil, nil)
	assert.NoError(r.Alias("grab", "get"))
	assert.NoError(r.Alias("inspect", "examine"))

	seqs := map[string]int{}
	for _, p := range r.Phrases() {
		seqs[p.Text] = p.Seq
	}

	assert.Equal(seqs["examine"], seqs["inspect"])
	assert.Equal(seqs["get"], seqs["grab"])
	assert.Less(seqs["inspect"], seqs["grab"])
}

func Test_Registry_meta(t *testing.T) {
	assert := assert.New(t)

	r := NewRegistry()
	r.Register([]string{"score"}, Any(), nil, nil)
	r.SetMeta("Score")

	assert.True(r.IsMeta("score"))
	assert.False(r.IsMeta("look"))
	assert.True(r.Has("score"))
	assert.False(r.Has("look"))
}
