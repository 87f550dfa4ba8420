package ntw

import (
	"fmt"
	"strings"

	"github.com/dekarrin/notea/internal/action"
	"github.com/dekarrin/notea/internal/game"
	"github.com/dekarrin/notea/internal/script"
	"github.com/dekarrin/notea/internal/stdact"
	"github.com/dekarrin/notea/internal/util"
	"github.com/dekarrin/notea/internal/world"
)

// Instance is a game built from a world file, along with the script runtime
// its handlers run in.
type Instance struct {
	*game.Game

	scripts *script.Runtime
}

// Close releases the script runtime of the game. The game must not be played
// afterwards.
func (inst *Instance) Close() {
	inst.scripts.Close()
}

func parseVerbosity(s string) (action.Verbosity, error) {
	switch strings.ToLower(s) {
	case "", "brief":
		return action.Brief, nil
	case "verbose":
		return action.Verbose, nil
	case "superbrief":
		return action.Superbrief, nil
	default:
		return action.Brief, fmt.Errorf("must be one of \"verbose\", \"brief\" or \"superbrief\", not %q", s)
	}
}

// Build creates a new game from the world. The game starts by narrating the
// world's intro, running its on_start scripts and then looking at the starting
// room.
func (wd WorldData) Build(opts ...game.Option) (*Instance, error) {
	g := game.New(wd.Title, opts...)
	inst := &Instance{Game: g, scripts: script.New()}

	if err := wd.build(inst); err != nil {
		inst.Close()
		return nil, err
	}
	return inst, nil
}

func (wd WorldData) build(inst *Instance) error {
	def := wd.def
	g := inst.Game
	w := g.World()

	pc := g.PC()
	for _, n := range def.Player.Names {
		pc.AddName(n)
	}
	pc.Description = util.NormalizeSpace(def.Player.Description)
	if err := setAttrs(pc, def.Player.Attrs); err != nil {
		return fmt.Errorf("player: %w", err)
	}

	for idx, d := range def.Defaults {
		kind, _ := world.ParseKind(strings.ToLower(d.Kind))
		if err := w.SetDefault(kind, d.Attr, d.Value); err != nil {
			return fmt.Errorf("default[%d]: %w", idx, err)
		}
	}

	for _, r := range def.Rooms {
		t, err := w.Create(world.KindRoom, strings.ToLower(r.Label), r.Names, util.NormalizeSpace(r.Description))
		if err != nil {
			return fmt.Errorf("room[%q]: %w", r.Label, err)
		}
		if err := setAttrs(t, r.Attrs); err != nil {
			return fmt.Errorf("room[%q]: %w", r.Label, err)
		}
	}

	for _, th := range def.Things {
		kind, _ := parseThingKind(th.Kind)
		t, err := w.Create(kind, strings.ToLower(th.Label), th.Names, util.NormalizeSpace(th.Description))
		if err != nil {
			return fmt.Errorf("thing[%q]: %w", th.Label, err)
		}
		t.Background = th.Background
		if th.Gettable != nil {
			t.Gettable = *th.Gettable
		}
		if err := setAttrs(t, th.Attrs); err != nil {
			return fmt.Errorf("thing[%q]: %w", th.Label, err)
		}
	}

	for _, r := range def.Rooms {
		room := inst.lookup(r.Label)
		for dir, dest := range r.Exits {
			if err := w.Connect(room, dir, inst.lookup(dest)); err != nil {
				return fmt.Errorf("room[%q]: exits: %w", r.Label, err)
			}
		}
		for dir, dest := range r.Links {
			if err := w.Link(room, dir, inst.lookup(dest)); err != nil {
				return fmt.Errorf("room[%q]: links: %w", r.Label, err)
			}
		}
	}

	for _, th := range def.Things {
		if th.Location == "" {
			continue
		}
		if err := w.SetLocation(inst.lookup(th.Label), inst.lookup(th.Location)); err != nil {
			return fmt.Errorf("thing[%q]: location: %w", th.Label, err)
		}
	}

	for _, th := range def.Things {
		if th.Mount == nil {
			continue
		}
		m := world.Mount{
			Sticky:     th.Mount.Sticky,
			StickyText: util.NormalizeSpace(th.Mount.StickyText),
			ExitText:   util.NormalizeSpace(th.Mount.ExitText),
		}
		for _, label := range th.Mount.Reachable {
			m.Reachable = append(m.Reachable, inst.lookup(label))
		}
		if err := stdact.Mountable(g.Registry(), inst.lookup(th.Label), m, th.Mount.Actions...); err != nil {
			return fmt.Errorf("thing[%q]: mount: %w", th.Label, err)
		}
	}

	if err := g.Place(inst.lookup(wd.Start)); err != nil {
		return fmt.Errorf("world: start: %w", err)
	}

	v, _ := parseVerbosity(def.World.Verbosity)
	g.SetVerbosity(v)

	for idx, h := range def.Handlers {
		chunk, err := inst.scripts.Compile(h.Actions[0], h.Script)
		if err != nil {
			return fmt.Errorf("handler[%d]: %w", idx, err)
		}
		reg := g.Registry().Register(h.Actions, inst.target(h.On, h.Kinds), h.Groups, chunk.Handler())
		if h.Limit > 0 {
			reg.Limit(h.Limit)
		}
		if h.Meta {
			g.Registry().SetMeta(h.Actions...)
		}
	}

	for idx, gh := range def.GroupHandlers {
		chunk, err := inst.scripts.Compile(gh.Group, gh.Script)
		if err != nil {
			return fmt.Errorf("group_handler[%d]: %w", idx, err)
		}
		reg := g.OnGroup(gh.Group, inst.target(gh.On, gh.Kinds), chunk.GroupHandler())
		if gh.Limit > 0 {
			reg.Limit(gh.Limit)
		}
	}

	// aliases go last so they can name actions the world's handlers add
	for idx, al := range def.Aliases {
		if err := g.Alias(al.Phrase, al.Action); err != nil {
			return fmt.Errorf("alias[%d]: %w", idx, err)
		}
	}

	if def.World.Intro != "" {
		intro := util.NormalizeSpace(def.World.Intro)
		g.OnStart(func(s action.Session) error {
			s.Narrate(intro)
			return nil
		})
	}
	for idx, src := range def.World.OnStart {
		chunk, err := inst.scripts.Compile(fmt.Sprintf("on_start[%d]", idx), src)
		if err != nil {
			return fmt.Errorf("world: on_start[%d]: %w", idx, err)
		}
		g.OnStart(chunk.StartHandler())
	}
	g.OnStart(func(s action.Session) error {
		return s.Do("look")
	})

	return nil
}

// lookup gives the thing with the label. Labels are checked before building so
// a missing one is a bug.
func (inst *Instance) lookup(label string) *world.Thing {
	label = strings.ToLower(label)
	switch label {
	case script.LabelPlayer:
		return inst.PC()
	case script.LabelNowhere:
		return inst.World().Nowhere()
	}
	t, ok := inst.World().ByLabel(label)
	if !ok {
		panic(fmt.Sprintf("no thing with checked label %q", label))
	}
	return t
}

func (inst *Instance) target(on, kinds []string) action.Target {
	if len(on) > 0 {
		things := make([]*world.Thing, len(on))
		for i := range on {
			things[i] = inst.lookup(on[i])
		}
		return action.On(things...)
	}
	if len(kinds) > 0 {
		ks := make([]world.Kind, len(kinds))
		for i := range kinds {
			ks[i], _ = world.ParseKind(strings.ToLower(kinds[i]))
		}
		return action.OfKind(ks...)
	}
	return action.Any()
}

func setAttrs(t *world.Thing, attrs map[string]interface{}) error {
	for k, v := range attrs {
		if err := t.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}
