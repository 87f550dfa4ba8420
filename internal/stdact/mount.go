package stdact

import (
	"fmt"
	"strings"

	"github.com/dekarrin/notea/internal/action"
	"github.com/dekarrin/notea/internal/util"
	"github.com/dekarrin/notea/internal/world"
)

// Mountable lets the player get on or in t, like a bed or a chair. Each of
// phrases is a verb and a preposition, such as "sit on" or "lie in"; "get" with
// each preposition is added, so "get on" always works. m.Prep defaults to the
// preposition of the first phrase. The player gets off again with "get" and
// the opposite preposition ("get off", "get out of") or with "stand".
//
// While the player is on t they can only touch t, the things in m.Reachable
// and what they carry, and they cannot leave the room.
func Mountable(r *action.Registry, t *world.Thing, m world.Mount, phrases ...string) error {
	if len(phrases) == 0 {
		return fmt.Errorf("%s: no mount phrases given", t)
	}

	var mountNames []string
	seen := map[string]bool{}
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			mountNames = append(mountNames, name)
		}
	}
	for _, ph := range phrases {
		ws := strings.Fields(util.Fold(ph))
		if len(ws) != 2 {
			return fmt.Errorf("%s: mount phrase %q must be a verb and a preposition", t, ph)
		}
		if m.Prep == "" {
			m.Prep = ws[1]
		}
		add(ws[0] + " " + ws[1])
		add("get " + ws[1])
	}

	t.Mount = &m
	target := action.On(t)

	r.Register(mountNames, target, []string{GroupTouch}, func(s action.Session, objs []*world.Thing) error {
		if s.World().Position(s.PC()) == t {
			s.Narratef("You're already %s %s.", t.Mount.Prep, t.The())
			return nil
		}
		if err := s.World().SetPosition(s.PC(), t); err != nil {
			return err
		}
		s.Narratef("You are now %s %s.", t.Mount.Prep, t.The())
		return nil
	})

	r.Register([]string{"get " + m.DismountPrep()}, target, nil, func(s action.Session, objs []*world.Thing) error {
		if s.World().Position(s.PC()) != t {
			s.Narratef("You're not %s %s.", t.Mount.Prep, t.The())
			return nil
		}
		return leaveMount(s, t)
	})

	return nil
}
