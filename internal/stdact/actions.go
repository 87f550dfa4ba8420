package stdact

import (
	"github.com/dekarrin/notea/internal/action"
	"github.com/dekarrin/notea/internal/util"
	"github.com/dekarrin/notea/internal/world"
)

func registerWorldActions(r *action.Registry) {
	r.RegisterGroup(action.GroupAll, action.Where(isBackground), leaveItAlone)

	r.Register([]string{"look"}, action.Any(), []string{GroupSight}, look)
	mustAlias(r, "look", "l", "look around")

	r.Register([]string{"examine"}, action.Any(), []string{GroupSight}, examine)
	mustAlias(r, "examine", "x", "look at", "inspect")

	r.Register([]string{"exits"}, action.Any(), []string{GroupSight}, exits)

	r.Register([]string{"get"}, action.Any(), []string{GroupTouch}, get)
	mustAlias(r, "get", "take", "pick up", "grab")

	r.Register([]string{"drop"}, action.Any(), nil, drop)
	mustAlias(r, "drop", "discard", "put down")

	r.Register([]string{"go"}, action.Any(), []string{GroupMovement}, goDirection)
	mustAlias(r, "go", "walk", "run", "move")

	r.RegisterGroup(GroupTouch, action.Any(), outOfReach)

	r.Register([]string{"stand"}, action.Any(), nil, stand)
	mustAlias(r, "stand", "stand up", "get up")

	r.Register([]string{"wait"}, action.Any(), nil, func(s action.Session, objs []*world.Thing) error {
		s.Narrate("Time passes.")
		return nil
	})
	mustAlias(r, "wait", "z")
}

func isBackground(t *world.Thing) bool {
	return t.Background
}

func leaveItAlone(s action.Session, objs []*world.Thing) (bool, error) {
	s.Narrate("That's not important; leave it alone.")
	return true, nil
}

func look(s action.Session, objs []*world.Thing) error {
	if len(objs) > 0 {
		return examineThing(s, objs[0])
	}
	DescribeRoom(s, s.Here(), true)
	return nil
}

func examine(s action.Session, objs []*world.Thing) error {
	if len(objs) < 1 {
		s.Narrate("What do you want to examine?")
		return nil
	}
	return examineThing(s, objs[0])
}

func examineThing(s action.Session, t *world.Thing) error {
	switch t.Kind {
	case world.KindRoom:
		DescribeRoom(s, t, true)
		return nil
	case world.KindPlayer:
		if t == s.PC() {
			s.Narrate("As good-looking as ever.")
			return nil
		}
	case world.KindDirection:
		if dest, ok := s.World().Exit(s.Here(), world.DirectionKey(t)); ok && dest.Bool(VisitedAttr) {
			s.Narratef("That way leads to %s.", dest.Name())
		} else {
			s.Narrate("You can't tell from here.")
		}
		return nil
	}

	if t.Description != "" {
		s.Narrate(t.Description)
	} else {
		s.Narratef("You see nothing special about %s.", t.The())
	}

	if inside := notable(s.World().Contents(t), s.PC()); len(inside) > 0 {
		s.Narratef("%s contains %s.", util.Capitalize(t.The()), util.MakeTextList(inside, false))
	}
	return nil
}

// DescribeRoom narrates a room: its name, then its description and what is in
// it. If full is false the player's verbosity setting decides whether the
// description and contents are given for rooms they have already seen.
func DescribeRoom(s action.Session, room *world.Thing, full bool) {
	if room == nil {
		s.Narrate("You are nowhere at all.")
		return
	}

	visited := room.Bool(VisitedAttr)
	v := s.Verbosity()

	s.Narrate(util.Title(room.Name()))
	if full || v == action.Verbose || (v == action.Brief && !visited) {
		s.Narrate(room.Description)
	}
	if full || !(v == action.Superbrief && visited) {
		if here := notable(s.World().Contents(room), s.PC()); len(here) > 0 {
			s.Narratef("You can see %s here.", util.MakeTextList(here, false))
		}
	}
	if pos := s.World().Position(s.PC()); pos != nil && s.World().Location(pos) == room {
		s.Narratef("You are %s %s.", pos.Mount.Prep, pos.The())
	}

	// visited is a plain bool, so this cannot fail
	_ = room.Set(VisitedAttr, true)
}

// notable gives the names, with articles, of the things worth listing among
// ts: everything but background things, the player character, and things with
// standout set to false. A gettable thing the player has moved is listed even
// if it does not stand out.
func notable(ts []*world.Thing, pc *world.Thing) []string {
	var names []string
	for _, t := range ts {
		if t == pc || t.Background {
			continue
		}
		if t.Has(StandoutAttr) && !t.Bool(StandoutAttr) && !(t.Gettable && t.Bool(MovedAttr)) {
			continue
		}
		names = append(names, t.A())
	}
	return names
}

func exits(s action.Session, objs []*world.Thing) error {
	here := s.Here()
	if here == nil {
		s.Narrate("There's no obvious way out.")
		return nil
	}

	var dirs []string
	for _, d := range s.World().Exits(here) {
		dirs = append(dirs, d.Name())
	}
	if len(dirs) == 0 {
		s.Narrate("There's no obvious way out.")
		return nil
	}
	s.Narratef("You can go %s.", util.MakeTextListOr(dirs, false))
	return nil
}

func get(s action.Session, objs []*world.Thing) error {
	if len(objs) < 1 {
		s.Narrate("What do you want to get?")
		return nil
	}
	t := objs[0]

	if s.World().Holds(s.PC(), t) {
		s.Narratef("You're already holding %s.", t.The())
		return nil
	}
	if !t.Gettable {
		s.Narrate("You can't be serious.")
		return nil
	}
	if err := s.World().SetLocation(t, s.PC()); err != nil {
		return err
	}
	markMoved(t)
	s.Narrate("Gotten.")
	return nil
}

func drop(s action.Session, objs []*world.Thing) error {
	if len(objs) < 1 {
		s.Narrate("What do you want to drop?")
		return nil
	}
	t := objs[0]

	if !s.World().Holds(s.PC(), t) {
		s.Narratef("You're not holding %s.", t.The())
		return nil
	}
	if err := s.World().SetLocation(t, s.World().Location(s.PC())); err != nil {
		return err
	}
	markMoved(t)
	s.Narrate("Dropped.")
	return nil
}

func goDirection(s action.Session, objs []*world.Thing) error {
	if len(objs) < 1 {
		s.Narrate("Where do you want to go?")
		return nil
	}
	dir := objs[0]
	if dir.Kind != world.KindDirection {
		s.Narrate("You can't go that way.")
		return nil
	}

	if pos := s.World().Position(s.PC()); pos != nil {
		s.Narratef("You'll have to get %s %s first.", pos.Mount.DismountPrep(), pos.The())
		return nil
	}

	here := s.Here()
	dest, ok := s.World().Exit(here, world.DirectionKey(dir))
	if here == nil || !ok {
		s.Narrate("You can't go that way.")
		return nil
	}

	if err := s.World().SetLocation(s.PC(), dest); err != nil {
		return err
	}
	DescribeRoom(s, dest, false)
	return nil
}

func markMoved(t *world.Thing) {
	// moved is a plain bool, so this cannot fail
	_ = t.Set(MovedAttr, true)
}

func outOfReach(s action.Session, objs []*world.Thing) (bool, error) {
	for _, t := range objs {
		if !s.World().Reachable(s.PC(), t) {
			s.Narrate("You can't reach it.")
			return true, nil
		}
	}
	return false, nil
}

func stand(s action.Session, objs []*world.Thing) error {
	pos := s.World().Position(s.PC())
	if pos == nil {
		s.Narrate("You're already standing.")
		return nil
	}
	return leaveMount(s, pos)
}

func leaveMount(s action.Session, t *world.Thing) error {
	if t.Mount.Sticky {
		msg := t.Mount.StickyText
		if msg == "" {
			msg = "You can't."
		}
		s.Narrate(msg)
		return nil
	}
	if err := s.World().SetPosition(s.PC(), nil); err != nil {
		return err
	}
	msg := t.Mount.ExitText
	if msg == "" {
		msg = "You stand."
	}
	s.Narrate(msg)
	return nil
}
