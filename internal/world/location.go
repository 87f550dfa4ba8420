package world

// File location.go has the containment operations of the graph.

import (
	"github.com/dekarrin/notea/internal/nterrors"
)

// Location returns the container t is directly in. It is never nil for a
// Thing that belongs to g; unplaced Things are in Nowhere.
func (g *Graph) Location(t *Thing) *Thing {
	if c, ok := g.loc[t]; ok {
		return c
	}
	return g.nowhere
}

// SetLocation moves t into container c, or into Nowhere if c is nil. It fails
// with an *nterrors.InvalidLocationError if the move would put t inside
// itself, directly or through something it contains, if either Thing belongs
// to a different Graph, or if t is one of the graph's own fixed Things. On
// failure nothing is moved.
func (g *Graph) SetLocation(t, c *Thing) error {
	if c == nil {
		c = g.nowhere
	}

	invalid := func(reason string) error {
		return &nterrors.InvalidLocationError{Thing: t.Label, Container: c.Label, Reason: reason}
	}

	if t == nil {
		return &nterrors.InvalidLocationError{Thing: "<nil>", Container: c.Label, Reason: "no thing given"}
	}
	if t.graph != g || c.graph != g {
		return invalid("not in the same world")
	}
	if t == g.nowhere || t.Kind == KindDirection {
		return invalid("fixed things cannot be moved")
	}
	if c.Kind == KindDirection {
		return invalid("directions cannot hold things")
	}
	if c == t {
		return invalid("a thing cannot contain itself")
	}
	if g.Contains(t, c) {
		return invalid("the container is inside the thing")
	}

	g.loc[t] = c
	return nil
}

// Remove puts t in Nowhere, taking it out of play.
func (g *Graph) Remove(t *Thing) error {
	return g.SetLocation(t, nil)
}

// Contains returns whether inner is inside outer, directly or transitively.
func (g *Graph) Contains(outer, inner *Thing) bool {
	if outer == g.nowhere {
		return inner != g.nowhere
	}

	// a chain can be no longer than the number of things
	cur := inner
	for i := 0; i <= len(g.things); i++ {
		parent := g.Location(cur)
		if parent == outer {
			return true
		}
		if parent == g.nowhere || parent == cur {
			return false
		}
		cur = parent
	}
	return false
}

// Contents returns the Things directly inside c in declaration order.
func (g *Graph) Contents(c *Thing) []*Thing {
	var members []*Thing
	for _, t := range g.things {
		if g.loc[t] == c {
			members = append(members, t)
		}
	}
	return members
}

// Inventory returns what the player character is carrying.
func (g *Graph) Inventory(pc *Thing) []*Thing {
	return g.Contents(pc)
}

// Holds returns whether the player character is directly carrying t.
func (g *Graph) Holds(pc, t *Thing) bool {
	return g.Location(t) == pc
}

// Room returns the nearest Room that contains t, or nil if t is not inside any
// room.
func (g *Graph) Room(t *Thing) *Thing {
	cur := g.Location(t)
	for i := 0; i <= len(g.things); i++ {
		if cur.Kind == KindRoom {
			return cur
		}
		if cur == g.nowhere {
			return nil
		}
		cur = g.Location(cur)
	}
	return nil
}

// VisibleScope is every Thing the player character can refer to: first what
// they carry, then what is directly in their room, each in declaration order.
// The pc itself is left out.
func (g *Graph) VisibleScope(pc *Thing) []*Thing {
	scope := g.Inventory(pc)

	room := g.Location(pc)
	if room == g.nowhere {
		return scope
	}
	for _, t := range g.Contents(room) {
		if t != pc {
			scope = append(scope, t)
		}
	}
	return scope
}

// Scope is VisibleScope followed by the player character and then their
// room, so that "examine me" and "examine room" work. Those two come last so
// that anything else with the same name is preferred.
func (g *Graph) Scope(pc *Thing) []*Thing {
	scope := append(g.VisibleScope(pc), pc)
	if room := g.Location(pc); room != g.nowhere {
		scope = append(scope, room)
	}
	return scope
}
