package world

// File position.go has the positions the player character can take on things
// like beds and chairs.

import "fmt"

// PositionAttr holds the label of the Thing the player character is on or in.
// It is unset when they are standing.
const PositionAttr = "position"

// Mount makes a Thing something the player character can get on or in.
type Mount struct {
	// Prep is how the player is placed on the Thing: "on", "in".
	Prep string

	// Reachable are the Things that can still be reached from the Thing. The
	// Thing itself and whatever the player carries are always reachable.
	Reachable []*Thing

	// Sticky is set when the player cannot get off at will.
	Sticky bool

	// StickyText is narrated when a sticky mount is left. ExitText is
	// narrated when any other mount is left.
	StickyText string
	ExitText   string
}

// DismountPrep is the opposite of Prep, used to tell the player how to get
// off: "off" for "on", "out of" for "in".
func (m *Mount) DismountPrep() string {
	switch m.Prep {
	case "in", "inside", "into":
		return "out of"
	case "under", "beneath", "underneath":
		return "out from under"
	default:
		return "off"
	}
}

// Position returns the Thing pc is on or in, or nil if pc is standing. A
// mount that is no longer next to pc does not count.
func (g *Graph) Position(pc *Thing) *Thing {
	label := pc.Str(PositionAttr)
	if label == "" {
		return nil
	}
	m, ok := g.ByLabel(label)
	if !ok || m.Mount == nil || g.Location(m) != g.Location(pc) {
		return nil
	}
	return m
}

// SetPosition puts pc on or in m, or back on their feet if m is nil.
func (g *Graph) SetPosition(pc, m *Thing) error {
	if m == nil {
		pc.Unset(PositionAttr)
		return nil
	}
	if m.graph != g || m.Mount == nil {
		return fmt.Errorf("%s cannot be mounted", m)
	}
	if g.Location(m) != g.Location(pc) {
		return fmt.Errorf("%s is not next to %s", m, pc)
	}
	return pc.Set(PositionAttr, m.Label)
}

// Reachable returns whether pc can touch t from where they are. Standing, they
// can reach anything; on a mount, only the mount, its Reachable things and
// what they carry. Rooms, directions and pc itself are always reachable.
func (g *Graph) Reachable(pc, t *Thing) bool {
	pos := g.Position(pc)
	if pos == nil || t == pos || t == pc {
		return true
	}
	if t.Kind == KindRoom || t.Kind == KindDirection || g.Contains(pc, t) {
		return true
	}
	for _, r := range pos.Mount.Reachable {
		if r == t || g.Contains(r, t) {
			return true
		}
	}
	return false
}
