package world

// File direction.go has the compass directions and room exits.

import (
	"fmt"

	"github.com/dekarrin/notea/internal/util"
)

type direction struct {
	short    string
	long     string
	opposite string
	aliases  []string
}

// directions in canonical order; exits are listed in this order.
var directions = []direction{
	{short: "n", long: "north", opposite: "s"},
	{short: "s", long: "south", opposite: "n"},
	{short: "e", long: "east", opposite: "w"},
	{short: "w", long: "west", opposite: "e"},
	{short: "ne", long: "northeast", opposite: "sw", aliases: []string{"north-east", "north east"}},
	{short: "nw", long: "northwest", opposite: "se", aliases: []string{"north-west", "north west"}},
	{short: "se", long: "southeast", opposite: "nw", aliases: []string{"south-east", "south east"}},
	{short: "sw", long: "southwest", opposite: "ne", aliases: []string{"south-west", "south west"}},
	{short: "up", long: "up", opposite: "down", aliases: []string{"u"}},
	{short: "down", long: "down", opposite: "up", aliases: []string{"d"}},
	{short: "in", long: "in", opposite: "out", aliases: []string{"inside"}},
	{short: "out", long: "out", opposite: "in", aliases: []string{"outside"}},
}

// Direction returns the direction Thing for any of its names, e.g. "n",
// "north" or "North".
func (g *Graph) Direction(alias string) (*Thing, bool) {
	d, ok := g.dirByAlias[util.Fold(alias)]
	return d, ok
}

// Directions returns the direction Things in canonical order.
func (g *Graph) Directions() []*Thing {
	cp := make([]*Thing, len(g.dirs))
	copy(cp, g.dirs)
	return cp
}

// DirectionKey gives the short canonical name of a direction Thing, e.g. "n".
func DirectionKey(d *Thing) string {
	if d == nil || d.Kind != KindDirection {
		return ""
	}
	return d.Label[len(internalPrefix):]
}

// Opposite returns the direction opposite d.
func (g *Graph) Opposite(d *Thing) *Thing {
	key := DirectionKey(d)
	for _, dir := range directions {
		if dir.short == key {
			opp, _ := g.Direction(dir.opposite)
			return opp
		}
	}
	return nil
}

func (g *Graph) exitKey(room *Thing, dir string) (string, error) {
	if room == nil || room.Kind != KindRoom {
		return "", fmt.Errorf("exits can only be added to rooms")
	}
	d, ok := g.Direction(dir)
	if !ok {
		return "", fmt.Errorf("not a direction: %q", dir)
	}
	return DirectionKey(d), nil
}

// Connect adds a one-way exit from room in direction dir leading to dest.
// Connecting the same direction again replaces the old exit.
func (g *Graph) Connect(room *Thing, dir string, dest *Thing) error {
	key, err := g.exitKey(room, dir)
	if err != nil {
		return err
	}
	if dest == nil || dest.Kind != KindRoom || dest.graph != g {
		return fmt.Errorf("exit %s of %q must lead to a room in the same world", key, room.Label)
	}
	if room.exits == nil {
		room.exits = make(map[string]*Thing)
	}
	room.exits[key] = dest
	return nil
}

// Link connects room to dest in direction dir and dest back to room in the
// opposite direction.
func (g *Graph) Link(room *Thing, dir string, dest *Thing) error {
	if err := g.Connect(room, dir, dest); err != nil {
		return err
	}
	d, _ := g.Direction(dir)
	return g.Connect(dest, DirectionKey(g.Opposite(d)), room)
}

// Exit returns where the exit from room in direction dir leads.
func (g *Graph) Exit(room *Thing, dir string) (*Thing, bool) {
	key, err := g.exitKey(room, dir)
	if err != nil {
		return nil, false
	}
	dest, ok := room.exits[key]
	return dest, ok
}

// Exits returns the direction Things that lead out of room, in canonical
// order.
func (g *Graph) Exits(room *Thing) []*Thing {
	var out []*Thing
	for _, d := range g.dirs {
		if _, ok := room.exits[DirectionKey(d)]; ok {
			out = append(out, d)
		}
	}
	return out
}
