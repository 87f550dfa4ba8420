package game

import (
	"fmt"
	"strconv"

	"github.com/dekarrin/notea/internal/action"
	"github.com/dekarrin/notea/internal/util"
	"github.com/dekarrin/notea/internal/world"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
)

// Snapshot is the saveable state of a Game: where every Thing is, the
// attributes set on each, and the session counters. Handlers, aliases and
// exits are not part of it; they come from the authoring code that built the
// game.
type Snapshot struct {
	Score     int
	Moves     int
	Verbosity action.Verbosity
	Things    []ThingState
}

// ThingState is the saved state of one Thing.
type ThingState struct {
	ID       uuid.UUID
	Location uuid.UUID
	Attrs    map[string]interface{}
}

// Snapshot returns the current state of the game.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Score:     g.score,
		Moves:     g.moves,
		Verbosity: g.verbosity,
	}
	for _, t := range g.world.Things() {
		snap.Things = append(snap.Things, ThingState{
			ID:       t.ID,
			Location: g.world.Location(t).ID,
			Attrs:    t.Attrs(),
		})
	}
	return snap
}

// ApplySnapshot sets the game to the state in snap. Things that snap does not
// mention are left where they are. If snap refers to a Thing that does not
// exist, has an attribute value of an unsupported type, or its locations would
// form a cycle, the game is left unchanged and an error is returned.
func (g *Game) ApplySnapshot(snap Snapshot) error {
	type placement struct {
		thing, container *world.Thing
		attrs            map[string]interface{}
	}

	var places []placement
	for _, ts := range snap.Things {
		t, ok := g.world.ByID(ts.ID)
		if !ok {
			return fmt.Errorf("snapshot refers to unknown thing %s", ts.ID)
		}
		c, ok := g.world.ByID(ts.Location)
		if !ok {
			return fmt.Errorf("snapshot puts %s in unknown container %s", t.Label, ts.Location)
		}

		// check the values on a detached thing so a bad one is found before
		// anything in the world changes
		var checked world.Thing
		for attr, v := range ts.Attrs {
			if err := checked.Set(attr, v); err != nil {
				return fmt.Errorf("snapshot attribute of %s: %w", t.Label, err)
			}
		}
		places = append(places, placement{thing: t, container: c, attrs: checked.Attrs()})
	}

	// take everything out first so the moves can be checked for cycles
	// against the new arrangement only, and put it all back if that fails.
	previous := make(map[*world.Thing]*world.Thing, len(places))
	for _, p := range places {
		previous[p.thing] = g.world.Location(p.thing)
		if err := g.world.Remove(p.thing); err != nil {
			g.restoreLocations(previous)
			return err
		}
	}
	for _, p := range places {
		if err := g.world.SetLocation(p.thing, p.container); err != nil {
			g.restoreLocations(previous)
			return fmt.Errorf("snapshot location: %w", err)
		}
	}

	for _, p := range places {
		for attr := range p.thing.Attrs() {
			p.thing.Unset(attr)
		}
		for attr, v := range p.attrs {
			// already checked above
			_ = p.thing.Set(attr, v)
		}
	}

	g.score = snap.Score
	g.moves = snap.Moves
	g.verbosity = snap.Verbosity
	return nil
}

func (g *Game) restoreLocations(previous map[*world.Thing]*world.Thing) {
	for t := range previous {
		_ = g.world.Remove(t)
	}
	for t, c := range previous {
		// these were valid locations before, so they are valid again
		_ = g.world.SetLocation(t, c)
	}
}

// attribute value tags in the binary format
const (
	attrBool = iota
	attrInt
	attrFloat
	attrString
)

// MarshalBinary encodes the Snapshot with REZI.
func (snap Snapshot) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncInt(snap.Score)...)
	data = append(data, rezi.EncInt(snap.Moves)...)
	data = append(data, rezi.EncInt(int(snap.Verbosity))...)
	data = append(data, rezi.EncInt(len(snap.Things))...)
	for _, ts := range snap.Things {
		data = append(data, rezi.EncBinary(ts)...)
	}

	return data, nil
}

// UnmarshalBinary decodes a Snapshot encoded with MarshalBinary.
func (snap *Snapshot) UnmarshalBinary(data []byte) error {
	var err error
	var n int

	snap.Score, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("score: %w", err)
	}
	data = data[n:]

	snap.Moves, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("moves: %w", err)
	}
	data = data[n:]

	var verbosity int
	verbosity, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("verbosity: %w", err)
	}
	snap.Verbosity = action.Verbosity(verbosity)
	data = data[n:]

	var count int
	count, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("thing count: %w", err)
	}
	data = data[n:]

	snap.Things = make([]ThingState, count)
	for i := 0; i < count; i++ {
		n, err = rezi.DecBinary(data, &snap.Things[i])
		if err != nil {
			return fmt.Errorf("thing %d: %w", i, err)
		}
		data = data[n:]
	}

	return nil
}

// MarshalBinary encodes the ThingState with REZI. Attributes are written in
// key order so the same state always encodes the same way.
func (ts ThingState) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncBinary(ts.ID)...)
	data = append(data, rezi.EncBinary(ts.Location)...)
	data = append(data, rezi.EncInt(len(ts.Attrs))...)

	for _, k := range util.OrderedKeys(ts.Attrs) {
		data = append(data, rezi.EncString(k)...)
		switch v := ts.Attrs[k].(type) {
		case bool:
			data = append(data, rezi.EncInt(attrBool)...)
			data = append(data, rezi.EncBool(v)...)
		case int:
			data = append(data, rezi.EncInt(attrInt)...)
			data = append(data, rezi.EncInt(v)...)
		case float64:
			data = append(data, rezi.EncInt(attrFloat)...)
			data = append(data, rezi.EncString(strconv.FormatFloat(v, 'g', -1, 64))...)
		case string:
			data = append(data, rezi.EncInt(attrString)...)
			data = append(data, rezi.EncString(v)...)
		default:
			return nil, fmt.Errorf("attribute %q: unsupported value type %T", k, v)
		}
	}

	return data, nil
}

// UnmarshalBinary decodes a ThingState encoded with MarshalBinary.
func (ts *ThingState) UnmarshalBinary(data []byte) error {
	var err error
	var n int

	n, err = rezi.DecBinary(data, &ts.ID)
	if err != nil {
		return fmt.Errorf("id: %w", err)
	}
	data = data[n:]

	n, err = rezi.DecBinary(data, &ts.Location)
	if err != nil {
		return fmt.Errorf("location: %w", err)
	}
	data = data[n:]

	var count int
	count, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("attribute count: %w", err)
	}
	data = data[n:]

	ts.Attrs = make(map[string]interface{}, count)
	for i := 0; i < count; i++ {
		var key string
		key, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("attribute %d: %w", i, err)
		}
		data = data[n:]

		var tag int
		tag, n, err = rezi.DecInt(data)
		if err != nil {
			return fmt.Errorf("attribute %q: %w", key, err)
		}
		data = data[n:]

		switch tag {
		case attrBool:
			var b bool
			b, n, err = rezi.DecBool(data)
			ts.Attrs[key] = b
		case attrInt:
			var iv int
			iv, n, err = rezi.DecInt(data)
			ts.Attrs[key] = iv
		case attrFloat:
			var s string
			s, n, err = rezi.DecString(data)
			if err == nil {
				var f float64
				f, err = strconv.ParseFloat(s, 64)
				ts.Attrs[key] = f
			}
		case attrString:
			var s string
			s, n, err = rezi.DecString(data)
			ts.Attrs[key] = s
		default:
			return fmt.Errorf("attribute %q: unknown value tag %d", key, tag)
		}
		if err != nil {
			return fmt.Errorf("attribute %q: %w", key, err)
		}
		data = data[n:]
	}

	return nil
}
