// Package world is the entity graph: every Thing in a game, where each one is,
// and which of them the player can currently refer to.
package world

import (
	"fmt"
	"strings"

	"github.com/dekarrin/notea/internal/util"
	"github.com/google/uuid"
)

// RoomNouns are the extra phrases every room answers to.
var RoomNouns = []string{"room", "area"}

// reserved label prefix for Things the graph creates itself.
const internalPrefix = "@"

var idNamespace = uuid.MustParse("5b0c1e63-8f9a-4e65-9c1a-6f1f7d0f3e2a")

// Graph owns a set of Things and their locations. Every Thing has exactly one
// location at all times; Things that have not been placed, and Things removed
// from play, are in Nowhere.
//
// A Graph is not safe for concurrent use. Each game session owns its own.
type Graph struct {
	things   []*Thing
	byLabel  map[string]*Thing
	byID     map[uuid.UUID]*Thing
	loc      map[*Thing]*Thing
	defaults map[Kind]map[string]interface{}

	nowhere    *Thing
	dirs       []*Thing
	dirByAlias map[string]*Thing
	nextSeq    int
}

// New creates an empty Graph with its Nowhere container and the compass
// directions.
func New() *Graph {
	g := &Graph{
		byLabel:    make(map[string]*Thing),
		byID:       make(map[uuid.UUID]*Thing),
		loc:        make(map[*Thing]*Thing),
		defaults:   make(map[Kind]map[string]interface{}),
		dirByAlias: make(map[string]*Thing),
	}

	g.nowhere = g.newInternal(KindThing, "nowhere", nil)
	g.loc[g.nowhere] = g.nowhere

	for _, d := range directions {
		dt := g.newInternal(KindDirection, d.short, []string{d.long, d.short})
		g.loc[dt] = g.nowhere
		g.dirs = append(g.dirs, dt)
		for _, alias := range append([]string{d.long, d.short}, d.aliases...) {
			g.dirByAlias[alias] = dt
		}
	}

	return g
}

func (g *Graph) newInternal(k Kind, key string, names []string) *Thing {
	t := &Thing{
		Label: internalPrefix + key,
		Kind:  k,
		graph: g,
		seq:   -1,
	}
	t.ID = uuid.NewSHA1(idNamespace, []byte(t.Label))
	for _, n := range names {
		t.AddName(n)
	}
	g.byID[t.ID] = t
	g.byLabel[t.Label] = t
	return t
}

// Nowhere is the container of everything that is not in play.
func (g *Graph) Nowhere() *Thing {
	return g.nowhere
}

// Create adds a new Thing of the given kind to the graph. If label is empty,
// one is generated from the display name. The new Thing starts in Nowhere.
func (g *Graph) Create(kind Kind, label string, names []string, desc string) (*Thing, error) {
	if kind == KindDirection {
		return nil, fmt.Errorf("directions are built in and cannot be created")
	}
	if label == "" {
		label = g.generateLabel(names)
	} else {
		if strings.HasPrefix(label, internalPrefix) {
			return nil, fmt.Errorf("label %q: labels cannot start with %q", label, internalPrefix)
		}
		if _, exists := g.byLabel[label]; exists {
			return nil, fmt.Errorf("label %q is already in use", label)
		}
	}

	t := &Thing{
		Label:       label,
		Kind:        kind,
		Description: util.NormalizeSpace(desc),
		Gettable:    kind == KindItem,
		graph:       g,
		seq:         g.nextSeq,
	}
	t.ID = uuid.NewSHA1(idNamespace, []byte(label))
	for _, n := range names {
		t.AddName(n)
	}
	g.nextSeq++

	g.things = append(g.things, t)
	g.byLabel[label] = t
	g.byID[t.ID] = t
	g.loc[t] = g.nowhere

	return t, nil
}

func (g *Graph) generateLabel(names []string) string {
	base := "thing"
	if len(names) > 0 {
		if f := util.Fold(names[0]); f != "" {
			base = strings.ReplaceAll(f, " ", "_")
		}
	}
	base = strings.TrimLeft(base, internalPrefix)
	if base == "" {
		base = "thing"
	}

	label := base
	for n := 2; ; n++ {
		if _, exists := g.byLabel[label]; !exists {
			return label
		}
		label = fmt.Sprintf("%s_%d", base, n)
	}
}

func (g *Graph) mustCreate(kind Kind, names []string, desc string) *Thing {
	// generated labels are always free and never reserved, so this cannot fail
	t, err := g.Create(kind, "", names, desc)
	if err != nil {
		panic(err)
	}
	return t
}

// NewThing creates a plain Thing. It can be examined but not picked up.
func (g *Graph) NewThing(names []string, desc string) *Thing {
	return g.mustCreate(KindThing, names, desc)
}

// NewItem creates a Thing the player can pick up.
func (g *Graph) NewItem(names []string, desc string) *Thing {
	return g.mustCreate(KindItem, names, desc)
}

// NewRoom creates a Room.
func (g *Graph) NewRoom(names []string, desc string) *Thing {
	return g.mustCreate(KindRoom, names, desc)
}

// NewPlayer creates a player character.
func (g *Graph) NewPlayer(name string) *Thing {
	return g.mustCreate(KindPlayer, []string{name}, "")
}

// SetDefault sets the default value of attr for every Thing of the given kind
// that does not set its own. Defaults for KindThing apply to every kind.
func (g *Graph) SetDefault(kind Kind, attr string, v interface{}) error {
	norm, err := normalizeValue(v)
	if err != nil {
		return fmt.Errorf("default %s.%s: %w", kind, attr, err)
	}
	if g.defaults[kind] == nil {
		g.defaults[kind] = make(map[string]interface{})
	}
	g.defaults[kind][attr] = norm
	return nil
}

// Default gives the default value of attr for kind, falling back to the
// KindThing default. It returns nil if neither is set.
func (g *Graph) Default(kind Kind, attr string) interface{} {
	if v, ok := g.defaults[kind][attr]; ok {
		return v
	}
	if v, ok := g.defaults[KindThing][attr]; ok {
		return v
	}
	return nil
}

// Things returns every author-created Thing in declaration order.
func (g *Graph) Things() []*Thing {
	cp := make([]*Thing, len(g.things))
	copy(cp, g.things)
	return cp
}

// ByLabel returns the Thing with the given label.
func (g *Graph) ByLabel(label string) (*Thing, bool) {
	t, ok := g.byLabel[label]
	return t, ok
}

// ByID returns the Thing with the given id.
func (g *Graph) ByID(id uuid.UUID) (*Thing, bool) {
	t, ok := g.byID[id]
	return t, ok
}
