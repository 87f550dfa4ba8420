package world

// File thing.go holds the Thing type and its attribute bag.

import (
	"fmt"

	"github.com/dekarrin/notea/internal/util"
	"github.com/google/uuid"
)

// Kind is the variant of a Thing. Kind-level attribute defaults are looked up
// by it.
type Kind int

const (
	KindThing Kind = iota
	KindItem
	KindRoom
	KindPlayer
	KindDirection
)

func (k Kind) String() string {
	switch k {
	case KindThing:
		return "thing"
	case KindItem:
		return "item"
	case KindRoom:
		return "room"
	case KindPlayer:
		return "player"
	case KindDirection:
		return "direction"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind gives the Kind named by s as returned by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch util.Fold(s) {
	case "thing":
		return KindThing, nil
	case "item":
		return KindItem, nil
	case "room":
		return KindRoom, nil
	case "player":
		return KindPlayer, nil
	case "direction":
		return KindDirection, nil
	default:
		return KindThing, fmt.Errorf("not a kind: %q", s)
	}
}

// Thing is anything that can be placed in the world: scenery, items, rooms,
// the player character and even the compass directions. The zero value is not
// usable; Things are created by the constructor methods on Graph.
type Thing struct {
	// ID is stable across runs of the same authoring code. It is derived from
	// the Label.
	ID uuid.UUID

	// Label is the unique key authors and world files use to refer to the
	// Thing. It never changes after creation.
	Label string

	// Names are the phrases that refer to the Thing. The first one is the
	// display name.
	Names []string

	// Description is shown when the Thing is examined.
	Description string

	Kind Kind

	// Gettable is set on Things the player can pick up.
	Gettable bool

	// Background things are scenery mentioned in a description. They can be
	// referred to but not meaningfully acted on.
	Background bool

	// Mount is set on Things the player can get on or in.
	Mount *Mount

	graph *Graph
	seq   int
	attrs map[string]interface{}
	exits map[string]*Thing
	folded []string
}

// Name is the display name of the Thing.
func (t *Thing) Name() string {
	if len(t.Names) < 1 {
		return t.Label
	}
	return t.Names[0]
}

// The returns the display name with a definite article, e.g. "the lamp". Room
// and player names are returned as-is.
func (t *Thing) The() string {
	if t.Kind == KindRoom || t.Kind == KindPlayer {
		return t.Name()
	}
	return "the " + t.Name()
}

// A returns the display name with an indefinite article, e.g. "an orange".
func (t *Thing) A() string {
	if t.Kind == KindRoom || t.Kind == KindPlayer {
		return t.Name()
	}
	return util.MakeTextList([]string{t.Name()}, true)
}

// Phrases returns the folded phrases that refer to the Thing. Rooms also
// answer to the generic room nouns.
func (t *Thing) Phrases() []string {
	if t.Kind != KindRoom {
		return t.folded
	}
	ph := make([]string, len(t.folded), len(t.folded)+len(RoomNouns))
	copy(ph, t.folded)
	return append(ph, RoomNouns...)
}

// AddName adds another phrase that refers to the Thing.
func (t *Thing) AddName(name string) {
	t.Names = append(t.Names, name)
	t.folded = append(t.folded, util.Fold(name))
}

// Graph returns the Graph that owns the Thing.
func (t *Thing) Graph() *Graph {
	return t.graph
}

func (t *Thing) String() string {
	return fmt.Sprintf("%s(%q)", t.Kind, t.Label)
}

// Set sets an attribute on this Thing, overriding any kind default. Only
// bool, int, float64 and string values can be stored.
func (t *Thing) Set(attr string, v interface{}) error {
	norm, err := normalizeValue(v)
	if err != nil {
		return fmt.Errorf("attribute %q: %w", attr, err)
	}
	if t.attrs == nil {
		t.attrs = make(map[string]interface{})
	}
	t.attrs[attr] = norm
	return nil
}

// Unset removes this Thing's own value for attr so the kind default applies
// again.
func (t *Thing) Unset(attr string) {
	delete(t.attrs, attr)
}

// Get returns the value of attr: the Thing's own value if set, otherwise the
// default for its kind, otherwise the default for KindThing, otherwise nil.
func (t *Thing) Get(attr string) interface{} {
	if v, ok := t.attrs[attr]; ok {
		return v
	}
	if t.graph != nil {
		return t.graph.Default(t.Kind, attr)
	}
	return nil
}

// Has returns whether attr resolves to a non-nil value.
func (t *Thing) Has(attr string) bool {
	return t.Get(attr) != nil
}

// Bool returns attr as a bool. Missing and non-bool values are false.
func (t *Thing) Bool(attr string) bool {
	b, _ := t.Get(attr).(bool)
	return b
}

// Int returns attr as an int. Missing and non-numeric values are 0.
func (t *Thing) Int(attr string) int {
	switch v := t.Get(attr).(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Str returns attr as a string. Missing values are "", other types are
// formatted.
func (t *Thing) Str(attr string) string {
	switch v := t.Get(attr).(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Attrs returns a copy of the Thing's own attribute values, without defaults.
func (t *Thing) Attrs() map[string]interface{} {
	cp := make(map[string]interface{}, len(t.attrs))
	for k, v := range t.attrs {
		cp[k] = v
	}
	return cp
}

func normalizeValue(v interface{}) (interface{}, error) {
	switch tv := v.(type) {
	case bool, int, float64, string:
		return tv, nil
	case int8:
		return int(tv), nil
	case int16:
		return int(tv), nil
	case int32:
		return int(tv), nil
	case int64:
		return int(tv), nil
	case uint:
		return int(tv), nil
	case uint8:
		return int(tv), nil
	case uint16:
		return int(tv), nil
	case uint32:
		return int(tv), nil
	case float32:
		return float64(tv), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}
