package ntw

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dekarrin/notea/internal/script"
	"github.com/dekarrin/notea/internal/world"
)

var labelRegexp = regexp.MustCompile(`^[a-z0-9_][a-z0-9_.-]*$`)

// labels with a meaning of their own in scripts and locations
var reservedLabels = map[string]bool{
	script.LabelPlayer:  true,
	script.LabelHere:    true,
	script.LabelNowhere: true,
}

// WorldData is a checked world, ready to build games from. The same WorldData
// can build any number of independent games.
type WorldData struct {
	// Title is the name of the game.
	Title string

	// Start is the label of the room the player starts in.
	Start string

	def topLevelWorldData
}

type stringSet map[string]bool

type worldSymbols struct {
	roomLabels  stringSet
	thingLabels stringSet
}

func (syms worldSymbols) isLabel(label string) bool {
	return syms.roomLabels[label] || syms.thingLabels[label]
}

func parseWorldData(ntw topLevelWorldData) (WorldData, error) {
	wd := WorldData{
		Title: ntw.World.Title,
		Start: strings.ToLower(ntw.World.Start),
		def:   ntw,
	}

	// gather every label first so references can be checked as they are met
	symbols, err := scanSymbols(ntw)
	if err != nil {
		return wd, err
	}

	if wd.Start == "" {
		return wd, fmt.Errorf("world: must have non-blank 'start' field")
	}
	if !symbols.roomLabels[wd.Start] {
		return wd, fmt.Errorf("world: start: no room with label %q exists", wd.Start)
	}
	if _, err := parseVerbosity(ntw.World.Verbosity); err != nil {
		return wd, fmt.Errorf("world: verbosity: %w", err)
	}

	// one runtime is enough to check that every script compiles
	rt := script.New()
	defer rt.Close()

	for idx, src := range ntw.World.OnStart {
		if _, err := rt.Compile("on_start", src); err != nil {
			return wd, fmt.Errorf("world: on_start[%d]: %w", idx, err)
		}
	}

	for idx, d := range ntw.Defaults {
		if err := validateDefaultDef(d); err != nil {
			return wd, fmt.Errorf("default[%d]: %w", idx, err)
		}
	}

	directions := world.New()
	for _, r := range ntw.Rooms {
		if err := validateRoomDef(r, symbols, directions); err != nil {
			return wd, fmt.Errorf("room[%q]: %w", r.Label, err)
		}
	}

	for _, t := range ntw.Things {
		if err := validateThingDef(t, symbols); err != nil {
			return wd, fmt.Errorf("thing[%q]: %w", t.Label, err)
		}
	}

	for idx, al := range ntw.Aliases {
		if strings.TrimSpace(al.Phrase) == "" {
			return wd, fmt.Errorf("alias[%d]: must have non-blank 'phrase' field", idx)
		}
		if strings.TrimSpace(al.Action) == "" {
			return wd, fmt.Errorf("alias[%d]: must have non-blank 'action' field", idx)
		}
	}

	for idx, h := range ntw.Handlers {
		if err := validateHandlerDef(h, symbols, rt); err != nil {
			return wd, fmt.Errorf("handler[%d]: %w", idx, err)
		}
	}

	for idx, gh := range ntw.GroupHandlers {
		if err := validateGroupHandlerDef(gh, symbols, rt); err != nil {
			return wd, fmt.Errorf("group_handler[%d]: %w", idx, err)
		}
	}

	return wd, nil
}

// scanSymbols collects the labels of every room and thing, checking each for
// naming rules and conflicts. Labels are lower-cased.
func scanSymbols(top topLevelWorldData) (worldSymbols, error) {
	syms := worldSymbols{
		roomLabels:  make(stringSet),
		thingLabels: make(stringSet),
	}

	for idx, r := range top.Rooms {
		label := strings.ToLower(r.Label)
		if err := checkLabel(label, syms); err != nil {
			return syms, fmt.Errorf("room[%d]: %w", idx, err)
		}
		syms.roomLabels[label] = true
	}
	for idx, t := range top.Things {
		label := strings.ToLower(t.Label)
		if err := checkLabel(label, syms); err != nil {
			return syms, fmt.Errorf("thing[%d]: %w", idx, err)
		}
		syms.thingLabels[label] = true
	}

	return syms, nil
}

func checkLabel(label string, syms worldSymbols) error {
	if label == "" {
		return fmt.Errorf("must have non-blank 'label' field")
	}
	if reservedLabels[label] {
		return fmt.Errorf("label %q is reserved", label)
	}
	if syms.isLabel(label) {
		return fmt.Errorf("label %q has already been used", label)
	}
	if !labelRegexp.MatchString(label) {
		return fmt.Errorf("label %q must be letters, digits, '_', '.' and '-', and cannot start with '.' or '-'", label)
	}
	return nil
}

func checkNames(names []string) error {
	if len(names) < 1 {
		return fmt.Errorf("must have at least one entry in 'names'")
	}
	for idx, n := range names {
		if strings.TrimSpace(n) == "" {
			return fmt.Errorf("names[%d]: must not be blank", idx)
		}
	}
	return nil
}

func validateDefaultDef(d attrDefault) error {
	if _, err := world.ParseKind(strings.ToLower(d.Kind)); err != nil {
		return fmt.Errorf("kind: %w", err)
	}
	if d.Attr == "" {
		return fmt.Errorf("must have non-blank 'attr' field")
	}
	if d.Value == nil {
		return fmt.Errorf("must have a 'value' field")
	}
	return nil
}

func validateRoomDef(r room, syms worldSymbols, directions *world.Graph) error {
	if err := checkNames(r.Names); err != nil {
		return err
	}
	if strings.TrimSpace(r.Description) == "" {
		return fmt.Errorf("must have non-blank 'description' field")
	}

	for _, exits := range []map[string]string{r.Exits, r.Links} {
		for dir, dest := range exits {
			if _, ok := directions.Direction(dir); !ok {
				return fmt.Errorf("exits: %q is not a direction", dir)
			}
			if !syms.roomLabels[strings.ToLower(dest)] {
				return fmt.Errorf("exits: %s: no room has label %q", dir, dest)
			}
		}
	}
	return nil
}

func validateThingDef(t thing, syms worldSymbols) error {
	if err := checkNames(t.Names); err != nil {
		return err
	}

	kind, err := parseThingKind(t.Kind)
	if err != nil {
		return err
	}
	if t.Background && kind == world.KindItem {
		return fmt.Errorf("background things cannot be items")
	}

	loc := strings.ToLower(t.Location)
	switch {
	case loc == "", loc == script.LabelNowhere, loc == script.LabelPlayer:
	case loc == strings.ToLower(t.Label):
		return fmt.Errorf("location: cannot be inside itself")
	case !syms.isLabel(loc):
		return fmt.Errorf("location: nothing has label %q", t.Location)
	}

	if t.Mount != nil {
		if err := validateMountDef(*t.Mount, syms); err != nil {
			return fmt.Errorf("mount: %w", err)
		}
	}
	return nil
}

func validateMountDef(m mount, syms worldSymbols) error {
	if len(m.Actions) == 0 {
		return fmt.Errorf("must have at least one entry in 'actions' field")
	}
	for idx, a := range m.Actions {
		if len(strings.Fields(a)) != 2 {
			return fmt.Errorf("actions[%d]: %q must be a verb and a preposition, like \"sit on\"", idx, a)
		}
	}
	for idx, label := range m.Reachable {
		if !syms.isLabel(strings.ToLower(label)) {
			return fmt.Errorf("reachable[%d]: nothing has label %q", idx, label)
		}
	}
	return nil
}

func parseThingKind(s string) (world.Kind, error) {
	if s == "" {
		return world.KindThing, nil
	}
	kind, err := world.ParseKind(strings.ToLower(s))
	if err != nil {
		return kind, fmt.Errorf("kind: %w", err)
	}
	if kind != world.KindThing && kind != world.KindItem {
		return kind, fmt.Errorf("kind: must be \"thing\" or \"item\", not %q", s)
	}
	return kind, nil
}

func validateTarget(on, kinds []string, syms worldSymbols) error {
	if len(on) > 0 && len(kinds) > 0 {
		return fmt.Errorf("cannot have both 'on' and 'kinds'")
	}
	for idx, label := range on {
		label = strings.ToLower(label)
		if label != script.LabelPlayer && !syms.isLabel(label) {
			return fmt.Errorf("on[%d]: nothing has label %q", idx, label)
		}
	}
	for idx, k := range kinds {
		if _, err := world.ParseKind(strings.ToLower(k)); err != nil {
			return fmt.Errorf("kinds[%d]: %w", idx, err)
		}
	}
	return nil
}

func validateHandlerDef(h handler, syms worldSymbols, rt *script.Runtime) error {
	if len(h.Actions) < 1 {
		return fmt.Errorf("must have at least one entry in 'actions'")
	}
	for idx, a := range h.Actions {
		if strings.TrimSpace(a) == "" {
			return fmt.Errorf("actions[%d]: must not be blank", idx)
		}
	}
	if err := validateTarget(h.On, h.Kinds, syms); err != nil {
		return err
	}
	if h.Limit < 0 {
		return fmt.Errorf("limit: must not be negative")
	}
	if strings.TrimSpace(h.Script) == "" {
		return fmt.Errorf("must have non-blank 'script' field")
	}
	if _, err := rt.Compile(h.Actions[0], h.Script); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

func validateGroupHandlerDef(gh groupHandler, syms worldSymbols, rt *script.Runtime) error {
	if strings.TrimSpace(gh.Group) == "" {
		return fmt.Errorf("must have non-blank 'group' field")
	}
	if err := validateTarget(gh.On, gh.Kinds, syms); err != nil {
		return err
	}
	if gh.Limit < 0 {
		return fmt.Errorf("limit: must not be negative")
	}
	if strings.TrimSpace(gh.Script) == "" {
		return fmt.Errorf("must have non-blank 'script' field")
	}
	if _, err := rt.Compile(gh.Group, gh.Script); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}
