// Package action is the action registry: which handlers respond to which
// action phrases, which groups each action belongs to, and the handlers of
// those groups.
package action

import (
	"fmt"

	"github.com/dekarrin/notea/internal/util"
	"github.com/dekarrin/notea/internal/world"
)

// GroupAll is the group every action belongs to implicitly.
const GroupAll = "all"

// Phrase is a piece of text that names an action, either the action's own
// name or an alias of it.
type Phrase struct {
	Text   string
	Action string

	// Seq is the order in which the phrase became known. Lower is earlier.
	Seq int
}

type actionEntry struct {
	name   string
	seq    int
	regs   []*Registration
	groups []string
	meta   bool
}

type aliasEntry struct {
	action string
	seq    int
}

// Registry maps action names to their handlers and groups to their group
// handlers. Registering is additive: a second registration for an action
// runs alongside the first instead of replacing it.
//
// The zero value is not usable; call NewRegistry.
type Registry struct {
	actions map[string]*actionEntry
	aliases map[string]aliasEntry
	groups  map[string][]*Registration
	seq     int
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		actions: make(map[string]*actionEntry),
		aliases: make(map[string]aliasEntry),
		groups:  make(map[string][]*Registration),
	}
}

func (r *Registry) nextSeq() int {
	r.seq++
	return r.seq
}

func (r *Registry) entry(name string) *actionEntry {
	e, ok := r.actions[name]
	if !ok {
		e = &actionEntry{name: name, seq: r.nextSeq()}
		r.actions[name] = e
	}
	return e
}

// Register adds h as a handler of every action in names, for commands matching
// target. The actions are added to groups, keeping the order in which groups
// were first given for each action. The returned Registration controls the
// handler for all of the names at once.
func (r *Registry) Register(names []string, target Target, groups []string, h Handler) *Registration {
	reg := &Registration{
		target:  target,
		handler: h,
		seq:     r.nextSeq(),
		enabled: true,
		reg:     r,
	}

	for _, n := range names {
		name := util.Fold(n)
		if name == "" {
			continue
		}
		reg.names = append(reg.names, name)

		e := r.entry(name)
		e.regs = append(e.regs, reg)
		e.addGroups(groups)
	}

	return reg
}

// RegisterGroup adds h as a handler of group, for commands matching target.
func (r *Registry) RegisterGroup(group string, target Target, h GroupHandler) *Registration {
	group = util.Fold(group)
	reg := &Registration{
		names:   []string{group},
		isGroup: true,
		target:  target,
		group:   h,
		seq:     r.nextSeq(),
		enabled: true,
		reg:     r,
	}
	r.groups[group] = append(r.groups[group], reg)
	return reg
}

// AddGroups puts an action into groups without registering a handler.
func (r *Registry) AddGroups(name string, groups ...string) {
	r.entry(util.Fold(name)).addGroups(groups)
}

func (e *actionEntry) addGroups(groups []string) {
	for _, g := range groups {
		g = util.Fold(g)
		if g == "" || g == GroupAll {
			continue
		}
		seen := false
		for _, existing := range e.groups {
			if existing == g {
				seen = true
				break
			}
		}
		if !seen {
			e.groups = append(e.groups, g)
		}
	}
}

// Alias makes phrase another way of typing action. The action must already
// be registered and phrase must not name an action of its own.
func (r *Registry) Alias(phrase, action string) error {
	phrase = util.Fold(phrase)
	action = util.Fold(action)

	if _, ok := r.actions[action]; !ok {
		return fmt.Errorf("cannot alias %q: no action %q", phrase, action)
	}
	if _, ok := r.actions[phrase]; ok {
		return fmt.Errorf("cannot alias %q: already an action", phrase)
	}
	if existing, ok := r.aliases[phrase]; ok && existing.action != action {
		return fmt.Errorf("cannot alias %q: already an alias of %q", phrase, existing.action)
	}
	if _, ok := r.aliases[phrase]; !ok {
		r.aliases[phrase] = aliasEntry{action: action, seq: r.nextSeq()}
	}
	return nil
}

// SetMeta marks actions as meta actions, such as "save" or "score", which do
// not count as a move.
func (r *Registry) SetMeta(names ...string) {
	for _, n := range names {
		r.entry(util.Fold(n)).meta = true
	}
}

// IsMeta returns whether the action is a meta action.
func (r *Registry) IsMeta(name string) bool {
	e, ok := r.actions[util.Fold(name)]
	return ok && e.meta
}

// Resolve gives the action that a phrase names, following aliases.
func (r *Registry) Resolve(phrase string) (string, bool) {
	phrase = util.Fold(phrase)
	if _, ok := r.actions[phrase]; ok {
		return phrase, true
	}
	if a, ok := r.aliases[phrase]; ok {
		return a.action, true
	}
	return "", false
}

// Has returns whether the action has at least one handler registered, enabled
// or not.
func (r *Registry) Has(name string) bool {
	e, ok := r.actions[util.Fold(name)]
	return ok && len(e.regs) > 0
}

// GroupsFor returns the groups of an action in the order they were first
// given. The implicit "all" group is not included.
func (r *Registry) GroupsFor(name string) []string {
	e, ok := r.actions[util.Fold(name)]
	if !ok {
		return nil
	}
	cp := make([]string, len(e.groups))
	copy(cp, e.groups)
	return cp
}

// HandlersFor returns the handlers to run for an action with the given
// objects: enabled registrations targeting the first object, then enabled
// registrations for any object, each in registration order.
func (r *Registry) HandlersFor(name string, objs []*world.Thing) []*Registration {
	e, ok := r.actions[util.Fold(name)]
	if !ok {
		return nil
	}
	return applicable(e.regs, objs)
}

// GroupHandlersFor returns the group handlers of group to run for the given
// objects, ordered as in HandlersFor.
func (r *Registry) GroupHandlersFor(group string, objs []*world.Thing) []*Registration {
	return applicable(r.groups[util.Fold(group)], objs)
}

func applicable(regs []*Registration, objs []*world.Thing) []*Registration {
	var specific, general []*Registration
	for _, reg := range regs {
		if !reg.enabled || !reg.target.Matches(objs) {
			continue
		}
		if reg.target.IsAny() {
			general = append(general, reg)
		} else {
			specific = append(specific, reg)
		}
	}
	return append(specific, general...)
}

// Actions returns the names of every registered action, in the order they
// were first registered.
func (r *Registry) Actions() []string {
	names := make([]string, len(r.actions))
	entries := make([]*actionEntry, 0, len(r.actions))
	for _, e := range r.actions {
		entries = append(entries, e)
	}
	sortEntries(entries)
	for i := range entries {
		names[i] = entries[i].name
	}
	return names
}

// Phrases returns every action name and alias. An alias has the Seq of the
// action it names, so phrases tie-break on when their action was registered.
func (r *Registry) Phrases() []Phrase {
	phrases := make([]Phrase, 0, len(r.actions)+len(r.aliases))
	for name, e := range r.actions {
		phrases = append(phrases, Phrase{Text: name, Action: name, Seq: e.seq})
	}
	for text, a := range r.aliases {
		seq := a.seq
		if e, ok := r.actions[a.action]; ok {
			seq = e.seq
		}
		phrases = append(phrases, Phrase{Text: text, Action: a.action, Seq: seq})
	}
	sortPhrases(phrases)
	return phrases
}

func (r *Registry) remove(reg *Registration) {
	if reg.isGroup {
		r.groups[reg.names[0]] = without(r.groups[reg.names[0]], reg)
		return
	}
	for _, n := range reg.names {
		if e, ok := r.actions[n]; ok {
			e.regs = without(e.regs, reg)
		}
	}
}

func without(regs []*Registration, reg *Registration) []*Registration {
	kept := regs[:0]
	for _, r := range regs {
		if r != reg {
			kept = append(kept, r)
		}
	}
	return kept
}
