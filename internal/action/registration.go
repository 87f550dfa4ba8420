package action

import (
	"sort"

	"github.com/dekarrin/notea/internal/world"
)

// Registration is the handle returned when a handler is registered. It can
// switch the handler off and on, limit how many times it runs, or remove it.
type Registration struct {
	names   []string
	isGroup bool
	target  Target
	handler Handler
	group   GroupHandler
	seq     int

	enabled bool
	limit   int
	calls   int
	removed bool

	reg *Registry
}

// Names returns the actions (or for a group handler, the group) the handler
// is registered for.
func (reg *Registration) Names() []string {
	cp := make([]string, len(reg.names))
	copy(cp, reg.names)
	return cp
}

// IsGroup returns whether this is a group handler.
func (reg *Registration) IsGroup() bool {
	return reg.isGroup
}

// Enabled returns whether the handler will run when its action is dispatched.
func (reg *Registration) Enabled() bool {
	return reg.enabled
}

// Calls returns how many times the handler has run.
func (reg *Registration) Calls() int {
	return reg.calls
}

// Disable stops the handler from running until Enable is called.
func (reg *Registration) Disable() *Registration {
	reg.enabled = false
	return reg
}

// Enable lets a disabled handler run again. It has no effect on a removed
// handler.
func (reg *Registration) Enable() *Registration {
	if !reg.removed {
		reg.enabled = true
	}
	return reg
}

// Limit disables the handler after it has run n more times. n < 1 removes the
// limit.
func (reg *Registration) Limit(n int) *Registration {
	if n < 1 {
		reg.limit = 0
	} else {
		reg.limit = reg.calls + n
	}
	return reg
}

// Remove takes the handler out of the registry for good.
func (reg *Registration) Remove() {
	if reg.removed {
		return
	}
	reg.removed = true
	reg.enabled = false
	reg.reg.remove(reg)
}

// Invoke runs the handler with the given objects and counts the call. Action
// handlers never cancel.
func (reg *Registration) Invoke(s Session, objs []*world.Thing) (cancel bool, err error) {
	reg.calls++
	if reg.limit > 0 && reg.calls >= reg.limit {
		reg.enabled = false
	}

	if reg.isGroup {
		return reg.group(s, objs)
	}
	return false, reg.handler(s, objs)
}

func sortEntries(entries []*actionEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})
}

func sortPhrases(phrases []Phrase) {
	sort.Slice(phrases, func(i, j int) bool {
		a, b := phrases[i], phrases[j]
		if a.Seq != b.Seq {
			return a.Seq < b.Seq
		}
		// an action's own name goes before its aliases
		if (a.Text == a.Action) != (b.Text == b.Action) {
			return a.Text == a.Action
		}
		return a.Text < b.Text
	})
}
