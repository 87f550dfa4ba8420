package action

import "github.com/dekarrin/notea/internal/world"

// Target selects which commands a registration applies to, based on the
// first object of the command.
type Target struct {
	specific bool
	things   []*world.Thing
	pred     func(*world.Thing) bool
}

// Any is the target of registrations that apply regardless of objects,
// including when there are none.
func Any() Target {
	return Target{}
}

// On targets commands whose first object is one of things.
func On(things ...*world.Thing) Target {
	return Target{specific: true, things: things}
}

// Where targets commands whose first object satisfies pred.
func Where(pred func(*world.Thing) bool) Target {
	return Target{specific: true, pred: pred}
}

// OfKind targets commands whose first object is of one of the given kinds.
func OfKind(kinds ...world.Kind) Target {
	return Where(func(t *world.Thing) bool {
		for _, k := range kinds {
			if t.Kind == k {
				return true
			}
		}
		return false
	})
}

// IsAny returns whether t is the Any target.
func (t Target) IsAny() bool {
	return !t.specific
}

// Matches returns whether the target applies to a command with the given
// objects.
func (t Target) Matches(objs []*world.Thing) bool {
	if !t.specific {
		return true
	}
	if len(objs) < 1 {
		return false
	}
	first := objs[0]
	if t.pred != nil {
		return t.pred(first)
	}
	for _, th := range t.things {
		if th == first {
			return true
		}
	}
	return false
}
