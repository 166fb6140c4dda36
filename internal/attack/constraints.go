package attack

import (
	"sort"
	"strings"

	"github.com/gnolang/boolattack/internal/logic"
)

// BooleanConstraints is an immutable set of constraints identifying one
// search branch. Two sets are equal when they hold the same constraints,
// whatever order they were added in.
type BooleanConstraints struct {
	// sorted by target, at most one constraint per target
	items []logic.Constraint
}

// NewBooleanConstraints builds a set from cs. A later constraint on the
// same target replaces an earlier one.
func NewBooleanConstraints(cs ...logic.Constraint) BooleanConstraints {
	var bc BooleanConstraints
	for _, c := range cs {
		bc = bc.With(c)
	}
	return bc
}

// With returns a new set holding every constraint of bc plus c. bc is left
// unchanged.
func (bc BooleanConstraints) With(c logic.Constraint) BooleanConstraints {
	items := make([]logic.Constraint, 0, len(bc.items)+1)
	for _, existing := range bc.items {
		if existing.Target != c.Target {
			items = append(items, existing)
		}
	}
	items = append(items, c)
	sort.Slice(items, func(i, j int) bool {
		return items[i].Target.Less(items[j].Target)
	})
	return BooleanConstraints{items: items}
}

// Len is the number of constraints, which is also the branch depth.
func (bc BooleanConstraints) Len() int { return len(bc.items) }

// Slice returns the constraints ordered by target.
func (bc BooleanConstraints) Slice() []logic.Constraint {
	return append([]logic.Constraint(nil), bc.items...)
}

// Lookup returns the constraint on target, if any.
func (bc BooleanConstraints) Lookup(target logic.Name) (logic.Constraint, bool) {
	for _, c := range bc.items {
		if c.Target == target {
			return c, true
		}
	}
	return logic.Constraint{}, false
}

// Key is an order-independent identity for the set, usable as a map key.
func (bc BooleanConstraints) Key() string {
	return bc.String()
}

// Equal reports whether both sets hold the same constraints.
func (bc BooleanConstraints) Equal(other BooleanConstraints) bool {
	if len(bc.items) != len(other.items) {
		return false
	}
	for i := range bc.items {
		if bc.items[i] != other.items[i] {
			return false
		}
	}
	return true
}

// Apply installs every constraint on a copy of fn.
func (bc BooleanConstraints) Apply(fn *logic.BooleanFunction) (*logic.BooleanFunction, error) {
	return fn.WithConstraints(bc.items...)
}

func (bc BooleanConstraints) String() string {
	parts := make([]string, len(bc.items))
	for i, c := range bc.items {
		parts[i] = c.String()
	}
	return strings.Join(parts, "; ")
}
