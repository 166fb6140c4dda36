package logic

import "fmt"

// ConstraintKind enumerates the right-hand sides an input parameter may be
// pinned to.
type ConstraintKind int

const (
	ConstraintFalse ConstraintKind = iota
	ConstraintTrue
	ConstraintEquality
	ConstraintNegation
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstraintFalse:
		return "False"
	case ConstraintTrue:
		return "True"
	case ConstraintEquality:
		return "Equality"
	case ConstraintNegation:
		return "Negation"
	default:
		return "?"
	}
}

// Constraint pins an input parameter to a constant or to another input.
// Constraint values are comparable and can be used as map keys.
type Constraint struct {
	Target Name
	Kind   ConstraintKind
	Other  Name // set for Equality and Negation
}

// Fix pins target to a constant.
func Fix(target Name, value bool) Constraint {
	if value {
		return Constraint{Target: target, Kind: ConstraintTrue}
	}
	return Constraint{Target: target, Kind: ConstraintFalse}
}

// EqualTo pins target to the value of other.
func EqualTo(target, other Name) Constraint {
	return Constraint{Target: target, Kind: ConstraintEquality, Other: other}
}

// NotEqualTo pins target to the negation of other.
func NotEqualTo(target, other Name) Constraint {
	return Constraint{Target: target, Kind: ConstraintNegation, Other: other}
}

// Validate checks that the constraint relates input parameters only.
func (c Constraint) Validate() error {
	if !c.Target.IsInput() {
		return fmt.Errorf("%w: target %s is not an input parameter", ErrInvalidConstraint, c.Target)
	}
	switch c.Kind {
	case ConstraintTrue, ConstraintFalse:
		return nil
	case ConstraintEquality, ConstraintNegation:
		if !c.Other.IsInput() {
			return fmt.Errorf("%w: %s is not an input parameter", ErrInvalidConstraint, c.Other)
		}
		if c.Other == c.Target {
			return fmt.Errorf("%w: %s refers to itself", ErrInvalidConstraint, c.Target)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidConstraint, c.Kind)
	}
}

// RHS converts the constraint into the right-hand side installed for its
// target.
func (c Constraint) RHS() RHS {
	switch c.Kind {
	case ConstraintTrue:
		return Constant{Value: true}
	case ConstraintEquality:
		return Equation{Operand: Pos(c.Other)}
	case ConstraintNegation:
		return Equation{Operand: Neg(c.Other)}
	default:
		return Constant{Value: false}
	}
}

// Expression returns the program line for the constraint.
func (c Constraint) Expression() Expression {
	return Expression{Target: c.Target, RHS: c.RHS()}
}

func (c Constraint) String() string {
	return c.Expression().String()
}

// ConstraintFromRHS interprets rhs as a constraint on target. Only the
// constant, equality and negation forms are accepted.
func ConstraintFromRHS(target Name, rhs RHS) (Constraint, error) {
	var c Constraint
	switch r := rhs.(type) {
	case Constant:
		c = Fix(target, r.Value)
	case Equation:
		if r.Operand.Negated {
			c = NotEqualTo(target, r.Operand.Name)
		} else {
			c = EqualTo(target, r.Operand.Name)
		}
	default:
		return Constraint{}, fmt.Errorf("%w: %s cannot be pinned to a calculation", ErrInvalidConstraint, target)
	}
	if err := c.Validate(); err != nil {
		return Constraint{}, err
	}
	return c, nil
}
