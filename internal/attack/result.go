package attack

import "github.com/gnolang/boolattack/internal/logic"

// ResultKind is the terminal state of an attack.
type ResultKind int

const (
	// NoInputParameters: the program mentions no input parameter at all.
	NoInputParameters ResultKind = iota
	// AllInputParametersEliminated: resolution alone removed every input.
	AllInputParametersEliminated
	// SomeInputParametersEliminated: resolution alone removed some inputs,
	// so the circuit is degenerate before any search.
	SomeInputParametersEliminated
	// CollisionFound: a branch lost more free inputs than it pins.
	CollisionFound
	// NoCollisionFound: every depth was explored without a collision.
	NoCollisionFound
	// NoCollisionFoundYet: the iteration cap was reached first.
	NoCollisionFoundYet
)

func (k ResultKind) String() string {
	switch k {
	case NoInputParameters:
		return "NoInputParameters"
	case AllInputParametersEliminated:
		return "AllInputParametersEliminated"
	case SomeInputParametersEliminated:
		return "SomeInputParametersEliminated"
	case CollisionFound:
		return "CollisionFound"
	case NoCollisionFound:
		return "NoCollisionFound"
	case NoCollisionFoundYet:
		return "NoCollisionFoundYet"
	default:
		return "Unknown"
	}
}

// Degenerate reports whether the circuit lost inputs before any search.
func (k ResultKind) Degenerate() bool {
	return k == AllInputParametersEliminated || k == SomeInputParametersEliminated
}

// Result describes how an attack ended.
type Result struct {
	Kind  ResultKind
	RunID string

	// Program is the resolved program the result refers to: the colliding
	// branch for CollisionFound, the resolved input program otherwise.
	Program *logic.BooleanFunction
	// Constraints pins the colliding branch. Empty unless CollisionFound.
	Constraints BooleanConstraints
	// OriginalFreeInputs are the free inputs before any constraint.
	OriginalFreeInputs []logic.Name
	// FreeInputs are the free inputs left in Program.
	FreeInputs []logic.Name

	Iterations int
	Branches   int
}

// Conclusive is false only when the search was cut short by the cap.
func (r Result) Conclusive() bool { return r.Kind != NoCollisionFoundYet }

// Gain is how many more degrees of freedom the program lost than it
// pinned. It is positive for collisions and degenerate circuits.
func (r Result) Gain() int {
	return len(r.OriginalFreeInputs) - r.Constraints.Len() - len(r.FreeInputs)
}
