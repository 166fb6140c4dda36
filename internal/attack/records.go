package attack

import (
	"context"
	"errors"
	"fmt"

	"github.com/gnolang/boolattack/internal/logic"
)

var (
	// ErrNoFrontier means every depth below the baseline already holds a
	// branch.
	ErrNoFrontier = errors.New("no depth left to attack")
	// ErrNoCandidate means no branch at the parent depth has a free input
	// parameter left to fix.
	ErrNoCandidate = errors.New("no free input parameter to fix")
)

// AttackRecord is one resolved branch of the search.
type AttackRecord struct {
	Program     *logic.BooleanFunction
	Free        []logic.Name
	Constraints BooleanConstraints
}

// NewAttackRecord snapshots a resolved branch program.
func NewAttackRecord(program *logic.BooleanFunction, constraints BooleanConstraints) *AttackRecord {
	return &AttackRecord{
		Program:     program,
		Free:        program.InputParameters(),
		Constraints: constraints,
	}
}

// Depth is the number of constraints on the branch.
func (r *AttackRecord) Depth() int { return r.Constraints.Len() }

// Complexity returns the branch program's report, computing it on first
// use.
func (r *AttackRecord) Complexity() *logic.ComplexityReport {
	return r.Program.Complexity()
}

// Candidate is a child branch proposed by FindNextCollisionCandidate. Its
// program is not resolved yet.
type Candidate struct {
	Parent      *AttackRecord
	Input       logic.Name
	Constraint  logic.Constraint
	Constraints BooleanConstraints
	Program     *logic.BooleanFunction
}

// AttackRecords buckets branches by depth. Depths range over 0..N-1 where
// N is the baseline number of free input parameters.
type AttackRecords struct {
	baseline int
	byDepth  map[int][]*AttackRecord
	keys     map[string]struct{}
	count    int
}

// NewAttackRecords returns empty bookkeeping for a baseline of n free
// input parameters.
func NewAttackRecords(n int) *AttackRecords {
	return &AttackRecords{
		baseline: n,
		byDepth:  make(map[int][]*AttackRecord),
		keys:     make(map[string]struct{}),
	}
}

// Add files rec under its depth. A branch whose constraint set is already
// known is ignored and Add reports false.
func (rs *AttackRecords) Add(rec *AttackRecord) bool {
	key := rec.Constraints.Key()
	if _, dup := rs.keys[key]; dup {
		return false
	}
	rs.keys[key] = struct{}{}
	d := rec.Depth()
	rs.byDepth[d] = append(rs.byDepth[d], rec)
	rs.count++
	return true
}

// AtDepth returns the branches at depth d in insertion order.
func (rs *AttackRecords) AtDepth(d int) []*AttackRecord {
	return rs.byDepth[d]
}

// Len is the total number of branches.
func (rs *AttackRecords) Len() int { return rs.count }

// Baseline is the free-input count the records were created for.
func (rs *AttackRecords) Baseline() int { return rs.baseline }

// FindNextDepthToAttack returns the smallest depth in 0..N-1 that holds no
// branch.
func (rs *AttackRecords) FindNextDepthToAttack() (int, bool) {
	for d := 0; d < rs.baseline; d++ {
		if len(rs.byDepth[d]) == 0 {
			return d, true
		}
	}
	return 0, false
}

// FindNextCollisionCandidate picks a parent at the depth just below the
// frontier and one of its free inputs through strategy, then builds the
// child that fixes the input to False.
func (rs *AttackRecords) FindNextCollisionCandidate(ctx context.Context, strategy Strategy) (*Candidate, error) {
	frontier, ok := rs.FindNextDepthToAttack()
	if !ok {
		return nil, ErrNoFrontier
	}
	if frontier == 0 {
		return nil, fmt.Errorf("%w: depth 0 is empty", ErrNoCandidate)
	}

	parent, input, err := strategy.Choose(ctx, rs.AtDepth(frontier-1))
	if err != nil {
		return nil, err
	}

	// only False is ever tried; the True side of each split is not explored
	c := logic.Fix(input, false)
	program, err := parent.Program.WithConstraint(c)
	if err != nil {
		return nil, fmt.Errorf("fixing %s: %w", input, err)
	}
	return &Candidate{
		Parent:      parent,
		Input:       input,
		Constraint:  c,
		Constraints: parent.Constraints.With(c),
		Program:     program,
	}, nil
}
