// Package verify turns an algebraic collision into two concrete inputs by
// handing the circuit to a SAT solver.
package verify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-air/gini"
	gl "github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/gnolang/boolattack/internal/logic"
)

var ErrNoWitness = errors.New("no two distinct inputs collide")

const (
	satisfiable   = 1
	unsatisfiable = -1
)

// Witness is a pair of distinct input assignments with the same outputs.
type Witness struct {
	Inputs      []logic.Name
	Left, Right []bool
	Outputs     []logic.Name
	Values      []bool
}

// Differing returns the inputs on which Left and Right disagree.
func (w *Witness) Differing() []logic.Name {
	var out []logic.Name
	for i, name := range w.Inputs {
		if w.Left[i] != w.Right[i] {
			out = append(out, name)
		}
	}
	return out
}

// Find searches for two assignments that both satisfy constraints, differ
// in at least one input and agree on every output of fn. fn should be the
// program before any resolution so the solver sees the whole circuit.
func Find(ctx context.Context, fn *logic.BooleanFunction, constraints []logic.Constraint) (*Witness, error) {
	program, err := fn.WithConstraints(constraints...)
	if err != nil {
		return nil, fmt.Errorf("applying constraints: %w", err)
	}
	outputs := program.Outputs()
	if len(outputs) == 0 {
		return nil, fmt.Errorf("%w: program has no outputs", ErrNoWitness)
	}

	c := gl.NewCCap(4 * program.Len())
	left := newEncoder(c, program)
	right := newEncoder(c, program)

	var assumptions []z.Lit
	outNames := make([]logic.Name, len(outputs))
	outLits := make([]z.Lit, len(outputs))
	for i, o := range outputs {
		l, r := left.lit(o.Target), right.lit(o.Target)
		assumptions = append(assumptions, c.Xor(l, r).Not())
		outNames[i], outLits[i] = o.Target, l
	}

	inputs := program.AllInputParameters()
	var diffs []z.Lit
	for _, in := range inputs {
		if _, pinned := program.Expression(in); pinned {
			continue
		}
		diffs = append(diffs, c.Xor(left.lit(in), right.lit(in)))
	}
	if len(diffs) == 0 {
		return nil, fmt.Errorf("%w: every input is pinned", ErrNoWitness)
	}
	assumptions = append(assumptions, c.Ors(diffs...))

	g := gini.New()
	c.ToCnf(g)
	g.Assume(assumptions...)

	switch res, err := solve(ctx, g); {
	case err != nil:
		return nil, err
	case res == unsatisfiable:
		return nil, ErrNoWitness
	case res != satisfiable:
		return nil, fmt.Errorf("solver returned %d", res)
	}

	w := &Witness{
		Inputs:  inputs,
		Left:    make([]bool, len(inputs)),
		Right:   make([]bool, len(inputs)),
		Outputs: outNames,
		Values:  make([]bool, len(outLits)),
	}
	for i, in := range inputs {
		w.Left[i] = g.Value(left.lit(in))
		w.Right[i] = g.Value(right.lit(in))
	}
	for i, m := range outLits {
		w.Values[i] = g.Value(m)
	}
	return w, nil
}

const pollInterval = 5 * time.Millisecond

// solve runs the solver in the background and polls it so ctx can stop it.
func solve(ctx context.Context, g *gini.Gini) (int, error) {
	s := g.GoSolve()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		if res, done := s.Test(); done {
			return res, nil
		}
		select {
		case <-ctx.Done():
			s.Stop()
			return 0, ctx.Err()
		case <-ticker.C:
		}
	}
}
