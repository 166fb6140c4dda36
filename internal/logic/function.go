package logic

import (
	"fmt"
	"sync"
)

// BooleanFunction is a straight-line program: an ordered set of named
// assignments plus a name index.
//
// A program is built once, then resolved in place. Resolution replaces the
// right-hand side stored for a name but never adds or removes names, so the
// program order and the index stay fixed. Children created with
// WithConstraint own their own tables.
type BooleanFunction struct {
	order []Name
	defs  map[Name]RHS

	// every input parameter mentioned by any line
	inputs map[Name]struct{}

	free     []Name
	resolved bool

	mu     sync.Mutex
	report *ComplexityReport
}

// New returns an empty program.
func New() *BooleanFunction {
	return &BooleanFunction{
		defs:   make(map[Name]RHS),
		inputs: make(map[Name]struct{}),
	}
}

// FromExpressions builds and validates a program from a producer's lines.
func FromExpressions(exprs []Expression) (*BooleanFunction, error) {
	f := New()
	for _, e := range exprs {
		if err := f.Append(e); err != nil {
			return nil, err
		}
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Append adds one line. Constraint lines (input targets) must be a
// constant, an input parameter or a negated input parameter.
func (f *BooleanFunction) Append(e Expression) error {
	if _, err := ParseName(string(e.Target)); err != nil {
		return err
	}
	if _, dup := f.defs[e.Target]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateDefinition, e.Target)
	}
	if e.RHS == nil {
		return fmt.Errorf("%w: %s has no right-hand side", ErrMalformedLine, e.Target)
	}
	if c, ok := e.RHS.(Calculation); ok && len(c.Operands) < 2 {
		return fmt.Errorf("%w: %s", ErrTooFewOperands, e.Target)
	}
	if e.IsConstraint() {
		if _, err := ConstraintFromRHS(e.Target, e.RHS); err != nil {
			return err
		}
	}
	for _, o := range References(e.RHS) {
		if _, err := ParseName(string(o.Name)); err != nil {
			return err
		}
		if o.Name.IsInput() {
			f.inputs[o.Name] = struct{}{}
		}
	}
	if e.Target.IsInput() {
		f.inputs[e.Target] = struct{}{}
	}

	f.order = append(f.order, e.Target)
	f.defs[e.Target] = e.RHS
	f.resolved = false
	f.invalidate()
	return nil
}

// Validate checks that every referenced internal or output variable is
// defined and that no definition depends on itself.
func (f *BooleanFunction) Validate() error {
	for _, target := range f.order {
		for _, o := range References(f.defs[target]) {
			if o.Name.IsInput() {
				continue
			}
			if _, ok := f.defs[o.Name]; !ok {
				return fmt.Errorf("%w: %s (used by %s)", ErrUndefinedVariable, o.Name, target)
			}
		}
	}
	if name, ok := f.findCycle(); ok {
		return fmt.Errorf("%w: %s", ErrCyclicDefinition, name)
	}
	return nil
}

// findCycle runs an iterative three-colour DFS over the reference graph.
func (f *BooleanFunction) findCycle() (Name, bool) {
	const (
		white = iota
		grey
		black
	)
	type frame struct {
		name Name
		next int
	}
	color := make(map[Name]int, len(f.defs))
	for _, root := range f.order {
		if color[root] != white {
			continue
		}
		stack := []frame{{name: root}}
		color[root] = grey
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			refs := References(f.defs[top.name])
			if top.next >= len(refs) {
				color[top.name] = black
				stack = stack[:len(stack)-1]
				continue
			}
			child := refs[top.next].Name
			top.next++
			if _, defined := f.defs[child]; !defined {
				continue
			}
			switch color[child] {
			case grey:
				return child, true
			case white:
				color[child] = grey
				stack = append(stack, frame{name: child})
			}
		}
	}
	return "", false
}

func (f *BooleanFunction) lookup(name Name) (RHS, bool) {
	rhs, ok := f.defs[name]
	return rhs, ok
}

// Expression returns the current definition of name. It reports false for
// a free input parameter. Every referenced non-input name has a definition,
// since Parse and FromExpressions reject undefined variables, so false for
// any other name only means the caller asked about a name the program
// never mentions.
func (f *BooleanFunction) Expression(name Name) (RHS, bool) {
	return f.lookup(name)
}

// Resolve simplifies every line until a full pass changes nothing, then
// recomputes the free input parameters. It returns the number of passes,
// the last of which made no change.
func (f *BooleanFunction) Resolve() int {
	passes := 0
	for {
		passes++
		changed := false
		for _, target := range f.order {
			cur := f.defs[target]
			next := Resolve(cur, f.lookup)
			if !next.Equal(cur) {
				f.defs[target] = next
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	f.free = f.reachableInputs()
	f.resolved = true
	f.invalidate()
	return passes
}

// Resolved reports whether Resolve has run since the last change.
func (f *BooleanFunction) Resolved() bool { return f.resolved }

// reachableInputs collects the input parameters the outputs still depend
// on. Inputs pinned to a constant have no references and drop out; inputs
// tied to another input lead on to that input.
func (f *BooleanFunction) reachableInputs() []Name {
	var roots []Name
	for _, target := range f.order {
		if target.IsOutput() {
			roots = append(roots, target)
		}
	}
	if len(roots) == 0 {
		for _, target := range f.order {
			if !target.IsInput() {
				roots = append(roots, target)
			}
		}
	}

	visited := make(map[Name]bool, len(f.defs))
	free := make([]Name, 0)
	stack := append([]Name(nil), roots...)
	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[name] {
			continue
		}
		visited[name] = true
		def, ok := f.defs[name]
		if !ok {
			if name.IsInput() {
				free = append(free, name)
			}
			continue
		}
		for _, o := range References(def) {
			if !visited[o.Name] {
				stack = append(stack, o.Name)
			}
		}
	}
	SortNames(free)
	return free
}

// InputParameters returns the free input parameters, ordered by index.
// Before the first Resolve this is every mentioned input that carries no
// constraint.
func (f *BooleanFunction) InputParameters() []Name {
	if f.resolved {
		return append([]Name(nil), f.free...)
	}
	out := make([]Name, 0, len(f.inputs))
	for name := range f.inputs {
		if _, constrained := f.defs[name]; !constrained {
			out = append(out, name)
		}
	}
	SortNames(out)
	return out
}

// AllInputParameters returns every input parameter mentioned by the
// program, constrained or not.
func (f *BooleanFunction) AllInputParameters() []Name {
	out := make([]Name, 0, len(f.inputs))
	for name := range f.inputs {
		out = append(out, name)
	}
	SortNames(out)
	return out
}

// Constraints returns the constraint lines currently in the program.
func (f *BooleanFunction) Constraints() []Constraint {
	var out []Constraint
	for _, target := range f.order {
		if !target.IsInput() {
			continue
		}
		// a resolved constraint may have collapsed, e.g. i1 = i2 with i2
		// pinned becomes a constant; ConstraintFromRHS handles both
		c, err := ConstraintFromRHS(target, f.defs[target])
		if err == nil {
			out = append(out, c)
		}
	}
	return out
}

// WithConstraint returns an independent copy of f with c installed for
// its target, replacing any previous definition. The copy is unresolved.
func (f *BooleanFunction) WithConstraint(c Constraint) (*BooleanFunction, error) {
	return f.WithConstraints(c)
}

// WithConstraints is WithConstraint for several constraints, copying f
// once.
func (f *BooleanFunction) WithConstraints(cs ...Constraint) (*BooleanFunction, error) {
	for _, c := range cs {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	child := f.Clone()
	for _, c := range cs {
		if _, ok := child.defs[c.Target]; !ok {
			child.order = append(child.order, c.Target)
		}
		child.defs[c.Target] = c.RHS()
		child.inputs[c.Target] = struct{}{}
		if c.Kind == ConstraintEquality || c.Kind == ConstraintNegation {
			child.inputs[c.Other] = struct{}{}
		}
	}
	child.resolved = false
	if name, ok := child.findCycle(); ok {
		return nil, fmt.Errorf("%w: %s", ErrCyclicDefinition, name)
	}
	return child, nil
}

// Clone returns a copy of f that shares no mutable state with it.
// Right-hand sides are immutable values and are shared.
func (f *BooleanFunction) Clone() *BooleanFunction {
	g := &BooleanFunction{
		order:    append([]Name(nil), f.order...),
		defs:     make(map[Name]RHS, len(f.defs)),
		inputs:   make(map[Name]struct{}, len(f.inputs)),
		free:     append([]Name(nil), f.free...),
		resolved: f.resolved,
	}
	for k, v := range f.defs {
		g.defs[k] = v
	}
	for k := range f.inputs {
		g.inputs[k] = struct{}{}
	}
	return g
}

// Expressions returns the lines in program order.
func (f *BooleanFunction) Expressions() []Expression {
	out := make([]Expression, len(f.order))
	for i, target := range f.order {
		out[i] = Expression{Target: target, RHS: f.defs[target]}
	}
	return out
}

// Outputs returns the output lines ordered by index.
func (f *BooleanFunction) Outputs() []Expression {
	var names []Name
	for _, target := range f.order {
		if target.IsOutput() {
			names = append(names, target)
		}
	}
	SortNames(names)
	out := make([]Expression, len(names))
	for i, name := range names {
		out[i] = Expression{Target: name, RHS: f.defs[name]}
	}
	return out
}

// OutputValues returns the value of every output if all of them have
// resolved to constants.
func (f *BooleanFunction) OutputValues() ([]bool, bool) {
	outputs := f.Outputs()
	values := make([]bool, len(outputs))
	for i, e := range outputs {
		c, ok := e.RHS.(Constant)
		if !ok {
			return nil, false
		}
		values[i] = c.Value
	}
	return values, true
}

// Len is the number of lines, constraints included.
func (f *BooleanFunction) Len() int { return len(f.order) }

// OperationCount is the number of lines that are not constraints.
func (f *BooleanFunction) OperationCount() int {
	n := 0
	for _, target := range f.order {
		if !target.IsInput() {
			n++
		}
	}
	return n
}

func (f *BooleanFunction) invalidate() {
	f.mu.Lock()
	f.report = nil
	f.mu.Unlock()
}
