package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputParameters(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		program    string
		wantBefore []Name
		wantAfter  []Name
		wantAll    []Name
	}{
		{
			name:       "untouched inputs stay free",
			program:    "o1 = i1 ∧ i2\no2 = i1 ∨ i2",
			wantBefore: []Name{"i1", "i2"},
			wantAfter:  []Name{"i1", "i2"},
			wantAll:    []Name{"i1", "i2"},
		},
		{
			name:       "input not reaching an output is eliminated",
			program:    "v1 = i1\no1 = True",
			wantBefore: []Name{"i1"},
			wantAfter:  []Name{},
			wantAll:    []Name{"i1"},
		},
		{
			name:       "pinned input is not free",
			program:    "i1 = False\no1 = i1 ∨ i2",
			wantBefore: []Name{"i2"},
			wantAfter:  []Name{"i2"},
			wantAll:    []Name{"i1", "i2"},
		},
		{
			name:       "equality leads to the other input",
			program:    "i2 = ¬i1\no1 = i2 ∧ i3",
			wantBefore: []Name{"i1", "i3"},
			wantAfter:  []Name{"i1", "i3"},
			wantAll:    []Name{"i1", "i2", "i3"},
		},
		{
			name:       "cancelled input is eliminated",
			program:    "v1 = i1 ⊻ i2\no1 = v1 ⊻ i1",
			wantBefore: []Name{"i1", "i2"},
			wantAfter:  []Name{"i2"},
			wantAll:    []Name{"i1", "i2"},
		},
		{
			name:       "without outputs every line is a root",
			program:    "v1 = i1 ∧ i3\nv2 = True",
			wantBefore: []Name{"i1", "i3"},
			wantAfter:  []Name{"i1", "i3"},
			wantAll:    []Name{"i1", "i3"},
		},
		{
			name:       "no inputs",
			program:    "v1 = True\no1 = ¬v1",
			wantBefore: []Name{},
			wantAfter:  []Name{},
			wantAll:    []Name{},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := MustParse(tt.program)
			assert.False(t, f.Resolved())
			assert.ElementsMatch(t, tt.wantBefore, f.InputParameters())
			assert.ElementsMatch(t, tt.wantAll, f.AllInputParameters())

			f.Resolve()
			assert.True(t, f.Resolved())
			assert.ElementsMatch(t, tt.wantAfter, f.InputParameters())
			assert.ElementsMatch(t, tt.wantAll, f.AllInputParameters())
		})
	}
}

func TestWithConstraintLeavesParentUntouched(t *testing.T) {
	t.Parallel()
	parent := MustParse("v1 = i1 ∧ i2\no1 = v1 ⊻ i3")
	parent.Resolve()
	before := parent.Lines()

	child, err := parent.WithConstraint(Fix("i1", false))
	require.NoError(t, err)
	assert.False(t, child.Resolved())
	child.Resolve()

	assert.Equal(t, before, parent.Lines())
	assert.Equal(t, []Name{"i1", "i2", "i3"}, parent.InputParameters())
	assert.Equal(t, []Name{"i3"}, child.InputParameters())

	rhs, ok := child.Expression("o1")
	require.True(t, ok)
	assert.Equal(t, "i3", rhs.String())
	assert.Equal(t, []Constraint{Fix("i1", false)}, child.Constraints())
	assert.Empty(t, parent.Constraints())
}

func TestWithConstraintRejects(t *testing.T) {
	t.Parallel()
	f := MustParse("i2 = i1\no1 = i1 ∧ i2 ∧ i3")

	_, err := f.WithConstraint(Fix("v1", true))
	assert.ErrorIs(t, err, ErrInvalidConstraint)

	_, err = f.WithConstraint(EqualTo("i3", "i3"))
	assert.ErrorIs(t, err, ErrInvalidConstraint)

	// i1 = i2 while i2 = i1
	_, err = f.WithConstraint(EqualTo("i1", "i2"))
	assert.ErrorIs(t, err, ErrCyclicDefinition)
}

func TestWithConstraintReplacesDefinition(t *testing.T) {
	t.Parallel()
	f := MustParse("i1 = True\no1 = i1 ∧ i2")
	child, err := f.WithConstraint(Fix("i1", false))
	require.NoError(t, err)
	assert.Equal(t, f.Len(), child.Len())

	child.Resolve()
	values, ok := child.OutputValues()
	require.True(t, ok)
	assert.Equal(t, []bool{false}, values)
}

func TestConstraintSemantics(t *testing.T) {
	t.Parallel()
	tests := []struct {
		c    Constraint
		line string
	}{
		{Fix("i1", true), "i1 = True"},
		{Fix("i1", false), "i1 = False"},
		{EqualTo("i2", "i1"), "i2 = i1"},
		{NotEqualTo("i2", "i1"), "i2 = ¬i1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.line, tt.c.String())
		expr, err := ParseLine(tt.line)
		require.NoError(t, err)
		got, err := ConstraintFromRHS(expr.Target, expr.RHS)
		require.NoError(t, err)
		assert.Equal(t, tt.c, got)
	}
}

// Fixing any free input to either value never adds a free input.
func TestFreeInputsShrinkUnderConstraints(t *testing.T) {
	t.Parallel()
	programs := []string{
		"v1 = i1 ∧ i2\nv2 = i3 ⊻ v1\nv3 = v2 ∨ i4\no1 = v3\no2 = v1 ⊻ i4",
		"v1 = i1 ⊻ i2 ⊻ i3\nv2 = ¬v1 ∧ i4\no1 = v2 ∨ i1\no2 = v1",
		"o1 = i1 ∧ i2\no2 = i1 ∨ i2",
	}
	for _, program := range programs {
		parent := MustParse(program)
		parent.Resolve()
		free := parent.InputParameters()

		for _, in := range free {
			for _, value := range []bool{false, true} {
				child, err := parent.WithConstraint(Fix(in, value))
				require.NoError(t, err)
				child.Resolve()
				childFree := child.InputParameters()
				assert.NotContains(t, childFree, in)
				assert.Subset(t, free, childFree)
			}
		}
	}
}

func TestFromExpressions(t *testing.T) {
	t.Parallel()
	f, err := FromExpressions([]Expression{
		Assign("v1", Xor(Pos("i1"), Neg("i2"))),
		Assign("o1", Eq(Pos("v1"))),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, f.OperationCount())
	assert.Len(t, f.Outputs(), 1)

	_, err = FromExpressions([]Expression{Assign("o1", Eq(Pos("v1")))})
	assert.ErrorIs(t, err, ErrUndefinedVariable)

	_, err = FromExpressions([]Expression{Assign("v1", Calculation{Op: OpAnd, Operands: []Operand{Pos("i1")}})})
	assert.ErrorIs(t, err, ErrTooFewOperands)

	_, err = FromExpressions([]Expression{Assign("v1", nil)})
	assert.ErrorIs(t, err, ErrMalformedLine)
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()
	f := MustParse("v1 = True\no1 = v1 ∧ i1")
	g := f.Clone()
	g.Resolve()

	rhs, _ := f.Expression("o1")
	assert.Equal(t, "v1 ∧ i1", rhs.String())
	rhs, _ = g.Expression("o1")
	assert.Equal(t, "i1", rhs.String())
}

func TestOutputValues(t *testing.T) {
	t.Parallel()
	f := MustParse("o2 = i1 ∧ ¬i1\no1 = i2 ∨ ¬i2")
	_, ok := f.OutputValues()
	assert.False(t, ok)

	f.Resolve()
	values, ok := f.OutputValues()
	require.True(t, ok)
	assert.Equal(t, []bool{true, false}, values)
}

func TestExpressionLookup(t *testing.T) {
	t.Parallel()
	f := MustParse("v1 = i1 ∧ i2\no1 = ¬v1\n")

	_, ok := f.Expression("v1")
	assert.True(t, ok)
	_, ok = f.Expression("i1")
	assert.False(t, ok, "free input")
	_, ok = f.Expression("v9")
	assert.False(t, ok, "name not in program")

	_, err := ParseString("o1 = v9 ∧ i1\n")
	assert.ErrorIs(t, err, ErrUndefinedVariable)
}
