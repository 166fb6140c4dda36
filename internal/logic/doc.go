// Package logic implements the boolean program model and its resolution
// engine.
//
// A program is a list of assignments "name = rhs" over three namespaces:
// input parameters (i1, i2, ...), internal variables (v1, ...) and outputs
// (o1, ...). A right-hand side is a Constant, an Equation (a possibly
// negated alias of another variable) or a Calculation applying AND, OR or
// XOR to two or more signed operands. A line whose target is an input
// parameter is a constraint and may only pin the input to a constant or to
// another input.
//
// Resolution rewrites every line with the rules below until nothing
// changes:
//   - constants propagate through aliases
//   - operands defined by aliases, or by a calculation with the same
//     operator, are inlined one level per pass
//   - AND/OR drop identities, collapse on annihilators, remove duplicates
//     and detect x ∧ ¬x / x ∨ ¬x
//   - XOR cancels by parity and folds negations into one sign
//
// After resolution the free input parameters are those the outputs still
// depend on.
package logic
