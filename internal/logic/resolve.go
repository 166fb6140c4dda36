package logic

// Lookup returns the current definition of a variable. It reports false
// for a variable that has no definition, which for an input parameter
// means the input is still free.
type Lookup func(Name) (RHS, bool)

// Resolve applies one step of the simplification rules to rhs under the
// bindings given by lookup and returns the result. rhs itself is never
// modified. Repeated application over a whole program reaches a fixpoint;
// see BooleanFunction.Resolve.
func Resolve(rhs RHS, lookup Lookup) RHS {
	switch r := rhs.(type) {
	case Constant:
		return r
	case Equation:
		return resolveEquation(r, lookup)
	case Calculation:
		return resolveCalculation(r, lookup)
	default:
		return rhs
	}
}

func constantOf(name Name, lookup Lookup) (value, ok bool) {
	def, found := lookup(name)
	if !found {
		return false, false
	}
	c, isConst := def.(Constant)
	return c.Value, isConst
}

func resolveEquation(e Equation, lookup Lookup) RHS {
	if v, ok := constantOf(e.Operand.Name, lookup); ok {
		return Constant{Value: v != e.Operand.Negated}
	}
	return e
}

func resolveCalculation(c Calculation, lookup Lookup) RHS {
	operands := expand(c, lookup)
	switch c.Op {
	case OpAnd, OpOr:
		return reduceAndOr(c.Op, operands, lookup)
	case OpXor:
		return reduceXor(operands, lookup)
	default:
		return c
	}
}

// expand inlines, by one level, every operand whose definition is an alias
// or a calculation with the same operator.
func expand(c Calculation, lookup Lookup) []Operand {
	out := make([]Operand, 0, len(c.Operands))
	for _, o := range c.Operands {
		def, ok := lookup(o.Name)
		if !ok {
			out = append(out, o)
			continue
		}
		switch d := def.(type) {
		case Equation:
			if d.Operand.Name == o.Name {
				out = append(out, o)
				continue
			}
			out = append(out, Operand{Name: d.Operand.Name, Negated: o.Negated != d.Operand.Negated})
		case Calculation:
			switch {
			case d.Op != c.Op:
				out = append(out, o)
			case !o.Negated:
				out = append(out, d.Operands...)
			case c.Op == OpXor:
				// ¬(a ⊻ b ⊻ …) = ¬a ⊻ b ⊻ …
				out = append(out, d.Operands[0].Not())
				out = append(out, d.Operands[1:]...)
			default:
				// ¬(a ∧ b) is not an AND of anything
				out = append(out, o)
			}
		default:
			out = append(out, o)
		}
	}
	return out
}

// reduceAndOr handles AND and its dual OR. For AND the absorbing value is
// False and the identity True; OR swaps them.
func reduceAndOr(op Operator, operands []Operand, lookup Lookup) RHS {
	absorbing := op == OpOr

	kept := make([]Operand, 0, len(operands))
	seen := make(map[Name]bool, len(operands))
	for _, o := range operands {
		if v, ok := constantOf(o.Name, lookup); ok {
			if (v != o.Negated) == absorbing {
				return Constant{Value: absorbing}
			}
			continue
		}
		if negated, dup := seen[o.Name]; dup {
			if negated != o.Negated {
				// x ∧ ¬x, x ∨ ¬x
				return Constant{Value: absorbing}
			}
			continue
		}
		seen[o.Name] = o.Negated
		kept = append(kept, o)
	}

	switch len(kept) {
	case 0:
		return Constant{Value: !absorbing}
	case 1:
		return resolveEquation(Equation{Operand: kept[0]}, lookup)
	default:
		return Calculation{Op: op, Operands: kept}
	}
}

// reduceXor combines operands by parity. Negations and known-True operands
// toggle a running sign that ends up on the first survivor.
func reduceXor(operands []Operand, lookup Lookup) RHS {
	sign := false
	counts := make(map[Name]int, len(operands))
	order := make([]Name, 0, len(operands))
	for _, o := range operands {
		if o.Negated {
			sign = !sign
		}
		if v, ok := constantOf(o.Name, lookup); ok {
			if v {
				sign = !sign
			}
			continue
		}
		if _, ok := counts[o.Name]; !ok {
			order = append(order, o.Name)
		}
		counts[o.Name]++
	}

	kept := make([]Operand, 0, len(order))
	for _, name := range order {
		if counts[name]%2 == 1 {
			kept = append(kept, Pos(name))
		}
	}

	switch len(kept) {
	case 0:
		return Constant{Value: sign}
	case 1:
		return resolveEquation(Equation{Operand: Operand{Name: kept[0].Name, Negated: sign}}, lookup)
	default:
		if sign {
			kept[0].Negated = true
		}
		return Calculation{Op: OpXor, Operands: kept}
	}
}
