package logic

import "sort"

// InputRank counts how often an input parameter appears across right-hand
// sides.
type InputRank struct {
	Name  Name
	Count int
}

// PairRank counts how many right-hand sides mention both inputs.
type PairRank struct {
	A, B  Name
	Count int
}

// ComplexityReport summarises how entangled a program's inputs are.
type ComplexityReport struct {
	// ExpressionCount excludes constraint lines.
	ExpressionCount int
	// Inputs is sorted by descending Count, then by name.
	Inputs []InputRank
	// Pairs is sorted by descending Count, then by names.
	Pairs []PairRank
}

// Complexity returns the report for the program's current state. The
// report is computed on first use and cached until the program changes.
// It is safe to call concurrently on distinct programs and on the same
// program as long as nothing mutates it.
func (f *BooleanFunction) Complexity() *ComplexityReport {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.report == nil {
		f.report = buildComplexityReport(f)
	}
	return f.report
}

type namePair struct{ a, b Name }

func buildComplexityReport(f *BooleanFunction) *ComplexityReport {
	report := &ComplexityReport{}
	counts := make(map[Name]int)
	pairs := make(map[namePair]int)

	for _, target := range f.order {
		if target.IsInput() {
			continue
		}
		report.ExpressionCount++

		var distinct []Name
		seen := make(map[Name]bool)
		for _, o := range References(f.defs[target]) {
			if !o.Name.IsInput() {
				continue
			}
			counts[o.Name]++
			if !seen[o.Name] {
				seen[o.Name] = true
				distinct = append(distinct, o.Name)
			}
		}
		SortNames(distinct)
		for i := 0; i < len(distinct); i++ {
			for j := i + 1; j < len(distinct); j++ {
				pairs[namePair{distinct[i], distinct[j]}]++
			}
		}
	}

	report.Inputs = make([]InputRank, 0, len(counts))
	for name, n := range counts {
		report.Inputs = append(report.Inputs, InputRank{Name: name, Count: n})
	}
	sort.Slice(report.Inputs, func(i, j int) bool {
		a, b := report.Inputs[i], report.Inputs[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name.Less(b.Name)
	})

	report.Pairs = make([]PairRank, 0, len(pairs))
	for p, n := range pairs {
		report.Pairs = append(report.Pairs, PairRank{A: p.a, B: p.b, Count: n})
	}
	sort.Slice(report.Pairs, func(i, j int) bool {
		a, b := report.Pairs[i], report.Pairs[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.A != b.A {
			return a.A.Less(b.A)
		}
		return a.B.Less(b.B)
	})
	return report
}

// Rank returns the appearance count of name, or 0.
func (r *ComplexityReport) Rank(name Name) int {
	for _, in := range r.Inputs {
		if in.Name == name {
			return in.Count
		}
	}
	return 0
}
