package logic

import (
	"bufio"
	"io"
	"strings"
)

// sortedTargets orders lines for export: inputs, then internals, then
// outputs, each by numeric suffix.
func (f *BooleanFunction) sortedTargets() []Name {
	names := append([]Name(nil), f.order...)
	SortNames(names)
	return names
}

// WriteTo writes the program in the textual grammar, one line per
// expression, in deterministic order.
func (f *BooleanFunction) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var total int64
	for _, target := range f.sortedTargets() {
		n, err := bw.WriteString(string(target) + " = " + f.defs[target].String() + "\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, bw.Flush()
}

func (f *BooleanFunction) String() string {
	var sb strings.Builder
	_, _ = f.WriteTo(&sb)
	return sb.String()
}

// Lines returns the exported program as individual lines.
func (f *BooleanFunction) Lines() []string {
	targets := f.sortedTargets()
	lines := make([]string, len(targets))
	for i, target := range targets {
		lines[i] = string(target) + " = " + f.defs[target].String()
	}
	return lines
}
