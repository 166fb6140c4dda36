package logic

import (
	"fmt"
	"sort"
	"strconv"
)

// Namespace classifies a variable by the first character of its name.
type Namespace int

const (
	// InputNamespace holds the free boolean inputs ("i" prefix).
	InputNamespace Namespace = iota
	// InternalNamespace holds intermediate values ("v" prefix).
	InternalNamespace
	// OutputNamespace holds the circuit outputs ("o" prefix).
	OutputNamespace
)

func (ns Namespace) String() string {
	switch ns {
	case InputNamespace:
		return "input"
	case InternalNamespace:
		return "internal"
	case OutputNamespace:
		return "output"
	default:
		return "?"
	}
}

// Prefix returns the name prefix used by the namespace.
func (ns Namespace) Prefix() byte {
	switch ns {
	case InputNamespace:
		return 'i'
	case InternalNamespace:
		return 'v'
	default:
		return 'o'
	}
}

// Name identifies a variable such as "i3", "v12" or "o1".
//
// Names are plain values: two names are the same variable exactly when the
// strings are equal, so they can be used directly as map keys and shared
// between branches without a registry.
type Name string

// ParseName validates s and returns it as a Name.
func ParseName(s string) (Name, error) {
	if len(s) < 2 {
		return "", fmt.Errorf("%w: %q", ErrUnknownNamespace, s)
	}
	switch s[0] {
	case 'i', 'v', 'o':
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownNamespace, s)
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", fmt.Errorf("%w: %q", ErrUnknownNamespace, s)
		}
	}
	return Name(s), nil
}

// NewName builds the name of the index-th variable of a namespace.
func NewName(ns Namespace, index int) Name {
	return Name(string(ns.Prefix()) + strconv.Itoa(index))
}

// Input returns the name of the index-th input parameter.
func Input(index int) Name { return NewName(InputNamespace, index) }

// Internal returns the name of the index-th internal variable.
func Internal(index int) Name { return NewName(InternalNamespace, index) }

// Output returns the name of the index-th output parameter.
func Output(index int) Name { return NewName(OutputNamespace, index) }

// Namespace reports which namespace the name belongs to.
func (n Name) Namespace() Namespace {
	if n == "" {
		return OutputNamespace
	}
	switch n[0] {
	case 'i':
		return InputNamespace
	case 'v':
		return InternalNamespace
	default:
		return OutputNamespace
	}
}

// Index is the numeric suffix of the name, or -1 if it has none.
func (n Name) Index() int {
	if len(n) < 2 {
		return -1
	}
	idx, err := strconv.Atoi(string(n[1:]))
	if err != nil {
		return -1
	}
	return idx
}

func (n Name) IsInput() bool    { return n.Namespace() == InputNamespace }
func (n Name) IsInternal() bool { return n.Namespace() == InternalNamespace }
func (n Name) IsOutput() bool   { return n.Namespace() == OutputNamespace }

func (n Name) String() string { return string(n) }

// Less orders names by namespace priority (input < internal < output) and
// then by numeric suffix.
func (n Name) Less(other Name) bool {
	if a, b := n.Namespace(), other.Namespace(); a != b {
		return a < b
	}
	if a, b := n.Index(), other.Index(); a != b {
		return a < b
	}
	return n < other
}

// SortNames sorts names in place using Name.Less.
func SortNames(names []Name) {
	sort.Slice(names, func(i, j int) bool { return names[i].Less(names[j]) })
}
