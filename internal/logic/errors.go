package logic

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedLine       = errors.New("malformed line")
	ErrUnknownNamespace    = errors.New("unrecognized variable namespace")
	ErrMixedOperators      = errors.New("operators cannot be mixed in one calculation")
	ErrTooFewOperands      = errors.New("calculation needs at least two operands")
	ErrInvalidConstraint   = errors.New("invalid constraint")
	ErrDuplicateDefinition = errors.New("variable defined more than once")
	ErrUndefinedVariable   = errors.New("variable referenced but never defined")
	ErrCyclicDefinition    = errors.New("variable depends on itself")
)

// ParseError reports a program construction failure at a given line.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line <= 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }
