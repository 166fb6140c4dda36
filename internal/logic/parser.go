package logic

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const maxLineSize = 64 << 20

// Parse reads a program in the textual grammar:
//
//	# comment
//	i1 = False
//	v1 = i1 ⊻ ¬i2
//	o1 = v1 ∧ i3 ∧ i4
//
// The first malformed line aborts parsing with a *ParseError.
func Parse(r io.Reader) (*BooleanFunction, error) {
	f := New()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		expr, err := ParseLine(text)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: text, Err: err}
		}
		if err := f.Append(expr); err != nil {
			return nil, &ParseError{Line: lineNo, Text: text, Err: err}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, &ParseError{Err: err}
	}
	return f, nil
}

// ParseString parses a program held in a string.
func ParseString(s string) (*BooleanFunction, error) {
	return Parse(strings.NewReader(s))
}

// MustParse is like ParseString but panics on error. Intended for tests
// and fixed programs.
func MustParse(s string) *BooleanFunction {
	f, err := ParseString(s)
	if err != nil {
		panic(err)
	}
	return f
}

// ParseLine parses a single non-comment line.
func ParseLine(line string) (Expression, error) {
	p := &lineParser{tokens: NewLexer(line).Tokenize()}
	return p.parse()
}

type lineParser struct {
	tokens  []Token
	current int
}

func (p *lineParser) peek() Token { return p.tokens[p.current] }

func (p *lineParser) next() Token {
	tok := p.tokens[p.current]
	if tok.Type != TokenEOF {
		p.current++
	}
	return tok
}

func (p *lineParser) parse() (Expression, error) {
	head := p.next()
	if head.Type != TokenName {
		return Expression{}, fmt.Errorf("%w: expected a variable name", ErrMalformedLine)
	}
	target, err := ParseName(head.Value)
	if err != nil {
		return Expression{}, err
	}
	if p.next().Type != TokenAssign {
		return Expression{}, fmt.Errorf("%w: missing '='", ErrMalformedLine)
	}

	rhs, err := p.parseRHS()
	if err != nil {
		return Expression{}, err
	}
	if target.IsInput() {
		if _, err := ConstraintFromRHS(target, rhs); err != nil {
			return Expression{}, err
		}
	}
	return Expression{Target: target, RHS: rhs}, nil
}

func (p *lineParser) parseRHS() (RHS, error) {
	switch tok := p.peek(); tok.Type {
	case TokenTrue, TokenFalse:
		p.next()
		if err := p.expectEOF(); err != nil {
			return nil, err
		}
		return Constant{Value: tok.Type == TokenTrue}, nil
	}

	first, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	if p.peek().Type == TokenEOF {
		return Equation{Operand: first}, nil
	}

	operands := []Operand{first}
	var op Operator
	for p.peek().Type != TokenEOF {
		tok := p.next()
		var cur Operator
		switch tok.Type {
		case TokenAnd:
			cur = OpAnd
		case TokenOr:
			cur = OpOr
		case TokenXor:
			cur = OpXor
		default:
			return nil, fmt.Errorf("%w: unexpected %q", ErrMalformedLine, tok.Value)
		}
		if op == 0 {
			op = cur
		} else if cur != op {
			return nil, ErrMixedOperators
		}
		o, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		operands = append(operands, o)
	}
	return NewCalculation(op, operands...)
}

func (p *lineParser) parseOperand() (Operand, error) {
	negated := false
	if p.peek().Type == TokenNot {
		p.next()
		negated = true
	}
	tok := p.next()
	if tok.Type != TokenName {
		return Operand{}, fmt.Errorf("%w: expected an operand, got %q", ErrMalformedLine, tok.Value)
	}
	name, err := ParseName(tok.Value)
	if err != nil {
		return Operand{}, err
	}
	return Operand{Name: name, Negated: negated}, nil
}

func (p *lineParser) expectEOF() error {
	if tok := p.peek(); tok.Type != TokenEOF {
		return fmt.Errorf("%w: trailing %q", ErrMalformedLine, tok.Value)
	}
	return nil
}
