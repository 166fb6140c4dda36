package logic

import "unicode"

// TokenType identifies the kind of a lexed token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenName
	TokenAssign
	TokenNot
	TokenAnd
	TokenOr
	TokenXor
	TokenTrue
	TokenFalse
	TokenIllegal
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenName:
		return "NAME"
	case TokenAssign:
		return "="
	case TokenNot:
		return "¬"
	case TokenAnd:
		return "∧"
	case TokenOr:
		return "∨"
	case TokenXor:
		return "⊻"
	case TokenTrue:
		return "True"
	case TokenFalse:
		return "False"
	default:
		return "ILLEGAL"
	}
}

// Token is one lexeme of a program line.
type Token struct {
	Type     TokenType
	Value    string
	Position int
}

// Lexer scans a single program line into tokens.
type Lexer struct {
	input    []rune
	position int
	tokens   []Token
}

// NewLexer returns a Lexer for one line of input.
func NewLexer(line string) *Lexer {
	return &Lexer{
		input:  []rune(line),
		tokens: make([]Token, 0, 8),
	}
}

// Tokenize processes the entire line and produces the list of tokens,
// terminated by TokenEOF.
func (l *Lexer) Tokenize() []Token {
	for l.position < len(l.input) {
		start := l.position
		switch c := l.input[l.position]; {
		case unicode.IsSpace(c):
			l.position++
		case c == '=':
			l.addToken(TokenAssign, "=", start)
			l.position++
		case c == '¬':
			l.addToken(TokenNot, "¬", start)
			l.position++
		case c == '∧':
			l.addToken(TokenAnd, "∧", start)
			l.position++
		case c == '∨':
			l.addToken(TokenOr, "∨", start)
			l.position++
		case c == '⊻':
			l.addToken(TokenXor, "⊻", start)
			l.position++
		case isWordRune(c):
			l.lexWord(start)
		default:
			l.addToken(TokenIllegal, string(c), start)
			l.position++
		}
	}
	l.addToken(TokenEOF, "", l.position)
	return l.tokens
}

func (l *Lexer) lexWord(start int) {
	for l.position < len(l.input) && isWordRune(l.input[l.position]) {
		l.position++
	}
	word := string(l.input[start:l.position])
	switch word {
	case "True":
		l.addToken(TokenTrue, word, start)
	case "False":
		l.addToken(TokenFalse, word, start)
	default:
		l.addToken(TokenName, word, start)
	}
}

func (l *Lexer) addToken(typ TokenType, value string, pos int) {
	l.tokens = append(l.tokens, Token{Type: typ, Value: value, Position: pos})
}

func isWordRune(c rune) bool {
	return c < unicode.MaxASCII && (unicode.IsLetter(c) || unicode.IsDigit(c))
}
