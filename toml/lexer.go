package toml

import (
	"strings"
	"unicode/utf8"
)

// Lexer splits TOML input into tokens
type Lexer struct {
	input []byte
	pos   int
	line  int
	col   int
}

// NewLexer creates a lexer positioned at the start of input
func NewLexer(input []byte) *Lexer {
	return &Lexer{input: input, line: 1, col: 1}
}

// NextToken returns the next token in the stream
func (l *Lexer) NextToken() Token {
	l.skipBlanks()

	line, col := l.line, l.col
	tok := func(typ TokenType, lit string) Token {
		return Token{Type: typ, Literal: lit, Line: line, Col: col}
	}

	if l.pos >= len(l.input) {
		return tok(TokenEOF, "")
	}

	ch := l.peek()
	switch ch {
	case '\n':
		l.advance()
		return tok(TokenNewline, "\n")
	case '#':
		start := l.pos
		for l.pos < len(l.input) && l.peek() != '\n' {
			l.advance()
		}
		return tok(TokenComment, string(l.input[start:l.pos]))
	case '=':
		l.advance()
		return tok(TokenEqual, "=")
	case '.':
		l.advance()
		return tok(TokenDot, ".")
	case ',':
		l.advance()
		return tok(TokenComma, ",")
	case '[':
		l.advance()
		return tok(TokenLBracket, "[")
	case ']':
		l.advance()
		return tok(TokenRBracket, "]")
	case '"':
		lit, ok := l.readString()
		if !ok {
			return tok(TokenError, lit)
		}
		return tok(TokenString, lit)
	}

	if isBareChar(ch) || ch == '+' {
		lit := l.readBare()
		return tok(classifyBare(lit), lit)
	}

	l.advance()
	return tok(TokenError, "unexpected character "+string(ch))
}

func (l *Lexer) advance() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, w := utf8.DecodeRune(l.input[l.pos:])
	l.pos += w
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRune(l.input[l.pos:])
	return r
}

func (l *Lexer) skipBlanks() {
	for l.pos < len(l.input) {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.advance()
		default:
			return
		}
	}
}

// readString consumes a basic string; on failure the returned literal is the error message
func (l *Lexer) readString() (string, bool) {
	l.advance()
	var sb strings.Builder
	for l.pos < len(l.input) {
		ch := l.advance()
		switch ch {
		case '"':
			return sb.String(), true
		case '\n':
			return "newline in basic string", false
		case '\\':
			esc := l.advance()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '"', '\\':
				sb.WriteRune(esc)
			default:
				return "invalid escape \\" + string(esc), false
			}
		default:
			sb.WriteRune(ch)
		}
	}
	return "unterminated string", false
}

// readBare consumes a bare key or a number; '.' is kept only inside numbers
func (l *Lexer) readBare() string {
	start := l.pos
	numeric := isDigit(l.peek()) || l.peek() == '+' || l.peek() == '-'
	for l.pos < len(l.input) {
		ch := l.peek()
		if isBareChar(ch) || ch == '+' || (ch == '.' && numeric) {
			if !isDigit(ch) && ch != '.' && ch != '_' && ch != '+' && ch != '-' && ch != 'e' && ch != 'E' {
				numeric = false
			}
			l.advance()
			continue
		}
		break
	}
	return string(l.input[start:l.pos])
}

func classifyBare(lit string) TokenType {
	if lit == "true" || lit == "false" {
		return TokenBool
	}
	body := strings.TrimLeft(lit, "+-")
	if body == "" || !isDigit(rune(body[0])) {
		return TokenIdent
	}
	for _, r := range body {
		if !isDigit(r) && r != '_' && r != '.' && r != 'e' && r != 'E' && r != '+' && r != '-' {
			return TokenIdent
		}
	}
	if strings.ContainsAny(body, ".eE") {
		return TokenFloat
	}
	return TokenInteger
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isBareChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || isDigit(r) || r == '_' || r == '-'
}
