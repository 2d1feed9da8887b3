package toml

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser parses TOML tokens into a map[string]any
// Integers decode as int64, floats as float64, arrays as []any, tables as map[string]any
type Parser struct {
	lexer     *Lexer
	curToken  Token
	peekToken Token
	root      map[string]any
	current   map[string]any // Table receiving key/value pairs
}

// NewParser creates a parser over input
func NewParser(input []byte) *Parser {
	p := &Parser{
		lexer: NewLexer(input),
		root:  make(map[string]any),
	}
	p.current = p.root
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
	for p.peekToken.Type == TokenComment {
		p.peekToken = p.lexer.NextToken()
	}
}

func (p *Parser) errorf(format string, args ...any) error {
	return &ParseError{Line: p.curToken.Line, Col: p.curToken.Col, Msg: fmt.Sprintf(format, args...)}
}

// Parse consumes the whole input
func (p *Parser) Parse() (map[string]any, error) {
	for p.curToken.Type != TokenEOF {
		switch p.curToken.Type {
		case TokenNewline:
			p.nextToken()
			continue
		case TokenLBracket:
			if err := p.parseTableHeader(); err != nil {
				return nil, err
			}
		case TokenIdent, TokenString, TokenInteger, TokenBool:
			if err := p.parseKeyValue(); err != nil {
				return nil, err
			}
		case TokenError:
			return nil, p.errorf("%s", p.curToken.Literal)
		default:
			return nil, p.errorf("unexpected token %s", p.curToken)
		}

		if err := p.expectLineEnd(); err != nil {
			return nil, err
		}
	}
	return p.root, nil
}

func (p *Parser) expectLineEnd() error {
	switch p.curToken.Type {
	case TokenNewline:
		p.nextToken()
		return nil
	case TokenEOF:
		return nil
	default:
		return p.errorf("expected end of line, got %s", p.curToken)
	}
}

// parseTableHeader handles [a] and [a.b]; the table becomes the current scope
func (p *Parser) parseTableHeader() error {
	p.nextToken()
	path, err := p.parseKeyPath()
	if err != nil {
		return err
	}
	if p.curToken.Type != TokenRBracket {
		return p.errorf("expected ']' after table name")
	}
	p.nextToken()

	table, err := p.descend(p.root, path)
	if err != nil {
		return err
	}
	p.current = table
	return nil
}

func (p *Parser) parseKeyValue() error {
	path, err := p.parseKeyPath()
	if err != nil {
		return err
	}
	if p.curToken.Type != TokenEqual {
		return p.errorf("expected '=' after key %q", strings.Join(path, "."))
	}
	p.nextToken()

	val, err := p.parseValue()
	if err != nil {
		return err
	}

	table, err := p.descend(p.current, path[:len(path)-1])
	if err != nil {
		return err
	}
	last := path[len(path)-1]
	if _, exists := table[last]; exists {
		return p.errorf("duplicate key %q", strings.Join(path, "."))
	}
	table[last] = val
	return nil
}

// parseKeyPath reads key(.key)*
func (p *Parser) parseKeyPath() ([]string, error) {
	var path []string
	for {
		switch p.curToken.Type {
		case TokenIdent, TokenString, TokenInteger, TokenBool:
			path = append(path, p.curToken.Literal)
		default:
			return nil, p.errorf("expected key, got %s", p.curToken)
		}
		p.nextToken()
		if p.curToken.Type != TokenDot {
			return path, nil
		}
		p.nextToken()
	}
}

// descend walks or creates nested tables from base along path
func (p *Parser) descend(base map[string]any, path []string) (map[string]any, error) {
	table := base
	for _, key := range path {
		next, ok := table[key]
		if !ok {
			child := make(map[string]any)
			table[key] = child
			table = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return nil, p.errorf("key %q is not a table", key)
		}
		table = child
	}
	return table, nil
}

func (p *Parser) parseValue() (any, error) {
	tok := p.curToken
	switch tok.Type {
	case TokenString:
		p.nextToken()
		return tok.Literal, nil
	case TokenBool:
		p.nextToken()
		return tok.Literal == "true", nil
	case TokenInteger:
		n, err := strconv.ParseInt(strings.ReplaceAll(tok.Literal, "_", ""), 10, 64)
		if err != nil {
			return nil, p.errorf("invalid integer %q", tok.Literal)
		}
		p.nextToken()
		return n, nil
	case TokenFloat:
		f, err := strconv.ParseFloat(strings.ReplaceAll(tok.Literal, "_", ""), 64)
		if err != nil {
			return nil, p.errorf("invalid float %q", tok.Literal)
		}
		p.nextToken()
		return f, nil
	case TokenLBracket:
		return p.parseArray()
	case TokenError:
		return nil, p.errorf("%s", tok.Literal)
	default:
		return nil, p.errorf("expected value, got %s", tok)
	}
}

// parseArray reads [v, v, ...]; newlines and a trailing comma are allowed
func (p *Parser) parseArray() (any, error) {
	p.nextToken()
	arr := make([]any, 0)
	for {
		for p.curToken.Type == TokenNewline {
			p.nextToken()
		}
		if p.curToken.Type == TokenRBracket {
			p.nextToken()
			return arr, nil
		}

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)

		for p.curToken.Type == TokenNewline {
			p.nextToken()
		}
		switch p.curToken.Type {
		case TokenComma:
			p.nextToken()
		case TokenRBracket:
			p.nextToken()
			return arr, nil
		default:
			return nil, p.errorf("expected ',' or ']' in array, got %s", p.curToken)
		}
	}
}
