package query

import (
	"fmt"
	"strconv"
)

// Parser turns a token stream into a Query
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a parser over tokens
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses a complete query from the input string
func Parse(input string) (*Query, error) {
	lexer := NewLexer(input)
	tokens, err := lexer.Tokenize()
	if err != nil {
		return nil, fmt.Errorf("lexing failed: %w", err)
	}

	parser := NewParser(tokens)
	query, err := parser.ParseQuery()
	if err != nil {
		return nil, err
	}
	if !parser.check(TokenEOF) && !parser.check(TokenSemicolon) {
		tok := parser.current()
		return nil, fmt.Errorf("unexpected %q at line %d, column %d", tok.Value, tok.Line, tok.Column)
	}
	return query, nil
}

// ParseQuery parses one query part, chaining on WITH
func (p *Parser) ParseQuery() (*Query, error) {
	query := &Query{}

	for {
		switch p.current().Type {
		case TokenMatch:
			if query.Match != nil {
				return nil, p.errorf("duplicate MATCH clause")
			}
			match, err := p.parseMatchClause()
			if err != nil {
				return nil, err
			}
			query.Match = match

		case TokenWhere:
			if query.Where != nil {
				return nil, p.errorf("duplicate WHERE clause")
			}
			where, err := p.parseWhereClause()
			if err != nil {
				return nil, err
			}
			query.Where = where

		case TokenWith:
			with, err := p.parseWithClause()
			if err != nil {
				return nil, err
			}
			query.With = with
			next, err := p.ParseQuery()
			if err != nil {
				return nil, err
			}
			query.Next = next
			return query, nil

		case TokenCreate:
			if query.Create != nil {
				return nil, p.errorf("duplicate CREATE clause")
			}
			create, err := p.parseCreateClause()
			if err != nil {
				return nil, err
			}
			query.Create = create

		case TokenSet:
			if query.Set != nil {
				return nil, p.errorf("duplicate SET clause")
			}
			set, err := p.parseSetClause()
			if err != nil {
				return nil, err
			}
			query.Set = set

		case TokenDelete, TokenDetach:
			if query.Delete != nil {
				return nil, p.errorf("duplicate DELETE clause")
			}
			del, err := p.parseDeleteClause()
			if err != nil {
				return nil, err
			}
			query.Delete = del

		case TokenReturn:
			ret, err := p.parseReturnClause()
			if err != nil {
				return nil, err
			}
			query.Return = ret
			return query, nil

		case TokenEOF, TokenSemicolon:
			if query.Match == nil && query.Create == nil && query.Set == nil && query.Delete == nil {
				return nil, p.errorf("empty query")
			}
			return query, nil

		default:
			return nil, p.errorf("unexpected token %q", p.current().Value)
		}
	}
}

// parseMatchClause parses MATCH pattern [, pattern...]
func (p *Parser) parseMatchClause() (*MatchClause, error) {
	if _, err := p.expect(TokenMatch); err != nil {
		return nil, err
	}

	clause := &MatchClause{}
	for {
		pattern, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		clause.Patterns = append(clause.Patterns, pattern)
		if !p.match(TokenComma) {
			break
		}
	}
	return clause, nil
}

// parseWhereClause parses WHERE condition
func (p *Parser) parseWhereClause() (*WhereClause, error) {
	if _, err := p.expect(TokenWhere); err != nil {
		return nil, err
	}

	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &WhereClause{Condition: condition}, nil
}

// parseWithClause parses WITH items [WHERE condition]
func (p *Parser) parseWithClause() (*WithClause, error) {
	if _, err := p.expect(TokenWith); err != nil {
		return nil, err
	}

	items, err := p.parseReturnItems()
	if err != nil {
		return nil, err
	}

	clause := &WithClause{Items: items}
	if p.check(TokenWhere) {
		where, err := p.parseWhereClause()
		if err != nil {
			return nil, err
		}
		clause.Where = where
	}
	return clause, nil
}

// parseCreateClause parses CREATE pattern [, pattern...]
func (p *Parser) parseCreateClause() (*CreateClause, error) {
	if _, err := p.expect(TokenCreate); err != nil {
		return nil, err
	}

	clause := &CreateClause{}
	for {
		pattern, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		clause.Patterns = append(clause.Patterns, pattern)
		if !p.match(TokenComma) {
			break
		}
	}
	return clause, nil
}

// parseSetClause parses SET var.prop = expr [, var.prop = expr...]
func (p *Parser) parseSetClause() (*SetClause, error) {
	if _, err := p.expect(TokenSet); err != nil {
		return nil, err
	}

	clause := &SetClause{}
	for {
		variable, err := p.expect(TokenIdentifier)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenDot); err != nil {
			return nil, err
		}
		property, err := p.expect(TokenIdentifier)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenEquals); err != nil {
			return nil, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		clause.Assignments = append(clause.Assignments, &Assignment{
			Variable: variable.Value,
			Property: property.Value,
			Value:    value,
		})
		if !p.match(TokenComma) {
			break
		}
	}
	return clause, nil
}

// parseDeleteClause parses [DETACH] DELETE var [, var...]
func (p *Parser) parseDeleteClause() (*DeleteClause, error) {
	clause := &DeleteClause{}
	if p.match(TokenDetach) {
		clause.Detach = true
	}
	if _, err := p.expect(TokenDelete); err != nil {
		return nil, err
	}

	for {
		variable, err := p.expect(TokenIdentifier)
		if err != nil {
			return nil, err
		}
		clause.Variables = append(clause.Variables, variable.Value)
		if !p.match(TokenComma) {
			break
		}
	}
	return clause, nil
}

// parseReturnClause parses RETURN [DISTINCT] items [ORDER BY ...] [SKIP n] [LIMIT n]
func (p *Parser) parseReturnClause() (*ReturnClause, error) {
	if _, err := p.expect(TokenReturn); err != nil {
		return nil, err
	}

	clause := &ReturnClause{}
	if p.match(TokenDistinct) {
		clause.Distinct = true
	}

	items, err := p.parseReturnItems()
	if err != nil {
		return nil, err
	}
	clause.Items = items

	if p.match(TokenOrder) {
		if _, err := p.expect(TokenBy); err != nil {
			return nil, err
		}
		for {
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			item := &OrderItem{Expr: expr}
			if p.match(TokenDesc) {
				item.Descending = true
			} else {
				p.match(TokenAsc)
			}
			clause.OrderBy = append(clause.OrderBy, item)
			if !p.match(TokenComma) {
				break
			}
		}
	}

	if p.match(TokenSkip) {
		n, err := p.parseNonNegativeInt("SKIP")
		if err != nil {
			return nil, err
		}
		clause.Skip = n
		clause.HasSkip = true
	}

	if p.match(TokenLimit) {
		n, err := p.parseNonNegativeInt("LIMIT")
		if err != nil {
			return nil, err
		}
		clause.Limit = n
		clause.HasLimit = true
	}

	return clause, nil
}

// parseReturnItems parses expr [AS alias] [, expr [AS alias]...]
func (p *Parser) parseReturnItems() ([]*ReturnItem, error) {
	var items []*ReturnItem
	for {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		item := &ReturnItem{Expr: expr}
		if p.match(TokenAs) {
			alias, err := p.expect(TokenIdentifier)
			if err != nil {
				return nil, err
			}
			item.Alias = alias.Value
		}
		items = append(items, item)
		if !p.match(TokenComma) {
			break
		}
	}
	return items, nil
}

func (p *Parser) parseNonNegativeInt(clause string) (int, error) {
	tok, err := p.expect(TokenNumber)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok.Value)
	if err != nil || n < 0 {
		return 0, p.errorf("%s requires a non-negative integer, got %q", clause, tok.Value)
	}
	return n, nil
}

// Helper functions

func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAhead(n int) Token {
	pos := p.pos + n
	if pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[pos]
}

func (p *Parser) advance() Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(tokenType TokenType) bool {
	return p.current().Type == tokenType
}

func (p *Parser) match(tokenType TokenType) bool {
	if p.check(tokenType) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(tokenType TokenType) (Token, error) {
	if p.check(tokenType) {
		return p.advance(), nil
	}
	tok := p.current()
	return Token{}, fmt.Errorf("expected %s, got %q at line %d, column %d", tokenType, tok.Value, tok.Line, tok.Column)
}

func (p *Parser) errorf(format string, args ...any) error {
	tok := p.current()
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s at line %d, column %d", msg, tok.Line, tok.Column)
}
