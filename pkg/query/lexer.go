package query

import (
	"fmt"
	"strings"
	"unicode"
)

// Lexer tokenizes a query string
type Lexer struct {
	input  string
	pos    int
	line   int
	column int
	tokens []Token
}

// NewLexer creates a new lexer
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		pos:    0,
		line:   1,
		column: 1,
		tokens: make([]Token, 0),
	}
}

// Tokenize converts the input string into tokens
func (l *Lexer) Tokenize() ([]Token, error) {
	for l.pos < len(l.input) {
		if unicode.IsSpace(rune(l.input[l.pos])) {
			l.skipWhitespace()
			continue
		}

		if l.peek() == '/' && l.peekAhead(1) == '/' {
			l.skipLineComment()
			continue
		}

		token, err := l.nextToken()
		if err != nil {
			return nil, err
		}

		if token.Type != TokenEOF {
			l.tokens = append(l.tokens, token)
		}
	}

	l.tokens = append(l.tokens, Token{
		Type:   TokenEOF,
		Pos:    l.pos,
		Line:   l.line,
		Column: l.column,
	})

	return l.tokens, nil
}

// nextToken reads the next token
func (l *Lexer) nextToken() (Token, error) {
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.pos, Line: l.line, Column: l.column}, nil
	}

	ch := l.peek()

	switch ch {
	case '(':
		return l.makeToken(TokenLeftParen, string(l.advance())), nil
	case ')':
		return l.makeToken(TokenRightParen, string(l.advance())), nil
	case '[':
		return l.makeToken(TokenLeftBracket, string(l.advance())), nil
	case ']':
		return l.makeToken(TokenRightBracket, string(l.advance())), nil
	case '{':
		return l.makeToken(TokenLeftBrace, string(l.advance())), nil
	case '}':
		return l.makeToken(TokenRightBrace, string(l.advance())), nil
	case ',':
		return l.makeToken(TokenComma, string(l.advance())), nil
	case ';':
		return l.makeToken(TokenSemicolon, string(l.advance())), nil
	case '.':
		return l.makeToken(TokenDot, string(l.advance())), nil
	case ':':
		return l.makeToken(TokenColon, string(l.advance())), nil
	case '+':
		return l.makeToken(TokenPlus, string(l.advance())), nil
	case '*':
		return l.makeToken(TokenStar, string(l.advance())), nil
	case '/':
		return l.makeToken(TokenSlash, string(l.advance())), nil
	case '%':
		return l.makeToken(TokenPercent, string(l.advance())), nil
	case '$':
		return l.readParameter()
	case '=':
		l.advance()
		return l.makeToken(TokenEquals, "="), nil
	case '!':
		l.advance()
		if l.peek() == '=' {
			l.advance()
			return l.makeToken(TokenNotEquals, "!="), nil
		}
		return l.makeToken(TokenNot, "!"), nil
	case '<':
		l.advance()
		if l.peek() == '=' {
			l.advance()
			return l.makeToken(TokenLessEquals, "<="), nil
		} else if l.peek() == '>' {
			l.advance()
			return l.makeToken(TokenNotEquals, "<>"), nil
		} else if l.peek() == '-' {
			l.advance()
			return l.makeToken(TokenArrowLeft, "<-"), nil
		}
		return l.makeToken(TokenLessThan, "<"), nil
	case '>':
		l.advance()
		if l.peek() == '=' {
			l.advance()
			return l.makeToken(TokenGreaterEquals, ">="), nil
		}
		return l.makeToken(TokenGreaterThan, ">"), nil
	case '-':
		l.advance()
		if l.peek() == '>' {
			l.advance()
			return l.makeToken(TokenArrowRight, "->"), nil
		}
		return l.makeToken(TokenMinus, "-"), nil
	case '\'', '"':
		return l.readString()
	}

	if unicode.IsDigit(rune(ch)) {
		return l.readNumber()
	}

	if unicode.IsLetter(rune(ch)) || ch == '_' {
		return l.readIdentifier()
	}

	return Token{}, fmt.Errorf("unexpected character '%c' at line %d, column %d", ch, l.line, l.column)
}

// readIdentifier reads an identifier or keyword
func (l *Lexer) readIdentifier() (Token, error) {
	start := l.pos
	startCol := l.column

	for l.pos < len(l.input) && (unicode.IsLetter(rune(l.input[l.pos])) || unicode.IsDigit(rune(l.input[l.pos])) || l.input[l.pos] == '_') {
		l.advance()
	}

	value := l.input[start:l.pos]

	if tokenType, ok := keywords[strings.ToUpper(value)]; ok {
		return Token{
			Type:   tokenType,
			Value:  value,
			Pos:    start,
			Line:   l.line,
			Column: startCol,
		}, nil
	}

	return Token{
		Type:   TokenIdentifier,
		Value:  value,
		Pos:    start,
		Line:   l.line,
		Column: startCol,
	}, nil
}

// readParameter reads $name
func (l *Lexer) readParameter() (Token, error) {
	start := l.pos
	startCol := l.column
	l.advance() // consume $

	nameStart := l.pos
	for l.pos < len(l.input) && (unicode.IsLetter(rune(l.input[l.pos])) || unicode.IsDigit(rune(l.input[l.pos])) || l.input[l.pos] == '_') {
		l.advance()
	}

	if l.pos == nameStart {
		return Token{}, fmt.Errorf("expected parameter name after '$' at line %d, column %d", l.line, startCol)
	}

	return Token{
		Type:   TokenParameter,
		Value:  l.input[nameStart:l.pos],
		Pos:    start,
		Line:   l.line,
		Column: startCol,
	}, nil
}

// readNumber reads a numeric literal
func (l *Lexer) readNumber() (Token, error) {
	start := l.pos
	startCol := l.column

	for l.pos < len(l.input) && (unicode.IsDigit(rune(l.input[l.pos])) || l.input[l.pos] == '.') {
		l.advance()
	}

	return Token{
		Type:   TokenNumber,
		Value:  l.input[start:l.pos],
		Pos:    start,
		Line:   l.line,
		Column: startCol,
	}, nil
}

// readString reads a string literal
func (l *Lexer) readString() (Token, error) {
	start := l.pos
	startCol := l.column
	quote := l.advance()

	var value strings.Builder
	for l.pos < len(l.input) && l.peek() != quote {
		if l.peek() == '\\' {
			l.advance()
			if l.pos >= len(l.input) {
				return Token{}, fmt.Errorf("unterminated string at line %d", l.line)
			}
			switch l.peek() {
			case 'n':
				value.WriteByte('\n')
			case 't':
				value.WriteByte('\t')
			case 'r':
				value.WriteByte('\r')
			case '\\':
				value.WriteByte('\\')
			case quote:
				value.WriteByte(quote)
			default:
				value.WriteByte(l.peek())
			}
			l.advance()
		} else {
			value.WriteByte(l.advance())
		}
	}

	if l.pos >= len(l.input) {
		return Token{}, fmt.Errorf("unterminated string at line %d", l.line)
	}

	l.advance() // closing quote

	return Token{
		Type:   TokenString,
		Value:  value.String(),
		Pos:    start,
		Line:   l.line,
		Column: startCol,
	}, nil
}

// Helper functions

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekAhead(n int) byte {
	pos := l.pos + n
	if pos >= len(l.input) {
		return 0
	}
	return l.input[pos]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	l.column++
	if ch == '\n' {
		l.line++
		l.column = 1
	}
	return ch
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(rune(l.input[l.pos])) {
		l.advance()
	}
}

func (l *Lexer) skipLineComment() {
	for l.pos < len(l.input) && l.input[l.pos] != '\n' {
		l.advance()
	}
}

func (l *Lexer) makeToken(tokenType TokenType, value string) Token {
	return Token{
		Type:   tokenType,
		Value:  value,
		Pos:    l.pos - len(value),
		Line:   l.line,
		Column: l.column - len(value),
	}
}
