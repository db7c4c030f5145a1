package query

import (
	"strconv"
	"strings"
)

// parseExpression parses an expression with operator precedence:
// OR < AND < NOT < comparison < additive < multiplicative < unary
func (p *Parser) parseExpression() (Expression, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.match(TokenOr) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpression{Op: OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (Expression, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.match(TokenAnd) {
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpression{Op: OpAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseNot() (Expression, error) {
	// NOT IN is handled in parseComparison, so only treat NOT as a
	// prefix when it does not belong to a trailing NOT IN
	if p.check(TokenNot) {
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &UnaryExpression{Op: OpNot, Operand: operand}, nil
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() (Expression, error) {
	left, err := p.parseAddSub()
	if err != nil {
		return nil, err
	}

	switch p.current().Type {
	case TokenEquals, TokenNotEquals, TokenLessThan, TokenLessEquals, TokenGreaterThan, TokenGreaterEquals:
		opTok := p.advance()
		right, err := p.parseAddSub()
		if err != nil {
			return nil, err
		}
		var op BinaryOp
		switch opTok.Type {
		case TokenEquals:
			op = OpEquals
		case TokenNotEquals:
			op = OpNotEquals
		case TokenLessThan:
			op = OpLessThan
		case TokenLessEquals:
			op = OpLessEquals
		case TokenGreaterThan:
			op = OpGreaterThan
		case TokenGreaterEquals:
			op = OpGreaterEquals
		}
		return &BinaryExpression{Op: op, Left: left, Right: right}, nil

	case TokenIs:
		p.advance()
		negated := p.match(TokenNot)
		if _, err := p.expect(TokenNull); err != nil {
			return nil, err
		}
		op := OpIsNull
		if negated {
			op = OpIsNotNull
		}
		return &BinaryExpression{Op: op, Left: left}, nil

	case TokenIn:
		p.advance()
		right, err := p.parseAddSub()
		if err != nil {
			return nil, err
		}
		return &BinaryExpression{Op: OpIn, Left: left, Right: right}, nil

	case TokenNot:
		if p.peekAhead(1).Type == TokenIn {
			p.advance()
			p.advance()
			right, err := p.parseAddSub()
			if err != nil {
				return nil, err
			}
			return &BinaryExpression{Op: OpNotIn, Left: left, Right: right}, nil
		}
	}

	return left, nil
}

func (p *Parser) parseAddSub() (Expression, error) {
	left, err := p.parseMulDiv()
	if err != nil {
		return nil, err
	}
	for p.check(TokenPlus) || p.check(TokenMinus) {
		opTok := p.advance()
		right, err := p.parseMulDiv()
		if err != nil {
			return nil, err
		}
		op := OpAdd
		if opTok.Type == TokenMinus {
			op = OpSubtract
		}
		left = &ArithmeticExpression{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMulDiv() (Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.check(TokenStar) || p.check(TokenSlash) || p.check(TokenPercent) {
		opTok := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		var op ArithmeticOp
		switch opTok.Type {
		case TokenStar:
			op = OpMultiply
		case TokenSlash:
			op = OpDivide
		case TokenPercent:
			op = OpModulo
		}
		left = &ArithmeticExpression{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (Expression, error) {
	if p.match(TokenMinus) {
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpression{Op: OpNegate, Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (Expression, error) {
	tok := p.current()

	switch tok.Type {
	case TokenNumber:
		p.advance()
		if strings.Contains(tok.Value, ".") {
			f, err := strconv.ParseFloat(tok.Value, 64)
			if err != nil {
				return nil, p.errorf("invalid number %q", tok.Value)
			}
			return &LiteralExpression{Value: f}, nil
		}
		n, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, p.errorf("invalid number %q", tok.Value)
		}
		return &LiteralExpression{Value: n}, nil

	case TokenString:
		p.advance()
		return &LiteralExpression{Value: tok.Value}, nil

	case TokenTrue:
		p.advance()
		return &LiteralExpression{Value: true}, nil

	case TokenFalse:
		p.advance()
		return &LiteralExpression{Value: false}, nil

	case TokenNull:
		p.advance()
		return &LiteralExpression{Value: nil}, nil

	case TokenParameter:
		p.advance()
		return &ParameterExpression{Name: tok.Value}, nil

	case TokenCase:
		return p.parseCaseExpression()

	case TokenLeftParen:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRightParen); err != nil {
			return nil, err
		}
		return expr, nil

	case TokenLeftBracket:
		return p.parseListExpression()

	case TokenIdentifier:
		// function call, property access, or bare variable
		if p.peekAhead(1).Type == TokenLeftParen {
			return p.parseFunctionCall()
		}
		p.advance()
		if p.match(TokenDot) {
			prop, err := p.expect(TokenIdentifier)
			if err != nil {
				return nil, err
			}
			return &PropertyExpression{Variable: tok.Value, Property: prop.Value}, nil
		}
		return &VariableExpression{Name: tok.Value}, nil
	}

	return nil, p.errorf("unexpected token %q in expression", tok.Value)
}

// parseCaseExpression parses both forms:
//
//	CASE operand WHEN value THEN result ... [ELSE result] END
//	CASE WHEN predicate THEN result ... [ELSE result] END
func (p *Parser) parseCaseExpression() (Expression, error) {
	if _, err := p.expect(TokenCase); err != nil {
		return nil, err
	}

	expr := &CaseExpression{}

	if !p.check(TokenWhen) {
		operand, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		expr.Operand = operand
	}

	for p.match(TokenWhen) {
		condition, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenThen); err != nil {
			return nil, err
		}
		result, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		expr.WhenClauses = append(expr.WhenClauses, CaseWhen{Condition: condition, Result: result})
	}

	if len(expr.WhenClauses) == 0 {
		return nil, p.errorf("CASE requires at least one WHEN clause")
	}

	if p.match(TokenElse) {
		elseResult, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		expr.ElseResult = elseResult
	}

	if _, err := p.expect(TokenEnd); err != nil {
		return nil, err
	}

	return expr, nil
}

func (p *Parser) parseListExpression() (Expression, error) {
	if _, err := p.expect(TokenLeftBracket); err != nil {
		return nil, err
	}

	list := &ListExpression{}
	if !p.check(TokenRightBracket) {
		for {
			elem, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			list.Elements = append(list.Elements, elem)
			if !p.match(TokenComma) {
				break
			}
		}
	}

	if _, err := p.expect(TokenRightBracket); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *Parser) parseFunctionCall() (Expression, error) {
	name, err := p.expect(TokenIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLeftParen); err != nil {
		return nil, err
	}

	fn := &FunctionExpression{Name: name.Value}
	if !p.check(TokenRightParen) {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			fn.Args = append(fn.Args, arg)
			if !p.match(TokenComma) {
				break
			}
		}
	}

	if _, err := p.expect(TokenRightParen); err != nil {
		return nil, err
	}
	return fn, nil
}
