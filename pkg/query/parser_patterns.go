package query

import "strconv"

// parsePattern parses a node pattern optionally followed by edges:
// (a:Label)-[:KNOWS]->(b)
func (p *Parser) parsePattern() (*Pattern, error) {
	pattern := &Pattern{}

	node, err := p.parseNodePattern()
	if err != nil {
		return nil, err
	}
	pattern.Nodes = append(pattern.Nodes, node)

	for p.check(TokenMinus) || p.check(TokenArrowLeft) {
		edge, err := p.parseEdgePattern()
		if err != nil {
			return nil, err
		}
		next, err := p.parseNodePattern()
		if err != nil {
			return nil, err
		}
		pattern.Edges = append(pattern.Edges, edge)
		pattern.Nodes = append(pattern.Nodes, next)
	}

	return pattern, nil
}

// parseNodePattern parses (variable:Label1:Label2 {props})
func (p *Parser) parseNodePattern() (*NodePattern, error) {
	if _, err := p.expect(TokenLeftParen); err != nil {
		return nil, err
	}

	node := &NodePattern{}

	if p.check(TokenIdentifier) {
		node.Variable = p.advance().Value
	}

	for p.match(TokenColon) {
		label, err := p.expect(TokenIdentifier)
		if err != nil {
			return nil, err
		}
		node.Labels = append(node.Labels, label.Value)
	}

	if p.check(TokenLeftBrace) {
		props, err := p.parseProperties()
		if err != nil {
			return nil, err
		}
		node.Properties = props
	}

	if _, err := p.expect(TokenRightParen); err != nil {
		return nil, err
	}
	return node, nil
}

// parseEdgePattern parses -[variable:TYPE {props}]-> or <-[...]-
func (p *Parser) parseEdgePattern() (*EdgePattern, error) {
	edge := &EdgePattern{Direction: DirectionOutgoing}

	if p.match(TokenArrowLeft) {
		edge.Direction = DirectionIncoming
	} else if _, err := p.expect(TokenMinus); err != nil {
		return nil, err
	}

	if p.match(TokenLeftBracket) {
		if p.check(TokenIdentifier) {
			edge.Variable = p.advance().Value
		}
		if p.match(TokenColon) {
			edgeType, err := p.expect(TokenIdentifier)
			if err != nil {
				return nil, err
			}
			edge.Type = edgeType.Value
		}
		if p.check(TokenLeftBrace) {
			props, err := p.parseProperties()
			if err != nil {
				return nil, err
			}
			edge.Properties = props
		}
		if _, err := p.expect(TokenRightBracket); err != nil {
			return nil, err
		}
	}

	if edge.Direction == DirectionIncoming {
		if _, err := p.expect(TokenMinus); err != nil {
			return nil, err
		}
	} else if !p.match(TokenArrowRight) {
		return nil, p.errorf("expected '->' to close edge pattern")
	}

	return edge, nil
}

// parseProperties parses {key: value, ...} with literal values
func (p *Parser) parseProperties() (map[string]any, error) {
	if _, err := p.expect(TokenLeftBrace); err != nil {
		return nil, err
	}

	props := make(map[string]any)
	if !p.check(TokenRightBrace) {
		for {
			key, err := p.expect(TokenIdentifier)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokenColon); err != nil {
				return nil, err
			}
			value, err := p.parseLiteralValue()
			if err != nil {
				return nil, err
			}
			props[key.Value] = value
			if !p.match(TokenComma) {
				break
			}
		}
	}

	if _, err := p.expect(TokenRightBrace); err != nil {
		return nil, err
	}
	return props, nil
}

// parseLiteralValue parses a literal or parameter inside a property map
func (p *Parser) parseLiteralValue() (any, error) {
	tok := p.current()

	switch tok.Type {
	case TokenString:
		p.advance()
		return tok.Value, nil
	case TokenNumber:
		p.advance()
		if hasDot(tok.Value) {
			f, err := strconv.ParseFloat(tok.Value, 64)
			if err != nil {
				return nil, p.errorf("invalid number %q", tok.Value)
			}
			return f, nil
		}
		n, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, p.errorf("invalid number %q", tok.Value)
		}
		return n, nil
	case TokenMinus:
		p.advance()
		val, err := p.parseLiteralValue()
		if err != nil {
			return nil, err
		}
		switch n := val.(type) {
		case int64:
			return -n, nil
		case float64:
			return -n, nil
		default:
			return nil, p.errorf("expected a number after '-'")
		}
	case TokenTrue:
		p.advance()
		return true, nil
	case TokenFalse:
		p.advance()
		return false, nil
	case TokenNull:
		p.advance()
		return nil, nil
	case TokenParameter:
		p.advance()
		return &ParameterExpression{Name: tok.Value}, nil
	}

	return nil, p.errorf("expected a literal value, got %q", tok.Value)
}

func hasDot(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return true
		}
	}
	return false
}
