package parser

import (
	"github.com/dragonsrcool/dragons/internal/lexer"
	"github.com/dragonsrcool/dragons/internal/parsetree"
)

var comparisons = []lexer.TokenType{
	lexer.TokenIs, lexer.TokenNot,
	lexer.TokenEats, lexer.TokenEatsMore,
	lexer.TokenSpits, lexer.TokenSpitsMore,
}

// condition := comparable (('also'|'either') condition)?
func (p *Parser) condition() (*parsetree.Node, error) {
	left, err := p.comparable()
	if err != nil {
		return nil, err
	}
	if !p.hasAny(lexer.TokenAlso, lexer.TokenEither) {
		return left, nil
	}
	node := parsetree.New(parsetree.Condition, p.tok())
	p.next()
	right, err := p.condition()
	if err != nil {
		return nil, err
	}
	return node.Append(left).Append(right), nil
}

// comparable := expr ('is'|'not'|'eats'|'eats_more'|'spits'|'spits_more') expr
func (p *Parser) comparable() (*parsetree.Node, error) {
	left, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.mustBeOneOf(comparisons...); err != nil {
		return nil, err
	}
	node := parsetree.New(parsetree.Comparable, p.tok())
	p.next()
	right, err := p.expr()
	if err != nil {
		return nil, err
	}
	return node.Append(left).Append(right), nil
}

// expr := term (('+'|'-') term)*
//
// The tail is parsed right-recursively by exprTail and spliced back into a
// left-leaning tree with InsertLeftLeaf.
func (p *Parser) expr() (*parsetree.Node, error) {
	node, err := p.term()
	if err != nil {
		return nil, err
	}
	tail, err := p.exprTail()
	if err != nil {
		return nil, err
	}
	if tail == nil {
		return node, nil
	}
	tail.InsertLeftLeaf(node)
	return tail, nil
}

// exprTail returns nil when no additive operator follows
func (p *Parser) exprTail() (*parsetree.Node, error) {
	var kind parsetree.Kind
	switch {
	case p.has(lexer.TokenPlus):
		kind = parsetree.Add
	case p.has(lexer.TokenMinus):
		kind = parsetree.Sub
	default:
		return nil, nil
	}
	node := parsetree.New(kind, p.tok())
	p.next()
	operand, err := p.term()
	if err != nil {
		return nil, err
	}
	node.Append(operand)
	return p.spliceTail(node, p.exprTail)
}

// term := factor (('*'|'/') factor)*
func (p *Parser) term() (*parsetree.Node, error) {
	node, err := p.factor()
	if err != nil {
		return nil, err
	}
	tail, err := p.termTail()
	if err != nil {
		return nil, err
	}
	if tail == nil {
		return node, nil
	}
	tail.InsertLeftLeaf(node)
	return tail, nil
}

func (p *Parser) termTail() (*parsetree.Node, error) {
	var kind parsetree.Kind
	switch {
	case p.has(lexer.TokenTimes):
		kind = parsetree.Mul
	case p.has(lexer.TokenDivide):
		kind = parsetree.Div
	default:
		return nil, nil
	}
	node := parsetree.New(kind, p.tok())
	p.next()
	operand, err := p.factor()
	if err != nil {
		return nil, err
	}
	node.Append(operand)
	return p.spliceTail(node, p.termTail)
}

// spliceTail parses the rest of an operator chain and, if there is one,
// makes node its leftmost operand.
func (p *Parser) spliceTail(node *parsetree.Node, tail func() (*parsetree.Node, error)) (*parsetree.Node, error) {
	rest, err := tail()
	if err != nil {
		return nil, err
	}
	if rest == nil {
		return node, nil
	}
	rest.InsertLeftLeaf(node)
	return rest, nil
}

// factor := '-'? exponent ('^' factor)?
//
// Negation applies to the exponent operand, so -2^2 is (-2)^2, and '^'
// is right-associative through the recursive factor.
func (p *Parser) factor() (*parsetree.Node, error) {
	var node *parsetree.Node
	if p.has(lexer.TokenMinus) {
		node = parsetree.New(parsetree.Negation, p.tok())
		p.next()
		operand, err := p.exponent()
		if err != nil {
			return nil, err
		}
		node.Append(operand)
	} else {
		var err error
		if node, err = p.exponent(); err != nil {
			return nil, err
		}
	}

	if !p.has(lexer.TokenPower) {
		return node, nil
	}
	pow := parsetree.New(parsetree.Pow, p.tok())
	p.next()
	exp, err := p.factor()
	if err != nil {
		return nil, err
	}
	pow.Append(exp)
	pow.InsertLeftLeaf(node)
	return pow, nil
}

// exponent := '{' expr '}' | ref | call | literal
func (p *Parser) exponent() (*parsetree.Node, error) {
	switch {
	case p.has(lexer.TokenLCurly):
		p.next()
		node, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.mustBe(lexer.TokenRCurly); err != nil {
			return nil, err
		}
		p.next()
		return node, nil
	case p.has(lexer.TokenIdentifier):
		return p.ref()
	case p.has(lexer.TokenHatch):
		return p.call()
	default:
		return p.literal()
	}
}

// ref := ID ('(' expr ')')?
//
// A trailing parenthesised expression is array indexing.
func (p *Parser) ref() (*parsetree.Node, error) {
	if err := p.mustBe(lexer.TokenIdentifier); err != nil {
		return nil, err
	}
	node := parsetree.Leaf(p.src.Current())
	p.next()
	if !p.has(lexer.TokenLParen) {
		return node, nil
	}

	index := parsetree.New(parsetree.Index, p.tok())
	p.next()
	at, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.mustBe(lexer.TokenRParen); err != nil {
		return nil, err
	}
	p.next()
	index.Append(at)
	index.InsertLeftLeaf(node)
	return index, nil
}

// literal := NUMBER | STRING
func (p *Parser) literal() (*parsetree.Node, error) {
	if !p.has(lexer.TokenNumber) {
		if err := p.mustBe(lexer.TokenString); err != nil {
			return nil, err
		}
	}
	node := parsetree.Leaf(p.src.Current())
	p.next()
	return node, nil
}
