package parser

import (
	"github.com/dragonsrcool/dragons/internal/lexer"
	"github.com/dragonsrcool/dragons/internal/parsetree"
)

// function := 'dragon' ID paramList 'fire' body 'extinguish'
func (p *Parser) function() (*parsetree.Node, error) {
	if err := p.mustBe(lexer.TokenDragon); err != nil {
		return nil, err
	}
	p.next()
	if err := p.mustBe(lexer.TokenIdentifier); err != nil {
		return nil, err
	}
	node := parsetree.New(parsetree.Function, p.tok())
	p.next()

	params, err := p.paramList()
	if err != nil {
		return nil, err
	}
	if err := p.mustBe(lexer.TokenFire); err != nil {
		return nil, err
	}
	p.next()

	body, err := p.body()
	if err != nil {
		return nil, err
	}
	if err := p.mustBe(lexer.TokenExtinguish); err != nil {
		return nil, err
	}
	p.next()

	return node.Append(params).Append(body), nil
}

// paramList := ID (',' ID)* | ε
//
// An empty list is returned as nil.
func (p *Parser) paramList() (*parsetree.Node, error) {
	if !p.has(lexer.TokenIdentifier) {
		return nil, nil
	}
	node := parsetree.New(parsetree.Params, p.tok())
	for {
		node.Append(parsetree.Leaf(p.src.Current()))
		p.next()
		if !p.has(lexer.TokenComma) {
			return node, nil
		}
		p.next()
		if err := p.mustBe(lexer.TokenIdentifier); err != nil {
			return nil, err
		}
	}
}

// body := ('<' statement '>')+
func (p *Parser) body() (*parsetree.Node, error) {
	if err := p.mustBe(lexer.TokenLThan); err != nil {
		return nil, err
	}
	node := parsetree.New(parsetree.Body, p.tok())
	for p.has(lexer.TokenLThan) {
		stmt, err := p.line()
		if err != nil {
			return nil, err
		}
		node.Append(stmt)
	}
	return node, nil
}

// line := '<' statement '>'
func (p *Parser) line() (*parsetree.Node, error) {
	if err := p.mustBe(lexer.TokenLThan); err != nil {
		return nil, err
	}
	p.next()
	node, err := p.statement()
	if err != nil {
		return nil, err
	}
	if err := p.mustBe(lexer.TokenGThan); err != nil {
		return nil, err
	}
	p.next()
	return node, nil
}

// statement := varDecl | loop | read | write | path | call | return | reassign
func (p *Parser) statement() (*parsetree.Node, error) {
	switch p.src.Current().Type {
	case lexer.TokenSmall, lexer.TokenBig:
		return p.varDecl()
	case lexer.TokenBurn:
		return p.loop()
	case lexer.TokenConsume:
		return p.read()
	case lexer.TokenShoot:
		return p.write()
	case lexer.TokenPath:
		return p.path()
	case lexer.TokenHatch:
		return p.optionalDollar(p.call())
	case lexer.TokenReturn:
		return p.optionalDollar(p.returnStmt())
	default:
		return p.reassign()
	}
}

// optionalDollar accepts a '$' after call and return statements, which
// the grammar does not require.
func (p *Parser) optionalDollar(node *parsetree.Node, err error) (*parsetree.Node, error) {
	if err != nil {
		return nil, err
	}
	if p.has(lexer.TokenDollar) {
		p.next()
	}
	return node, nil
}

// varDecl := ('small'|'big') ID ('(' expr ')' | ('=' expr)?) '$'
//
// The scope keyword is the node's token. An open parenthesis after the
// name is the only thing that makes the declaration an array.
func (p *Parser) varDecl() (*parsetree.Node, error) {
	if err := p.mustBeOneOf(lexer.TokenSmall, lexer.TokenBig); err != nil {
		return nil, err
	}
	scope := p.tok()
	p.next()
	if err := p.mustBe(lexer.TokenIdentifier); err != nil {
		return nil, err
	}
	id := parsetree.Leaf(p.src.Current())
	p.next()

	var node *parsetree.Node
	if p.has(lexer.TokenLParen) {
		p.next()
		size, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.mustBe(lexer.TokenRParen); err != nil {
			return nil, err
		}
		p.next()
		node = parsetree.New(parsetree.CreateArray, scope).Append(id).Append(size)
	} else {
		var init *parsetree.Node
		if p.has(lexer.TokenAssign) {
			p.next()
			var err error
			if init, err = p.expr(); err != nil {
				return nil, err
			}
		}
		node = parsetree.New(parsetree.CreateVar, scope).Append(id).Append(init)
	}

	if err := p.mustBe(lexer.TokenDollar); err != nil {
		return nil, err
	}
	p.next()
	return node, nil
}

// reassign := ref ('=' expr)? '$'
func (p *Parser) reassign() (*parsetree.Node, error) {
	if err := p.mustBe(lexer.TokenIdentifier); err != nil {
		return nil, err
	}
	node := parsetree.New(parsetree.Reassign, p.tok())
	target, err := p.ref()
	if err != nil {
		return nil, err
	}
	node.Append(target)

	var value *parsetree.Node
	if p.has(lexer.TokenAssign) {
		p.next()
		if value, err = p.expr(); err != nil {
			return nil, err
		}
	}
	node.Append(value)

	if err := p.mustBe(lexer.TokenDollar); err != nil {
		return nil, err
	}
	p.next()
	return node, nil
}

// read := 'consume' ref '$'
func (p *Parser) read() (*parsetree.Node, error) {
	if err := p.mustBe(lexer.TokenConsume); err != nil {
		return nil, err
	}
	node := parsetree.New(parsetree.Read, p.tok())
	p.next()
	target, err := p.ref()
	if err != nil {
		return nil, err
	}
	if err := p.mustBe(lexer.TokenDollar); err != nil {
		return nil, err
	}
	p.next()
	return node.Append(target), nil
}

// write := 'shoot' list '$'
func (p *Parser) write() (*parsetree.Node, error) {
	if err := p.mustBe(lexer.TokenShoot); err != nil {
		return nil, err
	}
	node := parsetree.New(parsetree.Write, p.tok())
	p.next()
	list, err := p.list()
	if err != nil {
		return nil, err
	}
	if err := p.mustBe(lexer.TokenDollar); err != nil {
		return nil, err
	}
	p.next()
	return node.Append(list), nil
}

// loop := 'burn' condition 'fire' body 'extinguish'
func (p *Parser) loop() (*parsetree.Node, error) {
	if err := p.mustBe(lexer.TokenBurn); err != nil {
		return nil, err
	}
	node := parsetree.New(parsetree.Loop, p.tok())
	p.next()
	cond, err := p.condition()
	if err != nil {
		return nil, err
	}
	if err := p.mustBe(lexer.TokenFire); err != nil {
		return nil, err
	}
	p.next()
	body, err := p.body()
	if err != nil {
		return nil, err
	}
	if err := p.mustBe(lexer.TokenExtinguish); err != nil {
		return nil, err
	}
	p.next()
	return node.Append(cond).Append(body), nil
}

// path := 'path' condition 'here' body 'here' ('there' body 'there')?
//
// The else branch slot is always present; it is nil when 'there' is absent.
func (p *Parser) path() (*parsetree.Node, error) {
	if err := p.mustBe(lexer.TokenPath); err != nil {
		return nil, err
	}
	node := parsetree.New(parsetree.Path, p.tok())
	p.next()

	cond, err := p.condition()
	if err != nil {
		return nil, err
	}
	if err := p.mustBe(lexer.TokenHere); err != nil {
		return nil, err
	}
	p.next()
	here, err := p.body()
	if err != nil {
		return nil, err
	}
	if err := p.mustBe(lexer.TokenHere); err != nil {
		return nil, err
	}
	p.next()

	var there *parsetree.Node
	if p.has(lexer.TokenThere) {
		p.next()
		if there, err = p.body(); err != nil {
			return nil, err
		}
		if err := p.mustBe(lexer.TokenThere); err != nil {
			return nil, err
		}
		p.next()
	}
	return node.Append(cond).Append(here).Append(there), nil
}

// return := 'return' expr
func (p *Parser) returnStmt() (*parsetree.Node, error) {
	if err := p.mustBe(lexer.TokenReturn); err != nil {
		return nil, err
	}
	node := parsetree.New(parsetree.Return, p.tok())
	p.next()
	value, err := p.expr()
	if err != nil {
		return nil, err
	}
	return node.Append(value), nil
}

// call := 'hatch' ID '[' list? ']'
//
// The argument slot is nil for an empty argument list.
func (p *Parser) call() (*parsetree.Node, error) {
	if err := p.mustBe(lexer.TokenHatch); err != nil {
		return nil, err
	}
	p.next()
	if err := p.mustBe(lexer.TokenIdentifier); err != nil {
		return nil, err
	}
	node := parsetree.New(parsetree.Call, p.tok())
	p.next()
	if err := p.mustBe(lexer.TokenLBracket); err != nil {
		return nil, err
	}
	p.next()

	var args *parsetree.Node
	if !p.has(lexer.TokenRBracket) {
		var err error
		if args, err = p.list(); err != nil {
			return nil, err
		}
	}
	if err := p.mustBe(lexer.TokenRBracket); err != nil {
		return nil, err
	}
	p.next()
	return node.Append(args), nil
}

// list := (expr (',' expr)*)?
func (p *Parser) list() (*parsetree.Node, error) {
	node := parsetree.New(parsetree.List, p.tok())
	if !p.startsExpr() {
		return node, nil
	}
	for {
		item, err := p.expr()
		if err != nil {
			return nil, err
		}
		node.Append(item)
		if !p.has(lexer.TokenComma) {
			return node, nil
		}
		p.next()
	}
}

func (p *Parser) startsExpr() bool {
	return p.hasAny(lexer.TokenIdentifier, lexer.TokenNumber, lexer.TokenString,
		lexer.TokenLCurly, lexer.TokenMinus, lexer.TokenHatch)
}
