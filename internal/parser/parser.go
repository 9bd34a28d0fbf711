// Package parser implements the dragons recursive descent parser.
//
// Every grammar rule is its own method. A rule opens by checking the
// current token against the token it must start with and stops at the
// first violation: there is no error recovery and no partial tree, the
// caller receives the first error as an *errors.Fatal.
package parser

import (
	"strings"

	dragonerrors "github.com/dragonsrcool/dragons/internal/errors"
	"github.com/dragonsrcool/dragons/internal/lexer"
	"github.com/dragonsrcool/dragons/internal/parsetree"
)

// TokenSource is the pull-based token stream the parser consumes.
// *lexer.Lexer implements it.
type TokenSource interface {
	Current() lexer.Token
	Advance()
}

// Parser represents the recursive descent parser
type Parser struct {
	src TokenSource
}

// New creates a parser reading from src and primes the first token
func New(src TokenSource) *Parser {
	src.Advance()
	return &Parser{src: src}
}

// FromString creates a parser over source text
func FromString(input, filename string) *Parser {
	return New(lexer.NewWithFilename(input, filename))
}

// Parse parses a whole program: one or more functions followed by the end
// of input.
func (p *Parser) Parse() (*parsetree.Node, error) {
	node := parsetree.New(parsetree.Program, nil)

	if err := p.mustBe(lexer.TokenDragon); err != nil {
		return nil, err
	}
	for p.has(lexer.TokenDragon) {
		fn, err := p.function()
		if err != nil {
			return nil, err
		}
		node.Append(fn)
	}
	if err := p.mustBe(lexer.TokenEOF); err != nil {
		return nil, err
	}
	return node, nil
}

// ParseDefinition parses a single function and wraps it in a Def node
// named after the function.
func (p *Parser) ParseDefinition() (*parsetree.Node, error) {
	fn, err := p.function()
	if err != nil {
		return nil, err
	}
	if err := p.mustBe(lexer.TokenEOF); err != nil {
		return nil, err
	}
	return parsetree.New(parsetree.Def, fn.Token).Append(fn), nil
}

// ParseStatement parses one statement. The surrounding '<' '>' are
// optional.
func (p *Parser) ParseStatement() (*parsetree.Node, error) {
	var (
		node *parsetree.Node
		err  error
	)
	if p.has(lexer.TokenLThan) {
		node, err = p.line()
	} else {
		node, err = p.statement()
	}
	if err != nil {
		return nil, err
	}
	if err := p.mustBe(lexer.TokenEOF); err != nil {
		return nil, err
	}
	return node, nil
}

// ParseExpression parses one expression that must span the whole input
func (p *Parser) ParseExpression() (*parsetree.Node, error) {
	node, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.mustBe(lexer.TokenEOF); err != nil {
		return nil, err
	}
	return node, nil
}

// Incomplete reports whether err means the input stopped in the middle of
// a construct, so that more input could still make it valid.
func Incomplete(err error) bool {
	f, ok := dragonerrors.AsFatal(err)
	if !ok {
		return false
	}
	return f.Found == lexer.TokenEOF.String() || f.Code == dragonerrors.CodeUnterminatedString
}

// next advances the token source
func (p *Parser) next() {
	p.src.Advance()
}

// tok returns a pointer to a copy of the current token, for storing in a node
func (p *Parser) tok() *lexer.Token {
	t := p.src.Current()
	return &t
}

// has reports whether the current token is of type t
func (p *Parser) has(t lexer.TokenType) bool {
	return p.src.Current().Type == t
}

// hasAny reports whether the current token is one of types
func (p *Parser) hasAny(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.has(t) {
			return true
		}
	}
	return false
}

// mustBe returns nil if the current token is of type t and a syntax error
// naming the received and expected tokens otherwise.
func (p *Parser) mustBe(t lexer.TokenType) error {
	if p.has(t) {
		return nil
	}
	return p.unexpected(t.String())
}

// mustBeOneOf is mustBe for a set of acceptable token types. The error
// names the last alternative only, keeping the one-kind message form.
func (p *Parser) mustBeOneOf(types ...lexer.TokenType) error {
	if p.hasAny(types...) {
		return nil
	}
	return p.unexpected(types[len(types)-1].String())
}

func (p *Parser) unexpected(want string) error {
	ct := p.src.Current()
	if ct.Type == lexer.TokenError {
		detail, _ := ct.Value.(string)
		code := dragonerrors.CodeIllegalCharacter
		if strings.HasPrefix(ct.Literal, `"`) {
			code = dragonerrors.CodeUnterminatedString
		}
		return dragonerrors.Lexical(code, ct.Line(), ct.Column(), detail)
	}
	return dragonerrors.UnexpectedToken(ct.Line(), ct.Column(), ct.Type.String(), want)
}
