// Package lexer implements the dragons lexical analyzer.
//
// The lexer is a pull-based token source: the parser inspects the current
// token with Current and moves on with Advance. Tokens are produced one at
// a time on demand, so a syntax error stops scanning at the offending
// token.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dragonsrcool/dragons/internal/position"
)

// TokenType represents the type of a token
type TokenType int

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(tt))
}

// Token types
const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenIdentifier
	TokenNumber
	TokenString

	// Keywords
	TokenDragon
	TokenFire
	TokenExtinguish
	TokenSmall
	TokenBig
	TokenConsume
	TokenShoot
	TokenBurn
	TokenPath
	TokenHere
	TokenThere
	TokenReturn
	TokenHatch
	TokenAlso
	TokenEither

	// Comparison keywords
	TokenIs
	TokenNot
	TokenEats
	TokenEatsMore
	TokenSpits
	TokenSpitsMore

	// Operators
	TokenPlus
	TokenMinus
	TokenTimes
	TokenDivide
	TokenPower
	TokenAssign

	// Delimiters
	TokenLThan
	TokenGThan
	TokenLParen
	TokenRParen
	TokenLCurly
	TokenRCurly
	TokenLBracket
	TokenRBracket
	TokenComma
	TokenDollar
)

// Token represents a lexical token with position information.
// Value carries the decoded literal: float64 for numbers, string for
// strings, the diagnostic text for TokenError, nil otherwise.
type Token struct {
	Type    TokenType
	Literal string
	Value   any
	Pos     position.Position
}

// Line returns the 1-based line the token starts on
func (t Token) Line() int { return t.Pos.Line }

// Column returns the 1-based column the token starts on
func (t Token) Column() int { return t.Pos.Column }

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %q, Line: %d, Column: %d}",
		t.Type, t.Literal, t.Pos.Line, t.Pos.Column)
}

// tokenNames provides the names used in parser diagnostics
var tokenNames = map[TokenType]string{
	TokenEOF:   "END",
	TokenError: "ERROR",

	TokenIdentifier: "ID",
	TokenNumber:     "NUMBER",
	TokenString:     "STRING",

	TokenDragon:     "DRAGON",
	TokenFire:       "FIRE",
	TokenExtinguish: "EXTINGUISH",
	TokenSmall:      "SMALL",
	TokenBig:        "BIG",
	TokenConsume:    "CONSUME",
	TokenShoot:      "SHOOT",
	TokenBurn:       "BURN",
	TokenPath:       "PATH",
	TokenHere:       "HERE",
	TokenThere:      "THERE",
	TokenReturn:     "RETURN",
	TokenHatch:      "HATCH",
	TokenAlso:       "ALSO",
	TokenEither:     "EITHER",

	TokenIs:        "EQ",
	TokenNot:       "NOT",
	TokenEats:      "LT",
	TokenEatsMore:  "LTEQ",
	TokenSpits:     "GT",
	TokenSpitsMore: "GTEQ",

	TokenPlus:   "PLUS",
	TokenMinus:  "MINUS",
	TokenTimes:  "TIMES",
	TokenDivide: "DIVIDE",
	TokenPower:  "POW",
	TokenAssign: "ASSIGN",

	TokenLThan:    "LTHANS",
	TokenGThan:    "GTHANS",
	TokenLParen:   "LPAREN",
	TokenRParen:   "RPAREN",
	TokenLCurly:   "LCURLY",
	TokenRCurly:   "RCURLY",
	TokenLBracket: "LBRACKET",
	TokenRBracket: "RBRACKET",
	TokenComma:    "COMMA",
	TokenDollar:   "DOLLAR",
}

// keywords maps string keywords to their token types
var keywords = map[string]TokenType{
	"dragon":     TokenDragon,
	"fire":       TokenFire,
	"extinguish": TokenExtinguish,
	"small":      TokenSmall,
	"big":        TokenBig,
	"consume":    TokenConsume,
	"shoot":      TokenShoot,
	"burn":       TokenBurn,
	"path":       TokenPath,
	"here":       TokenHere,
	"there":      TokenThere,
	"return":     TokenReturn,
	"hatch":      TokenHatch,
	"also":       TokenAlso,
	"either":     TokenEither,
	"is":         TokenIs,
	"not":        TokenNot,
	"eats":       TokenEats,
	"eats_more":  TokenEatsMore,
	"spits":      TokenSpits,
	"spits_more": TokenSpitsMore,
}

// singles maps one-character operators and delimiters to their token types
var singles = map[byte]TokenType{
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenTimes,
	'/': TokenDivide,
	'^': TokenPower,
	'=': TokenAssign,
	'<': TokenLThan,
	'>': TokenGThan,
	'(': TokenLParen,
	')': TokenRParen,
	'{': TokenLCurly,
	'}': TokenRCurly,
	'[': TokenLBracket,
	']': TokenRBracket,
	',': TokenComma,
	'$': TokenDollar,
}

// LookupIdent returns the keyword token type for ident, or TokenIdentifier
func LookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return TokenIdentifier
}

// Lexer represents the lexical analyzer
type Lexer struct {
	input        string
	filename     string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int  // line of ch
	column       int  // column of ch

	current Token
}

// New creates a new lexer instance
func New(input string) *Lexer {
	return NewWithFilename(input, "")
}

// NewWithFilename creates a new lexer instance with filename for error reporting
func NewWithFilename(input, filename string) *Lexer {
	l := &Lexer{
		input:    input,
		filename: filename,
		line:     1,
	}
	l.readChar()
	return l
}

// Current returns the token most recently produced by Advance. Before the
// first Advance it is the zero Token.
func (l *Lexer) Current() Token {
	return l.current
}

// Advance scans the next token and makes it current. Once the input is
// exhausted every further call yields TokenEOF.
func (l *Lexer) Advance() {
	l.current = l.NextToken()
}

// readChar reads the next character and advances position
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII NUL character represents "EOF"
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) pos() position.Position {
	return position.Position{
		Filename: l.filename,
		Line:     l.line,
		Column:   l.column,
		Offset:   l.position,
	}
}

// skipWhitespace skips blanks, newlines and '#' comments
func (l *Lexer) skipWhitespace() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readChar()
		case l.ch == '#':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

// NextToken scans and returns the next token
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	tok := Token{Pos: l.pos()}

	if l.position >= len(l.input) {
		tok.Type = TokenEOF
		return tok
	}

	if tt, ok := singles[l.ch]; ok {
		tok.Type = tt
		tok.Literal = string(l.ch)
		l.readChar()
		return tok
	}

	switch {
	case l.ch == '"':
		return l.readString(tok)
	case isDigit(l.ch):
		return l.readNumber(tok)
	case isIdentStart(l.input[l.position:]):
		tok.Literal = l.readIdentifier()
		tok.Type = LookupIdent(tok.Literal)
		return tok
	}

	r, size := utf8.DecodeRuneInString(l.input[l.position:])
	for i := 0; i < size; i++ {
		l.readChar()
	}
	tok.Type = TokenError
	tok.Literal = string(r)
	tok.Value = fmt.Sprintf("Illegal character %q", r)
	return tok
}

// readIdentifier reads an identifier; letters may be any Unicode letter
func (l *Lexer) readIdentifier() string {
	start := l.position
	for l.position < len(l.input) {
		if l.ch < utf8.RuneSelf {
			if !isLetter(l.ch) && !isDigit(l.ch) {
				break
			}
			l.readChar()
			continue
		}
		r, size := utf8.DecodeRuneInString(l.input[l.position:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		for i := 0; i < size; i++ {
			l.readChar()
		}
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber(tok Token) Token {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // consume '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	tok.Literal = l.input[start:l.position]
	v, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		tok.Type = TokenError
		tok.Value = fmt.Sprintf("Malformed number %s", tok.Literal)
		return tok
	}
	tok.Type = TokenNumber
	tok.Value = v
	return tok
}

func (l *Lexer) readString(tok Token) Token {
	start := l.position
	var sb strings.Builder

	l.readChar() // opening quote
	for l.ch != '"' {
		if l.position >= len(l.input) {
			tok.Type = TokenError
			tok.Literal = l.input[start:l.position]
			tok.Value = "Unterminated string"
			return tok
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '"', '\\':
				sb.WriteByte(l.ch)
			default:
				sb.WriteByte('\\')
				sb.WriteByte(l.ch)
			}
			l.readChar()
			continue
		}
		sb.WriteByte(l.ch)
		l.readChar()
	}
	l.readChar() // closing quote

	tok.Type = TokenString
	tok.Literal = l.input[start:l.position]
	tok.Value = sb.String()
	return tok
}

// Tokenize scans the whole input. The returned slice always ends with the
// first TokenEOF or TokenError.
func Tokenize(input string) []Token {
	l := New(input)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == TokenEOF || tok.Type == TokenError {
			return toks
		}
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isIdentStart(s string) bool {
	if s == "" {
		return false
	}
	if s[0] < utf8.RuneSelf {
		return isLetter(s[0])
	}
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLetter(r)
}
