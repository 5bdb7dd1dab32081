// Package parser implements the recursive-descent parser: it consumes
// the scanner's token stream and produces a single Program AST, a header
// of declarations/procedures followed by a body of statements, reporting
// errors through a shared diag.Bag.
package parser

import (
	"github.com/kortho/varta/lang/ast"
	"github.com/kortho/varta/lang/diag"
	"github.com/kortho/varta/lang/token"
)

// Parse consumes the full token stream (as produced by lang/scanner) and
// returns the top-level Program AST plus the accumulated diagnostics.
func Parse(tokens []token.Token) (*ast.Program, *diag.Bag) {
	p := &parser{toks: tokens}
	prog := p.parseProgram()
	return prog, &p.bag
}

type parser struct {
	toks  []token.Token
	pos   int
	bag   diag.Bag
	scope int // 0 at program scope, incremented inside a procedure.
}

func (p *parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *parser) kind() token.Kind { return p.cur().Kind }

func (p *parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) at(k token.Kind) bool { return p.kind() == k }

func (p *parser) atEOF() bool { return p.kind() == token.EOF }

// expect consumes the current token if it has kind k, else records a
// diagnostic and returns the zero Token with ok=false.
func (p *parser) expect(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.errorf("expected %s but found %s %q", k, p.kind(), p.cur().Lexeme)
	return token.Token{}, false
}

func (p *parser) errorf(format string, args ...interface{}) {
	p.bag.Errorf(p.cur().Line, format, args...)
}

// synchronize drops tokens until the next plausible synchronization
// point so subsequent errors are found in the same run. A consumed
// SEMICOLON is a clean resync point; an
// END_* token or EOF is left in place for the caller's block loop to
// observe.
func (p *parser) synchronize() {
	for !p.atEOF() {
		switch p.kind() {
		case token.SEMICOLON:
			p.advance()
			return
		case token.END_PROGRAM, token.END_PROCEDURE, token.END_IF, token.END_FOR:
			return
		}
		p.advance()
	}
}

// isBlockEnd reports whether the current token ends a body block (an
// end-keyword, or the start of an else clause).
func (p *parser) isBlockEnd() bool {
	switch p.kind() {
	case token.END_PROGRAM, token.END_PROCEDURE, token.END_IF, token.END_FOR, token.ELSE, token.EOF:
		return true
	default:
		return false
	}
}
