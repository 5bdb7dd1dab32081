package parser

import (
	"github.com/kortho/varta/lang/ast"
	"github.com/kortho/varta/lang/token"
)

// parseBody implements: body := stmt*
func (p *parser) parseBody() *ast.Block {
	b := &ast.Block{}
	guard := 0
	for !p.isBlockEnd() {
		guard++
		if guard > len(p.toks)+10 {
			// infinite-loop safeguard: something is permanently stuck
			// between tokens; bail out of this block.
			p.errorf("parser made no progress; aborting block")
			return b
		}
		if s := p.parseStmt(); s != nil {
			b.Stmts = append(b.Stmts, s)
		}
	}
	return b
}

// parseStmt implements: stmt := assign | if | for | return | exprStmt
func (p *parser) parseStmt() ast.Stmt {
	switch p.kind() {
	case token.IF:
		return p.parseIf()
	case token.FOR:
		return p.parseFor()
	case token.RETURN:
		return p.parseReturn()
	case token.PROCEDURE_CALL:
		return p.parseExprStmt()
	case token.IDENTIFIER:
		return p.parseAssign()
	default:
		p.errorf("unexpected token %s %q at start of statement", p.kind(), p.cur().Lexeme)
		p.synchronize()
		return nil
	}
}

// parseLvalue implements: lvalue := IDENT ([ expr ])?
func (p *parser) parseLvalue() ast.Expr {
	nameTok, ok := p.expect(token.IDENTIFIER)
	if !ok {
		return nil
	}
	if p.at(token.LBRACK) {
		p.advance()
		idx := p.parseExpr()
		if _, ok := p.expect(token.RBRACK); !ok {
			return nil
		}
		return &ast.ArrayRef{Name: nameTok.Lexeme, Index: idx}
	}
	return &ast.VarRef{Name: nameTok.Lexeme}
}

// parseAssign implements: assign := lvalue := expr ;
func (p *parser) parseAssign() *ast.Assign {
	line := p.cur().Line
	target := p.parseLvalue()
	if target == nil {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(token.ASSIGN); !ok {
		p.synchronize()
		return nil
	}
	value := p.parseExpr()
	if _, ok := p.expect(token.SEMICOLON); !ok {
		p.synchronize()
	}
	return ast.NewAssign(line, target, value)
}

// parseIf implements: if := IF ( expr ) THEN body [ELSE body] END_IF
func (p *parser) parseIf() *ast.If {
	line := p.cur().Line
	p.advance() // IF
	if _, ok := p.expect(token.LPAREN); !ok {
		p.synchronize()
		return nil
	}
	cond := p.parseExpr()
	if _, ok := p.expect(token.RPAREN); !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(token.THEN); !ok {
		p.synchronize()
		return nil
	}
	thenBlock := p.parseBody()

	var elseBlock *ast.Block
	if p.at(token.ELSE) {
		p.advance()
		elseBlock = p.parseBody()
	}

	if _, ok := p.expect(token.END_IF); !ok {
		p.synchronize()
	}
	return ast.NewIf(line, cond, thenBlock, elseBlock)
}

// parseFor implements: for := FOR ( assign expr ) body END_FOR
func (p *parser) parseFor() *ast.For {
	line := p.cur().Line
	p.advance() // FOR
	if _, ok := p.expect(token.LPAREN); !ok {
		p.synchronize()
		return nil
	}
	init := p.parseAssign()
	cond := p.parseExpr()
	if _, ok := p.expect(token.RPAREN); !ok {
		p.synchronize()
		return nil
	}
	body := p.parseBody()
	if _, ok := p.expect(token.END_FOR); !ok {
		p.synchronize()
	}
	return ast.NewFor(line, init, cond, body)
}

// parseReturn implements: RETURN [expr] ;
func (p *parser) parseReturn() *ast.Return {
	line := p.cur().Line
	p.advance() // RETURN
	if p.at(token.SEMICOLON) {
		p.advance()
		return ast.NewReturn(line, ast.VoidReturnSentinel)
	}
	value := p.parseExpr()
	if _, ok := p.expect(token.SEMICOLON); !ok {
		p.synchronize()
	}
	return ast.NewReturn(line, value)
}

// parseExprStmt implements: exprStmt := PROCEDURE_CALL ( args? ) ;
// (a bare procedure-call statement whose result, if any, is discarded).
func (p *parser) parseExprStmt() *ast.ExprStmt {
	line := p.cur().Line
	x := p.parseProcRef()
	if _, ok := p.expect(token.SEMICOLON); !ok {
		p.synchronize()
	}
	return ast.NewExprStmt(line, x)
}
