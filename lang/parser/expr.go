package parser

import (
	"strconv"

	"github.com/kortho/varta/lang/ast"
	"github.com/kortho/varta/lang/token"
)

var binOps = map[token.Kind]ast.Op{
	token.PLUS:          ast.Add,
	token.MINUS:         ast.Sub,
	token.ASTERISK:      ast.Mul,
	token.SLASH:         ast.Div,
	token.GREATER:       ast.Greater,
	token.LESS:          ast.Less,
	token.GREATER_EQUAL: ast.GreaterEqual,
	token.LESS_EQUAL:    ast.LessEqual,
	token.EQUAL_EQUAL:   ast.CheckEqual,
	token.BANG_EQUAL:    ast.NotEquals,
	token.AMPERSAND:     ast.And,
	token.PIPE:          ast.Or,
}

// parseExpr implements the precedence-free, right-grouped chain
// "expr := term ((op) expr)?". This is deliberate, compatibility-bound
// behavior, not an oversight: "a + b * c" parses as "a + (b * c)" only
// because of how the tail recurses, never because '*' binds tighter
// than '+'.
func (p *parser) parseExpr() ast.Expr {
	lhs := p.parseTerm()
	if lhs == nil {
		return nil
	}
	if op, ok := binOps[p.kind()]; ok {
		p.advance()
		rhs := p.parseExpr()
		if rhs == nil {
			return lhs
		}
		return ast.NewBinOp(lhs, rhs, op)
	}
	return lhs
}

// parseTerm parses a single operand: a literal, a reference, a
// parenthesized sub-expression, or a unary "not".
func (p *parser) parseTerm() ast.Expr {
	switch p.kind() {
	case token.NUMBER_INT:
		lit := p.advance().Lexeme
		v, _ := strconv.ParseInt(lit, 10, 64)
		return &ast.IntLiteral{Value: v}

	case token.NUMBER_FLOAT:
		lit := p.advance().Lexeme
		v, _ := strconv.ParseFloat(lit, 32)
		return &ast.FloatLiteral{Value: float32(v)}

	case token.STRING:
		lit := p.advance().Lexeme
		return &ast.StringLiteral{Value: lit}

	case token.TRUE:
		p.advance()
		return &ast.BoolLiteral{Value: true}

	case token.FALSE:
		p.advance()
		return &ast.BoolLiteral{Value: false}

	case token.NOT:
		p.advance()
		rhs := p.parseTerm()
		return ast.NewNot(rhs)

	case token.LPAREN:
		// Everything up to the matching ')' is a fresh expression,
		// substituted in place.
		p.advance()
		inner := p.parseExpr()
		if _, ok := p.expect(token.RPAREN); !ok {
			return inner
		}
		return inner

	case token.PROCEDURE_CALL:
		return p.parseProcRef()

	case token.IDENTIFIER:
		nameTok := p.advance()
		if p.at(token.LBRACK) {
			p.advance()
			idx := p.parseExpr()
			if _, ok := p.expect(token.RBRACK); !ok {
				return nil
			}
			return &ast.ArrayRef{Name: nameTok.Lexeme, Index: idx}
		}
		return &ast.VarRef{Name: nameTok.Lexeme}

	default:
		p.errorf("unexpected token %s %q in expression", p.kind(), p.cur().Lexeme)
		return nil
	}
}

// parseProcRef implements: PROCEDURE_CALL ( expr (, expr)* )?
func (p *parser) parseProcRef() *ast.ProcRef {
	nameTok := p.advance() // PROCEDURE_CALL
	if _, ok := p.expect(token.LPAREN); !ok {
		return &ast.ProcRef{Name: nameTok.Lexeme}
	}

	var args []ast.Expr
	if !p.at(token.RPAREN) {
		for {
			args = append(args, p.parseExpr())
			if p.at(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	p.expect(token.RPAREN)
	return &ast.ProcRef{Name: nameTok.Lexeme, Args: args}
}
