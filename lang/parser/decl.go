package parser

import (
	"github.com/kortho/varta/lang/ast"
	"github.com/kortho/varta/lang/token"
	"github.com/kortho/varta/lang/types"
)

// parseProgram implements: program := PROGRAM IDENT IS header BEGIN body END_PROGRAM
func (p *parser) parseProgram() *ast.Program {
	line := p.cur().Line
	if _, ok := p.expect(token.PROGRAM); !ok {
		p.synchronize()
	}
	nameTok, _ := p.expect(token.IDENTIFIER)
	if _, ok := p.expect(token.IS); !ok {
		p.synchronize()
	}

	header := p.parseHeader()

	if _, ok := p.expect(token.BEGIN); !ok {
		p.synchronize()
	}
	body := p.parseBody()

	if _, ok := p.expect(token.END_PROGRAM); !ok {
		// No "end program": unrecoverable. Still return whatever was
		// built, but the caller sees the accumulated diagnostics as
		// errors and never runs the checker on it.
		return ast.NewProgram(line, nameTok.Lexeme, header, body)
	}

	return ast.NewProgram(line, nameTok.Lexeme, header, body)
}

// parseHeader implements: header := (varDecl | procedure)*
func (p *parser) parseHeader() *ast.Block {
	b := &ast.Block{}
	for {
		switch p.kind() {
		case token.VARIABLE, token.GLOBAL:
			if s := p.parseVarDecl(); s != nil {
				b.Stmts = append(b.Stmts, s)
			}
		case token.PROCEDURE:
			if s := p.parseProcedure(); s != nil {
				b.Stmts = append(b.Stmts, s)
			}
		default:
			return b
		}
	}
}

// parseVarDecl implements:
//
//	varDecl := [GLOBAL] VARIABLE IDENT : typeMark ;
//	typeMark := integer[NUM] | integer | float | bool | string
//
// Inside a procedure a bare "variable" declares a local; at program
// scope the same form is rewritten into a GlobVarDecl. An explicit
// "global" prefix always produces a GlobVarDecl, regardless of scope.
func (p *parser) parseVarDecl() ast.Stmt {
	line := p.cur().Line
	explicitGlobal := false
	if p.at(token.GLOBAL) {
		explicitGlobal = true
		p.advance()
	}
	if _, ok := p.expect(token.VARIABLE); !ok {
		p.synchronize()
		return nil
	}
	nameTok, ok := p.expect(token.IDENTIFIER)
	if !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(token.COLON); !ok {
		p.synchronize()
		return nil
	}
	vt, ok := p.parseTypeMark()
	if !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.expect(token.SEMICOLON); !ok {
		p.synchronize()
	}

	if explicitGlobal || p.scope == 0 {
		return ast.NewGlobVarDecl(line, nameTok.Lexeme, vt)
	}
	return ast.NewVarDecl(line, nameTok.Lexeme, vt)
}

// parseTypeMark implements: integer[NUM] | integer | float | bool | string
func (p *parser) parseTypeMark() (types.VarType, bool) {
	switch p.kind() {
	case token.INTEGER:
		p.advance()
		if p.at(token.LBRACK) {
			p.advance()
			sizeTok, ok := p.expect(token.NUMBER_INT)
			if !ok {
				return types.VarType{}, false
			}
			size := parseI32(sizeTok.Lexeme)
			if _, ok := p.expect(token.RBRACK); !ok {
				return types.VarType{}, false
			}
			if size < 1 {
				p.bag.Errorf(sizeTok.Line, "array size must be at least 1, got %d", size)
				return types.VarType{}, false
			}
			return types.NewIntArray(size), true
		}
		return types.TInt, true
	case token.FLOAT:
		p.advance()
		return types.TFloat, true
	case token.BOOL:
		p.advance()
		return types.TBool, true
	case token.STRING_TYPE:
		p.advance()
		return types.TStr, true
	default:
		p.errorf("expected a type mark but found %s %q", p.kind(), p.cur().Lexeme)
		return types.VarType{}, false
	}
}

// parseProcedure implements:
//
//	procedure := PROCEDURE IDENT [: type] ( paramList? ) header BEGIN body END_PROCEDURE
//
// The return type mark is optional: a procedure without one returns no
// value (its returns must be bare "return;"). With no type mark the name
// abuts the '(' directly, so the scanner's fixup has already rewritten it
// into a PROCEDURE_CALL token; both shapes are accepted here.
func (p *parser) parseProcedure() *ast.ProcDecl {
	line := p.cur().Line
	p.advance() // PROCEDURE

	var nameTok token.Token
	switch p.kind() {
	case token.IDENTIFIER, token.PROCEDURE_CALL:
		nameTok = p.advance()
	default:
		p.errorf("expected procedure name but found %s %q", p.kind(), p.cur().Lexeme)
		p.synchronize()
		return nil
	}

	var retType types.VarType
	hasRet := false
	if p.at(token.COLON) {
		p.advance()
		var ok bool
		retType, ok = p.parseTypeMark()
		if !ok {
			p.synchronize()
			return nil
		}
		hasRet = true
	}
	if _, ok := p.expect(token.LPAREN); !ok {
		p.synchronize()
		return nil
	}

	params := &ast.Block{}
	for !p.at(token.RPAREN) && !p.atEOF() {
		pline := p.cur().Line
		pname, ok := p.expect(token.IDENTIFIER)
		if !ok {
			break
		}
		if _, ok := p.expect(token.COLON); !ok {
			break
		}
		pt, ok := p.parseTypeMark()
		if !ok {
			break
		}
		params.Stmts = append(params.Stmts, ast.NewVarDecl(pline, pname.Lexeme, pt))
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.expect(token.RPAREN); !ok {
		p.synchronize()
		return nil
	}

	p.scope++
	header := p.parseHeader()

	if _, ok := p.expect(token.BEGIN); !ok {
		p.synchronize()
	}
	body := p.parseBody()
	p.scope--

	if _, ok := p.expect(token.END_PROCEDURE); !ok {
		p.synchronize()
	}

	return ast.NewProcDecl(line, retType, hasRet, nameTok.Lexeme, params, header, body)
}

func parseI32(lex string) int32 {
	var v int32
	for _, c := range lex {
		v = v*10 + int32(c-'0')
	}
	return v
}
