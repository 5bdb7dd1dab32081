package scanner

import (
	"github.com/kortho/varta/lang/diag"
	"github.com/kortho/varta/lang/token"
)

// secondPass is the contextual fixup: a single walk over the raw token
// list that rewrites three patterns before the parser ever sees them.
func secondPass(raw []token.Token, bag *diag.Bag) []token.Token {
	out := make([]token.Token, 0, len(raw))

	for i := 0; i < len(raw); i++ {
		t := raw[i]

		// END followed by PROGRAM|PROCEDURE|IF|FOR merges into one token.
		if t.Kind == token.END && i+1 < len(raw) {
			if merged, ok := mergeEnd(raw[i+1]); ok {
				out = append(out, token.Token{
					Kind:   merged,
					Lexeme: t.Lexeme + " " + raw[i+1].Lexeme,
					Line:   t.Line,
					Group:  token.Keyword,
				})
				i++
				continue
			}
		}

		// IDENTIFIER immediately followed by '(' becomes PROCEDURE_CALL; the
		// '(' itself remains in the stream.
		if t.Kind == token.IDENTIFIER && i+1 < len(raw) && raw[i+1].Kind == token.LPAREN {
			out = append(out, token.Token{
				Kind:   token.PROCEDURE_CALL,
				Lexeme: t.Lexeme,
				Line:   t.Line,
				Group:  token.Variable,
			})
			continue
		}

		// Unary minus: '-' is absorbed into the next token's lexeme iff the
		// preceding emitted token is an operator or ':=', and the following
		// raw token is numeric or an identifier.
		if t.Kind == token.MINUS && i+1 < len(raw) {
			prevIsOperatorLike := len(out) == 0 || out[len(out)-1].Group == token.Operator || out[len(out)-1].Kind == token.ASSIGN
			next := raw[i+1]
			nextIsOperand := next.Kind == token.NUMBER_INT || next.Kind == token.NUMBER_FLOAT || next.Kind == token.IDENTIFIER
			if prevIsOperatorLike && nextIsOperand {
				out = append(out, token.Token{
					Kind:   next.Kind,
					Lexeme: "-" + next.Lexeme,
					Line:   t.Line,
					Group:  next.Group,
				})
				i++
				continue
			}
		}

		if t.Kind == token.ILLEGAL {
			// Diagnostic was already recorded at scan time; drop the token from
			// the stream the parser sees so it can resynchronize cleanly.
			continue
		}

		out = append(out, t)
	}

	return out
}

func mergeEnd(next token.Token) (token.Kind, bool) {
	switch next.Kind {
	case token.PROGRAM:
		return token.END_PROGRAM, true
	case token.PROCEDURE:
		return token.END_PROCEDURE, true
	case token.IF:
		return token.END_IF, true
	case token.FOR:
		return token.END_FOR, true
	default:
		return token.ILLEGAL, false
	}
}
