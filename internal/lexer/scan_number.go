package lexer

import (
	"fnqual/internal/diag"
	"fnqual/internal/token"
)

// Supported: 0, 123, 0b..., 0o..., 0x..., 1.0, 1e-3, 1.0e+10, plus an
// identifier-like suffix (1u8, 2.5f32) which stays in Token.Text.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.cursor.Peek() == '0' {
		if _, b1, ok := lx.cursor.Peek2(); ok {
			var digit func(byte) bool
			switch b1 {
			case 'b', 'B':
				digit = func(b byte) bool { return b == '0' || b == '1' }
			case 'o', 'O':
				digit = func(b byte) bool { return b >= '0' && b <= '7' }
			case 'x', 'X':
				digit = isHex
			}
			if digit != nil {
				lx.cursor.Off += 2
				n := 0
				for b := lx.cursor.Peek(); digit(b) || b == '_'; b = lx.cursor.Peek() {
					lx.cursor.Bump()
					n++
				}
				if n == 0 {
					return lx.badNumber(start, "expected digits after base prefix")
				}
				return lx.finishNumber(start, kind)
			}
		}
	}

	lx.eatDecimals()

	// дробная часть: только если за точкой цифра ("1..2" и "x.0.len" не трогаем)
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDec(b1) {
		lx.cursor.Bump()
		lx.eatDecimals()
		kind = token.FloatLit
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if lx.cursor.Peek() == '+' || lx.cursor.Peek() == '-' {
			lx.cursor.Bump()
		}
		if isDec(lx.cursor.Peek()) {
			lx.eatDecimals()
			kind = token.FloatLit
		} else {
			// "1e" — пусть 'e' станет суффиксом
			lx.cursor.Reset(mark)
		}
	}

	return lx.finishNumber(start, kind)
}

func (lx *Lexer) eatDecimals() {
	for b := lx.cursor.Peek(); isDec(b) || b == '_'; b = lx.cursor.Peek() {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) finishNumber(start Mark, kind token.Kind) token.Token {
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) badNumber(start Mark, msg string) token.Token {
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexBadNumber, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
