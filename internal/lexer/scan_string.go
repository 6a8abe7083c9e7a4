package lexer

import (
	"fnqual/internal/diag"
	"fnqual/internal/token"
)

// scanString scans "..." keeping escapes verbatim; escapes are decoded by
// whoever needs the value (see qualifier.ParseAbi). Newlines are allowed.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		if b == '"' {
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		if b == '\\' && !lx.cursor.EOF() {
			// грубая обработка escape: съесть следующий байт, глубоко не валидируем
			lx.cursor.Bump()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// atRawString reports whether the cursor sits on r"..." or r#"..."#. A raw
// identifier such as r#match is not a string.
func (lx *Lexer) atRawString() bool {
	i := lx.cursor.Off + 1
	for i < lx.cursor.Limit && lx.file.Content[i] == '#' {
		i++
	}
	return i < lx.cursor.Limit && lx.file.Content[i] == '"'
}

// scanRawString scans a raw string literal. The body has no escapes and ends
// at the first quote followed by as many '#' as opened the literal.
func (lx *Lexer) scanRawString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // 'r'
	hashes := 0
	for lx.cursor.Eat('#') {
		hashes++
	}
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() != '"' {
			continue
		}
		n := 0
		for n < hashes && lx.cursor.Peek() == '#' {
			lx.cursor.Bump()
			n++
		}
		if n == hashes {
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated raw string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// scanCharOrApostrophe distinguishes 'c' / '\n' char literals from a bare
// apostrophe used by lifetimes and loop labels ('a).
func (lx *Lexer) scanCharOrApostrophe() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '\''

	if lx.cursor.Peek() == '\\' {
		lx.cursor.Bump()
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\'' && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		if !lx.cursor.Eat('\'') {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "unterminated character literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.CharLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	afterQuote := lx.cursor.Mark()
	if _, sz := lx.peekRune(); sz > 0 {
		lx.bumpRune()
		if lx.cursor.Eat('\'') {
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.CharLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
	}
	lx.cursor.Reset(afterQuote)
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Apostrophe, Span: sp, Text: "'"}
}
