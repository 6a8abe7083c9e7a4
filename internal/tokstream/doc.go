// Package tokstream turns lexer output into a navigable token stream with
// matched delimiters.
//
// A Stream is a window over a flat token slice. Opening delimiters know the
// index of their closer, so a delimited group can be opened as a nested
// Stream (Bracketed, Parenthesized, Braced) and skipped as a single tree
// (SkipTree). Streams are values: Fork copies the cursor, nothing is shared
// between callers except the read-only token slice.
package tokstream
