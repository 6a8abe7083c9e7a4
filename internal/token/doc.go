// Package token defines lexical token kinds and trivia for fnqual fragments.
// Invariants:
//   - Token.Text is the exact source text of the token.
//   - Token.Span matches Text exactly (Start..End).
//   - Annotations are lexed as '@' (Kind: At) + Ident; there is no per-annotation kind.
//   - Comments and whitespace are attached as leading Trivia and never appear
//     in the main token stream.
//   - Only the qualifier keywords and the handful of words the visibility
//     grammar needs are keywords; everything else is an identifier.
package token
