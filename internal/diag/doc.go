// Package diag defines the diagnostic model shared by every fnqual phase.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings produced by the
//     lexer, the token-stream builder, the qualifier parser, the declaration
//     parser and the expansion driver.
//   - Offer light-weight utilities (Reporter, Bag) so producers can emit
//     diagnostics without coupling to storage or formatting.
//   - Model fix suggestions as structured text edits that internal/fix can apply.
//
// # Scope
//
// Package diag performs no formatting and no IO. Rendering lives in
// internal/diagfmt; applying fixes lives in internal/fix.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning, Error.
//   - Code – compact numeric identifier with a stable string form (QUAL3002).
//   - Message – short, actionable text.
//   - Primary – the span the user must look at.
//   - Notes – secondary spans (e.g. "first occurrence here").
//   - Fixes – optional Fix records.
//
// Every qualifier error is anchored at the offending token. A duplicate
// qualifier points at the second occurrence and carries a note at the first.
package diag
