// Package expand rewrites @qualifiers(...) annotation sites.
//
// A site is a run of one or more annotations followed by a callable
// declaration:
//
//	@qualifiers([pub, async])
//	@qualifiers(unsafe)
//	fn handler() {}
//
// Stacked annotations apply nearest-first, so the example yields
// `pub async fn handler() {}`: `unsafe` is applied first and then replaced
// by the list. Each site is independent: a failing site contributes
// diagnostics and no edits, other sites still expand.
package expand
