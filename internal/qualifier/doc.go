// Package qualifier parses qualifier specifications and applies them to
// callable declarations.
//
// A specification is either a single qualifier
//
//	pub(crate)
//
// or a bracketed list holding at most one qualifier per kind
//
//	[pub, async, extern "C"]
//
// The single form patches one field of the target and leaves the other four
// alone. The list form replaces all five: kinds that are not listed are
// cleared. See Spec.Patch and Apply.
package qualifier
