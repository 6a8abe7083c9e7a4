// Package decl parses and prints callable declarations.
//
// Only the qualifier prefix of a declaration is structured; everything from
// `fn` onwards (name, generics, parameters, return type, where clause, body)
// is kept as source text and printed back byte for byte.
package decl
