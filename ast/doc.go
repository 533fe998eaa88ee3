// Package ast defines the data model produced by the H2 parser: tokens,
// spans, and the tree of nodes described in the language's grammar
// (directives, agents, function definitions, expressions, arguments, and
// numeric expressions).
//
// Every node below the Program root carries a Span (an Expression derives
// one from its terms) pointing back into the source
// text it was parsed from, so that later phases (type inference, expansion)
// can report errors with a precise location.
package ast
