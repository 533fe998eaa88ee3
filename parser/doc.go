// Package parser turns a token stream into an ast.Program and runs type
// inference over each function definition as it is parsed.
package parser
