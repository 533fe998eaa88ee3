// Package lexer implements the H2 tokenizer: it turns an
// ASCII-clean UTF-8 byte string into a stream of ast.Tokens, handling
// longest-match numbers, single-character commands/identifiers/parameters,
// the line-start-sensitive AGENT_ID form, comments, and whitespace.
package lexer
