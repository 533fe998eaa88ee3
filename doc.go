// Package h2 compiles the H2 robot movement language: source text in,
// per-agent command vectors and a parallel execution timeline out. Compile
// runs the lexer, parser, type inferencer, and expander in sequence and
// aggregates every phase's diagnostics into a single Result.
//
// Compiler
//
// Compile is the single-program entry point; it has no configurable
// fields because every tunable (MAX_STEP, MAX_DEPTH, ON_LIMIT) is a
// directive inside the source itself. BatchCompiler sits above it for the
// common case of compiling many independent programs at once —
// independent H2 programs never share state, so batch-level concurrency
// does not change the single-program semantics.
package h2
