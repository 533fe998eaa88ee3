// Package reporter defines H2's error model: coded errors that
// carry a source span and a human-readable message, a Handler that
// accumulates them across a compile, and a Reporter interface a caller can
// plug in to observe errors and warnings as they are produced.
package reporter
