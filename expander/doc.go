// Package expander rewrites an agent's main expression into a flat command
// vector, evaluating numeric arguments along the way, under the program's
// step and depth limits.
package expander
