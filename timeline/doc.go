// Package timeline transposes per-agent command vectors into a
// step-indexed execution timeline.
package timeline
