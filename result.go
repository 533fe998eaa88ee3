package h2

import "fmt"

// CommandKind is one of the three robot movements the expander can emit.
type CommandKind string

const (
	Straight    CommandKind = "straight"
	RotateRight CommandKind = "rotate_right"
	RotateLeft  CommandKind = "rotate_left"
)

// Command is one step of an agent's expanded output: Magnitude
// is 1 for Straight, +90 for RotateRight, -90 for RotateLeft.
type Command struct {
	Kind      CommandKind
	Magnitude int
}

func commandFromByte(c byte) Command {
	switch c {
	case 'r':
		return Command{Kind: RotateRight, Magnitude: 90}
	case 'l':
		return Command{Kind: RotateLeft, Magnitude: -90}
	default: // 's'
		return Command{Kind: Straight, Magnitude: 1}
	}
}

// AgentResult is one agent's fully expanded command vector.
type AgentResult struct {
	AgentID  int64
	Commands []Command
}

// TimelineEntry is one agent's contribution to a single timeline step.
type TimelineEntry struct {
	AgentID int64
	Command Command
}

// TimelineStep is every agent's command at one step, in agent order.
type TimelineStep struct {
	Step          int
	AgentCommands []TimelineEntry
}

// Success is the shape of a compile result with no fatal diagnostics.
type Success struct {
	Agents   []AgentResult
	MaxSteps int
	Timeline []TimelineStep
}

// Diagnostic is one reported compile error: Line and Column are
// 1-based, matching ast.Pos.
type Diagnostic struct {
	Code    string
	Message string
	Line    int
	Column  int
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Line, d.Column, d.Code, d.Message)
}

// Failure is the shape of a compile result with one or more fatal
// diagnostics, in source order.
type Failure struct {
	Diagnostics []Diagnostic
}

func (f *Failure) Error() string {
	if len(f.Diagnostics) == 0 {
		return "h2: compile failed"
	}
	msg := f.Diagnostics[0].String()
	if len(f.Diagnostics) > 1 {
		msg = fmt.Sprintf("%s (and %d more)", msg, len(f.Diagnostics)-1)
	}
	return msg
}

// Result is the outcome of one Compile call: exactly one of Success or
// Failure is non-nil.
type Result struct {
	Success *Success
	Failure *Failure
}

// OK reports whether the compile produced a Success.
func (r Result) OK() bool {
	return r.Failure == nil
}
