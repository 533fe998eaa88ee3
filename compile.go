package h2

import (
	"github.com/ekusiadadus/h2/expander"
	"github.com/ekusiadadus/h2/lexer"
	"github.com/ekusiadadus/h2/parser"
	"github.com/ekusiadadus/h2/reporter"
	"github.com/ekusiadadus/h2/timeline"
)

// Version is this module's semantic version, part of the host-binding
// contract.
const Version = "0.1.0"

// Compile runs the full pipeline — lexer, parser, type inference, and
// expander — over source and returns the aggregated Result. It never
// panics on malformed input; every failure mode the pipeline can hit is
// represented in Failure.Diagnostics.
//
// Aggregation across phases is done by a single reporter.Handler (spec §7):
// the Handler's Reporter callback records every reported error as a
// Diagnostic and always returns nil, so the Handler keeps accumulating
// rather than aborting on the first one — the lexer and parser still each
// only ever report one error (neither phase recovers past its first
// failure, per spec §7), but the expander loop below reports one error per
// agent and keeps expanding the rest, matching "other agents are still
// expanded" exactly. handler.Error() is then the single point of truth for
// whether the whole compile produced a Failure.
func Compile(source []byte) Result {
	var diagnostics []Diagnostic
	handler := reporter.NewHandler(reporter.NewReporter(func(ewp reporter.ErrorWithPos) error {
		diagnostics = append(diagnostics, diagnosticFrom(ewp))
		return nil
	}, nil))

	tokens, err := lexer.Tokenize("<source>", source)
	if err != nil {
		ewp, _ := lexer.AsReporterError(err)
		handler.HandleError(ewp)
		return Result{Failure: &Failure{Diagnostics: diagnostics}}
	}

	prog, err := parser.Parse(tokens)
	if err != nil {
		handler.HandleError(err)
		return Result{Failure: &Failure{Diagnostics: diagnostics}}
	}

	var agents []AgentResult
	var tlInput []timeline.AgentCommands

	for _, agent := range prog.Agents {
		cmds, err := expander.Expand(agent)
		if err != nil {
			handler.HandleError(err)
			continue
		}
		result := AgentResult{AgentID: agent.ID, Commands: make([]Command, len(cmds))}
		for i, c := range cmds {
			result.Commands[i] = commandFromByte(c)
		}
		agents = append(agents, result)
		tlInput = append(tlInput, timeline.AgentCommands{AgentID: agent.ID, Commands: cmds})
	}

	if handler.Error() != nil {
		return Result{Failure: &Failure{Diagnostics: diagnostics}}
	}

	slices := timeline.Assemble(tlInput)
	tl := make([]TimelineStep, len(slices))
	for i, slice := range slices {
		step := TimelineStep{Step: slice.Step, AgentCommands: make([]TimelineEntry, len(slice.Entries))}
		for j, e := range slice.Entries {
			step.AgentCommands[j] = TimelineEntry{AgentID: e.AgentID, Command: commandFromByte(e.Command)}
		}
		tl[i] = step
	}

	return Result{Success: &Success{Agents: agents, MaxSteps: len(tl), Timeline: tl}}
}

// Validate reports whether source compiles without any fatal diagnostic.
func Validate(source []byte) bool {
	return Compile(source).OK()
}

func diagnosticFrom(ewp reporter.ErrorWithPos) Diagnostic {
	if ewp == nil {
		return Diagnostic{Code: reporter.Unknown.String(), Message: "unknown error"}
	}
	span := ewp.Span()
	return Diagnostic{
		Code:    ewp.Code().String(),
		Message: ewp.Unwrap().Error(),
		Line:    span.Start.Line,
		Column:  span.Start.Col,
	}
}
