package h2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEndToEndScenarios exercises the compiler against literal source
// strings, checking the flattened command output or error code each one
// produces. MAX_STEP/MAX_DEPTH/ON_LIMIT combinations live in
// TestLimitsMatrix instead.
func TestEndToEndScenarios(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"single_agent_literal", "0: srl", "srl"},
		{"zero_arg_function", "x:ss xx", "ssss"},
		{"cmdseq_substitution", "f(X):XXX f(s)", "sss"},
		{"recursive_int_countdown", "a(X):sa(X-1) a(4)", "ssss"},
		{"recursive_numeric_expr", "a(X):sa(X-1) a(10-3+1)", "ssssssss"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			result := Compile([]byte(tc.source))
			if !assert.NotNil(t, result.Success, "expected success, got %v", result.Failure) {
				return
			}
			require.Len(t, result.Success.Agents, 1)
			assert.Equal(t, tc.want, commandString(result.Success.Agents[0].Commands))
		})
	}
}

func TestTypeConflictCmdSeqCall(t *testing.T) {
	// X is inferred CmdSeq from "XX", but the call site passes a number.
	result := Compile([]byte("f(X):XX f(3)"))
	require.NotNil(t, result.Failure)
	require.NotEmpty(t, result.Failure.Diagnostics)
	assert.Equal(t, "E008", result.Failure.Diagnostics[0].Code)
}

func TestTypeConflictBothEvidence(t *testing.T) {
	// X is used both as a bare Term and inside a NumExpr.
	result := Compile([]byte("f(X):Xf(X-1)"))
	require.NotNil(t, result.Failure)
	require.NotEmpty(t, result.Failure.Diagnostics)
	assert.Equal(t, "E010", result.Failure.Diagnostics[0].Code)
}

func TestMultiAgentTimeline(t *testing.T) {
	result := Compile([]byte("0: srl\n1: lrs"))
	require.NotNil(t, result.Success)
	require.Len(t, result.Success.Agents, 2)
	assert.Equal(t, "srl", commandString(result.Success.Agents[0].Commands))
	assert.Equal(t, "lrs", commandString(result.Success.Agents[1].Commands))

	require.Len(t, result.Success.Timeline, 3)
	first := result.Success.Timeline[0]
	require.Len(t, first.AgentCommands, 2)
	assert.EqualValues(t, 0, first.AgentCommands[0].AgentID)
	assert.Equal(t, Straight, first.AgentCommands[0].Command.Kind)
	assert.EqualValues(t, 1, first.AgentCommands[1].AgentID)
	assert.Equal(t, RotateLeft, first.AgentCommands[1].Command.Kind)
}

func TestEmptyCallException(t *testing.T) {
	// Calling a(X) with zero arguments binds X to the empty CmdSeq; no
	// arity error and no output.
	result := Compile([]byte("a(X):X a()"))
	require.NotNil(t, result.Success)
	require.Len(t, result.Success.Agents, 1)
	assert.Empty(t, result.Success.Agents[0].Commands)
	assert.Equal(t, 0, result.Success.MaxSteps)
}

func TestAgentIDRequiresNoIntraveningSpace(t *testing.T) {
	// "0 : srl" has a SPACE between the digits and the colon, so it never
	// forms an AGENT_ID token; the bare NUMBER is not valid at this
	// position and parsing fails.
	result := Compile([]byte("0 : srl"))
	require.NotNil(t, result.Failure)
	assert.NotEmpty(t, result.Failure.Diagnostics)
}

func TestValidate(t *testing.T) {
	assert.True(t, Validate([]byte("0: srl")))
	assert.False(t, Validate([]byte("f(X):Xf(X-1)")))
}

func TestDeterminism(t *testing.T) {
	source := []byte("a(X):sa(X-1) a(5)")
	first := Compile(source)
	second := Compile(source)
	require.NotNil(t, first.Success)
	require.NotNil(t, second.Success)
	assert.Equal(t, first.Success.Agents, second.Success.Agents)
	assert.Equal(t, first.Success.Timeline, second.Success.Timeline)
}

func TestSingleAgentEquivalence(t *testing.T) {
	withPrefix := Compile([]byte("0: srl"))
	withoutPrefix := Compile([]byte("srl"))
	require.NotNil(t, withPrefix.Success)
	require.NotNil(t, withoutPrefix.Success)
	assert.Equal(t, withPrefix.Success.Agents, withoutPrefix.Success.Agents)
}

func TestWhitespaceInvariance(t *testing.T) {
	tight := Compile([]byte("x:ss xx"))
	spaced := Compile([]byte("x : ss   x x"))
	require.NotNil(t, tight.Success)
	require.NotNil(t, spaced.Success)
	assert.Equal(t, tight.Success.Agents, spaced.Success.Agents)
}

func TestCommentInvariance(t *testing.T) {
	plain := Compile([]byte("0: srl"))
	commented := Compile([]byte("0: srl # turn sequence\n"))
	require.NotNil(t, plain.Success)
	require.NotNil(t, commented.Success)
	assert.Equal(t, plain.Success.Agents, commented.Success.Agents)
}

func TestTerminationOnNonPositive(t *testing.T) {
	zero := Compile([]byte("a(X):sa(X-1) a(0)"))
	require.NotNil(t, zero.Success)
	assert.Empty(t, zero.Success.Agents[0].Commands)
}
