package timeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekusiadadus/h2/timeline"
)

func TestAssembleEqualLengthVectors(t *testing.T) {
	t.Parallel()
	slices := timeline.Assemble([]timeline.AgentCommands{
		{AgentID: 0, Commands: []byte("srl")},
		{AgentID: 1, Commands: []byte("lrs")},
	})

	require.Len(t, slices, 3)

	assert.Equal(t, 0, slices[0].Step)
	assert.Equal(t, []timeline.Entry{
		{AgentID: 0, Command: 's'},
		{AgentID: 1, Command: 'l'},
	}, slices[0].Entries)

	assert.Equal(t, []timeline.Entry{
		{AgentID: 0, Command: 'r'},
		{AgentID: 1, Command: 'r'},
	}, slices[1].Entries)

	assert.Equal(t, []timeline.Entry{
		{AgentID: 0, Command: 'l'},
		{AgentID: 1, Command: 's'},
	}, slices[2].Entries)
}

func TestAssembleUnevenLengthVectorsDropOutEarly(t *testing.T) {
	t.Parallel()
	slices := timeline.Assemble([]timeline.AgentCommands{
		{AgentID: 0, Commands: []byte("s")},
		{AgentID: 1, Commands: []byte("lrs")},
	})

	require.Len(t, slices, 3)

	assert.Equal(t, []timeline.Entry{
		{AgentID: 0, Command: 's'},
		{AgentID: 1, Command: 'l'},
	}, slices[0].Entries)

	// agent 0's vector is exhausted after step 0: it contributes no entry.
	assert.Equal(t, []timeline.Entry{
		{AgentID: 1, Command: 'r'},
	}, slices[1].Entries)
	assert.Equal(t, []timeline.Entry{
		{AgentID: 1, Command: 's'},
	}, slices[2].Entries)
}

func TestAssembleEmptyAgentListProducesNoSlices(t *testing.T) {
	t.Parallel()
	slices := timeline.Assemble(nil)
	assert.Empty(t, slices)
}

func TestAssembleAgentWithNoCommandsContributesNothing(t *testing.T) {
	t.Parallel()
	slices := timeline.Assemble([]timeline.AgentCommands{
		{AgentID: 0, Commands: nil},
		{AgentID: 1, Commands: []byte("s")},
	})

	require.Len(t, slices, 1)
	assert.Equal(t, []timeline.Entry{
		{AgentID: 1, Command: 's'},
	}, slices[0].Entries)
}
