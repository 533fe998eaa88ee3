package h2

import (
	"context"
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBatchCompilerParallelism covers BatchCompiler.parallelism's bounding
// rule: a positive MaxParallelism is used as-is, and a non-positive one
// falls back to min(runtime.NumCPU(), runtime.GOMAXPROCS(-1)).
func TestBatchCompilerParallelism(t *testing.T) {
	want := runtime.GOMAXPROCS(-1)
	if cpus := runtime.NumCPU(); want > cpus {
		want = cpus
	}

	tests := []struct {
		name string
		c    BatchCompiler
		want int64
	}{
		{"explicit positive value used as-is", BatchCompiler{MaxParallelism: 3}, 3},
		{"zero falls back to cpu-bound default", BatchCompiler{}, int64(want)},
		{"negative falls back to cpu-bound default", BatchCompiler{MaxParallelism: -5}, int64(want)},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.c.parallelism())
		})
	}
}

// TestCompileAllIsolatesPerSourceErrors drives CompileAll across several
// MaxParallelism settings (including the cpu-bound default) over a batch
// mixing well-formed and malformed sources, checking that every program
// compiles independently of its siblings' outcomes, and that results come
// back sorted by path regardless of map iteration order.
func TestCompileAllIsolatesPerSourceErrors(t *testing.T) {
	sources := map[string][]byte{
		"good_a.h2": []byte("0: srl"),
		"good_b.h2": []byte("x:ss xx"),
		"bad.h2":    []byte("f(X):Xf(X-1)"), // E010: X used both as Term and in NumExpr.
	}

	for _, par := range []int{1, 2, 0} {
		c := &BatchCompiler{MaxParallelism: par}
		results, err := c.CompileAll(context.Background(), sources)
		require.NoError(t, err)
		require.Len(t, results, len(sources))

		for i := 1; i < len(results); i++ {
			assert.Less(t, results[i-1].Path, results[i].Path, "results must be sorted by path")
		}

		byPath := make(map[string]BatchResult, len(results))
		for _, r := range results {
			byPath[r.Path] = r
		}

		require.NotNil(t, byPath["good_a.h2"].Result.Success, "MaxParallelism=%d", par)
		assert.Equal(t, "srl", commandString(byPath["good_a.h2"].Result.Success.Agents[0].Commands))

		require.NotNil(t, byPath["good_b.h2"].Result.Success, "MaxParallelism=%d", par)
		assert.Equal(t, "ssss", commandString(byPath["good_b.h2"].Result.Success.Agents[0].Commands))

		require.NotNil(t, byPath["bad.h2"].Result.Failure, "MaxParallelism=%d", par)
		require.NotEmpty(t, byPath["bad.h2"].Result.Failure.Diagnostics)
		assert.Equal(t, "E010", byPath["bad.h2"].Result.Failure.Diagnostics[0].Code)
	}
}

// TestCompileGlobMatchesGoldenCorpus runs CompileGlob against the same
// testdata/golden fixtures TestGoldenCorpus drives through Compile directly,
// checking the glob picks up every *.h2 fixture and that each compiles to
// the outcome its sibling golden file records.
func TestCompileGlobMatchesGoldenCorpus(t *testing.T) {
	c := &BatchCompiler{MaxParallelism: 2}
	results, err := c.CompileGlob(context.Background(), os.DirFS("testdata/golden"), "*.h2")
	require.NoError(t, err)

	want := []string{
		"multi_agent.h2",
		"recursive_countdown.h2",
		"single_agent.h2",
		"type_conflict.h2",
	}
	got := make([]string, len(results))
	for i, r := range results {
		got[i] = r.Path
	}
	assert.Equal(t, want, got)

	byPath := make(map[string]BatchResult, len(results))
	for _, r := range results {
		byPath[r.Path] = r
	}

	require.NotNil(t, byPath["single_agent.h2"].Result.Success)
	assert.Equal(t, "srl", commandString(byPath["single_agent.h2"].Result.Success.Agents[0].Commands))

	require.NotNil(t, byPath["multi_agent.h2"].Result.Success)
	require.Len(t, byPath["multi_agent.h2"].Result.Success.Agents, 2)

	require.NotNil(t, byPath["recursive_countdown.h2"].Result.Success)
	assert.Equal(t, "ssss", commandString(byPath["recursive_countdown.h2"].Result.Success.Agents[0].Commands))

	require.NotNil(t, byPath["type_conflict.h2"].Result.Failure)
	require.NotEmpty(t, byPath["type_conflict.h2"].Result.Failure.Diagnostics)
	assert.Equal(t, "E008", byPath["type_conflict.h2"].Result.Failure.Diagnostics[0].Code)
}

// TestCompileGlobInvalidPattern checks that an invalid doublestar pattern
// surfaces as an error rather than a panic or silently empty result set.
func TestCompileGlobInvalidPattern(t *testing.T) {
	c := &BatchCompiler{}
	_, err := c.CompileGlob(context.Background(), os.DirFS("testdata/golden"), "[")
	assert.Error(t, err)
}
