package h2

import (
	"context"
	"io/fs"
	"runtime"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/semaphore"
)

// BatchCompiler compiles many independent H2 programs concurrently. Each
// program is compiled in total isolation — H2 has no imports or
// cross-program references — so running several Compile calls on different
// goroutines does not touch the single-program sequential-expansion
// guarantee; that guarantee is about one program's agents, not about the
// batch driving this type.
type BatchCompiler struct {
	// MaxParallelism caps concurrent Compile calls. A non-positive value
	// uses min(runtime.NumCPU(), runtime.GOMAXPROCS(-1)).
	MaxParallelism int
}

// BatchResult is one program's outcome within a batch, keyed by the path
// or name it was compiled under.
type BatchResult struct {
	Path   string
	Result Result
}

func (c *BatchCompiler) parallelism() int64 {
	par := c.MaxParallelism
	if par <= 0 {
		par = runtime.GOMAXPROCS(-1)
		if cpus := runtime.NumCPU(); par > cpus {
			par = cpus
		}
	}
	return int64(par)
}

// CompileAll compiles every source, in parallel bounded by MaxParallelism,
// and returns one BatchResult per input, sorted by path for determinism.
func (c *BatchCompiler) CompileAll(ctx context.Context, sources map[string][]byte) ([]BatchResult, error) {
	paths := make([]string, 0, len(sources))
	for p := range sources {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	sem := semaphore.NewWeighted(c.parallelism())
	results := make([]BatchResult, len(paths))

	var wg sync.WaitGroup
	for i, p := range paths {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return results, err
		}
		wg.Add(1)
		go func(i int, p string) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = BatchResult{Path: p, Result: Compile(sources[p])}
		}(i, p)
	}
	wg.Wait()
	return results, nil
}

// CompileGlob reads every file in fsys matching the doublestar glob
// pattern and compiles each independently via CompileAll.
func (c *BatchCompiler) CompileGlob(ctx context.Context, fsys fs.FS, pattern string) ([]BatchResult, error) {
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, err
	}

	sources := make(map[string][]byte, len(matches))
	for _, m := range matches {
		data, err := fs.ReadFile(fsys, m)
		if err != nil {
			return nil, err
		}
		sources[m] = data
	}
	return c.CompileAll(ctx, sources)
}
