package sync

import (
	"sort"
	goSync "sync"
)

// CheckResult reports a source file the transformer rejected.
type CheckResult struct {
	Path string
	Err  error
}

// Check runs the transformer over every script in the source tree without
// writing anything. It returns one entry per failing file, sorted by path.
// It's meant for validating a tree in CI before pushing it.
func (s Syncer) Check() ([]CheckResult, error) {
	globals, privates, _, err := scanSources(s.SourceRoot)
	if err != nil {
		return nil, err
	}

	sources := append(globals, privates...)
	results := make(chan CheckResult, len(sources))

	var wg goSync.WaitGroup
	for _, src := range sources {
		src := src
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.transformSource(src); err != nil {
				results <- CheckResult{Path: src.Path, Err: err}
			}
		}()
	}
	wg.Wait()
	close(results)

	var failures []CheckResult
	for res := range results {
		failures = append(failures, res)
	}

	sort.Slice(failures, func(i, j int) bool {
		return failures[i].Path < failures[j].Path
	})
	return failures, nil
}
