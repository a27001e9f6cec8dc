package driver

import (
	"os"
	"path/filepath"

	"github.com/deepcfish/sexpack/internal/errs"
	"github.com/deepcfish/sexpack/internal/filter"
	"github.com/deepcfish/sexpack/internal/metadata"
	"github.com/deepcfish/sexpack/internal/probe"
	"github.com/deepcfish/sexpack/internal/repo"
)

// Counters summarizes one backup or restore run.
type Counters struct {
	Succeeded int
	Failed    int
	Skipped   int
}

// walkSource collects every non-directory entry under root (directories
// themselves are not returned) using a traversal that
// never descends through a symlinked directory — filepath.WalkDir's
// DirEntry is lstat-based, so a symlinked directory is reported as a
// non-directory leaf and is never expanded, which is what breaks
// directory-symlink cycles — and tolerates permission-denied on
// individual subtrees by skipping them instead of aborting.
func walkSource(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == root {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(errs.KindGenericIO, root, err)
	}
	return paths, nil
}

// Backup walks sourceRoot, applies the optional filter, stores each
// supported entry into the repository, and flushes the index.
func Backup(sourceRoot string, r *repo.Repository, f filter.Filter, sink ProgressSink) (Counters, error) {
	if sink == nil {
		sink = NopSink{}
	}

	if _, err := os.Stat(sourceRoot); err != nil {
		return Counters{}, errs.Wrap(errs.KindNotFound, sourceRoot, err)
	}
	if err := r.Initialize(); err != nil {
		return Counters{}, err
	}

	paths, err := walkSource(sourceRoot)
	if err != nil {
		return Counters{}, err
	}

	var c Counters
	total := len(paths)
	sink.Start(total, "backup")

	for i, path := range paths {
		rel, relErr := filepath.Rel(sourceRoot, path)
		if relErr != nil {
			rel = path
		}
		sink.Progress(i+1, total, rel)

		if f != nil && !f.Decide(path) {
			c.Skipped++
			sink.Skipped(rel, "filtered")
			if sink.Cancelled() {
				return c, errs.New(errs.KindCancelled, nil)
			}
			continue
		}

		t, err := probe.Classify(path)
		if err != nil {
			c.Failed++
			sink.Failure(rel, err)
			if sink.Cancelled() {
				return c, errs.New(errs.KindCancelled, nil)
			}
			continue
		}
		if !probe.Supported(t) {
			c.Skipped++
			sink.Skipped(rel, "unsupported type")
			if sink.Cancelled() {
				return c, errs.New(errs.KindCancelled, nil)
			}
			continue
		}

		m, err := metadata.Load(path)
		if err != nil {
			c.Failed++
			sink.Failure(rel, err)
			if sink.Cancelled() {
				return c, errs.New(errs.KindCancelled, nil)
			}
			continue
		}

		if err := r.Store(path, rel, m); err != nil {
			c.Failed++
			sink.Failure(rel, err)
		} else {
			c.Succeeded++
			sink.Success(rel)
		}

		if sink.Cancelled() {
			return c, errs.New(errs.KindCancelled, nil)
		}
	}

	if err := r.SaveIndex(); err != nil {
		return c, err
	}

	sink.Done(c.Succeeded, c.Failed, c.Skipped)
	return c, nil
}
