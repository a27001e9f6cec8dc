package driver

import (
	"path/filepath"
	"strings"

	"github.com/deepcfish/sexpack/internal/errs"
	"github.com/deepcfish/sexpack/internal/repo"
)

// Restore loads the repository's index and recreates every entry
// under targetRoot. Overall success requires zero per-file failures.
func Restore(r *repo.Repository, targetRoot string, sink ProgressSink) (Counters, error) {
	if sink == nil {
		sink = NopSink{}
	}

	if err := r.LoadIndex(); err != nil {
		return Counters{}, err
	}

	keys := r.ListFiles()
	var c Counters
	total := len(keys)
	sink.Start(total, "restore")

	for i, rel := range keys {
		sink.Progress(i+1, total, rel)

		target := filepath.Join(targetRoot, strings.TrimSuffix(rel, "/"))
		if err := r.Restore(rel, target); err != nil {
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

	sink.Done(c.Succeeded, c.Failed, c.Skipped)
	if c.Failed > 0 {
		return c, errs.New(errs.KindGenericIO, nil)
	}
	return c, nil
}
