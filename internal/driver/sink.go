// Package driver implements the backup and restore drivers: walking
// the source tree, invoking the filter and the repository, and
// reporting progress/counters to a ProgressSink.
package driver

// ProgressSink is the progress-reporting collaborator the backup and
// restore drivers notify at start, per file, and on completion. It
// also doubles as the cooperative cancellation point: after any
// per-file notification the driver consults Cancelled.
type ProgressSink interface {
	Start(total int, operation string)
	Progress(index, total int, path string)
	Success(path string)
	Failure(path string, err error)
	Skipped(path string, reason string)
	Done(succeeded, failed, skipped int)
	Cancelled() bool
}

// NopSink discards every notification and never cancels. It is the
// default when a caller has no progress UI to drive.
type NopSink struct{}

func (NopSink) Start(int, string)         {}
func (NopSink) Progress(int, int, string) {}
func (NopSink) Success(string)            {}
func (NopSink) Failure(string, error)     {}
func (NopSink) Skipped(string, string)    {}
func (NopSink) Done(int, int, int)        {}
func (NopSink) Cancelled() bool           { return false }
