package driver

import "fmt"

// ConsoleSink prints per-file progress to stdout, the out-of-core
// collaborator the CLI wires up in place of a GUI.
type ConsoleSink struct {
	cancelled bool
}

func (s *ConsoleSink) Start(total int, operation string) {
	fmt.Printf("%s: %d files\n", operation, total)
}

func (s *ConsoleSink) Progress(index, total int, path string) {
	pct := 0
	if total > 0 {
		pct = index * 100 / total
	}
	fmt.Printf("[%3d%%] (%d/%d) %s\n", pct, index, total, path)
}

func (s *ConsoleSink) Success(path string) {}

func (s *ConsoleSink) Failure(path string, err error) {
	fmt.Printf("  failed: %s: %v\n", path, err)
}

func (s *ConsoleSink) Skipped(path string, reason string) {
	fmt.Printf("  skipped: %s (%s)\n", path, reason)
}

func (s *ConsoleSink) Done(succeeded, failed, skipped int) {
	fmt.Printf("done: %d succeeded, %d failed, %d skipped\n", succeeded, failed, skipped)
}

func (s *ConsoleSink) Cancel() { s.cancelled = true }

func (s *ConsoleSink) Cancelled() bool { return s.cancelled }
