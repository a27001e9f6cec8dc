// Package filter implements the composable predicate chain used to
// narrow which files a backup captures: path, name substring, type,
// mtime window, size window, uid/gid.
package filter

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/deepcfish/sexpack/internal/metadata"
	"github.com/deepcfish/sexpack/internal/probe"
)

// Filter is any value that can decide whether a path should be kept.
// Every implementation must be a pure predicate — it may stat the
// path but must not mutate any state.
type Filter interface {
	Decide(path string) bool
}

// PathFilter accepts or rejects based on two ordered pattern lists.
// A pattern matches a path when it equals the path exactly, is a
// substring of it, or (when it ends with "/") the path starts with
// the pattern sans its trailing slash.
type PathFilter struct {
	Include []string
	Exclude []string
}

func pathMatches(pattern, path string) bool {
	if pattern == path {
		return true
	}
	if strings.Contains(path, pattern) {
		return true
	}
	if strings.HasSuffix(pattern, "/") && strings.HasPrefix(path, strings.TrimSuffix(pattern, "/")) {
		return true
	}
	return false
}

func (f *PathFilter) Decide(path string) bool {
	for _, p := range f.Exclude {
		if pathMatches(p, path) {
			return false
		}
	}
	if len(f.Include) == 0 {
		return true
	}
	for _, p := range f.Include {
		if pathMatches(p, path) {
			return true
		}
	}
	return false
}

// NameFilter accepts a path if any keyword is a substring of its
// filename component. An empty keyword list accepts everything.
type NameFilter struct {
	Keywords []string
}

func (f *NameFilter) Decide(path string) bool {
	if len(f.Keywords) == 0 {
		return true
	}
	name := filepath.Base(path)
	for _, k := range f.Keywords {
		if strings.Contains(name, k) {
			return true
		}
	}
	return false
}

// FileTypeFilter accepts a path whose classified type is in Allowed.
// An empty set accepts everything.
type FileTypeFilter struct {
	Allowed []probe.FileType
}

func (f *FileTypeFilter) Decide(path string) bool {
	if len(f.Allowed) == 0 {
		return true
	}
	t, err := probe.Classify(path)
	if err != nil {
		return false
	}
	for _, a := range f.Allowed {
		if a == t {
			return true
		}
	}
	return false
}

// TimeFilter accepts a path whose mtime falls within [After, Before]
// (either bound may be nil). A stat failure accepts the path.
type TimeFilter struct {
	After  *int64
	Before *int64
}

func (f *TimeFilter) Decide(path string) bool {
	if f.After == nil && f.Before == nil {
		return true
	}
	info, err := os.Lstat(path)
	if err != nil {
		return true
	}
	mtime := info.ModTime().Unix()
	if f.After != nil && mtime < *f.After {
		return false
	}
	if f.Before != nil && mtime > *f.Before {
		return false
	}
	return true
}

// SizeFilter accepts a path whose size falls within [Min, Max].
// Non-regular, non-symlink types and symlinks themselves bypass the
// check (accept); a size fetch failure also accepts.
type SizeFilter struct {
	Min *int64
	Max *int64
}

func (f *SizeFilter) Decide(path string) bool {
	if f.Min == nil && f.Max == nil {
		return true
	}
	t, err := probe.Classify(path)
	if err != nil || t != probe.Regular {
		return true
	}
	info, err := os.Lstat(path)
	if err != nil {
		return true
	}
	size := info.Size()
	if f.Min != nil && size < *f.Min {
		return false
	}
	if f.Max != nil && size > *f.Max {
		return false
	}
	return true
}

// UserFilter accepts a path whose uid/gid equal the configured
// fields, when present.
type UserFilter struct {
	UID *uint32
	GID *uint32
}

func (f *UserFilter) Decide(path string) bool {
	if f.UID == nil && f.GID == nil {
		return true
	}
	m, err := metadata.Load(path)
	if err != nil {
		return true
	}
	if f.UID != nil && m.UID != *f.UID {
		return false
	}
	if f.GID != nil && m.GID != *f.GID {
		return false
	}
	return true
}

// FilterChain accepts a path iff every member accepts it. An empty
// chain accepts every path.
type FilterChain struct {
	Filters []Filter
}

func (c *FilterChain) Decide(path string) bool {
	for _, f := range c.Filters {
		if !f.Decide(path) {
			return false
		}
	}
	return true
}
