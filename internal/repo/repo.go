// Package repo implements the repository engine: the on-disk layout
// (data/ + index.txt), the type-dispatched store/restore state
// machine, and the persistent textual index.
package repo

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/deepcfish/sexpack/internal/backuplog"
	"github.com/deepcfish/sexpack/internal/errs"
	"github.com/deepcfish/sexpack/internal/metadata"
	"github.com/deepcfish/sexpack/internal/probe"
)

// Repository is the logical state rooted at a directory R: R/data/…
// mirrors the source tree's bodies, R/index.txt is the textual index.
// It owns its in-memory index exclusively; callers get copies of
// Metadata via GetMetadata.
type Repository struct {
	Root      string
	DataDir   string
	IndexFile string

	// StoreSymlinkBody opts into copying a symlink's target file into
	// data/ as well as recording its metadata — the source's other
	// store variant, preserved for parity (see DESIGN.md). Off by
	// default: a metadata-only symlink entry is the safer choice
	// against in-repo link loops.
	StoreSymlinkBody bool

	// StrictIndex upgrades a malformed index.txt line from "skip
	// silently" to a hard LoadIndex failure.
	StrictIndex bool

	index []entry
	byKey map[string]int
}

type entry struct {
	path string
	meta metadata.Metadata
}

// New records the three fixed paths under root but touches nothing.
func New(root string) *Repository {
	return &Repository{
		Root:      root,
		DataDir:   filepath.Join(root, "data"),
		IndexFile: filepath.Join(root, "index.txt"),
		byKey:     make(map[string]int),
	}
}

// Initialize ensures R and R/data exist. Idempotent.
func (r *Repository) Initialize() error {
	if err := os.MkdirAll(r.Root, 0o755); err != nil {
		return errs.Wrap(errs.KindGenericIO, r.Root, err)
	}
	if err := os.MkdirAll(r.DataDir, 0o755); err != nil {
		return errs.Wrap(errs.KindGenericIO, r.DataDir, err)
	}
	return nil
}

// indexKey normalizes the map key a path is stored under: directories
// get a trailing slash (the same convention the source's directory
// walk uses), which is also how LoadIndex later recovers Directory
// from a persisted line that otherwise carries no type tag.
func indexKey(relPath string, t probe.FileType) string {
	if t == probe.Directory && relPath != "." && !strings.HasSuffix(relPath, "/") {
		return relPath + "/"
	}
	return relPath
}

func (r *Repository) set(key string, m metadata.Metadata) {
	if i, ok := r.byKey[key]; ok {
		r.index[i].meta = m
		return
	}
	r.byKey[key] = len(r.index)
	r.index = append(r.index, entry{path: key, meta: m})
}

// Store writes the metadata into the in-memory index first — so that
// types without a body still appear in the index even if the body
// copy below fails — then stores the body for the types that have
// one.
func (r *Repository) Store(sourcePath, relPath string, m metadata.Metadata) error {
	key := indexKey(relPath, m.FileType)
	r.set(key, m)

	switch m.FileType {
	case probe.Regular:
		return r.storeBody(sourcePath, relPath)
	case probe.Symlink:
		if r.StoreSymlinkBody {
			return r.storeBody(sourcePath, relPath)
		}
		return nil
	default:
		// Fifo, BlockDevice, CharacterDevice, Socket, Directory: no
		// body; metadata-only.
		return nil
	}
}

func (r *Repository) storeBody(sourcePath, relPath string) error {
	dst := filepath.Join(r.DataDir, relPath)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errs.Wrap(errs.KindCopyFailure, relPath, err)
	}
	if err := copyFile(sourcePath, dst); err != nil {
		return errs.Wrap(errs.KindCopyFailure, relPath, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// Restore looks up metadata for relPath and dispatches on its
// file_type. Any existing file/symlink at targetPath is removed
// first to avoid a type-collision failure.
func (r *Repository) Restore(relPath, targetPath string) error {
	key := relPath
	i, ok := r.byKey[key]
	if !ok {
		// Accept lookups without the directory convention's trailing
		// slash, matching how a caller might compute rel paths.
		if j, ok2 := r.byKey[key+"/"]; ok2 {
			i, ok = j, true
		}
	}
	if !ok {
		return errs.Wrap(errs.KindNotIndexed, relPath, nil)
	}
	m := r.index[i].meta

	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return errs.Wrap(errs.KindGenericIO, targetPath, err)
	}
	if _, err := os.Lstat(targetPath); err == nil {
		if rmErr := os.Remove(targetPath); rmErr != nil {
			return errs.Wrap(errs.KindGenericIO, targetPath, rmErr)
		}
	}

	switch m.FileType {
	case probe.Regular:
		if err := r.restoreRegular(relPath, targetPath); err != nil {
			return err
		}
		if err := metadata.Apply(targetPath, m); err != nil {
			backuplog.Warn("apply metadata failed for %s: %v", targetPath, err)
		}
		return nil

	case probe.Symlink:
		if m.SymlinkTarget == "" {
			return errs.Wrap(errs.KindCorruptMetadata, relPath, nil)
		}
		if err := os.Symlink(m.SymlinkTarget, targetPath); err != nil {
			return errs.Wrap(errs.KindGenericIO, targetPath, err)
		}
		return nil

	case probe.Fifo:
		if err := syscall.Mkfifo(targetPath, m.Mode); err != nil {
			return errs.Wrap(errs.KindCreateSpecialFailure, targetPath, err)
		}
		if err := metadata.Apply(targetPath, m); err != nil {
			backuplog.Warn("apply metadata failed for %s: %v", targetPath, err)
		}
		return nil

	case probe.BlockDevice, probe.CharacterDevice, probe.Socket:
		backuplog.Warn("reserved file type %s not recreated: %s", m.FileType, targetPath)
		return nil

	case probe.Directory:
		return nil

	default:
		return errs.Wrap(errs.KindGenericIO, relPath, nil)
	}
}

func (r *Repository) restoreRegular(relPath, targetPath string) error {
	src := filepath.Join(r.DataDir, relPath)
	if _, err := os.Stat(src); err != nil {
		return errs.Wrap(errs.KindMissingBody, relPath, err)
	}
	if err := copyFile(src, targetPath); err != nil {
		return errs.Wrap(errs.KindGenericIO, relPath, err)
	}
	return nil
}

// SaveIndex writes one line per in-memory entry, in insertion order,
// to index.txt.
func (r *Repository) SaveIndex() error {
	f, err := os.OpenFile(r.IndexFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return errs.Wrap(errs.KindGenericIO, r.IndexFile, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range r.index {
		if _, err := w.WriteString(e.path + "\t" + e.meta.Serialize() + "\n"); err != nil {
			return errs.Wrap(errs.KindGenericIO, r.IndexFile, err)
		}
	}
	if err := w.Flush(); err != nil {
		return errs.Wrap(errs.KindGenericIO, r.IndexFile, err)
	}
	return nil
}

// LoadIndex creates the repository directory structure if absent
// (tolerant of failure — reported later if it matters), then parses
// index.txt. A missing index file is not an error: the in-memory
// index is simply left empty. Malformed lines are skipped unless
// StrictIndex is set, matching the source's documented behaviour.
//
// Because the textual format only ever carries is_symlink (not the
// full FileType — see DESIGN.md), every parsed entry is re-resolved
// here: a trailing "/" on the path recovers Directory, a body file
// under data/ recovers Regular, and anything left over is treated as
// Fifo — the only metadata-only, non-reserved type the spec requires
// to round-trip through disk.
func (r *Repository) LoadIndex() error {
	_ = os.MkdirAll(r.Root, 0o755)
	_ = os.MkdirAll(r.DataDir, 0o755)

	r.index = nil
	r.byKey = make(map[string]int)

	f, err := os.Open(r.IndexFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errs.Wrap(errs.KindGenericIO, r.IndexFile, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		tab := strings.IndexByte(line, '\t')
		if tab < 0 {
			if r.StrictIndex {
				return errs.New(errs.KindMalformedMetadata, nil)
			}
			continue
		}
		path := line[:tab]
		raw := line[tab+1:]

		m, err := metadata.Parse(raw)
		if err != nil {
			if r.StrictIndex {
				return err
			}
			continue
		}
		m.FileType = r.resolveType(path, m)
		r.byKey[path] = len(r.index)
		r.index = append(r.index, entry{path: path, meta: m})
	}
	if err := scanner.Err(); err != nil {
		return errs.Wrap(errs.KindGenericIO, r.IndexFile, err)
	}
	return nil
}

func (r *Repository) resolveType(path string, m metadata.Metadata) probe.FileType {
	if strings.HasSuffix(path, "/") {
		return probe.Directory
	}
	if m.IsSymlink {
		return probe.Symlink
	}
	if _, err := os.Stat(filepath.Join(r.DataDir, path)); err == nil {
		return probe.Regular
	}
	return probe.Fifo
}

// ListFiles returns a snapshot of the index keys, in insertion order.
func (r *Repository) ListFiles() []string {
	out := make([]string, len(r.index))
	for i, e := range r.index {
		out[i] = e.path
	}
	return out
}

// GetMetadata returns a copy of the stored metadata for relPath.
func (r *Repository) GetMetadata(relPath string) (metadata.Metadata, bool) {
	if i, ok := r.byKey[relPath]; ok {
		return r.index[i].meta, true
	}
	if i, ok := r.byKey[relPath+"/"]; ok {
		return r.index[i].meta, true
	}
	return metadata.Metadata{}, false
}
