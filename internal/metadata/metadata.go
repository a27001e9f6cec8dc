// Package metadata captures and applies per-file mode, mtime, uid/gid,
// symlink target and file type, and serialises that record to the
// textual format persisted in a repository's index.
package metadata

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/deepcfish/sexpack/internal/errs"
	"github.com/deepcfish/sexpack/internal/probe"
)

// Metadata is the per-path record described in the data model: mode,
// mtime, uid/gid, file type, symlink target. dev_major/dev_minor are
// captured but reserved — no component recreates device files from
// them.
type Metadata struct {
	Mode          uint32
	Mtime         int64
	UID           uint32
	GID           uint32
	FileType      probe.FileType
	IsSymlink     bool
	SymlinkTarget string
	DevMajor      uint32
	DevMinor      uint32
}

// Load reads lstat (never following the link) and populates every
// field, including the symlink target when applicable. Mode carries
// the permission bits plus setuid/setgid/sticky (st_mode & 07777,
// e.g. 0644), matching the textual format's
// worked example; the platform's raw type bits are consulted here to
// fill FileType but are never themselves persisted in Mode.
func Load(path string) (Metadata, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return Metadata{}, errs.Wrap(errs.KindStatFailure, path, err)
	}

	m := Metadata{
		Mode:  uint32(info.Mode().Perm()),
		Mtime: info.ModTime().Unix(),
	}

	rawMode := uint32(info.Mode())
	if sysInfo, ok := info.Sys().(*syscall.Stat_t); ok {
		rawMode = sysInfo.Mode
		m.Mode = sysInfo.Mode & 0o7777
		m.UID = sysInfo.Uid
		m.GID = sysInfo.Gid
		m.Mtime = sysInfo.Mtim.Sec
		if info.Mode()&os.ModeDevice != 0 {
			m.DevMajor = uint32(sysInfo.Rdev >> 8)
			m.DevMinor = uint32(sysInfo.Rdev & 0xff)
		}
	}

	m.FileType = typeFromMode(rawMode, info)
	m.IsSymlink = m.FileType == probe.Symlink

	if m.IsSymlink {
		target, err := os.Readlink(path)
		if err != nil {
			return Metadata{}, errs.Wrap(errs.KindReadLinkFailure, path, err)
		}
		m.SymlinkTarget = target
	}

	return m, nil
}

// typeFromMode recovers the FileType from raw stat mode bits, falling
// back to the os.FileInfo classification on platforms where Stat_t is
// unavailable (the Sys() type assertion above failed and Mode still
// holds only permission bits).
func typeFromMode(mode uint32, info os.FileInfo) probe.FileType {
	switch mode & syscall.S_IFMT {
	case syscall.S_IFDIR:
		return probe.Directory
	case syscall.S_IFLNK:
		return probe.Symlink
	case syscall.S_IFIFO:
		return probe.Fifo
	case syscall.S_IFSOCK:
		return probe.Socket
	case syscall.S_IFCHR:
		return probe.CharacterDevice
	case syscall.S_IFBLK:
		return probe.BlockDevice
	case syscall.S_IFREG:
		return probe.Regular
	}

	fm := info.Mode()
	switch {
	case info.IsDir():
		return probe.Directory
	case fm&os.ModeSymlink != 0:
		return probe.Symlink
	case fm&os.ModeNamedPipe != 0:
		return probe.Fifo
	case fm&os.ModeSocket != 0:
		return probe.Socket
	case fm&os.ModeCharDevice != 0:
		return probe.CharacterDevice
	case fm&os.ModeDevice != 0:
		return probe.BlockDevice
	default:
		return probe.Regular
	}
}

// Apply applies mode via chmod (best-effort, warned not fatal by the
// caller), then sets atime=mtime=Mtime. Symlinks are never
// dereferenced: for a symlink Apply does nothing at all on every
// platform, so neither the link nor its target gets mode or times.
func Apply(path string, m Metadata) error {
	if m.IsSymlink {
		return nil
	}

	if err := os.Chmod(path, os.FileMode(m.Mode&0o7777)); err != nil {
		return errs.Wrap(errs.KindGenericIO, path, err)
	}

	t := time.Unix(m.Mtime, 0)
	if err := os.Chtimes(path, t, t); err != nil {
		return errs.Wrap(errs.KindGenericIO, path, err)
	}
	return nil
}

// Serialize renders m as "<mode>:<mtime>:<uid>:<gid>:<0|1>:<symlink_target>".
// Integers are decimal; the target is whatever follows the fifth colon,
// so it may itself contain colons.
func (m Metadata) Serialize() string {
	isSym := 0
	if m.IsSymlink {
		isSym = 1
	}
	return fmt.Sprintf("%d:%d:%d:%d:%d:%s", m.Mode, m.Mtime, m.UID, m.GID, isSym, m.SymlinkTarget)
}

// Parse is the inverse of Serialize. It rejects inputs with fewer than
// five colons, non-integer numeric fields, or an is_symlink field
// outside {0,1}.
func Parse(s string) (Metadata, error) {
	fields := make([]string, 0, 6)
	rest := s
	for i := 0; i < 5; i++ {
		idx := strings.IndexByte(rest, ':')
		if idx < 0 {
			return Metadata{}, errs.New(errs.KindMalformedMetadata, fmt.Errorf("expected at least 5 colons in %q", s))
		}
		fields = append(fields, rest[:idx])
		rest = rest[idx+1:]
	}
	fields = append(fields, rest)

	mode, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return Metadata{}, errs.New(errs.KindMalformedMetadata, err)
	}
	mtime, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return Metadata{}, errs.New(errs.KindMalformedMetadata, err)
	}
	uid, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return Metadata{}, errs.New(errs.KindMalformedMetadata, err)
	}
	gid, err := strconv.ParseUint(fields[3], 10, 32)
	if err != nil {
		return Metadata{}, errs.New(errs.KindMalformedMetadata, err)
	}
	isSym, err := strconv.Atoi(fields[4])
	if err != nil || (isSym != 0 && isSym != 1) {
		return Metadata{}, errs.New(errs.KindMalformedMetadata, fmt.Errorf("is_symlink field must be 0 or 1, got %q", fields[4]))
	}

	m := Metadata{
		Mode:          uint32(mode),
		Mtime:         mtime,
		UID:           uint32(uid),
		GID:           uint32(gid),
		IsSymlink:     isSym == 1,
		SymlinkTarget: fields[5],
	}
	// The textual format carries only is_symlink, not the full FileType
	// (see DESIGN.md) — Symlink is the only non-Regular type
	// recoverable from the serialized line alone. The Repository layer
	// resolves Directory/Fifo/device/socket entries using the relative
	// path convention and data/ body presence instead.
	if m.IsSymlink {
		m.FileType = probe.Symlink
	} else {
		m.FileType = probe.Regular
	}
	return m, nil
}
