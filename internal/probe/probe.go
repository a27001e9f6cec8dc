// Package probe classifies filesystem paths into the FileType variant
// set used throughout the repository engine, without ever following a
// symlink.
package probe

import (
	"errors"
	"os"
	"strings"

	"github.com/deepcfish/sexpack/internal/errs"
)

// FileType is the closed variant set the spec requires: Regular,
// Directory, Symlink, Fifo, BlockDevice, CharacterDevice, Socket.
type FileType int

const (
	Regular FileType = iota
	Directory
	Symlink
	Fifo
	BlockDevice
	CharacterDevice
	Socket
)

func (t FileType) String() string {
	switch t {
	case Regular:
		return "Regular"
	case Directory:
		return "Directory"
	case Symlink:
		return "Symlink"
	case Fifo:
		return "Fifo"
	case BlockDevice:
		return "BlockDevice"
	case CharacterDevice:
		return "CharacterDevice"
	case Socket:
		return "Socket"
	default:
		return "Unknown"
	}
}

// Supported reports whether t is in the backup-supported subset
// {Regular, Directory, Symlink, Fifo}.
func Supported(t FileType) bool {
	switch t {
	case Regular, Directory, Symlink, Fifo:
		return true
	default:
		return false
	}
}

// Classify performs an lstat-equivalent on path (symlinks are reported
// as Symlink without being followed) and returns its FileType.
func Classify(path string) (FileType, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, errs.Wrap(errs.KindNotFound, path, err)
		}
		return 0, errs.Wrap(errs.KindStatFailure, path, err)
	}
	return fromFileMode(info.Mode()), nil
}

// ParseFileType maps the CLI's lowercase type names to a FileType, for
// building a FileTypeFilter from repeated --type flags.
func ParseFileType(s string) (FileType, error) {
	switch strings.ToLower(s) {
	case "regular", "file":
		return Regular, nil
	case "directory", "dir":
		return Directory, nil
	case "symlink", "link":
		return Symlink, nil
	case "fifo":
		return Fifo, nil
	case "blockdevice":
		return BlockDevice, nil
	case "chardevice", "characterdevice":
		return CharacterDevice, nil
	case "socket":
		return Socket, nil
	default:
		return 0, errs.New(errs.KindGenericIO, errors.New("unknown file type: "+s))
	}
}

func fromFileMode(mode os.FileMode) FileType {
	switch {
	case mode.IsDir():
		return Directory
	case mode&os.ModeSymlink != 0:
		return Symlink
	case mode&os.ModeNamedPipe != 0:
		return Fifo
	case mode&os.ModeSocket != 0:
		return Socket
	case mode&os.ModeCharDevice != 0:
		return CharacterDevice
	case mode&os.ModeDevice != 0:
		return BlockDevice
	default:
		return Regular
	}
}
