// Package pkgfile implements the package container: a self-describing
// binary file with a fixed header, a choice of two body layouts, and
// a per-entry compress-then-encrypt pipeline keyed by a per-package
// random salt. Export serialises a repository directory into one such
// file; Import reverses that into a fresh repository directory.
package pkgfile

import (
	"github.com/pkg/errors"
)

// PackAlgorithm selects the body layout.
type PackAlgorithm byte

const (
	HeaderPerFile PackAlgorithm = 1
	TocAtEnd      PackAlgorithm = 2
)

func (p PackAlgorithm) String() string {
	switch p {
	case HeaderPerFile:
		return "header"
	case TocAtEnd:
		return "toc"
	default:
		return "unknown"
	}
}

// ParsePackAlgorithm maps the CLI's "header"/"toc" spelling to a tag.
func ParsePackAlgorithm(s string) (PackAlgorithm, error) {
	switch s {
	case "header", "":
		return HeaderPerFile, nil
	case "toc":
		return TocAtEnd, nil
	default:
		return 0, errors.Errorf("unknown pack algorithm %q", s)
	}
}

// Compression selects the per-entry compression codec.
type Compression byte

const (
	CompressNone Compression = 0
	CompressRLE  Compression = 1
)

func ParseCompression(s string) (Compression, error) {
	switch s {
	case "none", "":
		return CompressNone, nil
	case "rle":
		return CompressRLE, nil
	default:
		return 0, errors.Errorf("unknown compression %q", s)
	}
}

// Encryption selects the per-entry stream cipher.
type Encryption byte

const (
	EncryptNone Encryption = 0
	EncryptXOR  Encryption = 1
	EncryptRC4  Encryption = 2
)

func ParseEncryption(s string) (Encryption, error) {
	switch s {
	case "none", "":
		return EncryptNone, nil
	case "xor":
		return EncryptXOR, nil
	case "rc4":
		return EncryptRC4, nil
	default:
		return 0, errors.Errorf("unknown encryption %q", s)
	}
}

// Options governs one Export or Import pass.
type Options struct {
	Pack     PackAlgorithm
	Compress Compression
	Encrypt  Encryption
	Password string
}

// Entry is one file's worth of packaged data, independent of which
// body layout carries it on disk.
type Entry struct {
	RelPath      string
	OriginalSize uint64
	StoredSize   uint64
	Payload      []byte
}

const (
	magic    = "SEXP01"
	tocMagic = "TOC1"
	version  = 1
	saltLen  = 16
)
