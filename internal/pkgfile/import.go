package pkgfile

import (
	"os"
	"path/filepath"

	"github.com/deepcfish/sexpack/internal/errs"
)

// Import opens packagePath, validates its header, and rehydrates a
// repository directory at repoDir shape-equivalent to the one Export
// produced — directly usable by the restore driver.
func Import(packagePath, repoDir string, opts Options) error {
	f, err := os.Open(packagePath)
	if err != nil {
		return errs.Wrap(errs.KindGenericIO, packagePath, err)
	}
	defer f.Close()

	h, err := readHeader(f)
	if err != nil {
		return err
	}
	if h.encrypt != EncryptNone && opts.Password == "" {
		return errs.New(errs.KindEncryptionRequiresPassword, nil)
	}

	decodeOpts := Options{Compress: h.compress, Encrypt: h.encrypt, Password: opts.Password}

	var entries []Entry
	switch h.pack {
	case TocAtEnd:
		entries, err = readTocAtEnd(f)
	default:
		entries, err = readHeaderPerFile(f)
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(repoDir, 0o755); err != nil {
		return errs.Wrap(errs.KindGenericIO, repoDir, err)
	}

	for _, e := range entries {
		raw, err := decode(e.Payload, decodeOpts, h.salt)
		if err != nil {
			return err
		}
		target := filepath.Join(repoDir, filepath.FromSlash(e.RelPath))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return errs.Wrap(errs.KindGenericIO, e.RelPath, err)
		}
		if err := os.WriteFile(target, raw, 0o644); err != nil {
			return errs.Wrap(errs.KindGenericIO, e.RelPath, err)
		}
	}

	return nil
}
