package pkgfile

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/deepcfish/sexpack/internal/errs"
)

// Export walks repoDir and serialises every regular file it contains
// into a single package file at packagePath, compressing then
// encrypting each entry's bytes per opts.
func Export(repoDir, packagePath string, opts Options) error {
	if opts.Encrypt != EncryptNone && opts.Password == "" {
		return errs.New(errs.KindEncryptionRequiresPassword, nil)
	}

	absPackage, err := filepath.Abs(packagePath)
	if err != nil {
		return errors.Wrap(err, "resolving package path")
	}

	var salt []byte
	if opts.Encrypt != EncryptNone {
		salt, err = newSalt()
		if err != nil {
			return err
		}
	}

	relPaths, err := collectFiles(repoDir, absPackage)
	if err != nil {
		return err
	}

	entries := make([]Entry, 0, len(relPaths))
	for _, rel := range relPaths {
		raw, err := os.ReadFile(filepath.Join(repoDir, rel))
		if err != nil {
			return errs.Wrap(errs.KindGenericIO, rel, err)
		}
		stored := encode(raw, opts, salt)
		entries = append(entries, Entry{
			RelPath:      filepath.ToSlash(rel),
			OriginalSize: uint64(len(raw)),
			StoredSize:   uint64(len(stored)),
			Payload:      stored,
		})
	}

	out, err := os.OpenFile(absPackage, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return errs.Wrap(errs.KindGenericIO, packagePath, err)
	}
	defer out.Close()

	h := header{pack: opts.Pack, compress: opts.Compress, encrypt: opts.Encrypt, salt: salt}
	if err := h.write(out); err != nil {
		return err
	}

	switch opts.Pack {
	case TocAtEnd:
		baseOffset := uint64(14 + len(salt))
		if err := writeTocAtEnd(out, entries, baseOffset); err != nil {
			return err
		}
	default:
		if err := writeHeaderPerFile(out, entries); err != nil {
			return err
		}
	}

	return nil
}

// collectFiles returns repo-relative paths (host separators) for every
// regular file under repoDir, excluding the package file itself if it
// happens to live inside that tree.
func collectFiles(repoDir, absPackage string) ([]string, error) {
	var rels []string
	err := filepath.Walk(repoDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		absPath, absErr := filepath.Abs(path)
		if absErr == nil && absPath == absPackage {
			return nil
		}
		rel, relErr := filepath.Rel(repoDir, path)
		if relErr != nil {
			return relErr
		}
		rels = append(rels, rel)
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(errs.KindGenericIO, repoDir, err)
	}
	return rels, nil
}
