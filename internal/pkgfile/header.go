package pkgfile

import (
	"crypto/rand"
	"io"

	"github.com/pkg/errors"

	"github.com/deepcfish/sexpack/internal/binio"
	"github.com/deepcfish/sexpack/internal/errs"
)

type header struct {
	pack     PackAlgorithm
	compress Compression
	encrypt  Encryption
	salt     []byte
}

func newSalt() ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "generating package salt")
	}
	return salt, nil
}

func (h header) write(w io.Writer) error {
	if err := binio.WriteBytes(w, []byte(magic)); err != nil {
		return err
	}
	if err := binio.WriteU8(w, version); err != nil {
		return err
	}
	if err := binio.WriteU8(w, byte(h.pack)); err != nil {
		return err
	}
	if err := binio.WriteU8(w, byte(h.compress)); err != nil {
		return err
	}
	if err := binio.WriteU8(w, byte(h.encrypt)); err != nil {
		return err
	}
	if err := binio.WriteU32(w, uint32(len(h.salt))); err != nil {
		return err
	}
	return binio.WriteBytes(w, h.salt)
}

func readHeader(r io.Reader) (header, error) {
	magicBytes, err := binio.ReadBytes(r, uint64(len(magic)))
	if err != nil {
		return header{}, err
	}
	if string(magicBytes) != magic {
		return header{}, errs.New(errs.KindMagicMismatch, nil)
	}

	if _, err := binio.ReadU8(r); err != nil { // version, ignored
		return header{}, err
	}
	packTag, err := binio.ReadU8(r)
	if err != nil {
		return header{}, err
	}
	compressTag, err := binio.ReadU8(r)
	if err != nil {
		return header{}, err
	}
	encryptTag, err := binio.ReadU8(r)
	if err != nil {
		return header{}, err
	}
	saltN, err := binio.ReadU32(r)
	if err != nil {
		return header{}, err
	}
	salt, err := binio.ReadBytes(r, uint64(saltN))
	if err != nil {
		return header{}, err
	}

	return header{
		pack:     PackAlgorithm(packTag),
		compress: Compression(compressTag),
		encrypt:  Encryption(encryptTag),
		salt:     salt,
	}, nil
}
