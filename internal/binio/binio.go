// Package binio provides the little-endian fixed-width integer and
// length-prefixed string primitives the package codec is built on.
package binio

import (
	"encoding/binary"
	"io"

	"github.com/deepcfish/sexpack/internal/errs"
)

func wrapRead(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errs.New(errs.KindUnexpectedEOF, err)
	}
	return errs.New(errs.KindGenericIO, err)
}

func WriteU8(w io.Writer, v byte) error {
	if _, err := w.Write([]byte{v}); err != nil {
		return errs.New(errs.KindGenericIO, err)
	}
	return nil
}

func ReadU8(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, wrapRead(err)
	}
	return buf[0], nil
}

func WriteU32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	if _, err := w.Write(buf[:]); err != nil {
		return errs.New(errs.KindGenericIO, err)
	}
	return nil
}

func ReadU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, wrapRead(err)
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func WriteU64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	if _, err := w.Write(buf[:]); err != nil {
		return errs.New(errs.KindGenericIO, err)
	}
	return nil
}

func ReadU64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, wrapRead(err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// WriteBytes writes raw bytes with no length prefix.
func WriteBytes(w io.Writer, b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if _, err := w.Write(b); err != nil {
		return errs.New(errs.KindGenericIO, err)
	}
	return nil
}

// ReadBytes reads exactly n raw bytes.
func ReadBytes(r io.Reader, n uint64) ([]byte, error) {
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, wrapRead(err)
	}
	return buf, nil
}

// WriteString writes a u32 length prefix followed by the raw UTF-8
// bytes of s (not NUL-terminated).
func WriteString(w io.Writer, s string) error {
	if err := WriteU32(w, uint32(len(s))); err != nil {
		return err
	}
	return WriteBytes(w, []byte(s))
}

// ReadString is the inverse of WriteString.
func ReadString(r io.Reader) (string, error) {
	n, err := ReadU32(r)
	if err != nil {
		return "", err
	}
	b, err := ReadBytes(r, uint64(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
