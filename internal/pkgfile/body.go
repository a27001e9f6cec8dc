package pkgfile

import (
	"io"

	"github.com/deepcfish/sexpack/internal/binio"
	"github.com/deepcfish/sexpack/internal/errs"
)

// writeHeaderPerFile lays out the body as: u32 count, then per entry
// a length-prefixed rel_path, u64 original_size, u64 stored_size, and
// the payload bytes — readable in one sequential pass.
func writeHeaderPerFile(w io.Writer, entries []Entry) error {
	if err := binio.WriteU32(w, uint32(len(entries))); err != nil {
		return err
	}
	for _, e := range entries {
		if err := binio.WriteString(w, e.RelPath); err != nil {
			return err
		}
		if err := binio.WriteU64(w, e.OriginalSize); err != nil {
			return err
		}
		if err := binio.WriteU64(w, e.StoredSize); err != nil {
			return err
		}
		if err := binio.WriteBytes(w, e.Payload); err != nil {
			return err
		}
	}
	return nil
}

func readHeaderPerFile(r io.Reader) ([]Entry, error) {
	count, err := binio.ReadU32(r)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, count)
	for i := uint32(0); i < count; i++ {
		relPath, err := binio.ReadString(r)
		if err != nil {
			return nil, err
		}
		originalSize, err := binio.ReadU64(r)
		if err != nil {
			return nil, err
		}
		storedSize, err := binio.ReadU64(r)
		if err != nil {
			return nil, err
		}
		payload, err := binio.ReadBytes(r, storedSize)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			RelPath:      relPath,
			OriginalSize: originalSize,
			StoredSize:   storedSize,
			Payload:      payload,
		})
	}
	return entries, nil
}

type tocRecord struct {
	relPath      string
	originalSize uint64
	offset       uint64
	storedSize   uint64
}

// writeTocAtEnd writes every entry's payload back-to-back starting at
// baseOffset (the caller's header length), then a trailing TOC block,
// then the 8-byte absolute offset of that block.
func writeTocAtEnd(w io.Writer, entries []Entry, baseOffset uint64) error {
	records := make([]tocRecord, len(entries))
	offset := baseOffset
	for i, e := range entries {
		records[i] = tocRecord{
			relPath:      e.RelPath,
			originalSize: e.OriginalSize,
			offset:       offset,
			storedSize:   e.StoredSize,
		}
		if err := binio.WriteBytes(w, e.Payload); err != nil {
			return err
		}
		offset += e.StoredSize
	}

	tocOffset := offset
	if err := binio.WriteBytes(w, []byte(tocMagic)); err != nil {
		return err
	}
	if err := binio.WriteU32(w, uint32(len(records))); err != nil {
		return err
	}
	for _, rec := range records {
		if err := binio.WriteString(w, rec.relPath); err != nil {
			return err
		}
		if err := binio.WriteU64(w, rec.originalSize); err != nil {
			return err
		}
		if err := binio.WriteU64(w, rec.offset); err != nil {
			return err
		}
		if err := binio.WriteU64(w, rec.storedSize); err != nil {
			return err
		}
	}
	return binio.WriteU64(w, tocOffset)
}

// readTocAtEnd expects r to support seeking to the trailing 8-byte
// toc_offset, then to the TOC block, then to each entry's payload.
func readTocAtEnd(r io.ReadSeeker) ([]Entry, error) {
	if _, err := r.Seek(-8, io.SeekEnd); err != nil {
		return nil, errs.New(errs.KindUnexpectedEOF, err)
	}
	tocOffset, err := binio.ReadU64(r)
	if err != nil {
		return nil, err
	}

	if _, err := r.Seek(int64(tocOffset), io.SeekStart); err != nil {
		return nil, errs.Wrap(errs.KindGenericIO, "", err)
	}
	magicBytes, err := binio.ReadBytes(r, uint64(len(tocMagic)))
	if err != nil {
		return nil, err
	}
	if string(magicBytes) != tocMagic {
		return nil, errs.New(errs.KindMagicMismatch, nil)
	}
	count, err := binio.ReadU32(r)
	if err != nil {
		return nil, err
	}

	records := make([]tocRecord, count)
	for i := uint32(0); i < count; i++ {
		relPath, err := binio.ReadString(r)
		if err != nil {
			return nil, err
		}
		originalSize, err := binio.ReadU64(r)
		if err != nil {
			return nil, err
		}
		off, err := binio.ReadU64(r)
		if err != nil {
			return nil, err
		}
		storedSize, err := binio.ReadU64(r)
		if err != nil {
			return nil, err
		}
		records[i] = tocRecord{relPath: relPath, originalSize: originalSize, offset: off, storedSize: storedSize}
	}

	entries := make([]Entry, count)
	for i, rec := range records {
		if _, err := r.Seek(int64(rec.offset), io.SeekStart); err != nil {
			return nil, errs.Wrap(errs.KindGenericIO, rec.relPath, err)
		}
		payload, err := binio.ReadBytes(r, rec.storedSize)
		if err != nil {
			return nil, err
		}
		entries[i] = Entry{
			RelPath:      rec.relPath,
			OriginalSize: rec.originalSize,
			StoredSize:   rec.storedSize,
			Payload:      payload,
		}
	}
	return entries, nil
}
