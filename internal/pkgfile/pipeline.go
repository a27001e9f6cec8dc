package pkgfile

import (
	"github.com/deepcfish/sexpack/internal/cipher"
	"github.com/deepcfish/sexpack/internal/rle"
)

// encode applies compression then encryption, in that order, to one
// entry's raw bytes.
func encode(raw []byte, opts Options, salt []byte) []byte {
	out := raw
	if opts.Compress == CompressRLE {
		out = rle.Compress(out)
	}
	switch opts.Encrypt {
	case EncryptXOR:
		out = cipher.XORCrypt(out, opts.Password, salt)
	case EncryptRC4:
		out = cipher.RC4Crypt(out, opts.Password, salt)
	}
	return out
}

// decode reverses encode: decrypt, then decompress.
func decode(stored []byte, opts Options, salt []byte) ([]byte, error) {
	out := stored
	switch opts.Encrypt {
	case EncryptXOR:
		out = cipher.XORCrypt(out, opts.Password, salt)
	case EncryptRC4:
		out = cipher.RC4Crypt(out, opts.Password, salt)
	}
	if opts.Compress == CompressRLE {
		return rle.Decompress(out)
	}
	return out, nil
}
