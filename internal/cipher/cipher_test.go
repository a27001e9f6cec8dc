package cipher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXORInvolution(t *testing.T) {
	in := []byte("the quick brown fox jumps over the lazy dog")
	salt := []byte("0123456789abcdef")
	enc := XORCrypt(in, "correct horse", salt)
	dec := XORCrypt(enc, "correct horse", salt)
	assert.Equal(t, in, dec)
	assert.NotEqual(t, in, enc)
}

func TestRC4Involution(t *testing.T) {
	in := []byte("the quick brown fox jumps over the lazy dog")
	salt := []byte("0123456789abcdef")
	enc := RC4Crypt(in, "pw", salt)
	dec := RC4Crypt(enc, "pw", salt)
	assert.Equal(t, in, dec)
	assert.NotEqual(t, in, enc)
}

func TestRC4EmptyPasswordAndSalt(t *testing.T) {
	in := []byte("data")
	enc := RC4Crypt(in, "", nil)
	dec := RC4Crypt(enc, "", nil)
	assert.Equal(t, in, dec)
}

func TestDifferentPasswordsDiverge(t *testing.T) {
	in := []byte("same plaintext, different keys")
	salt := []byte("saltsaltsaltsalt")
	a := XORCrypt(in, "pw1", salt)
	b := XORCrypt(in, "pw2", salt)
	assert.NotEqual(t, a, b)
}
