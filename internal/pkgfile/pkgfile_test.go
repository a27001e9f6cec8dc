package pkgfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildRepoDir(t *testing.T) string {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data", "a"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "a", "b.txt"), []byte("hello world"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.txt"), []byte("a/b.txt\t420:1700000000:0:0:0:\n"), 0644))
	return dir
}

func readAll(t *testing.T, dir string) map[string][]byte {
	out := map[string][]byte{}
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		require.NoError(t, err)
		if info.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		require.NoError(t, relErr)
		b, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		out[filepath.ToSlash(rel)] = b
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestExportImportRoundTripMatrix(t *testing.T) {
	packs := []PackAlgorithm{HeaderPerFile, TocAtEnd}
	compresses := []Compression{CompressNone, CompressRLE}
	encrypts := []Encryption{EncryptNone, EncryptXOR, EncryptRC4}

	for _, pack := range packs {
		for _, compress := range compresses {
			for _, encrypt := range encrypts {
				opts := Options{Pack: pack, Compress: compress, Encrypt: encrypt}
				if encrypt != EncryptNone {
					opts.Password = "correct horse battery staple"
				}

				repoDir := buildRepoDir(t)
				pkgPath := filepath.Join(t.TempDir(), "out.sexp")

				require.NoError(t, Export(repoDir, pkgPath, opts))

				outDir := t.TempDir()
				require.NoError(t, Import(pkgPath, outDir, opts))

				before := readAll(t, repoDir)
				after := readAll(t, outDir)
				assert.Equal(t, before, after)
			}
		}
	}
}

func TestExportRequiresPasswordWhenEncrypting(t *testing.T) {
	repoDir := buildRepoDir(t)
	pkgPath := filepath.Join(t.TempDir(), "out.sexp")
	err := Export(repoDir, pkgPath, Options{Pack: HeaderPerFile, Encrypt: EncryptXOR})
	assert.Error(t, err)
}

func TestImportRejectsBadMagic(t *testing.T) {
	pkgPath := filepath.Join(t.TempDir(), "bad.sexp")
	require.NoError(t, os.WriteFile(pkgPath, []byte("not a real package file at all"), 0644))

	err := Import(pkgPath, t.TempDir(), Options{})
	assert.Error(t, err)
}

func TestKnownHeaderPlusRLEEncoding(t *testing.T) {
	repoDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repoDir, "index.txt"), []byte("aaaaab"), 0644))

	pkgPath := filepath.Join(t.TempDir(), "out.sexp")
	require.NoError(t, Export(repoDir, pkgPath, Options{Pack: HeaderPerFile, Compress: CompressRLE}))

	raw, err := os.ReadFile(pkgPath)
	require.NoError(t, err)

	wantHeader := []byte{0x53, 0x45, 0x58, 0x50, 0x30, 0x31, 0x01, 0x01, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00}
	assert.Equal(t, wantHeader, raw[:14])

	payload := []byte{0x05, 0x61, 0x01, 0x62}
	assert.Contains(t, string(raw), string(payload))
}
