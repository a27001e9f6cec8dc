package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepcfish/sexpack/internal/metadata"
	"github.com/deepcfish/sexpack/internal/probe"
)

func newTestRepo(t *testing.T) *Repository {
	r := New(t.TempDir())
	require.NoError(t, r.Initialize())
	return r
}

func TestStoreRestoreRegularFile(t *testing.T) {
	r := newTestRepo(t)
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "b.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0644))

	m, err := metadata.Load(src)
	require.NoError(t, err)
	require.NoError(t, r.Store(src, "a/b.txt", m))

	targetDir := t.TempDir()
	target := filepath.Join(targetDir, "b.txt")
	require.NoError(t, r.Restore("a/b.txt", target))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestStoreRestoreSymlinkHasNoBody(t *testing.T) {
	r := newTestRepo(t)
	srcDir := t.TempDir()
	realFile := filepath.Join(srcDir, "real.txt")
	require.NoError(t, os.WriteFile(realFile, []byte("x"), 0644))
	link := filepath.Join(srcDir, "link")
	require.NoError(t, os.Symlink(realFile, link))

	m, err := metadata.Load(link)
	require.NoError(t, err)
	require.NoError(t, r.Store(link, "link", m))

	_, err = os.Stat(filepath.Join(r.DataDir, "link"))
	assert.True(t, os.IsNotExist(err), "symlink must not get a body in data/ by default")

	targetDir := t.TempDir()
	target := filepath.Join(targetDir, "link")
	require.NoError(t, r.Restore("link", target))

	got, err := os.Readlink(target)
	require.NoError(t, err)
	assert.Equal(t, realFile, got)
}

func TestStoreRestoreDirectoryIsMetadataOnly(t *testing.T) {
	r := newTestRepo(t)
	srcDir := t.TempDir()
	sub := filepath.Join(srcDir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))

	m, err := metadata.Load(sub)
	require.NoError(t, err)
	require.NoError(t, r.Store(sub, "sub", m))

	got, ok := r.GetMetadata("sub")
	require.True(t, ok)
	assert.Equal(t, probe.Directory, got.FileType)
}

func TestSaveLoadIndexRoundTrip(t *testing.T) {
	r := newTestRepo(t)
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "b.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0644))

	m, err := metadata.Load(src)
	require.NoError(t, err)
	require.NoError(t, r.Store(src, "a/b.txt", m))
	require.NoError(t, r.SaveIndex())

	r2 := New(r.Root)
	require.NoError(t, r2.LoadIndex())

	got, ok := r2.GetMetadata("a/b.txt")
	require.True(t, ok)
	assert.Equal(t, m.Mode, got.Mode)
	assert.Equal(t, probe.Regular, got.FileType)
}

func TestLoadIndexRecoversDirectoryFromTrailingSlash(t *testing.T) {
	r := newTestRepo(t)
	srcDir := t.TempDir()
	sub := filepath.Join(srcDir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))

	m, err := metadata.Load(sub)
	require.NoError(t, err)
	require.NoError(t, r.Store(sub, "sub", m))
	require.NoError(t, r.SaveIndex())

	r2 := New(r.Root)
	require.NoError(t, r2.LoadIndex())
	got, ok := r2.GetMetadata("sub")
	require.True(t, ok)
	assert.Equal(t, probe.Directory, got.FileType)
}

func TestLoadIndexSkipsMalformedLinesByDefault(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, os.WriteFile(r.IndexFile, []byte("good\t420:1:0:0:0:\nbad-line-without-tab\n"), 0644))

	require.NoError(t, r.LoadIndex())
	assert.Len(t, r.ListFiles(), 1)
}

func TestLoadIndexStrictFailsOnMalformedLine(t *testing.T) {
	r := newTestRepo(t)
	r.StrictIndex = true
	require.NoError(t, os.WriteFile(r.IndexFile, []byte("bad-line-without-tab\n"), 0644))

	assert.Error(t, r.LoadIndex())
}

func TestRestoreMissingKeyIsNotIndexed(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, r.LoadIndex())
	err := r.Restore("nope", filepath.Join(t.TempDir(), "x"))
	assert.Error(t, err)
}
