package probe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyRegularAndDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	ft, err := Classify(file)
	require.NoError(t, err)
	assert.Equal(t, Regular, ft)

	ft, err = Classify(dir)
	require.NoError(t, err)
	assert.Equal(t, Directory, ft)
}

func TestClassifySymlinkNotFollowed(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.txt")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0644))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, link))

	ft, err := Classify(link)
	require.NoError(t, err)
	assert.Equal(t, Symlink, ft)
}

func TestClassifyMissingPath(t *testing.T) {
	_, err := Classify(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestSupportedSubset(t *testing.T) {
	assert.True(t, Supported(Regular))
	assert.True(t, Supported(Directory))
	assert.True(t, Supported(Symlink))
	assert.True(t, Supported(Fifo))
	assert.False(t, Supported(BlockDevice))
	assert.False(t, Supported(CharacterDevice))
	assert.False(t, Supported(Socket))
}

func TestParseFileType(t *testing.T) {
	ft, err := ParseFileType("Directory")
	require.NoError(t, err)
	assert.Equal(t, Directory, ft)

	_, err = ParseFileType("nonsense")
	assert.Error(t, err)
}
