package metadata

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepcfish/sexpack/internal/probe"
)

func TestSerializeParseRoundTrip(t *testing.T) {
	m := Metadata{Mode: 0644, Mtime: 1700000000, UID: 1000, GID: 1000}
	line := m.Serialize()
	assert.Equal(t, "420:1700000000:1000:1000:0:", line)

	parsed, err := Parse(line)
	require.NoError(t, err)
	assert.Equal(t, m.Mode, parsed.Mode)
	assert.Equal(t, m.Mtime, parsed.Mtime)
	assert.Equal(t, m.UID, parsed.UID)
	assert.Equal(t, m.GID, parsed.GID)
	assert.False(t, parsed.IsSymlink)
	assert.Equal(t, probe.Regular, parsed.FileType)
}

func TestSerializeParseSymlinkTargetWithColons(t *testing.T) {
	m := Metadata{Mode: 0777, Mtime: 42, IsSymlink: true, SymlinkTarget: "../weird:target:path"}
	line := m.Serialize()

	parsed, err := Parse(line)
	require.NoError(t, err)
	assert.True(t, parsed.IsSymlink)
	assert.Equal(t, "../weird:target:path", parsed.SymlinkTarget)
	assert.Equal(t, probe.Symlink, parsed.FileType)
}

func TestSerializeEmptySymlinkTarget(t *testing.T) {
	m := Metadata{Mode: 0644}
	line := m.Serialize()
	parsed, err := Parse(line)
	require.NoError(t, err)
	assert.Equal(t, "", parsed.SymlinkTarget)
}

func TestParseRejectsTooFewColons(t *testing.T) {
	_, err := Parse("1:2:3")
	assert.Error(t, err)
}

func TestParseRejectsBadIsSymlink(t *testing.T) {
	_, err := Parse("1:2:3:4:9:")
	assert.Error(t, err)
}

func TestParseRejectsNonIntegerField(t *testing.T) {
	_, err := Parse("notanumber:2:3:4:0:")
	assert.Error(t, err)
}

func TestLoadAndApplyRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, probe.Regular, m.FileType)
	assert.Equal(t, uint32(0644), m.Mode)

	m.Mtime = time.Now().Add(-time.Hour).Unix()
	require.NoError(t, Apply(path, m))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.Mtime, reloaded.Mtime)
}

func TestLoadSymlinkCapturesTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.txt")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0644))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, link))

	m, err := Load(link)
	require.NoError(t, err)
	assert.True(t, m.IsSymlink)
	assert.Equal(t, probe.Symlink, m.FileType)
	assert.Equal(t, target, m.SymlinkTarget)
}

func TestApplyNeverFollowsSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.txt")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0644))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, link))

	before, err := os.Stat(target)
	require.NoError(t, err)

	m, err := Load(link)
	require.NoError(t, err)
	require.NoError(t, Apply(link, m))

	after, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, before.Mode(), after.Mode())
	assert.Equal(t, before.ModTime(), after.ModTime())
}
