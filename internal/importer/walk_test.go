package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// touch creates a file (and its parents) under root.
func touch(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestDiscoverFoldersErrors(t *testing.T) {
	root := t.TempDir()

	_, err := DiscoverFolders(filepath.Join(root, "missing"))
	assert.ErrorIs(t, err, ErrRootMissing)

	_, err = DiscoverFolders("")
	assert.ErrorIs(t, err, ErrRootMissing)

	file := touch(t, root, "plain.txt", "x")
	_, err = DiscoverFolders(file)
	assert.ErrorIs(t, err, ErrRootNotDir)

	empty := filepath.Join(root, "empty")
	require.NoError(t, os.Mkdir(empty, 0o755))
	touch(t, empty, ".DS_Store", "x")
	_, err = DiscoverFolders(empty)
	assert.ErrorIs(t, err, ErrNoFolders)
}

func TestDiscoverFoldersSubdirectories(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "Downtown - Tower A/a.jpg", "x")
	touch(t, root, "Beachfront - Seapoint/b.jpg", "x")
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "__MACOSX"), 0o755))
	touch(t, root, "readme.txt", "loose files next to folders are not a property")

	got, err := DiscoverFolders(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "Beachfront - Seapoint"),
		filepath.Join(root, "Downtown - Tower A"),
	}, got)
}

func TestDiscoverFoldersSingleFolder(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Downtown - Beach Maison")
	touch(t, root, "photo1.jpg", "x")

	got, err := DiscoverFolders(root)
	require.NoError(t, err)
	assert.Equal(t, []string{root}, got)
}

func TestEntries(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.jpg", "bb")
	touch(t, dir, "a.pdf", "a")
	touch(t, dir, "plans/floor.png", "ffff")
	touch(t, dir, ".hidden/secret.jpg", "x")
	touch(t, dir, ".DS_Store", "x")
	touch(t, dir, "Thumbs.db", "x")

	var names []string
	for e, err := range Entries(dir) {
		require.NoError(t, err)
		names = append(names, e.Name)
		if e.Name == "floor.png" {
			assert.Equal(t, int64(4), e.Size)
			assert.Equal(t, filepath.Join(dir, "plans", "floor.png"), e.Path)
		}
	}
	assert.Equal(t, []string{"a.pdf", "b.jpg", "floor.png"}, names)

	// restartable
	count := 0
	for range Entries(dir) {
		count++
	}
	assert.Equal(t, 3, count)
}

func TestEntriesEarlyStop(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"1.jpg", "2.jpg", "3.jpg"} {
		touch(t, dir, n, "x")
	}
	var seen []string
	for e, err := range Entries(dir) {
		require.NoError(t, err)
		seen = append(seen, e.Name)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"1.jpg", "2.jpg"}, seen)
}

func TestEntriesMissingDir(t *testing.T) {
	var gotErr error
	for _, err := range Entries(filepath.Join(t.TempDir(), "nope")) {
		gotErr = err
	}
	assert.Error(t, gotErr)
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "photo.JPG", "x")
	touch(t, dir, "tour.mp4", "x")
	touch(t, dir, "brochure.pdf", "x")
	touch(t, dir, "model.xyz", "x")

	b, err := Collect(dir)
	require.NoError(t, err)
	assert.Len(t, b.Images, 1)
	assert.Len(t, b.Videos, 1)
	assert.Len(t, b.Documents, 1)
	require.Len(t, b.Ignored, 1)
	assert.Equal(t, "model.xyz", b.Ignored[0].Name)
	assert.False(t, b.Empty())

	only := t.TempDir()
	touch(t, only, "model.xyz", "x")
	b, err = Collect(only)
	require.NoError(t, err)
	assert.True(t, b.Empty())
}
