package service

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/haierkeys/media-share-backup-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestFSMediaSourceListsOnlyMediaFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "camera", "a.jpg"), "aaa")
	writeFile(t, filepath.Join(root, "camera", "b.mp4"), "bbbb")
	writeFile(t, filepath.Join(root, "camera", "notes.txt"), "skip me")
	writeFile(t, filepath.Join(root, "camera", ".hidden.db"), "skip me too")

	source := NewFSMediaSource(root)
	items, err := source.List(context.Background(), domain.Source{
		Type:    domain.SourceTypeAlbum,
		AlbumID: "camera",
	})
	require.NoError(t, err)
	require.Len(t, items, 2)

	names := []string{items[0].DisplayName, items[1].DisplayName}
	assert.ElementsMatch(t, []string{"a.jpg", "b.mp4"}, names)
	for _, item := range items {
		assert.NotEmpty(t, item.ID)
		assert.NotZero(t, item.SizeBytes)
	}
}

func TestFSMediaSourceOpensListedItems(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "album", "nested", "photo.jpg"), "content")

	source := NewFSMediaSource(root)
	src := domain.Source{Type: domain.SourceTypeAlbum, AlbumID: "album"}

	items, err := source.List(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, items, 1)

	rc, err := source.Open(context.Background(), src, items[0])
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	// 路径与ID不符的条目拒绝打开
	bogus := items[0]
	bogus.RelPath = "nested/other.jpg"
	_, err = source.Open(context.Background(), src, bogus)
	assert.Error(t, err)
}

func TestFSMediaSourceStableIDs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "album", "photo.jpg"), "content")

	source := NewFSMediaSource(root)
	src := domain.Source{Type: domain.SourceTypeAlbum, AlbumID: "album"}

	first, err := source.List(context.Background(), src)
	require.NoError(t, err)
	second, err := source.List(context.Background(), src)
	require.NoError(t, err)

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestFSMediaSourceOpen(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "sub", "clip.mov"), "movie-bytes")

	source := NewFSMediaSource("")
	src := domain.Source{Type: domain.SourceTypeFolder, Path: root}

	items, err := source.List(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "sub", items[0].Album)

	rc, err := source.Open(context.Background(), src, items[0])
	require.NoError(t, err)
	defer rc.Close()

	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "movie-bytes", string(content))
}

func TestFSMediaSourceFolderRequiresPath(t *testing.T) {
	source := NewFSMediaSource("")
	_, err := source.List(context.Background(), domain.Source{Type: domain.SourceTypeFolder})
	assert.Error(t, err)
}
