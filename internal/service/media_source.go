package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/haierkeys/media-share-backup-service/internal/domain"

	"github.com/pkg/errors"
)

// mediaExtensions 参与备份的媒体文件后缀
var mediaExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
	".heic": {}, ".heif": {}, ".bmp": {}, ".tiff": {}, ".dng": {},
	".mp4": {}, ".mov": {}, ".avi": {}, ".mkv": {}, ".m4v": {}, ".3gp": {},
}

// fsMediaSource 文件系统媒体来源
// album 来源映射为媒体库根目录下的相册子目录，folder 来源直接使用给定目录
type fsMediaSource struct {
	libraryRoot string
}

// NewFSMediaSource 创建文件系统媒体来源
func NewFSMediaSource(libraryRoot string) domain.MediaSource {
	return &fsMediaSource{libraryRoot: libraryRoot}
}

// Supports 是否支持该来源类型
func (s *fsMediaSource) Supports(t domain.SourceType) bool {
	return t == domain.SourceTypeAlbum || t == domain.SourceTypeFolder
}

// rootDir 解析来源对应的根目录
func (s *fsMediaSource) rootDir(source domain.Source) (string, error) {
	switch source.Type {
	case domain.SourceTypeFolder:
		if source.Path == "" {
			return "", errors.New("folder source requires a path")
		}
		return source.Path, nil
	case domain.SourceTypeAlbum:
		if source.AlbumID == "" {
			return "", errors.New("album source requires an album id")
		}
		return filepath.Join(s.libraryRoot, filepath.Clean("/"+source.AlbumID)), nil
	}
	return "", errors.Errorf("unsupported source type %q", source.Type)
}

// List 枚举来源下的全部媒体项
// 媒体ID由相对路径哈希得出，同一文件跨运行保持稳定
func (s *fsMediaSource) List(ctx context.Context, source domain.Source) ([]domain.MediaItem, error) {
	root, err := s.rootDir(source)
	if err != nil {
		return nil, err
	}

	var items []domain.MediaItem
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if info.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(info.Name()))
		if _, ok := mediaExtensions[ext]; !ok {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		album := source.AlbumID
		if dir := filepath.Dir(rel); dir != "." {
			album = dir
		}

		items = append(items, domain.MediaItem{
			ID:          mediaID(rel),
			DisplayName: info.Name(),
			MimeType:    mime.TypeByExtension(ext),
			SizeBytes:   info.Size(),
			CapturedAt:  info.ModTime(),
			Album:       album,
			RelPath:     filepath.ToSlash(rel),
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "walk media source failed")
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// Open 打开媒体项的内容流
// 相对路径必须与ID对应，防止拼接出枚举结果之外的文件
func (s *fsMediaSource) Open(ctx context.Context, source domain.Source, item domain.MediaItem) (io.ReadCloser, error) {
	root, err := s.rootDir(source)
	if err != nil {
		return nil, err
	}
	if item.RelPath == "" || mediaID(item.RelPath) != item.ID {
		return nil, errors.Errorf("media item %s has no usable source path", item.ID)
	}

	f, err := os.Open(filepath.Join(root, filepath.FromSlash(item.RelPath)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Errorf("media item %s no longer exists", item.ID)
		}
		return nil, err
	}
	return f, nil
}

// mediaID 相对路径的稳定标识
func mediaID(rel string) string {
	sum := sha1.Sum([]byte(filepath.ToSlash(rel)))
	return hex.EncodeToString(sum[:])
}
