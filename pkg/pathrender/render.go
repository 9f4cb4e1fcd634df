// Package pathrender 将目录/文件名模板渲染为远端共享上的目标路径
// 渲染结果的每一段都经过清洗，模板变量无法注入路径分隔符或跳出基路径
package pathrender

import (
	"fmt"
	"mime"
	"strings"
	"time"
)

// 模板为空时使用的默认值
const (
	DefaultDirTemplate  = "{year}/{month}/{day}"
	DefaultFileTemplate = "{timestamp}_{mediaId}.{ext}"
)

// Item 参与渲染的媒体条目元数据
type Item struct {
	// ID 媒体条目标识
	ID string
	// DisplayName 展示名，扩展名优先从这里取
	DisplayName string
	// MimeType MIME 类型，展示名没有扩展名时从子类型推导
	MimeType string
	// CapturedAt 拍摄/创建时间，零值按 epoch 处理
	CapturedAt time.Time
	// Album 所属相册名
	Album string
}

// Renderer 路径渲染器
type Renderer struct {
	// DeviceLabel {device} 变量的取值，通常为机器标识
	DeviceLabel string
}

// illegalChars 共享路径中不允许出现的字符，统一替换为下划线
const illegalChars = `<>:"\|?*`

// sanitizeSegment 清洗单个路径段
// 非法字符与控制字符替换为 _，清洗后为空的段记为 unknown
func sanitizeSegment(seg string) string {
	var b strings.Builder
	for _, r := range seg {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(illegalChars, r) {
			b.WriteRune('_')
			continue
		}
		b.WriteRune(r)
	}
	out := strings.TrimSpace(b.String())
	out = strings.Trim(out, ".")
	if out == "" {
		return "unknown"
	}
	return out
}

// ext 推导文件扩展名：展示名后缀 → MIME 子类型 → bin
func ext(item Item) string {
	name := item.DisplayName
	if idx := strings.LastIndex(name, "."); idx >= 0 && idx < len(name)-1 {
		return strings.ToLower(name[idx+1:])
	}
	if item.MimeType != "" {
		if _, _, err := mime.ParseMediaType(item.MimeType); err == nil {
			if idx := strings.Index(item.MimeType, "/"); idx >= 0 && idx < len(item.MimeType)-1 {
				return strings.ToLower(item.MimeType[idx+1:])
			}
		}
	}
	return "bin"
}

// expand 替换模板中的全部变量，变量大小写敏感
func (r *Renderer) expand(template string, item Item, fallbackAlbum string) string {
	captured := item.CapturedAt
	if captured.IsZero() {
		captured = time.Unix(0, 0)
	}

	album := item.Album
	if album == "" {
		album = fallbackAlbum
	}

	device := r.DeviceLabel
	if device == "" {
		device = "device"
	}

	replacer := strings.NewReplacer(
		"{year}", fmt.Sprintf("%04d", captured.Year()),
		"{month}", fmt.Sprintf("%02d", int(captured.Month())),
		"{day}", fmt.Sprintf("%02d", captured.Day()),
		"{time}", captured.Format("150405"),
		"{timestamp}", fmt.Sprintf("%d", captured.Unix()),
		"{album}", album,
		"{mediaId}", item.ID,
		"{ext}", ext(item),
		"{device}", device,
	)
	return replacer.Replace(template)
}

// Render 渲染最终远端路径
// basePath、目录模板、文件名模板依次拼接，所有段以 / 连接
func (r *Renderer) Render(basePath, dirTemplate, fileTemplate string, item Item, fallbackAlbum string) string {
	if strings.TrimSpace(dirTemplate) == "" {
		dirTemplate = DefaultDirTemplate
	}
	if strings.TrimSpace(fileTemplate) == "" {
		fileTemplate = DefaultFileTemplate
	}

	dir := r.expand(dirTemplate, item, fallbackAlbum)
	file := r.expand(fileTemplate, item, fallbackAlbum)

	// 目录模板按两种分隔符切段后逐段清洗再拼回，变量值不可能带出分隔符
	var dirSegs []string
	for _, seg := range strings.FieldsFunc(dir, func(r rune) bool { return r == '/' || r == '\\' }) {
		dirSegs = append(dirSegs, sanitizeSegment(seg))
	}

	// 文件名是单独一段，正斜杠也按非法字符处理
	file = strings.ReplaceAll(file, "/", "_")

	parts := []string{strings.Trim(basePath, "/\\")}
	parts = append(parts, dirSegs...)
	parts = append(parts, sanitizeSegment(file))

	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "/")
}
