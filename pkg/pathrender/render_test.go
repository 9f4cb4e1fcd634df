package pathrender

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var testItem = Item{
	ID:          "media-001",
	DisplayName: "IMG_2031.JPG",
	MimeType:    "image/jpeg",
	CapturedAt:  time.Date(2024, 6, 5, 14, 30, 9, 0, time.UTC),
	Album:       "Holiday",
}

func TestRenderDefaults(t *testing.T) {
	r := &Renderer{DeviceLabel: "pixel8"}

	got := r.Render("backup/media", "", "", testItem, "Camera")
	want := "backup/media/2024/06/05/" + "1717597809_media-001.jpg"
	assert.Equal(t, want, got)
}

func TestRenderTokens(t *testing.T) {
	r := &Renderer{DeviceLabel: "pixel8"}

	got := r.Render("/base/", "{device}/{album}/{year}-{month}", "{mediaId}_{time}.{ext}", testItem, "Camera")
	assert.Equal(t, "base/pixel8/Holiday/2024-06/media-001_143009.jpg", got)
}

func TestRenderAlbumFallback(t *testing.T) {
	r := &Renderer{}
	item := testItem
	item.Album = ""

	got := r.Render("base", "{album}", "{mediaId}.{ext}", item, "Camera Roll")
	assert.Equal(t, "base/Camera Roll/media-001.jpg", got)
}

func TestRenderExtFallbacks(t *testing.T) {
	r := &Renderer{}

	// 展示名没有扩展名时取 MIME 子类型
	item := testItem
	item.DisplayName = "clip"
	item.MimeType = "video/mp4"
	got := r.Render("b", "{year}", "{mediaId}.{ext}", item, "")
	assert.True(t, strings.HasSuffix(got, ".mp4"), got)

	// 两者都没有时使用 bin
	item.MimeType = ""
	got = r.Render("b", "{year}", "{mediaId}.{ext}", item, "")
	assert.True(t, strings.HasSuffix(got, ".bin"), got)
}

func TestRenderSanitizesIllegalChars(t *testing.T) {
	r := &Renderer{}
	item := testItem
	item.Album = `ba<d>:al"bu\m|na?me*`

	got := r.Render("base", "{album}", "{mediaId}.{ext}", item, "")
	for _, ch := range `<>:"\|?*` {
		assert.NotContains(t, got, string(ch))
	}
	// 变量值里的反斜杠被当作分隔符拆段，两段各自清洗
	assert.Equal(t, "base/ba_d__al_bu/m_na_me_/media-001.jpg", got)
}

func TestRenderBlankSegmentBecomesUnknown(t *testing.T) {
	r := &Renderer{}
	item := testItem
	item.Album = "   "

	got := r.Render("base", "{album}", "{mediaId}.{ext}", item, "")
	assert.Equal(t, "base/unknown/media-001.jpg", got)
}

func TestRenderBlocksTraversal(t *testing.T) {
	r := &Renderer{}
	item := testItem
	item.Album = "../../etc"

	got := r.Render("base", "{album}/{year}", "{mediaId}.{ext}", item, "")
	assert.NotContains(t, got, "..")

	// 反斜杠分隔的目录模板同样被拆段清洗
	got = r.Render("base", `{year}\{month}`, "{mediaId}.{ext}", item, "")
	assert.Equal(t, "base/2024/06/media-001.jpg", got)
}

func TestRenderZeroCaptureTimeUsesEpoch(t *testing.T) {
	r := &Renderer{}
	item := testItem
	item.CapturedAt = time.Time{}

	got := r.Render("base", "{year}", "{timestamp}_{mediaId}.{ext}", item, "")
	assert.Equal(t, "base/1970/0_media-001.jpg", got)
}
