package api_router

import (
	"github.com/haierkeys/media-share-backup-service/internal/app"
	pkgapp "github.com/haierkeys/media-share-backup-service/pkg/app"
	"github.com/haierkeys/media-share-backup-service/pkg/code"
	apperrors "github.com/haierkeys/media-share-backup-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// DiscoveryHandler 子网发现 API 路由处理器
type DiscoveryHandler struct {
	*Handler
}

// NewDiscoveryHandler 创建 DiscoveryHandler 实例
func NewDiscoveryHandler(a *app.App) *DiscoveryHandler {
	return &DiscoveryHandler{
		Handler: NewHandler(a),
	}
}

// Discover 扫描本地子网
// @Summary 扫描本地子网
// @Description 探测本机所在 /24 子网内开放 SMB 端口的主机，返回按标签排序的候选服务器列表
// @Tags 发现
// @Produce json
// @Success 200 {object} pkgapp.Res{data=[]dto.DiscoveredServerDTO} "成功"
// @Router /api/discovery [get]
func (h *DiscoveryHandler) Discover(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	ctx := c.Request.Context()

	servers, err := h.App.DiscoveryService.Discover(ctx)
	if err != nil {
		h.logError(ctx, "DiscoveryHandler.Discover", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(servers))
}
