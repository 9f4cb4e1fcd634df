package api_router

import (
	"github.com/haierkeys/media-share-backup-service/internal/app"
	"github.com/haierkeys/media-share-backup-service/internal/dto"
	pkgapp "github.com/haierkeys/media-share-backup-service/pkg/app"
	"github.com/haierkeys/media-share-backup-service/pkg/code"
	apperrors "github.com/haierkeys/media-share-backup-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ServerHandler SMB 服务器 API 路由处理器
// 凭证只写不读，响应中不会回传密码
type ServerHandler struct {
	*Handler
}

// NewServerHandler 创建 ServerHandler 实例
func NewServerHandler(a *app.App) *ServerHandler {
	return &ServerHandler{
		Handler: NewHandler(a),
	}
}

// CreateOrUpdate 创建或更新服务器
// @Summary 创建或更新服务器
// @Description 保存 SMB 服务器配置，凭证加密写入本地凭证库；更新时密码留空表示沿用已保存凭证
// @Tags 服务器
// @Accept json
// @Produce json
// @Param params body dto.ServerRequest true "服务器参数"
// @Success 200 {object} pkgapp.Res{data=dto.ServerDTO} "成功"
// @Router /api/server [post]
func (h *ServerHandler) CreateOrUpdate(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ServerRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ServerHandler.CreateOrUpdate.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	server, err := h.App.ServerService.Save(ctx, params)
	if err != nil {
		h.logError(ctx, "ServerHandler.CreateOrUpdate", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	if params.ID > 0 {
		response.ToResponse(code.SuccessUpdate.WithData(server))
	} else {
		response.ToResponse(code.SuccessCreate.WithData(server))
	}
}

// Get 获取服务器详情
// @Summary 获取服务器详情
// @Description 根据服务器 ID 获取配置与最近一次连接测试的诊断结果
// @Tags 服务器
// @Produce json
// @Param id query int64 true "服务器 ID"
// @Success 200 {object} pkgapp.Res{data=dto.ServerDTO} "成功"
// @Router /api/server [get]
func (h *ServerHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ServerGetRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ServerHandler.Get.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	server, err := h.App.ServerService.Get(ctx, params.ID)
	if err != nil {
		h.logError(ctx, "ServerHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(server))
}

// List 获取服务器列表
// @Summary 获取服务器列表
// @Description 获取全部已保存的 SMB 服务器
// @Tags 服务器
// @Produce json
// @Success 200 {object} pkgapp.Res{data=[]dto.ServerDTO} "成功"
// @Router /api/servers [get]
func (h *ServerHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	ctx := c.Request.Context()

	servers, err := h.App.ServerService.List(ctx)
	if err != nil {
		h.logError(ctx, "ServerHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(servers))
}

// Delete 删除服务器
// @Summary 删除服务器
// @Description 删除指定服务器并销毁其在凭证库中的凭证
// @Tags 服务器
// @Produce json
// @Param params query dto.ServerGetRequest true "删除参数"
// @Success 200 {object} pkgapp.Res "成功"
// @Router /api/server [delete]
func (h *ServerHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ServerGetRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ServerHandler.Delete.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	if err := h.App.ServerService.Delete(ctx, params.ID); err != nil {
		h.logError(ctx, "ServerHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessDelete)
}

// Test 测试服务器连接
// @Summary 测试服务器连接
// @Description 对指定服务器执行一次 SMB 连接测试，返回耗时、可见共享名或失败分类与恢复提示
// @Tags 服务器
// @Produce json
// @Param id query int64 true "服务器 ID"
// @Success 200 {object} pkgapp.Res{data=dto.ServerTestDTO} "成功"
// @Router /api/server/test [post]
func (h *ServerHandler) Test(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ServerGetRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ServerHandler.Test.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	result, err := h.App.ServerService.Test(ctx, params.ID)
	if err != nil {
		h.logError(ctx, "ServerHandler.Test", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(result))
}
