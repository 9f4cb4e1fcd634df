package api_router

import (
	"github.com/haierkeys/media-share-backup-service/internal/app"
	"github.com/haierkeys/media-share-backup-service/internal/domain"
	"github.com/haierkeys/media-share-backup-service/internal/dto"
	pkgapp "github.com/haierkeys/media-share-backup-service/pkg/app"
	"github.com/haierkeys/media-share-backup-service/pkg/code"
	apperrors "github.com/haierkeys/media-share-backup-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RunHandler 备份运行 API 路由处理器
// 触发与取消为异步操作，立即返回当前运行状态
type RunHandler struct {
	*Handler
}

// NewRunHandler 创建 RunHandler 实例
func NewRunHandler(a *app.App) *RunHandler {
	return &RunHandler{
		Handler: NewHandler(a),
	}
}

// Execute 手动触发一次运行
// @Summary 手动触发一次运行
// @Description 为指定计划启动一次手动运行，运行在后台异步执行，接口立即返回 RUNNING 状态的运行记录
// @Tags 运行
// @Accept json
// @Produce json
// @Param params body dto.RunExecuteRequest true "触发参数"
// @Success 200 {object} pkgapp.Res{data=dto.RunDTO} "成功"
// @Router /api/run [post]
func (h *RunHandler) Execute(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.RunExecuteRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("RunHandler.Execute.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	run, err := h.App.RunService.Execute(ctx, params.PlanID, domain.RunTriggerManual)
	if err != nil {
		h.logError(ctx, "RunHandler.Execute", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessCreate.WithData(run))
}

// Cancel 取消进行中的运行
// @Summary 取消进行中的运行
// @Description 请求取消指定运行，已上传完成的媒体项保持已备份状态
// @Tags 运行
// @Accept json
// @Produce json
// @Param params body dto.RunGetRequest true "取消参数"
// @Success 200 {object} pkgapp.Res "成功"
// @Router /api/run/cancel [post]
func (h *RunHandler) Cancel(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.RunGetRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("RunHandler.Cancel.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	if err := h.App.RunService.Cancel(ctx, params.ID); err != nil {
		h.logError(ctx, "RunHandler.Cancel", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessUpdate)
}

// Get 获取运行详情
// @Summary 获取运行详情
// @Description 根据运行 ID 获取单次运行的状态与统计计数
// @Tags 运行
// @Produce json
// @Param id query int64 true "运行 ID"
// @Success 200 {object} pkgapp.Res{data=dto.RunDTO} "成功"
// @Router /api/run [get]
func (h *RunHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.RunGetRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("RunHandler.Get.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	run, err := h.App.RunService.Get(ctx, params.ID)
	if err != nil {
		h.logError(ctx, "RunHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(run))
}

// List 获取运行历史列表
// @Summary 获取运行历史列表
// @Description 按开始时间倒序分页返回运行历史，可按计划 ID 过滤
// @Tags 运行
// @Produce json
// @Param planId query int64 false "计划 ID，0 表示全部"
// @Param page query int false "页码"
// @Param pageSize query int false "分页大小"
// @Success 200 {object} pkgapp.ListRes{list=[]dto.RunDTO} "成功"
// @Router /api/runs [get]
func (h *RunHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.RunListRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("RunHandler.List.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	cfg := h.App.Config()
	page := pkgapp.GetPage(c)
	pageSize := pkgapp.GetPageSizeWithConfig(c, pkgapp.PaginationConfig{
		DefaultPageSize: cfg.App.DefaultPageSize,
		MaxPageSize:     cfg.App.MaxPageSize,
	})

	ctx := c.Request.Context()

	runs, total, err := h.App.RunService.List(ctx, params.PlanID, page, pageSize)
	if err != nil {
		h.logError(ctx, "RunHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponseList(code.Success, runs, int(total))
}

// Logs 获取运行日志
// @Summary 获取运行日志
// @Description 按写入顺序返回指定运行的全部日志条目
// @Tags 运行
// @Produce json
// @Param id query int64 true "运行 ID"
// @Success 200 {object} pkgapp.Res{data=[]dto.RunLogDTO} "成功"
// @Router /api/run/logs [get]
func (h *RunHandler) Logs(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.RunGetRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("RunHandler.Logs.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	logs, err := h.App.RunService.Logs(ctx, params.ID)
	if err != nil {
		h.logError(ctx, "RunHandler.Logs", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(logs))
}
