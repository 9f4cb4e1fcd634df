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

// PlanHandler 备份计划 API 路由处理器
// 使用 App Container 注入依赖，支持统一错误处理
type PlanHandler struct {
	*Handler
}

// NewPlanHandler 创建 PlanHandler 实例
func NewPlanHandler(a *app.App) *PlanHandler {
	return &PlanHandler{
		Handler: NewHandler(a),
	}
}

// CreateOrUpdate 创建或更新备份计划
// @Summary 创建或更新备份计划
// @Description 根据请求参数中的 ID 判断是创建新计划还是更新已有计划，保存后重算下次运行时间
// @Tags 备份计划
// @Accept json
// @Produce json
// @Param params body dto.PlanRequest true "计划参数"
// @Success 200 {object} pkgapp.Res{data=dto.PlanDTO} "成功"
// @Router /api/plan [post]
func (h *PlanHandler) CreateOrUpdate(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.PlanRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("PlanHandler.CreateOrUpdate.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	plan, err := h.App.PlanService.Save(ctx, params)
	if err != nil {
		h.logError(ctx, "PlanHandler.CreateOrUpdate", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	if params.ID > 0 {
		response.ToResponse(code.SuccessUpdate.WithData(plan))
	} else {
		response.ToResponse(code.SuccessCreate.WithData(plan))
	}
}

// Get 获取备份计划详情
// @Summary 获取备份计划详情
// @Description 根据计划 ID 获取单个备份计划的配置与统计信息
// @Tags 备份计划
// @Produce json
// @Param id query int64 true "计划 ID"
// @Success 200 {object} pkgapp.Res{data=dto.PlanDTO} "成功"
// @Router /api/plan [get]
func (h *PlanHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.PlanGetRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("PlanHandler.Get.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	plan, err := h.App.PlanService.Get(ctx, params.ID)
	if err != nil {
		h.logError(ctx, "PlanHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(plan))
}

// List 获取备份计划列表
// @Summary 获取备份计划列表
// @Description 获取全部备份计划及其下次运行时间与累计备份数量
// @Tags 备份计划
// @Produce json
// @Success 200 {object} pkgapp.Res{data=[]dto.PlanDTO} "成功"
// @Router /api/plans [get]
func (h *PlanHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	ctx := c.Request.Context()

	plans, err := h.App.PlanService.List(ctx)
	if err != nil {
		h.logError(ctx, "PlanHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(plans))
}

// Delete 删除备份计划
// @Summary 删除备份计划
// @Description 删除指定的备份计划，已有的运行历史与备份记录保留
// @Tags 备份计划
// @Produce json
// @Param params query dto.PlanGetRequest true "删除参数"
// @Success 200 {object} pkgapp.Res "成功"
// @Router /api/plan [delete]
func (h *PlanHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.PlanGetRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("PlanHandler.Delete.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	if err := h.App.PlanService.Delete(ctx, params.ID); err != nil {
		h.logError(ctx, "PlanHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.SuccessDelete)
}
