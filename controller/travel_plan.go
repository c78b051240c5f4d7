package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/response"
	"github.com/Xushengqwer/social_service/service"
)

type TravelPlanController struct {
	planService service.TravelPlanService
}

func NewTravelPlanController(planService service.TravelPlanService) *TravelPlanController {
	return &TravelPlanController{planService: planService}
}

// Create 创建旅行计划
// @Summary      创建旅行计划
// @Description  结束日期不能早于开始日期，行程天数必须落在日期范围内。
// @Tags         travel-plans (旅行计划)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.TravelPlanRequest true "计划内容"
// @Success      200 {object} vo.TravelPlanResponseWrapper "创建成功"
// @Failure      400 {object} vo.BaseResponseWrapper "日期或行程天数不合法"
// @Router       /api/v1/travel-plans [post]
func (ctrl *TravelPlanController) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.TravelPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	plan, err := ctrl.planService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, plan, "旅行计划已创建")
}

// Update 整体更新旅行计划
// @Summary      更新旅行计划
// @Tags         travel-plans (旅行计划)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        plan_id path string true "计划 ID"
// @Param        request body dto.TravelPlanRequest true "计划内容"
// @Success      200 {object} vo.TravelPlanResponseWrapper "更新成功"
// @Failure      403 {object} vo.BaseResponseWrapper "不是计划作者"
// @Failure      404 {object} vo.BaseResponseWrapper "计划不存在"
// @Router       /api/v1/travel-plans/{plan_id} [put]
func (ctrl *TravelPlanController) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.TravelPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	plan, err := ctrl.planService.Update(c.Request.Context(), userID, c.Param("plan_id"), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, plan, "旅行计划已更新")
}

// Delete 删除旅行计划
// @Summary      删除旅行计划
// @Tags         travel-plans (旅行计划)
// @Produce      json
// @Security     BearerAuth
// @Param        plan_id path string true "计划 ID"
// @Success      200 {object} vo.BaseResponseWrapper "删除成功"
// @Failure      403 {object} vo.BaseResponseWrapper "不是计划作者"
// @Failure      404 {object} vo.BaseResponseWrapper "计划不存在"
// @Router       /api/v1/travel-plans/{plan_id} [delete]
func (ctrl *TravelPlanController) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := ctrl.planService.Delete(c.Request.Context(), userID, c.Param("plan_id")); err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess[any](c, nil, "旅行计划已删除")
}

// Get 旅行计划详情
// @Summary      旅行计划详情
// @Description  私有计划只有作者本人可见。
// @Tags         travel-plans (旅行计划)
// @Produce      json
// @Param        plan_id path string true "计划 ID"
// @Success      200 {object} vo.TravelPlanResponseWrapper "成功"
// @Failure      404 {object} vo.BaseResponseWrapper "计划不存在"
// @Router       /api/v1/travel-plans/{plan_id} [get]
func (ctrl *TravelPlanController) Get(c *gin.Context) {
	plan, err := ctrl.planService.Get(c.Request.Context(), viewerID(c), c.Param("plan_id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, plan, "")
}

// ListMine 我的旅行计划
// @Summary      我的旅行计划
// @Tags         travel-plans (旅行计划)
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} vo.ListTravelPlansResponseWrapper "成功"
// @Router       /api/v1/travel-plans/mine [get]
func (ctrl *TravelPlanController) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	plans, err := ctrl.planService.ListMine(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, plans, "")
}

// ListPublic 公开旅行计划
// @Summary      公开旅行计划
// @Tags         travel-plans (旅行计划)
// @Produce      json
// @Param        before query string false "上一页最后一条计划的 ID"
// @Param        limit query int false "数量" minimum(1) maximum(50)
// @Param        destination query string false "目的地"
// @Success      200 {object} vo.ListTravelPlansResponseWrapper "成功"
// @Router       /api/v1/travel-plans/public [get]
func (ctrl *TravelPlanController) ListPublic(c *gin.Context) {
	var req dto.ListPublicPlansRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := ctrl.planService.ListPublic(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, result, "")
}

// HotDestinations 热门目的地
// @Summary      热门目的地
// @Tags         travel-plans (旅行计划)
// @Produce      json
// @Param        limit query int false "数量，默认 10" minimum(1) maximum(50)
// @Success      200 {object} vo.HotDestinationsResponseWrapper "成功"
// @Router       /api/v1/travel-plans/destinations/hot [get]
func (ctrl *TravelPlanController) HotDestinations(c *gin.Context) {
	var req struct {
		Limit int `form:"limit" binding:"omitempty,gte=1,lte=50"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	list, err := ctrl.planService.HotDestinations(c.Request.Context(), req.Limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, list, "")
}

func (ctrl *TravelPlanController) RegisterRoutes(group *gin.RouterGroup, guards RouteGuards) {
	plans := group.Group("/travel-plans")
	{
		plans.POST("", guards.Auth, ctrl.Create)
		plans.GET("/mine", guards.Auth, ctrl.ListMine)
		plans.GET("/public", ctrl.ListPublic)
		plans.GET("/destinations/hot", ctrl.HotDestinations)
		plans.GET("/:plan_id", guards.OptionalAuth, ctrl.Get)
		plans.PUT("/:plan_id", guards.Auth, ctrl.Update)
		plans.DELETE("/:plan_id", guards.Auth, ctrl.Delete)
	}
}
