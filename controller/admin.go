package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/response"
	"github.com/Xushengqwer/social_service/service"
)

// AdminController 管理员接口：帖子管理、热点资讯维护、操作日志查询。
// 所有路由都挂在 Auth + Admin 之后。
type AdminController struct {
	adminService    service.PostAdminService
	hotNewsService  service.HotNewsService
	auditLogService service.AuditLogService
}

func NewAdminController(adminService service.PostAdminService, hotNewsService service.HotNewsService, auditLogService service.AuditLogService) *AdminController {
	return &AdminController{
		adminService:    adminService,
		hotNewsService:  hotNewsService,
		auditLogService: auditLogService,
	}
}

// ListPostsByCondition 管理员按条件分页查询帖子
// @Summary      按条件查询帖子 (管理员)
// @Description  支持按 ID、标题、作者用户名、状态、浏览量区间筛选，可指定排序字段。
// @Tags         admin (管理员)
// @Produce      json
// @Security     BearerAuth
// @Param        id query uint64 false "帖子 ID"
// @Param        title query string false "标题关键词"
// @Param        author_username query string false "作者用户名关键词"
// @Param        status query int false "帖子状态 (0:已发布, 1:已隐藏)" Enums(0,1)
// @Param        view_count_min query int64 false "最小浏览量"
// @Param        view_count_max query int64 false "最大浏览量"
// @Param        order_by query string false "排序字段" Enums(created_at,updated_at,view_count,like_count)
// @Param        order_desc query bool false "是否降序"
// @Param        page query int true "页码" minimum(1)
// @Param        page_size query int true "每页数量" minimum(1) maximum(100)
// @Success      200 {object} vo.ListPostsAdminResponseWrapper "查询成功"
// @Failure      400 {object} vo.BaseResponseWrapper "参数错误"
// @Failure      403 {object} vo.BaseResponseWrapper "需要管理员权限"
// @Router       /api/v1/admin/posts [get]
func (ctrl *AdminController) ListPostsByCondition(c *gin.Context) {
	var req dto.ListPostsByConditionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := ctrl.adminService.ListPostsByCondition(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, result, "帖子列表获取成功")
}

// UpdatePostStatus 隐藏或恢复帖子
// @Summary      修改帖子状态 (管理员)
// @Description  隐藏的帖子从公开列表和热门排行中移除。
// @Tags         admin (管理员)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.UpdatePostStatusRequest true "帖子 ID 与目标状态"
// @Success      200 {object} vo.BaseResponseWrapper "状态已更新"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Router       /api/v1/admin/posts/status [put]
func (ctrl *AdminController) UpdatePostStatus(c *gin.Context) {
	var req dto.UpdatePostStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := ctrl.adminService.UpdatePostStatus(c.Request.Context(), &req); err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess[any](c, nil, "帖子状态已更新")
}

// CreateHotNews 录入热点资讯
// @Summary      新增热点资讯 (管理员)
// @Tags         admin (管理员)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateHotNewsRequest true "资讯内容"
// @Success      200 {object} vo.HotNewsDetailResponseWrapper "创建成功"
// @Router       /api/v1/admin/hot-news [post]
func (ctrl *AdminController) CreateHotNews(c *gin.Context) {
	var req dto.CreateHotNewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	news, err := ctrl.hotNewsService.Create(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, news, "资讯已创建")
}

// DeleteHotNews 删除热点资讯
// @Summary      删除热点资讯 (管理员)
// @Tags         admin (管理员)
// @Produce      json
// @Security     BearerAuth
// @Param        news_id path uint64 true "资讯 ID"
// @Success      200 {object} vo.BaseResponseWrapper "删除成功"
// @Failure      404 {object} vo.BaseResponseWrapper "资讯不存在"
// @Router       /api/v1/admin/hot-news/{news_id} [delete]
func (ctrl *AdminController) DeleteHotNews(c *gin.Context) {
	newsID, ok := pathUint64(c, "news_id")
	if !ok {
		return
	}
	if err := ctrl.hotNewsService.Delete(c.Request.Context(), newsID); err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess[any](c, nil, "资讯已删除")
}

// ListAuditLogs 查询操作日志
// @Summary      操作日志 (管理员)
// @Tags         admin (管理员)
// @Produce      json
// @Security     BearerAuth
// @Param        user_id query uint64 false "按用户过滤"
// @Param        page query int true "页码" minimum(1)
// @Param        page_size query int true "每页数量" minimum(1) maximum(100)
// @Success      200 {object} vo.ListAuditLogsResponseWrapper "成功"
// @Router       /api/v1/admin/audit-logs [get]
func (ctrl *AdminController) ListAuditLogs(c *gin.Context) {
	var req dto.ListAuditLogsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := ctrl.auditLogService.List(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, result, "")
}

func (ctrl *AdminController) RegisterRoutes(group *gin.RouterGroup, guards RouteGuards) {
	admin := group.Group("/admin", guards.Auth, guards.Admin)
	{
		admin.GET("/posts", ctrl.ListPostsByCondition)
		admin.PUT("/posts/status", ctrl.UpdatePostStatus)
		admin.POST("/hot-news", ctrl.CreateHotNews)
		admin.DELETE("/hot-news/:news_id", ctrl.DeleteHotNews)
		admin.GET("/audit-logs", ctrl.ListAuditLogs)
	}
}
