package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/response"
	"github.com/Xushengqwer/social_service/service"
)

// HotNewsController 热点资讯的公开查询，维护接口在 AdminController。
type HotNewsController struct {
	hotNewsService service.HotNewsService
}

func NewHotNewsController(hotNewsService service.HotNewsService) *HotNewsController {
	return &HotNewsController{hotNewsService: hotNewsService}
}

// List 热点资讯列表
// @Summary      热点资讯列表
// @Description  按排名升序、热度降序，结果缓存 5 分钟。
// @Tags         hot-news (热点资讯)
// @Produce      json
// @Param        category query string false "分类"
// @Param        limit query int false "数量，默认 20" minimum(1) maximum(100)
// @Success      200 {object} vo.HotNewsListResponseWrapper "成功"
// @Router       /api/v1/hot-news [get]
func (ctrl *HotNewsController) List(c *gin.Context) {
	var req dto.ListHotNewsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	news, err := ctrl.hotNewsService.List(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, news, "")
}

// Detail 热点资讯详情
// @Summary      热点资讯详情
// @Tags         hot-news (热点资讯)
// @Produce      json
// @Param        news_id path uint64 true "资讯 ID"
// @Success      200 {object} vo.HotNewsDetailResponseWrapper "成功"
// @Failure      404 {object} vo.BaseResponseWrapper "资讯不存在"
// @Router       /api/v1/hot-news/{news_id} [get]
func (ctrl *HotNewsController) Detail(c *gin.Context) {
	newsID, ok := pathUint64(c, "news_id")
	if !ok {
		return
	}
	news, err := ctrl.hotNewsService.Detail(c.Request.Context(), newsID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, news, "")
}

func (ctrl *HotNewsController) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/hot-news", ctrl.List)
	group.GET("/hot-news/:news_id", ctrl.Detail)
}
