package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/social_service/response"
	"github.com/Xushengqwer/social_service/service"
)

// HotPostController 热门帖子，数据来自定时任务刷新的 Redis 快照
type HotPostController struct {
	hotPostService service.HotPostService
}

func NewHotPostController(hotPostService service.HotPostService) *HotPostController {
	return &HotPostController{hotPostService: hotPostService}
}

type hotPostsQuery struct {
	LastPostID *uint64 `form:"last_post_id" binding:"omitempty,gte=1"`
	Limit      int     `form:"limit" binding:"required,gte=1,lte=50"`
}

// GetHotPostsByCursor 通过游标获取热门帖子
// @Summary      通过游标获取热门帖子
// @Description  按热度排序的帖子列表。游标帖子已跌出热榜时返回业务错误，客户端应从头加载。
// @Tags         hot-posts (热门帖子)
// @Produce      json
// @Param        last_post_id query uint64 false "上一页最后一个帖子的 ID，首页省略"
// @Param        limit query int true "每页帖子数量" minimum(1) maximum(50)
// @Success      200 {object} vo.ListHotPostsResponseWrapper "热门帖子检索成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的输入参数或游标已失效"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/hot-posts [get]
func (ctrl *HotPostController) GetHotPostsByCursor(c *gin.Context) {
	var q hotPostsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	result, err := ctrl.hotPostService.GetHotPostsByCursor(c.Request.Context(), q.LastPostID, q.Limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, result, "热门帖子检索成功")
}

// GetHotPostDetail 热门帖子详情
// @Summary      根据帖子 ID 获取热门帖子详情
// @Description  优先读取缓存，未命中时回源数据库。
// @Tags         hot-posts (热门帖子)
// @Produce      json
// @Param        post_id path uint64 true "帖子 ID"
// @Success      200 {object} vo.PostDetailResponseWrapper "热门帖子详情检索成功"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Router       /api/v1/hot-posts/{post_id} [get]
func (ctrl *HotPostController) GetHotPostDetail(c *gin.Context) {
	postID, ok := pathUint64(c, "post_id")
	if !ok {
		return
	}
	detail, err := ctrl.hotPostService.GetHotPostDetail(c.Request.Context(), postID, viewerID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, detail, "热门帖子详情检索成功")
}

func (ctrl *HotPostController) RegisterRoutes(group *gin.RouterGroup, guards RouteGuards) {
	hotPosts := group.Group("/hot-posts")
	{
		hotPosts.GET("", ctrl.GetHotPostsByCursor)
		hotPosts.GET("/:post_id", guards.OptionalAuth, ctrl.GetHotPostDetail)
	}
}
