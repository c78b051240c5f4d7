package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/myErrors"
	"github.com/Xushengqwer/social_service/response"
	"github.com/Xushengqwer/social_service/service"
)

// maxMultipartMemory 超出部分由 net/http 暂存到磁盘
const maxMultipartMemory = 32 << 20

// PostController 帖子的发布、修改、删除与列表
type PostController struct {
	postService     service.PostService
	postListService service.PostListService
}

func NewPostController(postService service.PostService, postListService service.PostListService) *PostController {
	return &PostController{
		postService:     postService,
		postListService: postListService,
	}
}

// GetUserPosts 获取当前用户自己的帖子列表 (分页)
// @Summary      获取我的帖子列表
// @Description  获取当前登录用户发布的帖子（包含已隐藏的），支持按标题、状态筛选，页码分页并返回总数。
// @Tags         posts (帖子)
// @Produce      json
// @Security     BearerAuth
// @Param        page query int true "页码 (从1开始)" minimum(1) default(1)
// @Param        pageSize query int true "每页数量" minimum(1) maximum(100) default(10)
// @Param        title query string false "标题模糊搜索关键词" maxLength(255)
// @Param        status query int false "帖子状态 (0:已发布, 1:已隐藏)" Enums(0,1)
// @Success      200 {object} vo.ListUserPostPageResponseWrapper "成功响应，包含帖子列表和总记录数"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求参数"
// @Failure      401 {object} vo.BaseResponseWrapper "未登录"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/posts/mine [get]
func (ctrl *PostController) GetUserPosts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var reqDTO dto.GetUserPostsRequestDTO
	if err := c.ShouldBindQuery(&reqDTO); err != nil {
		bindError(c, err)
		return
	}
	page, err := ctrl.postListService.GetUserPosts(c.Request.Context(), userID, &reqDTO)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, page, "用户帖子列表获取成功")
}

// GetPostsTimeline 获取帖子时间线列表 (游标分页)
// @Summary      获取帖子时间线列表 (公开)
// @Description  按创建时间倒序的已发布帖子。lastCreatedAt 与 lastPostId 需同时提供，可按标题、作者用户名、标签过滤。
// @Tags         posts (帖子)
// @Produce      json
// @Param        lastCreatedAt query string false "上一页最后一条记录的创建时间 (RFC3339)" format(date-time)
// @Param        lastPostId query uint64 false "上一页最后一条记录的帖子ID" minimum(1)
// @Param        pageSize query int true "每页数量" minimum(1) maximum(100) default(10)
// @Param        title query string false "标题模糊搜索关键词" maxLength(255)
// @Param        authorUsername query string false "作者用户名模糊搜索关键词" maxLength(50)
// @Param        tag query string false "标签" maxLength(30)
// @Success      200 {object} vo.PostTimelinePageResponseWrapper "成功响应，包含帖子列表和下一页游标"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求参数"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/posts/timeline [get]
func (ctrl *PostController) GetPostsTimeline(c *gin.Context) {
	var reqDTO dto.GetPostsTimelineRequestDTO
	if err := c.ShouldBindQuery(&reqDTO); err != nil {
		bindError(c, err)
		return
	}
	query := &dto.TimelineQueryDTO{
		LastCreatedAt:  reqDTO.LastCreatedAt,
		LastPostID:     reqDTO.LastPostID,
		PageSize:       reqDTO.PageSize,
		Title:          reqDTO.Title,
		AuthorUsername: reqDTO.AuthorUsername,
		Tag:            reqDTO.Tag,
	}
	page, err := ctrl.postListService.GetPostsByTimeline(c.Request.Context(), query)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, page, "帖子时间线获取成功")
}

// CreatePost 创建帖子，包含图片上传
// @Summary      创建新帖子
// @Description  multipart/form-data 提交。图片先上传到对象存储，帖子数据在一个事务中写入，失败时清理已上传的图片。
// @Tags         posts (帖子)
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title formData string true "帖子标题" maxLength(100)
// @Param        content formData string true "帖子内容" maxLength(5000)
// @Param        location formData string false "地点" maxLength(255)
// @Param        tags formData []string false "标签 (可重复提交)" collectionFormat(multi)
// @Param        images formData file false "帖子图片 (可多选)"
// @Success      200 {object} vo.PostDetailResponseWrapper "帖子创建成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求负载"
// @Failure      413 {object} vo.BaseResponseWrapper "图片过大"
// @Failure      429 {object} vo.BaseResponseWrapper "发帖过于频繁"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/posts [post]
func (ctrl *PostController) CreatePost(c *gin.Context) {
	authorID, ok := currentUserID(c)
	if !ok {
		return
	}
	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		_ = c.Error(myErrors.NewValidationError("", "解析表单数据失败"))
		return
	}

	var req dto.CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}
	imageFiles := c.Request.MultipartForm.File["images"]

	detail, err := ctrl.postService.CreatePost(c.Request.Context(), authorID, &req, imageFiles)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, detail, "帖子创建成功")
}

// UpdatePost 作者修改帖子
// @Summary      修改帖子
// @Description  只更新请求中出现的字段，tags 出现时整体替换。
// @Tags         posts (帖子)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        post_id path uint64 true "帖子 ID"
// @Param        request body dto.UpdatePostRequest true "修改内容"
// @Success      200 {object} vo.PostDetailResponseWrapper "修改成功"
// @Failure      403 {object} vo.BaseResponseWrapper "不是帖子作者"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Router       /api/v1/posts/{post_id} [put]
func (ctrl *PostController) UpdatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := pathUint64(c, "post_id")
	if !ok {
		return
	}
	var req dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	detail, err := ctrl.postService.UpdatePost(c.Request.Context(), userID, postID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, detail, "帖子修改成功")
}

// DeletePost 作者删除帖子
// @Summary      删除指定ID的帖子
// @Description  软删除帖子及其详情、图片、评论，并移出热门排行。
// @Tags         posts (帖子)
// @Produce      json
// @Security     BearerAuth
// @Param        post_id path uint64 true "帖子 ID"
// @Success      200 {object} vo.BaseResponseWrapper "帖子删除成功"
// @Failure      403 {object} vo.BaseResponseWrapper "不是帖子作者"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Router       /api/v1/posts/{post_id} [delete]
func (ctrl *PostController) DeletePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := pathUint64(c, "post_id")
	if !ok {
		return
	}
	if err := ctrl.postService.DeletePost(c.Request.Context(), userID, postID); err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess[any](c, nil, "帖子删除成功")
}

// ListPostsByUserID 指定用户公开发布的帖子 (游标加载)
// @Summary      获取指定用户的帖子列表
// @Tags         posts (帖子)
// @Produce      json
// @Param        user_id query uint64 true "用户 ID"
// @Param        cursor query uint64 false "上一页最后一个帖子的 ID，首页省略"
// @Param        page_size query int true "每页数量" minimum(1) maximum(100)
// @Success      200 {object} vo.ListPostsByCursorResponseWrapper "帖子检索成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的输入参数"
// @Router       /api/v1/posts/by-author [get]
func (ctrl *PostController) ListPostsByUserID(c *gin.Context) {
	var req dto.ListPostsByUserIDRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := ctrl.postListService.ListPostsByUserID(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, result, "帖子检索成功")
}

// GetPostDetailByPostID 获取帖子详情
// @Summary      获取指定ID的帖子详情 (公开)
// @Description  登录用户访问时异步累加浏览量，同一用户只计一次。
// @Tags         posts (帖子)
// @Produce      json
// @Param        post_id path uint64 true "帖子 ID"
// @Success      200 {object} vo.PostDetailResponseWrapper "帖子详情检索成功"
// @Failure      404 {object} vo.BaseResponseWrapper "帖子不存在"
// @Router       /api/v1/posts/{post_id} [get]
func (ctrl *PostController) GetPostDetailByPostID(c *gin.Context) {
	postID, ok := pathUint64(c, "post_id")
	if !ok {
		return
	}
	detail, err := ctrl.postService.GetPostDetailByPostID(c.Request.Context(), postID, viewerID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, detail, "帖子详情检索成功")
}

// ListHotTags 热门标签
// @Summary      热门标签
// @Tags         tags (标签)
// @Produce      json
// @Param        limit query int false "数量，默认 20" minimum(1) maximum(100)
// @Success      200 {object} vo.HotTagsResponseWrapper "成功"
// @Router       /api/v1/tags/hot [get]
func (ctrl *PostController) ListHotTags(c *gin.Context) {
	var req struct {
		Limit int `form:"limit" binding:"omitempty,gte=1,lte=100"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	tags, err := ctrl.postListService.ListHotTags(c.Request.Context(), req.Limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, tags, "")
}

// RegisterRoutes 注册 PostController 的路由
func (ctrl *PostController) RegisterRoutes(group *gin.RouterGroup, guards RouteGuards) {
	posts := group.Group("/posts")
	{
		posts.POST("", guards.Auth, guards.RateLimit("createPost"), ctrl.CreatePost)
		posts.GET("/timeline", ctrl.GetPostsTimeline)
		posts.GET("/mine", guards.Auth, ctrl.GetUserPosts)
		posts.GET("/by-author", ctrl.ListPostsByUserID)
		posts.GET("/:post_id", guards.OptionalAuth, ctrl.GetPostDetailByPostID)
		posts.PUT("/:post_id", guards.Auth, ctrl.UpdatePost)
		posts.DELETE("/:post_id", guards.Auth, ctrl.DeletePost)
	}
	group.GET("/tags/hot", ctrl.ListHotTags)
}
