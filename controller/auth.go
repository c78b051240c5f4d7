package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/social_service/middleware"
	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/response"
	"github.com/Xushengqwer/social_service/service"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register 注册新用户
// @Summary      用户注册
// @Description  用户名唯一，密码 6 到 64 个字符。注册成功后需要再调用登录接口获取令牌。
// @Tags         auth (认证)
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      200 {object} vo.UserProfileResponseWrapper "注册成功"
// @Failure      400 {object} vo.BaseResponseWrapper "参数错误"
// @Failure      409 {object} vo.BaseResponseWrapper "用户名已被占用"
// @Failure      429 {object} vo.BaseResponseWrapper "请求过于频繁"
// @Router       /api/v1/auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	user, err := ctrl.authService.Register(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, user, "注册成功")
}

// Login 用户登录
// @Summary      用户登录
// @Description  校验用户名和密码，返回 Bearer 访问令牌。
// @Tags         auth (认证)
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} vo.LoginResponseWrapper "登录成功"
// @Failure      400 {object} vo.BaseResponseWrapper "请求参数错误"
// @Failure      401 {object} vo.BaseResponseWrapper "用户名或密码错误"
// @Failure      403 {object} vo.BaseResponseWrapper "账号已被禁用"
// @Failure      429 {object} vo.BaseResponseWrapper "请求过于频繁"
// @Router       /api/v1/auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := ctrl.authService.Login(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess(c, result, "登录成功")
}

// Logout 登出，当前令牌立即失效
// @Summary      退出登录
// @Tags         auth (认证)
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} vo.BaseResponseWrapper "已退出登录"
// @Failure      401 {object} vo.BaseResponseWrapper "未登录"
// @Router       /api/v1/auth/logout [post]
func (ctrl *AuthController) Logout(c *gin.Context) {
	tokenID, expiresAt := middleware.GetTokenInfo(c)
	if err := ctrl.authService.Logout(c.Request.Context(), tokenID, expiresAt); err != nil {
		_ = c.Error(err)
		return
	}
	response.RespondSuccess[any](c, nil, "已退出登录")
}

func (ctrl *AuthController) RegisterRoutes(group *gin.RouterGroup, guards RouteGuards) {
	auth := group.Group("/auth")
	{
		auth.POST("/register", guards.RateLimit("register"), ctrl.Register)
		auth.POST("/login", guards.RateLimit("login"), ctrl.Login)
		auth.POST("/logout", guards.Auth, ctrl.Logout)
	}
}
