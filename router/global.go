package router

import (
	"net/http"
	"time"

	"github.com/Xushengqwer/go-common/core"
	commonMiddleware "github.com/Xushengqwer/go-common/middleware"
	commonenums "github.com/Xushengqwer/go-common/models/enums"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Xushengqwer/social_service/background"
	appConfig "github.com/Xushengqwer/social_service/config"
	"github.com/Xushengqwer/social_service/constant"
	"github.com/Xushengqwer/social_service/controller"
	"github.com/Xushengqwer/social_service/middleware"
)

// Controllers 汇总需要注册路由的控制器。
type Controllers struct {
	Auth       *controller.AuthController
	User       *controller.UserController
	Post       *controller.PostController
	HotPost    *controller.HotPostController
	Comment    *controller.CommentController
	Like       *controller.LikeController
	Message    *controller.MessageController
	TravelPlan *controller.TravelPlanController
	File       *controller.FileController
	HotNews    *controller.HotNewsController
	Admin      *controller.AdminController
}

// Middlewares 由 main 构造后注入，路由层只负责编排顺序。
type Middlewares struct {
	Authenticator middleware.TokenAuthenticator
	RateLimit     *middleware.RateLimitMiddleware
	AuditRecorder middleware.AuditRecorder
	Tasks         background.Runner
}

// SetupRouter 仅负责配置 Gin 引擎、中间件和路由注册。
func SetupRouter(logger *core.ZapLogger, cfg *appConfig.AppConfig, mws Middlewares, ctrls Controllers) *gin.Engine {
	logger.Info("开始设置 Gin 路由...")
	baseLogger := logger.Logger()

	router := gin.New()
	router.HandleMethodNotAllowed = true

	// 1. OTel 最先，后续中间件的日志才能带上 TraceID
	router.Use(otelgin.Middleware(constant.ServiceName))
	// 2. Panic Recovery
	router.Use(commonMiddleware.ErrorHandlingMiddleware(logger))
	// 3. 访问日志
	router.Use(commonMiddleware.RequestLoggerMiddleware(baseLogger))
	// 4. 超时控制，配置单位为秒
	requestTimeout := time.Duration(cfg.ServerConfig.RequestTimeout) * time.Second
	router.Use(commonMiddleware.RequestTimeoutMiddleware(logger, requestTimeout))
	// 5. 慢请求
	router.Use(middleware.SlowRequest(cfg.SlowRequestConfig.ThresholdMs, baseLogger))
	// 6. 全局令牌桶
	router.Use(mws.RateLimit.Global())
	// 7. 操作日志必须包在统一错误处理外层
	router.Use(middleware.OperationLog(mws.AuditRecorder, mws.Tasks))
	router.Use(middleware.ErrorHandler(baseLogger))
	logger.Debug("已注册全局中间件")

	router.NoRoute(middleware.NotFoundHandler())
	router.NoMethod(middleware.MethodNotAllowedHandler())

	guards := controller.RouteGuards{
		Auth:         middleware.JWTAuth(mws.Authenticator),
		OptionalAuth: middleware.OptionalJWTAuth(mws.Authenticator),
		Admin:        middleware.RequireRole(commonenums.RoleAdmin),
		RateLimit:    mws.RateLimit.Route,
	}

	v1 := router.Group("/api/v1")
	ctrls.Auth.RegisterRoutes(v1, guards)
	ctrls.User.RegisterRoutes(v1, guards)
	ctrls.Post.RegisterRoutes(v1, guards)
	ctrls.HotPost.RegisterRoutes(v1, guards)
	ctrls.Comment.RegisterRoutes(v1, guards)
	ctrls.Like.RegisterRoutes(v1, guards)
	ctrls.Message.RegisterRoutes(v1, guards)
	ctrls.TravelPlan.RegisterRoutes(v1, guards)
	ctrls.File.RegisterRoutes(v1, guards)
	ctrls.HotNews.RegisterRoutes(v1)
	ctrls.Admin.RegisterRoutes(v1, guards)
	logger.Info("所有控制器路由已注册到 /api/v1 分组")

	// 访问 /swagger/index.html 查看接口文档
	swaggerURL := ginSwagger.URL("/swagger/doc.json")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, swaggerURL))

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	logger.Info("Gin 路由器设置完成")
	return router
}
