package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	sharedCore "github.com/Xushengqwer/go-common/core"
	sharedTracing "github.com/Xushengqwer/go-common/core/tracing"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/background"
	appConfig "github.com/Xushengqwer/social_service/config"
	"github.com/Xushengqwer/social_service/constant"
	"github.com/Xushengqwer/social_service/controller"
	"github.com/Xushengqwer/social_service/dependencies"
	_ "github.com/Xushengqwer/social_service/docs"
	"github.com/Xushengqwer/social_service/middleware"
	"github.com/Xushengqwer/social_service/mq/consumer"
	"github.com/Xushengqwer/social_service/mq/producer"
	"github.com/Xushengqwer/social_service/repo/mongodb"
	"github.com/Xushengqwer/social_service/repo/mysql"
	redisrepo "github.com/Xushengqwer/social_service/repo/redis"
	"github.com/Xushengqwer/social_service/router"
	"github.com/Xushengqwer/social_service/security"
	"github.com/Xushengqwer/social_service/service"
	"github.com/Xushengqwer/social_service/tasks"
)

// @title           Social Service API
// @version         1.0
// @description     旅行社交服务：用户、帖子、评论、点赞、关注、私信、旅行计划、文件与热点资讯。

// @host      localhost:8080
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 格式为 "Bearer <token>"
func main() {
	var configFile string
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "Path to configuration file")
	flag.Parse()

	// 1. 加载配置
	var cfg appConfig.AppConfig
	if err := sharedCore.LoadConfig(configFile, &cfg); err != nil {
		log.Fatalf("FATAL: 加载配置失败 (%s): %v", configFile, err)
	}

	// 2. 初始化 Logger
	logger, loggerErr := sharedCore.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		log.Fatalf("FATAL: 初始化 ZapLogger 失败: %v", loggerErr)
	}
	defer func() {
		if err := logger.Logger().Sync(); err != nil {
			log.Printf("WARN: ZapLogger Sync 失败: %v\n", err)
		}
	}()
	baseLogger := logger.Logger()
	logger.Info("Logger 初始化成功")

	// 3. 分布式追踪
	if cfg.TracerConfig.Enabled {
		tracerShutdown, err := sharedTracing.InitTracerProvider(constant.ServiceName, constant.ServiceVersion, cfg.TracerConfig)
		if err != nil {
			logger.Fatal("初始化 TracerProvider 失败", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerShutdown(ctx); err != nil {
				logger.Error("关闭 TracerProvider 失败", zap.Error(err))
			}
		}()
		logger.Info("分布式追踪已初始化")
	} else {
		logger.Info("分布式追踪已禁用")
	}

	// --- 4. 初始化核心依赖 ---
	initCtx, initCancel := context.WithTimeout(context.Background(), time.Minute)
	defer initCancel()

	db, err := dependencies.InitMySQL(initCtx, &cfg, logger)
	if err != nil {
		logger.Fatal("初始化 MySQL 数据库失败", zap.Error(err))
	}

	rdb, err := dependencies.InitRedis(initCtx, &cfg.RedisConfig, logger)
	if err != nil {
		logger.Fatal("初始化 Redis 失败", zap.Error(err))
	}

	mongoClient, mongoDB, err := dependencies.InitMongo(initCtx, &cfg.MongoConfig, logger)
	if err != nil {
		logger.Fatal("初始化 MongoDB 失败", zap.Error(err))
	}

	storage, err := dependencies.InitObjectStorage(initCtx, &cfg.StorageConfig, logger)
	if err != nil {
		logger.Fatal("初始化对象存储失败", zap.Error(err))
	}

	// Kafka 未配置时事件发布与死信都为 nil 接口，服务层据此跳过发送
	var (
		kafkaProducer       *producer.KafkaProducer
		postPublisher       service.PostEventPublisher
		travelPlanPublisher service.TravelPlanEventPublisher
		deadLetter          consumer.DeadLetterSender
	)
	if len(cfg.KafkaConfig.Brokers) > 0 {
		kafkaProducer = producer.NewKafkaProducer(cfg.KafkaConfig, logger)
		postPublisher, travelPlanPublisher = kafkaProducer, kafkaProducer
		if cfg.KafkaConfig.Topics.DeadLetter != "" {
			deadLetter = kafkaProducer
		}
		logger.Info("Kafka 生产者已初始化")
	} else {
		logger.Warn("未配置 Kafka brokers，事件发送与消费均被禁用")
	}

	// --- 5. 数据仓库层 ---
	userRepo := mysql.NewUserRepository(db, logger)
	postRepo := mysql.NewPostRepository(db, logger)
	postDetailRepo := mysql.NewPostDetailRepository(db)
	postImageRepo := mysql.NewPostImageRepository(db)
	postAdminRepo := mysql.NewPostAdminRepository(db, logger)
	postBatchRepo := mysql.NewPostBatchOperationsRepository(db, logger, cfg.ViewSyncConfig)
	commentRepo := mysql.NewCommentRepository(db, logger)
	likeRepo := mysql.NewLikeRepository(db)
	followRepo := mysql.NewFollowRepository(db)
	tagRepo := mysql.NewTagRepository(db, logger)
	hotNewsRepo := mysql.NewHotNewsRepository(db)
	auditLogRepo := mysql.NewAuditLogRepository(db)

	postViewRepo := redisrepo.NewPostViewRepository(rdb, cfg.ViewSyncConfig, baseLogger)
	hotPostCache := redisrepo.NewHotPostCache(rdb, postBatchRepo, baseLogger)
	destinationRank := redisrepo.NewDestinationRank(rdb)
	hotNewsCache := redisrepo.NewHotNewsCache(rdb, baseLogger)
	tokenBlacklist := redisrepo.NewTokenBlacklist(rdb)
	rateLimiter := redisrepo.NewRateLimiter(rdb, baseLogger)

	travelPlanRepo := mongodb.NewTravelPlanRepository(mongoDB, logger)
	dialogRepo := mongodb.NewDialogRepository(mongoDB, logger)
	if err := travelPlanRepo.EnsureIndexes(initCtx); err != nil {
		logger.Fatal("创建旅行计划索引失败", zap.Error(err))
	}
	if err := dialogRepo.EnsureIndexes(initCtx); err != nil {
		logger.Fatal("创建私信索引失败", zap.Error(err))
	}
	logger.Debug("Repositories 初始化完成")

	// --- 6. 服务层 ---
	uploadPolicy := service.NewUploadPolicy(cfg.StorageConfig)
	tokenManager := security.NewTokenManager(cfg.JWTConfig)
	txRunner := mysql.NewTxRunner(db)
	asyncTasks := background.NewTracker(baseLogger)

	authService := service.NewAuthService(txRunner, userRepo, tokenManager, tokenBlacklist, baseLogger)
	userService := service.NewUserService(userRepo, followRepo, postRepo, storage, uploadPolicy, asyncTasks, logger)
	followService := service.NewFollowService(followRepo, userService, logger)
	postService := service.NewPostService(txRunner, postRepo, postDetailRepo, postImageRepo, commentRepo, likeRepo, userRepo, tagRepo,
		storage, uploadPolicy, postViewRepo, hotPostCache, postPublisher, asyncTasks, logger)
	postListService := service.NewPostListService(logger, postRepo, tagRepo)
	hotPostService := service.NewHotPostService(hotPostCache, postViewRepo, postService, asyncTasks, logger)
	adminService := service.NewPostAdminService(postAdminRepo, postViewRepo, hotPostCache, logger)
	commentService := service.NewCommentService(txRunner, commentRepo, postRepo, userRepo, likeRepo, logger)
	likeService := service.NewLikeService(txRunner, likeRepo, postRepo, commentRepo, logger)
	messageService := service.NewMessageService(dialogRepo, userService, baseLogger)
	travelPlanService := service.NewTravelPlanService(travelPlanRepo, destinationRank, travelPlanPublisher, asyncTasks, baseLogger)
	fileService := service.NewFileService(storage, uploadPolicy, logger)
	hotNewsService := service.NewHotNewsService(hotNewsRepo, hotNewsCache, baseLogger)
	auditLogService := service.NewAuditLogService(auditLogRepo)
	logger.Debug("Services 初始化完成")

	// --- 7. 控制器层 ---
	ctrls := router.Controllers{
		Auth:       controller.NewAuthController(authService),
		User:       controller.NewUserController(userService, followService),
		Post:       controller.NewPostController(postService, postListService),
		HotPost:    controller.NewHotPostController(hotPostService),
		Comment:    controller.NewCommentController(commentService),
		Like:       controller.NewLikeController(likeService),
		Message:    controller.NewMessageController(messageService),
		TravelPlan: controller.NewTravelPlanController(travelPlanService),
		File:       controller.NewFileController(fileService),
		HotNews:    controller.NewHotNewsController(hotNewsService),
		Admin:      controller.NewAdminController(adminService, hotNewsService, auditLogService),
	}

	// --- 8. Kafka 消费者 ---
	var consumers []*consumer.Consumer
	var consumerWg sync.WaitGroup
	consumerCtx, consumerCancel := context.WithCancel(context.Background())

	if kafkaProducer != nil {
		groupID := cfg.KafkaConfig.ConsumerGroupID
		if groupID == "" {
			logger.Warn("Kafka ConsumerGroupID 未配置，使用默认值 'social_service_group'")
			groupID = "social_service_group"
		}
		retryCfg := cfg.KafkaConfig.Retry
		baseDelay := time.Duration(retryCfg.BaseDelayMs) * time.Millisecond
		topics := cfg.KafkaConfig.Topics

		handlers := []struct {
			topic   string
			handler consumer.MessageHandler
		}{
			{topics.PostCreated, consumer.NewPostCreatedHandler(logger, postViewRepo)},
			{topics.TravelPlanCreated, consumer.NewTravelPlanCreatedHandler(logger, destinationRank)},
			{topics.TravelPlanUpdated, consumer.NewTravelPlanUpdatedHandler(logger, destinationRank)},
		}
		for _, h := range handlers {
			if h.topic == "" {
				logger.Warn("存在未配置的 Kafka 主题，跳过对应消费者")
				continue
			}
			wrapped := consumer.NewRetryHandler(h.handler, deadLetter, retryCfg.MaxRetries, baseDelay, baseLogger)
			c, err := consumer.NewConsumer(&cfg.KafkaConfig, groupID, h.topic, wrapped, baseLogger)
			if err != nil {
				logger.Fatal("初始化 Kafka 消费者失败", zap.String("topic", h.topic), zap.Error(err))
			}
			consumers = append(consumers, c)
		}

		logger.Info(fmt.Sprintf("准备启动 %d 个 Kafka 消费者...", len(consumers)))
		for _, c := range consumers {
			consumerWg.Add(1)
			go func(cons *consumer.Consumer) {
				defer consumerWg.Done()
				cons.Start(consumerCtx)
			}(c)
		}
	}

	// --- 9. 定时任务 ---
	locker := tasks.NewTaskLocker(rdb, baseLogger)
	syncTask := tasks.NewViewCountSyncTask(postViewRepo, postBatchRepo, locker, cfg.ViewSyncConfig, baseLogger)
	cacheTask := tasks.NewHotPostsCacheTask(hotPostCache, locker, cfg.ViewSyncConfig, baseLogger)
	if err := syncTask.Start(); err != nil {
		logger.Fatal("启动浏览量同步任务失败", zap.Error(err))
	}
	if err := cacheTask.Start(); err != nil {
		logger.Fatal("启动热门帖子缓存任务失败", zap.Error(err))
	}

	// --- 10. 路由 ---
	ginRouter := router.SetupRouter(logger, &cfg, router.Middlewares{
		Authenticator: authService,
		RateLimit:     middleware.NewRateLimitMiddleware(cfg.RateLimitConfig, rateLimiter, baseLogger),
		AuditRecorder: auditLogService,
		Tasks:         asyncTasks,
	}, ctrls)

	// --- 11. HTTP 服务器 ---
	serverAddr := fmt.Sprintf(":%s", cfg.ServerConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: ginRouter,
	}
	go func() {
		logger.Info("HTTP 服务器开始监听", zap.String("address", serverAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器启动失败", zap.Error(err))
		}
		logger.Info("HTTP 服务器已停止监听")
	}()

	// --- 12. 优雅关停 ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	logger.Info("收到关停信号，开始优雅退出...", zap.String("signal", receivedSignal.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// a. HTTP 服务器，处理完在途请求
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("关闭 HTTP 服务器失败", zap.Error(err))
	} else {
		logger.Info("HTTP 服务器已成功关闭")
	}

	// b. 请求留下的异步任务（事件发送、浏览计数、操作日志），依赖的连接此时都还可用
	if err := asyncTasks.Shutdown(shutdownCtx); err != nil {
		logger.Error("等待异步任务结束超时", zap.Error(err))
	} else {
		logger.Info("异步任务已全部完成")
	}

	// c. Kafka 消费者
	consumerCancel()
	consumerWg.Wait()
	for _, c := range consumers {
		if err := c.Close(); err != nil {
			logger.Error("关闭 Kafka 消费者时出错", zap.Error(err))
		}
	}
	logger.Info("所有 Kafka 消费者已停止")

	// d. 定时任务，等待正在执行的一轮结束
	for name, stopCtx := range map[string]context.Context{
		"浏览量同步":  syncTask.Stop(),
		"热门帖子缓存": cacheTask.Stop(),
	} {
		select {
		case <-stopCtx.Done():
			logger.Info("定时任务已停止", zap.String("task", name))
		case <-shutdownCtx.Done():
			logger.Error("等待定时任务停止超时", zap.String("task", name), zap.Error(shutdownCtx.Err()))
		}
	}

	// e. 生产者放在消费者与异步任务之后关闭，死信投递仍可能用到
	if kafkaProducer != nil {
		_ = kafkaProducer.Close()
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		logger.Error("断开 MongoDB 失败", zap.Error(err))
	}
	if err := rdb.Close(); err != nil {
		logger.Error("关闭 Redis 连接失败", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("服务已成功关闭")
}
