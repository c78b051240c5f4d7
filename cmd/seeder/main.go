package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/background"
	appConfig "github.com/Xushengqwer/social_service/config"
	"github.com/Xushengqwer/social_service/dependencies"
	"github.com/Xushengqwer/social_service/mq/producer"
	"github.com/Xushengqwer/social_service/repo/mysql"
	redisRepo "github.com/Xushengqwer/social_service/repo/redis"
	"github.com/Xushengqwer/social_service/security"
	"github.com/Xushengqwer/social_service/service"
)

func main() {
	var (
		configFile  string
		opts        SeedOptions
		waitSeconds int
	)
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "配置文件路径")
	flag.IntVar(&opts.Users, "users", 20, "要注册的用户数量")
	flag.IntVar(&opts.Posts, "n", 50, "要生成的帖子数量")
	flag.IntVar(&opts.CommentsPerPost, "comments", 3, "每个帖子的评论数量上限")
	flag.IntVar(&opts.HotNews, "news", 10, "要生成的热点资讯数量")
	flag.IntVar(&waitSeconds, "wait", 5, "数据填充后等待异步任务的最长秒数")
	flag.Parse()

	if opts.Users <= 0 || opts.Posts < 0 || waitSeconds < 0 {
		fmt.Println("错误: 用户数必须大于 0，帖子数与等待秒数不能为负")
		os.Exit(1)
	}

	absConfigFile, err := filepath.Abs(configFile)
	if err != nil {
		absConfigFile = configFile
	}

	var cfg appConfig.AppConfig
	if err := core.LoadConfig(absConfigFile, &cfg); err != nil {
		fmt.Printf("加载配置失败 (%s): %v\n", absConfigFile, err)
		os.Exit(1)
	}

	logger, loggerErr := core.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		fmt.Printf("初始化 ZapLogger 失败: %v\n", loggerErr)
		os.Exit(1)
	}
	defer func() { _ = logger.Logger().Sync() }()
	baseLogger := logger.Logger()

	ctx := context.Background()
	db, err := dependencies.InitMySQL(ctx, &cfg, logger)
	if err != nil {
		logger.Fatal("初始化 MySQL 失败 (Seeder)", zap.Error(err))
	}
	rdb, err := dependencies.InitRedis(ctx, &cfg.RedisConfig, logger)
	if err != nil {
		logger.Fatal("初始化 Redis 失败 (Seeder)", zap.Error(err))
	}
	defer rdb.Close()

	storage, err := dependencies.InitObjectStorage(ctx, &cfg.StorageConfig, logger)
	if err != nil {
		logger.Fatal("初始化对象存储失败 (Seeder)", zap.Error(err))
	}

	var publisher service.PostEventPublisher
	if len(cfg.KafkaConfig.Brokers) > 0 {
		kafkaProducer := producer.NewKafkaProducer(cfg.KafkaConfig, logger)
		defer kafkaProducer.Close()
		publisher = kafkaProducer
	}

	userRepo := mysql.NewUserRepository(db, logger)
	postRepo := mysql.NewPostRepository(db, logger)
	commentRepo := mysql.NewCommentRepository(db, logger)
	likeRepo := mysql.NewLikeRepository(db)
	followRepo := mysql.NewFollowRepository(db)
	postBatchRepo := mysql.NewPostBatchOperationsRepository(db, logger, cfg.ViewSyncConfig)
	postViewRepo := redisRepo.NewPostViewRepository(rdb, cfg.ViewSyncConfig, baseLogger)
	hotPostCache := redisRepo.NewHotPostCache(rdb, postBatchRepo, baseLogger)
	uploadPolicy := service.NewUploadPolicy(cfg.StorageConfig)
	txRunner := mysql.NewTxRunner(db)
	asyncTasks := background.NewTracker(baseLogger)

	svcs := Services{
		Auth: service.NewAuthService(txRunner, userRepo, security.NewTokenManager(cfg.JWTConfig),
			redisRepo.NewTokenBlacklist(rdb), baseLogger),
		Post: service.NewPostService(txRunner, postRepo, mysql.NewPostDetailRepository(db), mysql.NewPostImageRepository(db),
			commentRepo, likeRepo, userRepo, mysql.NewTagRepository(db, logger), storage, uploadPolicy, postViewRepo, hotPostCache,
			publisher, asyncTasks, logger),
		Comment: service.NewCommentService(txRunner, commentRepo, postRepo, userRepo, likeRepo, logger),
		Like:    service.NewLikeService(txRunner, likeRepo, postRepo, commentRepo, logger),
		HotNews: service.NewHotNewsService(mysql.NewHotNewsRepository(db), redisRepo.NewHotNewsCache(rdb, baseLogger), baseLogger),
	}
	svcs.Follow = service.NewFollowService(followRepo,
		service.NewUserService(userRepo, followRepo, postRepo, storage, uploadPolicy, asyncTasks, logger), logger)

	startTime := time.Now()
	report := Seed(ctx, svcs, baseLogger, opts)
	logger.Info("数据填充主要逻辑完成", zap.Duration("耗时", time.Since(startTime)), zap.Any("report", report))

	// 最多等待 waitSeconds 秒，让异步事件在生产者关闭前发出
	logger.Info(fmt.Sprintf("Seeder: 最多等待 %d 秒以完成异步任务...", waitSeconds))
	waitCtx, waitCancel := context.WithTimeout(ctx, time.Duration(waitSeconds)*time.Second)
	if err := asyncTasks.Shutdown(waitCtx); err != nil {
		logger.Warn("Seeder: 部分异步任务未在等待时间内完成", zap.Error(err))
	}
	waitCancel()
	fmt.Printf("数据填充完成！总耗时: %v\n", time.Since(startTime))
}
