package dependencies

import (
	"context"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	appConfig "github.com/Xushengqwer/social_service/config"
	"github.com/Xushengqwer/social_service/models/entities"
)

// 需要自动迁移的关系型实体
var migrateModels = []interface{}{
	&entities.User{},
	&entities.UserProfile{},
	&entities.Post{},
	&entities.PostDetail{},
	&entities.PostImage{},
	&entities.Tag{},
	&entities.Comment{},
	&entities.Like{},
	&entities.Follow{},
	&entities.AuditLog{},
	&entities.HotNewsMain{},
	&entities.HotNewsDetail{},
}

// poolSettings 最终生效的连接池参数
type poolSettings struct {
	MaxIdle     int
	MaxOpen     int
	MaxLifetime time.Duration
}

// resolvePoolSettings 以共享设置为基础，主库单独配置的字段覆盖共享值。
func resolvePoolSettings(cfg appConfig.MySQLConfig) poolSettings {
	ps := poolSettings{
		MaxIdle:     cfg.SharedMaxIdleConns,
		MaxOpen:     cfg.SharedMaxOpenConns,
		MaxLifetime: time.Duration(cfg.SharedConnMaxLifetime) * time.Second,
	}
	if cfg.Write.MaxIdleConns != nil {
		ps.MaxIdle = *cfg.Write.MaxIdleConns
	}
	if cfg.Write.MaxOpenConns != nil {
		ps.MaxOpen = *cfg.Write.MaxOpenConns
	}
	if cfg.Write.ConnMaxLifetime != nil {
		ps.MaxLifetime = time.Duration(*cfg.Write.ConnMaxLifetime) * time.Second
	}
	return ps
}

// InitMySQL 连接主库、按需注册读写分离、配置连接池并执行自动迁移。
func InitMySQL(ctx context.Context, cfg *appConfig.AppConfig, logger *core.ZapLogger) (*gorm.DB, error) {
	mysqlCfg := cfg.MySQLConfig
	if mysqlCfg.Write.DSN == "" {
		return nil, fmt.Errorf("主数据库 DSN (mysqlConfig.write.dsn) 未配置")
	}

	db, err := openWithRetry(ctx, mysqlCfg.Write.DSN, &gorm.Config{
		Logger: core.NewGormLogger(logger, cfg.GormLogConfig),
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := registerReplicas(db, mysqlCfg, logger); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("无法获取数据库对象: %w", err)
	}
	ps := resolvePoolSettings(mysqlCfg)
	sqlDB.SetMaxIdleConns(ps.MaxIdle)
	sqlDB.SetMaxOpenConns(ps.MaxOpen)
	sqlDB.SetConnMaxLifetime(ps.MaxLifetime)
	logger.Info("配置数据库连接池",
		zap.Int("最大空闲连接数", ps.MaxIdle),
		zap.Int("最大打开连接数", ps.MaxOpen),
		zap.Duration("连接最大生命周期", ps.MaxLifetime),
	)

	// AutoMigrate 走主库
	logger.Info("开始执行数据库自动迁移...")
	if err := db.AutoMigrate(migrateModels...); err != nil {
		logger.Error("数据库自动迁移失败", zap.Error(err))
		return nil, fmt.Errorf("数据库自动迁移失败: %w", err)
	}
	logger.Info("数据库自动迁移完成", zap.Int("表数量", len(migrateModels)))
	return db, nil
}

func openWithRetry(ctx context.Context, dsn string, gormCfg *gorm.Config, logger *core.ZapLogger) (*gorm.DB, error) {
	var db *gorm.DB
	err := connectWithRetry(ctx, "mysql", connectAttempts, connectInterval, logger.Logger(), func(ctx context.Context) error {
		opened, err := gorm.Open(mysql.Open(dsn), gormCfg)
		if err != nil {
			return err
		}
		sqlDB, err := opened.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			_ = sqlDB.Close()
			return err
		}
		db = opened
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("成功连接到主数据库")
	return db, nil
}

// registerReplicas 存在有效从库 DSN 时启用 dbresolver 读写分离。
func registerReplicas(db *gorm.DB, mysqlCfg appConfig.MySQLConfig, logger *core.ZapLogger) error {
	replicas := make([]gorm.Dialector, 0, len(mysqlCfg.Read))
	for i, r := range mysqlCfg.Read {
		if r.DSN == "" {
			logger.Warn("发现空的从库 DSN 配置，已跳过", zap.Int("index", i))
			continue
		}
		replicas = append(replicas, mysql.Open(r.DSN))
	}
	if len(replicas) == 0 {
		logger.Info("未配置有效的从数据库，不启用读写分离")
		return nil
	}

	err := db.Use(dbresolver.Register(dbresolver.Config{
		Sources:  []gorm.Dialector{mysql.Open(mysqlCfg.Write.DSN)},
		Replicas: replicas,
		Policy:   dbresolver.StrictRoundRobinPolicy(),
	}))
	if err != nil {
		return fmt.Errorf("配置 GORM 读写分离失败: %w", err)
	}
	logger.Info("成功配置 GORM 读写分离插件", zap.Int("从库数量", len(replicas)))
	return nil
}
