package dependencies

import (
	"context"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/config"
)

// InitMongo 连接 MongoDB 并返回业务库句柄。
func InitMongo(ctx context.Context, cfg *config.MongoConfig, logger *core.ZapLogger) (*mongo.Client, *mongo.Database, error) {
	if cfg.URI == "" || cfg.Database == "" {
		return nil, nil, fmt.Errorf("MongoDB 配置不完整，缺少 uri 或 database")
	}
	connectTimeout := time.Duration(cfg.ConnectTimeout) * time.Second
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(connectTimeout)
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("创建 MongoDB 客户端失败: %w", err)
	}

	err = connectWithRetry(ctx, "mongodb", connectAttempts, connectInterval, logger.Logger(), func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		return client.Ping(pingCtx, readpref.Primary())
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	logger.Info("成功连接到 MongoDB", zap.String("database", cfg.Database))
	return client, client.Database(cfg.Database), nil
}
