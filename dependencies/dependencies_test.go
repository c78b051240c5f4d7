package dependencies

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/social_service/config"
)

func TestJoinPublicURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:9000/social/avatars/a.png", joinPublicURL("http://127.0.0.1:9000/social", "avatars/a.png"))
	assert.Equal(t, "http://cdn.example.com/x/y.jpg", joinPublicURL("http://cdn.example.com/", "/x/y.jpg"))
}

func TestResolvePoolSettings(t *testing.T) {
	shared := appConfig.MySQLConfig{
		SharedMaxIdleConns:    10,
		SharedMaxOpenConns:    100,
		SharedConnMaxLifetime: 3600,
	}
	ps := resolvePoolSettings(shared)
	assert.Equal(t, poolSettings{MaxIdle: 10, MaxOpen: 100, MaxLifetime: time.Hour}, ps)

	idle, lifetime := 3, 60
	overridden := shared
	overridden.Write = appConfig.SourceConfig{MaxIdleConns: &idle, ConnMaxLifetime: &lifetime}
	ps = resolvePoolSettings(overridden)
	assert.Equal(t, 3, ps.MaxIdle)
	assert.Equal(t, 100, ps.MaxOpen)
	assert.Equal(t, time.Minute, ps.MaxLifetime)
}

func TestConnectWithRetry(t *testing.T) {
	calls := 0
	err := connectWithRetry(context.Background(), "fake", 3, time.Millisecond, zap.NewNop(), func(context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("not ready")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	err = connectWithRetry(context.Background(), "fake", 3, time.Millisecond, zap.NewNop(), func(context.Context) error {
		calls++
		return errors.New("down")
	})
	assert.ErrorContains(t, err, "down")
	assert.Equal(t, 3, calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls = 0
	err = connectWithRetry(ctx, "fake", 5, time.Hour, zap.NewNop(), func(context.Context) error {
		calls++
		return errors.New("down")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
