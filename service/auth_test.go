package service

import (
	"context"
	"testing"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	commonentities "github.com/Xushengqwer/go-common/models/entities"
	commonenums "github.com/Xushengqwer/go-common/models/enums"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/config"
	"github.com/Xushengqwer/social_service/constant"
	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/models/entities"
	"github.com/Xushengqwer/social_service/myErrors"
	"github.com/Xushengqwer/social_service/repo/mysql"
	"github.com/Xushengqwer/social_service/repo/redis"
	"github.com/Xushengqwer/social_service/security"
)

type fakeUserRepo struct {
	mysql.UserRepository
	users map[string]*entities.User
}

func (f *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return nil, commonerrors.ErrRepoNotFound
}

func (f *fakeUserRepo) GetProfileByUserID(ctx context.Context, userID uint64) (*entities.UserProfile, error) {
	return &entities.UserProfile{UserID: userID, Nickname: "旅行者"}, nil
}

func newTestAuthService(t *testing.T) (*miniredis.Miniredis, AuthService) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	hash, err := security.HashPassword("correct-horse")
	require.NoError(t, err)
	repo := &fakeUserRepo{users: map[string]*entities.User{
		"alice": {BaseModel: commonentities.BaseModel{ID: 1}, Username: "alice", PasswordHash: hash, Role: commonenums.RoleAdmin},
		"bob":   {BaseModel: commonentities.BaseModel{ID: 2}, Username: "bob", PasswordHash: hash, Role: commonenums.RoleUser, Status: commonenums.StatusBlacklisted},
	}}
	tokens := security.NewTokenManager(config.JWTConfig{Secret: "test-secret", Issuer: "test", AccessTTLHour: 1})
	return mr, NewAuthService(&fakeTxRunner{}, repo, tokens, redis.NewTokenBlacklist(client), zap.NewNop())
}

func TestAuthServiceLogin(t *testing.T) {
	_, s := newTestAuthService(t)
	ctx := context.Background()

	resp, err := s.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "admin", resp.User.Role)
	assert.Equal(t, "旅行者", resp.User.Nickname)

	claims, err := s.Authenticate(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.EqualValues(t, 1, claims.UserID)

	_, err = s.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, myErrors.ErrBadCredentials)

	// 用户不存在与密码错误返回同一个错误
	_, err = s.Login(ctx, &dto.LoginRequest{Username: "nobody", Password: "correct-horse"})
	assert.ErrorIs(t, err, myErrors.ErrBadCredentials)

	_, err = s.Login(ctx, &dto.LoginRequest{Username: "bob", Password: "correct-horse"})
	assert.ErrorIs(t, err, myErrors.ErrUserDisabled)
}

func TestAuthServiceLogoutRevokesToken(t *testing.T) {
	mr, s := newTestAuthService(t)
	ctx := context.Background()

	resp, err := s.Login(ctx, &dto.LoginRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)
	claims, err := s.Authenticate(ctx, resp.AccessToken)
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx, claims.ID, claims.ExpiresAt.Time))
	assert.True(t, mr.Exists(constant.TokenBlacklistPrefix+claims.ID))
	ttl := mr.TTL(constant.TokenBlacklistPrefix + claims.ID)
	assert.True(t, ttl > 0 && ttl <= time.Hour, "黑名单 TTL 应不超过令牌剩余有效期, got %v", ttl)

	_, err = s.Authenticate(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, myErrors.ErrUnauthorized)

	// 已过期的令牌无需写入黑名单
	require.NoError(t, s.Logout(ctx, "expired-jti", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists(constant.TokenBlacklistPrefix+"expired-jti"))

	assert.ErrorIs(t, s.Logout(ctx, "", time.Now().Add(time.Hour)), myErrors.ErrUnauthorized)
}

func TestAuthServiceRejectsGarbageToken(t *testing.T) {
	_, s := newTestAuthService(t)
	_, err := s.Authenticate(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, myErrors.ErrUnauthorized)
}
