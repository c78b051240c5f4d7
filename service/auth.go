package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	commonenums "github.com/Xushengqwer/go-common/models/enums"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/models/entities"
	"github.com/Xushengqwer/social_service/models/vo"
	"github.com/Xushengqwer/social_service/myErrors"
	"github.com/Xushengqwer/social_service/repo/mysql"
	"github.com/Xushengqwer/social_service/repo/redis"
	"github.com/Xushengqwer/social_service/security"
)

// AuthService 注册、登录、登出与令牌校验。
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*vo.UserProfileVO, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*vo.LoginResponse, error)

	// Logout 把 jti 加入黑名单直到令牌本身过期。
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error

	// Authenticate 校验签名、有效期和黑名单。
	Authenticate(ctx context.Context, token string) (*security.Claims, error)
}

type authService struct {
	txs       mysql.TxRunner
	userRepo  mysql.UserRepository
	tokens    *security.TokenManager
	blacklist redis.TokenBlacklist
	logger    *zap.Logger
	now       func() time.Time
}

func NewAuthService(txs mysql.TxRunner, userRepo mysql.UserRepository, tokens *security.TokenManager, blacklist redis.TokenBlacklist, logger *zap.Logger) AuthService {
	return &authService{
		txs:       txs,
		userRepo:  userRepo,
		tokens:    tokens,
		blacklist: blacklist,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*vo.UserProfileVO, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, myErrors.NewSystemError("注册失败", err)
	}
	if exists {
		return nil, myErrors.ErrUsernameTaken
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, myErrors.NewSystemError("注册失败", err)
	}

	nickname := req.Nickname
	if nickname == "" {
		nickname = req.Username
	}
	user := &entities.User{
		Username:     req.Username,
		PasswordHash: hash,
		Email:        req.Email,
		Role:         commonenums.RoleUser,
		Status:       commonenums.StatusActive,
	}
	profile := &entities.UserProfile{Nickname: nickname, Interests: []string{}}

	err = s.txs.InTx(ctx, func(tx *gorm.DB) error {
		return s.userRepo.CreateUser(ctx, tx, user, profile)
	})
	if err != nil {
		// 并发注册同名用户时由唯一索引兜底
		if errors.Is(err, mysql.ErrDuplicateEntry) {
			return nil, myErrors.ErrUsernameTaken
		}
		s.logger.Error("创建用户失败", zap.String("username", req.Username), zap.Error(err))
		return nil, myErrors.NewSystemError("注册失败", err)
	}

	s.logger.Info("新用户注册成功", zap.Uint64("userID", user.ID), zap.String("username", user.Username))
	return vo.NewUserProfileVO(user, profile), nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*vo.LoginResponse, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			return nil, myErrors.ErrBadCredentials
		}
		return nil, myErrors.NewSystemError("登录失败", err)
	}

	ok, err := security.CheckPassword(user.PasswordHash, req.Password)
	if err != nil {
		s.logger.Error("校验密码失败", zap.Uint64("userID", user.ID), zap.Error(err))
		return nil, myErrors.NewSystemError("登录失败", err)
	}
	if !ok {
		return nil, myErrors.ErrBadCredentials
	}
	if user.Status == commonenums.StatusBlacklisted {
		return nil, myErrors.ErrUserDisabled
	}

	token, expiresAt, err := s.tokens.Generate(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, myErrors.NewSystemError("登录失败", err)
	}

	profile, err := s.userRepo.GetProfileByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, commonerrors.ErrRepoNotFound) {
		s.logger.Warn("登录时获取用户资料失败", zap.Uint64("userID", user.ID), zap.Error(err))
	}
	profileVO := vo.NewUserProfileVO(user, profile)
	profileVO.Role = user.Role.String()

	return &vo.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        profileVO,
	}, nil
}

func (s *authService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return myErrors.ErrUnauthorized
	}
	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.Add(ctx, tokenID, ttl); err != nil {
		return myErrors.NewSystemError("登出失败", fmt.Errorf("写入令牌黑名单: %w", err))
	}
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*security.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, security.ErrExpiredToken) {
			return nil, myErrors.ErrTokenExpired
		}
		return nil, myErrors.ErrUnauthorized
	}
	revoked, err := s.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return nil, myErrors.NewSystemError("校验令牌失败", err)
	}
	if revoked {
		return nil, myErrors.ErrUnauthorized
	}
	return claims, nil
}
