package middleware

import (
	"context"
	"strings"
	"time"

	commonenums "github.com/Xushengqwer/go-common/models/enums"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/social_service/constant"
	"github.com/Xushengqwer/social_service/myErrors"
	"github.com/Xushengqwer/social_service/response"
	"github.com/Xushengqwer/social_service/security"
)

// TokenAuthenticator 校验访问令牌，service.AuthService 实现该接口。
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*security.Claims, error)
}

// JWTAuth 要求请求携带有效的 Bearer 令牌。
func JWTAuth(auth TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortWith(c, myErrors.ErrUnauthorized)
			return
		}
		claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortWith(c, err)
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalJWTAuth 有令牌时解析并写入上下文，无令牌或令牌无效时按匿名用户继续。
func OptionalJWTAuth(auth TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := auth.Authenticate(c.Request.Context(), token); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// RequireRole 必须挂在 JWTAuth 之后。
func RequireRole(roles ...commonenums.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(constant.ContextRoleKey)
		for _, r := range roles {
			if ok && role == r {
				c.Next()
				return
			}
		}
		abortWith(c, myErrors.ErrForbidden)
	}
}

// GetUserID 返回当前登录用户 ID，匿名请求返回 (0, false)。
func GetUserID(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(constant.ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok && id != 0
}

// GetTokenInfo 返回当前令牌的 jti 与过期时间，供登出使用。
func GetTokenInfo(c *gin.Context) (string, time.Time) {
	exp, _ := c.Get(constant.ContextTokenExpKey)
	expiresAt, _ := exp.(time.Time)
	return c.GetString(constant.ContextTokenIDKey), expiresAt
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || token == "null" {
		return "", false
	}
	return token, true
}

func setClaims(c *gin.Context, claims *security.Claims) {
	c.Set(constant.ContextUserIDKey, claims.UserID)
	c.Set(constant.ContextUsernameKey, claims.Username)
	c.Set(constant.ContextRoleKey, claims.Role)
	c.Set(constant.ContextTokenIDKey, claims.ID)
	if claims.ExpiresAt != nil {
		c.Set(constant.ContextTokenExpKey, claims.ExpiresAt.Time)
	}
}

func abortWith(c *gin.Context, err error) {
	status, code, msg := Classify(err)
	response.AbortWithError(c, status, code, msg)
}
