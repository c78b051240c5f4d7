package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Xushengqwer/social_service/middleware"
	"github.com/Xushengqwer/social_service/models/dto"
	"github.com/Xushengqwer/social_service/models/vo"
	"github.com/Xushengqwer/social_service/myErrors"
	"github.com/Xushengqwer/social_service/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuthService struct {
	service.AuthService
	loginErr error
}

func (f *fakeAuthService) Login(_ context.Context, req *dto.LoginRequest) (*vo.LoginResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &vo.LoginResponse{}, nil
}

func loginStatus(t *testing.T, svc service.AuthService, body string) (int, int) {
	t.Helper()
	r := gin.New()
	r.Use(middleware.ErrorHandler(zap.NewNop()))
	r.POST("/login", NewAuthController(svc).Login)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var env struct {
		Code int `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w.Code, env.Code
}

// 与 Login 的 @Failure 注解保持一致
func TestLoginFailureStatuses(t *testing.T) {
	status, code := loginStatus(t, &fakeAuthService{loginErr: myErrors.ErrBadCredentials}, `{"username":"alice","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, myErrors.CodeUnauthorized, code)

	status, _ = loginStatus(t, &fakeAuthService{loginErr: myErrors.ErrUserDisabled}, `{"username":"alice","password":"secret"}`)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = loginStatus(t, &fakeAuthService{}, `{"username":""}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = loginStatus(t, &fakeAuthService{}, `{"username":"alice","password":"secret"}`)
	assert.Equal(t, http.StatusOK, status)
}
