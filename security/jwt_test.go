package security

import (
	"testing"
	"time"

	commonenums "github.com/Xushengqwer/go-common/models/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/social_service/config"
)

func newTestManager() *TokenManager {
	return NewTokenManager(config.JWTConfig{
		Secret:        "test-secret-key",
		Issuer:        "social_service",
		AccessTTLHour: 24,
	})
}

func TestGenerateAndParse(t *testing.T) {
	m := newTestManager()

	token, expiresAt, err := m.Generate(42, "traveler", commonenums.RoleUser)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "traveler", claims.Username)
	assert.Equal(t, commonenums.RoleUser, claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, "42", claims.Subject)
}

func TestTokenIDsAreUnique(t *testing.T) {
	m := newTestManager()
	a, _, err := m.Generate(1, "a", commonenums.RoleUser)
	require.NoError(t, err)
	b, _, err := m.Generate(1, "a", commonenums.RoleUser)
	require.NoError(t, err)

	ca, err := m.Parse(a)
	require.NoError(t, err)
	cb, err := m.Parse(b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestParseInvalidTokens(t *testing.T) {
	m := newTestManager()
	other := NewTokenManager(config.JWTConfig{Secret: "another-secret", Issuer: "social_service", AccessTTLHour: 1})
	foreign, _, err := other.Generate(1, "x", commonenums.RoleUser)
	require.NoError(t, err)

	wrongIssuer := NewTokenManager(config.JWTConfig{Secret: "test-secret-key", Issuer: "someone-else", AccessTTLHour: 1})
	misissued, _, err := wrongIssuer.Generate(1, "x", commonenums.RoleUser)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "空令牌", token: ""},
		{name: "格式错误", token: "not-a-jwt-token"},
		{name: "三段式但内容非法", token: "invalid.token.string"},
		{name: "其他密钥签发", token: foreign},
		{name: "签发方不匹配", token: misissued},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := m.Parse(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestParseExpiredToken(t *testing.T) {
	m := newTestManager()
	m.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	token, _, err := m.Generate(7, "late", commonenums.RoleUser)
	require.NoError(t, err)

	m.now = time.Now
	claims, err := m.Parse(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
