package security

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantLen  int
	}{
		{name: "短密码不截断", password: "secret123", wantLen: 9},
		{name: "恰好72字节", password: strings.Repeat("a", 72), wantLen: 72},
		{name: "超长ASCII截断到72字节", password: strings.Repeat("a", 100), wantLen: 72},
		{name: "多字节字符恰好落在边界", password: strings.Repeat("中", 25), wantLen: 72},
		{name: "多字节字符跨越边界时回退", password: "a" + strings.Repeat("中", 25), wantLen: 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncatePassword(tt.password)
			assert.Len(t, got, tt.wantLen)
			assert.True(t, utf8.Valid(got))
			assert.True(t, strings.HasPrefix(tt.password, string(got)))
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	ok, err := CheckPassword(hash, "correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hash, "wrong password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordLongInput(t *testing.T) {
	long := strings.Repeat("密", 40) // 120 字节
	hash, err := HashPassword(long)
	require.NoError(t, err)

	// 前 72 字节相同的密码视为同一密码
	ok, err := CheckPassword(hash, strings.Repeat("密", 24)+"whatever")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hash, strings.Repeat("密", 23))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	ok, err := CheckPassword("not-a-bcrypt-hash", "whatever")
	assert.Error(t, err)
	assert.False(t, ok)
}
