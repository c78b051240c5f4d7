package security

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt 只使用输入的前 72 字节，超出部分会被 GenerateFromPassword 拒绝。
const maxPasswordBytes = 72

// TruncatePassword 按 UTF-8 字节长度截断到 72 字节以内，不会截断在多字节字符中间。
func TruncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) <= maxPasswordBytes {
		return b
	}
	cut := maxPasswordBytes
	for cut > 0 && !utf8.RuneStart(b[cut]) {
		cut--
	}
	return b[:cut]
}

// HashPassword 截断后生成 bcrypt 哈希。
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(TruncatePassword(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("生成密码哈希失败: %w", err)
	}
	return string(hash), nil
}

// CheckPassword 使用与 HashPassword 相同的截断规则比对密码。
func CheckPassword(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), TruncatePassword(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("校验密码失败: %w", err)
}
