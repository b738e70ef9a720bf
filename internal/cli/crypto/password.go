package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength — минимальная длина пароля в символах.
const MinPasswordLength = 4

// HashPassword возвращает необратимый идентификатор пароля: base64url(SHA256(password)).
// Он же служит именем раздела (каталога) хранилища, поэтому используется URL‑безопасный алфавит.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return base64.URLEncoding.EncodeToString(sum[:])
}

// VerifyPassword пересчитывает хеш и сравнивает его с сохранённым.
func VerifyPassword(password, storedHash string) bool {
	if storedHash == "" {
		return false
	}
	got := HashPassword(password)
	return subtle.ConstantTimeCompare([]byte(got), []byte(storedHash)) == 1
}

// ValidatePassword отклоняет пустые, состоящие из пробелов и короткие пароли.
func ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return ErrWeakPassword
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}
