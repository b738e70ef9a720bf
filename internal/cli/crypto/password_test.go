package crypto

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	for _, pw := range []string{"abcd", "wxyz", DefaultPassword, "длинный пароль с пробелами"} {
		h := HashPassword(pw)
		assert.True(t, VerifyPassword(pw, h), "verify(P, hash(P)) must hold for %q", pw)
		assert.False(t, VerifyPassword(pw+"!", h))
	}
	assert.False(t, VerifyPassword("abcd", HashPassword("wxyz")))
	assert.False(t, VerifyPassword("abcd", ""))
}

func TestHashPassword_FilesystemSafe(t *testing.T) {
	// перебираем пароли, чтобы в стандартном base64 гарантированно встретились '/' и '+'
	for i := 0; i < 200; i++ {
		h := HashPassword(strings.Repeat("p", i+1))
		assert.NotContains(t, h, "/")
		assert.NotContains(t, h, "+")
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		pw   string
		weak bool
	}{
		{"", true},
		{"    ", true},
		{"abc", true},
		{"abcd", false},
		{"пароль", false},
		{"ab c", false},
	}
	for _, c := range cases {
		err := ValidatePassword(c.pw)
		if c.weak {
			assert.True(t, errors.Is(err, ErrWeakPassword), "password %q must be rejected", c.pw)
		} else {
			assert.NoError(t, err, "password %q must be accepted", c.pw)
		}
	}
}
