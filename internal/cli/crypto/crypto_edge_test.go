package crypto

import (
	"encoding/base64"
	"errors"
	"testing"
)

// Доп.кейс: строка не в base64
func TestDecrypt_InvalidBase64(t *testing.T) {
	_, err := NewPasswordCodec("abcd").Decrypt("%%% not base64 %%%")
	if !errors.Is(err, ErrDecryption) {
		t.Fatalf("expected ErrDecryption for invalid base64, got %v", err)
	}
	if !IsDecryptionError(err) {
		t.Fatalf("expected *DecryptionError, got %T", err)
	}
}

// Доп.кейс: длина не кратна размеру блока
func TestDecrypt_NotBlockMultiple(t *testing.T) {
	text := base64.StdEncoding.EncodeToString([]byte("short"))
	if _, err := NewPasswordCodec("abcd").Decrypt(text); !errors.Is(err, ErrDecryption) {
		t.Fatalf("expected ErrDecryption for partial block, got %v", err)
	}
	if _, err := NewPasswordCodec("abcd").Decrypt(""); !errors.Is(err, ErrDecryption) {
		t.Fatalf("expected ErrDecryption for empty input, got %v", err)
	}
}

// Доп.кейс: испорченный паддинг
func TestDecrypt_BadPadding(t *testing.T) {
	c := NewPasswordCodec("abcd")
	enc, err := c.Encrypt([]byte("payload"))
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := base64.StdEncoding.DecodeString(enc)
	// последний байт открытого текста зависит от последнего блока шифртекста целиком;
	// перебираем варианты, пока не получим невалидный паддинг
	for i := 0; i < 256; i++ {
		raw[len(raw)-1] ^= byte(i)
		if _, err := c.Decrypt(base64.StdEncoding.EncodeToString(raw)); err != nil {
			if !errors.Is(err, ErrDecryption) {
				t.Fatalf("expected ErrDecryption, got %v", err)
			}
			return
		}
	}
	t.Fatalf("no corrupted variant produced a padding error")
}

func TestDecrypt_TrimsSurroundingWhitespace(t *testing.T) {
	c := NewPasswordCodec("abcd")
	enc, _ := c.Encrypt([]byte("x"))
	got, err := c.Decrypt(enc + "\r\n")
	if err != nil || string(got) != "x" {
		t.Fatalf("trailing newline must be ignored: %q %v", got, err)
	}
}

func TestNilCodec(t *testing.T) {
	var c *Codec
	if _, err := c.Encrypt([]byte("x")); err == nil {
		t.Fatalf("nil codec must fail to encrypt")
	}
	if _, err := c.Decrypt("AAAA"); err == nil {
		t.Fatalf("nil codec must fail to decrypt")
	}
}
