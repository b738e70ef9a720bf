package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"errors"
)

// keyLen — длина ключа для AES‑256 (в байтах).
const keyLen = 32

// ivLen — длина вектора инициализации (размер блока AES).
const ivLen = aes.BlockSize

// DefaultPassword — фиксированный пароль «ключа по умолчанию».
// Используется, когда пользователь не включил защиту паролем, и всегда — для секрета (API‑ключа).
const DefaultPassword = "SecureMemoDefaultKey"

// KeyMaterial — пара ключ + IV, полученная из пароля.
type KeyMaterial struct {
	Key [keyLen]byte
	IV  [ivLen]byte
}

// DeriveKey получает ключ и IV из пароля: key = SHA256(password), iv = SHA256(password+"IV")[:16].
// Детерминирована и не возвращает ошибок; пустой пароль должен отсекаться раньше (ValidatePassword).
func DeriveKey(password string) KeyMaterial {
	var km KeyMaterial
	km.Key = sha256.Sum256([]byte(password))
	ivSum := sha256.Sum256([]byte(password + "IV"))
	copy(km.IV[:], ivSum[:ivLen])
	return km
}

// Codec шифрует и расшифровывает данные под фиксированной парой ключ/IV.
// Неизменяем после создания, поэтому безопасен для конкурентного использования.
type Codec struct {
	block cipher.Block
	iv    [ivLen]byte
}

// NewCodec создаёт кодек для переданного ключевого материала.
func NewCodec(km KeyMaterial) *Codec {
	// aes.NewCipher возвращает ошибку только при неверной длине ключа, а она здесь фиксирована
	block, err := aes.NewCipher(km.Key[:])
	if err != nil {
		panic(err)
	}
	return &Codec{block: block, iv: km.IV}
}

// NewPasswordCodec — сокращение для NewCodec(DeriveKey(password)).
func NewPasswordCodec(password string) *Codec {
	return NewCodec(DeriveKey(password))
}

// Encrypt шифрует plain в режиме AES‑CBC с PKCS#7 и возвращает base64‑строку.
func (c *Codec) Encrypt(plain []byte) (string, error) {
	if c == nil {
		return "", errors.New("nil codec")
	}
	padded := pad(plain, aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, c.iv[:]).CryptBlocks(out, padded)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt расшифровывает base64‑строку, полученную из Encrypt.
// Любая ошибка формата или паддинга возвращается как *DecryptionError.
func (c *Codec) Decrypt(text string) ([]byte, error) {
	if c == nil {
		return nil, errors.New("nil codec")
	}
	raw, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace([]byte(text))))
	if err != nil {
		return nil, newDecryptionError("invalid base64", err)
	}
	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return nil, newDecryptionError("ciphertext is not a multiple of the block size", nil)
	}
	out := make([]byte, len(raw))
	cipher.NewCBCDecrypter(c.block, c.iv[:]).CryptBlocks(out, raw)
	plain, err := unpad(out, aes.BlockSize)
	if err != nil {
		return nil, newDecryptionError("invalid padding", err)
	}
	return plain, nil
}

// pad дополняет данные по PKCS#7; всегда добавляет хотя бы один байт.
func pad(b []byte, size int) []byte {
	n := size - len(b)%size
	out := make([]byte, len(b), len(b)+n)
	copy(out, b)
	return append(out, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(b []byte, size int) ([]byte, error) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, errors.New("bad length")
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, errors.New("bad pad byte")
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, errors.New("bad pad byte")
		}
	}
	return b[:len(b)-n], nil
}
