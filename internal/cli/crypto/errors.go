package crypto

import (
	"errors"
	"fmt"
)

var (
	// ErrDecryption — общий признак ошибки расшифровки (неверный ключ, формат или паддинг).
	ErrDecryption = errors.New("decryption failed")
	// ErrWeakPassword — пароль пустой или слишком короткий.
	ErrWeakPassword = errors.New("password is empty or too short")
)

// DecryptionError описывает причину, по которой шифртекст не удалось расшифровать.
type DecryptionError struct {
	Reason string
	Err    error
}

func (e *DecryptionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decryption failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decryption failed: %s", e.Reason)
}

func (e *DecryptionError) Unwrap() error {
	return e.Err
}

// Is позволяет проверять errors.Is(err, ErrDecryption).
func (e *DecryptionError) Is(target error) bool {
	return target == ErrDecryption
}

func newDecryptionError(reason string, err error) error {
	return &DecryptionError{Reason: reason, Err: err}
}

// IsDecryptionError checks if an error is a decryption error.
func IsDecryptionError(err error) bool {
	var de *DecryptionError
	return errors.As(err, &de)
}
