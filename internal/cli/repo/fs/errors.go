package fs

import (
	"errors"
	"fmt"
	"regexp"

	"SecureMemo/internal/cli/repo"
)

// ErrStorage — общий признак ошибки файловой системы хранилища.
var ErrStorage = errors.New("storage error")

// StorageError represents a file system failure of the store.
type StorageError struct {
	Op   string // "mkdir", "write", "rename", "remove", "list", ...
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is позволяет проверять errors.Is(err, ErrStorage).
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

func newStorageError(op, path string, err error) error {
	return &StorageError{Op: op, Path: path, Err: err}
}

var nameRe = regexp.MustCompile(`^[A-Za-z0-9_=-][A-Za-z0-9._=-]*$`)

// ValidateName проверяет, что id заметки или имя раздела безопасны как имя файла.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", repo.ErrInvalidName)
	}
	if !nameRe.MatchString(name) {
		return fmt.Errorf("%w: %q (allowed: letters, digits, . _ = -)", repo.ErrInvalidName, name)
	}
	return nil
}
