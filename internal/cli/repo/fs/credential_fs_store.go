package fs

import (
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"SecureMemo/internal/cli/crypto"
	"SecureMemo/internal/cli/repo"
)

// CredentialFSStore — файловое хранилище хеша пароля (pwd.hash).
// Хеш хранится открытым текстом; защищён только правами доступа к файлу.
type CredentialFSStore struct {
	Path string
}

var _ repo.CredentialStore = CredentialFSStore{}

// Save сохраняет хеш пароля в файл.
func (s CredentialFSStore) Save(hash string) error {
	if hash == "" {
		return errors.New("empty credential hash")
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return newStorageError("mkdir", filepath.Dir(s.Path), err)
	}
	if err := os.WriteFile(s.Path, []byte(hash), 0o600); err != nil {
		return newStorageError("write", s.Path, err)
	}
	return nil
}

// Load читает хеш пароля из файла. Отсутствие файла — repo.ErrNotFound.
func (s CredentialFSStore) Load() (string, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if isNotExist(err) {
			return "", repo.ErrNotFound
		}
		return "", newStorageError("read", s.Path, err)
	}
	b = trimRight(b)
	if len(b) == 0 {
		return "", repo.ErrNotFound
	}
	return string(b), nil
}

// Delete удаляет файл с хешем пароля; отсутствие файла ошибкой не считается.
func (s CredentialFSStore) Delete() error {
	if err := os.Remove(s.Path); err != nil && !isNotExist(err) {
		return newStorageError("remove", s.Path, err)
	}
	return nil
}

// SecretFSStore — файловое хранилище секрета (api.enc). Секрет всегда шифруется
// собственным кодеком ключа по умолчанию, независимо от активной идентичности.
type SecretFSStore struct {
	path   string
	codec  *crypto.Codec
	logger *zap.SugaredLogger
}

var _ repo.SecretStore = (*SecretFSStore)(nil)

// NewSecretFSStore создаёт хранилище секрета по пути path.
func NewSecretFSStore(path string, logger *zap.SugaredLogger) *SecretFSStore {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SecretFSStore{
		path:   path,
		codec:  crypto.NewPasswordCodec(crypto.DefaultPassword),
		logger: logger,
	}
}

// Save шифрует и сохраняет секрет.
func (s *SecretFSStore) Save(value string) error {
	text, err := s.codec.Encrypt([]byte(value))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return newStorageError("mkdir", filepath.Dir(s.path), err)
	}
	if err := os.WriteFile(s.path, []byte(text), 0o600); err != nil {
		return newStorageError("write", s.path, err)
	}
	return nil
}

// Load читает секрет. Отсутствующий или нечитаемый файл — repo.ErrNotFound.
func (s *SecretFSStore) Load() (string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if !isNotExist(err) {
			s.logger.Warnw("secret read failed", "path", s.path, "error", err)
		}
		return "", repo.ErrNotFound
	}
	plain, err := s.codec.Decrypt(string(trimRight(b)))
	if err != nil {
		s.logger.Warnw("secret skipped", "path", s.path, "error", err)
		return "", repo.ErrNotFound
	}
	return string(plain), nil
}

// trimRight обрезает завершающие переводы строки/пробелы.
func trimRight(b []byte) []byte {
	for len(b) > 0 {
		c := b[len(b)-1]
		if c == '\n' || c == '\r' || c == ' ' || c == '\t' {
			b = b[:len(b)-1]
			continue
		}
		break
	}
	return b
}
