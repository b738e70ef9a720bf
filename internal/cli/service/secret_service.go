package service

import (
	"errors"
	"strings"

	"SecureMemo/internal/cli/repo"
)

// SecretService — сохранение и чтение секрета (API‑ключа), не зависящего от активной идентичности.
type SecretService interface {
	SaveSecret(value string) error
	// LoadSecret возвращает repo.ErrNotFound, если секрет не сохранён или не читается.
	LoadSecret() (string, error)
}

type secretService struct {
	store repo.SecretStore
}

// NewSecretService создаёт сервис секрета.
func NewSecretService(store repo.SecretStore) SecretService {
	return &secretService{store: store}
}

func (s *secretService) SaveSecret(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return errors.New("empty secret")
	}
	return s.store.Save(value)
}

func (s *secretService) LoadSecret() (string, error) {
	return s.store.Load()
}
