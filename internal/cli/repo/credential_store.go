package repo

// CredentialStore описывает хранилище хеша пароля на клиенте.
type CredentialStore interface {
	Save(hash string) error
	Load() (string, error)
	Delete() error
}

// SecretStore описывает хранилище единственного секрета (API‑ключа),
// зашифрованного ключом по умолчанию.
type SecretStore interface {
	Save(value string) error
	Load() (string, error)
}
