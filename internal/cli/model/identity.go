package model

import (
	"time"

	"SecureMemo/internal/cli/crypto"
)

// DefaultPartition — имя раздела, используемого без пароля.
const DefaultPartition = "default"

// Identity — активная идентичность сессии: раздел (хеш пароля) и кодек, полученный из пароля.
// Передаётся явно в каждый вызов хранилища.
type Identity struct {
	Partition string
	Codec     *crypto.Codec
}

// NewIdentity строит идентичность из раздела и пароля.
func NewIdentity(partition, password string) Identity {
	return Identity{Partition: partition, Codec: crypto.NewPasswordCodec(password)}
}

// DefaultIdentity возвращает идентичность раздела по умолчанию.
func DefaultIdentity() Identity {
	return NewIdentity(DefaultPartition, crypto.DefaultPassword)
}

// IsZero reports whether the identity is unset.
func (i Identity) IsZero() bool {
	return i.Partition == "" || i.Codec == nil
}

// PartitionInfo — известный раздел и число записей в нём.
type PartitionInfo struct {
	Hash      string
	Records   int
	UpdatedAt time.Time
}

// Rename — переименование записи при слиянии из-за совпадения id.
type Rename struct {
	Source string
	From   string
	To     string
}

// MergeReport — итог слияния разделов.
type MergeReport struct {
	Target          string
	Moved           int
	Renamed         []Rename
	SkippedSources  []string // разделы, которых не было на диске
	LeftoverSources []string // разделы, каталог которых не удалось удалить
}

// AdoptReport — итог перешифрования записей под активный ключ.
type AdoptReport struct {
	Adopted []string
	Skipped []SkippedRecord
}
