package repo

import (
	"context"
	"errors"

	"SecureMemo/internal/cli/model"
)

var (
	// ErrNotFound — запрошенное значение отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrNoIdentity — операция вызвана без активной идентичности.
	ErrNoIdentity = errors.New("no active identity")
	// ErrInvalidName — id заметки или имя раздела непригодны как имя файла.
	ErrInvalidName = errors.New("invalid name")
)

// MemoStore определяет порт доступа к зашифрованным заметкам.
// Все операции явно получают идентичность, в разделе которой выполняются.
type MemoStore interface {
	// Save шифрует и сохраняет заметку, перезаписывая запись с тем же id.
	Save(ctx context.Context, id model.Identity, memo model.Memo) error

	// Load возвращает заметку или nil, если записи нет либо её не удалось расшифровать.
	Load(ctx context.Context, id model.Identity, memoID string) (*model.Memo, error)

	// LoadAll читает все записи раздела; нечитаемые попадают в Skipped.
	LoadAll(ctx context.Context, id model.Identity) (model.LoadResult, error)

	// Delete удаляет запись; отсутствие записи ошибкой не считается.
	Delete(ctx context.Context, id model.Identity, memoID string) error

	// ListPartitions возвращает имена всех разделов.
	ListPartitions(ctx context.Context) ([]string, error)

	// CountRecords считает записи раздела без расшифровки.
	CountRecords(ctx context.Context, partition string) (int, error)

	// Merge переносит записи из разделов sources в target.
	Merge(ctx context.Context, sources []string, target string) (model.MergeReport, error)

	// ReadRaw возвращает шифртекст записи как есть (для перешифрования); repo.ErrNotFound, если записи нет.
	ReadRaw(ctx context.Context, partition, memoID string) (string, error)

	// RecordIDs возвращает id всех записей раздела.
	RecordIDs(ctx context.Context, partition string) ([]string, error)

	// RemovePartition удаляет пустой раздел.
	RemovePartition(ctx context.Context, partition string) error
}
