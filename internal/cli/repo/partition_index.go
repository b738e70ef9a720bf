package repo

import (
	"context"

	"SecureMemo/internal/cli/model"
)

// PartitionIndex — персистентный реестр известных разделов с количеством записей.
type PartitionIndex interface {
	Upsert(ctx context.Context, hash string, records int) error
	Remove(ctx context.Context, hash string) error
	List(ctx context.Context) ([]model.PartitionInfo, error)
	// Reconcile заменяет содержимое индекса результатом сканирования каталога.
	Reconcile(ctx context.Context, infos []model.PartitionInfo) error
	// ApplyMerge обновляет target и удаляет опустевшие источники одной транзакцией.
	ApplyMerge(ctx context.Context, target string, records int, removed []string) error
}
