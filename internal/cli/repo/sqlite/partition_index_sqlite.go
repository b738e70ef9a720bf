package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"SecureMemo/internal/cli/model"
	"SecureMemo/internal/cli/repo"
)

// Partition — строка индекса: известный раздел и число записей в нём.
type Partition struct {
	Hash      string `gorm:"primaryKey;size:64"`
	Records   int    `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

// PartitionIndexSQLite — индекс разделов в локальном файле SQLite (modernc.org/sqlite).
type PartitionIndexSQLite struct {
	db *gorm.DB
}

var _ repo.PartitionIndex = (*PartitionIndexSQLite)(nil)

// Open открывает (и создаёт при необходимости) файл индекса и применяет миграции.
// Путь ":memory:" даёт индекс в памяти.
func Open(path string) (*PartitionIndexSQLite, error) {
	if path == "" {
		return nil, errors.New("empty index path")
	}
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, err
		}
	} else {
		dsn = "file::memory:"
	}
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	// SQLite не любит конкурентную запись из нескольких соединений
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&Partition{}); err != nil {
		return nil, err
	}
	return &PartitionIndexSQLite{db: db}, nil
}

// Close закрывает соединение с БД.
func (r *PartitionIndexSQLite) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Upsert создаёт или обновляет запись раздела.
func (r *PartitionIndexSQLite) Upsert(ctx context.Context, hash string, records int) error {
	return upsert(r.db.WithContext(ctx), hash, records)
}

func upsert(tx *gorm.DB, hash string, records int) error {
	p := &Partition{Hash: hash, Records: records, UpdatedAt: time.Now().UTC()}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hash"}},
		DoUpdates: clause.AssignmentColumns([]string{"records", "updated_at"}),
	}).Create(p).Error
}

// Remove удаляет раздел из индекса; отсутствие записи не ошибка.
func (r *PartitionIndexSQLite) Remove(ctx context.Context, hash string) error {
	return r.db.WithContext(ctx).Where("hash = ?", hash).Delete(&Partition{}).Error
}

// List возвращает все известные разделы, отсортированные по hash.
func (r *PartitionIndexSQLite) List(ctx context.Context) ([]model.PartitionInfo, error) {
	var rows []Partition
	if err := r.db.WithContext(ctx).Order("hash").Find(&rows).Error; err != nil {
		return nil, err
	}
	res := make([]model.PartitionInfo, 0, len(rows))
	for _, p := range rows {
		res = append(res, model.PartitionInfo{Hash: p.Hash, Records: p.Records, UpdatedAt: p.UpdatedAt})
	}
	return res, nil
}

// Reconcile заменяет содержимое индекса результатом сканирования каталога хранилища.
func (r *PartitionIndexSQLite) Reconcile(ctx context.Context, infos []model.PartitionInfo) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Partition{}).Error; err != nil {
			return err
		}
		for _, in := range infos {
			if err := upsert(tx, in.Hash, in.Records); err != nil {
				return err
			}
		}
		return nil
	})
}

// ApplyMerge фиксирует итог слияния: обновляет target и удаляет источники.
func (r *PartitionIndexSQLite) ApplyMerge(ctx context.Context, target string, records int, removed []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(removed) > 0 {
			if err := tx.Where("hash IN ? AND hash <> ?", removed, target).Delete(&Partition{}).Error; err != nil {
				return err
			}
		}
		return upsert(tx, target, records)
	})
}
