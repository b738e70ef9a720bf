package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"SecureMemo/internal/cli/crypto"
	"SecureMemo/internal/cli/model"
	"SecureMemo/internal/cli/repo"
)

// MemoPatch — изменяемые поля заметки. nil означает «не менять».
type MemoPatch struct {
	Title     *string
	Content   *string
	AudioPath *string // пустая строка отвязывает аудио
}

// MemoService описывает юзкейс-уровень работы с заметками активной идентичности.
type MemoService interface {
	// Create создаёт заметку с новым id. Пустой title заменяется заголовком по умолчанию.
	Create(ctx context.Context, id model.Identity, title, content string) (model.Memo, error)

	// Update применяет patch к существующей заметке.
	Update(ctx context.Context, id model.Identity, memoID string, patch MemoPatch) (model.Memo, error)

	// Get возвращает заметку или repo.ErrNotFound.
	Get(ctx context.Context, id model.Identity, memoID string) (model.Memo, error)

	// List возвращает все читаемые заметки раздела и список пропущенных записей.
	List(ctx context.Context, id model.Identity) (model.LoadResult, error)

	// Delete удаляет заметку.
	Delete(ctx context.Context, id model.Identity, memoID string) error

	// Adopt перешифровывает активным ключом записи раздела, которые читаются паролем sourcePassword.
	Adopt(ctx context.Context, id model.Identity, sourcePassword string) (model.AdoptReport, error)
}

// MemoServiceLocal — локальная реализация MemoService поверх repo.MemoStore.
type MemoServiceLocal struct {
	store  repo.MemoStore
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewMemoServiceLocal создаёт сервис заметок поверх переданного хранилища.
func NewMemoServiceLocal(store repo.MemoStore, logger *zap.SugaredLogger) *MemoServiceLocal {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &MemoServiceLocal{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

var _ MemoService = (*MemoServiceLocal)(nil)

func (s *MemoServiceLocal) Create(ctx context.Context, id model.Identity, title, content string) (model.Memo, error) {
	if strings.TrimSpace(title) == "" {
		title = model.DefaultTitle
	}
	now := s.now()
	m := model.Memo{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(ctx, id, m); err != nil {
		return model.Memo{}, fmt.Errorf("save memo: %w", err)
	}
	s.logger.Debugw("memo created", "id", m.ID)
	return m, nil
}

func (s *MemoServiceLocal) Update(ctx context.Context, id model.Identity, memoID string, patch MemoPatch) (model.Memo, error) {
	m, err := s.Get(ctx, id, memoID)
	if err != nil {
		return model.Memo{}, err
	}
	if patch.Title != nil {
		m.Title = *patch.Title
		if strings.TrimSpace(m.Title) == "" {
			m.Title = model.DefaultTitle
		}
	}
	if patch.Content != nil {
		m.Content = *patch.Content
	}
	if patch.AudioPath != nil {
		if *patch.AudioPath == "" {
			m.AudioPath = nil
		} else {
			p := *patch.AudioPath
			m.AudioPath = &p
		}
	}
	m.UpdatedAt = s.now()
	if err := s.store.Save(ctx, id, m); err != nil {
		return model.Memo{}, fmt.Errorf("save memo: %w", err)
	}
	return m, nil
}

func (s *MemoServiceLocal) Get(ctx context.Context, id model.Identity, memoID string) (model.Memo, error) {
	m, err := s.store.Load(ctx, id, memoID)
	if err != nil {
		return model.Memo{}, err
	}
	if m == nil {
		return model.Memo{}, repo.ErrNotFound
	}
	return *m, nil
}

func (s *MemoServiceLocal) List(ctx context.Context, id model.Identity) (model.LoadResult, error) {
	res, err := s.store.LoadAll(ctx, id)
	if err != nil {
		return res, err
	}
	if len(res.Skipped) > 0 {
		s.logger.Warnw("unreadable records in partition", "partition", id.Partition, "count", len(res.Skipped))
	}
	return res, nil
}

func (s *MemoServiceLocal) Delete(ctx context.Context, id model.Identity, memoID string) error {
	return s.store.Delete(ctx, id, memoID)
}

func (s *MemoServiceLocal) Adopt(ctx context.Context, id model.Identity, sourcePassword string) (model.AdoptReport, error) {
	var report model.AdoptReport
	if id.IsZero() {
		return report, repo.ErrNoIdentity
	}
	if strings.TrimSpace(sourcePassword) == "" {
		return report, crypto.ErrWeakPassword
	}
	source := crypto.NewPasswordCodec(sourcePassword)

	ids, err := s.store.RecordIDs(ctx, id.Partition)
	if err != nil {
		return report, err
	}
	for _, rid := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		text, err := s.store.ReadRaw(ctx, id.Partition, rid)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return report, err
		}
		if _, err := id.Codec.Decrypt(text); err == nil {
			continue
		}
		plain, err := source.Decrypt(text)
		if err != nil {
			reason := err.Error()
			if crypto.IsDecryptionError(err) {
				reason = "not readable with the supplied password"
			}
			report.Skipped = append(report.Skipped, model.SkippedRecord{File: rid + ".enc", Reason: reason})
			continue
		}
		var m model.Memo
		if err := json.Unmarshal(plain, &m); err != nil {
			report.Skipped = append(report.Skipped, model.SkippedRecord{File: rid + ".enc", Reason: "corrupt record: " + err.Error()})
			continue
		}
		m.ID = rid
		if err := s.store.Save(ctx, id, m); err != nil {
			return report, fmt.Errorf("re-encrypt %s: %w", rid, err)
		}
		report.Adopted = append(report.Adopted, rid)
	}
	s.logger.Infow("records adopted", "partition", id.Partition, "adopted", len(report.Adopted), "skipped", len(report.Skipped))
	return report, nil
}
