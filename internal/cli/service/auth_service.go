package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"SecureMemo/internal/cli/crypto"
	"SecureMemo/internal/cli/model"
	"SecureMemo/internal/cli/repo"
)

var (
	// ErrWrongState — операция недоступна в текущем состоянии входа.
	ErrWrongState = errors.New("operation not allowed in current login state")
	// ErrInvalidCredential — пароль не подходит ни к сохранённому хешу, ни к известному разделу.
	ErrInvalidCredential = errors.New("invalid password")
)

// State — состояние входа, определяемое по файлу пароля и известным разделам.
type State int

const (
	// StateNoCredential — пароль не задан, работаем с разделом по умолчанию.
	StateNoCredential State = iota
	// StateSingleCredential — пароль задан, раздел не больше одного.
	StateSingleCredential
	// StateMultiCredential — пароль задан, разделов несколько: нужен вход со слиянием или выбор раздела.
	StateMultiCredential
	// StateAuthenticated — у вызывающего есть Identity. State() его не возвращает:
	// сервис не хранит идентичность, она передаётся в каждый вызов.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateNoCredential:
		return "no-credential"
	case StateSingleCredential:
		return "single-credential"
	case StateMultiCredential:
		return "multi-credential"
	case StateAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// AuthService описывает юзкейс-уровень входа: определение состояния, вход, слияние разделов,
// смена и отключение пароля.
type AuthService interface {
	// State определяет состояние входа и возвращает известные разделы.
	State(ctx context.Context) (State, []model.PartitionInfo, error)

	// Bootstrap возвращает идентичность по умолчанию, если пароль не задан.
	Bootstrap(ctx context.Context) (model.Identity, error)

	// Login проверяет пароль по сохранённому хешу.
	Login(ctx context.Context, password string) (model.Identity, error)

	// MergeLogin входит в раздел пароля и переносит в него записи остальных разделов.
	MergeLogin(ctx context.Context, password string) (model.Identity, model.MergeReport, error)

	// Select открывает один раздел без слияния.
	Select(ctx context.Context, partition, password string) (model.Identity, error)

	// SetPassword включает или меняет пароль и перешифровывает записи в новый раздел.
	SetPassword(ctx context.Context, current model.Identity, newPassword string) (model.Identity, error)

	// DisablePassword удаляет пароль и перешифровывает записи ключом по умолчанию.
	DisablePassword(ctx context.Context, current model.Identity) (model.Identity, error)
}

type authService struct {
	store  repo.MemoStore
	creds  repo.CredentialStore
	index  repo.PartitionIndex
	logger *zap.SugaredLogger
}

// NewAuthService создаёт сервис входа. index может быть nil — тогда разделы определяются сканированием хранилища.
func NewAuthService(store repo.MemoStore, creds repo.CredentialStore, index repo.PartitionIndex, logger *zap.SugaredLogger) AuthService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &authService{store: store, creds: creds, index: index, logger: logger}
}

func (s *authService) partitions(ctx context.Context) ([]model.PartitionInfo, error) {
	if s.index != nil {
		return s.index.List(ctx)
	}
	names, err := s.store.ListPartitions(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]model.PartitionInfo, 0, len(names))
	for _, name := range names {
		n, err := s.store.CountRecords(ctx, name)
		if err != nil {
			return nil, err
		}
		infos = append(infos, model.PartitionInfo{Hash: name, Records: n})
	}
	return infos, nil
}

func (s *authService) storedHash() (string, bool, error) {
	hash, err := s.creds.Load()
	if errors.Is(err, repo.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return hash, true, nil
}

func (s *authService) State(ctx context.Context) (State, []model.PartitionInfo, error) {
	infos, err := s.partitions(ctx)
	if err != nil {
		return StateNoCredential, nil, fmt.Errorf("list partitions: %w", err)
	}
	_, ok, err := s.storedHash()
	if err != nil {
		return StateNoCredential, infos, fmt.Errorf("load credential: %w", err)
	}
	switch {
	case !ok:
		return StateNoCredential, infos, nil
	case len(infos) > 1:
		return StateMultiCredential, infos, nil
	default:
		return StateSingleCredential, infos, nil
	}
}

func (s *authService) expect(ctx context.Context, want State) ([]model.PartitionInfo, error) {
	st, infos, err := s.State(ctx)
	if err != nil {
		return nil, err
	}
	if st != want {
		return nil, fmt.Errorf("%w: %s (expected %s)", ErrWrongState, st, want)
	}
	return infos, nil
}

func (s *authService) Bootstrap(ctx context.Context) (model.Identity, error) {
	if _, err := s.expect(ctx, StateNoCredential); err != nil {
		return model.Identity{}, err
	}
	return model.DefaultIdentity(), nil
}

func (s *authService) Login(ctx context.Context, password string) (model.Identity, error) {
	if strings.TrimSpace(password) == "" {
		return model.Identity{}, crypto.ErrWeakPassword
	}
	if _, err := s.expect(ctx, StateSingleCredential); err != nil {
		return model.Identity{}, err
	}
	hash, _, err := s.storedHash()
	if err != nil {
		return model.Identity{}, err
	}
	if !crypto.VerifyPassword(password, hash) {
		s.logger.Warnw("login failed")
		return model.Identity{}, ErrInvalidCredential
	}
	s.logger.Debugw("login ok", "partition", hash)
	return model.NewIdentity(hash, password), nil
}

func (s *authService) MergeLogin(ctx context.Context, password string) (model.Identity, model.MergeReport, error) {
	var report model.MergeReport
	if strings.TrimSpace(password) == "" {
		return model.Identity{}, report, crypto.ErrWeakPassword
	}
	infos, err := s.expect(ctx, StateMultiCredential)
	if err != nil {
		return model.Identity{}, report, err
	}
	target := ""
	var sources []string
	for _, in := range infos {
		if target == "" && crypto.VerifyPassword(password, in.Hash) {
			target = in.Hash
			continue
		}
		sources = append(sources, in.Hash)
	}
	if target == "" {
		s.logger.Warnw("merge login failed: password matches no partition", "partitions", len(infos))
		return model.Identity{}, report, ErrInvalidCredential
	}

	// файл пароля пишется до переноса: при сбое merge состояние остаётся MultiCredential
	if err := s.creds.Save(target); err != nil {
		return model.Identity{}, report, fmt.Errorf("save credential: %w", err)
	}
	report, err = s.store.Merge(ctx, sources, target)
	if err != nil {
		return model.Identity{}, report, fmt.Errorf("merge partitions: %w", err)
	}
	return model.NewIdentity(target, password), report, nil
}

func (s *authService) Select(ctx context.Context, partition, password string) (model.Identity, error) {
	infos, err := s.expect(ctx, StateMultiCredential)
	if err != nil {
		return model.Identity{}, err
	}
	known := false
	for _, in := range infos {
		if in.Hash == partition {
			known = true
			break
		}
	}
	if !known {
		return model.Identity{}, fmt.Errorf("%w: unknown partition %q", ErrInvalidCredential, partition)
	}
	if partition == model.DefaultPartition {
		return model.DefaultIdentity(), nil
	}
	if !crypto.VerifyPassword(password, partition) {
		return model.Identity{}, ErrInvalidCredential
	}
	s.logger.Infow("partition selected without merge", "partition", partition, "orphaned", len(infos)-1)
	return model.NewIdentity(partition, password), nil
}

func (s *authService) SetPassword(ctx context.Context, current model.Identity, newPassword string) (model.Identity, error) {
	if current.IsZero() {
		return model.Identity{}, fmt.Errorf("%w: not authenticated", ErrWrongState)
	}
	if err := crypto.ValidatePassword(newPassword); err != nil {
		return model.Identity{}, err
	}
	hash := crypto.HashPassword(newPassword)
	next := model.NewIdentity(hash, newPassword)
	err := s.switchPartition(ctx, current, next, func() error {
		if err := s.creds.Save(hash); err != nil {
			return fmt.Errorf("save credential: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Identity{}, err
	}
	s.logger.Infow("password set", "partition", hash)
	return next, nil
}

func (s *authService) DisablePassword(ctx context.Context, current model.Identity) (model.Identity, error) {
	if current.IsZero() {
		return model.Identity{}, fmt.Errorf("%w: not authenticated", ErrWrongState)
	}
	next := model.DefaultIdentity()
	err := s.switchPartition(ctx, current, next, func() error {
		if err := s.creds.Delete(); err != nil {
			return fmt.Errorf("delete credential: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Identity{}, err
	}
	s.logger.Infow("password disabled")
	return next, nil
}

// copied — запись, перешифрованная в новый раздел: старый и новый id.
type copied struct{ from, to string }

// switchPartition переносит записи from → to в три шага: копия под новым ключом,
// commit (запись/удаление файла пароля), удаление старых копий.
// До успешного commit старый раздел не трогается; при ошибке копии откатываются.
func (s *authService) switchPartition(ctx context.Context, from, to model.Identity, commit func() error) error {
	if from.Partition == to.Partition {
		return commit()
	}
	res, err := s.store.LoadAll(ctx, from)
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}
	existing, err := s.store.RecordIDs(ctx, to.Partition)
	if err != nil {
		return fmt.Errorf("list target records: %w", err)
	}
	taken := make(map[string]bool, len(existing))
	for _, id := range existing {
		taken[id] = true
	}

	done := make([]copied, 0, len(res.Memos))
	for _, m := range res.Memos {
		oldID := m.ID
		for taken[m.ID] {
			m.ID = uuid.NewString()
		}
		taken[m.ID] = true
		if err := s.store.Save(ctx, to, m); err != nil {
			s.rollback(ctx, to, done, len(existing) == 0)
			return fmt.Errorf("re-encrypt %s: %w", oldID, err)
		}
		done = append(done, copied{from: oldID, to: m.ID})
	}

	if err := commit(); err != nil {
		s.rollback(ctx, to, done, len(existing) == 0)
		return err
	}

	// после commit ошибки только логируются: данные уже читаются новым ключом
	for _, c := range done {
		if err := s.store.Delete(ctx, from, c.from); err != nil {
			s.logger.Warnw("old record not removed", "partition", from.Partition, "id", c.from, "error", err)
		}
	}
	if len(res.Skipped) > 0 {
		s.logger.Warnw("records left in old partition", "partition", from.Partition, "count", len(res.Skipped))
		return nil
	}
	if err := s.store.RemovePartition(ctx, from.Partition); err != nil {
		s.logger.Warnw("old partition not removed", "partition", from.Partition, "error", err)
	}
	return nil
}

// rollback удаляет скопированные записи; пустой до копирования раздел удаляется целиком.
func (s *authService) rollback(ctx context.Context, to model.Identity, done []copied, wasEmpty bool) {
	for _, c := range done {
		if err := s.store.Delete(ctx, to, c.to); err != nil {
			s.logger.Warnw("rollback: copy not removed", "partition", to.Partition, "id", c.to, "error", err)
		}
	}
	if wasEmpty {
		if err := s.store.RemovePartition(ctx, to.Partition); err != nil {
			s.logger.Warnw("rollback: partition not removed", "partition", to.Partition, "error", err)
		}
	}
}
