package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"SecureMemo/internal/cli/model"
	fsrepo "SecureMemo/internal/cli/repo/fs"
	reposqlite "SecureMemo/internal/cli/repo/sqlite"
	"SecureMemo/internal/cli/service"
	"SecureMemo/internal/config"
)

// ErrNeedsMerge — найдено несколько разделов: нужен вход со слиянием (merge) или выбор раздела (use).
var ErrNeedsMerge = errors.New("several partitions found: run 'merge' or 'use <partition>'")

// App — собранные зависимости приложения поверх каталога данных.
type App struct {
	Store   *fsrepo.MemoFSStore
	Index   *reposqlite.PartitionIndexSQLite
	Auth    service.AuthService
	Memos   service.MemoService
	Secrets service.SecretService
	Logger  *zap.SugaredLogger
}

// Open открывает хранилище и индекс разделов, сверяет индекс с каталогом
// и возвращает (app, cleanup, error).
// cleanup необходимо вызвать после окончания работы, чтобы закрыть соединение с БД.
func Open(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*App, func() error, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if err := os.MkdirAll(cfg.StoreDir, 0o700); err != nil {
		return nil, nil, fmt.Errorf("create store dir: %w", err)
	}
	idx, err := reposqlite.Open(cfg.IndexPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open partition index: %w", err)
	}
	var once sync.Once
	var closeErr error
	cleanup := func() error {
		once.Do(func() { closeErr = idx.Close() })
		return closeErr
	}

	store := fsrepo.NewMemoFSStore(fsrepo.NewOSFS(cfg.StoreDir), idx, logger)
	infos, err := store.Scan(ctx)
	if err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("scan store: %w", err)
	}
	if err := idx.Reconcile(ctx, infos); err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("reconcile partition index: %w", err)
	}

	creds := fsrepo.CredentialFSStore{Path: cfg.CredentialFile}
	app := &App{
		Store:   store,
		Index:   idx,
		Auth:    service.NewAuthService(store, creds, idx, logger),
		Memos:   service.NewMemoServiceLocal(store, logger),
		Secrets: service.NewSecretService(fsrepo.NewSecretFSStore(cfg.SecretFile, logger)),
		Logger:  logger,
	}
	return app, cleanup, nil
}

// Unlock получает идентичность для текущего состояния входа. password вызывается,
// только если пароль действительно нужен. В состоянии MultiCredential возвращает ErrNeedsMerge.
func (a *App) Unlock(ctx context.Context, password func() (string, error)) (model.Identity, error) {
	st, _, err := a.Auth.State(ctx)
	if err != nil {
		return model.Identity{}, err
	}
	switch st {
	case service.StateNoCredential:
		return a.Auth.Bootstrap(ctx)
	case service.StateSingleCredential:
		pw, err := password()
		if err != nil {
			return model.Identity{}, err
		}
		return a.Auth.Login(ctx, pw)
	default:
		return model.Identity{}, ErrNeedsMerge
	}
}
