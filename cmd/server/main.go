package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"SecureMemo/internal/cli/auth"
	"SecureMemo/internal/cli/bootstrap"
	"SecureMemo/internal/config"
	"SecureMemo/internal/handlers"
	"SecureMemo/internal/logger"
	"SecureMemo/internal/middleware"
)

func main() {
	cfg := config.NewConfig()

	sugar, sync, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app, done, err := bootstrap.Open(ctx, cfg, sugar)
	if err != nil {
		sugar.Fatalw("failed to open store", "error", err)
	}
	defer done()

	// в MultiCredential сервер не стартует: сначала memo merge или memo use
	id, err := app.Unlock(ctx, func() (string, error) { return serverPassword(cfg) })
	if err != nil {
		sugar.Fatalw("unlock failed", "error", err)
	}

	token, err := middleware.IssueToken(cfg.AuthSecret, id.Partition, middleware.TokenTTL)
	if err != nil {
		sugar.Fatalw("failed to issue token", "error", err)
	}
	if err := auth.SaveToken(cfg.TokenFile, token); err != nil {
		sugar.Fatalw("failed to save token", "path", cfg.TokenFile, "error", err)
	}
	defer func() {
		if err := auth.RemoveToken(cfg.TokenFile); err != nil {
			sugar.Warnw("failed to remove token", "error", err)
		}
	}()

	h := handlers.NewHandler(app.Memos, app.Auth, id, sugar, cfg)
	srv := &http.Server{
		Addr:              cfg.BaseURL,
		Handler:           h.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	sugar.Infow("Starting server",
		"addr", cfg.BaseURL,
		"home", cfg.Home,
		"token_file", cfg.TokenFile,
	)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Errorw("Server failed", "error", err)
		}
	case <-ctx.Done():
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Warnw("shutdown", "error", err)
		}
		sugar.Infow("Server stopped")
	}
}

// serverPassword — пароль из конфига или запрос в терминале.
func serverPassword(cfg *config.Config) (string, error) {
	if cfg.Password != "" {
		return cfg.Password, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("password required: set MEMO_PASSWORD or -password")
	}
	fmt.Fprint(os.Stderr, "Password: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	return string(b), err
}
