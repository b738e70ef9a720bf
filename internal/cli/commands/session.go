package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"SecureMemo/internal/cli/bootstrap"
	"SecureMemo/internal/cli/model"
	"SecureMemo/internal/config"
)

// readSecret запрашивает значение без эха, если In — терминал, иначе читает строку из In.
func readSecret(label string) (string, error) {
	if f, ok := In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprintf(os.Stderr, "%s: ", label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return readLine(In)
}

// readLine читает одну строку побайтно, чтобы не терять ввод между запросами.
func readLine(r io.Reader) (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				break
			}
			sb.WriteByte(buf[0])
		}
		if err == io.EOF {
			if sb.Len() == 0 {
				return "", errors.New("no password provided")
			}
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strings.TrimRight(sb.String(), "\r"), nil
}

// loginPassword — пароль входа: из конфига (MEMO_PASSWORD / -password) или запросом.
func loginPassword(cfg *config.Config) func() (string, error) {
	return func() (string, error) {
		if cfg.Password != "" {
			return cfg.Password, nil
		}
		return readSecret("Password")
	}
}

type identityKey struct{}

// withIdentity кладёт в контекст уже выбранную идентичность (команда use).
func withIdentity(ctx context.Context, id model.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// session — открытое приложение и идентичность для команды.
type session struct {
	app *bootstrap.App
	id  model.Identity
}

// openApp открывает приложение без входа.
func openApp(ctx context.Context, cfg *config.Config) (*bootstrap.App, func() error, error) {
	return bootstrap.Open(ctx, cfg, logger)
}

// openSession открывает приложение и выполняет вход для текущего состояния.
func openSession(ctx context.Context, cfg *config.Config) (*session, func() error, error) {
	app, done, err := openApp(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if id, ok := ctx.Value(identityKey{}).(model.Identity); ok && !id.IsZero() {
		return &session{app: app, id: id}, done, nil
	}
	id, err := app.Unlock(ctx, loginPassword(cfg))
	if err != nil {
		_ = done()
		return nil, nil, err
	}
	return &session{app: app, id: id}, done, nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12] + "…"
	}
	return h
}
