package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"SecureMemo/internal/cli/repo"
	"SecureMemo/internal/config"
)

type secretSetCmd struct{}

func (secretSetCmd) Name() string        { return "secret-set" }
func (secretSetCmd) Description() string { return "Сохранить API‑ключ (шифруется ключом по умолчанию)" }
func (secretSetCmd) Usage() string       { return "secret-set [<value>]" }

func (secretSetCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return ErrUsage
	}
	app, done, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()
	var value string
	if len(args) == 1 {
		value = args[0]
	} else if value, err = readSecret("Secret"); err != nil {
		return err
	}
	if err := app.Secrets.SaveSecret(value); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Secret saved")
	return nil
}

type secretGetCmd struct{}

func (secretGetCmd) Name() string        { return "secret-get" }
func (secretGetCmd) Description() string { return "Показать сохранённый API‑ключ" }
func (secretGetCmd) Usage() string       { return "secret-get [--masked]" }

func (secretGetCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	masked := false
	switch {
	case len(args) == 1 && args[0] == "--masked":
		masked = true
	case len(args) != 0:
		return ErrUsage
	}
	app, done, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()
	value, err := app.Secrets.LoadSecret()
	if errors.Is(err, repo.ErrNotFound) {
		fmt.Fprintln(Out, "Secret: <not set>")
		return nil
	}
	if err != nil {
		return err
	}
	if masked {
		value = mask(value)
	}
	fmt.Fprintln(Out, value)
	return nil
}

func mask(v string) string {
	if len(v) <= 4 {
		return strings.Repeat("*", len(v))
	}
	return v[:4] + strings.Repeat("*", len(v)-4)
}

func init() {
	RegisterCmd(secretSetCmd{})
	RegisterCmd(secretGetCmd{})
}
