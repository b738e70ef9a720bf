package commands

import (
	"context"
	"fmt"

	"SecureMemo/internal/cli/model"
	"SecureMemo/internal/config"
)

type useCmd struct{}

func (useCmd) Name() string { return "use" }
func (useCmd) Description() string {
	return "Выполнить команду в одном разделе без слияния (остальные разделы не трогаются)"
}
func (useCmd) Usage() string { return "use <partition> <command> [args]" }

func (useCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	partition, name := args[0], args[1]
	c, ok := Get(name)
	if !ok || name == "use" {
		return ErrUsage
	}

	app, done, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	pw := ""
	if partition != model.DefaultPartition {
		if pw, err = loginPassword(cfg)(); err != nil {
			_ = done()
			return err
		}
	}
	id, err := app.Auth.Select(ctx, partition, pw)
	_ = done()
	if err != nil {
		return err
	}
	if err := c.Run(withIdentity(ctx, id), cfg, args[2:]); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func init() { RegisterCmd(useCmd{}) }
