package commands

import (
	"context"
	"fmt"

	"SecureMemo/internal/config"
)

type unprotectCmd struct{}

func (unprotectCmd) Name() string { return "unprotect" }
func (unprotectCmd) Description() string {
	return "Отключить пароль; заметки остаются под ключом по умолчанию"
}
func (unprotectCmd) Usage() string { return "unprotect" }

func (unprotectCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	s, done, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()
	if _, err := s.app.Auth.DisablePassword(ctx, s.id); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Password protection disabled. Data stays under default encryption.")
	return nil
}

func init() { RegisterCmd(unprotectCmd{}) }
