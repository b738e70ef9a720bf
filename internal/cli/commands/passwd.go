package commands

import (
	"context"
	"errors"
	"fmt"

	"SecureMemo/internal/config"
)

type passwdCmd struct{}

func (passwdCmd) Name() string { return "passwd" }
func (passwdCmd) Description() string {
	return "Включить или сменить пароль; заметки перешифровываются новым ключом"
}
func (passwdCmd) Usage() string { return "passwd [<new-password>]" }

func (passwdCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return ErrUsage
	}
	s, done, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()

	var next string
	if len(args) == 1 {
		next = args[0]
	} else {
		if next, err = readSecret("New password"); err != nil {
			return err
		}
		confirm, err := readSecret("Repeat new password")
		if err != nil {
			return err
		}
		if confirm != next {
			return errors.New("passwords do not match")
		}
	}
	id, err := s.app.Auth.SetPassword(ctx, s.id, next)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Password set. Partition: %s\n", shortHash(id.Partition))
	return nil
}

func init() { RegisterCmd(passwdCmd{}) }
