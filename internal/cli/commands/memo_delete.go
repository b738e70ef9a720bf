package commands

import (
	"context"
	"fmt"

	"SecureMemo/internal/config"
)

type deleteCmd struct{}

func (deleteCmd) Name() string        { return "delete" }
func (deleteCmd) Description() string { return "Удалить заметку" }
func (deleteCmd) Usage() string       { return "delete <id>" }

func (deleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	s, done, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()
	if err := s.app.Memos.Delete(ctx, s.id, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Deleted: %s\n", args[0])
	return nil
}

func init() { RegisterCmd(deleteCmd{}) }
