package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SecureMemo/internal/cli/repo"
	"SecureMemo/internal/config"
)

type showCmd struct{}

func (showCmd) Name() string        { return "show" }
func (showCmd) Description() string { return "Показать заметку целиком" }
func (showCmd) Usage() string       { return "show <id>" }

func (showCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	s, done, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()
	m, err := s.app.Memos.Get(ctx, s.id, args[0])
	if errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("memo %q not found", args[0])
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "id:      %s\n", m.ID)
	fmt.Fprintf(Out, "title:   %s\n", m.Title)
	fmt.Fprintf(Out, "created: %s\n", m.CreatedAt.Local().Format(time.DateTime))
	fmt.Fprintf(Out, "updated: %s\n", m.UpdatedAt.Local().Format(time.DateTime))
	if m.AudioPath != nil {
		fmt.Fprintf(Out, "audio:   %s\n", *m.AudioPath)
	}
	fmt.Fprintln(Out)
	fmt.Fprintln(Out, m.Content)
	return nil
}

func init() { RegisterCmd(showCmd{}) }
