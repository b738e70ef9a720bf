package commands

import (
	"context"
	"fmt"
	"time"

	"SecureMemo/internal/config"
)

type listCmd struct{}

func (listCmd) Name() string { return "list" }
func (listCmd) Description() string {
	return "Показать все заметки (новые сверху)"
}
func (listCmd) Usage() string { return "list" }

func (listCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	s, done, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()
	res, err := s.app.Memos.List(ctx, s.id)
	if err != nil {
		return err
	}
	if len(res.Memos) == 0 {
		fmt.Fprintln(Out, "Нет заметок")
	}
	for _, m := range res.Memos {
		fmt.Fprintf(Out, "- %s  %s  (%s)\n", m.ID, m.Title, m.UpdatedAt.Local().Format(time.DateTime))
	}
	if len(res.Memos) > 0 {
		fmt.Fprintf(Out, "Всего: %d\n", len(res.Memos))
	}
	if n := len(res.Skipped); n > 0 {
		fmt.Fprintf(Out, "Пропущено нечитаемых записей: %d (см. adopt)\n", n)
	}
	return nil
}

func init() { RegisterCmd(listCmd{}) }
