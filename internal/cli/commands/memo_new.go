package commands

import (
	"context"
	"fmt"
	"strings"

	"SecureMemo/internal/config"
)

type newCmd struct{}

func (newCmd) Name() string        { return "new" }
func (newCmd) Description() string { return "Создать заметку" }
func (newCmd) Usage() string       { return "new <title> [<body>...]" }

func (newCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return ErrUsage
	}
	s, done, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()
	m, err := s.app.Memos.Create(ctx, s.id, args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "Created:")
	fmt.Fprintf(Out, "  id:    %s\n", m.ID)
	fmt.Fprintf(Out, "  title: %s\n", m.Title)
	return nil
}

func init() { RegisterCmd(newCmd{}) }
