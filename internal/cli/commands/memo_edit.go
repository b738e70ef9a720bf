package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"SecureMemo/internal/cli/repo"
	"SecureMemo/internal/cli/service"
	"SecureMemo/internal/config"
)

type editCmd struct{}

func (editCmd) Name() string { return "edit" }
func (editCmd) Description() string {
	return "Изменить поле заметки: title|content|audio (пустое audio отвязывает файл)"
}
func (editCmd) Usage() string {
	return "edit [--append] <id> <title|content|audio> [<value>...]"
}

func (editCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	// Парсим флагами: разрешаем только префиксные флаги перед позиционными аргументами
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	appendMode := fs.Bool("append", false, "дописать к content вместо замены")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	rest := fs.Args()
	if len(rest) < 2 {
		return ErrUsage
	}
	id, field := rest[0], rest[1]
	value := strings.Join(rest[2:], " ")

	var patch service.MemoPatch
	switch field {
	case "title":
		if len(rest) < 3 {
			return ErrUsage
		}
		patch.Title = &value
	case "content":
		patch.Content = &value
	case "audio":
		if *appendMode {
			return ErrUsage
		}
		patch.AudioPath = &value
	default:
		return ErrUsage
	}
	if *appendMode && field != "content" {
		return ErrUsage
	}

	s, done, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()

	if *appendMode {
		cur, err := s.app.Memos.Get(ctx, s.id, id)
		if err != nil {
			return notFound(id, err)
		}
		joined := cur.Content
		if joined != "" && value != "" {
			joined += "\n"
		}
		joined += value
		patch.Content = &joined
	}
	m, err := s.app.Memos.Update(ctx, s.id, id, patch)
	if err != nil {
		return notFound(id, err)
	}
	fmt.Fprintf(Out, "Updated: %s (%s)\n", m.ID, field)
	return nil
}

func notFound(id string, err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("memo %q not found", id)
	}
	return err
}

func init() { RegisterCmd(editCmd{}) }
