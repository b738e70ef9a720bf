package commands

import (
	"context"
	"fmt"

	"SecureMemo/internal/config"
)

type partitionsCmd struct{}

func (partitionsCmd) Name() string        { return "partitions" }
func (partitionsCmd) Description() string { return "Показать известные разделы (хеши паролей)" }
func (partitionsCmd) Usage() string       { return "partitions" }

func (partitionsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	app, done, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()
	st, infos, err := app.Auth.State(ctx)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Fprintln(Out, "Нет разделов")
		return nil
	}
	for _, in := range infos {
		fmt.Fprintf(Out, "- %s  records=%d\n", in.Hash, in.Records)
	}
	fmt.Fprintf(Out, "Всего: %d  state=%s\n", len(infos), st)
	return nil
}

func init() { RegisterCmd(partitionsCmd{}) }
