package commands

import (
	"context"
	"fmt"

	"SecureMemo/internal/config"
)

type mergeCmd struct{}

func (mergeCmd) Name() string { return "merge" }
func (mergeCmd) Description() string {
	return "Войти паролем и перенести в его раздел записи остальных разделов"
}
func (mergeCmd) Usage() string { return "merge" }

func (mergeCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	app, done, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()
	pw, err := loginPassword(cfg)()
	if err != nil {
		return err
	}
	_, report, err := app.Auth.MergeLogin(ctx, pw)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Merged into %s: moved %d record(s)\n", shortHash(report.Target), report.Moved)
	for _, r := range report.Renamed {
		fmt.Fprintf(Out, "  renamed %s -> %s (from %s)\n", r.From, r.To, shortHash(r.Source))
	}
	for _, src := range report.LeftoverSources {
		fmt.Fprintf(Out, "  ! partition %s not removed\n", shortHash(src))
	}
	if report.Moved > 0 {
		fmt.Fprintln(Out, "Records moved from other partitions stay encrypted with their old password; run 'adopt' to re-encrypt them.")
	}
	return nil
}

func init() { RegisterCmd(mergeCmd{}) }
