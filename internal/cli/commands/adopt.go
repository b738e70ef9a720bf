package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"SecureMemo/internal/cli/crypto"
	"SecureMemo/internal/config"
)

type adoptCmd struct{}

func (adoptCmd) Name() string { return "adopt" }
func (adoptCmd) Description() string {
	return "Перешифровать текущим ключом записи, читаемые другим паролем (после merge)"
}
func (adoptCmd) Usage() string { return "adopt [--default] [<old-password>]" }

func (adoptCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("adopt", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	useDefault := fs.Bool("default", false, "records encrypted with the default key")
	if err := fs.Parse(args); err != nil || fs.NArg() > 1 || (*useDefault && fs.NArg() == 1) {
		return ErrUsage
	}

	s, done, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()

	var source string
	switch {
	case *useDefault:
		source = crypto.DefaultPassword
	case fs.NArg() == 1:
		source = fs.Arg(0)
	default:
		if source, err = readSecret("Old password"); err != nil {
			return err
		}
	}
	report, err := s.app.Memos.Adopt(ctx, s.id, source)
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Adopted: %d\n", len(report.Adopted))
	for _, id := range report.Adopted {
		fmt.Fprintf(Out, "  + %s\n", id)
	}
	if n := len(report.Skipped); n > 0 {
		fmt.Fprintf(Out, "Still unreadable: %d\n", n)
	}
	return nil
}

func init() { RegisterCmd(adoptCmd{}) }
