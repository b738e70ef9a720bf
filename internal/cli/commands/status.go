package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"SecureMemo/internal/cli/api"
	"SecureMemo/internal/cli/auth"
	"SecureMemo/internal/cli/repo"
	"SecureMemo/internal/config"
)

// statusResponse — ответ GET /api/status локального сервера.
type statusResponse struct {
	State      string `json:"state"`
	Partition  string `json:"partition"`
	Records    int    `json:"records"`
	Partitions int    `json:"partitions"`
}

type statusCmd struct{}

func (statusCmd) Name() string { return "status" }
func (statusCmd) Description() string {
	return "Состояние входа и разделов (--server: спросить запущенный локальный API)"
}
func (statusCmd) Usage() string { return "status [--server]" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	remote := fs.Bool("server", false, "query the running local API")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}
	if *remote {
		return remoteStatus(ctx, cfg)
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
	total := 0
	for _, in := range infos {
		total += in.Records
	}
	fmt.Fprintln(Out, "State:", st)
	fmt.Fprintf(Out, "Partitions: %d (records: %d)\n", len(infos), total)
	if _, err := app.Secrets.LoadSecret(); errors.Is(err, repo.ErrNotFound) {
		fmt.Fprintln(Out, "Secret: <not set>")
	} else if err == nil {
		fmt.Fprintln(Out, "Secret: <set>")
	}
	return nil
}

func remoteStatus(ctx context.Context, cfg *config.Config) error {
	token, err := auth.LoadToken(cfg.TokenFile)
	if err != nil {
		return fmt.Errorf("no API token (is the server running?): %w", err)
	}
	endpoint := "http://" + strings.TrimRight(cfg.BaseURL, "/") + "/api/status"
	var sr statusResponse
	if err := api.GetJSON(ctx, endpoint, token, &sr); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Server:", cfg.BaseURL)
	fmt.Fprintln(Out, "State:", sr.State)
	fmt.Fprintf(Out, "Partition: %s (records: %d, partitions: %d)\n", shortHash(sr.Partition), sr.Records, sr.Partitions)
	return nil
}

func init() { RegisterCmd(statusCmd{}) }
