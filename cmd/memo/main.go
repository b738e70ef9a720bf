package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"SecureMemo/internal/cli/commands"
	"SecureMemo/internal/config"
	"SecureMemo/internal/logger"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	// Load unified config (env + flags)
	cfg := config.NewConfig()

	if cfg.Version {
		printVersion()
		return
	}

	sugar, sync, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	commands.SetLogger(sugar)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// dispatcher
	exitCode := commands.Dispatch(ctx, cfg, flag.Args())
	cancel()
	sync()
	if exitCode == 0 {
		return
	}
	os.Exit(exitCode)
}

func printVersion() {
	fmt.Printf("SecureMemo CLI\nVersion: %s\nBuild date: %s\n", version, buildDate)
}
