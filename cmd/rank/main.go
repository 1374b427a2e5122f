package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"

	"github.com/okian/wodboard/internal/rankcli"
	"github.com/okian/wodboard/pkg/logger"
)

func main() {
	var opts rankcli.Options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS]\n\nComputes the leaderboards of a wodboard config once and prints them."
	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			return
		}
		os.Exit(2)
	}

	// Logs go to stderr so stdout stays clean for --json.
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	_ = logger.SetLevelString(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	if err := rankcli.Run(ctx, opts, os.Stdout); err != nil {
		logger.Get().Error(ctx, "rank failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}
