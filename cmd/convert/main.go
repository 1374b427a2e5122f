package main

import (
	"context"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/okian/wodboard/internal/rankcli"
	"github.com/okian/wodboard/pkg/logger"
)

func main() {
	var opts rankcli.ConvertOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] [SCORESHEET]\n\nConverts a registration scoresheet export into a result CSV."
	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			return
		}
		os.Exit(2)
	}

	// Logs go to stderr; stdout may carry the converted CSV.
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	_ = logger.SetLevelString(level)

	ctx := context.Background()
	if err := rankcli.Convert(ctx, opts, os.Stdin, os.Stdout); err != nil {
		logger.Get().Error(ctx, "convert failed", logger.Error(err))
		os.Exit(1)
	}
}
