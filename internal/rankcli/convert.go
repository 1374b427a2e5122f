package rankcli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/okian/wodboard/internal/adapters/source"
	"github.com/okian/wodboard/pkg/logger"
)

// ConvertOptions are the command line flags of the convert tool.
type ConvertOptions struct {
	Category string `short:"c" long:"category" description:"Category every converted result belongs to" required:"true"`
	Output   string `short:"o" long:"output" description:"Result CSV to write (default: stdout)" value-name:"FILE"`
	Verbose  bool   `short:"v" long:"verbose" description:"Enable debug logging"`
	Args     struct {
		Scoresheet string `positional-arg-name:"SCORESHEET" description:"Scoresheet CSV to read (default: stdin)"`
	} `positional-args:"yes"`
}

// Convert turns a registration scoresheet into a result CSV that an event
// source can point at. in and out are used when no file is named.
func Convert(ctx context.Context, opts ConvertOptions, in io.Reader, out io.Writer) (err error) {
	log := logger.Get().Named("convert")

	if opts.Args.Scoresheet != "" {
		f, err := os.Open(opts.Args.Scoresheet)
		if err != nil {
			return fmt.Errorf("%w: %v", source.ErrFetch, err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}
	if opts.Output != "" {
		f, cerr := os.Create(opts.Output)
		if cerr != nil {
			return cerr
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		out = f
	}

	n, err := source.ConvertScoresheet(in, out, opts.Category)
	if err != nil {
		return err
	}
	log.Info(ctx, "scoresheet converted",
		logger.String("category", opts.Category),
		logger.Int("results", n),
	)
	return nil
}
