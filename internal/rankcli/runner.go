package rankcli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	service "github.com/okian/wodboard/internal/app"
	"github.com/okian/wodboard/internal/config"
	"github.com/okian/wodboard/internal/domain/model"
	"github.com/okian/wodboard/internal/domain/types"
	"github.com/okian/wodboard/pkg/logger"
)

// Run loads the configuration, computes every board once and prints the
// requested categories to out. With Verify set, the boards of the server at
// that URL must match the local ones.
func Run(ctx context.Context, opts Options, out io.Writer) error {
	log := logger.Get().Named("rank")

	path := opts.Config
	if path == "" {
		path = os.Getenv(config.EnvPrefix + "CONFIG")
	}
	cfg, err := config.LoadFile(ctx, path)
	if err != nil {
		return err
	}

	svc := service.New(
		service.WithConfig(cfg),
		service.WithRefreshInterval(0),
		service.WithLogger(log),
	)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	report := svc.LastReport()
	if report.Outcome == service.OutcomeFailed {
		return fmt.Errorf("%w: %s", service.ErrNoEventData, failedEvents(report))
	}
	for _, ev := range report.Events {
		if !ev.Available {
			log.Warn(ctx, "event unavailable", logger.String("event", ev.EventID), logger.String("error", ev.Error))
		}
	}

	categories, err := selectCategories(cfg.Categories, opts.Category)
	if err != nil {
		return err
	}

	result := Output{Report: report}
	for _, c := range categories {
		lb, err := svc.Leaderboard(ctx, c, opts.Limit)
		if err != nil {
			return err
		}
		result.Boards = append(result.Boards, lb)

		if opts.Events {
			for _, id := range lb.Events {
				er, err := svc.EventResults(ctx, id, c)
				if err != nil {
					return err
				}
				result.Events = append(result.Events, er)
			}
		}
	}

	if opts.Verify != "" {
		if err := verify(ctx, svc, opts, categories); err != nil {
			return err
		}
		log.Info(ctx, "remote leaderboards match", logger.String("url", opts.Verify))
	}

	if opts.JSON {
		return writeJSON(out, result)
	}
	return writeText(out, result)
}

// verify compares full local boards with the server's; limits do not apply.
func verify(ctx context.Context, svc *service.Service, opts Options, categories []string) error {
	client := newHTTPClient(opts.Verify, opts.Timeout)
	var errs []error
	for _, c := range categories {
		local, err := svc.Leaderboard(ctx, c, 0)
		if err != nil {
			return err
		}
		remote, err := client.Leaderboard(ctx, c)
		if err != nil {
			return err
		}
		if err := compareBoards(local, remote); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// selectCategories returns the requested categories in configured order, or
// all of them when none were requested.
func selectCategories(configured, requested []string) ([]string, error) {
	if len(requested) == 0 {
		return configured, nil
	}
	known := make(map[model.Category]string, len(configured))
	for _, c := range configured {
		known[model.NormalizeCategory(c)] = c
	}
	out := make([]string, 0, len(requested))
	for _, r := range requested {
		c, ok := known[model.NormalizeCategory(r)]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, r)
		}
		out = append(out, c)
	}
	return out, nil
}

func failedEvents(report types.RefreshReport) string {
	msg := ""
	for _, ev := range report.Events {
		if msg != "" {
			msg += "; "
		}
		msg += ev.EventID + ": " + ev.Error
	}
	if msg == "" {
		return "no events configured"
	}
	return msg
}
