package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/currency_api/internal/core/domain"
	portssvc "github.com/SscSPs/currency_api/internal/core/ports/services"
	"github.com/spf13/cobra"
)

var errRefreshFailed = errors.New("rate refresh failed")

func refreshCommand() *cobra.Command {
	var (
		standalone bool
		after      time.Duration
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the upstream rate table and store it",
		Long: "Runs one refresh tagged as a cron update. Without --force the refresh is skipped " +
			"while the stored rates are still fresh. --standalone keeps running and repeats every --after.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			a, err := newApp(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := refreshOnce(cmd.Context(), a.container.RateRefresh, force, logger); err != nil && !standalone {
				return err
			}
			if !standalone {
				return nil
			}

			ticker := time.NewTicker(after)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					_ = refreshOnce(cmd.Context(), a.container.RateRefresh, force, logger)
				case <-cmd.Context().Done():
					return nil
				}
			}
		},
	}

	cmd.Flags().BoolVar(&standalone, "standalone", false, "Start up a long running refresh process")
	cmd.Flags().DurationVar(&after, "after", time.Hour, "Interval between refreshes of a standalone process")
	cmd.Flags().BoolVar(&force, "force", false, "Refresh even when the stored rates are fresh")
	return cmd
}

// refreshOnce runs one cron refresh, skipping it when the rates are fresh unless force is set.
func refreshOnce(ctx context.Context, svc portssvc.RateRefreshSvc, force bool, logger *slog.Logger) error {
	if !force {
		stale, err := svc.ShouldUpdate(ctx)
		if err != nil {
			return err
		}
		if !stale {
			logger.Info("Rates are fresh, nothing to do")
			return nil
		}
	}

	result := svc.RefreshAndRecord(ctx, domain.RateUpdateSourceCron)
	if !result.Success {
		logger.Error("Rate refresh failed", slog.String("error", result.Error))
		return errRefreshFailed
	}
	logger.Info("Rates updated",
		slog.String("base_currency", result.BaseCurrency),
		slog.Int("rates_count", result.RatesCount),
		slog.Duration("execution_time", result.ExecutionTime))
	return nil
}
