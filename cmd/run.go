// File: cmd/run.go
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/uitest-cli/internal/config"
	"github.com/xkilldash9x/uitest-cli/internal/driver/cdp"
	"github.com/xkilldash9x/uitest-cli/internal/observability"
	"github.com/xkilldash9x/uitest-cli/internal/report"
	"github.com/xkilldash9x/uitest-cli/internal/scenario"
	"github.com/xkilldash9x/uitest-cli/internal/store"
)

// newRunCmd creates and configures the `run` command.
func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run [target-url]",
		Short: "Runs the search scenarios against the target site",
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags to their Viper keys so command-line flags override
			// config file and environment values with the right precedence.
			if err := viper.BindPFlag("scenario.query", cmd.Flags().Lookup("query")); err != nil {
				return err
			}
			if err := viper.BindPFlag("scenario.expected_text", cmd.Flags().Lookup("expect")); err != nil {
				return err
			}
			if err := viper.BindPFlag("report.format", cmd.Flags().Lookup("format")); err != nil {
				return err
			}
			if err := viper.BindPFlag("report.output", cmd.Flags().Lookup("output")); err != nil {
				return err
			}
			if err := viper.BindPFlag("browser.headless", cmd.Flags().Lookup("headless")); err != nil {
				return err
			}
			if err := viper.BindPFlag("runner.concurrency", cmd.Flags().Lookup("concurrency")); err != nil {
				return err
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := observability.GetLogger()

			cfg, err := config.NewConfigFromViper(viper.GetViper())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.Scenario.TargetURL = args[0]
			}
			if cfg.Scenario.TargetURL == "" {
				return fmt.Errorf("no target URL; pass it as an argument or set scenario.target_url")
			}

			return runSuite(ctx, cfg, logger)
		},
	}

	runCmd.Flags().String("query", "", "search query to submit")
	runCmd.Flags().String("expect", "", "expected text of the first result")
	runCmd.Flags().String("format", "", "report format: junit or json")
	runCmd.Flags().StringP("output", "o", "", "report output path (default stdout)")
	runCmd.Flags().Bool("headless", true, "run the browser headless")
	runCmd.Flags().Int("concurrency", 1, "number of scenarios to run in parallel")

	return runCmd
}

// runSuite executes the built-in scenarios and writes the report. A non-nil
// error is only returned for infrastructure trouble; scenario failures are
// reported through the exit path below.
func runSuite(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	d, err := cdp.New(ctx, logger, cfg.Browser)
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := d.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Browser shutdown failed", zap.Error(err))
		}
	}()

	runner := scenario.NewRunner(d, logger, cfg)
	scenarios := []scenario.Scenario{
		scenario.SearchScenario(cfg.Scenario),
		scenario.SearchWithActionsScenario(cfg.Scenario),
	}

	run := report.Run{
		SuiteName: "uitest",
		Start:     time.Now(),
		Results:   runner.RunAll(ctx, scenarios),
	}

	if err := writeReport(cfg.Report, run); err != nil {
		return err
	}
	if cfg.Database.URL != "" {
		persistRun(ctx, cfg.Database.URL, run, logger)
	}

	_, failed, errored := run.Counts()
	if failed+errored > 0 {
		return fmt.Errorf("%d of %d scenario(s) did not pass", failed+errored, len(run.Results))
	}
	return nil
}

// writeReport renders the run to the configured output, defaulting to stdout.
func writeReport(cfg config.ReportConfig, run report.Run) error {
	rep, err := report.New(cfg.Format)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return rep.Write(w, run)
}

// persistRun records the run in the history database. Persistence failures
// are logged, never allowed to fail the run.
func persistRun(ctx context.Context, dbURL string, run report.Run, logger *zap.Logger) {
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logger.Warn("Run history disabled: cannot create database pool", zap.Error(err))
		return
	}
	defer pool.Close()

	st, err := store.New(ctx, pool, logger)
	if err != nil {
		logger.Warn("Run history disabled: database unreachable", zap.Error(err))
		return
	}
	if err := st.EnsureSchema(ctx); err != nil {
		logger.Warn("Run history disabled: schema setup failed", zap.Error(err))
		return
	}
	runID, err := st.SaveRun(ctx, run)
	if err != nil {
		logger.Warn("Failed to persist run history", zap.Error(err))
		return
	}
	logger.Info("Run history saved", zap.String("run_id", runID))
}

func init() {
	rootCmd.AddCommand(newRunCmd())
}
