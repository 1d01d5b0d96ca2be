// File: cmd/history.go
package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/xkilldash9x/uitest-cli/internal/config"
	"github.com/xkilldash9x/uitest-cli/internal/observability"
	"github.com/xkilldash9x/uitest-cli/internal/store"
)

// newHistoryCmd creates the `history` command, listing persisted runs.
func newHistoryCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Lists recent runs from the history database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := config.NewConfigFromViper(viper.GetViper())
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return fmt.Errorf("no history database configured; set database.url")
			}
			limit, err := cmd.Flags().GetInt("limit")
			if err != nil {
				return err
			}

			pool, err := pgxpool.New(ctx, cfg.Database.URL)
			if err != nil {
				return fmt.Errorf("failed to create database pool: %w", err)
			}
			defer pool.Close()

			st, err := store.New(ctx, pool, logger)
			if err != nil {
				return err
			}
			records, err := st.RecentRuns(ctx, limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STARTED\tSUITE\tPASSED\tFAILED\tERRORED\tDURATION\tID")
			for _, rec := range records {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
					rec.Start.Local().Format("2006-01-02 15:04:05"),
					rec.Suite, rec.Passed, rec.Failed, rec.Errored,
					rec.Duration, rec.ID)
			}
			return w.Flush()
		},
	}

	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	return historyCmd
}

func init() {
	rootCmd.AddCommand(newHistoryCmd())
}
