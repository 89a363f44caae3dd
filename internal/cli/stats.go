package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/rowmodel/internal/demo"
	"github.com/leapstack-labs/rowmodel/pkg/gateway"
)

// NewStatsCommand creates the stats command, a read-only snapshot of the
// postgres user-table statistics view.
func NewStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show user table usage statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.Type != gateway.TypePostgres {
				return fmt.Errorf("stats requires a postgres target, got %q", cfg.Type)
			}

			gw := gateway.New(GetLogger(cmd.Context()))
			if err := gw.Connect(cmd.Context(), cfg.Target()); err != nil {
				return err
			}
			defer func() { _ = gw.Close() }()
			defer func() { _ = gw.Rollback(context.Background()) }()

			stats, err := demo.NewTableStats(gw).Snapshot(cmd.Context())
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Schema", "Table", "Seq Scans", "Idx Scans", "Observed"})
			for _, st := range stats {
				t.AppendRow(table.Row{
					st.GetString("schema"),
					st.GetString("table"),
					st.GetInt64("seq_scan"),
					st.GetInt64("idx_scan"),
					st.GetTime("observed_at").Format(time.RFC3339),
				})
			}
			t.Render()
			return nil
		},
	}
}
