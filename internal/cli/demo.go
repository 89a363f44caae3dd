package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/rowmodel/internal/demo"
	"github.com/leapstack-labs/rowmodel/pkg/gateway"
	"github.com/leapstack-labs/rowmodel/pkg/model"
)

// NewDemoCommand creates the demo command. It walks the whole record layer:
// seed a table, fetch, insert, update in place, list, and let the engine
// compute values, then drops the table again. Nothing is committed unless
// --commit is given; a rollback runs unconditionally on the way out.
func NewDemoCommand() *cobra.Command {
	var commit bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the options/coordinates demo scenario",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())
			if err := cfg.Validate(); err != nil {
				return err
			}

			gw := gateway.New(GetLogger(cmd.Context()))
			if err := gw.Connect(cmd.Context(), cfg.Target()); err != nil {
				return err
			}
			defer func() { _ = gw.Close() }()
			defer func() { _ = gw.Rollback(context.Background()) }()

			return runDemo(cmd.Context(), cmd.OutOrStdout(), gw, commit)
		},
	}

	cmd.Flags().BoolVar(&commit, "commit", false, "Commit the demo changes instead of rolling back")
	return cmd
}

func runDemo(ctx context.Context, out io.Writer, gw *gateway.Gateway, commit bool) error {
	options := demo.NewOptions(gw)

	if err := options.CreateTable(ctx); err != nil {
		return fmt.Errorf("failed to create demo table: %w", err)
	}

	first, err := options.Get(ctx, "first")
	if err != nil {
		return err
	}
	if first == nil {
		return fmt.Errorf(`option "first" vanished after seeding`)
	}
	fmt.Fprintf(out, "existing option: %s = %s\n",
		first.GetString("name"), first.GetString("value"))

	fifth, err := options.Add(ctx, "fifth", "five")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "added option: %s = %s\n",
		fifth.GetString("name"), fifth.GetString("value"))

	// In-place update: the change shows up on the reference fetched above.
	if err := options.SetValue(ctx, first, "The One"); err != nil {
		return err
	}
	fmt.Fprintf(out, "updated option: %s = %s\n",
		first.GetString("name"), first.GetString("value"))

	all, err := options.All(ctx)
	if err != nil {
		return err
	}
	renderOptions(out, all)

	coords := demo.NewCoordinates(gw)
	for i := 0; i < 5; i++ {
		p, err := coords.Pick(ctx,
			demo.Point{X: -500, Y: -500}, demo.Point{X: 500, Y: 500})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "random point: (%d, %d)\n", p.GetInt64("x"), p.GetInt64("y"))
	}

	if err := options.DropTable(ctx); err != nil {
		return fmt.Errorf("failed to drop demo table: %w", err)
	}

	if commit {
		return gw.Commit(ctx)
	}
	return nil
}

func renderOptions(out io.Writer, all []*model.Object) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Name", "Value"})
	for _, opt := range all {
		t.AppendRow(table.Row{opt.GetString("name"), opt.GetString("value")})
	}
	t.Render()
}
