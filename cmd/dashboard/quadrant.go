package main

import (
	"fmt"
	"os"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/aggregate"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/cli"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/xlsx"
	"github.com/spf13/cobra"
)

func quadrantCmd() *cobra.Command {
	var (
		f       filterFlags
		top     int
		export  string
		offline bool
	)

	cmd := &cobra.Command{
		Use:     "quadrant",
		Aliases: []string{"summary"},
		Short:   "Show the quadrant summary",
		Long: `Filter the stored records by segment and period and show how many
customers and how much outstanding balance fall into each quadrant, with the
largest balances of every quadrant.`,
		Example: `  dashboard quadrant --segment DGS --month 9 --year 2025
  dashboard quadrant --year 2025 --top 10 --export ringkasan.xlsx`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			sess, err := newSession(ctx, offline)
			if err != nil {
				return err
			}

			view, err := sess.Summary(ctx, f.filter(), top)
			if err != nil {
				return err
			}

			r := cli.NewRenderer(os.Stdout)
			r.Warnings(view.Warnings)
			r.Summary(view.Filter, view.Summary)
			if err := r.Err(); err != nil {
				return err
			}

			if export != "" {
				if err := xlsx.ExportSummary(export, view.Filter, view.Summary, view.Records); err != nil {
					return fmt.Errorf("export failed: %w", err)
				}
				fmt.Println(cli.FormatSuccess("Exported to " + export))
			}
			return nil
		},
	}

	addFilterFlags(cmd, &f)
	cmd.Flags().IntVarP(&top, "top", "n", aggregate.DefaultTopN, "largest balances shown per quadrant")
	cmd.Flags().StringVar(&export, "export", "", "also write the summary to this .xlsx file")
	cmd.Flags().BoolVar(&offline, "offline", false, "read the latest local snapshot instead of the sheet")

	return cmd
}
