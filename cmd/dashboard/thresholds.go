package main

import (
	"fmt"
	"os"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/cli"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/common"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/normalize"
	"github.com/spf13/cobra"
)

func thresholdsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thresholds",
		Short: "Manage quadrant thresholds",
		Long: `List and change the per-segment balance and delinquency boundaries that
split customers into quadrants.`,
	}

	cmd.AddCommand(listThresholdsCmd())
	cmd.AddCommand(setThresholdCmd())

	return cmd
}

func listThresholdsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every segment's thresholds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			sess, err := newSession(ctx, false)
			if err != nil {
				return err
			}

			thresholds, err := sess.Thresholds(ctx)
			if err != nil {
				return err
			}
			if len(thresholds) == 0 {
				fmt.Println(cli.InfoStyle.Render("No thresholds found. Use 'dashboard thresholds set' to add one."))
				return nil
			}

			r := cli.NewRenderer(os.Stdout)
			r.Thresholds(thresholds)
			return r.Err()
		},
	}
}

func setThresholdCmd() *cobra.Command {
	var balance, months string

	cmd := &cobra.Command{
		Use:   "set SEGMENT",
		Short: "Set a segment's thresholds",
		Long: `Replace the thresholds of SEGMENT, adding the segment when it has none.
Stored records keep their quadrant until their period is uploaded again.`,
		Example: `  dashboard thresholds set DGS --balance 50.000.000 --months 6`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseThreshold(args[0], balance, months)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			sess, err := newSession(ctx, false)
			if err != nil {
				return err
			}

			if err := sess.SetThreshold(ctx, t); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Thresholds of %s set to %s and %s month(s)",
				t.Segment, normalize.FormatCurrency(t.Balance), t.Months.String())))
			return nil
		},
	}

	cmd.Flags().StringVar(&balance, "balance", "", "balance boundary (required)")
	cmd.Flags().StringVar(&months, "months", "", "delinquency boundary in months (required)")
	_ = cmd.MarkFlagRequired("balance")
	_ = cmd.MarkFlagRequired("months")

	return cmd
}

// parseThreshold reads the flag values with the same rules as sheet cells.
func parseThreshold(segment, balance, months string) (model.Threshold, error) {
	p := normalize.Analysis()
	b := p.Parse(balance)
	if !b.Valid {
		return model.Threshold{}, fmt.Errorf("%w: balance %q is not a number", common.ErrInvalidConfig, balance)
	}
	m := p.Parse(months)
	if !m.Valid {
		return model.Threshold{}, fmt.Errorf("%w: months %q is not a number", common.ErrInvalidConfig, months)
	}
	return model.Threshold{Segment: segment, Balance: b.Decimal, Months: m.Decimal}, nil
}
