package main

import (
	"os"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/cli"
	"github.com/spf13/cobra"
)

func workloadCmd() *cobra.Command {
	var (
		f       filterFlags
		offline bool
	)

	cmd := &cobra.Command{
		Use:   "workload MANAGER",
		Short: "Show an account manager's share of the outstanding balance",
		Long: `Match account managers by case-insensitive substring and compare their
customers and balance against every record in the filter.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sess, err := newSession(ctx, offline)
			if err != nil {
				return err
			}

			w, err := sess.Workload(ctx, f.filter(), args[0])
			if err != nil {
				return err
			}

			r := cli.NewRenderer(os.Stdout)
			r.Workload(f.filter(), w)
			return r.Err()
		},
	}

	addFilterFlags(cmd, &f)
	cmd.Flags().BoolVar(&offline, "offline", false, "read the latest local snapshot instead of the sheet")

	return cmd
}

func leaderboardCmd() *cobra.Command {
	var (
		f       filterFlags
		limit   int
		offline bool
	)

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank account managers by outstanding balance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			sess, err := newSession(ctx, offline)
			if err != nil {
				return err
			}

			entries, err := sess.Leaderboard(ctx, f.filter(), limit)
			if err != nil {
				return err
			}

			r := cli.NewRenderer(os.Stdout)
			r.Leaderboard(f.filter(), entries)
			return r.Err()
		},
	}

	addFilterFlags(cmd, &f)
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of managers to show (0 for all)")
	cmd.Flags().BoolVar(&offline, "offline", false, "read the latest local snapshot instead of the sheet")

	return cmd
}
