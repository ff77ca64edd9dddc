package main

import (
	"fmt"
	"os"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/aggregate"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/cli"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/common"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/reconcile"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/tui"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/tui/themes"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func noteCmd() *cobra.Command {
	var (
		p    periodFlags
		sets []string
	)

	cmd := &cobra.Command{
		Use:   "note IDNUMBER [TEXT]",
		Short: "Edit one stored record",
		Long: `Write a Keterangan, and optionally other columns, onto the record with the
given customer ID, segment and period. Only the changed cells are written to
the sheet.`,
		Example: `  dashboard note 1234567 "promised payment 30/9" --segment DGS --month 9 --year 2025
  dashboard note 1234567 --segment DGS --set "AM=Budi"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := p.period()
			if err != nil {
				return err
			}

			columns, values, err := parseAssignments(sets)
			if err != nil {
				return err
			}
			if len(args) == 2 {
				columns = append(columns, model.ColNote)
				values = append(values, args[1])
			}
			if len(columns) == 0 {
				return fmt.Errorf("nothing to change: give the note text or at least one --set COLUMN=VALUE")
			}

			id := customerID(args[0])
			edits := model.Table{
				Columns: append(append([]string(nil), model.KeyColumns...), columns...),
				Rows:    [][]string{append([]string{id, p.segment, period}, values...)},
			}

			ctx := cmd.Context()
			sess, err := newSession(ctx, false)
			if err != nil {
				return err
			}

			var progress func(done, total int)
			if stdoutIsTerminal() {
				progress = cli.ProgressFunc(os.Stderr, "Writing cells")
			}
			res, err := sess.SaveEdits(ctx, edits, progress)
			if err != nil {
				return fmt.Errorf("save failed: %w", err)
			}
			if res.Applied == 0 {
				return fmt.Errorf("%w: %s/%s/%s", common.ErrRecordNotFound, id, p.segment, period)
			}

			r := cli.NewRenderer(os.Stdout)
			r.Reconciled(res)
			return r.Err()
		},
	}

	addPeriodFlags(cmd, &p)
	cmd.Flags().StringArrayVar(&sets, "set", nil, "extra COLUMN=VALUE to write (repeatable)")
	_ = cmd.MarkFlagRequired("segment")

	return cmd
}

func notesCmd() *cobra.Command {
	var (
		f        filterFlags
		quadrant int
		top      int
	)

	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Edit notes of a quadrant's largest balances interactively",
		Long: `Open an interactive editor over the largest balances of one quadrant. Changed
notes are reconciled by customer ID, segment and period and written to the
sheet cell by cell when you save.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if quadrant < 1 || quadrant > aggregate.NumQuadrants {
				return fmt.Errorf("%w: quadrant %d is outside 1..%d", common.ErrInvalidFilter, quadrant, aggregate.NumQuadrants)
			}

			ctx := cmd.Context()
			sess, err := newSession(ctx, false)
			if err != nil {
				return err
			}

			view, err := sess.Summary(ctx, f.filter(), top)
			if err != nil {
				return err
			}

			title := fmt.Sprintf("Kuadran %d: %s", quadrant, view.Filter.Label())
			save := func(edits model.Table) (reconcile.Result, error) {
				return sess.SaveEdits(ctx, edits, nil)
			}
			editor := tui.NewNoteEditor(title, view.Summary.Quadrants[quadrant-1].Top, save,
				tui.WithTheme(themes.GetTheme(viper.GetString("ui.theme"))))

			final, err := tui.Run(ctx, editor, tui.RunConfig{AltScreen: stdoutIsTerminal()})
			if err != nil {
				return err
			}

			r := cli.NewRenderer(os.Stdout)
			for _, res := range final.Saved() {
				r.Reconciled(res)
			}
			if err := r.Err(); err != nil {
				return err
			}
			if final.Dirty() {
				fmt.Println(cli.FormatWarning("Some notes were not saved."))
			}
			return nil
		},
	}

	addFilterFlags(cmd, &f)
	cmd.Flags().IntVarP(&quadrant, "quadrant", "q", 1, "quadrant to edit (1-4)")
	cmd.Flags().IntVarP(&top, "top", "n", 10, "number of largest balances to edit")

	return cmd
}
