package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/cli"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/config"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/session"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/sheets"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/validation"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/xlsx"
	"github.com/spf13/cobra"
)

// uploadSource is where an upload batch is read from: a workbook file or a
// worksheet of another spreadsheet.
type uploadSource struct {
	file        string
	sheet       string
	spreadsheet string
	sourceSheet string
}

// resolve checks that exactly one source was given.
func (u *uploadSource) resolve(args []string) error {
	if len(args) == 1 {
		u.file = args[0]
	}
	switch {
	case u.file != "" && u.spreadsheet != "":
		return fmt.Errorf("give either FILE.xlsx or --source, not both")
	case u.file == "" && u.spreadsheet == "":
		return fmt.Errorf("give FILE.xlsx or --source URL")
	case u.spreadsheet != "" && u.sourceSheet == "":
		return fmt.Errorf("--source-sheet is required with --source")
	case u.spreadsheet == "" && u.sourceSheet != "":
		return fmt.Errorf("--source-sheet only applies to --source")
	}
	return nil
}

func (u *uploadSource) String() string {
	if u.file != "" {
		return u.file
	}
	return fmt.Sprintf("%s (%s)", u.spreadsheet, u.sourceSheet)
}

// read loads the raw batch. client is only used for --source.
func (u *uploadSource) read(ctx context.Context, client *sheets.Client) (model.Table, error) {
	if u.file != "" {
		return xlsx.ReadTable(u.file, u.sheet)
	}
	source, err := client.WithSpreadsheet(u.spreadsheet)
	if err != nil {
		return model.Table{}, err
	}
	return source.ReadTable(ctx, u.sourceSheet)
}

func uploadCmd() *cobra.Command {
	var (
		p   periodFlags
		src uploadSource
		yes bool
	)

	cmd := &cobra.Command{
		Use:   "upload [FILE.xlsx]",
		Short: "Upload a monthly aging report",
		Long: `Validate an aging report, classify every customer into a quadrant and
replace the rows of the chosen period and segment in the database sheet.

The report is read from an .xlsx workbook, or with --source from a worksheet
of another spreadsheet the configured credentials can open.

Rows already stored for the same period and segment are deleted first, so
uploading a corrected report twice leaves a single copy.`,
		Args: cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := src.resolve(args); err != nil {
				return err
			}
			period, err := p.period()
			if err != nil {
				return err
			}
			target := validation.Target{Period: period, Segment: p.segment}

			ctx := cli.NewInterruptHandler(os.Stderr).HandleInterrupts(cmd.Context(), "Nothing was written if the upload had not started.")

			client, sheetsConfig, err := newSheetsClient(ctx)
			if err != nil {
				return err
			}

			raw, err := src.read(ctx, client)
			if err != nil {
				return err
			}
			slog.Info("Read upload source", "source", src.String(), "rows", len(raw.Rows))

			if !yes {
				reader := cli.NewNonBlockingReader(os.Stdin)
				question := fmt.Sprintf("Replace every %s row of period %s with %d row(s) from %s?",
					target.StampedSegment(), period, len(raw.Rows), src.String())
				ok, err := reader.Confirm(ctx, os.Stdout, question)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println(cli.FormatInfo("Upload cancelled."))
					return nil
				}
			}

			sess := session.New(client, session.Config{
				Segments:      config.Segments(),
				DatabaseSheet: sheetsConfig.DatabaseSheet,
			})

			res, err := sess.Upload(ctx, raw, target)
			if err != nil {
				return fmt.Errorf("upload failed: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Uploaded %d record(s) for %s %s (replaced %d, starting at row %d)",
				res.Records, target.StampedSegment(), period, res.Replace.Deleted, res.Replace.StartRow)))
			return nil
		},
	}

	addPeriodFlags(cmd, &p)
	cmd.Flags().StringVar(&src.sheet, "sheet", "", "worksheet of FILE.xlsx to read (default: the first sheet)")
	cmd.Flags().StringVar(&src.spreadsheet, "source", "", "read the report from this spreadsheet URL or ID")
	cmd.Flags().StringVar(&src.sourceSheet, "source-sheet", "", "worksheet of --source to read")
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("segment")

	return cmd
}
