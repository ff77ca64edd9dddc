package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/cli"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/config"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/session"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/sheets"
	"github.com/spf13/cobra"
)

func snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage local snapshots of the database sheet",
		Long: `Snapshots copy the database sheet into a local SQLite file so read commands
can run with --offline.`,
	}

	cmd.AddCommand(saveSnapshotCmd())
	cmd.AddCommand(listSnapshotsCmd())
	cmd.AddCommand(deleteSnapshotCmd())

	return cmd
}

func saveSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Copy the database sheet into a new snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			client, sheetsConfig, err := newSheetsClient(ctx)
			if err != nil {
				return err
			}
			source, err := sheets.SpreadsheetID(sheetsConfig.Spreadsheet)
			if err != nil {
				return err
			}

			sess := session.New(client, session.Config{
				DatabaseSheet: sheetsConfig.DatabaseSheet,
				Segments:      config.Segments(),
			})
			st, warnings, err := sess.Records(ctx)
			if err != nil {
				return err
			}

			db, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := db.Close(); cerr != nil {
					slog.Warn("Failed to close snapshot database", "error", cerr)
				}
			}()

			id, err := db.SaveSnapshot(ctx, source, st)
			if err != nil {
				return fmt.Errorf("failed to save snapshot: %w", err)
			}

			r := cli.NewRenderer(os.Stdout)
			r.Warnings(warnings)
			if err := r.Err(); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Saved snapshot %s with %d record(s) to %s", id, st.Len(), db.Path())))
			return nil
		},
	}
}

func listSnapshotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List snapshots, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			db, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			snapshots, err := db.ListSnapshots(ctx)
			if err != nil {
				return err
			}

			r := cli.NewRenderer(os.Stdout)
			r.Snapshots(snapshots)
			return r.Err()
		},
	}
}

func deleteSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := db.DeleteSnapshot(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Deleted snapshot " + args[0]))
			return nil
		},
	}
}
