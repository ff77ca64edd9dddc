package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/aggregate"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/common"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/config"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/normalize"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/session"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/sheets"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/storage"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/store"
	"github.com/spf13/cobra"
)

// filterFlags are the segment and period selectors shared by read commands.
type filterFlags struct {
	segment string
	month   int
	year    int
}

func addFilterFlags(cmd *cobra.Command, f *filterFlags) {
	cmd.Flags().StringVarP(&f.segment, "segment", "s", model.SegmentAll, "segment to show, or \"all\"")
	cmd.Flags().IntVarP(&f.month, "month", "m", 0, "month 1-12 (0 for the whole year)")
	cmd.Flags().IntVarP(&f.year, "year", "y", time.Now().Year(), "year")
}

func (f filterFlags) filter() aggregate.Filter {
	return aggregate.Filter{Segment: f.segment, Month: f.month, Year: f.year}
}

// periodFlags select exactly one period, for writes.
type periodFlags struct {
	segment string
	month   int
	year    int
}

func addPeriodFlags(cmd *cobra.Command, p *periodFlags) {
	now := time.Now()
	cmd.Flags().StringVarP(&p.segment, "segment", "s", "", "segment (required)")
	cmd.Flags().IntVarP(&p.month, "month", "m", int(now.Month()), "month 1-12")
	cmd.Flags().IntVarP(&p.year, "year", "y", now.Year(), "year")
}

// period validates the flags and returns the period label.
func (p periodFlags) period() (string, error) {
	if p.month < 1 || p.month > 12 {
		return "", fmt.Errorf("%w: month %d is outside 1..12", common.ErrInvalidFilter, p.month)
	}
	if p.year <= 0 {
		return "", fmt.Errorf("%w: year %d", common.ErrInvalidFilter, p.year)
	}
	return model.FormatPeriod(p.month, p.year), nil
}

// newSession connects to the configured spreadsheet, or loads the latest
// snapshot when offline is set.
func newSession(ctx context.Context, offline bool) (*session.Session, error) {
	cfg := session.Config{Segments: config.Segments()}

	if offline {
		st, info, err := latestSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		slog.Info("Using offline snapshot", "id", info.ID, "created", info.CreatedAt, "records", info.Records)
		return session.New(nil, cfg, session.WithStore(st)), nil
	}

	client, sheetsConfig, err := newSheetsClient(ctx)
	if err != nil {
		return nil, err
	}
	cfg.DatabaseSheet = sheetsConfig.DatabaseSheet
	return session.New(client, cfg), nil
}

func newSheetsClient(ctx context.Context) (*sheets.Client, *sheets.Config, error) {
	sheetsConfig, err := config.LoadSheetsConfig()
	if err != nil {
		if errors.Is(err, common.ErrMissingConfig) {
			return nil, nil, common.NewUserError("Google Sheets is not configured; set sheets.spreadsheet and credentials, or run 'dashboard auth sheets'", err)
		}
		return nil, nil, err
	}

	client, err := sheets.NewClient(ctx, *sheetsConfig, slog.Default())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return client, sheetsConfig, nil
}

// initStorage opens the snapshot database with auto-migration.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	db, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate snapshot database: %w", err)
	}
	return db, nil
}

func latestSnapshot(ctx context.Context) (*store.Store, storage.SnapshotInfo, error) {
	db, err := initStorage(ctx)
	if err != nil {
		return nil, storage.SnapshotInfo{}, err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			slog.Warn("Failed to close snapshot database", "error", cerr)
		}
	}()

	st, info, err := db.LatestSnapshot(ctx)
	if errors.Is(err, storage.ErrSnapshotNotFound) {
		return nil, info, common.NewUserError("no snapshot saved yet; run 'dashboard snapshot save' first", err)
	}
	return st, info, err
}

// customerID writes a typed ID the way uploads store it, so "1.234.567"
// and "001234567" both find record 1234567.
func customerID(raw string) string {
	return normalize.Analysis().Identifier(raw)
}

// parseAssignments turns COLUMN=VALUE pairs into edit columns and values.
func parseAssignments(pairs []string) ([]string, []string, error) {
	columns := make([]string, 0, len(pairs))
	values := make([]string, 0, len(pairs))
	for _, p := range pairs {
		col, val, ok := strings.Cut(p, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return nil, nil, fmt.Errorf("invalid assignment %q, expected COLUMN=VALUE", p)
		}
		columns = append(columns, col)
		values = append(values, val)
	}
	return columns, values, nil
}

// stdoutIsTerminal reports whether stdout is a character device.
func stdoutIsTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
