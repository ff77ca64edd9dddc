// Package session owns the state of one interactive dashboard session: the
// external spreadsheet handle and the canonical record store loaded from it.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/337ubaid/dci-dashboard-ssgs/internal/aggregate"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/classify"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/common"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/model"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/reconcile"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/service"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/store"
	"github.com/337ubaid/dci-dashboard-ssgs/internal/validation"
)

// ErrOffline is returned by operations that need the spreadsheet when the
// session was opened from a local snapshot.
var ErrOffline = errors.New("session is offline")

// Config holds the session settings.
type Config struct {
	DatabaseSheet string
	Segments      []string
}

// Session is the single writer of the canonical record store. Aggregation
// and reconciliation borrow the store through it.
type Session struct {
	sheets    service.Spreadsheet
	store     *store.Store
	validator *validation.Validator
	engine    *reconcile.Engine
	logger    *slog.Logger
	now       func() time.Time
	config    Config
	mu        sync.Mutex
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithClock sets the clock used for Last Updated stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithStore preloads the store, e.g. from a snapshot.
func WithStore(st *store.Store) Option {
	return func(s *Session) { s.store = st }
}

// New creates a session. sheets may be nil for an offline session, which
// must then be given a store with WithStore.
func New(sheets service.Spreadsheet, config Config, opts ...Option) *Session {
	s := &Session{
		sheets: sheets,
		logger: slog.Default(),
		now:    time.Now,
		config: config,
	}
	if len(s.config.Segments) == 0 {
		s.config.Segments = append([]string(nil), model.DefaultSegments...)
	}
	for _, opt := range opts {
		opt(s)
	}

	if sheets != nil {
		classifier := classify.New(sheets, s.logger)
		s.validator = validation.New(classifier, validation.WithClock(s.now), validation.WithLogger(s.logger))
	}
	s.engine = reconcile.New(s.logger)
	return s
}

// Segments returns the configured segments.
func (s *Session) Segments() []string {
	return append([]string(nil), s.config.Segments...)
}

func (s *Session) knownSegment(segment string) bool {
	if segment == "" || segment == model.SegmentAll {
		return true
	}
	for _, seg := range s.config.Segments {
		if seg == segment {
			return true
		}
	}
	return false
}

// Offline reports whether the session has no spreadsheet.
func (s *Session) Offline() bool {
	return s.sheets == nil
}

// Load reads the database sheet into a fresh store. On failure the previous
// store is kept. An empty sheet yields an empty store and a warning.
func (s *Session) Load(ctx context.Context) ([]common.Warning, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

func (s *Session) load(ctx context.Context) ([]common.Warning, error) {
	if s.sheets == nil {
		return nil, ErrOffline
	}

	t, err := s.sheets.ReadTable(ctx, s.config.DatabaseSheet)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.config.DatabaseSheet, err)
	}

	var warnings []common.Warning
	var st *store.Store
	if t.Empty() {
		st = store.New(nil)
		warnings = append(warnings, common.NewWarning(common.WarnEmptySheet, "sheet %q is empty", s.config.DatabaseSheet))
	} else {
		st, warnings = store.FromTable(t)
	}

	common.LogWarnings(s.logger, warnings)
	s.logger.Info("loaded records", "sheet", s.config.DatabaseSheet, "rows", st.Len())
	s.store = st
	return warnings, nil
}

// Records returns the current store, loading it first when needed. The store
// is borrowed: callers must not modify it.
func (s *Session) Records(ctx context.Context) (*store.Store, []common.Warning, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.records(ctx)
}

func (s *Session) records(ctx context.Context) (*store.Store, []common.Warning, error) {
	if s.store != nil {
		return s.store, nil, nil
	}
	warnings, err := s.load(ctx)
	if err != nil {
		return nil, nil, err
	}
	return s.store, warnings, nil
}

// UploadResult reports an upload.
type UploadResult struct {
	Target  validation.Target
	Replace service.ReplaceResult
	Records int
}

// Upload validates a raw batch and replaces the target period and segment in
// the database sheet with it. The store is dropped afterwards so the next
// read reloads it.
func (s *Session) Upload(ctx context.Context, raw model.Table, target validation.Target) (UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := UploadResult{Target: target}
	if s.sheets == nil {
		return result, ErrOffline
	}
	if !s.knownSegment(target.Segment) {
		return result, fmt.Errorf("%w: unknown segment %q", common.ErrInvalidFilter, target.Segment)
	}

	records, err := s.validator.Validate(ctx, raw, target)
	if err != nil {
		return result, err
	}

	rows := make([][]any, len(records))
	for i := range records {
		rows[i] = records[i].Values()
	}

	result.Replace, err = s.sheets.ReplaceByKey(ctx, s.config.DatabaseSheet, target.Period, target.StampedSegment(), rows)
	if err != nil {
		return result, fmt.Errorf("write upload: %w", err)
	}
	result.Records = len(records)
	s.store = nil

	s.logger.Info("uploaded batch",
		"period", target.Period,
		"segment", target.StampedSegment(),
		"records", result.Records,
		"replaced", result.Replace.Deleted)
	return result, nil
}

// View is a filtered slice of the store with its quadrant summary.
type View struct {
	Records  []model.Record
	Warnings []common.Warning
	Summary  aggregate.Summary
	Filter   aggregate.Filter
}

// Summary filters the store and summarizes it by quadrant.
func (s *Session) Summary(ctx context.Context, f aggregate.Filter, topN int) (View, error) {
	records, warnings, err := s.filtered(ctx, f)
	if err != nil {
		return View{}, err
	}
	if topN <= 0 {
		topN = aggregate.DefaultTopN
	}
	return View{
		Records:  records,
		Warnings: warnings,
		Summary:  aggregate.Summarize(records, topN),
		Filter:   f,
	}, nil
}

// Workload computes an account manager's share of the filtered records.
func (s *Session) Workload(ctx context.Context, f aggregate.Filter, manager string) (aggregate.Workload, error) {
	records, _, err := s.filtered(ctx, f)
	if err != nil {
		return aggregate.Workload{}, err
	}
	return aggregate.ComputeWorkload(records, manager), nil
}

// Leaderboard ranks account managers over the filtered records.
func (s *Session) Leaderboard(ctx context.Context, f aggregate.Filter, n int) ([]aggregate.LeaderboardEntry, error) {
	records, _, err := s.filtered(ctx, f)
	if err != nil {
		return nil, err
	}
	return aggregate.Leaderboard(records, n), nil
}

func (s *Session) filtered(ctx context.Context, f aggregate.Filter) ([]model.Record, []common.Warning, error) {
	if err := f.Validate(s.config.Segments); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, warnings, err := s.records(ctx)
	if err != nil {
		return nil, nil, err
	}
	return f.Apply(st.Records), warnings, nil
}

// SaveEdits reconciles an edit table against the store and projects the
// changed cells to the sheet. Edits are applied to a copy that replaces the
// store only once every cell was written; on failure the store is unchanged.
func (s *Session) SaveEdits(ctx context.Context, edits model.Table, progress func(done, total int)) (reconcile.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sheets == nil {
		return reconcile.Result{}, ErrOffline
	}

	current, _, err := s.records(ctx)
	if err != nil {
		return reconcile.Result{}, err
	}

	next := current.Clone()
	result, err := s.engine.Apply(next, edits)
	if err != nil {
		return result, err
	}

	var step func(int)
	if progress != nil {
		total := len(result.Updates)
		step = func(done int) { progress(done, total) }
	}
	if err := s.engine.Project(ctx, s.sheets, s.config.DatabaseSheet, result.Updates, step); err != nil {
		return result, err
	}

	s.store = next
	return result, nil
}

// Thresholds lists the quadrant thresholds of every segment.
func (s *Session) Thresholds(ctx context.Context) ([]model.Threshold, error) {
	if s.sheets == nil {
		return nil, ErrOffline
	}
	return s.sheets.ListThresholds(ctx)
}

// SetThreshold replaces the threshold of t.Segment, adding it when absent,
// and rewrites the reference sheet. Records already stored keep their
// quadrant until they are uploaded again.
func (s *Session) SetThreshold(ctx context.Context, t model.Threshold) error {
	if s.sheets == nil {
		return ErrOffline
	}
	if t.Balance.IsNegative() || t.Months.IsNegative() {
		return fmt.Errorf("%w: threshold for %q must not be negative", common.ErrInvalidConfig, t.Segment)
	}

	thresholds, err := s.sheets.ListThresholds(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range thresholds {
		if thresholds[i].Segment == t.Segment {
			thresholds[i] = t
			replaced = true
			break
		}
	}
	if !replaced {
		thresholds = append(thresholds, t)
	}

	if err := s.sheets.ReplaceThresholds(ctx, thresholds); err != nil {
		return err
	}
	s.logger.Info("threshold updated", "segment", t.Segment, "balance", t.Balance.String(), "months", t.Months.String())
	return nil
}
