// Package services orchestrates the rollup engine over the persisted
// collections: loading records, running computation passes, caching built
// reports and announcing record changes.
package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"burokasa/internal/amqp"
	"burokasa/internal/cache"
	"burokasa/internal/core"
	applog "burokasa/internal/log"
)

// RecordSource supplies the five raw collections for one computation pass.
type RecordSource interface {
	CaseFiles(ctx context.Context) ([]core.RawRecord, error)
	InstitutionFiles(ctx context.Context) ([]core.RawRecord, error)
	OfficeExpenses(ctx context.Context) ([]core.RawRecord, error)
	InstitutionExpenses(ctx context.Context) ([]core.RawRecord, error)
	CaseExpenses(ctx context.Context) ([]core.RawRecord, error)
}

// RecordStore is a RecordSource that also accepts writes.
type RecordStore interface {
	RecordSource
	Insert(ctx context.Context, kind core.SourceKind, raw core.RawRecord) (string, error)
	Delete(ctx context.Context, kind core.SourceKind, id string) error
	Close() error
}

// DashboardReport is the computed state behind the KPI cards and the
// period-scoped bucket chart.
type DashboardReport struct {
	Period  core.PeriodTag        `json:"period"`
	Range   *core.PeriodRange     `json:"range,omitempty"`
	Metrics core.AggregateMetrics `json:"metrics"`
	Buckets []core.MonthlyBucket  `json:"buckets"`
}

// TrendReport is the trailing history plus the projected months. An empty
// Forecast means the history is too short to fit a line.
type TrendReport struct {
	History  []core.MonthlyBucket `json:"history"`
	Forecast []core.MonthlyBucket `json:"forecast"`
}

// HakedisEntry pairs an institutional file with its fee-share breakdown.
type HakedisEntry struct {
	ID          string                  `json:"id,omitempty"`
	Institution string                  `json:"institution,omitempty"`
	Paid        bool                    `json:"paid"`
	Calculation core.HakedisCalculation `json:"calculation"`
}

// Options tunes the report service.
type Options struct {
	HistoryMonths  int
	ForecastMonths int
	CacheSize      int
	CacheTTL       time.Duration
}

func (o Options) withDefaults() Options {
	if o.HistoryMonths <= 0 {
		o.HistoryMonths = 12
	}
	if o.ForecastMonths <= 0 {
		o.ForecastMonths = 3
	}
	if o.CacheSize <= 0 {
		o.CacheSize = 64
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 5 * time.Minute
	}
	return o
}

// ReportService runs computation passes over a record store. Every report is
// a complete recomputation from raw inputs; the cache only skips identical
// passes between record changes.
type ReportService struct {
	store      RecordStore
	amqpClient *amqp.Client
	opts       Options
	logger     *applog.Logger

	dashboards *cache.LRUCache[DashboardReport]
	trends     *cache.LRUCache[TrendReport]
}

func NewReportService(store RecordStore, amqpClient *amqp.Client, opts Options, logger *applog.Logger) *ReportService {
	opts = opts.withDefaults()
	if logger == nil {
		logger = applog.New(applog.Config{Component: applog.ComponentReport})
	}
	return &ReportService{
		store:      store,
		amqpClient: amqpClient,
		opts:       opts,
		logger:     logger.WithComponent(applog.ComponentReport),
		dashboards: cache.NewLRUCache[DashboardReport](opts.CacheSize, opts.CacheTTL),
		trends:     cache.NewLRUCache[TrendReport](opts.CacheSize, opts.CacheTTL),
	}
}

// collections is one loaded snapshot of the five sources.
type collections struct {
	caseFiles           []core.RawRecord
	institutionFiles    []core.RawRecord
	officeExpenses      []core.RawRecord
	institutionExpenses []core.RawRecord
	caseExpenses        []core.RawRecord
}

func (s *ReportService) loadCollections(ctx context.Context) (collections, error) {
	var cols collections
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) { cols.caseFiles, err = s.store.CaseFiles(ctx); return })
	g.Go(func() (err error) { cols.institutionFiles, err = s.store.InstitutionFiles(ctx); return })
	g.Go(func() (err error) { cols.officeExpenses, err = s.store.OfficeExpenses(ctx); return })
	g.Go(func() (err error) { cols.institutionExpenses, err = s.store.InstitutionExpenses(ctx); return })
	g.Go(func() (err error) { cols.caseExpenses, err = s.store.CaseExpenses(ctx); return })

	if err := g.Wait(); err != nil {
		return collections{}, fmt.Errorf("load collections: %w", err)
	}
	return cols, nil
}

// normalize flattens a snapshot into monetary records, logging diagnostics
// without failing the pass.
func (s *ReportService) normalize(ctx context.Context, cols collections) []core.MonetaryRecord {
	byKind := map[core.SourceKind][]core.RawRecord{
		core.KindCaseFile:           cols.caseFiles,
		core.KindInstitutionFile:    cols.institutionFiles,
		core.KindOfficeExpense:      cols.officeExpenses,
		core.KindInstitutionExpense: cols.institutionExpenses,
		core.KindCaseExpense:        cols.caseExpenses,
	}

	var records []core.MonetaryRecord
	for _, kind := range core.Kinds {
		recs, problems := core.NormalizeAll(kind, byKind[kind])
		records = append(records, recs...)
		for _, p := range problems {
			s.logger.WarnContext(ctx, "Skipping malformed field",
				applog.FieldSourceKind, p.Kind,
				"field", p.Field,
				"value", p.Value,
				"reason", p.Reason)
		}
	}
	return records
}

// BuildDashboard computes the aggregate metrics and monthly buckets for one
// period selection.
func (s *ReportService) BuildDashboard(ctx context.Context, tag core.PeriodTag, custom *core.PeriodRange) (DashboardReport, error) {
	key := dashboardKey(tag, custom)
	if report, ok := s.dashboards.Get(key); ok {
		return report, nil
	}

	cols, err := s.loadCollections(ctx)
	if err != nil {
		return DashboardReport{}, err
	}

	records := s.normalize(ctx, cols)
	pr, bounded := core.Resolve(tag, time.Now(), custom)
	scoped := core.FilterByPeriod(records, pr, bounded)

	report := DashboardReport{
		Period:  tag,
		Metrics: core.ComputeMetrics(scoped, core.TotalFeeOwed(cols.caseFiles, cols.institutionFiles)),
		Buckets: core.Bucketize(scoped),
	}
	if bounded {
		report.Range = &pr
	}

	s.dashboards.Set(key, report)
	s.logger.InfoContext(ctx, "Dashboard computed",
		applog.FieldPeriod, tag,
		"records", len(scoped),
		"buckets", len(report.Buckets))
	return report, nil
}

// BuildTrend computes the trailing monthly history and its projection.
func (s *ReportService) BuildTrend(ctx context.Context) (TrendReport, error) {
	key := fmt.Sprintf("trend:%d:%d", s.opts.HistoryMonths, s.opts.ForecastMonths)
	if report, ok := s.trends.Get(key); ok {
		return report, nil
	}

	cols, err := s.loadCollections(ctx)
	if err != nil {
		return TrendReport{}, err
	}

	history := core.LastN(core.Bucketize(s.normalize(ctx, cols)), s.opts.HistoryMonths)
	report := TrendReport{
		History:  history,
		Forecast: core.Forecast(history, s.opts.ForecastMonths),
	}

	s.trends.Set(key, report)
	if len(report.Forecast) == 0 {
		s.logger.InfoContext(ctx, "Trend computed without forecast",
			"history_months", len(history),
			"reason", "insufficient history")
	}
	return report, nil
}

// HakedisBreakdown returns the fee-share calculation of every institutional
// file, for the gross/VAT/withholding/net table.
func (s *ReportService) HakedisBreakdown(ctx context.Context) ([]HakedisEntry, error) {
	files, err := s.store.InstitutionFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("load institution files: %w", err)
	}

	entries := make([]HakedisEntry, 0, len(files))
	for _, raw := range files {
		base, _ := rawFloat(raw, "tahsil_tutar")
		rate, _ := rawFloat(raw, "vekalet_orani")
		entry := HakedisEntry{
			Calculation: core.CalculateHakedis(base, rate),
		}
		if id, ok := raw["id"].(string); ok {
			entry.ID = id
		}
		if name, ok := raw["kurum"].(string); ok {
			entry.Institution = name
		}
		_, _, counted := core.Normalize(core.KindInstitutionFile, raw)
		entry.Paid = counted
		entries = append(entries, entry)
	}
	return entries, nil
}

// CreateRecord inserts a raw record, drops every cached report and announces
// the change.
func (s *ReportService) CreateRecord(ctx context.Context, kind core.SourceKind, raw core.RawRecord) (string, error) {
	id, err := s.store.Insert(ctx, kind, raw)
	if err != nil {
		return "", fmt.Errorf("insert record: %w", err)
	}

	s.InvalidateReports()
	s.publishChange(ctx, kind, id, amqp.OpCreate)
	return id, nil
}

// DeleteRecord removes a record, drops every cached report and announces the
// change.
func (s *ReportService) DeleteRecord(ctx context.Context, kind core.SourceKind, id string) error {
	if err := s.store.Delete(ctx, kind, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}

	s.InvalidateReports()
	s.publishChange(ctx, kind, id, amqp.OpDelete)
	return nil
}

// InvalidateReports drops every cached report. The next read recomputes
// from scratch.
func (s *ReportService) InvalidateReports() {
	s.dashboards.Clear()
	s.trends.Clear()
}

func (s *ReportService) publishChange(ctx context.Context, kind core.SourceKind, id, op string) {
	if s.amqpClient == nil {
		return
	}
	msg := amqp.NewRecordChangeMessage(kind, id, op)
	if err := s.amqpClient.PublishRecordChange(ctx, msg); err != nil {
		// The write already succeeded; a lost event only delays cache warming.
		s.logger.ErrorContext(ctx, "Failed to publish record change",
			applog.FieldError, err,
			applog.FieldSourceKind, kind,
			applog.FieldRecordID, id)
	}
}

// Close releases the store and the AMQP connection.
func (s *ReportService) Close() error {
	var errs []error
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close report service: %v", errs)
	}
	return nil
}

func dashboardKey(tag core.PeriodTag, custom *core.PeriodRange) string {
	if tag == core.PeriodCustom && custom != nil {
		return fmt.Sprintf("dashboard:%s:%s:%s", tag,
			custom.Start.Format("2006-01-02"), custom.End.Format("2006-01-02"))
	}
	return "dashboard:" + string(tag)
}

func rawFloat(raw core.RawRecord, field string) (float64, bool) {
	switch v := raw[field].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}
