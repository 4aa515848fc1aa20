package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// MetricsError describes a failure while building or collecting business metrics
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return fmt.Sprintf("telemetry: %s: %s", e.Op, e.Err)
}

// ErrMeterNil is returned when BusinessMetrics is constructed without a meter
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// BudgetSnapshot is one budget line's current utilization
type BudgetSnapshot struct {
	Code        string
	FiscalYear  int
	Utilization float64 // committed / ceiling, in [0,1]
}

// BudgetMetricsProvider supplies budget utilization data for periodic collection
type BudgetMetricsProvider interface {
	BudgetUtilization(ctx context.Context) ([]BudgetSnapshot, error)
}

// BusinessMetricsConfig configures periodic collection
type BusinessMetricsConfig struct {
	CollectionInterval time.Duration
	CollectionTimeout  time.Duration
}

// DefaultBusinessMetricsConfig returns sensible defaults
func DefaultBusinessMetricsConfig() BusinessMetricsConfig {
	return BusinessMetricsConfig{
		CollectionInterval: 60 * time.Second,
		CollectionTimeout:  10 * time.Second,
	}
}

// BusinessMetrics records domain-level metrics: execution documents generated
// and signed, budget commit outcomes, and per-budget utilization gauges.
type BusinessMetrics struct {
	documentGeneratedTotal metric.Int64Counter
	documentSignedTotal    metric.Int64Counter
	budgetCommitTotal      metric.Int64Counter
	caseTransitionTotal    metric.Int64Counter
	budgetUtilization      metric.Float64Gauge

	provider BudgetMetricsProvider
	config   BusinessMetricsConfig
	logger   *zap.Logger

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewBusinessMetrics creates business metrics instruments on the given meter
func NewBusinessMetrics(meter metric.Meter, provider BudgetMetricsProvider, cfg BusinessMetricsConfig, logger *zap.Logger) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CollectionInterval <= 0 {
		cfg.CollectionInterval = DefaultBusinessMetricsConfig().CollectionInterval
	}
	if cfg.CollectionTimeout <= 0 {
		cfg.CollectionTimeout = DefaultBusinessMetricsConfig().CollectionTimeout
	}

	bm := &BusinessMetrics{
		provider: provider,
		config:   cfg,
		logger:   logger,
		stopChan: make(chan struct{}),
	}

	var err error

	bm.documentGeneratedTotal, err = NewCounter(meter,
		"sodpa.documents.generated.total",
		"Total execution documents generated, by kind")
	if err != nil {
		return nil, fmt.Errorf("failed to create documents generated counter: %w", err)
	}

	bm.documentSignedTotal, err = NewCounter(meter,
		"sodpa.documents.signed.total",
		"Total execution documents signed, by kind")
	if err != nil {
		return nil, fmt.Errorf("failed to create documents signed counter: %w", err)
	}

	bm.budgetCommitTotal, err = NewCounter(meter,
		"sodpa.budget.commits.total",
		"Total budget commit attempts, by budget code and outcome")
	if err != nil {
		return nil, fmt.Errorf("failed to create budget commits counter: %w", err)
	}

	bm.caseTransitionTotal, err = NewCounter(meter,
		"sodpa.cases.transitions.total",
		"Total supply case status transitions, by target status")
	if err != nil {
		return nil, fmt.Errorf("failed to create case transitions counter: %w", err)
	}

	bm.budgetUtilization, err = NewFloatGauge(meter,
		"sodpa.budget.utilization",
		"Committed amount as a fraction of the annual ceiling, per budget line",
		"1")
	if err != nil {
		return nil, fmt.Errorf("failed to create budget utilization gauge: %w", err)
	}

	return bm, nil
}

// RecordDocumentGenerated increments the generated-documents counter
func (bm *BusinessMetrics) RecordDocumentGenerated(ctx context.Context, kind string) {
	bm.documentGeneratedTotal.Add(ctx, 1, metric.WithAttributes(
		AttrDocumentKind.String(kind),
	))
}

// RecordDocumentSigned increments the signed-documents counter
func (bm *BusinessMetrics) RecordDocumentSigned(ctx context.Context, kind string) {
	bm.documentSignedTotal.Add(ctx, 1, metric.WithAttributes(
		AttrDocumentKind.String(kind),
	))
}

// RecordBudgetCommit records a budget commit attempt.
// Outcome is "ok" for accepted commits and "rejected" for ceiling rejections.
func (bm *BusinessMetrics) RecordBudgetCommit(ctx context.Context, budgetCode, outcome string) {
	bm.budgetCommitTotal.Add(ctx, 1, metric.WithAttributes(
		AttrBudgetCode.String(budgetCode),
		AttrOutcome.String(outcome),
	))
}

// RecordCaseTransition records a supply case entering a new status
func (bm *BusinessMetrics) RecordCaseTransition(ctx context.Context, status string) {
	bm.caseTransitionTotal.Add(ctx, 1, metric.WithAttributes(
		AttrCaseStatus.String(status),
	))
}

// StartPeriodicCollection starts the background loop that polls the
// BudgetMetricsProvider and records utilization gauges. No-op when no
// provider is configured.
func (bm *BusinessMetrics) StartPeriodicCollection() {
	if bm.provider == nil {
		bm.logger.Debug("no budget metrics provider configured, skipping periodic collection")
		return
	}

	bm.wg.Add(1)
	go bm.collectionLoop()

	bm.logger.Info("business metrics collection started",
		zap.Duration("interval", bm.config.CollectionInterval),
	)
}

// Stop stops the periodic collection loop. Safe to call multiple times.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
	bm.wg.Wait()
}

func (bm *BusinessMetrics) collectionLoop() {
	defer bm.wg.Done()

	ticker := time.NewTicker(bm.config.CollectionInterval)
	defer ticker.Stop()

	// First collection immediately, so gauges are not empty for a full interval
	bm.collectOnce()

	for {
		select {
		case <-bm.stopChan:
			return
		case <-ticker.C:
			bm.collectOnce()
		}
	}
}

func (bm *BusinessMetrics) collectOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), bm.config.CollectionTimeout)
	defer cancel()

	snapshots, err := bm.provider.BudgetUtilization(ctx)
	if err != nil {
		bm.logger.Warn("failed to collect budget utilization", zap.Error(err))
		return
	}

	for _, s := range snapshots {
		bm.budgetUtilization.Record(ctx, s.Utilization, metric.WithAttributes(
			AttrBudgetCode.String(s.Code),
			attribute.Int("budget.fiscal_year", s.FiscalYear),
		))
	}
}
