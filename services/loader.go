package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"aeo-analytics/metrics"
	"aeo-analytics/models"
	"aeo-analytics/storage"
	"aeo-analytics/utils"
)

var requiredColumns = map[string][]string{
	models.TableRanking:       {models.ColCategory, models.ColSource, models.ColRank, models.ColNormalizedScore},
	models.TableProductDetail: {models.ColCategory, models.ColProductName, models.ColSource, models.ColRank},
	models.TableCitation:      {models.ColCategory, models.ColProductName, models.ColCitations},
}

// Loader reads the three input tables from a TableSource, validates them,
// and assembles Datasets.
type Loader struct {
	source  storage.TableSource
	cleaner *Cleaner
	focal   string
	timeout time.Duration
	logger  *utils.Logger
}

// NewLoader creates a Loader. A zero timeout disables the load deadline.
func NewLoader(source storage.TableSource, focal string, timeout time.Duration, logger *utils.Logger) *Loader {
	return &Loader{
		source:  source,
		cleaner: NewCleaner(logger),
		focal:   focal,
		timeout: timeout,
		logger:  logger,
	}
}

// LoadRankingTable reads and validates the ranking table. Ranks must be a
// dense sequence per category.
func (l *Loader) LoadRankingTable(ctx context.Context) ([]models.RankingRecord, error) {
	t, err := l.readTable(ctx, models.TableRanking)
	if err != nil {
		return nil, err
	}
	rows, err := l.cleaner.RankingRecords(t)
	if err != nil {
		return nil, l.fail(models.TableRanking, err)
	}
	if err := validateDenseRanks(models.TableRanking, rows); err != nil {
		return nil, l.fail(models.TableRanking, err)
	}
	return rows, nil
}

func (l *Loader) LoadProductDetailTable(ctx context.Context) ([]models.ProductDetailRecord, error) {
	t, err := l.readTable(ctx, models.TableProductDetail)
	if err != nil {
		return nil, err
	}
	rows, err := l.cleaner.ProductDetailRecords(t)
	if err != nil {
		return nil, l.fail(models.TableProductDetail, err)
	}
	return rows, nil
}

func (l *Loader) LoadCitationTable(ctx context.Context) ([]models.CitationRecord, error) {
	t, err := l.readTable(ctx, models.TableCitation)
	if err != nil {
		return nil, err
	}
	rows, err := l.cleaner.CitationRecords(t)
	if err != nil {
		return nil, l.fail(models.TableCitation, err)
	}
	return rows, nil
}

// Load reads all three tables concurrently and indexes them into a Dataset.
// An unconfigured citation table is not an error; the Dataset then reports
// HasCitations() == false.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	var (
		ranking      []models.RankingRecord
		details      []models.ProductDetailRecord
		citations    []models.CitationRecord
		hasCitations = true
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ranking, err = l.LoadRankingTable(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		details, err = l.LoadProductDetailTable(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		citations, err = l.LoadCitationTable(gctx)
		if errors.Is(err, storage.ErrNotConfigured) {
			hasCitations = false
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := NewDataset(l.focal, ranking, details, citations, hasCitations)
	l.logger.Infow("dataset loaded",
		"snapshot_id", d.ID,
		"categories", len(d.Categories()),
		"ranking_rows", len(ranking),
		"detail_rows", len(details),
		"citation_rows", len(d.Citations),
		"has_citations", hasCitations,
	)
	return d, nil
}

type readResult struct {
	table *models.Table
	err   error
}

// readTable fetches one raw table under the load deadline and checks its
// required columns.
func (l *Loader) readTable(ctx context.Context, kind string) (*models.Table, error) {
	start := time.Now()
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	done := make(chan readResult, 1)
	go func() {
		t, err := l.source.ReadTable(ctx, kind)
		done <- readResult{table: t, err: err}
	}()

	var res readResult
	select {
	case <-ctx.Done():
		res.err = ctx.Err()
	case res = <-done:
	}
	metrics.TableLoadDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	if res.err != nil {
		if errors.Is(res.err, storage.ErrNotConfigured) {
			return nil, fmt.Errorf("%w: %s: %w", ErrDataUnavailable, kind, res.err)
		}
		return nil, l.fail(kind, fmt.Errorf("%w: %s from %s: %w", ErrDataUnavailable, kind, l.source.Describe(kind), res.err))
	}

	t := res.table
	present := t.ColumnIndex()
	var missing []string
	for _, col := range requiredColumns[kind] {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, l.fail(kind, &SchemaError{Table: kind, Missing: missing})
	}

	metrics.TableLoads.WithLabelValues(kind, metrics.StatusOK).Inc()
	metrics.TableRows.WithLabelValues(kind).Set(float64(len(t.Rows)))
	l.logger.Infow("table loaded",
		"table", kind,
		"path", l.source.Describe(kind),
		"rows", len(t.Rows),
		"columns", len(t.Header),
		"duration", time.Since(start),
	)
	return t, nil
}

func (l *Loader) fail(kind string, err error) error {
	metrics.TableLoads.WithLabelValues(kind, metrics.StatusError).Inc()
	l.logger.Errorw("table load failed", "table", kind, "error", err)
	return err
}
