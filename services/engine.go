package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"aeo-analytics/config"
	"aeo-analytics/metrics"
	"aeo-analytics/models"
	"aeo-analytics/utils"
)

// ErrUnknownReport is returned by Report for a name it does not serve.
var ErrUnknownReport = errors.New("unknown report")

// Engine answers report queries. Each query takes one snapshot from the
// provider and runs against it alone.
type Engine struct {
	provider SnapshotProvider
	logger   *utils.Logger
	workers  int

	ranking     *RankingAggregator
	competitors *CompetitorAnalyzer
	citations   *CitationAnalyzer
	prediction  *RankPredictionModel
	catalog     *CatalogService
	opportunity *OpportunityService
}

// NewEngine wires the analyzers with the given analysis settings.
func NewEngine(provider SnapshotProvider, cfg config.AnalysisConfig, logger *utils.Logger) *Engine {
	return &Engine{
		provider:    provider,
		logger:      logger,
		workers:     cfg.Workers,
		ranking:     NewRankingAggregator(cfg.Thresholds),
		competitors: NewCompetitorAnalyzer(cfg.Thresholds),
		citations:   NewCitationAnalyzer(),
		prediction:  NewRankPredictionModel(cfg.Forecast),
		catalog:     NewCatalogService(),
		opportunity: NewOpportunityService(cfg.Thresholds),
	}
}

// query takes a snapshot, runs fn on it and records the outcome.
func query[T any](ctx context.Context, e *Engine, report string, fn func(*Dataset) (T, error)) (result T, err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveQuery(report, start, err)
		if err != nil {
			e.logger.Debug("[engine] %s failed: %v", report, err)
		}
	}()

	d, err := e.provider.Snapshot(ctx)
	if err != nil {
		return result, err
	}
	return fn(d)
}

func (e *Engine) Overview(ctx context.Context) (*models.OverviewMetrics, error) {
	return query(ctx, e, "overview", e.ranking.Overview)
}

func (e *Engine) PerformanceQuadrants(ctx context.Context) ([]models.PerformanceQuadrant, error) {
	return query(ctx, e, "performance_quadrants", e.ranking.PerformanceQuadrants)
}

func (e *Engine) CategoryHeatmap(ctx context.Context) ([]models.CategoryHeatmapRow, error) {
	return query(ctx, e, "category_heatmap", e.ranking.CategoryHeatmap)
}

func (e *Engine) PriorityBuckets(ctx context.Context) (*models.PriorityBuckets, error) {
	return query(ctx, e, "priority_categories", e.ranking.PriorityBuckets)
}

func (e *Engine) PriorityBucket(ctx context.Context, severity string) ([]models.PriorityCategory, error) {
	return query(ctx, e, "priority_bucket", func(d *Dataset) ([]models.PriorityCategory, error) {
		return e.ranking.PriorityBucket(d, severity)
	})
}

func (e *Engine) QuickWins(ctx context.Context) ([]models.QuickWin, error) {
	return query(ctx, e, "quick_wins", e.ranking.QuickWins)
}

func (e *Engine) Battlegrounds(ctx context.Context) ([]models.BattlegroundCategory, error) {
	return query(ctx, e, "battlegrounds", e.ranking.Battlegrounds)
}

func (e *Engine) ThreatAnalysis(ctx context.Context) ([]models.CompetitorThreat, error) {
	return query(ctx, e, "competitor_threats", e.competitors.ThreatAnalysis)
}

func (e *Engine) CompetitorSpecialties(ctx context.Context) ([]models.CompetitorSpecialty, error) {
	return query(ctx, e, "competitor_specialties", e.competitors.CompetitorSpecialties)
}

func (e *Engine) CompetitorSpecialty(ctx context.Context, name string) (*models.CompetitorSpecialty, error) {
	return query(ctx, e, "competitor_specialty", func(d *Dataset) (*models.CompetitorSpecialty, error) {
		return e.competitors.CompetitorSpecialty(d, name)
	})
}

func (e *Engine) CompetitorDetail(ctx context.Context, name string) (*models.CompetitorDetail, error) {
	return query(ctx, e, "competitor_detail", func(d *Dataset) (*models.CompetitorDetail, error) {
		return e.competitors.CompetitorDetail(d, name)
	})
}

func (e *Engine) CitationSources(ctx context.Context, topN int) ([]models.CitationSource, error) {
	return query(ctx, e, "citation_sources", func(d *Dataset) ([]models.CitationSource, error) {
		return e.citations.CitationSources(d, topN)
	})
}

func (e *Engine) TrustSignals(ctx context.Context) ([]models.TrustSignal, error) {
	return query(ctx, e, "trust_signals", e.citations.TrustSignals)
}

func (e *Engine) CitationVisibility(ctx context.Context) (*models.CitationVisibility, error) {
	return query(ctx, e, "citation_visibility", e.citations.CitationVisibility)
}

func (e *Engine) SourceAuthorityMap(ctx context.Context) (*models.SourceAuthorityMap, error) {
	return query(ctx, e, "source_authority_map", e.citations.SourceAuthorityMap)
}

func (e *Engine) Predict(ctx context.Context, s Scenario) (*models.RankPrediction, error) {
	return query(ctx, e, "rank_prediction", func(d *Dataset) (*models.RankPrediction, error) {
		return e.prediction.Predict(d, s)
	})
}

func (e *Engine) MarketplaceRankings(ctx context.Context, topN int) ([]models.CategoryRanking, error) {
	return query(ctx, e, "ranking_table", func(d *Dataset) ([]models.CategoryRanking, error) {
		return e.catalog.MarketplaceRankings(d, topN)
	})
}

func (e *Engine) CategoryDetails(ctx context.Context, category string) (*models.CategoryDetails, error) {
	return query(ctx, e, "category_details", func(d *Dataset) (*models.CategoryDetails, error) {
		return e.catalog.CategoryDetails(d, category)
	})
}

func (e *Engine) Statistics(ctx context.Context) (*models.RankingStatistics, error) {
	return query(ctx, e, "statistics", e.catalog.Statistics)
}

func (e *Engine) NoRankAnalysis(ctx context.Context) (*models.NoRankAnalysis, error) {
	return query(ctx, e, "no_rank_analysis", e.catalog.NoRankAnalysis)
}

func (e *Engine) CategoryBattle(ctx context.Context, category string) (*models.CategoryBattle, error) {
	return query(ctx, e, "category_battle", func(d *Dataset) (*models.CategoryBattle, error) {
		return e.catalog.CategoryBattle(d, category)
	})
}

func (e *Engine) OfficialStoreScores(ctx context.Context) ([]models.OfficialStoreScore, error) {
	return query(ctx, e, "official_store_scores", e.opportunity.OfficialStoreScores)
}

func (e *Engine) ProductAvailability(ctx context.Context) ([]models.AvailabilityRow, error) {
	return query(ctx, e, "product_availability", e.opportunity.ProductAvailability)
}

func (e *Engine) NicheOpportunities(ctx context.Context) ([]models.NicheOpportunity, error) {
	return query(ctx, e, "niche_opportunities", e.opportunity.NicheOpportunities)
}

func (e *Engine) CategoryAssociations(ctx context.Context) ([]models.CategoryAssociation, error) {
	return query(ctx, e, "category_associations", e.opportunity.CategoryAssociations)
}

func (e *Engine) IntentAlignments(ctx context.Context) ([]models.IntentAlignment, error) {
	return query(ctx, e, "intent_alignment", e.opportunity.IntentAlignments)
}

// InsightBundle computes the dashboard reports concurrently from a single
// snapshot. The citation reports are left out when the citation table is
// not configured.
func (e *Engine) InsightBundle(ctx context.Context) (*models.InsightBundle, error) {
	return query(ctx, e, "all_insights", func(d *Dataset) (*models.InsightBundle, error) {
		b := &models.InsightBundle{SnapshotID: d.ID}
		var mu sync.Mutex
		pool := utils.NewWorkerPool(e.workers)

		run := func(fn func() error) {
			pool.Submit(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				return fn()
			})
		}
		set := func(assign func()) {
			mu.Lock()
			assign()
			mu.Unlock()
		}

		run(func() error {
			v, err := e.ranking.Overview(d)
			set(func() { b.Overview = v })
			return err
		})
		run(func() error {
			v, err := e.ranking.PerformanceQuadrants(d)
			set(func() { b.PerformanceQuadrants = v })
			return err
		})
		run(func() error {
			v, err := e.competitors.ThreatAnalysis(d)
			set(func() { b.CompetitorThreats = v })
			return err
		})
		run(func() error {
			v, err := e.ranking.PriorityBuckets(d)
			set(func() { b.PriorityCategories = v })
			return err
		})
		run(func() error {
			v, err := e.ranking.CategoryHeatmap(d)
			set(func() { b.CategoryHeatmap = v })
			return err
		})
		run(func() error {
			v, err := e.ranking.QuickWins(d)
			set(func() { b.QuickWins = v })
			return err
		})
		run(func() error {
			v, err := e.ranking.Battlegrounds(d)
			set(func() { b.Battlegrounds = v })
			return err
		})
		if d.HasCitations() {
			run(func() error {
				v, err := e.catalog.NoRankAnalysis(d)
				set(func() { b.NoRankAnalysis = v })
				return err
			})
			run(func() error {
				v, err := e.citations.CitationSources(d, 0)
				set(func() { b.CitationSources = v })
				return err
			})
		}

		if err := pool.Wait(); err != nil {
			return nil, err
		}
		return b, nil
	})
}

// AdditionalBundle computes the opportunity reports from a single snapshot.
// Reports that read the citation table are left out when it is not
// configured.
func (e *Engine) AdditionalBundle(ctx context.Context) (*models.AdditionalBundle, error) {
	return query(ctx, e, "all_additional", func(d *Dataset) (*models.AdditionalBundle, error) {
		b := &models.AdditionalBundle{SnapshotID: d.ID}
		var err error

		if b.OfficialStoreScores, err = e.opportunity.OfficialStoreScores(d); err != nil {
			return nil, err
		}
		if b.TrustSignals, err = e.citations.TrustSignals(d); err != nil {
			return nil, err
		}
		if b.CategoryAssociations, err = e.opportunity.CategoryAssociations(d); err != nil {
			return nil, err
		}
		if b.CompetitorSpecialties, err = e.competitors.CompetitorSpecialties(d); err != nil {
			return nil, err
		}
		if b.IntentAlignments, err = e.opportunity.IntentAlignments(d); err != nil {
			return nil, err
		}
		if !d.HasCitations() {
			return b, nil
		}

		if b.CitationVisibility, err = e.citations.CitationVisibility(d); err != nil {
			return nil, err
		}
		if b.SourceAuthority, err = e.citations.SourceAuthorityMap(d); err != nil {
			return nil, err
		}
		if b.ProductAvailability, err = e.opportunity.ProductAvailability(d); err != nil {
			return nil, err
		}
		if b.NicheOpportunities, err = e.opportunity.NicheOpportunities(d); err != nil {
			return nil, err
		}
		return b, nil
	})
}

// reports maps report names accepted by Report onto their queries.
var reports = map[string]func(context.Context, *Engine) (any, error){
	"overview":               func(ctx context.Context, e *Engine) (any, error) { return e.Overview(ctx) },
	"performance-quadrants":  func(ctx context.Context, e *Engine) (any, error) { return e.PerformanceQuadrants(ctx) },
	"competitor-analysis":    func(ctx context.Context, e *Engine) (any, error) { return e.ThreatAnalysis(ctx) },
	"priority-categories":    func(ctx context.Context, e *Engine) (any, error) { return e.PriorityBuckets(ctx) },
	"no-rank-analysis":       func(ctx context.Context, e *Engine) (any, error) { return e.NoRankAnalysis(ctx) },
	"citation-sources":       func(ctx context.Context, e *Engine) (any, error) { return e.CitationSources(ctx, 0) },
	"category-heatmap":       func(ctx context.Context, e *Engine) (any, error) { return e.CategoryHeatmap(ctx) },
	"quick-wins":             func(ctx context.Context, e *Engine) (any, error) { return e.QuickWins(ctx) },
	"battlegrounds":          func(ctx context.Context, e *Engine) (any, error) { return e.Battlegrounds(ctx) },
	"all-insights":           func(ctx context.Context, e *Engine) (any, error) { return e.InsightBundle(ctx) },
	"ranking-table":          func(ctx context.Context, e *Engine) (any, error) { return e.MarketplaceRankings(ctx, 0) },
	"statistics":             func(ctx context.Context, e *Engine) (any, error) { return e.Statistics(ctx) },
	"citation-visibility":    func(ctx context.Context, e *Engine) (any, error) { return e.CitationVisibility(ctx) },
	"source-authority-map":   func(ctx context.Context, e *Engine) (any, error) { return e.SourceAuthorityMap(ctx) },
	"official-store-scores":  func(ctx context.Context, e *Engine) (any, error) { return e.OfficialStoreScores(ctx) },
	"trust-signals":          func(ctx context.Context, e *Engine) (any, error) { return e.TrustSignals(ctx) },
	"product-availability":   func(ctx context.Context, e *Engine) (any, error) { return e.ProductAvailability(ctx) },
	"niche-opportunities":    func(ctx context.Context, e *Engine) (any, error) { return e.NicheOpportunities(ctx) },
	"category-association":   func(ctx context.Context, e *Engine) (any, error) { return e.CategoryAssociations(ctx) },
	"competitor-specialties": func(ctx context.Context, e *Engine) (any, error) { return e.CompetitorSpecialties(ctx) },
	"intent-alignment":       func(ctx context.Context, e *Engine) (any, error) { return e.IntentAlignments(ctx) },
	"all-additional":         func(ctx context.Context, e *Engine) (any, error) { return e.AdditionalBundle(ctx) },
}

// ReportNames lists the names Report accepts, sorted.
func ReportNames() []string {
	names := make([]string, 0, len(reports))
	for name := range reports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Report runs a parameterless report by name.
func (e *Engine) Report(ctx context.Context, name string) (any, error) {
	fn, ok := reports[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReport, name)
	}
	return fn(ctx, e)
}
