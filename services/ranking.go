package services

import (
	"fmt"
	"sort"
	"strings"

	"aeo-analytics/config"
	"aeo-analytics/models"
)

// Heatmap status colours.
const (
	ColorGreen  = "green"
	ColorYellow = "yellow"
	ColorOrange = "orange"
	ColorRed    = "red"
)

var levelOrdinal = map[string]int{
	models.LevelHigh:   3,
	models.LevelMedium: 2,
	models.LevelLow:    1,
}

// RankingAggregator computes the focal source's per-category position
// reports. Every method is a pure function of the Dataset.
type RankingAggregator struct {
	th config.Thresholds
}

func NewRankingAggregator(th config.Thresholds) *RankingAggregator {
	return &RankingAggregator{th: th}
}

// focalPosition is the focal source's standing in one category.
type focalPosition struct {
	category string
	winner   models.RankingRecord
	focal    models.RankingRecord
	// gap is (winner - focal) * 100, unrounded.
	gap float64
}

// positions lists the categories where the focal source is present, in
// table order.
func positions(d *Dataset) []focalPosition {
	var out []focalPosition
	for _, cat := range d.Categories() {
		focal, ok := d.FocalRow(cat)
		if !ok {
			continue
		}
		winner, _ := d.Winner(cat)
		out = append(out, focalPosition{
			category: cat,
			winner:   winner,
			focal:    focal,
			gap:      (winner.NormalizedScore - focal.NormalizedScore) * 100,
		})
	}
	return out
}

// Overview summarises visibility and leadership across all categories.
func (a *RankingAggregator) Overview(d *Dataset) (*models.OverviewMetrics, error) {
	total := len(d.Categories())
	if total == 0 {
		return nil, ErrEmptyDataset
	}

	var present, rank1 int
	var ranks []float64
	for _, p := range positions(d) {
		present++
		ranks = append(ranks, float64(p.focal.Rank))
		if p.focal.Rank == 1 {
			rank1++
		}
	}

	leadership := 100 * float64(rank1) / float64(total)
	return &models.OverviewMetrics{
		VisibilityScore:     round(100*float64(present)/float64(total), 2),
		LeadershipScore:     round(leadership, 2),
		AverageRank:         round(mean(ranks), 2),
		OpportunityGap:      round(100-leadership, 2),
		TotalCategories:     total,
		CategoriesRank1:     rank1,
		CategoriesNotRank1:  total - rank1,
		CategoriesWithFocal: present,
	}, nil
}

// PerformanceQuadrants classifies each focal-present category by score and
// category size.
func (a *RankingAggregator) PerformanceQuadrants(d *Dataset) ([]models.PerformanceQuadrant, error) {
	out := make([]models.PerformanceQuadrant, 0)
	for _, p := range positions(d) {
		size, ok := d.CategorySize(p.category)
		if !ok {
			size = 1
		}

		highScore := p.focal.NormalizedScore >= a.th.QuadrantScore
		highImportance := size >= a.th.QuadrantImportance

		var quadrant string
		switch {
		case highScore && highImportance:
			quadrant = models.QuadrantStars
		case !highScore && highImportance:
			quadrant = models.QuadrantQuestionMarks
		case highScore && !highImportance:
			quadrant = models.QuadrantCashCows
		default:
			quadrant = models.QuadrantDogs
		}

		out = append(out, models.PerformanceQuadrant{
			Category:     p.category,
			FocalScore:   p.focal.NormalizedScore,
			CategorySize: size,
			FocalRank:    p.focal.Rank,
			Quadrant:     quadrant,
		})
	}
	return out, nil
}

// HeatmapColor maps a rank onto its status colour.
func HeatmapColor(rank int) string {
	switch {
	case rank == 1:
		return ColorGreen
	case rank <= 3:
		return ColorYellow
	case rank <= 5:
		return ColorOrange
	default:
		return ColorRed
	}
}

// CategoryHeatmap returns one row per focal-present category, sorted by
// category name.
func (a *RankingAggregator) CategoryHeatmap(d *Dataset) ([]models.CategoryHeatmapRow, error) {
	ps := positions(d)
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].category < ps[j].category })

	out := make([]models.CategoryHeatmapRow, 0, len(ps))
	for _, p := range ps {
		gap := 0.0
		competitor := d.Focal
		if p.focal.Rank > 1 {
			gap = p.winner.NormalizedScore - p.focal.NormalizedScore
			if gap < 0 {
				gap = 0
			}
			competitor = p.winner.Source
		}

		out = append(out, models.CategoryHeatmapRow{
			Category:       p.category,
			FocalRank:      p.focal.Rank,
			FocalScore:     round(p.focal.NormalizedScore, 4),
			GapToFirst:     round(gap, 4),
			CompetitorName: competitor,
			StatusColor:    HeatmapColor(p.focal.Rank),
		})
	}
	return out, nil
}

// Severity classifies a gap percentage.
func (a *RankingAggregator) Severity(gap float64) string {
	switch {
	case gap >= a.th.PriorityCritical:
		return models.LevelCritical
	case gap >= a.th.PriorityMedium:
		return models.LevelMedium
	default:
		return models.LevelLow
	}
}

// PriorityBuckets partitions the categories where the focal source is
// present but not leading into Critical, Medium and Low buckets.
func (a *RankingAggregator) PriorityBuckets(d *Dataset) (*models.PriorityBuckets, error) {
	b := &models.PriorityBuckets{
		Critical: []models.PriorityCategory{},
		Medium:   []models.PriorityCategory{},
		Low:      []models.PriorityCategory{},
	}

	for _, p := range positions(d) {
		if p.focal.Rank <= 1 {
			continue
		}

		priority := 2*p.gap + 10*float64(p.focal.Rank-1)
		if priority > 100 {
			priority = 100
		}

		pc := models.PriorityCategory{
			Category:        p.category,
			CurrentRank:     p.focal.Rank,
			GapPercentage:   round(p.gap, 2),
			Competitor:      p.winner.Source,
			CompetitorScore: p.winner.NormalizedScore,
			FocalScore:      p.focal.NormalizedScore,
			Severity:        a.Severity(p.gap),
			PriorityScore:   round(priority, 2),
		}

		switch pc.Severity {
		case models.LevelCritical:
			b.Critical = append(b.Critical, pc)
		case models.LevelMedium:
			b.Medium = append(b.Medium, pc)
		default:
			b.Low = append(b.Low, pc)
		}
	}

	for _, bucket := range [][]models.PriorityCategory{b.Critical, b.Medium, b.Low} {
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].GapPercentage > bucket[j].GapPercentage
		})
	}
	return b, nil
}

// PriorityBucket returns one severity bucket by name (case-insensitive).
func (a *RankingAggregator) PriorityBucket(d *Dataset, severity string) ([]models.PriorityCategory, error) {
	b, err := a.PriorityBuckets(d)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case "critical":
		return b.Critical, nil
	case "medium":
		return b.Medium, nil
	case "low":
		return b.Low, nil
	default:
		return nil, fmt.Errorf("%w: severity %q is not one of critical, medium, low", ErrInvalidScenario, severity)
	}
}

var (
	lowEffortActions = []string{"Increase product variety", "Optimize pricing"}
	midEffortActions = []string{"Expand product catalog", "Improve delivery speed", "Enhance reviews"}
	highGapActions   = []string{"Strategic pricing review", "Marketing push", "Partnership opportunities"}
)

// QuickWins lists near-leading categories with a small gap, easiest first.
func (a *RankingAggregator) QuickWins(d *Dataset) ([]models.QuickWin, error) {
	out := make([]models.QuickWin, 0)
	for _, p := range positions(d) {
		if !containsInt(a.th.QuickWinRanks, p.focal.Rank) || p.gap >= a.th.QuickWinMaxGap {
			continue
		}

		var actions []string
		effort := models.LevelMedium
		switch {
		case p.gap < a.th.QuickWinLowEffort:
			actions, effort = lowEffortActions, models.LevelLow
		case p.gap < a.th.QuickWinMidEffort:
			actions = midEffortActions
		default:
			actions = highGapActions
		}

		out = append(out, models.QuickWin{
			Category:        p.category,
			CurrentRank:     p.focal.Rank,
			GapPercentage:   round(p.gap, 2),
			Competitor:      p.winner.Source,
			ActionItems:     append([]string(nil), actions...),
			EstimatedEffort: effort,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].GapPercentage < out[j].GapPercentage })
	return out, nil
}

// Battlegrounds lists mid-gap categories, highest investment priority first.
func (a *RankingAggregator) Battlegrounds(d *Dataset) ([]models.BattlegroundCategory, error) {
	out := make([]models.BattlegroundCategory, 0)
	for _, p := range positions(d) {
		if p.focal.Rank <= 1 || p.gap < a.th.BattlegroundMinGap || p.gap > a.th.BattlegroundMaxGap {
			continue
		}

		size, _ := d.CategorySize(p.category)
		tier := models.LevelLow
		switch {
		case size >= a.th.BattlegroundHigh:
			tier = models.LevelHigh
		case size >= a.th.BattlegroundMedium:
			tier = models.LevelMedium
		}

		out = append(out, models.BattlegroundCategory{
			Category:           p.category,
			FocalRank:          p.focal.Rank,
			GapPercentage:      round(p.gap, 2),
			Competitor:         p.winner.Source,
			ProductVolume:      tier,
			InvestmentPriority: tier,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := levelOrdinal[out[i].InvestmentPriority], levelOrdinal[out[j].InvestmentPriority]
		if oi != oj {
			return oi > oj
		}
		return out[i].GapPercentage > out[j].GapPercentage
	})
	return out, nil
}
