package services

import (
	"fmt"

	"aeo-analytics/config"
	"aeo-analytics/models"
)

// Units of work assumed per month when estimating a timeline.
const (
	entryProductsPerMonth  = 2.0
	entryCitationsPerMonth = 1.5
	productsPerMonth       = 3.0
	citationsPerMonth      = 2.0
)

// Scenario is an investment plan for one category.
type Scenario struct {
	Category        string
	ProductsToAdd   int
	CitationsTarget int
}

// RankPredictionModel forecasts the focal source's rank after an investment.
type RankPredictionModel struct {
	fp config.ForecastParams
}

func NewRankPredictionModel(fp config.ForecastParams) *RankPredictionModel {
	return &RankPredictionModel{fp: fp}
}

// Predict runs the new-entrant forecast when the focal source has no row in
// the category and the incremental forecast otherwise.
func (m *RankPredictionModel) Predict(d *Dataset, s Scenario) (*models.RankPrediction, error) {
	if s.ProductsToAdd < 0 || s.CitationsTarget < 0 {
		return nil, fmt.Errorf("%w: products_to_add and citations_target must not be negative (got %d, %d)",
			ErrInvalidScenario, s.ProductsToAdd, s.CitationsTarget)
	}
	rows := d.CategoryRows(s.Category)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrCategoryNotFound, s.Category)
	}

	leaderScore := 1.0
	if winner := rows[0]; winner.Rank == 1 {
		leaderScore = winner.NormalizedScore
	}

	if focal, ok := d.FocalRow(s.Category); ok {
		return m.incremental(rows, focal, leaderScore, s), nil
	}
	return m.newEntry(rows, leaderScore, s), nil
}

func (m *RankPredictionModel) newEntry(rows []models.RankingRecord, leaderScore float64, s Scenario) *models.RankPrediction {
	p, c := float64(s.ProductsToAdd), float64(s.CitationsTarget)
	total := len(rows)
	currentRank := total + 1

	// Explicit float64 conversions keep each product rounded (no fused multiply-add).
	predictedScore := float64(p*m.fp.EntryProductBoost) + float64(c*m.fp.EntryCitationBoost)
	if predictedScore > 1.0 {
		predictedScore = 1.0
	}

	var betterThan int
	for _, r := range rows {
		if r.NormalizedScore < predictedScore {
			betterThan++
		}
	}
	predictedRank := total - betterThan + 1
	if predictedRank > total {
		predictedRank = total
	}
	if predictedRank < 1 {
		predictedRank = 1
	}

	timeline := int(p/entryProductsPerMonth + c/entryCitationsPerMonth)
	if timeline < m.fp.EntryMinMonths {
		timeline = m.fp.EntryMinMonths
	}

	revenue := s.ProductsToAdd*m.fp.EntryProductRevenue + (currentRank-predictedRank)*m.fp.EntryRankRevenue
	return m.result(s, true, currentRank, predictedRank, 0, predictedScore, leaderScore, timeline, revenue)
}

func (m *RankPredictionModel) incremental(rows []models.RankingRecord, focal models.RankingRecord, leaderScore float64, s Scenario) *models.RankPrediction {
	p, c := float64(s.ProductsToAdd), float64(s.CitationsTarget)
	current := focal.NormalizedScore

	predictedScore := current + float64(p*m.fp.ProductBoost) + float64(c*m.fp.CitationBoost)
	if predictedScore > 1.0 {
		predictedScore = 1.0
	}

	predictedRank := focal.Rank - int((predictedScore-current)/m.fp.RankStep)
	if predictedRank < 1 {
		predictedRank = 1
	}

	timeline := int(p/productsPerMonth + c/citationsPerMonth)
	if timeline < m.fp.MinMonths {
		timeline = m.fp.MinMonths
	}

	revenue := s.ProductsToAdd*m.fp.ProductRevenue + (focal.Rank-predictedRank)*m.fp.RankRevenue
	return m.result(s, false, focal.Rank, predictedRank, current, predictedScore, leaderScore, timeline, revenue)
}

func (m *RankPredictionModel) result(s Scenario, newEntry bool, currentRank, predictedRank int,
	currentScore, predictedScore, leaderScore float64, timeline, revenue int) *models.RankPrediction {
	investment := s.ProductsToAdd*m.fp.ProductCost + s.CitationsTarget*m.fp.CitationCost

	roi := 0.0
	if investment > 0 {
		roi = float64(revenue*12) / float64(investment)
	}

	return &models.RankPrediction{
		Category:         s.Category,
		NewEntry:         newEntry,
		CurrentRank:      currentRank,
		PredictedRank:    predictedRank,
		CurrentScore:     round(currentScore, 4),
		PredictedScore:   round(predictedScore, 4),
		GapReduction:     round((leaderScore-predictedScore)*100, 1),
		ProductsToAdd:    s.ProductsToAdd,
		CitationsNeeded:  s.CitationsTarget,
		TimelineMonths:   timeline,
		RevenueImpact:    revenue,
		InvestmentNeeded: investment,
		ROIMultiplier:    round(roi, 2),
	}
}
