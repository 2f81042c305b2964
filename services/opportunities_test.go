package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aeo-analytics/models"
)

func TestOfficialStoreScores(t *testing.T) {
	s := NewOpportunityService(testAnalysis().Thresholds)
	scores, err := s.OfficialStoreScores(sampleDataset())
	require.NoError(t, err)
	require.Len(t, scores, 4)

	toys := scores[0]
	assert.Equal(t, "Toys", toys.Category)
	assert.Equal(t, 1, toys.FocalOfficialMentions)
	assert.Equal(t, 2, toys.CompetitorOfficialMentions)
	assert.Equal(t, 50.0, toys.GapScore)
	assert.Equal(t, "flipkart", toys.TopCompetitor)
	assert.Equal(t, "Establish official partnership", toys.Recommendation)

	phones := scores[1]
	assert.Equal(t, 0.0, phones.GapScore)
	assert.Equal(t, "N/A", phones.TopCompetitor)
	assert.Equal(t, "Maintain current status", phones.Recommendation)
}

func TestProductAvailability(t *testing.T) {
	s := NewOpportunityService(testAnalysis().Thresholds)
	rows, err := s.ProductAvailability(sampleDataset())
	require.NoError(t, err)
	require.Len(t, rows, 4)

	toys := rows[0]
	assert.Equal(t, 5, toys.TotalProducts)
	assert.Equal(t, 1, toys.FocalAvailable)
	assert.Equal(t, 20.0, toys.FocalPercentage)
	assert.Equal(t, []models.SourceProducts{
		{Source: "flipkart", Products: 2},
		{Source: "meesho", Products: 1},
	}, toys.CompetitorAvailability)
	assert.Equal(t, []string{"Toy Car", "Doll"}, toys.MissingProducts)
	assert.Equal(t, 10000, toys.RevenueOpportunity)

	gadgets := rows[2]
	assert.Equal(t, "Gadgets", gadgets.Category)
	assert.Equal(t, 1, gadgets.TotalProducts)
	assert.Equal(t, 0.0, gadgets.FocalPercentage)
	assert.Equal(t, 5000, gadgets.RevenueOpportunity)

	_, err = s.ProductAvailability(sampleDatasetWithoutCitations())
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestNicheOpportunities(t *testing.T) {
	s := NewOpportunityService(testAnalysis().Thresholds)
	niches, err := s.NicheOpportunities(sampleDataset())
	require.NoError(t, err)
	require.Len(t, niches, 3)

	assert.Equal(t, "Phones", niches[0].Category)
	assert.Equal(t, "Toys", niches[1].Category)
	assert.Equal(t, "Imported Tea", niches[2].Category)

	toys := niches[1]
	assert.Equal(t, 10.0, toys.CitationFrequency)
	assert.Equal(t, 40.0, toys.CompetitorStrength)
	assert.Equal(t, 50.0, toys.RevenuePotential)
	assert.Equal(t, 64.0, toys.OpportunityScore)
	assert.Equal(t, 2, toys.ProductCountGap)
	assert.True(t, toys.QuickWin)

	assert.False(t, niches[0].QuickWin)
}

func TestPerception(t *testing.T) {
	assert.Equal(t, StrengthStrong, Perception(70))
	assert.Equal(t, StrengthMedium, Perception(69.9))
	assert.Equal(t, StrengthMedium, Perception(40))
	assert.Equal(t, StrengthWeak, Perception(39.9))
}

func TestCategoryAssociations(t *testing.T) {
	s := NewOpportunityService(testAnalysis().Thresholds)
	assoc, err := s.CategoryAssociations(sampleDataset())
	require.NoError(t, err)
	require.Len(t, assoc, 10)

	first := assoc[0]
	assert.Equal(t, "flipkart", first.Marketplace)
	assert.Equal(t, "Toys", first.Category)
	assert.Equal(t, 100.0, first.WinRate)
	assert.Equal(t, 100.0, first.Top3Rate)
	assert.Equal(t, 50.0, first.AvgScore)
	assert.Equal(t, 85.0, first.AssociationStrength)
	assert.Equal(t, StrengthStrong, first.PerceptionLevel)

	second := assoc[1]
	assert.Equal(t, "Phones", second.Category)
	assert.Equal(t, 43.5, second.AssociationStrength)
	assert.Equal(t, StrengthMedium, second.PerceptionLevel)
}

func TestIntentAlignments(t *testing.T) {
	s := NewOpportunityService(testAnalysis().Thresholds)
	rows, err := s.IntentAlignments(sampleDataset())
	require.NoError(t, err)
	require.Len(t, rows, 5)

	for _, r := range rows {
		assert.Equal(t, 25.0, r.FocalWinRate)
		assert.Equal(t, "flipkart", r.TopCompetitor)
		assert.Equal(t, 50.0, r.CompetitorWinRate)
		assert.Equal(t, StrengthWeak, r.MatchStrength)
		assert.Equal(t, "Learn from flipkart's approach", r.Recommendation)
	}
	assert.Equal(t, "Cheapest price", rows[0].Intent)
}

func TestIntentAlignmentsFocalLeads(t *testing.T) {
	s := NewOpportunityService(testAnalysis().Thresholds)
	d := NewDataset("amazon", []models.RankingRecord{
		rankingRow("Toys", "amazon", 1, 0.9),
		rankingRow("Books", "amazon", 1, 0.8),
		rankingRow("Shoes", "nykaa", 1, 0.7),
	}, nil, nil, false)

	rows, err := s.IntentAlignments(d)
	require.NoError(t, err)
	assert.Equal(t, 66.7, rows[0].FocalWinRate)
	assert.Equal(t, "amazon", rows[0].TopCompetitor)
	assert.Equal(t, StrengthStrong, rows[0].MatchStrength)
	assert.Equal(t, "Maintain leadership", rows[0].Recommendation)
}
