package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aeo-analytics/models"
)

func TestThreatAnalysis(t *testing.T) {
	a := NewCompetitorAnalyzer(testAnalysis().Thresholds)
	threats, err := a.ThreatAnalysis(sampleDataset())
	require.NoError(t, err)
	require.Len(t, threats, 2)

	assert.Equal(t, "tata", threats[0].CompetitorName)
	assert.Equal(t, models.LevelCritical, threats[0].ThreatLevel)
	assert.Equal(t, 25.0, threats[0].AverageGapPercentage)
	assert.Equal(t, []string{"Imported Tea"}, threats[0].DominatedCategories)

	assert.Equal(t, "flipkart", threats[1].CompetitorName)
	assert.Equal(t, 1, threats[1].CategoriesDominated)
	assert.Equal(t, []string{"Toys"}, threats[1].DominatedCategories)
}

func TestThreatLevel(t *testing.T) {
	a := NewCompetitorAnalyzer(testAnalysis().Thresholds)
	tests := []struct {
		gap  float64
		want string
	}{
		{20, models.LevelCritical},
		{15, models.LevelCritical},
		{12, models.LevelHigh},
		{5, models.LevelMedium},
		{4.9, models.LevelLow},
		{0, models.LevelLow},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, a.ThreatLevel(tc.gap), "gap %v", tc.gap)
	}
}

func TestSpecialtyPattern(t *testing.T) {
	tests := []struct {
		name       string
		categories []string
		want       string
	}{
		{"imported", []string{"Imported Tea"}, PatternImported},
		{"local", []string{"Local Sweets"}, PatternMainstream},
		{"installation", []string{"AC Installation"}, PatternInstallation},
		{"first rule wins", []string{"Local Sweets", "Specialty Cheese"}, PatternImported},
		{"general", []string{"Toys", "Phones"}, PatternGeneral},
		{"empty", nil, PatternGeneral},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SpecialtyPattern(tc.categories))
		})
	}
}

func TestCompetitorSpecialties(t *testing.T) {
	a := NewCompetitorAnalyzer(testAnalysis().Thresholds)
	specs, err := a.CompetitorSpecialties(sampleDataset())
	require.NoError(t, err)
	require.Len(t, specs, 2)

	assert.Equal(t, "flipkart", specs[0].CompetitorName)
	assert.Equal(t, 2, specs[0].TotalWins)
	assert.Equal(t, []string{"Toys", "Gadgets"}, specs[0].DominatedCategories)
	assert.Equal(t, PatternGeneral, specs[0].SpecialtyPattern)
	assert.Equal(t, "Monitor and maintain", specs[0].ActionRecommendation)

	assert.Equal(t, "tata", specs[1].CompetitorName)
	assert.Equal(t, PatternImported, specs[1].SpecialtyPattern)
	assert.Equal(t, "Expand catalog in Imported/niche categories", specs[1].ActionRecommendation)

	for _, s := range specs {
		assert.NotEqual(t, "amazon", s.CompetitorName)
	}
}

func TestCompetitorSpecialty(t *testing.T) {
	a := NewCompetitorAnalyzer(testAnalysis().Thresholds)

	s, err := a.CompetitorSpecialty(sampleDataset(), "  TATA ")
	require.NoError(t, err)
	assert.Equal(t, "tata", s.CompetitorName)
	assert.Equal(t, 1, s.TotalWins)

	s, err = a.CompetitorSpecialty(sampleDataset(), "croma")
	require.NoError(t, err)
	assert.Equal(t, 0, s.TotalWins)
	assert.Equal(t, []string{}, s.DominatedCategories)

	_, err = a.CompetitorSpecialty(sampleDataset(), "ebay")
	assert.ErrorIs(t, err, ErrCompetitorNotFound)
}

func TestCompetitorDetail(t *testing.T) {
	a := NewCompetitorAnalyzer(testAnalysis().Thresholds)
	detail, err := a.CompetitorDetail(sampleDataset(), "Flipkart")
	require.NoError(t, err)

	assert.Equal(t, "flipkart", detail.CompetitorName)
	assert.Equal(t, 1, detail.TotalCategoriesDominated)
	require.Len(t, detail.Categories, 2)
	assert.Equal(t, "Toys", detail.Categories[0].Category)
	assert.Equal(t, 10.0, detail.Categories[0].Gap)
	assert.Equal(t, "Phones", detail.Categories[1].Category)
	assert.Equal(t, -15.0, detail.Categories[1].Gap)
	assert.Equal(t, -2.5, detail.AverageGap)
	assert.Empty(t, detail.StrengthAreas)

	_, err = a.CompetitorDetail(sampleDataset(), "ebay")
	assert.ErrorIs(t, err, ErrCompetitorNotFound)
}
