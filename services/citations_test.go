package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aeo-analytics/models"
)

func TestExtractDomains(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"www stripped, duplicates kept", "[1]: https://www.example.com/x [2]: http://example.com/y", []string{"example.com", "example.com"}},
		{"port and query", "see https://shop.in:8080/a?b=1 and http://x.org?y", []string{"shop.in:8080", "x.org"}},
		{"no urls", "nothing here", []string{}},
		{"empty", "", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractDomains(tc.text))
		})
	}
}

func TestCitationSources(t *testing.T) {
	a := NewCitationAnalyzer()
	sources, err := a.CitationSources(sampleDataset(), 0)
	require.NoError(t, err)
	require.Len(t, sources, 2)

	assert.Equal(t, "example.com", sources[0].Domain)
	assert.Equal(t, 2, sources[0].Frequency)
	assert.Equal(t, []string{"Toys"}, sources[0].Categories)
	assert.Equal(t, 1.7, sources[0].ImpactScore)
	assert.Equal(t, "amazon.in", sources[1].Domain)

	top, err := a.CitationSources(sampleDataset(), 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestCitationReportsNeedCitationTable(t *testing.T) {
	a := NewCitationAnalyzer()
	d := sampleDatasetWithoutCitations()

	_, err := a.CitationSources(d, 10)
	assert.ErrorIs(t, err, ErrDataUnavailable)
	_, err = a.CitationVisibility(d)
	assert.ErrorIs(t, err, ErrDataUnavailable)
	_, err = a.SourceAuthorityMap(d)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestTrustScore(t *testing.T) {
	assert.Equal(t, 50.0, TrustScore(0, 0))
	assert.Equal(t, 100.0, TrustScore(3, 0))
	assert.Equal(t, 0.0, TrustScore(0, 2))
	assert.Equal(t, 75.0, TrustScore(3, 1))
}

func TestTrustSignalsScenario(t *testing.T) {
	a := NewCitationAnalyzer()
	d := NewDataset("amazon", nil, []models.ProductDetailRecord{
		{Category: "Toys", ProductName: "Lego", Source: "flipkart", Extra: "Genuine product from a genuine seller"},
	}, nil, false)

	signals, err := a.TrustSignals(d)
	require.NoError(t, err)
	require.Len(t, signals, 1)

	s := signals[0]
	assert.Equal(t, 100.0, s.TrustScore)
	assert.Equal(t, 2, s.TotalMentions)
	assert.Equal(t, []models.TrustKeyword{{Keyword: "genuine", Count: 2, Sentiment: "positive"}}, s.PositiveSignals)
	assert.Empty(t, s.NegativeSignals)
}

func TestTrustSignalsOrder(t *testing.T) {
	a := NewCitationAnalyzer()
	signals, err := a.TrustSignals(sampleDataset())
	require.NoError(t, err)

	var order []string
	for _, s := range signals {
		order = append(order, s.Marketplace)
	}
	assert.Equal(t, []string{"amazon", "flipkart", "tata", "meesho"}, order)
	assert.Equal(t, 50.0, signals[2].TrustScore)
	assert.Equal(t, 0.0, signals[3].TrustScore)
}

func TestCitationVisibility(t *testing.T) {
	a := NewCitationAnalyzer()
	v, err := a.CitationVisibility(sampleDataset())
	require.NoError(t, err)

	assert.Equal(t, 1, v.FocalMentions)
	assert.Equal(t, 2, v.CompetitorMentions)
	assert.Equal(t, 3, v.TotalCitations)
	assert.Equal(t, 2.0, v.VisibilityRatio)
	assert.InDelta(t, 33.33, v.FocalPercentage, 0.01)
	assert.Equal(t, []models.DomainCount{{Source: "example.com", Count: 2}, {Source: "amazon.in", Count: 1}}, v.TopSources)
	assert.Equal(t, models.SourceSplit{Focal: 1}, v.SourceBreakdown["amazon.in"])
	assert.Equal(t, models.SourceSplit{Competitors: 2}, v.SourceBreakdown["example.com"])
}

func TestCitationVisibilityNoFocalMentions(t *testing.T) {
	a := NewCitationAnalyzer()
	d := NewDataset("amazon", sampleRanking(), nil, []models.CitationRecord{
		{Category: "Toys", ProductName: "Car", Citations: "[1]: https://example.com"},
	}, true)

	v, err := a.CitationVisibility(d)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.VisibilityRatio)
	assert.Equal(t, 100.0, v.CompetitorPercentage)
}

func TestSourceAuthorityMap(t *testing.T) {
	a := NewCitationAnalyzer()
	m, err := a.SourceAuthorityMap(sampleDataset())
	require.NoError(t, err)

	assert.Equal(t, []string{"example.com", "amazon.in", "flipkart", "amazon", "meesho", "tata"}, m.Nodes)
	require.Len(t, m.GatewaySources, 2)
	assert.Equal(t, 100.0, m.GatewaySources[0].InfluenceScore)
	assert.Equal(t, 50.0, m.GatewaySources[1].InfluenceScore)
	assert.Equal(t, len(m.Links), m.TotalFlows)
	for _, l := range m.Links {
		assert.Positive(t, l.Value)
	}
}
