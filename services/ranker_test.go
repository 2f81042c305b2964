package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aeo-analytics/models"
	"aeo-analytics/utils"
)

func TestAssignRanks(t *testing.T) {
	in := []models.RankingRecord{
		{Category: "Toys", Source: "a", NormalizedScore: 0.5, ScoreSum: 1},
		{Category: "Toys", Source: "c", NormalizedScore: 0.5, ScoreSum: 2},
		{Category: "Toys", Source: "b", NormalizedScore: 0.5, ScoreSum: 2},
		{Category: "Bikes", Source: "x", NormalizedScore: 0.1},
		{Category: "Toys", Source: "d", NormalizedScore: 0.9},
	}
	out := AssignRanks(in)

	type key struct {
		cat, src string
		rank     int
	}
	var got []key
	for _, r := range out {
		got = append(got, key{r.Category, r.Source, r.Rank})
	}
	assert.Equal(t, []key{
		{"Bikes", "x", 1},
		{"Toys", "d", 1},
		{"Toys", "b", 2},
		{"Toys", "c", 3},
		{"Toys", "a", 4},
	}, got)

	assert.Zero(t, in[0].Rank, "input must not be modified")
	assert.NoError(t, validateDenseRanks("ranking", out))
}

func TestRankTable(t *testing.T) {
	c := NewCleaner(utils.NewNopLogger())
	in := &models.Table{
		Name:   models.TableRanking,
		Header: []string{models.ColCategory, models.ColSource, models.ColNormalizedScore, models.ColScoreSum},
		Rows: [][]string{
			{"Toys", "Amazon", "0.4", "4"},
			{"Toys", "flipkart", "0.5", ""},
			{"", "meesho", "0.1", "1"},
		},
	}

	out, err := c.RankTable(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"category", "source", "normalized_score", "score_sum", "rank"}, out.Header)
	assert.Equal(t, [][]string{
		{"Toys", "flipkart", "0.5", "0", "1"},
		{"Toys", "amazon", "0.4", "4", "2"},
	}, out.Rows)
}

func TestRankTableMissingColumn(t *testing.T) {
	c := NewCleaner(utils.NewNopLogger())
	_, err := c.RankTable(&models.Table{Name: "scores", Header: []string{models.ColCategory, models.ColSource}})

	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, []string{models.ColNormalizedScore}, se.Missing)
	assert.ErrorIs(t, err, ErrSchema)
}

func TestRankTableBadScore(t *testing.T) {
	c := NewCleaner(utils.NewNopLogger())
	_, err := c.RankTable(&models.Table{
		Name:   "scores",
		Header: []string{models.ColCategory, models.ColSource, models.ColNormalizedScore},
		Rows:   [][]string{{"Toys", "amazon", "high"}},
	})
	assert.ErrorIs(t, err, ErrSchema)
}

func TestExtractCitationLines(t *testing.T) {
	text := "Buy here [1]: https://a.com/x and [2]:http://b.org/y\n[x]: https://c.com"
	assert.Equal(t, "[1]: https://a.com/x\n[2]:http://b.org/y", ExtractCitationLines(text))
	assert.Equal(t, "", ExtractCitationLines("no references"))
}

func TestBuildCitationTable(t *testing.T) {
	details := []models.ProductDetailRecord{
		{Category: "Toys", ProductName: "Lego", Source: "amazon"},
		{Category: "Toys", ProductName: "Lego", Source: "flipkart", Response: "[1]: https://lego.com"},
		{Category: "Toys", ProductName: "Car", Source: "flipkart", Response: "see [1]: https://a.com/x and [2]: http://b.org/y"},
		{Category: "Toys", ProductName: "Car", Source: "meesho", Response: "[1]: https://c.com"},
		{Category: "Balls", ProductName: "Ball", Source: "croma", Response: "none"},
	}

	got := BuildCitationTable(details, "Amazon")
	assert.Equal(t, []models.CitationRecord{
		{Category: "Balls", ProductName: "Ball", Citations: ""},
		{Category: "Toys", ProductName: "Car", Citations: "[1]: https://a.com/x\n[2]: http://b.org/y"},
	}, got)

	table := CitationTable(got)
	assert.Equal(t, []string{"Product Category", "Product Name", "Citations"}, table.Header)
	assert.Len(t, table.Rows, 2)
}

func TestExtractCitations(t *testing.T) {
	c := NewCleaner(utils.NewNopLogger())
	in := &models.Table{
		Name:   models.TableProductDetail,
		Header: []string{models.ColCategory, models.ColProductName, models.ColSource, models.ColRank, models.ColExtra, models.ColResponse},
		Rows: [][]string{
			{"Toys", "Lego", "amazon", "1", "", ""},
			{"Toys", "Car", "flipkart", "1", "", "[1]: https://a.com"},
		},
	}

	out, err := c.ExtractCitations(in, "amazon")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Toys", "Car", "[1]: https://a.com"}}, out.Rows)

	in.Header = in.Header[:5]
	_, err = c.ExtractCitations(in, "amazon")
	assert.ErrorIs(t, err, ErrSchema)
}
