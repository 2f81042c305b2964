package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aeo-analytics/models"
	"aeo-analytics/utils"
)

func rankingTable(rows ...[]string) *models.Table {
	return &models.Table{
		Name:   models.TableRanking,
		Header: []string{models.ColCategory, models.ColSource, models.ColNormalizedScore, models.ColScoreSum, models.ColRank},
		Rows:   rows,
	}
}

func TestCleanerRankingRecords(t *testing.T) {
	c := NewCleaner(utils.NewNopLogger())
	got, err := c.RankingRecords(rankingTable(
		[]string{"  Toys   and  Games ", " Amazon ", "0.4", "", "2.0"},
		[]string{"Toys and Games", "flipkart", "0.5", "5", "1"},
		[]string{"", "meesho", "0.1", "1", "3"},
	))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, models.RankingRecord{
		Category: "Toys and Games", Source: "amazon", NormalizedScore: 0.4, Rank: 2,
	}, got[0])
	assert.Equal(t, 5.0, got[1].ScoreSum)
}

func TestCleanerRankingRecordsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		row    []string
		column string
	}{
		{"missing score", []string{"Toys", "amazon", "", "", "1"}, models.ColNormalizedScore},
		{"text score", []string{"Toys", "amazon", "n/a", "", "1"}, models.ColNormalizedScore},
		{"fractional rank", []string{"Toys", "amazon", "0.4", "", "1.5"}, models.ColRank},
		{"missing rank", []string{"Toys", "amazon", "0.4", "", ""}, models.ColRank},
		{"bad score sum", []string{"Toys", "amazon", "0.4", "x", "1"}, models.ColScoreSum},
	}
	c := NewCleaner(utils.NewNopLogger())
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.RankingRecords(rankingTable(tc.row))
			var se *SchemaError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tc.column, se.Column)
			assert.Equal(t, 2, se.Row)
			assert.ErrorIs(t, err, ErrSchema)
		})
	}
}

func TestCleanerProductDetailRecords(t *testing.T) {
	c := NewCleaner(utils.NewNopLogger())
	got, err := c.ProductDetailRecords(&models.Table{
		Name:   models.TableProductDetail,
		Header: []string{models.ColCategory, models.ColProductName, models.ColSource, models.ColRank, models.ColExtra},
		Rows: [][]string{
			{"Toys", " Lego  Set ", "AMAZON", "", "Official store"},
			{"Toys", "Doll", "", "1", ""},
		},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Lego Set", got[0].ProductName)
	assert.Equal(t, "amazon", got[0].Source)
	assert.Equal(t, 0, got[0].Rank)
	assert.Equal(t, "Official store", got[0].Extra)
}

func TestCleanerCitationRecords(t *testing.T) {
	c := NewCleaner(utils.NewNopLogger())
	got, err := c.CitationRecords(&models.Table{
		Name:   models.TableCitation,
		Header: []string{models.ColCategory, models.ColProductName, models.ColCitations},
		Rows: [][]string{
			{"Toys", "Car", "  [1]: https://a.com  "},
			{"", "Ghost", ""},
			{"Toys", "Doll"},
		},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "[1]: https://a.com", got[0].Citations)
	assert.Equal(t, "", got[1].Citations)
}

func TestSchemaErrorMessage(t *testing.T) {
	err := &SchemaError{Table: "ranking", Missing: []string{"rank"}}
	assert.Equal(t, "schema error in ranking table: missing required columns [rank]", err.Error())

	err = &SchemaError{Table: "ranking", Row: 3, Column: "rank", Value: "x", Reason: "not an integer"}
	assert.Equal(t, `schema error in ranking table: row 3 column "rank" value "x": not an integer`, err.Error())
}
