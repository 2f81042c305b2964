package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aeo-analytics/storage"
	"aeo-analytics/utils"
)

func newTestLoader(ranking, details, citations string) *Loader {
	return NewLoader(storage.NewFileSource(ranking, details, citations), "amazon", 5*time.Second, utils.NewNopLogger())
}

func TestLoaderLoad(t *testing.T) {
	ranking, details, citations := sampleFiles(t)
	d, err := newTestLoader(ranking, details, citations).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Toys", "Phones", "Gadgets", "Imported Tea"}, d.Categories())
	assert.Equal(t, []string{"flipkart", "amazon", "meesho", "croma", "tata"}, d.Sources())
	assert.True(t, d.HasCitations())
	assert.Len(t, d.Citations, 3)
	assert.NotEmpty(t, d.ID)

	focal, ok := d.FocalRow("Imported Tea")
	require.True(t, ok)
	assert.Equal(t, 2, focal.Rank)

	size, ok := d.CategorySize("Toys")
	require.True(t, ok)
	assert.Equal(t, 3, size)
}

func TestLoaderDenseRanks(t *testing.T) {
	ranking, details, citations := sampleFiles(t)
	d, err := newTestLoader(ranking, details, citations).Load(context.Background())
	require.NoError(t, err)

	for _, cat := range d.Categories() {
		for i, r := range d.CategoryRows(cat) {
			assert.Equal(t, i+1, r.Rank, "category %s", cat)
		}
	}
}

func TestLoaderWithoutCitationTable(t *testing.T) {
	ranking, details, _ := sampleFiles(t)
	d, err := newTestLoader(ranking, details, "").Load(context.Background())
	require.NoError(t, err)

	assert.False(t, d.HasCitations())
	assert.Empty(t, d.Citations)
	assert.ErrorIs(t, d.RequireCitations(), ErrDataUnavailable)
}

func TestLoaderMissingFile(t *testing.T) {
	_, details, citations := sampleFiles(t)
	missing := filepath.Join(t.TempDir(), "nope.csv")

	_, err := newTestLoader(missing, details, citations).Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLoaderMissingColumn(t *testing.T) {
	_, details, citations := sampleFiles(t)
	ranking := writeCSV(t, t.TempDir(), "ranked.csv",
		"Product,source_normalized,score_sum",
		"Toys,amazon,4",
	)

	_, err := newTestLoader(ranking, details, citations).Load(context.Background())
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.ElementsMatch(t, []string{"rank", "normalized_score"}, se.Missing)
	assert.ErrorIs(t, err, ErrSchema)
}

func TestLoaderRejectsGappedRanks(t *testing.T) {
	_, details, citations := sampleFiles(t)
	ranking := writeCSV(t, t.TempDir(), "ranked.csv",
		"Product,source_normalized,score_norm,rank",
		"Toys,flipkart,0.5,1",
		"Toys,amazon,0.4,3",
	)

	_, err := newTestLoader(ranking, details, citations).Load(context.Background())
	assert.ErrorIs(t, err, ErrSchema)
}

func TestLoaderRejectsNonNumericScore(t *testing.T) {
	_, details, citations := sampleFiles(t)
	ranking := writeCSV(t, t.TempDir(), "ranked.csv",
		"Product,source_normalized,score_norm,rank",
		"Toys,flipkart,high,1",
	)

	_, err := newTestLoader(ranking, details, citations).Load(context.Background())
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "normalized_score", se.Column)
	assert.Equal(t, 2, se.Row)
}

func TestLoaderCancelledContext(t *testing.T) {
	ranking, details, citations := sampleFiles(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestLoader(ranking, details, citations).Load(ctx)
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestLoaderIdempotentReload(t *testing.T) {
	ranking, details, citations := sampleFiles(t)
	loader := newTestLoader(ranking, details, citations)
	engineFor := func() *Engine {
		return NewEngine(NewPerQueryProvider(loader), testAnalysis(), utils.NewNopLogger())
	}

	first, err := engineFor().Overview(context.Background())
	require.NoError(t, err)
	second, err := engineFor().Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	b1, err := engineFor().PriorityBuckets(context.Background())
	require.NoError(t, err)
	b2, err := engineFor().PriorityBuckets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestLoaderEmptyRankingFile(t *testing.T) {
	_, details, citations := sampleFiles(t)
	ranking := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(ranking, nil, 0o644))

	_, err := newTestLoader(ranking, details, citations).Load(context.Background())
	assert.Error(t, err)
}
