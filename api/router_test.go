package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aeo-analytics/config"
	"aeo-analytics/models"
	"aeo-analytics/services"
	"aeo-analytics/utils"
)

type fixedProvider struct {
	d   *services.Dataset
	err error
}

func (p fixedProvider) Snapshot(context.Context) (*services.Dataset, error) {
	return p.d, p.err
}

func row(category, source string, rank int, score float64) models.RankingRecord {
	return models.RankingRecord{Category: category, Source: source, Rank: rank, NormalizedScore: score}
}

func testDataset(withCitations bool) *services.Dataset {
	ranking := []models.RankingRecord{
		row("Toys", "flipkart", 1, 0.50),
		row("Toys", "amazon", 2, 0.40),
		row("Toys", "meesho", 3, 0.30),
		row("Phones", "amazon", 1, 0.60),
		row("Phones", "flipkart", 2, 0.45),
		row("Gadgets", "flipkart", 1, 0.30),
		row("Gadgets", "croma", 2, 0.20),
		row("Imported Tea", "tata", 1, 0.70),
		row("Imported Tea", "amazon", 2, 0.45),
	}
	details := []models.ProductDetailRecord{
		{Category: "Toys", ProductName: "Lego Set", Source: "amazon", Extra: "Official store"},
		{Category: "Toys", ProductName: "Toy Car", Source: "flipkart"},
		{Category: "Phones", ProductName: "Phone X", Source: "amazon"},
	}
	var citations []models.CitationRecord
	if withCitations {
		citations = []models.CitationRecord{
			{Category: "Toys", ProductName: "Toy Car", Citations: "[1]: https://www.example.com/x"},
		}
	}
	return services.NewDataset("amazon", ranking, details, citations, withCitations)
}

func newTestRouter(t *testing.T, p services.SnapshotProvider) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	logger := utils.NewNopLogger()
	engine := services.NewEngine(p, cfg.Analysis, logger)
	return NewRouter(NewHandler(engine, cfg.Analysis.FocalSource), cfg.Server, logger)
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRootAndHealth(t *testing.T) {
	router := newTestRouter(t, fixedProvider{d: testDataset(true)})

	w := get(t, router, "/")
	require.Equal(t, http.StatusOK, w.Code)
	var root map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &root))
	assert.Equal(t, "operational", root["status"])
	assert.Equal(t, Version, root["version"])

	w = get(t, router, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestOverviewEndpoint(t *testing.T) {
	router := newTestRouter(t, fixedProvider{d: testDataset(true)})

	w := get(t, router, "/insights/overview")
	require.Equal(t, http.StatusOK, w.Code)

	var got models.OverviewMetrics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 4, got.TotalCategories)
	assert.Equal(t, 1, got.CategoriesRank1)
	assert.Equal(t, 3, got.CategoriesWithFocal)
}

func TestRankingTableEndpoint(t *testing.T) {
	router := newTestRouter(t, fixedProvider{d: testDataset(true)})

	w := get(t, router, "/analytics/ranking-table?top_n=1")
	require.Equal(t, http.StatusOK, w.Code)

	var got []models.CategoryRanking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 4)
	for _, c := range got {
		assert.Len(t, c.Sources, 1, c.Category)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		provider services.SnapshotProvider
		path     string
		status   int
		code     string
	}{
		{"unknown competitor", fixedProvider{d: testDataset(true)}, "/insights/competitor/nobody", http.StatusNotFound, CodeNotFound},
		{"unknown category", fixedProvider{d: testDataset(true)}, "/analytics/product-category/Nothing", http.StatusNotFound, CodeNotFound},
		{"missing category", fixedProvider{d: testDataset(true)}, "/additional/rank-prediction", http.StatusBadRequest, CodeInvalidArgument},
		{"products out of range", fixedProvider{d: testDataset(true)}, "/additional/rank-prediction?category=Toys&products_to_add=51", http.StatusBadRequest, CodeInvalidArgument},
		{"citations not a number", fixedProvider{d: testDataset(true)}, "/additional/rank-prediction?category=Toys&citations_needed=many", http.StatusBadRequest, CodeInvalidArgument},
		{"top_n out of range", fixedProvider{d: testDataset(true)}, "/insights/citation-sources?top_n=0", http.StatusBadRequest, CodeInvalidArgument},
		{"no citation table", fixedProvider{d: testDataset(false)}, "/insights/citation-sources", http.StatusServiceUnavailable, CodeUnavailable},
		{"source unavailable", fixedProvider{err: fmt.Errorf("load: %w", services.ErrDataUnavailable)}, "/insights/overview", http.StatusServiceUnavailable, CodeUnavailable},
		{"bad schema", fixedProvider{err: &services.SchemaError{Table: "ranking", Missing: []string{"rank"}}}, "/insights/quick-wins", http.StatusInternalServerError, CodeSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, tt.provider)
			w := get(t, router, tt.path)
			require.Equal(t, tt.status, w.Code, w.Body.String())

			body := decodeError(t, w)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Error)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestRankPredictionEndpoint(t *testing.T) {
	router := newTestRouter(t, fixedProvider{d: testDataset(true)})

	w := get(t, router, "/additional/rank-prediction?category=Gadgets")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got models.RankPrediction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Gadgets", got.Category)
	assert.True(t, got.NewEntry)
	assert.Equal(t, 5, got.ProductsToAdd)
	assert.Equal(t, 10, got.CitationsNeeded)
}

func TestRequestIDPropagation(t *testing.T) {
	router := newTestRouter(t, fixedProvider{d: testDataset(true)})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))

	w = get(t, router, "/health")
	assert.Len(t, w.Header().Get(requestIDHeader), 36)
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t, fixedProvider{d: testDataset(true)})

	req := httptest.NewRequest(http.MethodOptions, "/insights/overview", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAllInsightsWithoutCitations(t *testing.T) {
	router := newTestRouter(t, fixedProvider{d: testDataset(false)})

	w := get(t, router, "/insights/all-insights")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got models.InsightBundle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.NotNil(t, got.Overview)
}
