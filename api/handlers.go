package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"aeo-analytics/services"
)

// Version is reported by the root and health endpoints.
const Version = "1.0.0"

// Handler serves the report endpoints from an Engine.
type Handler struct {
	engine *services.Engine
	focal  string
}

func NewHandler(engine *services.Engine, focal string) *Handler {
	return &Handler{engine: engine, focal: focal}
}

// intQuery reads an optional integer query parameter and checks its bounds.
func intQuery(c *gin.Context, name string, def, min, max int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", ErrBadRequest, name, raw)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("%w: %s must be between %d and %d, got %d", ErrBadRequest, name, min, max, v)
	}
	return v, nil
}

// respond writes v as JSON or maps err onto an error response.
func respond[T any](c *gin.Context, v T, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":      "Marketplace ranking analytics API",
		"version":      Version,
		"status":       "operational",
		"focal_source": h.focal,
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "version": Version})
}

// Analytics

func (h *Handler) RankingTable(c *gin.Context) {
	topN, err := intQuery(c, "top_n", 5, 1, 1000)
	if err != nil {
		writeError(c, err)
		return
	}
	v, err := h.engine.MarketplaceRankings(c.Request.Context(), topN)
	respond(c, v, err)
}

func (h *Handler) ProductCategory(c *gin.Context) {
	v, err := h.engine.CategoryDetails(c.Request.Context(), c.Param("category"))
	respond(c, v, err)
}

func (h *Handler) Statistics(c *gin.Context) {
	v, err := h.engine.Statistics(c.Request.Context())
	respond(c, v, err)
}

// Insights

func (h *Handler) Overview(c *gin.Context) {
	v, err := h.engine.Overview(c.Request.Context())
	respond(c, v, err)
}

func (h *Handler) PerformanceQuadrants(c *gin.Context) {
	v, err := h.engine.PerformanceQuadrants(c.Request.Context())
	respond(c, v, err)
}

func (h *Handler) CompetitorAnalysis(c *gin.Context) {
	v, err := h.engine.ThreatAnalysis(c.Request.Context())
	respond(c, v, err)
}

func (h *Handler) PriorityCategories(c *gin.Context) {
	v, err := h.engine.PriorityBuckets(c.Request.Context())
	respond(c, v, err)
}

func (h *Handler) PriorityCategoriesBySeverity(c *gin.Context) {
	v, err := h.engine.PriorityBucket(c.Request.Context(), c.Param("severity"))
	respond(c, v, err)
}

func (h *Handler) NoRankAnalysis(c *gin.Context) {
	v, err := h.engine.NoRankAnalysis(c.Request.Context())
	respond(c, v, err)
}

func (h *Handler) CitationSources(c *gin.Context) {
	topN, err := intQuery(c, "top_n", 50, 1, 100)
	if err != nil {
		writeError(c, err)
		return
	}
	v, err := h.engine.CitationSources(c.Request.Context(), topN)
	respond(c, v, err)
}

func (h *Handler) CategoryHeatmap(c *gin.Context) {
	v, err := h.engine.CategoryHeatmap(c.Request.Context())
	respond(c, v, err)
}

func (h *Handler) QuickWins(c *gin.Context) {
	v, err := h.engine.QuickWins(c.Request.Context())
	respond(c, v, err)
}

func (h *Handler) Battlegrounds(c *gin.Context) {
	v, err := h.engine.Battlegrounds(c.Request.Context())
	respond(c, v, err)
}

func (h *Handler) Competitor(c *gin.Context) {
	v, err := h.engine.CompetitorDetail(c.Request.Context(), c.Param("name"))
	respond(c, v, err)
}

func (h *Handler) CategoryBattle(c *gin.Context) {
	v, err := h.engine.CategoryBattle(c.Request.Context(), c.Param("name"))
	respond(c, v, err)
}

func (h *Handler) AllInsights(c *gin.Context) {
	v, err := h.engine.InsightBundle(c.Request.Context())
	respond(c, v, err)
}

// Additional

func (h *Handler) CitationVisibility(c *gin.Context) {
	v, err := h.engine.CitationVisibility(c.Request.Context())
	respond(c, v, err)
}

func (h *Handler) SourceAuthorityMap(c *gin.Context) {
	v, err := h.engine.SourceAuthorityMap(c.Request.Context())
	respond(c, v, err)
}

func (h *Handler) OfficialStoreScores(c *gin.Context) {
	v, err := h.engine.OfficialStoreScores(c.Request.Context())
	respond(c, v, err)
}

func (h *Handler) TrustSignals(c *gin.Context) {
	v, err := h.engine.TrustSignals(c.Request.Context())
	respond(c, v, err)
}

func (h *Handler) ProductAvailability(c *gin.Context) {
	v, err := h.engine.ProductAvailability(c.Request.Context())
	respond(c, v, err)
}

func (h *Handler) NicheOpportunities(c *gin.Context) {
	v, err := h.engine.NicheOpportunities(c.Request.Context())
	respond(c, v, err)
}

func (h *Handler) CategoryAssociation(c *gin.Context) {
	v, err := h.engine.CategoryAssociations(c.Request.Context())
	respond(c, v, err)
}

func (h *Handler) CompetitorSpecialties(c *gin.Context) {
	v, err := h.engine.CompetitorSpecialties(c.Request.Context())
	respond(c, v, err)
}

func (h *Handler) CompetitorSpecialty(c *gin.Context) {
	v, err := h.engine.CompetitorSpecialty(c.Request.Context(), c.Param("name"))
	respond(c, v, err)
}

func (h *Handler) IntentAlignment(c *gin.Context) {
	v, err := h.engine.IntentAlignments(c.Request.Context())
	respond(c, v, err)
}

func (h *Handler) RankPrediction(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	if category == "" {
		writeError(c, fmt.Errorf("%w: category is required", ErrBadRequest))
		return
	}
	products, err := intQuery(c, "products_to_add", 5, 0, 50)
	if err != nil {
		writeError(c, err)
		return
	}
	citations, err := intQuery(c, "citations_needed", 10, 0, 100)
	if err != nil {
		writeError(c, err)
		return
	}

	v, err := h.engine.Predict(c.Request.Context(), services.Scenario{
		Category:        category,
		ProductsToAdd:   products,
		CitationsTarget: citations,
	})
	respond(c, v, err)
}

func (h *Handler) AllAdditional(c *gin.Context) {
	v, err := h.engine.AdditionalBundle(c.Request.Context())
	respond(c, v, err)
}
