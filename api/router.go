package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aeo-analytics/config"
	"aeo-analytics/utils"
)

// NewRouter builds the gin engine with middleware and every report route.
func NewRouter(h *Handler, cfg config.ServerConfig, logger *utils.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), Logging(logger), CORS(cfg.CORSOrigins))

	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	analytics := router.Group("/analytics")
	{
		analytics.GET("/ranking-table", h.RankingTable)
		analytics.GET("/product-category/:category", h.ProductCategory)
		analytics.GET("/statistics", h.Statistics)
	}

	insights := router.Group("/insights")
	{
		insights.GET("/overview", h.Overview)
		insights.GET("/performance-quadrants", h.PerformanceQuadrants)
		insights.GET("/competitor-analysis", h.CompetitorAnalysis)
		insights.GET("/priority-categories", h.PriorityCategories)
		insights.GET("/priority-categories/:severity", h.PriorityCategoriesBySeverity)
		insights.GET("/no-rank-analysis", h.NoRankAnalysis)
		insights.GET("/citation-sources", h.CitationSources)
		insights.GET("/category-heatmap", h.CategoryHeatmap)
		insights.GET("/quick-wins", h.QuickWins)
		insights.GET("/battlegrounds", h.Battlegrounds)
		insights.GET("/competitor/:name", h.Competitor)
		insights.GET("/category-battle/:name", h.CategoryBattle)
		insights.GET("/all-insights", h.AllInsights)
	}

	additional := router.Group("/additional")
	{
		additional.GET("/citation-visibility", h.CitationVisibility)
		additional.GET("/source-authority-map", h.SourceAuthorityMap)
		additional.GET("/official-store-scores", h.OfficialStoreScores)
		additional.GET("/trust-signals", h.TrustSignals)
		additional.GET("/product-availability-matrix", h.ProductAvailability)
		additional.GET("/niche-opportunities", h.NicheOpportunities)
		additional.GET("/category-association", h.CategoryAssociation)
		additional.GET("/competitor-specialty", h.CompetitorSpecialties)
		additional.GET("/competitor-specialty/:name", h.CompetitorSpecialty)
		additional.GET("/intent-alignment", h.IntentAlignment)
		additional.GET("/rank-prediction", h.RankPrediction)
		additional.GET("/all-additional", h.AllAdditional)
	}

	return router
}
