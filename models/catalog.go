package models

// SourceRank is one entry of an ordered category ranking.
type SourceRank struct {
	Source string `json:"source"`
	Rank   int    `json:"rank"`
}

// CategoryRanking lists the top sources of one category in rank order.
type CategoryRanking struct {
	Category string       `json:"category"`
	Sources  []SourceRank `json:"sources"`
}

type CategoryDetails struct {
	Category                 string         `json:"category"`
	Products                 []string       `json:"products"`
	MarketplaceRankings      []SourceRank   `json:"marketplace_rankings"`
	MarketplaceProductCounts map[string]int `json:"marketplace_product_counts"`
	TotalProducts            int            `json:"total_products"`
	TotalMarketplaces        int            `json:"total_marketplaces"`
}

type SourceWins struct {
	Source string `json:"source"`
	Wins   int    `json:"wins"`
}

type RankingStatistics struct {
	TotalCategories int          `json:"total_products"`
	TotalSources    int          `json:"total_marketplaces"`
	TotalEntries    int          `json:"total_entries"`
	Categories      []string     `json:"products_list"`
	TopMarketplaces []SourceWins `json:"top_marketplaces"`
}

type CategoryCount struct {
	Category     string `json:"category"`
	ProductCount int    `json:"product_count"`
}

type NoRankProduct struct {
	Category    string  `json:"product_category"`
	ProductName string  `json:"product_name"`
	Citations   *string `json:"citations"`
}

type NoRankAnalysis struct {
	TotalMissingProducts     int             `json:"total_missing_products"`
	CategoriesAffected       int             `json:"categories_affected"`
	TopOpportunityCategories []CategoryCount `json:"top_opportunity_categories"`
	ProductsWithCitations    int             `json:"products_with_citations"`
	SampleProducts           []NoRankProduct `json:"sample_products"`
}

type OfficialStoreScore struct {
	Category                   string  `json:"category"`
	FocalOfficialMentions      int     `json:"focal_official_mentions"`
	CompetitorOfficialMentions int     `json:"competitor_official_mentions"`
	GapScore                   float64 `json:"gap_score"`
	TopCompetitor              string  `json:"top_competitor"`
	Recommendation             string  `json:"recommendation"`
}

type SourceProducts struct {
	Source   string `json:"source"`
	Products int    `json:"products"`
}

type AvailabilityRow struct {
	Category               string           `json:"category"`
	TotalProducts          int              `json:"total_products"`
	FocalAvailable         int              `json:"focal_available"`
	FocalPercentage        float64          `json:"focal_percentage"`
	CompetitorAvailability []SourceProducts `json:"competitor_availability"`
	MissingProducts        []string         `json:"missing_products"`
	RevenueOpportunity     int              `json:"revenue_opportunity"`
}

type NicheOpportunity struct {
	Category           string  `json:"category"`
	CitationFrequency  float64 `json:"citation_frequency"`
	FocalCurrentRank   int     `json:"focal_current_rank"`
	CompetitorStrength float64 `json:"competitor_strength"`
	ProductCountGap    int     `json:"product_count_gap"`
	RevenuePotential   float64 `json:"revenue_potential"`
	OpportunityScore   float64 `json:"opportunity_score"`
	QuickWin           bool    `json:"quick_win"`
}

type CategoryAssociation struct {
	Marketplace         string  `json:"marketplace"`
	Category            string  `json:"category"`
	WinRate             float64 `json:"win_rate"`
	Top3Rate            float64 `json:"top_3_rate"`
	AvgScore            float64 `json:"avg_score"`
	AssociationStrength float64 `json:"association_strength"`
	PerceptionLevel     string  `json:"perception_level"`
}

type IntentAlignment struct {
	Intent            string  `json:"intent"`
	FocalWinRate      float64 `json:"focal_win_rate"`
	TopCompetitor     string  `json:"top_competitor"`
	CompetitorWinRate float64 `json:"competitor_win_rate"`
	MatchStrength     string  `json:"match_strength"`
	Recommendation    string  `json:"recommendation"`
}

// InsightBundle gathers the dashboard reports computed from one snapshot.
type InsightBundle struct {
	SnapshotID           string                 `json:"snapshot_id"`
	Overview             *OverviewMetrics       `json:"overview"`
	PerformanceQuadrants []PerformanceQuadrant  `json:"performance_quadrants"`
	CompetitorThreats    []CompetitorThreat     `json:"competitor_threats"`
	PriorityCategories   *PriorityBuckets       `json:"priority_categories"`
	CategoryHeatmap      []CategoryHeatmapRow   `json:"category_heatmap"`
	QuickWins            []QuickWin             `json:"quick_wins"`
	Battlegrounds        []BattlegroundCategory `json:"battlegrounds"`
	NoRankAnalysis       *NoRankAnalysis        `json:"no_rank_analysis,omitempty"`
	CitationSources      []CitationSource       `json:"citation_sources,omitempty"`
}

// AdditionalBundle gathers the secondary opportunity reports computed from
// one snapshot.
type AdditionalBundle struct {
	SnapshotID            string                `json:"snapshot_id"`
	CitationVisibility    *CitationVisibility   `json:"citation_visibility,omitempty"`
	SourceAuthority       *SourceAuthorityMap   `json:"source_authority,omitempty"`
	OfficialStoreScores   []OfficialStoreScore  `json:"official_store_scores"`
	TrustSignals          []TrustSignal         `json:"trust_signals"`
	ProductAvailability   []AvailabilityRow     `json:"product_availability,omitempty"`
	NicheOpportunities    []NicheOpportunity    `json:"niche_opportunities,omitempty"`
	CategoryAssociations  []CategoryAssociation `json:"category_associations"`
	CompetitorSpecialties []CompetitorSpecialty `json:"competitor_specialties"`
	IntentAlignments      []IntentAlignment     `json:"intent_alignments"`
}
