package models

// OverviewMetrics summarises the focal source's position across categories.
type OverviewMetrics struct {
	VisibilityScore     float64 `json:"visibility_score"`
	LeadershipScore     float64 `json:"market_leadership_score"`
	AverageRank         float64 `json:"average_ranking"`
	OpportunityGap      float64 `json:"opportunity_gap"`
	TotalCategories     int     `json:"total_categories"`
	CategoriesRank1     int     `json:"categories_rank_1"`
	CategoriesNotRank1  int     `json:"categories_not_rank_1"`
	CategoriesWithFocal int     `json:"categories_with_focal"`
}

// Quadrant names.
const (
	QuadrantStars         = "Stars"
	QuadrantQuestionMarks = "Question Marks"
	QuadrantCashCows      = "Cash Cows"
	QuadrantDogs          = "Dogs"
)

type PerformanceQuadrant struct {
	Category     string  `json:"category"`
	FocalScore   float64 `json:"focal_score"`
	CategorySize int     `json:"category_size"`
	FocalRank    int     `json:"focal_rank"`
	Quadrant     string  `json:"quadrant"`
}

// Severity and tier labels shared by several reports.
const (
	LevelCritical = "Critical"
	LevelHigh     = "High"
	LevelMedium   = "Medium"
	LevelLow      = "Low"
)

type CompetitorThreat struct {
	CompetitorName       string   `json:"competitor_name"`
	CategoriesDominated  int      `json:"categories_dominated"`
	AverageGapPercentage float64  `json:"average_gap_percentage"`
	TotalWins            int      `json:"total_wins"`
	ThreatLevel          string   `json:"threat_level"`
	DominatedCategories  []string `json:"dominated_categories"`
}

type PriorityCategory struct {
	Category        string  `json:"category"`
	CurrentRank     int     `json:"current_rank"`
	GapPercentage   float64 `json:"gap_percentage"`
	Competitor      string  `json:"competitor"`
	CompetitorScore float64 `json:"competitor_score"`
	FocalScore      float64 `json:"focal_score"`
	Severity        string  `json:"severity"`
	PriorityScore   float64 `json:"priority_score"`
}

// PriorityBuckets partitions the focal source's non-leading categories by
// gap severity.
type PriorityBuckets struct {
	Critical []PriorityCategory `json:"critical"`
	Medium   []PriorityCategory `json:"medium"`
	Low      []PriorityCategory `json:"low"`
}

type CategoryHeatmapRow struct {
	Category       string  `json:"category"`
	FocalRank      int     `json:"focal_rank"`
	FocalScore     float64 `json:"focal_score"`
	GapToFirst     float64 `json:"gap_to_first"`
	CompetitorName string  `json:"competitor_name"`
	StatusColor    string  `json:"status_color"`
}

type QuickWin struct {
	Category        string   `json:"category"`
	CurrentRank     int      `json:"current_rank"`
	GapPercentage   float64  `json:"gap_percentage"`
	Competitor      string   `json:"competitor"`
	ActionItems     []string `json:"action_items"`
	EstimatedEffort string   `json:"estimated_effort"`
}

type BattlegroundCategory struct {
	Category           string  `json:"category"`
	FocalRank          int     `json:"focal_rank"`
	GapPercentage      float64 `json:"gap_percentage"`
	Competitor         string  `json:"competitor"`
	ProductVolume      string  `json:"product_volume"`
	InvestmentPriority string  `json:"investment_priority"`
}

type CompetitorCategory struct {
	Category   string  `json:"category"`
	Rank       int     `json:"rank"`
	Score      float64 `json:"score"`
	FocalRank  int     `json:"focal_rank"`
	FocalScore float64 `json:"focal_score"`
	Gap        float64 `json:"gap"`
}

type CompetitorDetail struct {
	CompetitorName           string               `json:"competitor_name"`
	TotalCategoriesDominated int                  `json:"total_categories_dominated"`
	AverageGap               float64              `json:"average_gap"`
	Categories               []CompetitorCategory `json:"categories"`
	StrengthAreas            []string             `json:"strength_areas"`
}

type CompetitorSpecialty struct {
	CompetitorName       string   `json:"competitor_name"`
	DominatedCategories  []string `json:"dominated_categories"`
	SpecialtyPattern     string   `json:"specialty_pattern"`
	AvgGapToFocal        float64  `json:"avg_gap_to_focal"`
	TotalWins            int      `json:"total_wins"`
	ActionRecommendation string   `json:"action_recommendation"`
}

type BattleCompetitor struct {
	Name  string  `json:"name"`
	Rank  int     `json:"rank"`
	Score float64 `json:"score"`
	Gap   float64 `json:"gap"`
}

type CategoryBattle struct {
	Category            string             `json:"category"`
	FocalRank           int                `json:"focal_rank"`
	FocalScore          float64            `json:"focal_score"`
	TopCompetitors      []BattleCompetitor `json:"top_5_competitors"`
	ProductCount        int                `json:"product_count"`
	FocalProductCount   int                `json:"focal_product_count"`
	MissingProductCount int                `json:"missing_product_count"`
}

type CitationSource struct {
	Domain      string   `json:"domain"`
	Frequency   int      `json:"frequency"`
	Categories  []string `json:"categories"`
	ImpactScore float64  `json:"impact_score"`
}

type TrustKeyword struct {
	Keyword   string `json:"keyword"`
	Count     int    `json:"count"`
	Sentiment string `json:"sentiment"`
}

type TrustSignal struct {
	Marketplace     string         `json:"marketplace"`
	PositiveSignals []TrustKeyword `json:"positive_signals"`
	NegativeSignals []TrustKeyword `json:"negative_signals"`
	TrustScore      float64        `json:"trust_score"`
	TotalMentions   int            `json:"total_mentions"`
}

type DomainCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

type SourceSplit struct {
	Focal       int `json:"focal"`
	Competitors int `json:"competitors"`
}

type CitationVisibility struct {
	FocalMentions        int                    `json:"focal_mentions"`
	CompetitorMentions   int                    `json:"competitor_mentions"`
	TotalCitations       int                    `json:"total_citations"`
	FocalPercentage      float64                `json:"focal_percentage"`
	CompetitorPercentage float64                `json:"competitor_percentage"`
	VisibilityRatio      float64                `json:"visibility_ratio"`
	TopSources           []DomainCount          `json:"top_sources"`
	SourceBreakdown      map[string]SourceSplit `json:"source_breakdown"`
}

type AuthorityLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Value  int    `json:"value"`
}

type GatewaySource struct {
	Source         string  `json:"source"`
	TotalCitations int     `json:"total_citations"`
	InfluenceScore float64 `json:"influence_score"`
}

type SourceAuthorityMap struct {
	Nodes          []string        `json:"nodes"`
	Links          []AuthorityLink `json:"links"`
	GatewaySources []GatewaySource `json:"gateway_sources"`
	TotalFlows     int             `json:"total_flows"`
}

// RankPrediction is the outcome of an investment scenario.
type RankPrediction struct {
	Category         string  `json:"category"`
	NewEntry         bool    `json:"new_entry"`
	CurrentRank      int     `json:"current_rank"`
	PredictedRank    int     `json:"predicted_rank"`
	CurrentScore     float64 `json:"current_score"`
	PredictedScore   float64 `json:"predicted_score"`
	GapReduction     float64 `json:"gap_reduction"`
	ProductsToAdd    int     `json:"products_to_add"`
	CitationsNeeded  int     `json:"citations_needed"`
	TimelineMonths   int     `json:"estimated_timeline_months"`
	RevenueImpact    int     `json:"revenue_impact_monthly"`
	InvestmentNeeded int     `json:"investment_required"`
	ROIMultiplier    float64 `json:"roi_multiplier"`
}
