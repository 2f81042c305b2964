package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults registers every key so AutomaticEnv can override it during
// Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("source.kind", SourceFile)
	v.SetDefault("source.ranking_path", "./data/prod_source_scores_normalized_ranked.xlsx")
	v.SetDefault("source.product_detail_path", "./data/Book1.xlsx")
	v.SetDefault("source.citation_path", "")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "postgres")
	v.SetDefault("postgres.db", "aeo_geo_db")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_retries", 5)

	v.SetDefault("analysis.focal_source", "amazon")
	v.SetDefault("analysis.workers", 4)

	v.SetDefault("analysis.thresholds.quadrant_score", 0.15)
	v.SetDefault("analysis.thresholds.quadrant_importance", 3)
	v.SetDefault("analysis.thresholds.priority_critical", 15.0)
	v.SetDefault("analysis.thresholds.priority_medium", 7.0)
	v.SetDefault("analysis.thresholds.quick_win_ranks", []int{2, 3})
	v.SetDefault("analysis.thresholds.quick_win_max_gap", 15.0)
	v.SetDefault("analysis.thresholds.quick_win_low_effort", 5.0)
	v.SetDefault("analysis.thresholds.quick_win_mid_effort", 10.0)
	v.SetDefault("analysis.thresholds.battleground_min_gap", 7.0)
	v.SetDefault("analysis.thresholds.battleground_max_gap", 20.0)
	v.SetDefault("analysis.thresholds.battleground_high_volume", 5)
	v.SetDefault("analysis.thresholds.battleground_medium_volume", 3)
	v.SetDefault("analysis.thresholds.threat_critical", 15.0)
	v.SetDefault("analysis.thresholds.threat_high", 10.0)
	v.SetDefault("analysis.thresholds.threat_medium", 5.0)
	v.SetDefault("analysis.thresholds.specialty_expand_gap", 15.0)
	v.SetDefault("analysis.thresholds.strength_gap", 10.0)

	v.SetDefault("analysis.forecast.entry_product_boost", 0.03)
	v.SetDefault("analysis.forecast.entry_citation_boost", 0.02)
	v.SetDefault("analysis.forecast.product_boost", 0.02)
	v.SetDefault("analysis.forecast.citation_boost", 0.01)
	v.SetDefault("analysis.forecast.rank_step", 0.05)
	v.SetDefault("analysis.forecast.entry_min_months", 6)
	v.SetDefault("analysis.forecast.min_months", 3)
	v.SetDefault("analysis.forecast.entry_product_revenue", 5000)
	v.SetDefault("analysis.forecast.entry_rank_revenue", 10000)
	v.SetDefault("analysis.forecast.product_revenue", 8000)
	v.SetDefault("analysis.forecast.rank_revenue", 15000)
	v.SetDefault("analysis.forecast.product_cost", 2000)
	v.SetDefault("analysis.forecast.citation_cost", 5000)

	v.SetDefault("server.addr", "0.0.0.0:8000")
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000", "http://127.0.0.1:3000"})
	v.SetDefault("server.debug", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("refresh.interval", time.Duration(0))
	v.SetDefault("refresh.load_timeout", 30*time.Second)
	v.SetDefault("refresh.watch", false)
}
