package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "AEO"

// Source kinds understood by the table loader.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Config holds all application configuration. It is built once at start-up
// and passed by value or pointer; nothing mutates it afterwards.
type Config struct {
	Source   SourceConfig   `mapstructure:"source"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Refresh  RefreshConfig  `mapstructure:"refresh"`

	// EnvFileLoaded reports whether a .env file was found.
	EnvFileLoaded bool `mapstructure:"-"`
}

// SourceConfig locates the three input tables.
type SourceConfig struct {
	Kind              string `mapstructure:"kind"`
	RankingPath       string `mapstructure:"ranking_path"`
	ProductDetailPath string `mapstructure:"product_detail_path"`
	CitationPath      string `mapstructure:"citation_path"`
}

type PostgresConfig struct {
	Host       string `mapstructure:"host"`
	Port       string `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	DB         string `mapstructure:"db"`
	SSLMode    string `mapstructure:"sslmode"`
	MaxRetries int    `mapstructure:"max_retries"`
}

// AnalysisConfig carries the focal source and every business heuristic the
// analyzers use.
type AnalysisConfig struct {
	FocalSource string         `mapstructure:"focal_source"`
	Thresholds  Thresholds     `mapstructure:"thresholds"`
	Forecast    ForecastParams `mapstructure:"forecast"`
	Workers     int            `mapstructure:"workers"`
}

// Thresholds are the classification cut-offs. Gap values are percentages.
type Thresholds struct {
	QuadrantScore      float64 `mapstructure:"quadrant_score"`
	QuadrantImportance int     `mapstructure:"quadrant_importance"`

	PriorityCritical float64 `mapstructure:"priority_critical"`
	PriorityMedium   float64 `mapstructure:"priority_medium"`

	QuickWinRanks      []int   `mapstructure:"quick_win_ranks"`
	QuickWinMaxGap     float64 `mapstructure:"quick_win_max_gap"`
	QuickWinLowEffort  float64 `mapstructure:"quick_win_low_effort"`
	QuickWinMidEffort  float64 `mapstructure:"quick_win_mid_effort"`
	BattlegroundMinGap float64 `mapstructure:"battleground_min_gap"`
	BattlegroundMaxGap float64 `mapstructure:"battleground_max_gap"`
	BattlegroundHigh   int     `mapstructure:"battleground_high_volume"`
	BattlegroundMedium int     `mapstructure:"battleground_medium_volume"`

	ThreatCritical float64 `mapstructure:"threat_critical"`
	ThreatHigh     float64 `mapstructure:"threat_high"`
	ThreatMedium   float64 `mapstructure:"threat_medium"`

	SpecialtyExpandGap float64 `mapstructure:"specialty_expand_gap"`
	StrengthGap        float64 `mapstructure:"strength_gap"`
}

// ForecastParams are the per-unit constants of the rank predictor.
type ForecastParams struct {
	EntryProductBoost   float64 `mapstructure:"entry_product_boost"`
	EntryCitationBoost  float64 `mapstructure:"entry_citation_boost"`
	ProductBoost        float64 `mapstructure:"product_boost"`
	CitationBoost       float64 `mapstructure:"citation_boost"`
	RankStep            float64 `mapstructure:"rank_step"`
	EntryMinMonths      int     `mapstructure:"entry_min_months"`
	MinMonths           int     `mapstructure:"min_months"`
	EntryProductRevenue int     `mapstructure:"entry_product_revenue"`
	EntryRankRevenue    int     `mapstructure:"entry_rank_revenue"`
	ProductRevenue      int     `mapstructure:"product_revenue"`
	RankRevenue         int     `mapstructure:"rank_revenue"`
	ProductCost         int     `mapstructure:"product_cost"`
	CitationCost        int     `mapstructure:"citation_cost"`
}

type ServerConfig struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	Debug       bool     `mapstructure:"debug"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RefreshConfig controls the shared snapshot. Interval 0 means the tables
// are loaded on every query.
type RefreshConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	LoadTimeout time.Duration `mapstructure:"load_timeout"`
	Watch       bool          `mapstructure:"watch"`
}

// Load reads the .env file (if any), an optional YAML file at configPath,
// and AEO_* environment variables, in increasing precedence.
func Load(configPath string) (*Config, error) {
	envLoaded := godotenv.Load() == nil

	v := newViper()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %q: %w", configPath, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.EnvFileLoaded = envLoaded
	cfg.Analysis.FocalSource = strings.ToLower(strings.TrimSpace(cfg.Analysis.FocalSource))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Default returns a Config built from defaults and AEO_* environment
// overrides, without reading .env or a config file.
func Default() *Config {
	cfg := &Config{}
	_ = newViper().Unmarshal(cfg)
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// Validate checks the settings the engine cannot run without.
func (c *Config) Validate() error {
	var errs []error

	if c.Analysis.FocalSource == "" {
		errs = append(errs, errors.New("analysis.focal_source must not be empty"))
	}

	switch c.Source.Kind {
	case SourceFile:
		if c.Source.RankingPath == "" {
			errs = append(errs, errors.New("source.ranking_path is required"))
		}
		if c.Source.ProductDetailPath == "" {
			errs = append(errs, errors.New("source.product_detail_path is required"))
		}
	case SourcePostgres:
		if c.Postgres.Host == "" || c.Postgres.DB == "" {
			errs = append(errs, errors.New("postgres.host and postgres.db are required"))
		}
	default:
		errs = append(errs, fmt.Errorf("source.kind %q is not one of %q, %q", c.Source.Kind, SourceFile, SourcePostgres))
	}

	t := c.Analysis.Thresholds
	if t.PriorityMedium > t.PriorityCritical {
		errs = append(errs, errors.New("thresholds.priority_medium exceeds priority_critical"))
	}
	if t.BattlegroundMinGap > t.BattlegroundMaxGap {
		errs = append(errs, errors.New("thresholds.battleground_min_gap exceeds battleground_max_gap"))
	}
	if t.QuickWinLowEffort > t.QuickWinMidEffort {
		errs = append(errs, errors.New("thresholds.quick_win_low_effort exceeds quick_win_mid_effort"))
	}
	if c.Refresh.Interval < 0 || c.Refresh.LoadTimeout < 0 {
		errs = append(errs, errors.New("refresh durations must not be negative"))
	}

	return errors.Join(errs...)
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	p := c.Postgres
	return "host=" + p.Host +
		" port=" + p.Port +
		" user=" + p.User +
		" password=" + p.Password +
		" dbname=" + p.DB +
		" sslmode=" + p.SSLMode
}

// WatchedPaths lists the local files whose modification should trigger a
// snapshot refresh.
func (c *Config) WatchedPaths() []string {
	if c.Source.Kind != SourceFile {
		return nil
	}
	var paths []string
	for _, p := range []string{c.Source.RankingPath, c.Source.ProductDetailPath, c.Source.CitationPath} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			paths = append(paths, p)
		}
	}
	return paths
}
