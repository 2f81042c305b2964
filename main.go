package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"aeo-analytics/api"
	"aeo-analytics/config"
	"aeo-analytics/services"
	"aeo-analytics/storage"
	"aeo-analytics/utils"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "aeo-analytics",
	Short: "Marketplace ranking analytics engine",
	Long: `aeo-analytics reads per-category marketplace ranking tables and derives
competitive reports for one focal source: overview metrics, quadrants,
threats, priorities, citation sources and rank forecasts.`,
	Version:       api.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app holds everything a command needs once config and logging are set up.
type app struct {
	cfg    *config.Config
	logger *utils.Logger
	store  *storage.PostgresStore
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := utils.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	if cfg.EnvFileLoaded {
		logger.Debug("Loaded settings from .env")
	}
	return &app{cfg: cfg, logger: logger}, nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("Closing PostgreSQL failed: %v", err)
		}
	}
	_ = a.logger.Sync()
}

// postgres opens the store once per process.
func (a *app) postgres(ctx context.Context) (*storage.PostgresStore, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := storage.NewPostgresStore(ctx, a.cfg.DSN(), utils.RetryConfig{
		MaxAttempts: a.cfg.Postgres.MaxRetries,
		BaseDelay:   time.Second,
		Logger:      a.logger,
	})
	if err != nil {
		a.logger.Error("Failed to connect to PostgreSQL: %v", err)
		return nil, err
	}
	a.store = store
	return store, nil
}

func (a *app) source(ctx context.Context) (storage.TableSource, error) {
	if a.cfg.Source.Kind == config.SourcePostgres {
		return a.postgres(ctx)
	}
	src := a.cfg.Source
	return storage.NewFileSource(src.RankingPath, src.ProductDetailPath, src.CitationPath), nil
}

// engine builds the report engine. With a refresh interval or file watching
// configured, a shared snapshot is kept current in the background until ctx
// is done; otherwise every query reloads the tables.
func (a *app) engine(ctx context.Context) (*services.Engine, error) {
	source, err := a.source(ctx)
	if err != nil {
		return nil, err
	}
	loader := services.NewLoader(source, a.cfg.Analysis.FocalSource, a.cfg.Refresh.LoadTimeout, a.logger)

	var provider services.SnapshotProvider
	if a.cfg.Refresh.Interval > 0 || a.cfg.Refresh.Watch {
		store := services.NewSnapshotStore(loader, a.logger)
		var watch []string
		if a.cfg.Refresh.Watch {
			watch = a.cfg.WatchedPaths()
		}
		go func() {
			if err := store.Run(ctx, a.cfg.Refresh.Interval, watch); err != nil {
				a.logger.Error("Snapshot refresh stopped: %v", err)
			}
		}()
		provider = store
	} else {
		provider = services.NewPerQueryProvider(loader)
	}

	return services.NewEngine(provider, a.cfg.Analysis, a.logger), nil
}
