package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"aeo-analytics/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info("=== Ranking analytics API starting ===")
	a.logger.Info("Config | focal: %s | source: %s | refresh: %s | watch: %t",
		a.cfg.Analysis.FocalSource, a.cfg.Source.Kind, a.cfg.Refresh.Interval, a.cfg.Refresh.Watch)

	engine, err := a.engine(ctx)
	if err != nil {
		return err
	}

	if !a.cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	addr := a.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	router := api.NewRouter(api.NewHandler(engine, a.cfg.Analysis.FocalSource), a.cfg.Server, a.logger.Named("http"))
	server := api.NewServer(addr, router, a.logger)

	serverErr := make(chan error, 1)
	go func() { serverErr <- server.Start() }()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		a.logger.Info("Received shutdown signal")
	}
	return server.Stop(context.Background())
}
