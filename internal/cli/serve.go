// Package cli wires the daemon's commands.
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/licitia/tdranalyzer/internal/api/handlers"
	"github.com/licitia/tdranalyzer/internal/config"
	"github.com/licitia/tdranalyzer/internal/llm"
	"github.com/licitia/tdranalyzer/internal/logging"
	"github.com/licitia/tdranalyzer/internal/pdfextract"
	"github.com/licitia/tdranalyzer/internal/server"
	"github.com/licitia/tdranalyzer/internal/service"
	"github.com/licitia/tdranalyzer/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the analysis API server",
		Long:  "Start the TDR analysis API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "", "Port to listen on (overrides TDR_PORT)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(cfg.Debug)
	defer logger.Sync()

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			logger.Warn("telemetry init failed (continuing without tracing)", zap.Error(err))
		} else {
			defer shutdownTelemetry()
		}
	}

	if portFlag, _ := cmd.Flags().GetString("port"); portFlag != "" {
		cfg.Port = portFlag
	}

	factory := llm.NewFactory(cfg, logger)
	extractor := pdfextract.New()
	analyzerSvc := service.NewAnalyzerService(factory, extractor, cfg, logger)
	batchSvc := service.NewBatchService(analyzerSvc, cfg, logger)

	router := server.NewRouter(server.RouterConfig{
		Config:         cfg,
		Logger:         logger,
		HealthHandler:  handlers.NewHealthHandler(cfg),
		AnalyzeHandler: handlers.NewAnalyzeHandler(analyzerSvc, cfg),
		BatchHandler:   handlers.NewBatchHandler(batchSvc, cfg, logger),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("starting server",
			zap.String("port", cfg.Port),
			zap.String("llm_provider", cfg.DefaultProvider),
			zap.Bool("batch_processing", cfg.EnableBatchProcessing),
			zap.Int("max_concurrent", cfg.MaxConcurrentRequests))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}
