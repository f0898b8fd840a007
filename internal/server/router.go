package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/licitia/tdranalyzer/internal/api/handlers"
	"github.com/licitia/tdranalyzer/internal/api/middleware"
	"github.com/licitia/tdranalyzer/internal/config"
)

type RouterConfig struct {
	Config         *config.Config
	Logger         *zap.Logger
	HealthHandler  *handlers.HealthHandler
	AnalyzeHandler *handlers.AnalyzeHandler
	BatchHandler   *handlers.BatchHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Batch uploads carry several PDFs at once, so the body ceiling is the
	// per-file limit times the batch size plus some multipart overhead.
	maxBodyBytes := cfg.Config.MaxFileSizeBytes()*int64(cfg.Config.MaxBatchFiles) + 1024*1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog(cfg.Logger))
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/", cfg.HealthHandler.Root)
	r.Get("/health", cfg.HealthHandler.Health)

	r.Post("/analyze-tdr", cfg.AnalyzeHandler.AnalyzeTDR)
	r.Post("/compatibility-score", cfg.AnalyzeHandler.CompatibilityScore)

	r.Route("/batch", func(r chi.Router) {
		r.Post("/analyze-tdrs", cfg.BatchHandler.AnalyzeBatch)
		r.Get("/stats", cfg.BatchHandler.BatchStats)
	})

	return r
}
