package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/licitia/tdranalyzer/internal/api/handlers"
	"github.com/licitia/tdranalyzer/internal/config"
	"github.com/licitia/tdranalyzer/internal/domain"
	"github.com/licitia/tdranalyzer/internal/service"
)

type stubAnalysisService struct{}

func (stubAnalysisService) AnalyzeDocument(ctx context.Context, data []byte, filename, provider string) (*domain.AnalysisResult, error) {
	return &domain.AnalysisResult{}, nil
}

func (stubAnalysisService) EvaluateCompatibility(ctx context.Context, req service.CompatibilityRequest) (*domain.CompatibilityResult, error) {
	return &domain.CompatibilityResult{}, nil
}

type stubBatchRunner struct{}

func (stubBatchRunner) Run(ctx context.Context, items []domain.BatchItem, provider string) ([]domain.BatchOutcome, error) {
	return nil, domain.ErrBatchDisabled
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		Port:                  "8001",
		AppName:               "Analizador TDR SEACE",
		DefaultProvider:       config.ProviderGemini,
		MaxFileSizeMB:         10,
		MaxBatchFiles:         20,
		RequestTimeoutSeconds: 60,
		EnableBatchProcessing: true,
	}
	logger := zap.NewNop()

	return NewRouter(RouterConfig{
		Config:         cfg,
		Logger:         logger,
		HealthHandler:  handlers.NewHealthHandler(cfg),
		AnalyzeHandler: handlers.NewAnalyzeHandler(stubAnalysisService{}, cfg),
		BatchHandler:   handlers.NewBatchHandler(stubBatchRunner{}, cfg, logger),
	})
}

func TestRouter_HealthRoute(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestRouter_RootRoute(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RequestIDHeader(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_BatchStatsRoute(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/batch/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "max_concurrent_requests")
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/no-such-route", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
