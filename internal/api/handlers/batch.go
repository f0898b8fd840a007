package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/licitia/tdranalyzer/internal/api"
	"github.com/licitia/tdranalyzer/internal/config"
	"github.com/licitia/tdranalyzer/internal/domain"
)

// BatchRunner is what the batch endpoints need from the service layer.
type BatchRunner interface {
	Run(ctx context.Context, items []domain.BatchItem, provider string) ([]domain.BatchOutcome, error)
}

type BatchHandler struct {
	svc    BatchRunner
	cfg    *config.Config
	logger *zap.Logger
}

func NewBatchHandler(svc BatchRunner, cfg *config.Config, logger *zap.Logger) *BatchHandler {
	return &BatchHandler{svc: svc, cfg: cfg, logger: logger}
}

// BatchResponse summarizes a finished batch. Results keep the order the
// files were uploaded in.
type BatchResponse struct {
	Results        []domain.BatchOutcome `json:"results"`
	Total          int                   `json:"total"`
	Successful     int                   `json:"successful"`
	Failed         int                   `json:"failed"`
	ElapsedSeconds float64               `json:"elapsed_seconds"`
}

// AnalyzeBatch handles POST /batch/analyze-tdrs: several PDFs in one
// multipart request, analyzed in parallel under the concurrency limit.
func (h *BatchHandler) AnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	provider := r.URL.Query().Get("llm_provider")
	if err := validateProviderParam(provider); err != nil {
		api.HandleError(w, err)
		return
	}

	if err := r.ParseMultipartForm(h.cfg.MaxFileSizeBytes()); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	fileHeaders := r.MultipartForm.File["files"]
	items := make([]domain.BatchItem, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		file, err := header.Open()
		if err != nil {
			api.Error(w, http.StatusBadRequest, "failed to open uploaded file: "+header.Filename)
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			api.Error(w, http.StatusBadRequest, "failed to read uploaded file: "+header.Filename)
			return
		}
		items = append(items, domain.BatchItem{Filename: header.Filename, Data: data})
	}

	start := time.Now()
	outcomes, err := h.svc.Run(r.Context(), items, provider)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	elapsed := time.Since(start).Seconds()

	successful := 0
	for _, outcome := range outcomes {
		if outcome.Status == domain.BatchStatusSuccess {
			successful++
		}
	}

	h.logger.Info("batch completed",
		zap.Int("total", len(outcomes)),
		zap.Int("successful", successful),
		zap.Int("failed", len(outcomes)-successful),
		zap.Float64("elapsed_seconds", elapsed))

	api.Success(w, http.StatusOK, BatchResponse{
		Results:        outcomes,
		Total:          len(outcomes),
		Successful:     successful,
		Failed:         len(outcomes) - successful,
		ElapsedSeconds: elapsed,
	})
}

// BatchStats handles GET /batch/stats: the operating limits callers should
// plan around.
func (h *BatchHandler) BatchStats(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, map[string]any{
		"enabled":                 h.cfg.EnableBatchProcessing,
		"max_concurrent_requests": h.cfg.MaxConcurrentRequests,
		"max_batch_files":         h.cfg.MaxBatchFiles,
		"max_file_size_mb":        h.cfg.MaxFileSizeMB,
		"llm_provider":            h.cfg.DefaultProvider,
		"limits": map[string]any{
			"gemini_free_tier": map[string]any{
				"requests_per_day":    1500,
				"requests_per_minute": 15,
				"context_tokens":      1000000,
			},
			"estimated_daily_usage": map[string]any{
				"rounds_per_day":          36,
				"docs_per_round_max":      10,
				"total_docs_per_day":      360,
				"percentage_of_free_tier": "24%",
			},
		},
	})
}
