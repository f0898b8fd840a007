// Package handlers implements the HTTP endpoints of the analysis service.
package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/licitia/tdranalyzer/internal/api"
	"github.com/licitia/tdranalyzer/internal/config"
	"github.com/licitia/tdranalyzer/internal/domain"
	"github.com/licitia/tdranalyzer/internal/service"
)

// AnalysisService is what the analyze endpoints need from the service layer.
type AnalysisService interface {
	AnalyzeDocument(ctx context.Context, data []byte, filename, provider string) (*domain.AnalysisResult, error)
	EvaluateCompatibility(ctx context.Context, req service.CompatibilityRequest) (*domain.CompatibilityResult, error)
}

type AnalyzeHandler struct {
	svc AnalysisService
	cfg *config.Config
}

func NewAnalyzeHandler(svc AnalysisService, cfg *config.Config) *AnalyzeHandler {
	return &AnalyzeHandler{svc: svc, cfg: cfg}
}

// AnalyzeTDR handles POST /analyze-tdr: one PDF in, one structured analysis out.
// The provider can be overridden per request with the llm_provider query param.
func (h *AnalyzeHandler) AnalyzeTDR(w http.ResponseWriter, r *http.Request) {
	provider := r.URL.Query().Get("llm_provider")
	if err := validateProviderParam(provider); err != nil {
		api.HandleError(w, err)
		return
	}

	data, filename, err := h.readPDFUpload(r, "file")
	if err != nil {
		api.HandleError(w, err)
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	result, err := h.svc.AnalyzeDocument(ctx, data, filename, provider)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.SuccessForFile(w, http.StatusOK, result, filename)
}

// readPDFUpload pulls one uploaded file out of the multipart form and
// enforces the extension and size checks before any processing happens.
func (h *AnalyzeHandler) readPDFUpload(r *http.Request, field string) ([]byte, string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, "", domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "a PDF file upload is required", err)
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		return nil, "", domain.ErrNotPDF
	}

	if header.Size > h.cfg.MaxFileSizeBytes() {
		return nil, "", domain.NewDomainError(domain.ErrCodePayloadTooLarge,
			fmt.Sprintf("file exceeds the maximum size of %dMB", h.cfg.MaxFileSizeMB))
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", domain.NewDomainErrorWithCause(domain.ErrCodeInternal, "failed to read uploaded file", err)
	}
	if int64(len(data)) > h.cfg.MaxFileSizeBytes() {
		return nil, "", domain.NewDomainError(domain.ErrCodePayloadTooLarge,
			fmt.Sprintf("file exceeds the maximum size of %dMB", h.cfg.MaxFileSizeMB))
	}

	return data, header.Filename, nil
}

func (h *AnalyzeHandler) requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	timeout := h.cfg.RequestTimeout()
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

func validateProviderParam(provider string) error {
	switch provider {
	case "", config.ProviderGemini, config.ProviderOpenAI, config.ProviderAnthropic:
		return nil
	default:
		return domain.NewDomainError(domain.ErrCodeValidation,
			fmt.Sprintf("invalid llm provider: %s", provider))
	}
}
