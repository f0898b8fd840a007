package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/licitia/tdranalyzer/internal/api"
	"github.com/licitia/tdranalyzer/internal/config"
)

// Version is the service version reported by the root and health endpoints.
const Version = "1.1.0"

type HealthHandler struct {
	cfg *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

// Root handles GET /: a short service banner.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, map[string]any{
		"message":          "Microservicio Analizador TDR SEACE",
		"version":          Version,
		"llm":              fmt.Sprintf("%s (%s)", h.cfg.DefaultProvider, h.defaultModel()),
		"batch_processing": h.cfg.EnableBatchProcessing,
	})
}

func (h *HealthHandler) defaultModel() string {
	switch h.cfg.DefaultProvider {
	case config.ProviderOpenAI:
		return h.cfg.OpenAIModel
	case config.ProviderAnthropic:
		return h.cfg.AnthropicModel
	default:
		return h.cfg.GeminiModel
	}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, map[string]any{
		"status":       "healthy",
		"app_name":     h.cfg.AppName,
		"version":      Version,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"llm_provider": h.cfg.DefaultProvider,
	})
}
