package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/licitia/tdranalyzer/internal/api"
	"github.com/licitia/tdranalyzer/internal/service"
)

const (
	minCompanyCopyLength = 20
	maxCompanyCopyLength = 4000
)

// CompatibilityScoreRequest mirrors the wire format the subscription backend
// sends: the subscriber's pitch plus a previously produced analysis.
type CompatibilityScoreRequest struct {
	CompanyCopy      string         `json:"company_copy"`
	AnalisisTDR      map[string]any `json:"analisis_tdr"`
	ContratoContexto map[string]any `json:"contrato_contexto,omitempty"`
	Keywords         []string       `json:"keywords,omitempty"`
	LLMProvider      string         `json:"llm_provider,omitempty"`
}

// CompatibilityScore handles POST /compatibility-score.
func (h *AnalyzeHandler) CompatibilityScore(w http.ResponseWriter, r *http.Request) {
	var req CompatibilityScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	copyLen := len(strings.TrimSpace(req.CompanyCopy))
	if copyLen < minCompanyCopyLength || copyLen > maxCompanyCopyLength {
		api.Error(w, http.StatusBadRequest, "company_copy must be between 20 and 4000 characters")
		return
	}
	if len(req.AnalisisTDR) == 0 {
		api.Error(w, http.StatusBadRequest, "analisis_tdr is required")
		return
	}
	if err := validateProviderParam(req.LLMProvider); err != nil {
		api.HandleError(w, err)
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	result, err := h.svc.EvaluateCompatibility(ctx, service.CompatibilityRequest{
		CompanyCopy:     req.CompanyCopy,
		Analysis:        req.AnalisisTDR,
		ContractContext: req.ContratoContexto,
		Keywords:        req.Keywords,
		Provider:        req.LLMProvider,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, result)
}
