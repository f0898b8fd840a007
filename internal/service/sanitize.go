package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/licitia/tdranalyzer/internal/domain"
)

const missingExplanation = "Sin explicación proporcionada por el modelo."

var analysisListFields = []string{
	"requisitos_tecnicos",
	"reglas_de_negocio",
	"politicas_y_penalidades",
}

// sanitizeAnalysisPayload normalizes a raw model payload in place before
// validation. The transforms are idempotent: trimming and truncating the
// executive summary and forcing every list field to an array.
func sanitizeAnalysisPayload(payload map[string]any) map[string]any {
	if payload == nil {
		payload = map[string]any{}
	}

	if raw, ok := payload["resumen_ejecutivo"].(string); ok {
		resumen := strings.TrimSpace(raw)
		if runes := []rune(resumen); len(runes) > domain.MaxResumenLength {
			resumen = string(runes[:domain.MaxResumenLength])
		}
		payload["resumen_ejecutivo"] = resumen
	}

	for _, field := range analysisListFields {
		payload[field] = coerceStringList(payload[field])
	}

	return payload
}

// sanitizeCompatibilityPayload normalizes a raw compatibility verdict:
// clamps the score to [0, 10], derives the level from the score when the
// model returned an unknown one, fills the explanation placeholder and
// stamps the evaluation time when absent.
func sanitizeCompatibilityPayload(payload map[string]any) map[string]any {
	if payload == nil {
		payload = map[string]any{}
	}

	score := clampScore(payload["score"])
	payload["score"] = score

	nivel, _ := payload["nivel"].(string)
	nivel = strings.ToLower(strings.TrimSpace(nivel))
	switch nivel {
	case domain.NivelApto, domain.NivelRevisar, domain.NivelDescartar:
	default:
		nivel = domain.NivelForScore(score)
	}
	payload["nivel"] = nivel

	explicacion, _ := payload["explicacion"].(string)
	if strings.TrimSpace(explicacion) == "" {
		explicacion = missingExplanation
	}
	payload["explicacion"] = explicacion

	payload["factores_clave"] = coerceStringList(payload["factores_clave"])
	payload["riesgos"] = coerceStringList(payload["riesgos"])

	if _, ok := payload["timestamp"].(string); !ok {
		payload["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	}

	return payload
}

func clampScore(raw any) float64 {
	var score float64
	switch v := raw.(type) {
	case float64:
		score = v
	case int:
		score = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		score = parsed
	default:
		return 0
	}

	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}

// coerceStringList keeps well-formed string arrays as they are. A scalar
// string becomes a single-element list and anything else becomes empty, so
// downstream consumers always see an array.
func coerceStringList(raw any) []any {
	switch v := raw.(type) {
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return []any{}
		}
		return []any{v}
	default:
		return []any{}
	}
}
