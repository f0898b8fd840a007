package domain

import "time"

// MaxResumenLength is the schema ceiling for the executive summary. Longer
// summaries are truncated during sanitization, never rejected.
const MaxResumenLength = 1000

// MinResumenLength is the schema floor for the executive summary.
const MinResumenLength = 50

// AnalysisResult is the validated structured output of a single TDR analysis.
// JSON keys follow the wire format consumed by the subscription backend.
type AnalysisResult struct {
	ResumenEjecutivo       string   `json:"resumen_ejecutivo"`
	RequisitosTecnicos     []string `json:"requisitos_tecnicos"`
	ReglasDeNegocio        []string `json:"reglas_de_negocio"`
	PoliticasYPenalidades  []string `json:"politicas_y_penalidades"`
	PresupuestoReferencial *string  `json:"presupuesto_referencial"`
	ScoreCompatibilidad    *int     `json:"score_compatibilidad,omitempty"`
}

// Compatibility levels derived from the score when the model omits or
// mis-states them.
const (
	NivelApto      = "apto"
	NivelRevisar   = "revisar"
	NivelDescartar = "descartar"
)

// NivelForScore derives the qualitative level from a clamped score.
func NivelForScore(score float64) string {
	switch {
	case score >= 8:
		return NivelApto
	case score >= 5:
		return NivelRevisar
	default:
		return NivelDescartar
	}
}

// CompatibilityResult scores how well a subscriber profile matches a
// previously produced analysis.
type CompatibilityResult struct {
	Score         float64   `json:"score"`
	Nivel         string    `json:"nivel"`
	Explicacion   string    `json:"explicacion"`
	FactoresClave []string  `json:"factores_clave"`
	Riesgos       []string  `json:"riesgos"`
	Timestamp     time.Time `json:"timestamp"`
}
