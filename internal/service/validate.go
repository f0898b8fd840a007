package service

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/licitia/tdranalyzer/internal/domain"
)

var analysisSchema = mustCompileSchema(map[string]any{
	"type": "object",
	"required": []any{
		"resumen_ejecutivo",
		"requisitos_tecnicos",
		"reglas_de_negocio",
		"politicas_y_penalidades",
	},
	"properties": map[string]any{
		"resumen_ejecutivo": map[string]any{
			"type":      "string",
			"minLength": domain.MinResumenLength,
			"maxLength": domain.MaxResumenLength,
		},
		"requisitos_tecnicos": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"reglas_de_negocio": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"politicas_y_penalidades": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"presupuesto_referencial": map[string]any{
			"type": []any{"string", "null"},
		},
		"score_compatibilidad": map[string]any{
			"type":    "integer",
			"minimum": 1,
			"maximum": 10,
		},
	},
})

var compatibilitySchema = mustCompileSchema(map[string]any{
	"type":     "object",
	"required": []any{"score", "nivel", "explicacion"},
	"properties": map[string]any{
		"score": map[string]any{
			"type":    "number",
			"minimum": 0,
			"maximum": 10,
		},
		"nivel": map[string]any{
			"type": "string",
			"enum": []any{domain.NivelApto, domain.NivelRevisar, domain.NivelDescartar},
		},
		"explicacion": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
		"factores_clave": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"riesgos": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"timestamp": map[string]any{
			"type": "string",
		},
	},
})

func mustCompileSchema(def map[string]any) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(def))
	if err != nil {
		panic(fmt.Sprintf("compile schema: %v", err))
	}
	return schema
}

func validatePayload(schema *gojsonschema.Schema, payload map[string]any) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(payload))
	if err != nil {
		return &domain.DomainError{
			Code:    domain.ErrCodeValidation,
			Message: "model response is not a valid document",
			Err:     err,
		}
	}
	if result.Valid() {
		return nil
	}

	first := result.Errors()[0]
	return &domain.DomainError{
		Code:    domain.ErrCodeValidation,
		Message: fmt.Sprintf("model response failed validation: %s: %s", first.Field(), first.Description()),
	}
}

func validateAnalysisPayload(payload map[string]any) error {
	return validatePayload(analysisSchema, payload)
}

func validateCompatibilityPayload(payload map[string]any) error {
	return validatePayload(compatibilitySchema, payload)
}
