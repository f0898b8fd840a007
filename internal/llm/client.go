// Package llm holds the provider-agnostic analysis client contract and the
// vendor adapters implementing it.
package llm

import "context"

// Sampling shared by every adapter. Extraction wants determinism, so the
// temperature stays low.
const (
	samplingTemperature = 0.2
	maxAnalysisTokens   = 2048
)

// Client is the capability set every provider adapter must expose.
// Implementations hold only fixed credentials and a model name, so one
// instance is safe for concurrent reuse across requests.
type Client interface {
	// Provider returns the canonical provider name.
	Provider() string

	// AnalyzeText sends the assembled document context to the model and
	// returns the repaired, parsed JSON payload. Transport failures are
	// reported as provider errors, unparseable output as validation errors.
	// No retries.
	AnalyzeText(ctx context.Context, docContext string) (map[string]any, error)

	// EvaluateCompatibility scores a subscriber profile against a prior
	// analysis and returns the parsed JSON payload.
	EvaluateCompatibility(ctx context.Context, input CompatibilityInput) (map[string]any, error)
}

// DocumentAnalyzer is an optional capability: adapters with native document
// understanding accept the raw PDF bytes, bypassing text extraction and
// retrieval. Callers discover it with a type assertion.
type DocumentAnalyzer interface {
	AnalyzeDocument(ctx context.Context, data []byte, filename string) (map[string]any, error)
}

// CompatibilityInput carries everything the comparison prompt embeds.
type CompatibilityInput struct {
	CompanyCopy     string
	Analysis        map[string]any
	ContractContext map[string]any
	Keywords        []string
}
