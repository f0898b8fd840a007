// Package service orchestrates extraction, retrieval and model calls into
// validated analysis results.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/licitia/tdranalyzer/internal/config"
	"github.com/licitia/tdranalyzer/internal/domain"
	"github.com/licitia/tdranalyzer/internal/llm"
	"github.com/licitia/tdranalyzer/internal/retrieval"
	"github.com/licitia/tdranalyzer/internal/telemetry"
)

const (
	// minViableTextLen rejects documents whose extracted text is too short
	// to say anything useful about.
	minViableTextLen = 100

	// fullTextThreshold is the character count under which the whole
	// document is sent to the model instead of retrieved fragments.
	fullTextThreshold = 5000
)

// ClientFactory resolves a provider name to a ready client.
type ClientFactory interface {
	Create(provider string) (llm.Client, error)
}

// TextExtractor turns raw PDF bytes into plain text.
type TextExtractor interface {
	ExtractText(data []byte) (string, error)
}

// AnalyzerService runs the full analysis pipeline for one document.
type AnalyzerService struct {
	factory   ClientFactory
	extractor TextExtractor
	cfg       *config.Config
	logger    *zap.Logger
}

func NewAnalyzerService(factory ClientFactory, extractor TextExtractor, cfg *config.Config, logger *zap.Logger) *AnalyzerService {
	return &AnalyzerService{
		factory:   factory,
		extractor: extractor,
		cfg:       cfg,
		logger:    logger,
	}
}

// AnalyzeDocument analyzes one PDF with the named provider (empty means the
// configured default). Providers with native document understanding get the
// raw bytes; the rest get extracted text, reduced to category fragments when
// the document is long.
func (s *AnalyzerService) AnalyzeDocument(ctx context.Context, data []byte, filename, provider string) (*domain.AnalysisResult, error) {
	client, err := s.factory.Create(provider)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "llm.analyze", telemetry.SpanAttributes{
		Provider:  client.Provider(),
		Filename:  filename,
		Operation: "analyze_document",
	})
	defer span.End()

	var payload map[string]any
	if analyzer, ok := client.(llm.DocumentAnalyzer); ok {
		s.logger.Info("analyzing document natively",
			zap.String("provider", client.Provider()),
			zap.String("filename", filename),
			zap.Int("size_bytes", len(data)))
		payload, err = analyzer.AnalyzeDocument(ctx, data, filename)
	} else {
		var docContext string
		docContext, err = s.buildDocumentContext(data, filename)
		if err != nil {
			return nil, err
		}
		s.logger.Info("analyzing document from text",
			zap.String("provider", client.Provider()),
			zap.String("filename", filename),
			zap.Int("context_chars", len(docContext)))
		payload, err = client.AnalyzeText(ctx, docContext)
	}
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	payload = sanitizeAnalysisPayload(payload)
	if err := validateAnalysisPayload(payload); err != nil {
		return nil, err
	}

	var result domain.AnalysisResult
	if err := decodePayload(payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// buildDocumentContext extracts the text and assembles what the model will
// read: the whole document when it is short, category fragments otherwise.
func (s *AnalyzerService) buildDocumentContext(data []byte, filename string) (string, error) {
	fullText, err := s.extractor.ExtractText(data)
	if err != nil {
		return "", err
	}

	if utf8.RuneCountInString(strings.TrimSpace(fullText)) < minViableTextLen {
		return "", domain.ErrInsufficientText
	}

	if utf8.RuneCountInString(fullText) < fullTextThreshold {
		return fmt.Sprintf("DOCUMENTO COMPLETO DEL TDR:\n\n%s\n\n===== FIN DEL DOCUMENTO =====", fullText), nil
	}

	chunks, err := retrieval.Chunk(fullText, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeInternal, "fragment retrieval failed", err)
	}

	fragments := retrieval.Select(chunks, s.cfg.TopKChunks)
	s.logger.Debug("selected fragments",
		zap.String("filename", filename),
		zap.Int("chunks", len(chunks)),
		zap.Int("fragments", fragments.Total()))

	return retrieval.BuildContext(fragments), nil
}

// CompatibilityRequest is the input to a profile-versus-analysis evaluation.
type CompatibilityRequest struct {
	CompanyCopy     string
	Analysis        map[string]any
	ContractContext map[string]any
	Keywords        []string
	Provider        string
}

// EvaluateCompatibility scores a subscriber profile against an existing
// analysis and returns the sanitized, validated verdict.
func (s *AnalyzerService) EvaluateCompatibility(ctx context.Context, req CompatibilityRequest) (*domain.CompatibilityResult, error) {
	if strings.TrimSpace(req.CompanyCopy) == "" {
		return nil, domain.ErrEmptyProfile
	}

	client, err := s.factory.Create(req.Provider)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "llm.compatibility", telemetry.SpanAttributes{
		Provider:  client.Provider(),
		Operation: "evaluate_compatibility",
	})
	defer span.End()

	payload, err := client.EvaluateCompatibility(ctx, llm.CompatibilityInput{
		CompanyCopy:     req.CompanyCopy,
		Analysis:        req.Analysis,
		ContractContext: req.ContractContext,
		Keywords:        req.Keywords,
	})
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	payload = sanitizeCompatibilityPayload(payload)
	if err := validateCompatibilityPayload(payload); err != nil {
		return nil, err
	}

	var result domain.CompatibilityResult
	if err := decodePayload(payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// decodePayload round-trips a validated map into its typed result.
func decodePayload(payload map[string]any, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeInternal, "failed to encode model payload", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "model response does not match the result shape", err)
	}
	return nil
}
