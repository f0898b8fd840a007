package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/licitia/tdranalyzer/internal/domain"
)

// GeminiClient adapts the Google Gemini API. It is the only adapter with
// native document understanding: PDFs can be sent inline without a text
// extraction pass.
type GeminiClient struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func NewGeminiClient(apiKey, model string, logger *zap.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, domain.NewDomainError(domain.ErrCodeConfiguration, "TDR_GEMINI_API_KEY not configured")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeConfiguration, "failed to create gemini client", err)
	}

	return &GeminiClient{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (c *GeminiClient) Provider() string { return "gemini" }

func (c *GeminiClient) generationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:       genai.Ptr[float32](samplingTemperature),
		TopP:              genai.Ptr[float32](0.95),
		TopK:              genai.Ptr[float32](40),
		MaxOutputTokens:   8192,
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}
}

func (c *GeminiClient) generate(ctx context.Context, contents []*genai.Content) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, c.generationConfig())
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeProvider, "gemini request failed", err)
	}

	text := extractGeminiText(resp)
	if strings.TrimSpace(text) == "" {
		return "", domain.NewDomainError(domain.ErrCodeProvider, "gemini returned an empty response")
	}

	return text, nil
}

// extractGeminiText joins the text parts of the first candidate.
func extractGeminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
		break
	}
	return sb.String()
}

func (c *GeminiClient) AnalyzeText(ctx context.Context, docContext string) (map[string]any, error) {
	c.logger.Info("analyzing TDR with gemini", zap.String("model", c.model), zap.Int("context_chars", len(docContext)))

	text, err := c.generate(ctx, []*genai.Content{
		genai.NewContentFromText(buildAnalysisPrompt(docContext), genai.RoleUser),
	})
	if err != nil {
		return nil, err
	}

	result, err := ParseModelJSON(text)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "gemini response could not be parsed", err)
	}
	return result, nil
}

// AnalyzeDocument sends the PDF bytes inline, bypassing text extraction.
func (c *GeminiClient) AnalyzeDocument(ctx context.Context, data []byte, filename string) (map[string]any, error) {
	c.logger.Info("analyzing PDF natively with gemini",
		zap.String("model", c.model),
		zap.String("filename", filename),
		zap.Int("bytes", len(data)))

	content := genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromText(documentPrompt),
		genai.NewPartFromBytes(data, "application/pdf"),
	}, genai.RoleUser)

	text, err := c.generate(ctx, []*genai.Content{content})
	if err != nil {
		return nil, err
	}

	result, err := ParseModelJSON(text)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation,
			fmt.Sprintf("gemini response for %s could not be parsed", filename), err)
	}
	return result, nil
}

func (c *GeminiClient) EvaluateCompatibility(ctx context.Context, input CompatibilityInput) (map[string]any, error) {
	prompt, err := buildCompatibilityPrompt(input)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "failed to build compatibility prompt", err)
	}

	text, err := c.generate(ctx, []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	})
	if err != nil {
		return nil, err
	}

	result, err := ParseModelJSON(text)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "gemini compatibility response could not be parsed", err)
	}
	return result, nil
}
