package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/licitia/tdranalyzer/internal/domain"
)

// AnthropicClient adapts the Anthropic messages API.
type AnthropicClient struct {
	client anthropic.Client
	model  string
	logger *zap.Logger
}

func NewAnthropicClient(apiKey, model string, logger *zap.Logger) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, domain.NewDomainError(domain.ErrCodeConfiguration, "TDR_ANTHROPIC_API_KEY not configured")
	}

	return &AnthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		logger: logger,
	}, nil
}

func (c *AnthropicClient) Provider() string { return "anthropic" }

func (c *AnthropicClient) complete(ctx context.Context, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   maxAnalysisTokens,
		Temperature: anthropic.Float(samplingTemperature),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeProvider, "anthropic request failed", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	if strings.TrimSpace(sb.String()) == "" {
		return "", domain.NewDomainError(domain.ErrCodeProvider, "anthropic returned an empty response")
	}

	return sb.String(), nil
}

func (c *AnthropicClient) AnalyzeText(ctx context.Context, docContext string) (map[string]any, error) {
	c.logger.Info("analyzing TDR with anthropic", zap.String("model", c.model), zap.Int("context_chars", len(docContext)))

	text, err := c.complete(ctx, buildAnalysisPrompt(docContext))
	if err != nil {
		return nil, err
	}

	result, err := ParseModelJSON(text)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "anthropic response could not be parsed", err)
	}
	return result, nil
}

func (c *AnthropicClient) EvaluateCompatibility(ctx context.Context, input CompatibilityInput) (map[string]any, error) {
	prompt, err := buildCompatibilityPrompt(input)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "failed to build compatibility prompt", err)
	}

	text, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	result, err := ParseModelJSON(text)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "anthropic compatibility response could not be parsed", err)
	}
	return result, nil
}
