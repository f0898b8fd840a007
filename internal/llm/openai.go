package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/licitia/tdranalyzer/internal/domain"
)

// completionAPI is the slice of the OpenAI SDK the adapter uses; tests
// substitute it.
type completionAPI interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClient adapts the OpenAI chat completions API with JSON output mode.
type OpenAIClient struct {
	api    completionAPI
	model  string
	logger *zap.Logger
}

func NewOpenAIClient(apiKey, model string, logger *zap.Logger) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, domain.NewDomainError(domain.ErrCodeConfiguration, "TDR_OPENAI_API_KEY not configured")
	}

	return &OpenAIClient{
		api:    openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}, nil
}

func (c *OpenAIClient) Provider() string { return "openai" }

func (c *OpenAIClient) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: samplingTemperature,
		MaxTokens:   maxAnalysisTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeProvider, "openai request failed", err)
	}

	if len(resp.Choices) == 0 {
		return "", domain.NewDomainError(domain.ErrCodeProvider, "openai returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) AnalyzeText(ctx context.Context, docContext string) (map[string]any, error) {
	c.logger.Info("analyzing TDR with openai", zap.String("model", c.model), zap.Int("context_chars", len(docContext)))

	text, err := c.complete(ctx, buildAnalysisPrompt(docContext))
	if err != nil {
		return nil, err
	}

	result, err := ParseModelJSON(text)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "openai response could not be parsed", err)
	}
	return result, nil
}

func (c *OpenAIClient) EvaluateCompatibility(ctx context.Context, input CompatibilityInput) (map[string]any, error) {
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
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "openai compatibility response could not be parsed", err)
	}
	return result, nil
}
