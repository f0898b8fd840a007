package llm

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/licitia/tdranalyzer/internal/config"
	"github.com/licitia/tdranalyzer/internal/domain"
)

// Factory builds provider clients from a requested provider name. Clients
// are stateless apart from their credentials, so the factory caches one
// instance per provider and hands it out to concurrent callers.
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger

	mu      sync.Mutex
	clients map[string]Client
}

func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:     cfg,
		logger:  logger,
		clients: make(map[string]Client),
	}
}

// Create returns the client for the named provider, or for the configured
// default when name is empty. It fails with a configuration error naming
// the missing credential, or an unsupported-provider error for unknown
// names.
func (f *Factory) Create(provider string) (Client, error) {
	if provider == "" {
		provider = f.cfg.DefaultProvider
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if client, ok := f.clients[provider]; ok {
		return client, nil
	}

	var (
		client Client
		err    error
	)
	switch provider {
	case config.ProviderGemini:
		client, err = NewGeminiClient(f.cfg.GeminiAPIKey, f.cfg.GeminiModel, f.logger)
	case config.ProviderOpenAI:
		client, err = NewOpenAIClient(f.cfg.OpenAIAPIKey, f.cfg.OpenAIModel, f.logger)
	case config.ProviderAnthropic:
		client, err = NewAnthropicClient(f.cfg.AnthropicAPIKey, f.cfg.AnthropicModel, f.logger)
	default:
		return nil, domain.NewDomainError(domain.ErrCodeConfiguration, fmt.Sprintf("unsupported llm provider: %s", provider))
	}
	if err != nil {
		return nil, err
	}

	f.logger.Info("created llm client", zap.String("provider", provider))
	f.clients[provider] = client
	return client, nil
}
