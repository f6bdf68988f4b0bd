package analyzer

import (
	"context"
	"fmt"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/domain"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/ai/gemini"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/ai/moonshot"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/ai/openai"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/config"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/logger"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/resilience"
)

const completionTemperature = 0.1

// Analyzer is what the scoring engine consumes.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*domain.SemanticAnalysis, error)
}

var (
	_ Analyzer = (*Service)(nil)
	_ Analyzer = Disabled{}
)

// NewCompleter builds the backend named by AI_PROVIDER.
func NewCompleter(ctx context.Context, cfg config.AnalyzerConfig) (Completer, error) {
	switch cfg.GetAIProvider() {
	case config.ProviderGemini:
		completer, err := gemini.NewCompleter(ctx, gemini.Config{
			APIKey:      cfg.GetAIAPIKey(),
			Model:       cfg.GetAIModel(),
			Temperature: completionTemperature,
		})
		if err != nil {
			return nil, err
		}
		return completer, nil
	case config.ProviderMoonshot:
		return moonshot.NewModel(moonshot.Config{
			APIKey:      cfg.GetAIAPIKey(),
			BaseURL:     cfg.GetAIBaseURL(),
			Model:       cfg.GetAIModel(),
			Temperature: completionTemperature,
		}), nil
	case config.ProviderOpenAI:
		completer, err := openai.NewCompleter(openai.Config{
			APIKey:      cfg.GetAIAPIKey(),
			BaseURL:     cfg.GetAIBaseURL(),
			Model:       cfg.GetAIModel(),
			Temperature: completionTemperature,
		})
		if err != nil {
			return nil, err
		}
		return completer, nil
	default:
		return nil, fmt.Errorf("unknown analyzer provider %q", cfg.GetAIProvider())
	}
}

// FromConfig returns a ready analyzer, or Disabled when no API key is configured.
func FromConfig(ctx context.Context, cfg config.AnalyzerConfig, log *logger.Logger) (Analyzer, error) {
	if !cfg.IsAnalyzerEnabled() {
		log.Info("semantic analyzer disabled; scores will be rule-based only")
		return Disabled{}, nil
	}

	completer, err := NewCompleter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	log.Info("semantic analyzer enabled", "provider", cfg.GetAIProvider())
	return New(completer, log, Options{
		Provider:         cfg.GetAIProvider(),
		Timeout:          cfg.GetAITimeout(),
		RegionalLanguage: cfg.GetAIRegionalLanguage(),
		Breaker: resilience.BreakerConfig{
			Name:        "analyzer-" + cfg.GetAIProvider(),
			MaxFailures: cfg.GetAIBreakerFailures(),
			OpenTimeout: cfg.GetAIBreakerCooldown(),
		},
	}), nil
}
