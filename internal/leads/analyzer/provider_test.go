package analyzer

import (
	"context"
	"testing"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/config"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/logger"
)

func TestFromConfigWithoutKeyIsDisabled(t *testing.T) {
	cfg := &config.Config{AIProvider: config.ProviderGemini}

	got, err := FromConfig(context.Background(), cfg, logger.New("test"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := got.(Disabled); !ok {
		t.Fatalf("expected Disabled analyzer, got %T", got)
	}
}

func TestFromConfigBuildsService(t *testing.T) {
	for _, provider := range []string{config.ProviderMoonshot, config.ProviderOpenAI} {
		cfg := &config.Config{AIProvider: provider, AIAPIKey: "key"}

		got, err := FromConfig(context.Background(), cfg, logger.New("test"))
		if err != nil {
			t.Fatalf("%s: expected no error, got %v", provider, err)
		}
		if _, ok := got.(*Service); !ok {
			t.Fatalf("%s: expected *Service, got %T", provider, got)
		}
	}
}

func TestNewCompleterUnknownProvider(t *testing.T) {
	if _, err := NewCompleter(context.Background(), &config.Config{AIProvider: "llama", AIAPIKey: "key"}); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}
