// Package analyzer asks an external text model for a semantic reading of a
// lead conversation and validates the answer.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/domain"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/logger"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/resilience"
)

const defaultTimeout = 15 * time.Second

var (
	// ErrUnavailable is returned when the backend could not produce an answer.
	ErrUnavailable = errors.New("semantic analyzer unavailable")
	// ErrEmptyText is returned for blank input. No backend call is made.
	ErrEmptyText = errors.New("no text to analyze")
	// ErrMalformedResponse is returned when the backend answer fails validation.
	ErrMalformedResponse = errors.New("malformed analyzer response")
)

// Completer sends a system and user prompt to a text model and returns the raw reply.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Options configures the analyzer service.
type Options struct {
	Provider         string
	Timeout          time.Duration
	RegionalLanguage string
	Breaker          resilience.BreakerConfig
}

// Service runs semantic analysis through a Completer guarded by a timeout and a circuit breaker.
type Service struct {
	completer Completer
	breaker   *resilience.Breaker
	log       *logger.Logger
	provider  string
	timeout   time.Duration
	system    string
}

// New creates an analyzer service.
func New(completer Completer, log *logger.Logger, opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Breaker.Name == "" {
		opts.Breaker.Name = "analyzer"
	}
	if opts.Provider == "" {
		opts.Provider = "unknown"
	}

	return &Service{
		completer: completer,
		breaker:   resilience.NewBreaker(opts.Breaker, log),
		log:       log,
		provider:  opts.Provider,
		timeout:   opts.Timeout,
		system:    SystemPrompt(opts.RegionalLanguage),
	}
}

// Analyze returns a validated analysis of text.
func (s *Service) Analyze(ctx context.Context, text string) (*domain.SemanticAnalysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user := UserPrompt(text)
	start := time.Now()
	raw, err := resilience.Call(s.breaker, func() (string, error) {
		return s.completer.Complete(callCtx, s.system, user)
	})
	s.log.AnalyzerCall(s.provider, float64(time.Since(start).Microseconds())/1000, err)
	if err != nil {
		if resilience.IsOpen(err) {
			return nil, fmt.Errorf("%w: circuit %s", ErrUnavailable, s.breaker.State())
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	analysis, err := ParseResponse(raw)
	if err != nil {
		s.log.Warn("analyzer response rejected", "provider", s.provider, "error", err)
		return nil, err
	}
	return analysis, nil
}

// Disabled is used when no backend is configured.
type Disabled struct{}

// Analyze always reports the analyzer as unavailable.
func (Disabled) Analyze(context.Context, string) (*domain.SemanticAnalysis, error) {
	return nil, fmt.Errorf("%w: no provider configured", ErrUnavailable)
}
