package analyzer

import (
	"fmt"
	"strings"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/domain"

	"github.com/goccy/go-json"
)

type rawAnalysis struct {
	IntentStrength        *float64 `json:"intentStrength"`
	Sentiment             *string  `json:"sentiment"`
	ConversionProbability *float64 `json:"conversionProbability"`
	Urgency               *string  `json:"urgency"`
	Reasoning             string   `json:"reasoning"`
	DetectedLanguages     []string `json:"detectedLanguages"`
	KeySignals            []string `json:"keySignals"`
}

// ParseResponse validates a raw completion into a SemanticAnalysis.
// Every failure wraps ErrMalformedResponse.
func ParseResponse(raw string) (*domain.SemanticAnalysis, error) {
	body := extractJSONObject(stripCodeFences(raw))
	if body == "" {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrMalformedResponse)
	}

	var parsed rawAnalysis
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	intentStrength, err := requiredScore("intentStrength", parsed.IntentStrength)
	if err != nil {
		return nil, err
	}
	conversion, err := requiredScore("conversionProbability", parsed.ConversionProbability)
	if err != nil {
		return nil, err
	}
	if parsed.Sentiment == nil {
		return nil, fmt.Errorf("%w: missing sentiment", ErrMalformedResponse)
	}
	sentiment := domain.Sentiment(normalizeLabel(*parsed.Sentiment))
	if !sentiment.Valid() {
		return nil, fmt.Errorf("%w: invalid sentiment %q", ErrMalformedResponse, *parsed.Sentiment)
	}
	if parsed.Urgency == nil {
		return nil, fmt.Errorf("%w: missing urgency", ErrMalformedResponse)
	}
	urgency := domain.Urgency(normalizeLabel(*parsed.Urgency))
	if !urgency.Valid() {
		return nil, fmt.Errorf("%w: invalid urgency %q", ErrMalformedResponse, *parsed.Urgency)
	}

	return &domain.SemanticAnalysis{
		IntentStrength:        intentStrength,
		Sentiment:             sentiment,
		ConversionProbability: conversion,
		Urgency:               urgency,
		Reasoning:             strings.TrimSpace(parsed.Reasoning),
		DetectedLanguages:     nonEmpty(parsed.DetectedLanguages),
		KeySignals:            nonEmpty(parsed.KeySignals),
	}, nil
}

func requiredScore(field string, value *float64) (float64, error) {
	if value == nil {
		return 0, fmt.Errorf("%w: missing %s", ErrMalformedResponse, field)
	}
	if *value < 0 || *value > 100 {
		return 0, fmt.Errorf("%w: %s out of range: %v", ErrMalformedResponse, field, *value)
	}
	return *value, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// extractJSONObject returns the outermost {...} span, or "" when there is none.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
