// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Analyzer providers accepted in AI_PROVIDER.
const (
	ProviderGemini   = "gemini"
	ProviderMoonshot = "moonshot"
	ProviderOpenAI   = "openai"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
	GetDatabaseMaxConns() int32
}

// MigrationConfig provides the location of the SQL migrations.
type MigrationConfig interface {
	GetDatabaseURL() string
	GetMigrationsDir() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// SchedulerConfig provides settings for the asynq client and worker.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// AnalyzerConfig provides settings for the semantic analyzer backend.
type AnalyzerConfig interface {
	GetAIProvider() string
	GetAIAPIKey() string
	GetAIModel() string
	GetAIBaseURL() string
	GetAITimeout() time.Duration
	GetAIRegionalLanguage() string
	GetAIBreakerFailures() int
	GetAIBreakerCooldown() time.Duration
	IsAnalyzerEnabled() bool
}

// ScoringConfig provides settings for single-lead and batch scoring.
type ScoringConfig interface {
	GetRescoreInterval() time.Duration
	GetScoreTimeout() time.Duration
	GetRescoreCron() string
	GetRescoreStatuses() []string
	GetAIRegionalLanguage() string
}

// Config holds every setting read from the environment.
type Config struct {
	Env               string
	HTTPAddr          string
	DatabaseURL       string
	DatabaseMaxConns  int32
	MigrationsDir     string
	JWTAccessSecret   string
	CORSAllowAll      bool
	CORSOrigins       []string
	CORSAllowCreds    bool
	RedisURL          string
	RedisTLSInsecure  bool
	AsynqQueue        string
	AsynqConcurrency  int
	AIProvider        string
	AIAPIKey          string
	AIModel           string
	AIBaseURL         string
	AITimeout         time.Duration
	AIRegionalLang    string
	AIBreakerFailures int
	AIBreakerCooldown time.Duration
	RescoreInterval   time.Duration
	ScoreTimeout      time.Duration
	RescoreCron       string
	RescoreStatuses   []string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string     { return c.DatabaseURL }
func (c *Config) GetDatabaseMaxConns() int32 { return c.DatabaseMaxConns }
func (c *Config) GetMigrationsDir() string   { return c.MigrationsDir }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueue }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }
func (c *Config) IsSchedulerEnabled() bool  { return c.RedisURL != "" }

// AnalyzerConfig implementation
func (c *Config) GetAIProvider() string               { return c.AIProvider }
func (c *Config) GetAIAPIKey() string                 { return c.AIAPIKey }
func (c *Config) GetAIModel() string                  { return c.AIModel }
func (c *Config) GetAIBaseURL() string                { return c.AIBaseURL }
func (c *Config) GetAITimeout() time.Duration         { return c.AITimeout }
func (c *Config) GetAIRegionalLanguage() string       { return c.AIRegionalLang }
func (c *Config) GetAIBreakerFailures() int           { return c.AIBreakerFailures }
func (c *Config) GetAIBreakerCooldown() time.Duration { return c.AIBreakerCooldown }
func (c *Config) IsAnalyzerEnabled() bool             { return c.AIAPIKey != "" }

// ScoringConfig implementation
func (c *Config) GetRescoreInterval() time.Duration { return c.RescoreInterval }
func (c *Config) GetScoreTimeout() time.Duration    { return c.ScoreTimeout }
func (c *Config) GetRescoreCron() string            { return c.RescoreCron }
func (c *Config) GetRescoreStatuses() []string      { return c.RescoreStatuses }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	env := &envParser{}
	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		DatabaseMaxConns:  int32(env.integer("DB_MAX_CONNS", "10")),
		MigrationsDir:     getEnv("MIGRATIONS_DIR", "migrations"),
		JWTAccessSecret:   getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:      corsAllowAll,
		CORSOrigins:       corsOrigins,
		CORSAllowCreds:    strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RedisURL:          getEnv("REDIS_URL", ""),
		RedisTLSInsecure:  strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueue:        getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:  int(env.integer("ASYNQ_CONCURRENCY", "5")),
		AIProvider:        strings.ToLower(strings.TrimSpace(getEnv("AI_PROVIDER", ProviderGemini))),
		AIAPIKey:          getEnv("AI_API_KEY", ""),
		AIModel:           getEnv("AI_MODEL", ""),
		AIBaseURL:         getEnv("AI_BASE_URL", ""),
		AITimeout:         env.duration("AI_TIMEOUT", "15s"),
		AIRegionalLang:    strings.ToLower(getEnv("AI_REGIONAL_LANGUAGE", "ml")),
		AIBreakerFailures: int(env.integer("AI_BREAKER_FAILURES", "5")),
		AIBreakerCooldown: env.duration("AI_BREAKER_COOLDOWN", "30s"),
		RescoreInterval:   env.duration("RESCORE_INTERVAL", "500ms"),
		ScoreTimeout:      env.duration("SCORE_TIMEOUT", "20s"),
		RescoreCron:       getEnv("RESCORE_CRON", "@every 6h"),
		RescoreStatuses:   splitCSV(getEnv("RESCORE_STATUSES", "")),
	}

	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	switch cfg.AIProvider {
	case ProviderGemini, ProviderMoonshot, ProviderOpenAI:
	default:
		return nil, fmt.Errorf("AI_PROVIDER must be one of gemini, moonshot, openai (got %q)", cfg.AIProvider)
	}
	if cfg.DatabaseMaxConns <= 0 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.AsynqConcurrency <= 0 {
		return nil, fmt.Errorf("ASYNQ_CONCURRENCY must be positive")
	}

	return cfg, nil
}

// RequireJWT reports an error when the HTTP API cannot verify tokens.
func (c *Config) RequireJWT() error {
	if c.JWTAccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

// envParser reads numeric settings and collects every malformed or negative
// value so Load can report them together.
type envParser struct {
	errs []error
}

func (p *envParser) duration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s must be a duration such as 500ms or 30s (got %q)", key, raw))
		return 0
	}
	if d < 0 {
		p.errs = append(p.errs, fmt.Errorf("%s must not be negative (got %s)", key, raw))
		return 0
	}
	return d
}

func (p *envParser) integer(key, fallback string) int64 {
	raw := getEnv(key, fallback)
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s must be an integer (got %q)", key, raw))
		return 0
	}
	if n < 0 {
		p.errs = append(p.errs, fmt.Errorf("%s must not be negative (got %d)", key, n))
		return 0
	}
	return n
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
