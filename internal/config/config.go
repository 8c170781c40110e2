// Package config loads typed configuration for the jobrank pipeline from
// environment variables using flat getEnv/getEnvAsInt-style helpers,
// organized around the ranking engine's concerns.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the pipeline.
type Config struct {
	Store         StoreConfig
	Portal        PortalConfig
	Matcher       MatcherConfig
	Filter        FilterConfig
	Pipeline      PipelineConfig
	LLM           LLMConfig
	Artifact      ArtifactConfig
	Notify        NotifyConfig
	Observability ObservabilityConfig
	Log           LogConfig
}

// StoreConfig configures the single-file relational store.
type StoreConfig struct {
	Path           string
	MigrationsPath string
}

// PortalConfig configures the browser-driven co-op portal session.
type PortalConfig struct {
	BaseURL         string
	Username        string
	Password        string
	DetailTimeout   time.Duration
	ElementWait     time.Duration
	SessionCachePath string
	DefaultFolder   string
}

// MatcherConfig configures the hybrid matcher.
type MatcherConfig struct {
	SimilarityThreshold float64
	TopK                int
	Weights             Weights
	EmbeddingModelID    string
	TechLexiconPath     string
	NoiseSkipPhrasesPath string
	ResumeSourcePath    string
	IndexManifestPath   string
}

// Weights holds the fit-score weight vector; the four components must
// sum to 1.0.
type Weights struct {
	KeywordMatch       float64
	SemanticCoverage   float64
	SemanticStrength   float64
	SeniorityAlignment float64
}

// FilterConfig configures the post-score filter predicates.
type FilterConfig struct {
	MinMatchScore      float64
	AutoSaveThreshold  float64
	PreferredLocations []string
	KeywordsToMatch    []string
	CompaniesToAvoid   []string
}

// PipelineConfig configures orchestration.
type PipelineConfig struct {
	CheckpointEvery int
	PortalFolder    string
	OutputPath      string
	// MaxItems caps how many enumerated jobs a single run processes.
	// Zero means unlimited.
	MaxItems int
}

// LLMConfig configures the cover-letter / compensation LLM collaborator.
type LLMConfig struct {
	APIKey      string
	Model       string
	TokenBudget int
}

// ArtifactConfig configures the optional S3-compatible artifact mirror.
type ArtifactConfig struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// NotifyConfig configures the optional end-of-run email summary.
type NotifyConfig struct {
	APIKey    string
	FromAddr  string
	ToAddr    string
}

// ObservabilityConfig configures crash reporting.
type ObservabilityConfig struct {
	SentryDSN string
	Env       string
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Store: StoreConfig{
			Path:           getEnv("STORE_PATH", "./jobrank.db"),
			MigrationsPath: getEnv("STORE_MIGRATIONS_PATH", "./migrations"),
		},
		Portal: PortalConfig{
			BaseURL:          getEnv("PORTAL_BASE_URL", ""),
			Username:         getEnv("PORTAL_USERNAME", ""),
			Password:         getEnv("PORTAL_PASSWORD", ""),
			DetailTimeout:    getEnvAsDuration("PORTAL_DETAIL_TIMEOUT", 30*time.Second),
			ElementWait:      getEnvAsDuration("PORTAL_ELEMENT_WAIT", 10*time.Second),
			SessionCachePath: getEnv("PORTAL_SESSION_CACHE_PATH", "./portal_session.json"),
			DefaultFolder:    getEnv("PORTAL_FOLDER", "top"),
		},
		Matcher: MatcherConfig{
			SimilarityThreshold: getEnvAsFloat("SIMILARITY_THRESHOLD", 0.30),
			TopK:                getEnvAsInt("TOP_K", 8),
			Weights: Weights{
				KeywordMatch:       getEnvAsFloat("WEIGHT_KEYWORD_MATCH", 0.35),
				SemanticCoverage:   getEnvAsFloat("WEIGHT_SEMANTIC_COVERAGE", 0.40),
				SemanticStrength:   getEnvAsFloat("WEIGHT_SEMANTIC_STRENGTH", 0.10),
				SeniorityAlignment: getEnvAsFloat("WEIGHT_SENIORITY_ALIGNMENT", 0.15),
			},
			EmbeddingModelID:     getEnv("EMBEDDING_MODEL_ID", "jobrank-hash-embed-v1"),
			TechLexiconPath:      getEnv("TECH_LEXICON_PATH", "./configs/tech_lexicon.yaml"),
			NoiseSkipPhrasesPath: getEnv("NOISE_SKIP_PHRASES_PATH", "./configs/noise_skip_phrases.yaml"),
			ResumeSourcePath:     getEnv("RESUME_SOURCE_PATH", "./resume.pdf"),
			IndexManifestPath:    getEnv("INDEX_MANIFEST_PATH", "./resume_index.json"),
		},
		Filter: FilterConfig{
			MinMatchScore:      getEnvAsFloat("MIN_MATCH_SCORE", 60),
			AutoSaveThreshold:  getEnvAsFloat("AUTO_SAVE_THRESHOLD", 75),
			PreferredLocations: getEnvAsList("PREFERRED_LOCATIONS"),
			KeywordsToMatch:    getEnvAsList("KEYWORDS_TO_MATCH"),
			CompaniesToAvoid:   getEnvAsList("COMPANIES_TO_AVOID"),
		},
		Pipeline: PipelineConfig{
			CheckpointEvery: getEnvAsInt("SCRAPE_CHECKPOINT_EVERY", 5),
			PortalFolder:    getEnv("PORTAL_FOLDER", "top"),
			OutputPath:      getEnv("PIPELINE_OUTPUT_PATH", "./matches.json"),
			MaxItems:        getEnvAsInt("PIPELINE_MAX_ITEMS", 0),
		},
		LLM: LLMConfig{
			APIKey:      getEnv("ANTHROPIC_API_KEY", ""),
			Model:       getEnv("LLM_MODEL", "claude-sonnet-4-5"),
			TokenBudget: getEnvAsInt("LLM_TOKEN_BUDGET", 1024),
		},
		Artifact: ArtifactConfig{
			Endpoint:  getEnv("ARTIFACT_S3_ENDPOINT", ""),
			Bucket:    getEnv("ARTIFACT_S3_BUCKET", ""),
			Region:    getEnv("ARTIFACT_S3_REGION", "us-east-1"),
			AccessKey: getEnv("ARTIFACT_S3_ACCESS_KEY", ""),
			SecretKey: getEnv("ARTIFACT_S3_SECRET_KEY", ""),
		},
		Notify: NotifyConfig{
			APIKey:   getEnv("RESEND_API_KEY", ""),
			FromAddr: getEnv("NOTIFY_FROM_ADDR", ""),
			ToAddr:   getEnv("NOTIFY_TO_ADDR", ""),
		},
		Observability: ObservabilityConfig{
			SentryDSN: getEnv("SENTRY_DSN", ""),
			Env:       getEnv("APP_ENV", "development"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Matcher.Weights.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (w Weights) validate() error {
	sum := w.KeywordMatch + w.SemanticCoverage + w.SemanticStrength + w.SeniorityAlignment
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("matcher weights must sum to 1.0, got %.4f", sum)
	}
	return nil
}

// Helper functions, teacher's idiom.

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
