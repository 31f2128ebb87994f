package config

import (
	"fmt"
	"os"
	"strconv"
)

// GraphConfig holds the default thresholds and caps for graph operations.
// Callers can still override any of these per build/merge call.
type GraphConfig struct {
	// MinImplicitSimilarity is the default threshold for inferred edges
	MinImplicitSimilarity float64
	// MaxImplicitRelationships caps inferred edges per build
	MaxImplicitRelationships int
	// MinCrossGraphSimilarity is the default threshold for cross-graph edges
	MinCrossGraphSimilarity float64
	// MaxCrossGraphRelationships caps cross-graph edges per merge
	MaxCrossGraphRelationships int
	// MinRelationshipStrength is the default copy filter for merges
	MinRelationshipStrength float64
	// MaxComparisons bounds pairwise similarity work; 0 disables the budget
	MaxComparisons int
}

// StoreConfig holds circuit breaker settings for the knowledge store
type StoreConfig struct {
	BreakerMaxRequests      uint32
	BreakerIntervalSeconds  int
	BreakerTimeoutSeconds   int
	BreakerFailureThreshold float64
	BreakerMinRequests      uint32
}

// Config holds all application configuration
type Config struct {
	Environment string
	LogLevel    string

	// Feature flags
	EnableMetrics bool
	EnableTracing bool

	// Dynamic limits file; empty disables the watcher
	LimitsFile string

	Graph GraphConfig
	Store StoreConfig
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		EnableMetrics: getEnvBool("ENABLE_METRICS", false),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),

		LimitsFile: getEnv("GRAPH_LIMITS_FILE", ""),

		Graph: GraphConfig{
			MinImplicitSimilarity:      getEnvFloat("GRAPH_MIN_IMPLICIT_SIMILARITY", 0.5),
			MaxImplicitRelationships:   getEnvInt("GRAPH_MAX_IMPLICIT_RELATIONSHIPS", 100),
			MinCrossGraphSimilarity:    getEnvFloat("GRAPH_MIN_CROSS_SIMILARITY", 0.6),
			MaxCrossGraphRelationships: getEnvInt("GRAPH_MAX_CROSS_RELATIONSHIPS", 50),
			MinRelationshipStrength:    getEnvFloat("GRAPH_MIN_RELATIONSHIP_STRENGTH", 0.0),
			MaxComparisons:             getEnvInt("GRAPH_MAX_COMPARISONS", 0),
		},

		Store: StoreConfig{
			BreakerMaxRequests:      getEnvUint32("STORE_BREAKER_MAX_REQUESTS", 5),
			BreakerIntervalSeconds:  getEnvInt("STORE_BREAKER_INTERVAL_SECONDS", 30),
			BreakerTimeoutSeconds:   getEnvInt("STORE_BREAKER_TIMEOUT_SECONDS", 60),
			BreakerFailureThreshold: getEnvFloat("STORE_BREAKER_FAILURE_THRESHOLD", 0.8),
			BreakerMinRequests:      getEnvUint32("STORE_BREAKER_MIN_REQUESTS", 5),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is coherent
func (c *Config) Validate() error {
	if c.Graph.MinImplicitSimilarity < 0 || c.Graph.MinImplicitSimilarity > 1 {
		return fmt.Errorf("GRAPH_MIN_IMPLICIT_SIMILARITY must be in [0,1]")
	}
	if c.Graph.MinCrossGraphSimilarity < 0 || c.Graph.MinCrossGraphSimilarity > 1 {
		return fmt.Errorf("GRAPH_MIN_CROSS_SIMILARITY must be in [0,1]")
	}
	if c.Graph.MinRelationshipStrength < 0 || c.Graph.MinRelationshipStrength > 1 {
		return fmt.Errorf("GRAPH_MIN_RELATIONSHIP_STRENGTH must be in [0,1]")
	}
	if c.Graph.MaxImplicitRelationships < 0 || c.Graph.MaxCrossGraphRelationships < 0 || c.Graph.MaxComparisons < 0 {
		return fmt.Errorf("graph caps must not be negative")
	}
	if c.Store.BreakerFailureThreshold <= 0 || c.Store.BreakerFailureThreshold > 1 {
		return fmt.Errorf("STORE_BREAKER_FAILURE_THRESHOLD must be in (0,1]")
	}
	if c.Store.BreakerIntervalSeconds < 0 || c.Store.BreakerTimeoutSeconds < 0 {
		return fmt.Errorf("breaker durations must not be negative")
	}
	return nil
}

// Helper functions for environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvUint32(key string, defaultValue uint32) uint32 {
	if value := os.Getenv(key); value != "" {
		// ParseUint rejects negative values instead of wrapping them
		if parsed, err := strconv.ParseUint(value, 10, 32); err == nil {
			return uint32(parsed)
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
