package config

import (
	"os"
	"strconv"
	"time"

	"github.com/crossplane/function-kubecore-kind-registry/pkg/registry"
)

// DefaultContextKey is the pipeline context key the generation plan is written to
const DefaultContextKey = "kubecore.kindRegistry.plan"

// Config holds configuration for the kind registry function
type Config struct {
	// DefaultModule is used when the function input leaves module empty
	DefaultModule string

	// ContextKey is used when the function input leaves contextKey empty
	ContextKey string

	// DefaultTemplate applies to custom resources without a template
	DefaultTemplate registry.Template

	// CRDConcurrency bounds parallel CRD manifest decoding
	CRDConcurrency int

	// CRDCacheTTL is how long decoded inline CRD manifests are reused
	CRDCacheTTL time.Duration

	// Logging settings
	LogLevel string
}

// New creates a new configuration with defaults
func New() *Config {
	return &Config{
		DefaultModule:   getEnv("DEFAULT_MODULE", "controller"),
		ContextKey:      getEnv("CONTEXT_KEY", DefaultContextKey),
		DefaultTemplate: getEnvTemplate("DEFAULT_TEMPLATE", registry.TemplateDeepCopy),
		CRDConcurrency:  getEnvInt("CRD_LOAD_CONCURRENCY", 5),
		CRDCacheTTL:     getEnvDuration("CRD_CACHE_TTL", 5*time.Minute),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvTemplate(key string, defaultValue registry.Template) registry.Template {
	if value := os.Getenv(key); value != "" {
		if t, ok := registry.ParseTemplate(value); ok {
			return t
		}
	}
	return defaultValue
}
