package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/crossplane/function-kubecore-kind-registry/pkg/registry"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "controller", cfg.DefaultModule)
	assert.Equal(t, DefaultContextKey, cfg.ContextKey)
	assert.Equal(t, registry.TemplateDeepCopy, cfg.DefaultTemplate)
	assert.Equal(t, 5, cfg.CRDConcurrency)
	assert.Equal(t, 5*time.Minute, cfg.CRDCacheTTL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestNewFromEnvironment(t *testing.T) {
	t.Setenv("DEFAULT_MODULE", "example.com/operator")
	t.Setenv("CONTEXT_KEY", "custom.key")
	t.Setenv("DEFAULT_TEMPLATE", "both")
	t.Setenv("CRD_LOAD_CONCURRENCY", "2")
	t.Setenv("CRD_CACHE_TTL", "30s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := New()

	assert.Equal(t, "example.com/operator", cfg.DefaultModule)
	assert.Equal(t, "custom.key", cfg.ContextKey)
	assert.Equal(t, registry.TemplateBoth, cfg.DefaultTemplate)
	assert.Equal(t, 2, cfg.CRDConcurrency)
	assert.Equal(t, 30*time.Second, cfg.CRDCacheTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestNewInvalidValues(t *testing.T) {
	t.Setenv("DEFAULT_TEMPLATE", "Everything")
	t.Setenv("CRD_LOAD_CONCURRENCY", "-3")
	t.Setenv("CRD_CACHE_TTL", "soon")

	cfg := New()

	// Should fall back to defaults for invalid values
	assert.Equal(t, registry.TemplateDeepCopy, cfg.DefaultTemplate)
	assert.Equal(t, 5, cfg.CRDConcurrency)
	assert.Equal(t, 5*time.Minute, cfg.CRDCacheTTL)
}
