package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigPrefersEnvironment(t *testing.T) {
	t.Setenv("OPENAI_MODEL", "gpt-test")
	assert.Equal(t, "gpt-test", GetConfig("OPENAI_MODEL"))
}

func TestGetConfigFallsBackToDefault(t *testing.T) {
	t.Setenv("CACHE_MAX_ITEMS", "")
	assert.Equal(t, 1000, GetConfigInt("CACHE_MAX_ITEMS"))
	assert.InDelta(t, 0.7, GetConfigFloat("OPENAI_TEMPERATURE"), 1e-9)
}

func TestGetConfigIntIgnoresGarbage(t *testing.T) {
	t.Setenv("CACHE_TTL", "soon")
	assert.Equal(t, 300, GetConfigInt("CACHE_TTL"))
}

func TestGetConfigList(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, GetConfigList("ALLOWED_ORIGINS"))
	assert.Empty(t, GetConfigList("UNKNOWN_KEY"))
}
