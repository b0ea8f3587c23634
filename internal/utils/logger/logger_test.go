package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"api_key", "sk-123",
		"access_token", "abc",
		"user_id", "u1",
		"email", "cook@example.com",
	})

	assert.Equal(t, "api_key", out[0])
	assert.Equal(t, "[REDACTED]", out[1])
	assert.Equal(t, "[REDACTED]", out[3])
	assert.Equal(t, "u1", out[5])
	assert.Contains(t, out[7], "hash:")
	assert.NotContains(t, out[7], "example.com")
}

func TestSanitizeKVsKeepsDanglingKey(t *testing.T) {
	out := sanitizeKVs([]interface{}{"recipe_id", "r1", "orphan"})
	assert.Equal(t, []interface{}{"recipe_id", "r1", "orphan"}, out)
}

func TestSanitizeValueRedactsJWTShapedStrings(t *testing.T) {
	jwt := "eyJhbGciOiJIUzI1NiJ9.eyJ1c2VyX2lkIjoiMSJ9.signature"
	assert.Equal(t, "[REDACTED]", sanitizeValue("note", jwt))
}

func TestNopLoggerDoesNotPanic(t *testing.T) {
	l := NewNop().With("service", "test")
	assert.NotPanics(t, func() {
		l.Info("hello", "k", "v")
		l.Error("boom", "error", "x")
	})
}
