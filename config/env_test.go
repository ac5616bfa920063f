package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEnvironment(t *testing.T) {
	tests := map[string]Environment{
		"production": Production,
		" PROD ":     Production,
		"test":       Test,
		"ci":         CI,
		"":           Development,
		"staging":    Development,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseEnvironment(in), in)
	}
}

func TestDetectEnvironmentPrefersCI(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CI", "true")
	assert.Equal(t, CI, DetectEnvironment())

	t.Setenv("CI", "")
	assert.Equal(t, Production, DetectEnvironment())
}

func TestIsProduction(t *testing.T) {
	assert.True(t, Production.IsProduction())
	assert.False(t, Development.IsProduction())
	assert.False(t, CI.IsProduction())
}
