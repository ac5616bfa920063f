package config

import (
	"os"
	"strings"
)

// Environment names the deployment the process runs in. It selects config
// requirements and the logger flavour.
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// DetectEnvironment reads ENVIRONMENT, letting CI=true override it.
// Unknown names fall back to Development.
func DetectEnvironment() Environment {
	if strings.EqualFold(os.Getenv("CI"), "true") {
		return CI
	}
	return ParseEnvironment(os.Getenv("ENVIRONMENT"))
}

func ParseEnvironment(name string) Environment {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "production", "prod":
		return Production
	case "test":
		return Test
	case "ci":
		return CI
	default:
		return Development
	}
}

// IsProduction reports whether e requires production hardening: JSON logs,
// release-mode gin and no demo seeding.
func (e Environment) IsProduction() bool {
	return e == Production
}
