package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// WS_URL points at a running gateway, e.g. ws://localhost:8080/ws.
	// The suite is skipped when unset.
	WsURL string `envconfig:"WS_URL"`
	// E2E_DEBUG_JSON dumps every envelope in both directions
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
