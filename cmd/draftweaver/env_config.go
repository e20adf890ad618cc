package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alnah/go-draftweaver/internal/config"
)

// Environment variable names.
const (
	envConfigPath = "DRAFTWEAVER_CONFIG"
	envTimeout    = "DRAFTWEAVER_TIMEOUT"
	envNsec       = "DRAFTWEAVER_NSEC"
	envPassphrase = "DRAFTWEAVER_PASSPHRASE"
	envRelays     = "DRAFTWEAVER_RELAYS"
)

// envConfig holds configuration from environment variables.
// Provides CI-friendly overrides and secrets that never belong in a file.
type envConfig struct {
	ConfigPath string        // DRAFTWEAVER_CONFIG: config file name or path
	Timeout    time.Duration // DRAFTWEAVER_TIMEOUT: publish timeout
	Nsec       string        // DRAFTWEAVER_NSEC: signing key, nsec or hex
	Passphrase string        // DRAFTWEAVER_PASSPHRASE: key file passphrase
	Relays     []string      // DRAFTWEAVER_RELAYS: comma separated relay URLs
}

// knownEnvVars lists valid DRAFTWEAVER_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	envConfigPath: true,
	envTimeout:    true,
	envNsec:       true,
	envPassphrase: true,
	envRelays:     true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed values are ignored, not reported.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: strings.TrimSpace(getenv(envConfigPath)),
		Nsec:       strings.TrimSpace(getenv(envNsec)),
		Passphrase: getenv(envPassphrase),
	}

	if timeout := getenv(envTimeout); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	for _, u := range strings.Split(getenv(envRelays), ",") {
		if u = strings.TrimSpace(u); u != "" {
			cfg.Relays = append(cfg.Relays, u)
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized DRAFTWEAVER_* variables.
// Helps catch typos like DRAFTWEAVER_RELAY instead of DRAFTWEAVER_RELAYS.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, env := range environ {
		if strings.HasPrefix(env, "DRAFTWEAVER_") {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values on top of the config
// file. Flags are applied later by each command, giving:
// CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Timeout > 0 {
		cfg.Publish.Timeout = env.Timeout
	}
	if len(env.Relays) > 0 {
		cfg.Relays = make([]config.RelayConfig, len(env.Relays))
		for i, u := range env.Relays {
			cfg.Relays[i] = config.RelayConfig{URL: u, Read: true, Write: true}
		}
	}
}
