package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	draftweaver "github.com/alnah/go-draftweaver"
	"github.com/alnah/go-draftweaver/internal/assets"
	"github.com/alnah/go-draftweaver/internal/fileutil"
	"github.com/alnah/go-draftweaver/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigWrite     = errors.New("failed to write config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxURLLength       = 2048 // Browser limit
	MaxPathLength      = 4096 // PATH_MAX on Linux
	MaxUserAgentLength = 200
	MaxRelays          = 64
)

// Timeout bounds for publish.timeout.
const (
	MinPublishTimeout = time.Second
	MaxPublishTimeout = 5 * time.Minute
)

// Preview engines.
const (
	EngineBuiltin  = "builtin"  // Light-to-rich converter
	EngineGoldmark = "goldmark" // CommonMark with syntax highlighting
)

// DirName is the directory under the user config dir holding named configs.
const DirName = "draftweaver"

// Config holds all configuration for importing, previewing and publishing.
type Config struct {
	Relays  []RelayConfig `yaml:"relays"`
	Signer  SignerConfig  `yaml:"signer"`
	Publish PublishConfig `yaml:"publish"`
	Import  ImportConfig  `yaml:"import"`
	Preview PreviewConfig `yaml:"preview"`
}

// RelayConfig is one relay entry.
type RelayConfig struct {
	URL   string `yaml:"url"`
	Read  bool   `yaml:"read"`
	Write bool   `yaml:"write"`
}

// SignerConfig locates the signing key.
type SignerConfig struct {
	KeyFile string `yaml:"keyFile"` // age-encrypted nsec (empty = env only)
}

// PublishConfig defines publish behavior.
type PublishConfig struct {
	Timeout time.Duration `yaml:"timeout"` // 0 = library default
}

// ImportConfig defines WordPress import behavior.
type ImportConfig struct {
	CacheTTL  time.Duration `yaml:"cacheTTL"`  // 0 = library default, negative disables
	UserAgent string        `yaml:"userAgent"` // empty = library default
}

// PreviewConfig defines preview rendering.
type PreviewConfig struct {
	Engine    string `yaml:"engine"`    // "builtin" (default) or "goldmark"
	Style     string `yaml:"style"`     // stylesheet name (empty = "default")
	AssetsDir string `yaml:"assetsDir"` // directory with styles/{name}.css overrides
}

// DefaultConfig returns a configuration with the default relays.
func DefaultConfig() *Config {
	relays := draftweaver.DefaultRelayList().Relays()
	cfg := &Config{
		Relays:  make([]RelayConfig, 0, len(relays)),
		Publish: PublishConfig{Timeout: draftweaver.DefaultPublishTimeout},
		Preview: PreviewConfig{Engine: EngineBuiltin},
	}
	for _, r := range relays {
		cfg.Relays = append(cfg.Relays, RelayConfig(r))
	}
	return cfg
}

// Validate checks field lengths, relay URLs and value ranges.
func (c *Config) Validate() error {
	if len(c.Relays) > MaxRelays {
		return fmt.Errorf("%w: relays: %d entries, max %d", ErrInvalidValue, len(c.Relays), MaxRelays)
	}
	for i, r := range c.Relays {
		field := fmt.Sprintf("relays[%d].url", i)
		if err := validateFieldLength(field, r.URL, MaxURLLength); err != nil {
			return err
		}
		if _, err := draftweaver.NormalizeRelayURL(r.URL); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidValue, field, err)
		}
	}

	if err := validateFieldLength("signer.keyFile", c.Signer.KeyFile, MaxPathLength); err != nil {
		return err
	}

	if t := c.Publish.Timeout; t != 0 && (t < MinPublishTimeout || t > MaxPublishTimeout) {
		return fmt.Errorf("%w: publish.timeout: must be between %s and %s, got %s",
			ErrInvalidValue, MinPublishTimeout, MaxPublishTimeout, t)
	}

	if err := validateFieldLength("import.userAgent", c.Import.UserAgent, MaxUserAgentLength); err != nil {
		return err
	}

	switch c.Preview.Engine {
	case "", EngineBuiltin, EngineGoldmark:
	default:
		return fmt.Errorf("%w: preview.engine: must be %q or %q, got %q",
			ErrInvalidValue, EngineBuiltin, EngineGoldmark, c.Preview.Engine)
	}

	if c.Preview.Style != "" {
		if err := assets.ValidateAssetName(c.Preview.Style); err != nil {
			return fmt.Errorf("%w: preview.style: %w", ErrInvalidValue, err)
		}
	}
	if err := validateFieldLength("preview.assetsDir", c.Preview.AssetsDir, MaxPathLength); err != nil {
		return err
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// RelayList converts the relay entries. An empty list yields the defaults.
func (c *Config) RelayList() *draftweaver.RelayList {
	if len(c.Relays) == 0 {
		return draftweaver.DefaultRelayList()
	}
	relays := make([]draftweaver.Relay, 0, len(c.Relays))
	for _, r := range c.Relays {
		relays = append(relays, draftweaver.Relay(r))
	}
	return draftweaver.NewRelayList(relays...)
}

// SetRelays replaces the relay entries with the contents of list.
func (c *Config) SetRelays(list *draftweaver.RelayList) {
	relays := list.Relays()
	c.Relays = make([]RelayConfig, 0, len(relays))
	for _, r := range relays {
		c.Relays = append(c.Relays, RelayConfig(r))
	}
}

// Save validates the config and writes it to path atomically.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := yamlutil.Marshal(c)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfigWrite, err)
	}
	if err := fileutil.WriteFileAtomic(path, data, fileutil.FilePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigWrite, err)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	path, err := ResolvePath(nameOrPath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ResolvePath returns the file behind nameOrPath without reading it.
func ResolvePath(nameOrPath string) (string, error) {
	if nameOrPath == "" {
		return "", ErrEmptyConfigName
	}
	if fileutil.IsFilePath(nameOrPath) {
		return nameOrPath, nil
	}
	return resolveConfigPath(nameOrPath)
}

// DefaultPath is where a named config is created when none exists yet.
func DefaultPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config dir: %w", err)
	}
	return filepath.Join(dir, DirName, name+".yaml"), nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/draftweaver/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	tried := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		local := name + ext
		if fileutil.FileExists(local) {
			return local, nil
		}
		tried = append(tried, local)
	}

	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(dir, DirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			tried = append(tried, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
