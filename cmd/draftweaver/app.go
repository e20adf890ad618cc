package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alnah/go-draftweaver/internal/config"
	"github.com/alnah/go-draftweaver/internal/fileutil"
	"github.com/alnah/go-draftweaver/internal/hints"
)

// defaultConfigName is looked up when neither --config nor
// DRAFTWEAVER_CONFIG is set.
const defaultConfigName = "draftweaver"

// Sentinel errors for CLI input and output.
var (
	ErrReadInput    = errors.New("failed to read input")
	ErrWriteOutput  = errors.New("failed to write output")
	ErrOutputExists = errors.New("output file already exists, use --force to overwrite")
)

// app is the per-command state shared by commands that load configuration.
type app struct {
	env    *Environment
	envCfg *envConfig
	cfg    *config.Config
	logger *slog.Logger

	// cfgPath is where the config was read from, or where it would be
	// created. cfgFound is false when defaults are in use.
	cfgPath  string
	cfgFound bool
}

// newApp loads the config and builds the logger. With applyEnv the
// DRAFTWEAVER_* overrides are merged and the result validated again;
// commands that persist the config pass false so overrides never end
// up on disk.
func newApp(env *Environment, common commonFlags, applyEnv bool) (*app, error) {
	a := &app{
		env:    env,
		envCfg: loadEnvConfig(env.Getenv),
		logger: newLogger(env.Stderr, common),
	}

	name := common.config
	if name == "" {
		name = a.envCfg.ConfigPath
	}
	if err := a.loadConfig(name); err != nil {
		return nil, err
	}

	if applyEnv {
		applyEnvConfig(a.envCfg, a.cfg)
		if err := a.cfg.Validate(); err != nil {
			return nil, fmt.Errorf("environment overrides: %w", err)
		}
	}

	a.logger.Debug("config loaded",
		slog.String("path", a.cfgPath),
		slog.Bool("found", a.cfgFound),
		slog.Int("relays", len(a.cfg.Relays)))
	return a, nil
}

// loadConfig reads the named config. Without a name the default config is
// used when present and built-in defaults otherwise. An explicit file path
// that does not exist yet also yields defaults, so relays can create it.
func (a *app) loadConfig(name string) error {
	explicit := name != ""
	if !explicit {
		name = defaultConfigName
	}

	path, err := config.ResolvePath(name)
	if err != nil {
		if !errors.Is(err, config.ErrConfigNotFound) {
			return err
		}
		if explicit {
			searched, _ := config.DefaultPath(name)
			return fmt.Errorf("%w%s", err, hints.ForConfigNotFound([]string{searched}))
		}
		a.cfg = config.DefaultConfig()
		a.cfgPath, _ = config.DefaultPath(defaultConfigName)
		return nil
	}

	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		a.cfg = config.DefaultConfig()
		a.cfgPath = path
		return nil
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}
	a.cfg, a.cfgPath, a.cfgFound = cfg, path, true
	return nil
}

// newLogger builds the stderr logger: --verbose shows debug records,
// --quiet only errors.
func newLogger(w io.Writer, f commonFlags) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case f.verbose:
		level = slog.LevelDebug
	case f.quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// readInput reads a file, or stdin when path is "-".
func readInput(env *Environment, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(env.Stdin)
		if err != nil {
			return nil, fmt.Errorf("%w: stdin: %w", ErrReadInput, err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	return data, nil
}

// writeOutput writes data to path, or to stdout when path is empty.
// Existing files are only replaced with force.
func writeOutput(env *Environment, path string, data []byte, force bool) error {
	if path == "" {
		if _, err := env.Stdout.Write(data); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}
		if len(data) > 0 && data[len(data)-1] != '\n' {
			fmt.Fprintln(env.Stdout)
		}
		return nil
	}

	if err := checkOverwrite(path, force); err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, data, fileutil.FilePermissions); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// checkOverwrite refuses to replace an existing file without force.
func checkOverwrite(path string, force bool) error {
	if !force && fileutil.FileExists(path) {
		return fmt.Errorf("%w: %s", ErrOutputExists, path)
	}
	return nil
}
