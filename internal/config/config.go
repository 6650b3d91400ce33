// Package config resolves edmv settings from flags and the environment.
//
// Every flag can also be set through an EDMV_ environment variable, with
// dashes replaced by underscores (--dry-run → EDMV_DRY_RUN). Flags win over
// the environment. The editor additionally falls back to $EDITOR and then to
// "vi".
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/danieljhkim/edmv/internal/editor"
)

// EnvPrefix prefixes every environment variable read by edmv.
const EnvPrefix = "EDMV"

// Flag names shared between the CLI and the config keys.
const (
	FlagEditor  = "editor"
	FlagDir     = "dir"
	FlagYes     = "yes"
	FlagDryRun  = "dry-run"
	FlagHidden  = "hidden"
	FlagNoRetry = "no-retry"
	FlagQuery   = "query"
	FlagVerbose = "verbose"
	FlagJSON    = "json"
)

// Config contains all settings of a single edmv invocation.
type Config struct {
	// Editor is the editor command line (default: $EDITOR, then vi)
	Editor string

	// Dir is the absolute directory relative paths are resolved against
	Dir string

	// AssumeYes skips the confirmation prompt
	AssumeYes bool

	// DryRun shows the renames without applying them
	DryRun bool

	// Hidden lists dot-prefixed entries in the file selector
	Hidden bool

	// Retry reopens the editor after a rejected edit
	Retry bool

	// Query pre-filters the file selector
	Query string

	// Verbose enables debug logging
	Verbose bool

	// JSON prints results as JSON
	JSON bool
}

// Load reads the configuration from the given flags and the environment.
// Flags that are not defined on the set keep their zero value.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	cfg := &Config{
		Editor:    v.GetString(FlagEditor),
		Dir:       v.GetString(FlagDir),
		AssumeYes: v.GetBool(FlagYes),
		DryRun:    v.GetBool(FlagDryRun),
		Hidden:    v.GetBool(FlagHidden),
		Retry:     !v.GetBool(FlagNoRetry),
		Query:     v.GetString(FlagQuery),
		Verbose:   v.GetBool(FlagVerbose),
		JSON:      v.GetBool(FlagJSON),
	}

	if cfg.Editor == "" {
		cfg.Editor = os.Getenv("EDITOR")
	}
	if cfg.Editor == "" {
		cfg.Editor = editor.DefaultProgram
	}

	dir, err := resolveDir(cfg.Dir)
	if err != nil {
		return nil, err
	}
	cfg.Dir = dir

	// A fixed answer cannot drive the "edit again?" loop
	if cfg.AssumeYes {
		cfg.Retry = false
	}

	return cfg, nil
}

// resolveDir returns dir as an absolute path, defaulting to the working directory.
func resolveDir(dir string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		return cwd, nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("failed to access directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", dir)
	}
	return abs, nil
}
