// Package config loads optional user configuration from a lox.toml file.
//
// Configuration is entirely optional: if no file is found the defaults are
// used, the interpreter itself never requires one.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// configFile is the name of the config file searched for.
const configFile = "lox.toml"

// Config is the user configuration.
type Config struct {
	REPL REPL `toml:"repl"`
}

// REPL configures the interactive session.
type REPL struct {
	// HistoryFile is the path the REPL saves line history to. Relative
	// paths are resolved against the user's home directory.
	HistoryFile string `toml:"history_file"`

	// Prompt is the primary input prompt.
	Prompt string `toml:"prompt"`

	// Continuation is the prompt shown while reading the rest of an
	// incomplete construct.
	Continuation string `toml:"continuation"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		REPL: REPL{
			HistoryFile:  ".lox_history",
			Prompt:       ">>> ",
			Continuation: "... ",
		},
	}
}

// FindAndLoad searches for a lox.toml starting at startDir and walking up
// towards the filesystem root, loading the first one it finds. If there is
// no config file anywhere on the path, the defaults are returned.
func FindAndLoad(startDir string) (Config, error) {
	path := findConfigFile(startDir)
	if path == "" {
		return Default(), nil
	}

	return Load(path)
}

// Load loads configuration from the given file, filling any unset fields
// with their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}

	if cfg.REPL.HistoryFile == "" {
		cfg.REPL.HistoryFile = Default().REPL.HistoryFile
	}

	if cfg.REPL.Prompt == "" {
		cfg.REPL.Prompt = Default().REPL.Prompt
	}

	if cfg.REPL.Continuation == "" {
		cfg.REPL.Continuation = Default().REPL.Continuation
	}

	return cfg, nil
}

// findConfigFile walks from startDir up to the filesystem root looking for
// a lox.toml, returning its path or "" if none exists.
func findConfigFile(startDir string) string {
	dir := startDir

	for {
		path := filepath.Join(dir, configFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}

		dir = parent
	}
}
