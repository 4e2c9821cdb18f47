package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pomfort/ascmhl/internal/config"
	"github.com/pomfort/ascmhl/internal/hashing"
	"github.com/pomfort/ascmhl/internal/logging"
)

// resolveRoot turns a possibly-relative command-line path into an absolute
// one, mirroring the Python original's repeated
// `if not os.path.isabs(root_path): root_path = os.path.join(os.getcwd(), root_path)`.
func resolveRoot(path string) (string, error) {
	absolute, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("unable to resolve path %q: %w", path, err)
	}
	return absolute, nil
}

// loadDefaults loads the optional YAML defaults file named by --config.
func loadDefaults() (*config.Defaults, error) {
	if rootConfiguration.configPath == "" {
		return &config.Defaults{}, nil
	}
	return config.Load(rootConfiguration.configPath)
}

// newLogger builds the logger used for one command invocation.
func newLogger() *logging.Logger {
	if rootConfiguration.verbose {
		return logging.New(logging.LevelDebug, os.Stderr)
	}
	return logging.New(logging.LevelInfo, os.Stderr)
}

// parseAlgorithms parses a set of --hash-format values, falling back to
// defaults.DefaultAlgorithm() when none were given on the command line.
func parseAlgorithms(raw []string, defaults *config.Defaults) ([]hashing.Algorithm, error) {
	if len(raw) == 0 {
		return []hashing.Algorithm{defaults.DefaultAlgorithm()}, nil
	}
	algorithms := make([]hashing.Algorithm, 0, len(raw))
	for _, r := range raw {
		var a hashing.Algorithm
		if err := a.UnmarshalText([]byte(r)); err != nil {
			return nil, fmt.Errorf("unsupported hash format %q", r)
		}
		algorithms = append(algorithms, a)
	}
	return algorithms, nil
}
