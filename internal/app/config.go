package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// WorkspacePath is the root directory scanned recursively for manifest
	// files.
	WorkspacePath string

	// Target optionally names one target whose transitive closure is printed
	// after validation. Accepts a bare name (resolved against the root
	// manifest) or an absolute reference.
	Target string

	LogFormat   string
	LogLevel    string
	WorkerCount int
}

// NewConfig validates a Config and applies fallbacks for the fields that have
// safe ones.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.WorkspacePath == "" {
		return nil, errors.New("WorkspacePath is a required configuration field and cannot be empty")
	}
	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}
	return &cfg, nil
}
