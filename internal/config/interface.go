package config

import "context"

// Loader is the interface for a format-specific manifest loader.
type Loader interface {
	// Load walks root, reads every manifest it recognizes, and returns the
	// translated declarations sorted by manifest ID.
	Load(ctx context.Context, root string) ([]*Manifest, error)
}
