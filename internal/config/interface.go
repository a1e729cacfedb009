package config

import "context"

// Loader is the interface for a format-specific workspace loader.
type Loader interface {
	// Load reads every supported file under the given paths and translates
	// them into the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
	// Extensions lists the file extensions the loader reads.
	Extensions() []string
}
