package config

// Target is the format-agnostic representation of a single `target` block:
// a named group of files selected by glob patterns, plus references to the
// targets it depends on. Declarations are immutable once parsed.
type Target struct {
	// Kind classifies the target (e.g. "files", "resources"). The core
	// attaches no semantics to it; layers above may.
	Kind string

	// Name is unique within the declaring manifest.
	Name string

	Description string

	// Sources holds glob patterns in declaration order, relative to the
	// manifest directory.
	Sources []string

	// Deps holds raw target references in declaration order. Duplicates are
	// tolerated and collapse during resolution.
	Deps []string

	// AllowEmpty suppresses the zero-match error for this target's patterns.
	AllowEmpty bool
}

// Manifest is one directory's worth of target declarations.
type Manifest struct {
	// ID is the canonical manifest ID, `//rel/path` ("//" for the root).
	ID string

	// Dir is the absolute path of the directory the declarations came from.
	// Source patterns are expanded relative to it.
	Dir string

	// Targets preserves declaration order: first by file (lexical), then by
	// position within the file.
	Targets []*Target
}
