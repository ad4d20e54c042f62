package graph

import "context"

// Lister expands one glob pattern against a filesystem snapshot. List returns
// base-relative, slash-separated file paths; the sequence is finite and the
// call is restartable. The snapshot is assumed stable for the duration of one
// Resolve; implementations must be safe for concurrent use when the builder
// runs more than one expansion worker.
type Lister interface {
	List(baseDir, pattern string) ([]string, error)
}

// ListerFunc adapts a plain function to the Lister interface.
type ListerFunc func(baseDir, pattern string) ([]string, error)

// List implements the Lister interface.
func (f ListerFunc) List(baseDir, pattern string) ([]string, error) {
	return f(baseDir, pattern)
}

// ExternalResolver looks up targets in other manifests' graphs, typically by
// building those graphs on demand. A nil node with a nil error means no such
// target exists; a non-nil error means the owning manifest could not be built
// and is propagated to the caller as-is.
type ExternalResolver interface {
	LookupTarget(ctx context.Context, manifestID, name string) (*Node, error)
}
