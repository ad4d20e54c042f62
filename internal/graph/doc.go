// Package graph is the core of the application. It turns target declarations
// into a validated dependency graph: a Builder registers declarations,
// expands their source patterns through an injected Lister, links dependency
// references (locally or through an ExternalResolver), and the resulting
// Graph checks itself for cycles.
//
// Graphs are read-only after construction and safe for concurrent reads.
// All failure modes are construction-time validation errors; see errors.go.
package graph
