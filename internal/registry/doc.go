// Package registry provides the workspace: the set of manifests discovered
// under one root and the target graphs built from them.
//
// The Workspace is the glue between the manifest loader and the graph
// builder. It hands out built graphs by manifest ID, building them on demand
// and caching completed ones, and it serves as the external resolver for
// cross-manifest references: a dependency on `//lib:core` triggers the build
// of `//lib` when that graph is not cached yet. A build that re-enters a
// manifest already being built is refused, so manifest-level dependency
// cycles surface as errors rather than infinite recursion.
package registry
