package graph

import (
	"github.com/vk/buildgridgo/internal/config"
	"github.com/vk/buildgridgo/internal/ref"
)

// Node is a resolved target: its declaration plus the concrete files its
// patterns matched and back-references to the targets it depends on. The
// back-references are weak: a node never owns its dependencies, which may
// live in another manifest's graph.
type Node struct {
	manifest string
	decl     *config.Target
	files    []string
	deps     []*Node
}

// Name returns the target name, unique within its manifest.
func (n *Node) Name() string { return n.decl.Name }

// Kind returns the declaration's kind label.
func (n *Node) Kind() string { return n.decl.Kind }

// Manifest returns the ID of the manifest that declared this target.
func (n *Node) Manifest() string { return n.manifest }

// Ref returns the absolute reference addressing this target from anywhere in
// the workspace.
func (n *Node) Ref() ref.Ref { return ref.Absolute(n.manifest, n.decl.Name) }

// Declaration returns the immutable declaration this node was resolved from.
func (n *Node) Declaration() *config.Target { return n.decl }

// Files returns the matched paths, relative to the manifest directory. The
// order is deterministic: pattern declaration order, lexicographic within a
// pattern, first occurrence wins. Callers receive a copy.
func (n *Node) Files() []string {
	out := make([]string, len(n.files))
	copy(out, n.files)
	return out
}

// Dependencies returns the resolved dependencies in declaration order, with
// duplicates collapsed. Callers receive a copy.
func (n *Node) Dependencies() []*Node {
	out := make([]*Node, len(n.deps))
	copy(out, n.deps)
	return out
}
