package graph

// Graph holds one manifest's resolved targets. It owns its nodes, is
// read-only after construction, and is safe for concurrent reads.
type Graph struct {
	manifest string
	nodes    map[string]*Node
	order    []string
}

// Manifest returns the ID of the manifest this graph was built from.
func (g *Graph) Manifest() string { return g.manifest }

// Len returns the number of targets in the graph.
func (g *Graph) Len() int { return len(g.order) }

// Node looks up a target by name.
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// Names returns the target names in registration order. Callers receive a
// copy.
func (g *Graph) Names() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Validate checks the dependency relation for cycles using a depth-first
// traversal. Roots are visited in registration order and edges in dependency
// declaration order, so the reported cycle is deterministic for a given
// declaration set. Edges into other manifests are boundary edges and are not
// followed: the workspace registry refuses re-entrant manifest builds, so a
// completed external graph cannot reach back into this one.
func (g *Graph) Validate() error {
	const (
		white = iota // unvisited
		gray         // on the current traversal stack
		black        // fully explored
	)
	color := make(map[string]int, len(g.order))
	var stack []string

	var visit func(n *Node) *CyclicDependencyError
	visit = func(n *Node) *CyclicDependencyError {
		color[n.Name()] = gray
		stack = append(stack, n.Name())

		for _, dep := range n.deps {
			if dep.manifest != g.manifest {
				continue
			}
			switch color[dep.Name()] {
			case gray:
				// The stack from the dependency's first occurrence onward is
				// the cycle; close it by repeating that name.
				start := 0
				for i, name := range stack {
					if name == dep.Name() {
						start = i
						break
					}
				}
				cycle := make([]string, 0, len(stack)-start+1)
				cycle = append(cycle, stack[start:]...)
				cycle = append(cycle, dep.Name())
				return &CyclicDependencyError{Cycle: cycle}
			case white:
				if cerr := visit(dep); cerr != nil {
					return cerr
				}
			}
		}

		stack = stack[:len(stack)-1]
		color[n.Name()] = black
		return nil
	}

	for _, name := range g.order {
		if color[name] != white {
			continue
		}
		if cerr := visit(g.nodes[name]); cerr != nil {
			return cerr
		}
	}
	return nil
}
