package graph

import (
	"fmt"
	"sort"
)

// Dependents returns the names of every target in this manifest that depends
// directly on the named target, in registration order.
func (g *Graph) Dependents(name string) ([]string, error) {
	if _, ok := g.nodes[name]; !ok {
		return nil, fmt.Errorf("no target named %q in manifest %q", name, g.manifest)
	}
	var dependents []string
	for _, candidate := range g.order {
		node := g.nodes[candidate]
		for _, dep := range node.deps {
			if dep.manifest == g.manifest && dep.Name() == name {
				dependents = append(dependents, candidate)
				break
			}
		}
	}
	return dependents, nil
}

// TopologicalOrder returns every target name in this manifest ordered so that
// dependencies precede their dependents. Ties break on registration order,
// making the result stable across runs. It validates first and propagates the
// cycle error when the graph is not a DAG.
func (g *Graph) TopologicalOrder() ([]string, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	position := make(map[string]int, len(g.order))
	for i, name := range g.order {
		position[name] = i
	}

	indegree := make(map[string]int, len(g.order))
	dependents := make(map[string][]string, len(g.order))
	for _, name := range g.order {
		node := g.nodes[name]
		for _, dep := range node.deps {
			if dep.manifest != g.manifest {
				continue
			}
			indegree[name]++
			dependents[dep.Name()] = append(dependents[dep.Name()], name)
		}
	}

	var ready []string
	for _, name := range g.order {
		if indegree[name] == 0 {
			ready = append(ready, name)
		}
	}

	result := make([]string, 0, len(g.order))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		result = append(result, name)
		for _, dependent := range dependents[name] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				ready = insertByPosition(ready, dependent, position)
			}
		}
	}

	return result, nil
}

// insertByPosition keeps the ready list sorted by registration position so
// newly unblocked targets surface in declaration order.
func insertByPosition(ready []string, name string, position map[string]int) []string {
	i := sort.Search(len(ready), func(i int) bool {
		return position[ready[i]] > position[name]
	})
	ready = append(ready, "")
	copy(ready[i+1:], ready[i:])
	ready[i] = name
	return ready
}

// Closure returns the named target and its full transitive dependency set in
// deterministic preorder, following edges into other manifests. Each target
// appears once even when reached along several paths.
func (g *Graph) Closure(name string) ([]*Node, error) {
	root, ok := g.nodes[name]
	if !ok {
		return nil, fmt.Errorf("no target named %q in manifest %q", name, g.manifest)
	}

	var result []*Node
	visited := make(map[string]struct{})

	var visit func(n *Node)
	visit = func(n *Node) {
		key := n.Ref().String()
		if _, done := visited[key]; done {
			return
		}
		visited[key] = struct{}{}
		result = append(result, n)
		for _, dep := range n.deps {
			visit(dep)
		}
	}
	visit(root)

	return result, nil
}
