package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vk/buildgridgo/internal/config"
	"github.com/vk/buildgridgo/internal/ctxlog"
	"github.com/vk/buildgridgo/internal/graph"
)

// graphCacheSize bounds the number of built graphs kept in memory. Very large
// workspaces rebuild their least recently used manifests on demand.
const graphCacheSize = 128

// ManifestCycleError reports manifests whose targets depend on each other in
// a loop. Stack holds manifest IDs in build entry order, ending with the
// manifest whose build re-entered.
type ManifestCycleError struct {
	Stack []string
}

// Error implements the error interface.
func (e *ManifestCycleError) Error() string {
	return fmt.Sprintf("manifest dependency cycle: %s", strings.Join(e.Stack, " -> "))
}

// Workspace holds all loaded manifests and the graphs built from them.
// Builds run on the calling goroutine, one at a time; the graphs a Workspace
// returns are safe for concurrent reads.
type Workspace struct {
	manifests map[string]*config.Manifest
	order     []string
	lister    graph.Lister
	workers   int
	cache     *lru.Cache[string, *graph.Graph]
	building  []string
}

// NewWorkspace indexes the loaded manifests and prepares the graph cache. The
// lister expands source patterns; workers bounds each build's expansion pool.
func NewWorkspace(manifests []*config.Manifest, lister graph.Lister, workers int) (*Workspace, error) {
	cache, err := lru.New[string, *graph.Graph](graphCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating graph cache: %w", err)
	}

	w := &Workspace{
		manifests: make(map[string]*config.Manifest, len(manifests)),
		lister:    lister,
		workers:   workers,
		cache:     cache,
	}
	for _, m := range manifests {
		if _, dup := w.manifests[m.ID]; dup {
			return nil, fmt.Errorf("manifest %q loaded twice", m.ID)
		}
		w.manifests[m.ID] = m
		w.order = append(w.order, m.ID)
	}
	sort.Strings(w.order)

	return w, nil
}

// Manifests returns all manifest IDs in sorted order.
func (w *Workspace) Manifests() []string {
	out := make([]string, len(w.order))
	copy(out, w.order)
	return out
}

// Manifest returns the declarations behind one manifest ID.
func (w *Workspace) Manifest(id string) (*config.Manifest, bool) {
	m, ok := w.manifests[id]
	return m, ok
}

// Graph returns the validated target graph for a manifest, building and
// caching it on first use. Building may recurse into other manifests through
// cross-manifest references; a recursion that reaches a manifest already on
// the build stack fails with a *ManifestCycleError.
func (w *Workspace) Graph(ctx context.Context, id string) (*graph.Graph, error) {
	if g, ok := w.cache.Get(id); ok {
		return g, nil
	}

	m, ok := w.manifests[id]
	if !ok {
		return nil, fmt.Errorf("no manifest %q in this workspace", id)
	}

	for _, active := range w.building {
		if active == id {
			stack := make([]string, 0, len(w.building)+1)
			stack = append(stack, w.building...)
			stack = append(stack, id)
			return nil, &ManifestCycleError{Stack: stack}
		}
	}
	w.building = append(w.building, id)
	defer func() { w.building = w.building[:len(w.building)-1] }()

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building target graph.", "manifest", id, "targets", len(m.Targets))

	b := graph.NewBuilder(id, m.Dir,
		graph.WithExternalResolver(w),
		graph.WithWorkers(w.workers),
	)
	for _, t := range m.Targets {
		if err := b.Register(t); err != nil {
			return nil, err
		}
	}

	g, err := b.Build(ctx, w.lister)
	if err != nil {
		return nil, err
	}
	w.cache.Add(id, g)

	logger.Debug("Target graph ready.", "manifest", id, "targets", g.Len())
	return g, nil
}

// LookupTarget implements the graph.ExternalResolver capability. Unknown
// manifests and unknown targets report as not found; a failure to build the
// owning manifest propagates.
func (w *Workspace) LookupTarget(ctx context.Context, manifestID, name string) (*graph.Node, error) {
	if _, ok := w.manifests[manifestID]; !ok {
		return nil, nil
	}
	g, err := w.Graph(ctx, manifestID)
	if err != nil {
		return nil, err
	}
	node, ok := g.Node(name)
	if !ok {
		return nil, nil
	}
	return node, nil
}

// BuildAll builds every manifest in ID order, stopping at the first failure.
// Cross-manifest references may pull manifests ahead of their turn; those
// come back from the cache when their own turn arrives.
func (w *Workspace) BuildAll(ctx context.Context) error {
	for _, id := range w.order {
		if _, err := w.Graph(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
