package registry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/buildgridgo/internal/config"
	"github.com/vk/buildgridgo/internal/graph"
)

// countingLister serves canned matches keyed by pattern and counts calls, so
// tests can tell a cache hit from a rebuild.
type countingLister struct {
	mu      sync.Mutex
	matches map[string][]string
	calls   int
}

func (c *countingLister) List(_, pattern string) ([]string, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.matches[pattern], nil
}

func (c *countingLister) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func manifest(id, dir string, targets ...*config.Target) *config.Manifest {
	return &config.Manifest{ID: id, Dir: dir, Targets: targets}
}

func depTarget(name string, deps ...string) *config.Target {
	return &config.Target{Kind: "files", Name: name, Deps: deps}
}

func TestNewWorkspace(t *testing.T) {
	t.Run("indexes manifests in sorted order", func(t *testing.T) {
		w, err := NewWorkspace([]*config.Manifest{
			manifest("//lib", "/ws/lib"),
			manifest("//", "/ws"),
			manifest("//app", "/ws/app"),
		}, &countingLister{}, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"//", "//app", "//lib"}, w.Manifests())
	})

	t.Run("rejects duplicate manifest IDs", func(t *testing.T) {
		_, err := NewWorkspace([]*config.Manifest{
			manifest("//lib", "/ws/lib"),
			manifest("//lib", "/elsewhere/lib"),
		}, &countingLister{}, 1)
		assert.ErrorContains(t, err, `manifest "//lib" loaded twice`)
	})
}

func TestWorkspace_Graph(t *testing.T) {
	ctx := context.Background()

	t.Run("builds on demand and caches", func(t *testing.T) {
		lister := &countingLister{matches: map[string][]string{"*.go": {"a.go"}}}
		w, err := NewWorkspace([]*config.Manifest{
			manifest("//", "/ws", &config.Target{Kind: "files", Name: "src", Sources: []string{"*.go"}}),
		}, lister, 1)
		require.NoError(t, err)

		first, err := w.Graph(ctx, "//")
		require.NoError(t, err)
		assert.Equal(t, 1, lister.callCount())

		second, err := w.Graph(ctx, "//")
		require.NoError(t, err)
		assert.Same(t, first, second)
		assert.Equal(t, 1, lister.callCount(), "cached graph must not re-expand patterns")
	})

	t.Run("unknown manifest fails", func(t *testing.T) {
		w, err := NewWorkspace(nil, &countingLister{}, 1)
		require.NoError(t, err)
		_, err = w.Graph(ctx, "//nope")
		assert.ErrorContains(t, err, `no manifest "//nope"`)
	})

	t.Run("duplicate target names fail", func(t *testing.T) {
		w, err := NewWorkspace([]*config.Manifest{
			manifest("//", "/ws", depTarget("x"), depTarget("x")),
		}, &countingLister{}, 1)
		require.NoError(t, err)

		_, err = w.Graph(ctx, "//")
		var dup *graph.DuplicateNameError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "x", dup.Name)
	})

	t.Run("resolves references across manifests", func(t *testing.T) {
		w, err := NewWorkspace([]*config.Manifest{
			manifest("//app", "/ws/app", depTarget("app", "//lib:core")),
			manifest("//lib", "/ws/lib", depTarget("core")),
		}, &countingLister{}, 1)
		require.NoError(t, err)

		g, err := w.Graph(ctx, "//app")
		require.NoError(t, err)

		node, ok := g.Node("app")
		require.True(t, ok)
		deps := node.Dependencies()
		require.Len(t, deps, 1)
		assert.Equal(t, "//lib", deps[0].Manifest())
		assert.Equal(t, "core", deps[0].Name())

		// The dependency's manifest was built along the way and is cached.
		libGraph, err := w.Graph(ctx, "//lib")
		require.NoError(t, err)
		libCore, ok := libGraph.Node("core")
		require.True(t, ok)
		assert.Same(t, libCore, deps[0])
	})

	t.Run("reference into unknown manifest fails as unresolved", func(t *testing.T) {
		w, err := NewWorkspace([]*config.Manifest{
			manifest("//", "/ws", depTarget("app", "//nope:x")),
		}, &countingLister{}, 1)
		require.NoError(t, err)

		_, err = w.Graph(ctx, "//")
		var unresolved *graph.UnresolvedDependencyError
		require.ErrorAs(t, err, &unresolved)
		assert.Equal(t, "//nope:x", unresolved.Ref)
	})

	t.Run("reference to unknown target in a known manifest fails as unresolved", func(t *testing.T) {
		w, err := NewWorkspace([]*config.Manifest{
			manifest("//app", "/ws/app", depTarget("app", "//lib:nope")),
			manifest("//lib", "/ws/lib", depTarget("core")),
		}, &countingLister{}, 1)
		require.NoError(t, err)

		_, err = w.Graph(ctx, "//app")
		var unresolved *graph.UnresolvedDependencyError
		require.ErrorAs(t, err, &unresolved)
		assert.Equal(t, "//lib:nope", unresolved.Ref)
	})

	t.Run("manifest cycles are refused", func(t *testing.T) {
		w, err := NewWorkspace([]*config.Manifest{
			manifest("//a", "/ws/a", depTarget("x", "//b:y")),
			manifest("//b", "/ws/b", depTarget("y", "//a:x")),
		}, &countingLister{}, 1)
		require.NoError(t, err)

		_, err = w.Graph(ctx, "//a")

		var cycle *ManifestCycleError
		require.ErrorAs(t, err, &cycle)
		assert.Equal(t, []string{"//a", "//b", "//a"}, cycle.Stack)
		assert.ErrorContains(t, err, "manifest dependency cycle: //a -> //b -> //a")
	})
}

func TestWorkspace_BuildAll(t *testing.T) {
	ctx := context.Background()

	t.Run("builds every manifest", func(t *testing.T) {
		lister := &countingLister{matches: map[string][]string{
			"a/*": {"a/1"},
			"b/*": {"b/1"},
		}}
		w, err := NewWorkspace([]*config.Manifest{
			manifest("//a", "/ws/a", &config.Target{Kind: "files", Name: "x", Sources: []string{"a/*"}}),
			manifest("//b", "/ws/b", &config.Target{Kind: "files", Name: "y", Sources: []string{"b/*"}}),
		}, lister, 1)
		require.NoError(t, err)

		require.NoError(t, w.BuildAll(ctx))
		assert.Equal(t, 2, lister.callCount())
	})

	t.Run("fails fast on the first broken manifest in ID order", func(t *testing.T) {
		w, err := NewWorkspace([]*config.Manifest{
			manifest("//good", "/ws/good", depTarget("x")),
			manifest("//bad1", "/ws/bad1", &config.Target{Kind: "files", Name: "x", Sources: []string{"none/*"}}),
			manifest("//bad2", "/ws/bad2", depTarget("x", "missing")),
		}, &countingLister{}, 1)
		require.NoError(t, err)

		err = w.BuildAll(ctx)

		var empty *graph.EmptyMatchError
		require.ErrorAs(t, err, &empty)
		assert.Equal(t, "//bad1", empty.Manifest)
	})
}
