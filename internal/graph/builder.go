package graph

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vk/buildgridgo/internal/config"
	"github.com/vk/buildgridgo/internal/ctxlog"
	"github.com/vk/buildgridgo/internal/ref"
)

// Builder accumulates target declarations for one manifest and resolves them
// into a Graph. Registration order is preserved and significant: it defines
// the order declarations resolve in and the tie-break for every deterministic
// query on the resulting graph.
//
// A Builder is not safe for concurrent use; the graphs it produces are.
type Builder struct {
	manifest string
	baseDir  string
	decls    []*config.Target
	index    map[string]int
	external ExternalResolver
	workers  int
}

// Option configures a Builder.
type Option func(*Builder)

// WithExternalResolver supplies the capability for resolving absolute
// references into other manifests' graphs. Without it, every absolute
// reference fails as unresolved.
func WithExternalResolver(r ExternalResolver) Option {
	return func(b *Builder) { b.external = r }
}

// WithWorkers bounds the pattern-expansion worker pool. Values below one run
// the expansion sequentially; results are identical either way.
func WithWorkers(n int) Option {
	return func(b *Builder) { b.workers = n }
}

// NewBuilder creates an empty Builder for the given manifest. Source patterns
// expand relative to baseDir.
func NewBuilder(manifestID, baseDir string, opts ...Option) *Builder {
	b := &Builder{
		manifest: manifestID,
		baseDir:  baseDir,
		index:    make(map[string]int),
		workers:  1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Register stores a declaration pending resolution. It fails with a
// *DuplicateNameError when the name is already taken in this manifest.
func (b *Builder) Register(t *config.Target) error {
	if _, exists := b.index[t.Name]; exists {
		return &DuplicateNameError{Manifest: b.manifest, Name: t.Name}
	}
	b.index[t.Name] = len(b.decls)
	b.decls = append(b.decls, t)
	return nil
}

// Resolve expands every registered declaration's patterns through the lister
// and links dependency references, producing a Graph. The first error, in
// registration order (a declaration's pattern errors before its dependency
// errors), aborts the whole resolution; no partial graph is returned.
//
// Resolving twice against an unchanged filesystem snapshot yields graphs with
// identical file sets per target.
func (b *Builder) Resolve(ctx context.Context, lister Lister) (*Graph, error) {
	logger := ctxlog.FromContext(ctx).With("manifest", b.manifest)
	logger.Debug("Resolve: starting graph construction.", "targets", len(b.decls))

	// First pass: create a node per declaration up front so dependency
	// linking can reference targets declared later in the manifest.
	g := &Graph{
		manifest: b.manifest,
		nodes:    make(map[string]*Node, len(b.decls)),
		order:    make([]string, 0, len(b.decls)),
	}
	for _, decl := range b.decls {
		g.nodes[decl.Name] = &Node{manifest: b.manifest, decl: decl}
		g.order = append(g.order, decl.Name)
	}

	// Second pass: expand source patterns, in parallel when configured.
	// Results land in per-declaration slots so the outcome is independent of
	// worker scheduling.
	slots := b.expandAll(ctx, lister)

	// Final pass walks declarations in registration order, surfacing each
	// declaration's expansion error before touching its dependencies.
	for i, decl := range b.decls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if slots[i].err != nil {
			return nil, slots[i].err
		}
		node := g.nodes[decl.Name]
		node.files = slots[i].files
		if err := b.linkDependencies(ctx, g, node); err != nil {
			return nil, err
		}
	}

	logger.Debug("Resolve: graph construction complete.", "targets", g.Len())
	return g, nil
}

// Build resolves the registered declarations and validates the result. This
// is the everyday entry point; Resolve and Validate stay available separately
// for callers that need to stage them.
func (b *Builder) Build(ctx context.Context, lister Lister) (*Graph, error) {
	g, err := b.Resolve(ctx, lister)
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("validating dependency graph of manifest %q: %w", b.manifest, err)
	}
	return g, nil
}

// expandSlot carries one declaration's expansion outcome from a worker back
// to the ordered finalize pass.
type expandSlot struct {
	files []string
	err   error
}

// expandAll fans pattern expansion out over a bounded worker pool. Each
// declaration writes only its own slot, so no synchronization beyond the
// WaitGroup is needed.
func (b *Builder) expandAll(ctx context.Context, lister Lister) []expandSlot {
	slots := make([]expandSlot, len(b.decls))

	workers := b.workers
	if workers > len(b.decls) {
		workers = len(b.decls)
	}
	if workers <= 1 {
		for i, decl := range b.decls {
			slots[i] = b.expandTarget(ctx, lister, decl)
		}
		return slots
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				slots[i] = b.expandTarget(ctx, lister, b.decls[i])
			}
		}()
	}
	for i := range b.decls {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return slots
}

// expandTarget expands one declaration's patterns in declaration order. Each
// pattern's matches are sorted lexicographically before joining the union, so
// file order is deterministic; duplicates collapse on first occurrence.
func (b *Builder) expandTarget(ctx context.Context, lister Lister, decl *config.Target) expandSlot {
	var files []string
	seen := make(map[string]struct{})

	for _, pattern := range decl.Sources {
		if err := ctx.Err(); err != nil {
			return expandSlot{err: err}
		}
		matches, err := lister.List(b.baseDir, pattern)
		if err != nil {
			return expandSlot{err: fmt.Errorf("target %q in manifest %q: expanding pattern %q: %w",
				decl.Name, b.manifest, pattern, err)}
		}
		if len(matches) == 0 && !decl.AllowEmpty {
			return expandSlot{err: &EmptyMatchError{Manifest: b.manifest, Target: decl.Name, Pattern: pattern}}
		}

		sorted := make([]string, len(matches))
		copy(sorted, matches)
		sort.Strings(sorted)
		for _, m := range sorted {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}

	return expandSlot{files: files}
}

// linkDependencies resolves one node's dependency references in declaration
// order. Local names and absolute references into this same manifest resolve
// against the graph under construction (forward references are fine, every
// node already exists); other absolute references go to the external
// resolver.
func (b *Builder) linkDependencies(ctx context.Context, g *Graph, node *Node) error {
	seen := make(map[string]struct{}, len(node.decl.Deps))

	for _, raw := range node.decl.Deps {
		r, err := ref.Parse(raw)
		if err != nil {
			return fmt.Errorf("target %q in manifest %q: %w", node.decl.Name, b.manifest, err)
		}

		var dep *Node
		if r.IsLocal() || r.Manifest == b.manifest {
			found, ok := g.nodes[r.Name]
			if !ok {
				return &UnresolvedDependencyError{Manifest: b.manifest, Target: node.decl.Name, Ref: raw}
			}
			dep = found
		} else {
			if b.external == nil {
				return &UnresolvedDependencyError{Manifest: b.manifest, Target: node.decl.Name, Ref: raw}
			}
			found, err := b.external.LookupTarget(ctx, r.Manifest, r.Name)
			if err != nil {
				return fmt.Errorf("target %q in manifest %q: resolving dependency %q: %w",
					node.decl.Name, b.manifest, raw, err)
			}
			if found == nil {
				return &UnresolvedDependencyError{Manifest: b.manifest, Target: node.decl.Name, Ref: raw}
			}
			dep = found
		}

		key := dep.Ref().String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		node.deps = append(node.deps, dep)
	}

	return nil
}
