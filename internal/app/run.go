package app

import (
	"context"
	"fmt"
	"path"

	"github.com/vk/buildgridgo/internal/ctxlog"
	"github.com/vk/buildgridgo/internal/ref"
	"github.com/vk/buildgridgo/internal/registry"
)

// Run executes one validation pass over the configured workspace: load every
// manifest, build and validate every target graph, and report the result.
// With Config.Target set, the target's transitive file closure is printed
// afterwards.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	manifests, err := a.loader.Load(ctx, a.config.WorkspacePath)
	if err != nil {
		return fmt.Errorf("failed to load workspace: %w", err)
	}
	if len(manifests) == 0 {
		a.logger.Warn("No manifest files found in workspace.", "path", a.config.WorkspacePath)
		return nil
	}
	a.logger.Debug("Workspace loaded.", "manifests", len(manifests))

	ws, err := registry.NewWorkspace(manifests, a.lister, a.config.WorkerCount)
	if err != nil {
		return err
	}

	if err := ws.BuildAll(ctx); err != nil {
		return fmt.Errorf("workspace validation failed: %w", err)
	}

	totalTargets := 0
	for _, id := range ws.Manifests() {
		g, err := ws.Graph(ctx, id)
		if err != nil {
			return err
		}
		files, edges := 0, 0
		for _, name := range g.Names() {
			node, _ := g.Node(name)
			files += len(node.Files())
			edges += len(node.Dependencies())
		}
		totalTargets += g.Len()
		a.logger.Info("Manifest validated.", "manifest", id, "targets", g.Len(), "files", files, "edges", edges)
	}
	a.logger.Info("Workspace validated.", "manifests", len(ws.Manifests()), "targets", totalTargets)

	if a.config.Target != "" {
		if err := a.printClosure(ctx, ws); err != nil {
			return err
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// printClosure writes the workspace-relative files of the requested target's
// transitive closure to the application output, one per line, in closure
// order.
func (a *App) printClosure(ctx context.Context, ws *registry.Workspace) error {
	r, err := ref.Parse(a.config.Target)
	if err != nil {
		return fmt.Errorf("invalid target reference: %w", err)
	}
	if r.IsLocal() {
		r = ref.Absolute("//", r.Name)
	}
	a.logger.Debug("Querying target closure.", "target", r.String())

	g, err := ws.Graph(ctx, r.Manifest)
	if err != nil {
		return err
	}
	closure, err := g.Closure(r.Name)
	if err != nil {
		return err
	}

	for _, node := range closure {
		dir := ref.ManifestDir(node.Manifest())
		for _, file := range node.Files() {
			fmt.Fprintln(a.outW, path.Join(dir, file))
		}
	}
	return nil
}
