package hcl

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/buildgridgo/internal/config"
	"github.com/vk/buildgridgo/internal/ctxlog"
	"github.com/vk/buildgridgo/internal/fsutil"
	"github.com/vk/buildgridgo/internal/ref"
	"github.com/vk/buildgridgo/internal/schema"
)

// manifestExt is the extension manifest files are discovered by.
const manifestExt = ".hcl"

// Loader is the HCL implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load walks the workspace root, parses every manifest file, and returns one
// config.Manifest per directory that contains at least one, sorted by
// manifest ID. Within a manifest, declaration order is file order (lexical)
// then block order within the file.
func (l *Loader) Load(ctx context.Context, root string) ([]*config.Manifest, error) {
	logger := ctxlog.FromContext(ctx)

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("accessing workspace root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace root %s is not a directory", root)
	}

	files, err := fsutil.FindFilesByExtension(root, manifestExt)
	if err != nil {
		return nil, fmt.Errorf("discovering manifest files: %w", err)
	}
	logger.Debug("Discovered manifest files.", "root", root, "count", len(files))

	byDir := make(map[string][]string)
	var dirs []string
	for _, file := range files {
		dir := path.Dir(file)
		if _, seen := byDir[dir]; !seen {
			dirs = append(dirs, dir)
		}
		byDir[dir] = append(byDir[dir], file)
	}
	sort.Strings(dirs)

	parser := hclparse.NewParser()
	manifests := make([]*config.Manifest, 0, len(dirs))
	for _, dir := range dirs {
		manifest := &config.Manifest{
			ID:  ref.ManifestID(dir),
			Dir: filepath.Join(root, filepath.FromSlash(dir)),
		}
		for _, file := range byDir[dir] {
			hclFile, diags := parser.ParseHCLFile(filepath.Join(root, filepath.FromSlash(file)))
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to parse manifest file %s: %w", file, diags)
			}

			var decoded schema.ManifestFile
			if diags := gohcl.DecodeBody(hclFile.Body, nil, &decoded); diags.HasErrors() {
				return nil, fmt.Errorf("failed to decode manifest file %s: %w", file, diags)
			}

			for _, block := range decoded.Targets {
				target, err := l.translateTarget(file, block)
				if err != nil {
					return nil, err
				}
				manifest.Targets = append(manifest.Targets, target)
			}
		}
		logger.Debug("Loaded manifest.", "id", manifest.ID, "targets", len(manifest.Targets))
		manifests = append(manifests, manifest)
	}

	logger.Debug("Manifest loading complete.", "manifests", len(manifests))
	return manifests, nil
}
