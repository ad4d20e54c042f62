// Package testutil provides shared helpers for integration-style tests: a
// harness that lays a workspace out under a temporary directory, runs one
// validation pass over it, and captures the combined output.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/buildgridgo/internal/app"
	"github.com/vk/buildgridgo/internal/fsutil"
	"github.com/vk/buildgridgo/internal/hcl"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of a harness run.
type HarnessResult struct {
	// Output is everything the run wrote: log records and query results.
	Output string

	// Err is the error Run returned, nil on success.
	Err error

	// Root is the workspace root the files were laid out under.
	Root string
}

// Options tweaks a harness run. The zero value validates the workspace with
// defaults suitable for tests.
type Options struct {
	// Target is passed through to the application's closure query.
	Target string

	// Workers overrides the expansion worker count (default 4).
	Workers int
}

// RunValidation lays files (relative path to content) out under a fresh
// workspace root and runs one application pass over it with a background
// context.
func RunValidation(t *testing.T, files map[string]string) *HarnessResult {
	t.Helper()
	return RunValidationWithOptions(context.Background(), t, files, Options{})
}

// RunValidationWithOptions is RunValidation with a caller-supplied context
// and options.
func RunValidationWithOptions(ctx context.Context, t *testing.T, files map[string]string, opts Options) *HarnessResult {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	workers := opts.Workers
	if workers == 0 {
		workers = 4
	}
	cfg, err := app.NewConfig(app.Config{
		WorkspacePath: root,
		Target:        opts.Target,
		LogLevel:      "debug",
		LogFormat:     "text",
		WorkerCount:   workers,
	})
	require.NoError(t, err)

	output := &SafeBuffer{}
	gridApp := app.NewApp(output, cfg, hcl.NewLoader(), fsutil.OSLister{})
	runErr := gridApp.Run(ctx)

	return &HarnessResult{
		Output: output.String(),
		Err:    runErr,
		Root:   root,
	}
}
