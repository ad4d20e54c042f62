package fsutil

import (
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// OSLister expands glob patterns against the real file system. Matches are
// file paths relative to baseDir, slash-separated and sorted; directories are
// excluded. Patterns support the usual glob syntax plus `**` for recursive
// matches.
//
// The zero value is ready to use and safe for concurrent use.
type OSLister struct{}

// List implements the graph.Lister capability.
func (OSLister) List(baseDir, pattern string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(baseDir), pattern,
		doublestar.WithFilesOnly(),
		doublestar.WithFailOnIOErrors(),
	)
	if err != nil {
		return nil, fmt.Errorf("globbing %q under %q: %w", pattern, baseDir, err)
	}
	sort.Strings(matches)
	return matches, nil
}
