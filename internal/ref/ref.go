package ref

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// nameRegex matches a single target name or manifest path segment.
var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_.-]*$`)

// Ref is the structured representation of a target reference. A zero
// Manifest means the reference is local to the manifest it was written in.
type Ref struct {
	Manifest string
	Name     string
}

// Local builds a reference to a target in the current manifest.
func Local(name string) Ref {
	return Ref{Name: name}
}

// Absolute builds a reference to a target in the manifest with the given ID.
func Absolute(manifestID, name string) Ref {
	return Ref{Manifest: manifestID, Name: name}
}

// IsLocal reports whether the reference points into its own manifest.
func (r Ref) IsLocal() bool {
	return r.Manifest == ""
}

// String serializes the reference into its canonical spelling: the bare name
// for local references, `//rel/path:name` otherwise.
func (r Ref) String() string {
	if r.IsLocal() {
		return r.Name
	}
	return r.Manifest + ":" + r.Name
}

// Parse creates a Ref from one of the accepted spellings. The returned error
// names the offending part of the input.
func Parse(raw string) (Ref, error) {
	if raw == "" {
		return Ref{}, fmt.Errorf("target reference cannot be empty")
	}

	if strings.HasPrefix(raw, "//") {
		manifestPath, name, ok := strings.Cut(raw[2:], ":")
		if !ok {
			return Ref{}, fmt.Errorf("absolute reference %q is missing a ':name' part", raw)
		}
		if err := validManifestPath(manifestPath); err != nil {
			return Ref{}, fmt.Errorf("absolute reference %q: %w", raw, err)
		}
		if !ValidName(name) {
			return Ref{}, fmt.Errorf("absolute reference %q has an invalid target name %q", raw, name)
		}
		return Ref{Manifest: "//" + manifestPath, Name: name}, nil
	}

	name := strings.TrimPrefix(raw, ":")
	if strings.ContainsAny(name, "/:") {
		return Ref{}, fmt.Errorf("reference %q: only absolute references may address another manifest (use //rel/path:name)", raw)
	}
	if !ValidName(name) {
		return Ref{}, fmt.Errorf("invalid target name %q", raw)
	}
	return Ref{Name: name}, nil
}

// ValidName reports whether name is usable as a target name or manifest path
// segment.
func ValidName(name string) bool {
	return nameRegex.MatchString(name)
}

// validManifestPath checks every segment of a manifest path. The empty path
// addresses the workspace root and is valid.
func validManifestPath(p string) error {
	if p == "" {
		return nil
	}
	for _, segment := range strings.Split(p, "/") {
		if segment == "" {
			return fmt.Errorf("manifest path contains an empty segment")
		}
		if !ValidName(segment) {
			return fmt.Errorf("invalid manifest path segment %q", segment)
		}
	}
	return nil
}

// ManifestID converts a workspace-relative directory (slash-separated, "." or
// "" for the root) into its canonical manifest ID.
func ManifestID(rel string) string {
	rel = path.Clean(strings.TrimPrefix(rel, "./"))
	if rel == "." || rel == "" || rel == "/" {
		return "//"
	}
	return "//" + rel
}

// ManifestDir is the inverse of ManifestID: it returns the workspace-relative
// directory for a manifest ID ("." for the root).
func ManifestDir(id string) string {
	rel := strings.TrimPrefix(id, "//")
	if rel == "" {
		return "."
	}
	return rel
}
