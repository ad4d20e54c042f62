package graph

import (
	"fmt"
	"strings"
)

// DuplicateNameError reports a second registration of a target name within
// one manifest.
type DuplicateNameError struct {
	Manifest string
	Name     string
}

// Error implements the error interface.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("target %q is declared more than once in manifest %q", e.Name, e.Manifest)
}

// EmptyMatchError reports a source pattern that matched no files on a target
// that did not opt out of the check.
type EmptyMatchError struct {
	Manifest string
	Target   string
	Pattern  string
}

// Error implements the error interface.
func (e *EmptyMatchError) Error() string {
	return fmt.Sprintf("target %q in manifest %q: pattern %q matched no files (set allow_empty = true to accept this)",
		e.Target, e.Manifest, e.Pattern)
}

// UnresolvedDependencyError reports a dependency reference that neither the
// local manifest nor the external resolver could satisfy.
type UnresolvedDependencyError struct {
	Manifest string
	Target   string
	Ref      string
}

// Error implements the error interface.
func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("target %q in manifest %q depends on %q, which does not resolve to any target",
		e.Target, e.Manifest, e.Ref)
}

// CyclicDependencyError reports one concrete dependency cycle. Cycle holds
// target names in dependency order; the first name repeats at the end, so a
// self-dependency reads as [a a].
type CyclicDependencyError struct {
	Cycle []string
}

// Error implements the error interface.
func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("dependency cycle: %s", strings.Join(e.Cycle, " -> "))
}
