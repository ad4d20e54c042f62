// Package schema defines the Go structs the HCL decoder maps manifest files
// onto. Attributes whose values need evaluation and type conversion stay as
// raw hcl.Expression fields; the hcl package translates them into the
// format-agnostic config model.
package schema

import "github.com/hashicorp/hcl/v2"

// Target represents a `target` block from a manifest file:
//
//	target "files" "assets" {
//	  sources = ["static/**/*.css"]
//	  deps    = ["//lib:core"]
//	}
type Target struct {
	Kind        string         `hcl:"kind,label"`
	Name        string         `hcl:"name,label"`
	Sources     hcl.Expression `hcl:"sources"`
	Deps        hcl.Expression `hcl:"deps,optional"`
	AllowEmpty  hcl.Expression `hcl:"allow_empty,optional"`
	Description string         `hcl:"description,optional"`
}

// ManifestFile represents the top-level structure of one manifest file.
// There is no remain body: attributes or blocks outside this schema are
// decode errors, so typos surface at load time instead of being silently
// ignored.
type ManifestFile struct {
	Targets []*Target `hcl:"target,block"`
}
