// Package hcl implements the config.Loader interface for workspaces written
// in HCL. It discovers `.hcl` files under a workspace root, groups them into
// one manifest per directory, decodes their `target` blocks, and translates
// them into the format-agnostic config model consumed by the graph builder.
package hcl
