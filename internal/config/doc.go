// Package config defines the format-agnostic declaration model for the
// application, along with the Loader interface for reading manifests from
// various sources.
//
// The declarations are the single source of truth for the graph builder.
// Concrete loader implementations, such as for HCL, are provided in separate
// packages.
package config
