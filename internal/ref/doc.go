/*
Package ref provides a structured, type-safe representation for target
references as they appear in manifest dependency lists.

Three spellings are accepted:

	name            target in the same manifest
	:name           same as above, explicit local form
	//rel/path:name target "name" in the manifest at rel/path

Manifest IDs use the `//rel/path` form throughout the system (`//` alone is
the workspace root). This package enforces the reference schema and
centralizes all formatting and parsing logic.
*/
package ref
