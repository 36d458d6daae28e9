// Package template defines the engine-agnostic template interface used by
// renderers, with a pongo2 adapter in the gotemplate subpackage.
package template
