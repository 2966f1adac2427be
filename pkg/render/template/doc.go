// Package template defines the template engine seam renderers depend on and
// ships a pongo2-backed implementation in the pongo subpackage.
package template
