// Package model defines the typed form model consumed by renderers. Builders
// reside in internal/model but return the types defined here. Each field is
// keyed by its feature name; numeric bounds travel as min/max validation rules
// with string parameters and the step as metadata so renderers can map them
// onto HTML attributes or prompt validators.
package model
