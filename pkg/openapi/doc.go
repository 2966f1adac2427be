// Package openapi derives an OpenAPI 3 description of the prediction endpoint
// from a form model and validates JSON request bodies against it. The
// kin-openapi types are exposed directly so callers can serve or extend the
// document.
package openapi
