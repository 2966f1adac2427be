// Package features holds the static descriptor table that explains how each
// model input is asked for and encoded. A Descriptor is either numeric (with
// bounds and a step) or a binary choice whose two labels map onto the codes
// 0 and 1. The Catalog keeps descriptors in declaration order; that order is
// the last-resort feature order when neither the model artifact nor a sidecar
// file records the authoritative one.
//
// Overlays (JSON or YAML) let an operator reword questions or declare a
// different label/code mapping without recompiling.
package features
