// Package orchestrator wires the schema resolver, form builder, form state,
// record assembler and predictor into the two operations both front ends
// need: render a form and submit one.
package orchestrator
