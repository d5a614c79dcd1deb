// Package orchestrator wires the document → parser → model builder → UI schema
// → renderer pipeline for the booking form behind a single entry point.
package orchestrator
