// Package uischema loads and applies UI schema overlays that enrich form
// models with labels, placeholders, input types and field order. The model
// builder stays unaware of the overlay; callers opt in through Decorator.
package uischema
