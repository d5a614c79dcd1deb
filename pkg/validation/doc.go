// Package validation evaluates the validation rules carried by a form model
// against submitted values and reports one message per failing field.
package validation
