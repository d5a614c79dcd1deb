package validation

import (
	"sort"
	"strings"
)

// Errors maps field names to the first validation message raised for them.
// A nil *Errors means the values passed validation.
type Errors struct {
	Fields map[string]string
}

// Error implements error, listing the failing fields in name order.
func (e *Errors) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation: no errors"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation: " + strings.Join(parts, "; ")
}

// Message returns the message for a field, or an empty string.
func (e *Errors) Message(field string) string {
	if e == nil {
		return ""
	}
	return e.Fields[field]
}

// Has reports whether the field failed validation.
func (e *Errors) Has(field string) bool {
	if e == nil {
		return false
	}
	_, ok := e.Fields[field]
	return ok
}

// Map returns a copy of the field messages.
func (e *Errors) Map() map[string]string {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(e.Fields))
	for k, v := range e.Fields {
		out[k] = v
	}
	return out
}

func (e *Errors) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; exists {
		return
	}
	e.Fields[field] = message
}
