package openapi

import (
	"errors"
	"fmt"
	"strings"
)

// Document wraps a raw OpenAPI payload together with the name it was loaded
// from. The kin-openapi structures stay private to the parser.
type Document struct {
	name string
	raw  []byte
}

// NewDocument constructs a Document while validating the inputs.
func NewDocument(name string, raw []byte) (Document, error) {
	if strings.TrimSpace(name) == "" {
		return Document{}, errors.New("openapi: document name is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("openapi: raw document is empty")
	}
	clone := append([]byte(nil), raw...)
	return Document{name: name, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(name string, raw []byte) Document {
	doc, err := NewDocument(name, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Name reports where the document came from.
func (d Document) Name() string {
	return d.name
}

// Raw returns a defensive copy of the OpenAPI payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Operation is the subset of OpenAPI operation metadata needed to build a
// booking form model.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	RequestBody Schema
	Extensions  map[string]any
}

// NewOperation validates the minimal operation contract.
func NewOperation(id, method, path string, body Schema) (Operation, error) {
	if strings.TrimSpace(id) == "" {
		return Operation{}, errors.New("openapi: operation id is required")
	}
	if strings.TrimSpace(method) == "" {
		return Operation{}, fmt.Errorf("openapi: operation %q method is required", id)
	}
	if strings.TrimSpace(path) == "" {
		return Operation{}, fmt.Errorf("openapi: operation %q path is required", id)
	}
	return Operation{
		ID:          id,
		Method:      strings.ToUpper(method),
		Path:        path,
		RequestBody: body,
	}, nil
}

// Schema mirrors the pieces of a JSON schema the form builder understands.
type Schema struct {
	Ref         string
	Type        string
	Format      string
	Title       string
	Description string
	Required    []string
	Properties  map[string]Schema
	MinLength   *int
	MaxLength   *int
	Pattern     string
	Extensions  map[string]any
}
