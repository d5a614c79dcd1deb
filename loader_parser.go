package tripform

import (
	pkgopenapi "github.com/goliatone/go-tripform/pkg/openapi"
)

// NewParser constructs the kin-openapi backed parser used to read booking
// documents.
func NewParser(options ...pkgopenapi.ParserOption) *pkgopenapi.Parser {
	return pkgopenapi.NewParser(options...)
}

// BookingDocument returns the embedded OpenAPI document describing the
// booking form.
func BookingDocument() (pkgopenapi.Document, error) {
	return pkgopenapi.BookingDocument()
}
