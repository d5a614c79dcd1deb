package openapi

import (
	"embed"
	"io/fs"
)

// BookingDocumentName is the embedded document describing the booking form.
const BookingDocumentName = "schemas/booking.yaml"

// BookingOperationID identifies the booking operation inside the document.
const BookingOperationID = "createBooking"

//go:embed schemas/*.yaml
var embeddedSchemas embed.FS

// SchemasFS exposes the embedded OpenAPI documents.
func SchemasFS() fs.FS {
	return embeddedSchemas
}

// BookingDocument returns the embedded booking document.
func BookingDocument() (Document, error) {
	raw, err := fs.ReadFile(embeddedSchemas, BookingDocumentName)
	if err != nil {
		return Document{}, err
	}
	return NewDocument(BookingDocumentName, raw)
}
