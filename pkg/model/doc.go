// Package model defines the typed form model consumed by renderers and the
// BookingForm value the controller forwards to the spreadsheet endpoint.
// Builders reside in internal/model but return the types defined here.
// Validation rules expose canonical identifiers (required, minLength,
// maxLength, pattern, format) with string parameters; Params["message"]
// carries the user facing text declared through the x-formgen-error-message
// schema extension.
package model
