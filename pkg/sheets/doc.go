// Package sheets forwards booking forms to a spreadsheet-backed web endpoint
// as a single GET request carrying the fields as query parameters.
package sheets
