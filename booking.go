package tripform

import (
	"errors"

	"github.com/goliatone/go-tripform/pkg/controller"
	"github.com/goliatone/go-tripform/pkg/model"
	"github.com/goliatone/go-tripform/pkg/server"
	"github.com/goliatone/go-tripform/pkg/sheets"
	"github.com/goliatone/go-tripform/pkg/validation"
)

// NewSheetsClient builds the spreadsheet submitter for endpoint. An empty
// endpoint falls back to the bundled deployment.
func NewSheetsClient(endpoint string, options ...sheets.Option) (*sheets.Client, error) {
	if endpoint == "" {
		endpoint = sheets.DefaultEndpoint
	}
	return sheets.New(endpoint, options...)
}

// ControllerFactory returns a factory creating one controller per session.
// Controllers share a single validator so rule parsing happens once.
func ControllerFactory(form model.FormModel, submitter controller.Submitter, options ...controller.Option) (server.ControllerFactory, error) {
	if submitter == nil {
		return nil, errors.New("tripform: submitter is required")
	}
	shared := append([]controller.Option{controller.WithValidator(validation.New())}, options...)
	return func() (*controller.Controller, error) {
		return controller.New(form, submitter, shared...)
	}, nil
}
