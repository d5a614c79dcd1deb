package render

import (
	"context"

	"github.com/goliatone/go-tripform/pkg/model"
)

// Renderer converts a FormModel plus per-request state into bytes (HTML for
// the vanilla renderer, a collected payload for the terminal renderer).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, options RenderOptions) ([]byte, error)
}
