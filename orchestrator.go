package tripform

import (
	"context"
	"errors"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-tripform/pkg/model"
	"github.com/goliatone/go-tripform/pkg/orchestrator"
	"github.com/goliatone/go-tripform/pkg/render"
	"github.com/goliatone/go-tripform/pkg/server"
)

// RenderOptions describes per-request state renderers use to prefill values,
// surface inline errors and show the submission banner.
type RenderOptions = render.RenderOptions

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// BookingForm builds the decorated booking form model.
func BookingForm(ctx context.Context, options ...orchestrator.Option) (model.FormModel, error) {
	return orchestrator.New(options...).Form(ctx, "")
}

// GenerateHTML renders the booking page for the given state with the default
// renderer. It is the simplest entry point for callers that just want HTML.
func GenerateHTML(ctx context.Context, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{RenderOptions: opts})
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme and variant are resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector, name, variant)
}

// PageRenderer renders pages through an orchestrator so every response picks
// up its resolved theme.
type PageRenderer struct {
	orch     *orchestrator.Orchestrator
	renderer string
}

var _ server.PageRenderer = (*PageRenderer)(nil)

// NewPageRenderer binds rendererName (empty for the default) on orch.
func NewPageRenderer(orch *orchestrator.Orchestrator, rendererName string) (*PageRenderer, error) {
	if orch == nil {
		return nil, errors.New("tripform: orchestrator is required")
	}
	registry, err := orch.Registry()
	if err != nil {
		return nil, err
	}
	if _, err := registry.Get(rendererName); err != nil {
		return nil, err
	}
	return &PageRenderer{orch: orch, renderer: rendererName}, nil
}

// Render implements server.PageRenderer.
func (p *PageRenderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	return p.orch.Render(ctx, form, p.renderer, opts)
}

// ContentType implements server.PageRenderer.
func (p *PageRenderer) ContentType() string {
	registry, err := p.orch.Registry()
	if err != nil {
		return "text/html; charset=utf-8"
	}
	renderer, err := registry.Get(p.renderer)
	if err != nil {
		return "text/html; charset=utf-8"
	}
	return renderer.ContentType()
}
