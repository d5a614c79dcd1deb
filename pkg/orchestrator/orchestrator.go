package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-tripform/pkg/model"
	pkgopenapi "github.com/goliatone/go-tripform/pkg/openapi"
	"github.com/goliatone/go-tripform/pkg/render"
	"github.com/goliatone/go-tripform/pkg/renderers/vanilla"
	"github.com/goliatone/go-tripform/pkg/uischema"
)

const defaultRendererName = "vanilla"

// Parser lists the operations of an OpenAPI document.
type Parser interface {
	Operations(ctx context.Context, doc pkgopenapi.Document) (map[string]pkgopenapi.Operation, error)
}

// Decorator mutates a built form model before rendering.
type Decorator interface {
	Decorate(form *model.FormModel) error
}

var (
	_ Parser    = (*pkgopenapi.Parser)(nil)
	_ Decorator = (*uischema.Decorator)(nil)
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithDocument replaces the embedded booking document.
func WithDocument(doc pkgopenapi.Document) Option {
	return func(o *Orchestrator) {
		o.document = &doc
	}
}

// WithParser injects a custom OpenAPI parser.
func WithParser(parser Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithModelBuilder injects a custom form model builder.
func WithModelBuilder(builder model.Builder) Option {
	return func(o *Orchestrator) {
		o.builder = builder
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithUIDecorators registers decorators that run after the UI schema.
func WithUIDecorators(decorators ...Decorator) Option {
	return func(o *Orchestrator) {
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithUISchemaFS supplies an fs.FS holding UI schema documents. Pass nil to
// disable the embedded defaults.
func WithUISchemaFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		o.uiSchemaFS = fsys
		o.uiSchemaSpecified = true
	}
}

// WithThemeSelector resolves theme tokens for every render that does not
// already carry a theme.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
		o.themeName = name
		o.themeVariant = variant
	}
}

// Orchestrator turns the booking document into a decorated form model and
// renders it through the registry. Built forms are cached per operation.
type Orchestrator struct {
	document          *pkgopenapi.Document
	parser            Parser
	builder           model.Builder
	registry          *render.Registry
	defaultRenderer   string
	decorators        []Decorator
	uiSchemaFS        fs.FS
	uiSchemaSpecified bool
	themeSelector     theme.ThemeSelector
	themeName         string
	themeVariant      string

	initOnce sync.Once
	initErr  error

	mu    sync.Mutex
	forms map[string]model.FormModel
	theme *theme.RendererConfig
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised lazily with the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		forms:           make(map[string]model.FormModel),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	return o
}

// Request describes one render.
type Request struct {
	// OperationID selects the operation; empty means the booking operation.
	OperationID string
	// Renderer names the renderer to use; empty means the default renderer.
	Renderer string
	// RenderOptions carries per-request state such as values and errors.
	RenderOptions render.RenderOptions
}

// Form builds (or returns the cached) decorated form model for operationID.
func (o *Orchestrator) Form(ctx context.Context, operationID string) (model.FormModel, error) {
	if ctx == nil {
		return model.FormModel{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return model.FormModel{}, err
	}
	if err := o.init(); err != nil {
		return model.FormModel{}, err
	}
	if operationID == "" {
		operationID = pkgopenapi.BookingOperationID
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if form, ok := o.forms[operationID]; ok {
		return form, nil
	}

	operations, err := o.parser.Operations(ctx, *o.document)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("orchestrator: parse operations: %w", err)
	}
	op, ok := operations[operationID]
	if !ok {
		return model.FormModel{}, fmt.Errorf("orchestrator: operation %q not found", operationID)
	}

	form, err := o.builder.Build(op)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("orchestrator: build form model: %w", err)
	}
	for _, decorator := range o.decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(&form); err != nil {
			return model.FormModel{}, fmt.Errorf("orchestrator: decorate form: %w", err)
		}
	}

	o.forms[operationID] = form
	return form, nil
}

// Generate builds the form and renders it with the requested renderer.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	form, err := o.Form(ctx, req.OperationID)
	if err != nil {
		return nil, err
	}
	return o.Render(ctx, form, req.Renderer, req.RenderOptions)
}

// Render renders an already built form, applying the configured theme when
// the options carry none.
func (o *Orchestrator) Render(ctx context.Context, form model.FormModel, rendererName string, opts render.RenderOptions) ([]byte, error) {
	if err := o.init(); err != nil {
		return nil, err
	}
	renderer, err := o.rendererFor(rendererName)
	if err != nil {
		return nil, err
	}
	if opts.Theme == nil {
		opts.Theme = o.theme
	}

	output, err := renderer.Render(ctx, form, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() (*render.Registry, error) {
	if err := o.init(); err != nil {
		return nil, err
	}
	return o.registry, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	target := name
	if target == "" {
		target = o.defaultRenderer
	}
	renderer, err := o.registry.Get(target)
	if err != nil {
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
		if renderer, err = o.registry.Get(""); err != nil {
			return nil, fmt.Errorf("orchestrator: no renderer available: %w", err)
		}
	}
	return renderer, nil
}

func (o *Orchestrator) init() error {
	o.initOnce.Do(func() {
		o.initErr = o.applyDefaults()
	})
	return o.initErr
}

func (o *Orchestrator) applyDefaults() error {
	if o.document == nil {
		doc, err := pkgopenapi.BookingDocument()
		if err != nil {
			return fmt.Errorf("orchestrator: load booking document: %w", err)
		}
		o.document = &doc
	}
	if o.parser == nil {
		o.parser = pkgopenapi.NewParser()
	}
	if o.builder == nil {
		o.builder = model.NewBuilder()
	}
	if o.registry == nil {
		renderer, err := vanilla.New()
		if err != nil {
			return fmt.Errorf("orchestrator: default renderer: %w", err)
		}
		registry, err := render.NewRegistry(renderer)
		if err != nil {
			return fmt.Errorf("orchestrator: default registry: %w", err)
		}
		o.registry = registry
	}

	if err := o.ensureUIDecorator(); err != nil {
		return err
	}

	if o.themeSelector != nil {
		cfg, err := vanilla.ThemeConfig(o.themeSelector, o.themeName, o.themeVariant)
		if err != nil {
			return fmt.Errorf("orchestrator: resolve theme: %w", err)
		}
		o.theme = cfg
	}
	return nil
}

func (o *Orchestrator) ensureUIDecorator() error {
	if !o.uiSchemaSpecified && o.uiSchemaFS == nil {
		o.uiSchemaFS = uischema.EmbeddedFS()
	}
	if o.uiSchemaFS == nil {
		return nil
	}

	store, err := uischema.LoadFS(o.uiSchemaFS)
	if err != nil {
		return fmt.Errorf("orchestrator: load ui schema: %w", err)
	}
	if store.Empty() {
		return nil
	}

	o.decorators = append([]Decorator{uischema.NewDecorator(store)}, o.decorators...)
	return nil
}
