package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-tripform/pkg/model"
	"github.com/goliatone/go-tripform/pkg/render"
	rendertemplate "github.com/goliatone/go-tripform/pkg/render/template"
	gotemplate "github.com/goliatone/go-tripform/pkg/render/template/gotemplate"
)

const (
	defaultSubmitLabel     = "Submit"
	defaultSubmittingLabel = "Submitting..."
	formTemplate           = "templates/form.tmpl"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	labelVariant     LabelVariant
	inlineAssets     bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithLabelVariant forces a label variant. Without it the form's
// labelVariant UI hint decides.
func WithLabelVariant(variant LabelVariant) Option {
	return func(cfg *config) {
		cfg.labelVariant = variant
	}
}

// WithInlineAssets embeds the stylesheet and dismiss script in the page
// instead of linking to AssetsPath.
func WithInlineAssets(inline bool) Option {
	return func(cfg *config) {
		cfg.inlineAssets = inline
	}
}

// Renderer produces the booking page as HTML.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	labelVariant LabelVariant
	inlineAssets bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), inlineAssets: true}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:    renderer,
		labelVariant: cfg.labelVariant,
		inlineAssets: cfg.inlineAssets,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render emits the full booking page for the given state.
func (r *Renderer) Render(_ context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	result, err := r.templates.RenderTemplate(formTemplate, r.templateData(form, options))
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) templateData(form model.FormModel, options render.RenderOptions) map[string]any {
	variant := r.labelVariant
	if variant == "" {
		variant = ParseLabelVariant(form.UIHints["labelVariant"])
	}
	fieldRenderer := NewFieldRenderer(variant)
	now := options.Clock()

	fields := make([]string, 0, len(form.Fields))
	for _, field := range form.Fields {
		in := FieldInputFrom(field, options.Values[field.Name], options.Errors[field.Name])
		fields = append(fields, fieldRenderer.Render(in, now))
	}

	submitLabel := firstNonEmpty(form.UIHints["submitLabel"], defaultSubmitLabel)
	submittingLabel := firstNonEmpty(form.UIHints["submittingLabel"], defaultSubmittingLabel)
	if options.Submitting {
		submitLabel = submittingLabel
	}

	action := firstNonEmpty(options.Action, "/")

	data := map[string]any{
		"title":           firstNonEmpty(form.UIHints["title"], form.Summary, form.OperationID),
		"subtitle":        form.UIHints["subtitle"],
		"action":          action,
		"method":          "post",
		"fields":          fields,
		"submitLabel":     submitLabel,
		"submittingLabel": submittingLabel,
		"submitting":      options.Submitting,
		"inline":          r.inlineAssets,
	}

	if r.inlineAssets {
		data["stylesheet"] = defaultStylesheet()
		data["script"] = defaultScript()
	} else {
		data["stylesheetURL"] = AssetsPath + "/" + StylesheetName
		data["scriptURL"] = AssetsPath + "/" + ScriptName
	}

	if options.Status != nil && strings.TrimSpace(options.Status.Message) != "" {
		data["status"] = map[string]any{
			"kind":           options.Status.Kind,
			"message":        options.Status.Message,
			"dismissAfterMs": options.DismissAfter.Milliseconds(),
		}
	}

	if cfg := options.Theme; cfg != nil {
		data["theme"] = map[string]any{
			"name":    cfg.Theme,
			"variant": cfg.Variant,
			"style":   cssVarsStyle(cfg.CSSVars),
		}
	}
	return data
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
