package vanilla

import (
	"html"
	"strings"
	"time"

	"github.com/goliatone/go-tripform/pkg/model"
)

// LabelVariant selects how required and optional fields are marked.
type LabelVariant string

const (
	// LabelRequiredMarker appends " *" to required labels.
	LabelRequiredMarker LabelVariant = "required"
	// LabelOptionalMarker appends " (optional)" to optional labels.
	LabelOptionalMarker LabelVariant = "optional"
)

const dateLayout = "2006-01-02"

// ParseLabelVariant maps a configuration string onto a LabelVariant. Unknown
// or empty values fall back to LabelRequiredMarker.
func ParseLabelVariant(value string) LabelVariant {
	switch LabelVariant(strings.ToLower(strings.TrimSpace(value))) {
	case LabelOptionalMarker:
		return LabelOptionalMarker
	default:
		return LabelRequiredMarker
	}
}

// FieldInput is everything the field renderer needs for one control.
type FieldInput struct {
	Name         string
	Label        string
	Type         string
	Value        string
	Placeholder  string
	Autocomplete string
	HelpText     string
	CSSClass     string
	Required     bool
	Error        string
}

// FieldInputFrom builds the renderer input for a model field.
func FieldInputFrom(field model.Field, value, errMsg string) FieldInput {
	return FieldInput{
		Name:         field.Name,
		Label:        field.Label,
		Type:         field.InputType,
		Value:        value,
		Placeholder:  field.Placeholder,
		Autocomplete: field.UIHints["autocomplete"],
		HelpText:     field.UIHints["helpText"],
		CSSClass:     field.UIHints["cssClass"],
		Required:     field.Required,
		Error:        errMsg,
	}
}

// FieldRenderer emits the markup for a single labelled input.
type FieldRenderer struct {
	variant LabelVariant
}

// NewFieldRenderer returns a field renderer using the given label variant.
func NewFieldRenderer(variant LabelVariant) FieldRenderer {
	if variant == "" {
		variant = LabelRequiredMarker
	}
	return FieldRenderer{variant: variant}
}

// Variant reports the label variant in use.
func (r FieldRenderer) Variant() LabelVariant {
	return r.variant
}

// LabelText returns the label with the variant's marker applied.
func (r FieldRenderer) LabelText(in FieldInput) string {
	label := strings.TrimSpace(in.Label)
	if label == "" {
		label = in.Name
	}
	switch {
	case r.variant == LabelRequiredMarker && in.Required:
		return label + " *"
	case r.variant == LabelOptionalMarker && !in.Required:
		return label + " (optional)"
	}
	return label
}

// MinDate returns the earliest selectable travel date relative to now.
func MinDate(now time.Time) string {
	return now.AddDate(0, 0, 1).Format(dateLayout)
}

// Render builds the field markup. now anchors the date constraint.
func (r FieldRenderer) Render(in FieldInput, now time.Time) string {
	inputType := strings.TrimSpace(in.Type)
	if inputType == "" {
		inputType = "text"
	}
	id := controlID(in.Name)
	hasError := strings.TrimSpace(in.Error) != ""

	var b strings.Builder
	b.Grow(512)

	b.WriteString(`<div class="tf-field`)
	if cls := strings.TrimSpace(in.CSSClass); cls != "" {
		b.WriteByte(' ')
		b.WriteString(html.EscapeString(cls))
	}
	b.WriteString(`" data-field="`)
	b.WriteString(html.EscapeString(in.Name))
	b.WriteString("\">\n")

	b.WriteString(`    <label for="`)
	b.WriteString(id)
	b.WriteString(`" class="tf-label">`)
	b.WriteString(html.EscapeString(r.LabelText(in)))
	b.WriteString("</label>\n")

	b.WriteString(`    <input id="`)
	b.WriteString(id)
	b.WriteString(`" name="`)
	b.WriteString(html.EscapeString(in.Name))
	b.WriteString(`" type="`)
	b.WriteString(html.EscapeString(inputType))
	b.WriteString(`" class="tf-input `)
	if hasError {
		b.WriteString("tf-input--error")
	} else {
		b.WriteString("tf-input--ok")
	}
	b.WriteString(`"`)
	writeAttr(&b, "value", in.Value, true)
	writeAttr(&b, "placeholder", in.Placeholder, false)
	writeAttr(&b, "autocomplete", in.Autocomplete, false)
	if inputType == "date" {
		writeAttr(&b, "min", MinDate(now), false)
	}
	if in.Required {
		b.WriteString(" required")
	}
	if hasError {
		b.WriteString(` aria-invalid="true" aria-describedby="`)
		b.WriteString(id)
		b.WriteString(`-error"`)
	}
	b.WriteString(">\n")

	if hint := strings.TrimSpace(in.HelpText); hint != "" {
		b.WriteString(`    <small class="tf-help">`)
		b.WriteString(html.EscapeString(hint))
		b.WriteString("</small>\n")
	}

	if hasError {
		b.WriteString(`    <p id="`)
		b.WriteString(id)
		b.WriteString(`-error" class="tf-error" role="alert">`)
		b.WriteString(html.EscapeString(in.Error))
		b.WriteString("</p>\n")
	}

	b.WriteString("</div>\n")
	return b.String()
}

func writeAttr(b *strings.Builder, name, value string, always bool) {
	if value == "" && !always {
		return
	}
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(value))
	b.WriteByte('"')
}

func controlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "tf-" + html.EscapeString(trimmed)
}
