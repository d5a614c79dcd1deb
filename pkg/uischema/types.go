package uischema

import "strings"

// Store keeps the parsed operations from UI schema documents. It is safe for
// concurrent readers when treated as immutable after construction.
type Store struct {
	operations map[string]Operation
}

// Operation describes the UI schema overrides for a specific operation.
type Operation struct {
	ID     string
	Source string
	Form   FormConfig
	Fields map[string]FieldConfig
}

// FormConfig captures form level copy and the label variant.
type FormConfig struct {
	Title           string            `json:"title" yaml:"title"`
	Subtitle        string            `json:"subtitle" yaml:"subtitle"`
	SubmitLabel     string            `json:"submitLabel" yaml:"submitLabel"`
	SubmittingLabel string            `json:"submittingLabel" yaml:"submittingLabel"`
	LabelVariant    string            `json:"labelVariant" yaml:"labelVariant"`
	UIHints         map[string]string `json:"uiHints" yaml:"uiHints"`
}

// FieldConfig customises how a single field is rendered.
type FieldConfig struct {
	Order        *int              `json:"order,omitempty" yaml:"order,omitempty"`
	Label        string            `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder  string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	HelpText     string            `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	InputType    string            `json:"inputType,omitempty" yaml:"inputType,omitempty"`
	Autocomplete string            `json:"autocomplete,omitempty" yaml:"autocomplete,omitempty"`
	CSSClass     string            `json:"cssClass,omitempty" yaml:"cssClass,omitempty"`
	UIHints      map[string]string `json:"uiHints,omitempty" yaml:"uiHints,omitempty"`
}

// Form level UI hint keys written by the decorator.
const (
	HintTitle           = "title"
	HintSubtitle        = "subtitle"
	HintSubmitLabel     = "submitLabel"
	HintSubmittingLabel = "submittingLabel"
	HintLabelVariant    = "labelVariant"
)

// Field level UI hint keys written by the decorator.
const (
	HintHelpText     = "helpText"
	HintAutocomplete = "autocomplete"
	HintCSSClass     = "cssClass"
)

// NormalizeFieldName trims a field key from a UI schema document.
func NormalizeFieldName(name string) string {
	return strings.Trim(strings.TrimSpace(name), ".")
}
