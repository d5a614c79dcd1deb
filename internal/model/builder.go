package model

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	pkgopenapi "github.com/goliatone/go-tripform/pkg/openapi"
)

const extensionPrefix = "x-formgen-"

var (
	errOperationIDMissing     = errors.New("model builder: operation id is required")
	errOperationPathMissing   = errors.New("model builder: operation path is required")
	errOperationMethodMissing = errors.New("model builder: operation method is required")
)

// Builder converts OpenAPI operations into form models.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	return &Builder{opts: opts}
}

// Build transforms an OpenAPI operation into a FormModel. Only flat object
// request bodies are supported; nested objects are rejected.
func (b *Builder) Build(op pkgopenapi.Operation) (FormModel, error) {
	if err := validateOperation(op); err != nil {
		return FormModel{}, err
	}

	form := FormModel{
		OperationID: op.ID,
		Endpoint:    op.Path,
		Method:      strings.ToUpper(op.Method),
		Summary:     op.Summary,
		Description: op.Description,
		Metadata:    metadataFromExtensions(op.Extensions),
	}

	body := op.RequestBody
	if body.Type != "" && body.Type != "object" {
		return FormModel{}, fmt.Errorf("model builder: operation %q request body must be an object, got %q", op.ID, body.Type)
	}

	required := make(map[string]struct{}, len(body.Required))
	for _, name := range body.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		prop := body.Properties[name]
		if prop.Type == "object" || len(prop.Properties) > 0 {
			return FormModel{}, fmt.Errorf("model builder: nested object field %q is not supported", name)
		}
		_, isRequired := required[name]
		form.Fields = append(form.Fields, b.fieldFromPrimitive(name, prop, isRequired))
	}

	return form, nil
}

func validateOperation(op pkgopenapi.Operation) error {
	if op.ID == "" {
		return errOperationIDMissing
	}
	if op.Path == "" {
		return errOperationPathMissing
	}
	if op.Method == "" {
		return errOperationMethodMissing
	}
	return nil
}

func (b *Builder) fieldFromPrimitive(name string, schema pkgopenapi.Schema, required bool) Field {
	label := schema.Title
	if label == "" {
		label = b.opts.Labeler(name)
	}
	field := Field{
		Name:        name,
		Type:        mapType(schema.Type),
		Format:      schema.Format,
		Required:    required,
		Label:       label,
		Description: schema.Description,
		Metadata:    metadataFromExtensions(schema.Extensions),
	}
	field.InputType = inputType(field, field.Metadata)
	applyValidations(&field, schema)
	return field
}

func mapType(schemaType string) FieldType {
	switch schemaType {
	case "integer":
		return FieldTypeInteger
	case "number":
		return FieldTypeNumber
	case "boolean":
		return FieldTypeBoolean
	case "object":
		return FieldTypeObject
	default:
		return FieldTypeString
	}
}

// inputType derives the HTML input type from the schema format unless an
// explicit input extension is present.
func inputType(field Field, metadata map[string]string) string {
	if explicit := strings.TrimSpace(metadata["input"]); explicit != "" {
		return explicit
	}
	switch field.Format {
	case "email":
		return "email"
	case "date":
		return "date"
	case "tel", "phone":
		return "tel"
	}
	switch field.Type {
	case FieldTypeInteger, FieldTypeNumber:
		return "number"
	case FieldTypeBoolean:
		return "checkbox"
	default:
		return "text"
	}
}

func applyValidations(field *Field, schema pkgopenapi.Schema) {
	message := field.ErrorMessage()
	withMessage := func(params map[string]string) map[string]string {
		if message != "" {
			params["message"] = message
		}
		return params
	}

	if field.Required {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleRequired,
			Params: withMessage(map[string]string{}),
		})
	}
	if schema.MinLength != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMinLength,
			Params: withMessage(map[string]string{"value": strconv.Itoa(*schema.MinLength)}),
		})
	}
	if schema.MaxLength != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMaxLength,
			Params: withMessage(map[string]string{"value": strconv.Itoa(*schema.MaxLength)}),
		})
	}
	if schema.Pattern != "" {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRulePattern,
			Params: withMessage(map[string]string{"pattern": schema.Pattern}),
		})
	}
	if schema.Format != "" {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleFormat,
			Params: withMessage(map[string]string{"format": schema.Format}),
		})
	}
}

// metadataFromExtensions flattens x-formgen-* extensions into metadata keys,
// e.g. x-formgen-error-message becomes errorMessage.
func metadataFromExtensions(ext map[string]any) map[string]string {
	if len(ext) == 0 {
		return nil
	}
	out := make(map[string]string, len(ext))
	for key, value := range ext {
		if !strings.HasPrefix(key, extensionPrefix) {
			continue
		}
		str, ok := value.(string)
		if !ok {
			continue
		}
		out[metadataKey(strings.TrimPrefix(key, extensionPrefix))] = strings.TrimSpace(str)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func metadataKey(raw string) string {
	parts := strings.Split(raw, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}
	return strings.Join(parts, "")
}
