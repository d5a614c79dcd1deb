package uischema

import (
	"fmt"
	"sort"

	pkgmodel "github.com/goliatone/go-tripform/pkg/model"
)

// Decorator applies UI schema metadata to a form model.
type Decorator struct {
	store *Store
}

// NewDecorator builds a Decorator backed by the provided store. When store is
// nil or empty, the decorator becomes a no-op.
func NewDecorator(store *Store) *Decorator {
	return &Decorator{store: store}
}

// Decorate augments the supplied form model with UI schema metadata. When no
// matching operation is found the form is left untouched.
func (d *Decorator) Decorate(form *pkgmodel.FormModel) error {
	if d == nil || d.store == nil || d.store.Empty() || form == nil {
		return nil
	}

	op, ok := d.store.Operation(form.OperationID)
	if !ok {
		return nil
	}

	applyFormConfig(form, op)
	return applyFieldConfig(form, op)
}

func applyFormConfig(form *pkgmodel.FormModel, op Operation) {
	form.UIHints = mergeStringMap(form.UIHints, op.Form.UIHints)

	set := func(key, value string) {
		if value == "" {
			return
		}
		form.UIHints = ensureStringMap(form.UIHints)
		form.UIHints[key] = value
	}
	set(HintTitle, op.Form.Title)
	set(HintSubtitle, op.Form.Subtitle)
	set(HintSubmitLabel, op.Form.SubmitLabel)
	set(HintSubmittingLabel, op.Form.SubmittingLabel)
	set(HintLabelVariant, op.Form.LabelVariant)
}

func applyFieldConfig(form *pkgmodel.FormModel, op Operation) error {
	originals := make(map[string]int, len(form.Fields))
	known := make(map[string]struct{}, len(form.Fields))
	for idx, field := range form.Fields {
		originals[field.Name] = idx
		known[field.Name] = struct{}{}
	}

	for name := range op.Fields {
		if _, ok := known[name]; !ok {
			return fmt.Errorf("uischema: operation %q (file %s) configures unknown field %q", op.ID, op.Source, name)
		}
	}

	explicit := make(map[string]int, len(op.Fields))
	for idx := range form.Fields {
		field := &form.Fields[idx]
		cfg, ok := op.Fields[field.Name]
		if !ok {
			continue
		}
		applyFieldCopy(field, cfg)
		if cfg.Order != nil {
			explicit[field.Name] = *cfg.Order
		}
	}

	reorderFields(form.Fields, explicit, originals)
	return nil
}

func applyFieldCopy(field *pkgmodel.Field, cfg FieldConfig) {
	if cfg.Label != "" {
		field.Label = cfg.Label
	}
	if cfg.Placeholder != "" {
		field.Placeholder = cfg.Placeholder
	}
	if cfg.InputType != "" {
		field.InputType = cfg.InputType
	}
	if len(cfg.UIHints) > 0 {
		field.UIHints = ensureStringMap(field.UIHints)
		for key, value := range cfg.UIHints {
			field.UIHints[key] = value
		}
	}
	if cfg.HelpText != "" {
		field.UIHints = ensureStringMap(field.UIHints)
		field.UIHints[HintHelpText] = cfg.HelpText
	}
	if cfg.Autocomplete != "" {
		field.UIHints = ensureStringMap(field.UIHints)
		field.UIHints[HintAutocomplete] = cfg.Autocomplete
	}
	if cfg.CSSClass != "" {
		field.UIHints = ensureStringMap(field.UIHints)
		field.UIHints[HintCSSClass] = cfg.CSSClass
	}
}

// reorderFields sorts explicitly ordered fields first, keeping the builder
// order for everything else.
func reorderFields(fields []pkgmodel.Field, explicit, originals map[string]int) {
	sort.SliceStable(fields, func(i, j int) bool {
		nameI, nameJ := fields[i].Name, fields[j].Name
		orderI, hasI := explicit[nameI]
		orderJ, hasJ := explicit[nameJ]

		switch {
		case hasI && hasJ:
			if orderI != orderJ {
				return orderI < orderJ
			}
			return originals[nameI] < originals[nameJ]
		case hasI:
			return true
		case hasJ:
			return false
		}
		return originals[nameI] < originals[nameJ]
	})
}

func ensureStringMap(m map[string]string) map[string]string {
	if m == nil {
		return make(map[string]string)
	}
	return m
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	dst = ensureStringMap(dst)
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
