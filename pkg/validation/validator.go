package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	pkgmodel "github.com/goliatone/go-tripform/pkg/model"
)

// DateLayout is the calendar date layout accepted for date fields.
const DateLayout = "2006-01-02"

// formatTags maps schema formats onto validator tags. Unknown formats are not
// checked.
var formatTags = map[string]string{
	"email": "email",
	"date":  "datetime=" + DateLayout,
	"uri":   "uri",
	"url":   "url",
}

// Validator checks submitted values against a form model's rules.
type Validator struct {
	checker *validator.Validate
	mu      sync.Mutex
	rules   map[string]rules
}

// New constructs a Validator.
func New() *Validator {
	return &Validator{
		checker: validator.New(),
		rules:   make(map[string]rules),
	}
}

// Validate returns nil when every field passes, otherwise the per-field
// messages. Optional fields left empty are treated as absent and skip all
// rules.
func (v *Validator) Validate(form pkgmodel.FormModel, values map[string]string) *Errors {
	errs := &Errors{}
	for _, field := range form.Fields {
		r := v.collect(form.OperationID, field)
		if msg := r.check(v.checker, values[field.Name]); msg != "" {
			errs.add(field.Name, msg)
		}
	}
	if len(errs.Fields) == 0 {
		return nil
	}
	return errs
}

// ValidateField runs the rules of a single field.
func (v *Validator) ValidateField(field pkgmodel.Field, value string) error {
	r := v.collect("", field)
	if msg := r.check(v.checker, value); msg != "" {
		return fmt.Errorf("%s", msg)
	}
	return nil
}

type rules struct {
	label    string
	required bool
	minLen   *int
	maxLen   *int
	pattern  *regexp.Regexp
	format   string
	messages map[string]string
}

func (v *Validator) collect(scope string, field pkgmodel.Field) rules {
	key := scope + "/" + field.Name
	v.mu.Lock()
	defer v.mu.Unlock()
	if cached, ok := v.rules[key]; ok && scope != "" {
		return cached
	}

	r := rules{
		label:    field.Label,
		required: field.Required,
		messages: make(map[string]string),
	}
	if r.label == "" {
		r.label = field.Name
	}
	for _, rule := range field.Validations {
		if msg := strings.TrimSpace(rule.Params["message"]); msg != "" {
			r.messages[rule.Kind] = msg
		}
		switch rule.Kind {
		case pkgmodel.ValidationRuleRequired:
			r.required = true
		case pkgmodel.ValidationRuleMinLength:
			if val, err := strconv.Atoi(rule.Params["value"]); err == nil {
				r.minLen = &val
			}
		case pkgmodel.ValidationRuleMaxLength:
			if val, err := strconv.Atoi(rule.Params["value"]); err == nil {
				r.maxLen = &val
			}
		case pkgmodel.ValidationRulePattern:
			if expr := rule.Params["pattern"]; expr != "" {
				if re, err := regexp.Compile(expr); err == nil {
					r.pattern = re
				}
			}
		case pkgmodel.ValidationRuleFormat:
			r.format = strings.TrimSpace(rule.Params["format"])
		}
	}
	if scope != "" {
		v.rules[key] = r
	}
	return r
}

func (r rules) check(checker *validator.Validate, value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if r.required {
			return r.message(pkgmodel.ValidationRuleRequired, fmt.Sprintf("%s is required", r.label))
		}
		return ""
	}

	length := utf8.RuneCountInString(trimmed)
	if r.minLen != nil && length < *r.minLen {
		return r.message(pkgmodel.ValidationRuleMinLength, fmt.Sprintf("%s must be at least %d characters", r.label, *r.minLen))
	}
	if r.maxLen != nil && length > *r.maxLen {
		return r.message(pkgmodel.ValidationRuleMaxLength, fmt.Sprintf("%s must be at most %d characters", r.label, *r.maxLen))
	}
	if r.pattern != nil && !r.pattern.MatchString(trimmed) {
		return r.message(pkgmodel.ValidationRulePattern, fmt.Sprintf("%s has an invalid format", r.label))
	}
	if tag, ok := formatTags[r.format]; ok {
		if err := checker.Var(trimmed, tag); err != nil {
			return r.message(pkgmodel.ValidationRuleFormat, fmt.Sprintf("%s is not a valid %s", r.label, r.format))
		}
	}
	return ""
}

func (r rules) message(kind, fallback string) string {
	if msg := r.messages[kind]; msg != "" {
		return msg
	}
	return fallback
}
