package controller

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans a single submitted value before it leaves the process.
type Sanitizer interface {
	Sanitize(value string) string
}

// SanitizerFunc adapts a function to Sanitizer.
type SanitizerFunc func(string) string

// Sanitize implements Sanitizer.
func (fn SanitizerFunc) Sanitize(value string) string {
	return fn(value)
}

var (
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy
)

// StrictSanitizer strips every HTML element from values while keeping their
// text. bluemonday escapes entities on output, so the text is unescaped again
// to forward what the traveler typed.
func StrictSanitizer() Sanitizer {
	return SanitizerFunc(func(value string) string {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return ""
		}
		cleaned := strictSanitizer().Sanitize(trimmed)
		return strings.TrimSpace(html.UnescapeString(cleaned))
	})
}

func strictSanitizer() *bluemonday.Policy {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}
