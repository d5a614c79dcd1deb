package model

import (
	"sort"
	"strings"
)

// allowedExtensionKeys lists the x-formgen-* suffixes the builder understands.
var allowedExtensionKeys = map[string]struct{}{
	"error-message": {},
	"input":         {},
}

// IsAllowedExtensionKey reports whether key (without the x-formgen- prefix)
// is understood by the builder.
func IsAllowedExtensionKey(key string) bool {
	_, ok := allowedExtensionKeys[strings.TrimSpace(key)]
	return ok
}

// AllowedExtensionKeys returns the supported extension suffixes in sorted
// order.
func AllowedExtensionKeys() []string {
	keys := make([]string, 0, len(allowedExtensionKeys))
	for key := range allowedExtensionKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
