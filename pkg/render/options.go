package render

import (
	"time"

	theme "github.com/goliatone/go-theme"
)

// Status is the banner shown after a submission attempt.
type Status struct {
	Kind    string
	Message string
}

// RenderOptions describe per-request data that renderers use to customise
// their output without mutating the form model.
type RenderOptions struct {
	// Values pre-populates controls keyed by field name.
	Values map[string]string
	// Errors holds inline validation messages keyed by field name.
	Errors map[string]string
	// Status is the transient submission banner; nil renders no banner.
	Status *Status
	// DismissAfter tells the page how long the banner stays visible.
	DismissAfter time.Duration
	// Submitting renders the submit control inert.
	Submitting bool
	// Now anchors date constraints. Zero means time.Now at render time.
	Now time.Time
	// Action overrides the form action URL.
	Action string
	// Theme carries resolved go-theme tokens and CSS variables.
	Theme *theme.RendererConfig
}

// Clock returns Now, falling back to the current time.
func (o RenderOptions) Clock() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}
