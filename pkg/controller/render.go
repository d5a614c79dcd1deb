package controller

import (
	"time"

	"github.com/goliatone/go-tripform/pkg/render"
)

// RenderOptions converts the snapshot into renderer input.
func (s State) RenderOptions() render.RenderOptions {
	opts := render.RenderOptions{
		Values:     cloneStrings(s.Values),
		Errors:     cloneStrings(s.Errors),
		Submitting: s.Submitting,
	}
	if s.Status != nil {
		opts.Status = &render.Status{Kind: string(s.Status.Kind), Message: s.Status.Message}
		opts.DismissAfter = s.DismissAfter
	}
	return opts
}

// StatusTTL reports how long a status stays visible.
func (c *Controller) StatusTTL() time.Duration {
	return c.statusTTL
}
