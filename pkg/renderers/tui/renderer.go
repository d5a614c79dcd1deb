package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/goliatone/go-tripform/pkg/controller"
	"github.com/goliatone/go-tripform/pkg/model"
	"github.com/goliatone/go-tripform/pkg/render"
	"github.com/goliatone/go-tripform/pkg/validation"
)

// Submitter is the slice of the form controller the terminal session needs.
type Submitter interface {
	Form() model.FormModel
	Submit(ctx context.Context, values map[string]string) (controller.Status, error)
}

var _ Submitter = (*controller.Controller)(nil)

// Renderer implements render.Renderer for terminal-driven sessions and runs
// the interactive booking loop through Run.
type Renderer struct {
	driver       PromptDriver
	out          io.Writer
	outputFormat OutputFormat
	validator    *validation.Validator
	maxAttempts  int
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		maxAttempts:  DefaultMaxAttempts,
		theme:        Theme{ErrorPrefix: "✖ "},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	if r.validator == nil {
		r.validator = validation.New()
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatFormURLEncoded {
		return "application/x-www-form-urlencoded"
	}
	return "application/json"
}

// Render prompts every field once, re-asking until each answer passes its
// rules, and returns the collected values serialized in the output format.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	values, err := r.collect(ctx, form, opts.Values, opts.Errors)
	if err != nil {
		return nil, err
	}
	return r.serialize(form, values)
}

// Run drives a full booking session: prompt, submit, report the status and,
// after a failed submission, offer a retry that keeps the previous answers.
func (r *Renderer) Run(ctx context.Context, sub Submitter) (controller.Status, error) {
	if sub == nil {
		return controller.Status{}, errors.New("tui: submitter is required")
	}
	form := sub.Form()
	if title := form.UIHints["title"]; title != "" {
		if err := r.info(ctx, title); err != nil {
			return controller.Status{}, err
		}
	}

	var (
		values  map[string]string
		inlines map[string]string
	)
	for {
		collected, err := r.collect(ctx, form, values, inlines)
		if err != nil {
			return controller.Status{}, err
		}

		status, err := sub.Submit(ctx, collected)
		var verrs *validation.Errors
		switch {
		case errors.As(err, &verrs):
			values, inlines = collected, verrs.Map()
			continue
		case errors.Is(err, controller.ErrSubmissionInFlight), errors.Is(err, controller.ErrClosed):
			return controller.Status{}, err
		case err != nil && status.Message == "":
			return status, err
		}

		if infoErr := r.info(ctx, status.Message); infoErr != nil {
			return status, infoErr
		}
		if status.IsSuccess() {
			return status, nil
		}

		retry, confirmErr := r.driver.Confirm(ctx, ConfirmConfig{Message: "Try again?", Default: true})
		if confirmErr != nil {
			return status, confirmErr
		}
		if !retry {
			return status, err
		}
		values, inlines = collected, nil
	}
}

func (r *Renderer) collect(ctx context.Context, form model.FormModel, defaults, inlines map[string]string) (map[string]string, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	values := make(map[string]string, len(form.Fields))
	for _, field := range form.Fields {
		value, err := r.promptField(ctx, field, defaults[field.Name], inlines[field.Name])
		if err != nil {
			return nil, err
		}
		values[field.Name] = value
	}
	return values, nil
}

func (r *Renderer) promptField(ctx context.Context, field model.Field, current, inline string) (string, error) {
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if inline != "" {
			if err := r.info(ctx, r.theme.ErrorPrefix+inline); err != nil {
				return "", err
			}
		}

		answer, err := r.driver.Input(ctx, InputConfig{
			Message: promptMessage(field),
			Default: current,
			Help:    field.UIHints["helpText"],
		})
		if err != nil {
			return "", err
		}
		answer = strings.TrimSpace(answer)

		if err := r.validator.ValidateField(field, answer); err != nil {
			current, inline = answer, err.Error()
			continue
		}
		return answer, nil
	}
	return "", fmt.Errorf("%w: %s", ErrTooManyAttempts, field.Name)
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	if msg == "" {
		return nil
	}
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) serialize(form model.FormModel, values map[string]string) ([]byte, error) {
	if r.outputFormat == OutputFormatFormURLEncoded {
		encoded := url.Values{}
		for _, field := range form.Fields {
			if v := values[field.Name]; v != "" {
				encoded.Set(field.Name, v)
			}
		}
		return []byte(encoded.Encode()), nil
	}
	payload, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("tui: encode values: %w", err)
	}
	return payload, nil
}

func promptMessage(field model.Field) string {
	label := strings.TrimSpace(field.Label)
	if label == "" {
		label = field.Name
	}
	if field.Required {
		return label + " *"
	}
	if field.InputType == "date" {
		return label + " (YYYY-MM-DD)"
	}
	return label
}
