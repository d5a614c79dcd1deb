package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	pkgmodel "github.com/goliatone/go-tripform/pkg/model"
	"github.com/goliatone/go-tripform/pkg/sheets"
	"github.com/goliatone/go-tripform/pkg/validation"
)

var (
	// ErrSubmissionInFlight is returned while a previous submission from the
	// same controller has not completed.
	ErrSubmissionInFlight = errors.New("controller: submission already in flight")
	// ErrClosed is returned once the controller has been closed.
	ErrClosed = errors.New("controller: closed")
)

// Submitter forwards a validated booking to its destination.
type Submitter interface {
	Submit(ctx context.Context, booking pkgmodel.BookingForm) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, booking pkgmodel.BookingForm) error

// Submit implements Submitter.
func (fn SubmitterFunc) Submit(ctx context.Context, booking pkgmodel.BookingForm) error {
	return fn(ctx, booking)
}

// Timer is the handle returned by an AfterFunc.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules fn after d, mirroring time.AfterFunc.
type AfterFunc func(d time.Duration, fn func()) Timer

func stdAfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Option configures a Controller.
type Option func(*Controller)

// WithStatusTTL overrides how long a status stays visible.
func WithStatusTTL(ttl time.Duration) Option {
	return func(c *Controller) {
		if ttl > 0 {
			c.statusTTL = ttl
		}
	}
}

// WithLogger sets the logger used to record submission failures.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSanitizer replaces the value sanitizer applied before submission.
func WithSanitizer(sanitizer Sanitizer) Option {
	return func(c *Controller) {
		c.sanitizer = sanitizer
	}
}

// WithValidator shares a validator between controllers.
func WithValidator(v *validation.Validator) Option {
	return func(c *Controller) {
		if v != nil {
			c.validator = v
		}
	}
}

// WithClock swaps the time source used to age the status.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithAfterFunc swaps the timer factory, mainly for tests.
func WithAfterFunc(fn AfterFunc) Option {
	return func(c *Controller) {
		if fn != nil {
			c.afterFunc = fn
		}
	}
}

// State is a snapshot of the controller used by renderers.
type State struct {
	Values     map[string]string
	Errors     map[string]string
	Status     *Status
	Submitting bool

	// DismissAfter is how much longer Status stays visible.
	DismissAfter time.Duration
}

// Controller drives one booking form instance. It is safe for concurrent
// use; at most one submission runs at a time.
type Controller struct {
	form      pkgmodel.FormModel
	submitter Submitter
	validator *validation.Validator
	sanitizer Sanitizer
	logger    *zap.Logger
	statusTTL time.Duration
	afterFunc AfterFunc
	now       func() time.Time

	mu         sync.Mutex
	values     map[string]string
	errors     map[string]string
	status     *Status
	statusAt   time.Time
	submitting bool
	timer      Timer
	generation uint64
	closed     bool
}

// New builds a controller for the given form model.
func New(form pkgmodel.FormModel, submitter Submitter, options ...Option) (*Controller, error) {
	if submitter == nil {
		return nil, errors.New("controller: submitter is required")
	}
	if len(form.Fields) == 0 {
		return nil, errors.New("controller: form model has no fields")
	}

	c := &Controller{
		form:      form,
		submitter: submitter,
		sanitizer: StrictSanitizer(),
		logger:    zap.NewNop(),
		statusTTL: DefaultStatusTTL,
		afterFunc: stdAfterFunc,
		now:       time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	if c.validator == nil {
		c.validator = validation.New()
	}
	c.values = c.emptyValues()
	return c, nil
}

// Form returns the form model the controller renders.
func (c *Controller) Form() pkgmodel.FormModel {
	return c.form
}

// Submit sanitizes and validates values and, when they pass, forwards them
// through the submitter. Validation failures return *validation.Errors without touching
// the network. Submission failures set the error status, keep the values and
// return an error wrapping the cause. Either outcome schedules the status to
// clear after the status TTL.
func (c *Controller) Submit(ctx context.Context, values map[string]string) (Status, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Status{}, ErrClosed
	}
	if c.submitting {
		c.mu.Unlock()
		return Status{}, ErrSubmissionInFlight
	}

	c.values = c.sanitizeValues(c.collectValues(values))
	if errs := c.validator.Validate(c.form, c.values); errs != nil {
		c.errors = errs.Map()
		c.mu.Unlock()
		return Status{}, errs
	}

	c.errors = nil
	c.clearStatusLocked()
	c.submitting = true
	booking := pkgmodel.BookingFromValues(c.values)
	c.mu.Unlock()

	err := c.submitter.Submit(ctx, booking)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false

	status := successStatus()
	if err != nil {
		status = failureStatus()
		c.logFailure(err)
	} else {
		c.values = c.emptyValues()
		c.logger.Info("booking submitted", zap.Int("fields", len(booking.Query())))
	}

	if !c.closed {
		c.status = &status
		c.statusAt = c.now()
		c.scheduleClearLocked()
	}

	if err != nil {
		return status, fmt.Errorf("controller: submit booking: %w", err)
	}
	return status, nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := State{
		Values:     cloneStrings(c.values),
		Errors:     cloneStrings(c.errors),
		Submitting: c.submitting,
	}
	if c.status != nil {
		if remaining := c.statusTTL - c.now().Sub(c.statusAt); remaining > 0 {
			status := *c.status
			state.Status = &status
			state.DismissAfter = remaining
		}
	}
	return state
}

// Status returns the visible status, if any.
func (c *Controller) Status() (Status, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == nil {
		return Status{}, false
	}
	return *c.status, true
}

// Submitting reports whether a submission is in flight.
func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Reset empties every field and drops inline errors.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = c.emptyValues()
	c.errors = nil
}

// Close cancels the pending status timer. A closed controller rejects new
// submissions and ignores timers that were already running.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.stopTimerLocked()
	c.generation++
}

func (c *Controller) scheduleClearLocked() {
	c.stopTimerLocked()
	c.generation++
	generation := c.generation
	c.timer = c.afterFunc(c.statusTTL, func() {
		c.expireStatus(generation)
	})
}

func (c *Controller) expireStatus(generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || generation != c.generation {
		return
	}
	c.status = nil
	c.timer = nil
}

func (c *Controller) clearStatusLocked() {
	c.stopTimerLocked()
	c.generation++
	c.status = nil
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) logFailure(err error) {
	fields := []zap.Field{zap.Error(err)}
	var subErr *sheets.SubmissionError
	if errors.As(err, &subErr) {
		fields = append(fields, zap.String("kind", string(subErr.Kind)))
		if subErr.StatusCode != 0 {
			fields = append(fields, zap.Int("status", subErr.StatusCode))
		}
	}
	c.logger.Error("booking submission failed", fields...)
}

func (c *Controller) collectValues(values map[string]string) map[string]string {
	out := make(map[string]string, len(c.form.Fields))
	for _, field := range c.form.Fields {
		out[field.Name] = values[field.Name]
	}
	return out
}

// sanitizeValues runs the sanitizer over every field so validation sees the
// exact values that will be forwarded.
func (c *Controller) sanitizeValues(values map[string]string) map[string]string {
	if c.sanitizer == nil {
		return values
	}
	for name, value := range values {
		values[name] = c.sanitizer.Sanitize(value)
	}
	return values
}

func (c *Controller) emptyValues() map[string]string {
	out := make(map[string]string, len(c.form.Fields))
	for _, field := range c.form.Fields {
		out[field.Name] = ""
	}
	return out
}

func cloneStrings(src map[string]string) map[string]string {
	if src == nil {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
