package controller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	pkgmodel "github.com/goliatone/go-tripform/pkg/model"
	"github.com/goliatone/go-tripform/pkg/sheets"
	"github.com/goliatone/go-tripform/pkg/testsupport"
	"github.com/goliatone/go-tripform/pkg/validation"
)

type fakeTimer struct {
	d       time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

type timers struct {
	mu  sync.Mutex
	all []*fakeTimer
}

func (ts *timers) afterFunc(d time.Duration, fn func()) Timer {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	timer := &fakeTimer{d: d, fn: fn}
	ts.all = append(ts.all, timer)
	return timer
}

func (ts *timers) last(t *testing.T) *fakeTimer {
	t.Helper()
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if len(ts.all) == 0 {
		t.Fatalf("no timer scheduled")
	}
	return ts.all[len(ts.all)-1]
}

type recordingSubmitter struct {
	mu       sync.Mutex
	err      error
	bookings []pkgmodel.BookingForm
	block    chan struct{}
	started  chan struct{}
}

func (s *recordingSubmitter) Submit(ctx context.Context, booking pkgmodel.BookingForm) error {
	s.mu.Lock()
	s.bookings = append(s.bookings, booking)
	block, started, err := s.block, s.started, s.err
	s.mu.Unlock()

	if started != nil {
		close(started)
	}
	if block != nil {
		<-block
	}
	return err
}

func (s *recordingSubmitter) calls() []pkgmodel.BookingForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]pkgmodel.BookingForm(nil), s.bookings...)
}

func newController(t *testing.T, sub Submitter, ts *timers, options ...Option) *Controller {
	t.Helper()
	options = append([]Option{WithAfterFunc(ts.afterFunc)}, options...)
	ctrl, err := New(testsupport.BookingForm(t), sub, options...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(ctrl.Close)
	return ctrl
}

func TestNewRequiresSubmitterAndFields(t *testing.T) {
	if _, err := New(testsupport.BookingForm(t), nil); err == nil {
		t.Fatalf("expected error without submitter")
	}
	if _, err := New(pkgmodel.FormModel{}, &recordingSubmitter{}); err == nil {
		t.Fatalf("expected error without fields")
	}
}

func TestSubmitSuccessResetsValuesAndSchedulesClear(t *testing.T) {
	ts := &timers{}
	sub := &recordingSubmitter{}
	ctrl := newController(t, sub, ts)

	status, err := ctrl.Submit(context.Background(), testsupport.ValidBooking())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if diff := cmp.Diff(Status{Kind: StatusSuccess, Message: SuccessMessage}, status); diff != "" {
		t.Fatalf("status mismatch (-want +got):\n%s", diff)
	}

	calls := sub.calls()
	if len(calls) != 1 {
		t.Fatalf("expected one submission, got %d", len(calls))
	}
	if diff := cmp.Diff(testsupport.ValidBooking(), calls[0].Values()); diff != "" {
		t.Fatalf("booking mismatch (-want +got):\n%s", diff)
	}

	state := ctrl.Snapshot()
	for name, value := range state.Values {
		if value != "" {
			t.Fatalf("field %s should be reset, got %q", name, value)
		}
	}
	if state.Submitting {
		t.Fatalf("submitting should be false after completion")
	}

	timer := ts.last(t)
	if timer.d != DefaultStatusTTL {
		t.Fatalf("timer duration = %s", timer.d)
	}
	timer.fn()
	if _, ok := ctrl.Status(); ok {
		t.Fatalf("status should clear once the timer fires")
	}
}

func TestSubmitFailureKeepsValues(t *testing.T) {
	ts := &timers{}
	cause := &sheets.SubmissionError{Kind: sheets.ErrorKindStatus, StatusCode: 500}
	sub := &recordingSubmitter{err: cause}
	ctrl := newController(t, sub, ts)

	status, err := ctrl.Submit(context.Background(), testsupport.ValidBooking())
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if diff := cmp.Diff(Status{Kind: StatusError, Message: FailureMessage}, status); diff != "" {
		t.Fatalf("status mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(testsupport.ValidBooking(), ctrl.Snapshot().Values); diff != "" {
		t.Fatalf("values should survive failure (-want +got):\n%s", diff)
	}
	if ctrl.Submitting() {
		t.Fatalf("submitting must clear after failure")
	}
}

func TestSubmitValidationSkipsSubmitter(t *testing.T) {
	ts := &timers{}
	sub := &recordingSubmitter{}
	ctrl := newController(t, sub, ts)

	values := map[string]string{"name": "J", "phone": "1234567", "email": "nope", "date": "tomorrow"}
	_, err := ctrl.Submit(context.Background(), values)
	var verrs *validation.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	want := map[string]string{
		"name":  "Name is required",
		"phone": "Phone number is required",
		"email": "Invalid email",
		"date":  "Invalid date",
	}
	if diff := cmp.Diff(want, ctrl.Snapshot().Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if len(sub.calls()) != 0 {
		t.Fatalf("submitter must not run on validation failure")
	}
	if _, ok := ctrl.Status(); ok {
		t.Fatalf("validation failure must not set a status")
	}
	if len(ts.all) != 0 {
		t.Fatalf("validation failure must not schedule a timer")
	}

	if _, err := ctrl.Submit(context.Background(), testsupport.ValidBooking()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if errs := ctrl.Snapshot().Errors; errs != nil {
		t.Fatalf("errors should clear on a valid submission, got %v", errs)
	}
}

func TestSubmitRejectsWhileInFlight(t *testing.T) {
	ts := &timers{}
	sub := &recordingSubmitter{block: make(chan struct{}), started: make(chan struct{})}
	ctrl := newController(t, sub, ts)

	done := make(chan error, 1)
	go func() {
		_, err := ctrl.Submit(context.Background(), testsupport.ValidBooking())
		done <- err
	}()
	<-sub.started

	if !ctrl.Submitting() {
		t.Fatalf("expected submission in flight")
	}
	if _, err := ctrl.Submit(context.Background(), testsupport.ValidBooking()); !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
	}

	close(sub.block)
	if err := <-done; err != nil {
		t.Fatalf("first submission: %v", err)
	}
	if got := len(sub.calls()); got != 1 {
		t.Fatalf("expected one submission, got %d", got)
	}
}

func TestStaleTimerDoesNotClearNewerStatus(t *testing.T) {
	ts := &timers{}
	sub := &recordingSubmitter{}
	ctrl := newController(t, sub, ts)

	if _, err := ctrl.Submit(context.Background(), testsupport.ValidBooking()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	first := ts.last(t)

	sub.mu.Lock()
	sub.err = errors.New("down")
	sub.mu.Unlock()
	if _, err := ctrl.Submit(context.Background(), testsupport.ValidBooking()); err == nil {
		t.Fatalf("expected failure")
	}
	second := ts.last(t)
	if !first.stopped {
		t.Fatalf("previous timer should be stopped")
	}

	first.fn()
	status, ok := ctrl.Status()
	if !ok || status.Kind != StatusError {
		t.Fatalf("stale timer cleared the newer status: %+v %v", status, ok)
	}
	second.fn()
	if _, ok := ctrl.Status(); ok {
		t.Fatalf("current timer should clear the status")
	}
}

func TestCloseCancelsTimerAndRejectsSubmit(t *testing.T) {
	ts := &timers{}
	ctrl := newController(t, &recordingSubmitter{}, ts)

	if _, err := ctrl.Submit(context.Background(), testsupport.ValidBooking()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	timer := ts.last(t)
	ctrl.Close()
	if !timer.stopped {
		t.Fatalf("close should stop the pending timer")
	}
	timer.fn()
	if _, ok := ctrl.Status(); !ok {
		t.Fatalf("a fired timer must not touch a closed controller")
	}
	if _, err := ctrl.Submit(context.Background(), testsupport.ValidBooking()); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	ctrl.Close()
}

func TestCustomStatusTTL(t *testing.T) {
	ts := &timers{}
	ctrl := newController(t, &recordingSubmitter{}, ts, WithStatusTTL(time.Second))

	if _, err := ctrl.Submit(context.Background(), testsupport.ValidBooking()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := ts.last(t).d; got != time.Second {
		t.Fatalf("timer duration = %s", got)
	}
	if ctrl.StatusTTL() != time.Second {
		t.Fatalf("StatusTTL = %s", ctrl.StatusTTL())
	}
}

func TestResetClearsValuesAndErrors(t *testing.T) {
	ctrl := newController(t, &recordingSubmitter{}, &timers{})

	_, _ = ctrl.Submit(context.Background(), map[string]string{"name": "J"})
	ctrl.Reset()
	state := ctrl.Snapshot()
	if state.Errors != nil {
		t.Fatalf("errors should be cleared")
	}
	if state.Values["name"] != "" {
		t.Fatalf("values should be cleared")
	}
}

func TestSanitizerStripsMarkup(t *testing.T) {
	sub := &recordingSubmitter{}
	ctrl := newController(t, sub, &timers{})

	values := testsupport.ValidBooking()
	values["name"] = "<b>Jane</b> Doe"
	values["destination"] = "R&D <script>alert(1)</script>Campus"
	if _, err := ctrl.Submit(context.Background(), values); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	got := sub.calls()[0]
	if got.Name != "Jane Doe" {
		t.Fatalf("name = %q", got.Name)
	}
	if got.Destination != "R&D Campus" {
		t.Fatalf("destination = %q", got.Destination)
	}
}

func TestRenderOptionsFromState(t *testing.T) {
	state := State{
		Values:       map[string]string{"name": "Jo"},
		Errors:       map[string]string{"phone": "Phone number is required"},
		Status:       &Status{Kind: StatusError, Message: FailureMessage},
		Submitting:   true,
		DismissAfter: 5 * time.Second,
	}
	opts := state.RenderOptions()
	if opts.Status == nil || opts.Status.Kind != "error" || opts.Status.Message != FailureMessage {
		t.Fatalf("unexpected status %+v", opts.Status)
	}
	if opts.DismissAfter != 5*time.Second || !opts.Submitting {
		t.Fatalf("unexpected options %+v", opts)
	}

	clean := State{}.RenderOptions()
	if clean.Status != nil || clean.DismissAfter != 0 {
		t.Fatalf("no banner expected, got %+v", clean)
	}
}

func TestMarkupOnlyValuesFailValidation(t *testing.T) {
	cases := []struct {
		name  string
		value string
		kept  string
	}{
		{name: "empty element", value: "<b></b>", kept: ""},
		{name: "short text inside markup", value: "<i>A</i>", kept: "A"},
		{name: "script body", value: "<script>x</script>", kept: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := &timers{}
			sub := &recordingSubmitter{}
			ctrl := newController(t, sub, ts)

			_, err := ctrl.Submit(context.Background(), map[string]string{"name": tc.value, "phone": "12345678"})
			var verrs *validation.Errors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected validation errors, got %v", err)
			}
			if _, ok := verrs.Map()["name"]; !ok {
				t.Fatalf("expected a name error, got %v", verrs.Map())
			}
			if got := len(sub.calls()); got != 0 {
				t.Fatalf("expected no submission, got %d", got)
			}
			if got := ctrl.Snapshot().Values["name"]; got != tc.kept {
				t.Fatalf("form should keep the sanitized value, got %q", got)
			}
		})
	}
}

func TestSnapshotReportsRemainingStatusTime(t *testing.T) {
	now := time.Date(2024, time.June, 30, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	ctrl := newController(t, &recordingSubmitter{}, &timers{}, WithClock(clock))

	if _, err := ctrl.Submit(context.Background(), testsupport.ValidBooking()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := ctrl.Snapshot().DismissAfter; got != DefaultStatusTTL {
		t.Fatalf("DismissAfter = %s, want %s", got, DefaultStatusTTL)
	}

	now = now.Add(4900 * time.Millisecond)
	state := ctrl.Snapshot()
	if state.Status == nil {
		t.Fatalf("status should still be visible")
	}
	if state.DismissAfter != 100*time.Millisecond {
		t.Fatalf("DismissAfter = %s, want 100ms", state.DismissAfter)
	}
	if got := state.RenderOptions().DismissAfter; got != 100*time.Millisecond {
		t.Fatalf("render DismissAfter = %s", got)
	}

	now = now.Add(time.Second)
	if state := ctrl.Snapshot(); state.Status != nil || state.DismissAfter != 0 {
		t.Fatalf("expired status should not be rendered, got %+v", state)
	}
}
