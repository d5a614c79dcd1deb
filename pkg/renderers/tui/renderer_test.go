package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tripform/pkg/controller"
	"github.com/goliatone/go-tripform/pkg/model"
	"github.com/goliatone/go-tripform/pkg/render"
	"github.com/goliatone/go-tripform/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	confirm      []bool
	prompts      []InputConfig
	infoMessages []string
	inputPos     int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

type noopTimer struct{}

func (noopTimer) Stop() bool { return true }

func noopAfterFunc(time.Duration, func()) controller.Timer { return noopTimer{} }

func newController(t *testing.T, submit controller.SubmitterFunc) *controller.Controller {
	t.Helper()
	ctrl, err := controller.New(testsupport.BookingForm(t), submit, controller.WithAfterFunc(noopAfterFunc))
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	t.Cleanup(ctrl.Close)
	return ctrl
}

func TestRun_SubmitsValidAnswers(t *testing.T) {
	var got []model.BookingForm
	ctrl := newController(t, func(_ context.Context, b model.BookingForm) error {
		got = append(got, b)
		return nil
	})
	driver := &stubDriver{inputs: []string{"Jane Doe", "+1 555 0100", "", "Lisbon", ""}}

	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	status, err := r.Run(context.Background(), ctrl)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !status.IsSuccess() {
		t.Fatalf("expected success status, got %+v", status)
	}

	want := []model.BookingForm{{Name: "Jane Doe", Phone: "+1 555 0100", Destination: "Lisbon"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("submitted bookings mismatch (-want +got):\n%s", diff)
	}
	last := driver.infoMessages[len(driver.infoMessages)-1]
	if last != controller.SuccessMessage {
		t.Fatalf("expected success message last, got %q", last)
	}
}

func TestRun_RepromptsWithInlineError(t *testing.T) {
	calls := 0
	ctrl := newController(t, func(context.Context, model.BookingForm) error {
		calls++
		return nil
	})
	driver := &stubDriver{inputs: []string{"J", "Jo", "1234567", "12345678", "not-an-email", "", "", "tomorrow", ""}}

	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := r.Run(context.Background(), ctrl); err != nil {
		t.Fatalf("run: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single submission, got %d", calls)
	}

	for _, want := range []string{"✖ Name is required", "✖ Phone number is required", "✖ Invalid email", "✖ Invalid date"} {
		if !contains(driver.infoMessages, want) {
			t.Fatalf("expected inline error %q, got %v", want, driver.infoMessages)
		}
	}
	if driver.prompts[1].Default != "J" {
		t.Fatalf("expected rejected answer as default on re-prompt, got %q", driver.prompts[1].Default)
	}
}

func TestRun_RetryKeepsAnswersAfterFailure(t *testing.T) {
	attempt := 0
	ctrl := newController(t, func(context.Context, model.BookingForm) error {
		attempt++
		if attempt == 1 {
			return errors.New("network down")
		}
		return nil
	})
	driver := &stubDriver{
		inputs:  []string{"Jane Doe", "12345678", "", "", "", "Jane Doe", "12345678", "", "", ""},
		confirm: []bool{true},
	}

	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	status, err := r.Run(context.Background(), ctrl)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !status.IsSuccess() {
		t.Fatalf("expected success after retry, got %+v", status)
	}
	if !contains(driver.infoMessages, controller.FailureMessage) {
		t.Fatalf("expected failure message, got %v", driver.infoMessages)
	}
	if got := driver.prompts[5].Default; got != "Jane Doe" {
		t.Fatalf("expected previous answer as default, got %q", got)
	}
}

func TestRun_DeclinedRetryReturnsFailure(t *testing.T) {
	cause := errors.New("boom")
	ctrl := newController(t, func(context.Context, model.BookingForm) error { return cause })
	driver := &stubDriver{
		inputs:  []string{"Jane Doe", "12345678", "", "", ""},
		confirm: []bool{false},
	}

	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	status, err := r.Run(context.Background(), ctrl)
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if status.Kind != controller.StatusError || status.Message != controller.FailureMessage {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestRun_TooManyInvalidAnswers(t *testing.T) {
	ctrl := newController(t, func(context.Context, model.BookingForm) error { return nil })
	driver := &stubDriver{inputs: []string{"", "", ""}}

	r, err := New(WithPromptDriver(driver), WithMaxAttempts(3))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := r.Run(context.Background(), ctrl); !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestRender_SerializesCollectedValues(t *testing.T) {
	driver := &stubDriver{inputs: []string{" Jane Doe ", "12345678", "jane@example.com", "", "2030-01-02"}}

	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := r.Render(context.Background(), testsupport.BookingForm(t), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var got map[string]string
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	want := map[string]string{
		"name":        "Jane Doe",
		"phone":       "12345678",
		"email":       "jane@example.com",
		"destination": "",
		"date":        "2030-01-02",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_FormEncodedOmitsEmptyValues(t *testing.T) {
	driver := &stubDriver{inputs: []string{"Jane Doe", "12345678", "", "Rome", ""}}

	r, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatFormURLEncoded))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if got := r.ContentType(); got != "application/x-www-form-urlencoded" {
		t.Fatalf("content type = %s", got)
	}
	out, err := r.Render(context.Background(), testsupport.BookingForm(t), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := string(out); got != "destination=Rome&name=Jane+Doe&phone=12345678" {
		t.Fatalf("unexpected payload %q", got)
	}
}

func TestPromptMessageMarksRequiredFields(t *testing.T) {
	form := testsupport.BookingForm(t)
	got := make([]string, 0, len(form.Fields))
	for _, field := range form.Fields {
		got = append(got, promptMessage(field))
	}
	want := []string{"Full Name *", "Phone Number *", "Email", "Destination", "Travel Date (YYYY-MM-DD)"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("prompt messages mismatch (-want +got):\n%s", diff)
	}
}

func contains(list []string, want string) bool {
	for _, item := range list {
		if strings.Contains(item, want) {
			return true
		}
	}
	return false
}
