package testsupport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	pkgmodel "github.com/goliatone/go-tripform/pkg/model"
	"github.com/goliatone/go-tripform/pkg/orchestrator"
)

// BookingForm builds the decorated booking form from the embedded documents.
func BookingForm(t testing.TB) pkgmodel.FormModel {
	t.Helper()

	form, err := orchestrator.New().Form(context.Background(), "")
	if err != nil {
		t.Fatalf("build booking form: %v", err)
	}
	return form
}

// ValidBooking returns values that satisfy every booking rule.
func ValidBooking() map[string]string {
	return map[string]string{
		pkgmodel.FieldName:        "Jane Doe",
		pkgmodel.FieldPhone:       "+1 555 0100",
		pkgmodel.FieldEmail:       "jane@example.com",
		pkgmodel.FieldDestination: "Lisbon",
		pkgmodel.FieldDate:        "2030-05-01",
	}
}

// SheetsServer is a fake spreadsheet endpoint that records every query.
type SheetsServer struct {
	*httptest.Server

	mu       sync.Mutex
	status   int
	requests []RecordedRequest
	block    chan struct{}
}

// RecordedRequest captures one call made to the fake endpoint.
type RecordedRequest struct {
	Method string
	Query  url.Values
	Header http.Header
}

// NewSheetsServer starts a fake endpoint answering with status. The server is
// closed when the test ends.
func NewSheetsServer(t testing.TB, status int) *SheetsServer {
	t.Helper()

	s := &SheetsServer{status: status}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(func() {
		s.Release()
		s.Close()
	})
	return s
}

// SetStatus changes the status returned by subsequent calls.
func (s *SheetsServer) SetStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// Hold makes subsequent calls wait until Release is called.
func (s *SheetsServer) Hold() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.block == nil {
		s.block = make(chan struct{})
	}
}

// Release unblocks held calls.
func (s *SheetsServer) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.block != nil {
		close(s.block)
		s.block = nil
	}
}

// Requests returns a copy of the recorded calls.
func (s *SheetsServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *SheetsServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method: r.Method,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
	})
	status := s.status
	block := s.block
	s.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-r.Context().Done():
			return
		}
	}

	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"result":"ok"}`))
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
