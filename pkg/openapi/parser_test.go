package openapi_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	pkgopenapi "github.com/goliatone/go-tripform/pkg/openapi"
)

func intPtr(v int) *int { return &v }

func TestParser_BookingDocument(t *testing.T) {
	doc, err := pkgopenapi.BookingDocument()
	if err != nil {
		t.Fatalf("booking document: %v", err)
	}

	parser := pkgopenapi.NewParser(pkgopenapi.WithDocumentValidation(true))
	op, err := parser.Operation(context.Background(), doc, pkgopenapi.BookingOperationID)
	if err != nil {
		t.Fatalf("operation: %v", err)
	}

	if op.Method != "GET" || op.Path != "/bookings" {
		t.Fatalf("unexpected method/path %s %s", op.Method, op.Path)
	}
	if op.Summary != "Book Your Trip" {
		t.Fatalf("summary = %q", op.Summary)
	}

	body := op.RequestBody
	if diff := cmp.Diff([]string{"name", "phone"}, body.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}

	name := body.Properties["name"]
	if diff := cmp.Diff(intPtr(2), name.MinLength); diff != "" {
		t.Fatalf("name minLength mismatch (-want +got):\n%s", diff)
	}
	if got := name.Extensions["x-formgen-error-message"]; got != "Name is required" {
		t.Fatalf("name extension = %#v", got)
	}
	if got := body.Properties["phone"].MinLength; got == nil || *got != 8 {
		t.Fatalf("phone minLength = %v", got)
	}
	if got := body.Properties["email"].Format; got != "email" {
		t.Fatalf("email format = %q", got)
	}
	if got := body.Properties["date"].Format; got != "date" {
		t.Fatalf("date format = %q", got)
	}
	if body.Properties["destination"].Extensions != nil {
		t.Fatalf("destination should carry no extensions")
	}
}

func TestParser_FallbackOperationID(t *testing.T) {
	raw := `
openapi: 3.0.3
info: {title: t, version: "1"}
paths:
  /notes:
    post:
      requestBody:
        content:
          application/json:
            schema:
              type: object
              properties:
                body: {type: string, maxLength: 20, pattern: "^[a-z]+$"}
      responses:
        "200": {description: ok}
`
	doc := pkgopenapi.MustNewDocument("notes.yaml", []byte(raw))
	ops, err := pkgopenapi.NewParser().Operations(context.Background(), doc)
	if err != nil {
		t.Fatalf("operations: %v", err)
	}
	op, ok := ops["post:/notes"]
	if !ok {
		t.Fatalf("expected fallback id, got %v", ops)
	}
	body := op.RequestBody.Properties["body"]
	if body.MaxLength == nil || *body.MaxLength != 20 || body.Pattern != "^[a-z]+$" {
		t.Fatalf("unexpected schema %+v", body)
	}
}

func TestParser_Errors(t *testing.T) {
	parser := pkgopenapi.NewParser()

	noPaths := pkgopenapi.MustNewDocument("empty.yaml", []byte("openapi: 3.0.3\ninfo: {title: t, version: \"1\"}\npaths: {}\n"))
	if _, err := parser.Operations(context.Background(), noPaths); err == nil || !strings.Contains(err.Error(), "paths") {
		t.Fatalf("expected missing paths error, got %v", err)
	}

	doc, err := pkgopenapi.BookingDocument()
	if err != nil {
		t.Fatalf("booking document: %v", err)
	}
	if _, err := parser.Operation(context.Background(), doc, "missing"); err == nil {
		t.Fatalf("expected unknown operation error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := parser.Operations(ctx, doc); err == nil {
		t.Fatalf("expected cancelled context error")
	}
}

func TestNewDocumentValidation(t *testing.T) {
	if _, err := pkgopenapi.NewDocument(" ", []byte("x")); err == nil {
		t.Fatalf("expected name error")
	}
	if _, err := pkgopenapi.NewDocument("a.yaml", nil); err == nil {
		t.Fatalf("expected payload error")
	}

	raw := []byte("payload")
	doc := pkgopenapi.MustNewDocument("a.yaml", raw)
	raw[0] = 'X'
	if string(doc.Raw()) != "payload" {
		t.Fatalf("document should keep its own copy")
	}
}

func TestNewOperationValidation(t *testing.T) {
	if _, err := pkgopenapi.NewOperation("", "get", "/x", pkgopenapi.Schema{}); err == nil {
		t.Fatalf("expected id error")
	}
	if _, err := pkgopenapi.NewOperation("x", "", "/x", pkgopenapi.Schema{}); err == nil {
		t.Fatalf("expected method error")
	}
	if _, err := pkgopenapi.NewOperation("x", "get", "", pkgopenapi.Schema{}); err == nil {
		t.Fatalf("expected path error")
	}
	op, err := pkgopenapi.NewOperation("x", "get", "/x", pkgopenapi.Schema{})
	if err != nil || op.Method != "GET" {
		t.Fatalf("unexpected %+v %v", op, err)
	}
}
