package render_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tripform/pkg/model"
	"github.com/goliatone/go-tripform/pkg/render"
)

type stubRenderer struct{ name string }

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) Render(context.Context, model.FormModel, render.RenderOptions) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistry(t *testing.T) {
	registry, err := render.NewRegistry(stubRenderer{"vanilla"}, stubRenderer{"tui"})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	if diff := cmp.Diff([]string{"tui", "vanilla"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}

	def, err := registry.Get("")
	if err != nil || def.Name() != "vanilla" {
		t.Fatalf("default renderer = %v, %v", def, err)
	}
	if err := registry.SetDefault("tui"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	if def, _ := registry.Get(" "); def.Name() != "tui" {
		t.Fatalf("default should switch to tui, got %s", def.Name())
	}

	if _, err := registry.Get("preact"); err == nil {
		t.Fatalf("expected missing renderer error")
	}
	if err := registry.SetDefault("preact"); err == nil {
		t.Fatalf("expected SetDefault error")
	}
}

func TestRegistryRejectsInvalid(t *testing.T) {
	registry, err := render.NewRegistry()
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected nil renderer error")
	}
	if err := registry.Register(stubRenderer{" "}); err == nil {
		t.Fatalf("expected empty name error")
	}
	if err := registry.Register(stubRenderer{"vanilla"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(stubRenderer{"vanilla"}); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if _, err := render.NewRegistry(stubRenderer{"a"}, stubRenderer{"a"}); err == nil {
		t.Fatalf("expected duplicate error from constructor")
	}
}

func TestRenderOptionsClock(t *testing.T) {
	if (render.RenderOptions{}).Clock().IsZero() {
		t.Fatalf("zero Now should fall back to the current time")
	}
}
