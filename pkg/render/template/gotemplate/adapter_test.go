package gotemplate_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-tripform/pkg/render/template/gotemplate"
)

func TestEngine_RenderTemplateFromFS(t *testing.T) {
	files := fstest.MapFS{
		"templates/greeting.tmpl": {Data: []byte(`Hello {{ name|trim }} from {{ site }}`)},
	}
	engine, err := gotemplate.New(gotemplate.WithFS(files), gotemplate.WithGlobalData(map[string]any{"site": "tripform"}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	var sink strings.Builder
	out, err := engine.RenderTemplate("templates/greeting", map[string]any{"name": "  Jane  "}, &sink)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Hello Jane from tripform" {
		t.Fatalf("output = %q", out)
	}
	if sink.String() != out {
		t.Fatalf("writer should receive the output")
	}

	again, err := engine.RenderTemplate("templates/greeting.tmpl", map[string]any{"name": "Jo"})
	if err != nil || again != "Hello Jo from tripform" {
		t.Fatalf("cached render = %q, %v", again, err)
	}
}

func TestEngine_BaseDirAndExtension(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "page.html"), []byte(`<p>{{ value }}</p>`), 0o600); err != nil {
		t.Fatalf("write template: %v", err)
	}
	engine, err := gotemplate.New(gotemplate.WithBaseDir(dir), gotemplate.WithExtension("html"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	out, err := engine.RenderTemplate("page", map[string]any{"value": "<b>R&D</b>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "<p>&lt;b&gt;R&amp;D&lt;/b&gt;</p>" {
		t.Fatalf("output should be escaped, got %q", out)
	}
}

func TestEngine_RenderString(t *testing.T) {
	engine, err := gotemplate.New(gotemplate.WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	out, err := engine.RenderString(`{% if ok %}yes{% else %}no{% endif %}`, map[string]any{"ok": true})
	if err != nil || out != "yes" {
		t.Fatalf("render string = %q, %v", out, err)
	}
	if _, err := engine.RenderString(`{% if %}`, nil); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected missing template error")
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine, err := gotemplate.New(gotemplate.WithFS(fstest.MapFS{}))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	name := "tf_shout_" + strings.ReplaceAll(t.Name(), "/", "_")
	err = engine.RegisterFilter(name, func(input any, _ any) (any, error) {
		s, ok := input.(string)
		if !ok {
			return nil, errors.New("not a string")
		}
		return strings.ToUpper(s), nil
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	out, err := engine.RenderString(`{{ city|`+name+` }}`, map[string]any{"city": "lisbon"})
	if err != nil || out != "LISBON" {
		t.Fatalf("filtered = %q, %v", out, err)
	}
	if err := engine.RegisterFilter(name, func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter error")
	}
	if err := engine.RegisterFilter("", nil); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestNewRequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without base dir or fs")
	}
}
