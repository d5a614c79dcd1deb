package tripform

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-tripform/pkg/renderers/vanilla"
)

func TestRuntimeAssetsFSContainsStylesheet(t *testing.T) {
	data, err := fs.ReadFile(RuntimeAssetsFS(), vanilla.StylesheetName)
	if err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
	if !strings.Contains(string(data), ".tf-status") {
		t.Fatalf("expected stylesheet to style the status banner")
	}
}

func TestRuntimeAssetsFSScriptDismissesBanner(t *testing.T) {
	data, err := fs.ReadFile(RuntimeAssetsFS(), vanilla.ScriptName)
	if err != nil {
		t.Fatalf("expected script to be readable: %v", err)
	}
	if !strings.Contains(string(data), "data-dismiss-after") {
		t.Fatalf("expected script to handle data-dismiss-after")
	}
}

func TestEmbeddedTemplatesContainsForm(t *testing.T) {
	if _, err := fs.Stat(EmbeddedTemplates(), "templates/form.tmpl"); err != nil {
		t.Fatalf("expected form template: %v", err)
	}
}
