package recon_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ravi-parthasarathy/qsirecon/pkg/recon"
)

const minimalSpec = `{
  "name": "minimal",
  "space": "T1w",
  "atlases": [],
  "anatomical": [],
  "nodes": [
    {"name": "track", "software": "MRTrix3", "action": "tractography", "input": "csd",
     "parameters": {"tckgen": {"algorithm": "iFOD2", "select": 10000000}}},
    {"name": "csd", "software": "MRTrix3", "action": "csd"}
  ]
}`

func writeSpec(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write spec: %v", err)
	}
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeSpec(t, "minimal.json", minimalSpec)
	spec, err := recon.NewLoader(nil, zaptest.NewLogger(t)).Load(path, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if spec.Name != "minimal" || spec.Space != "T1w" || spec.Source != path {
		t.Errorf("got name=%q space=%q source=%q", spec.Name, spec.Space, spec.Source)
	}
	if len(spec.Nodes) != 2 {
		t.Fatalf("got %d nodes", len(spec.Nodes))
	}
	if got := spec.Nodes[0].Parameters.Get("tckgen.select").Int(); got != 10000000 {
		t.Errorf("tckgen.select = %d", got)
	}
	// Absent input means the global source.
	if _, ok := spec.Nodes[1].Upstream(); ok {
		t.Error("csd should read from the global source")
	}
	if spec.Nodes[1].Parameters.Get("anything").Exists() {
		t.Error("absent parameters should be empty")
	}
}

func TestLoad_Catalog(t *testing.T) {
	spec, err := newTestLoader().Load("mrtrix_multishell_msmt_ACT-hsvs", false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if spec.Source != "mrtrix_multishell_msmt_ACT-hsvs" {
		t.Errorf("Source = %q", spec.Source)
	}
	if !slices.Equal(spec.Anatomical, []string{"mrtrix_5tt_hsvs"}) {
		t.Errorf("Anatomical = %v", spec.Anatomical)
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := newTestLoader().Load(filepath.Join(t.TempDir(), "missing.json"), false)
	var notFound *recon.SpecNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected SpecNotFoundError, got %v", err)
	}
	if !slices.Contains(notFound.Catalog, "dsi_studio_gqi") {
		t.Errorf("Catalog = %v, want built-in names", notFound.Catalog)
	}
}

func TestLoad_ParseError(t *testing.T) {
	cases := []struct {
		name, body string
		offset     bool
	}{
		{"syntax", `{"name": "broken", "nodes": [}`, true},
		{"type", `{"name": 7}`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeSpec(t, "broken.json", tc.body)
			_, err := newTestLoader().Load(path, false)
			var parseErr *recon.SpecParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected SpecParseError, got %v", err)
			}
			if parseErr.Source != path {
				t.Errorf("Source = %q", parseErr.Source)
			}
			if (parseErr.Offset > 0) != tc.offset {
				t.Errorf("Offset = %d", parseErr.Offset)
			}
			if parseErr.Unwrap() == nil {
				t.Error("parse error should wrap the decoder error")
			}
		})
	}
}

func TestLoad_Sloppy(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	path := writeSpec(t, "minimal.json", minimalSpec)
	loader := recon.NewLoader(nil, zap.New(core))

	plain, err := loader.Load(path, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if logs.Len() != 0 {
		t.Errorf("unexpected warnings: %v", logs.All())
	}
	sloppy, err := loader.Load(path, true)
	if err != nil {
		t.Fatalf("Load sloppy: %v", err)
	}
	entries := logs.FilterMessage("forcing reconstruction to use unrealistic parameters").All()
	if len(entries) != 1 || entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("expected one sloppy warning, got %v", logs.All())
	}

	if got := sloppy.Nodes[0].Parameters.Get("tckgen.select").Int(); got != 1000 {
		t.Errorf("sloppy tckgen.select = %d, want 1000", got)
	}
	if got := sloppy.Nodes[0].Parameters.Get("tckgen.algorithm").String(); got != "iFOD2" {
		t.Errorf("sloppy dropped sibling parameter: %q", got)
	}
	for i := range plain.Nodes {
		a, b := plain.Nodes[i], sloppy.Nodes[i]
		if a.Name != b.Name || a.Input != b.Input || a.Key() != b.Key() {
			t.Errorf("node %d topology changed: %+v -> %+v", i, a, b)
		}
	}
}

func TestParseSpec_MissingName(t *testing.T) {
	spec, err := recon.ParseSpec([]byte(`{"nodes": [{"action": "csd", "software": "MRTrix3"}]}`), "anon.json")
	if err != nil {
		t.Fatalf("ParseSpec: %v", err)
	}
	_, err = newCompiler(t).Build(spec, recon.Options{})
	var unknown *recon.UnknownNodeError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownNodeError, got %v", err)
	}
	if !strings.Contains(err.Error(), "anon.json") {
		t.Errorf("error lacks spec source: %v", err)
	}
}
