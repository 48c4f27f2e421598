package config_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ravi-parthasarathy/qsirecon/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OutputDir != "derivatives" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "derivatives")
	}
	if cfg.WorkDir != "work" {
		t.Errorf("WorkDir = %q, want %q", cfg.WorkDir, "work")
	}
	if cfg.OMPThreads != 1 {
		t.Errorf("OMPThreads = %d, want 1", cfg.OMPThreads)
	}
	if cfg.Sloppy || cfg.SkipODFPlots {
		t.Errorf("Sloppy=%v SkipODFPlots=%v, want both false", cfg.Sloppy, cfg.SkipODFPlots)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "json" {
		t.Errorf("log = %s/%s, want info/json", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QSIRECON_OUTPUT_DIR", filepath.Join(dir, "out"))
	t.Setenv("QSIRECON_WORK_DIR", filepath.Join(dir, "work"))
	t.Setenv("QSIRECON_OMP_NTHREADS", "8")
	t.Setenv("QSIRECON_SLOPPY", "true")
	t.Setenv("QSIRECON_SKIP_ODF_PLOTS", "true")
	t.Setenv("QSIRECON_SPEC_DIR", filepath.Join(dir, "specs"))
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OMPThreads != 8 {
		t.Errorf("OMPThreads = %d, want 8", cfg.OMPThreads)
	}
	if !cfg.Sloppy || !cfg.SkipODFPlots {
		t.Errorf("Sloppy=%v SkipODFPlots=%v, want both true", cfg.Sloppy, cfg.SkipODFPlots)
	}
	if cfg.SpecDir != filepath.Join(dir, "specs") {
		t.Errorf("SpecDir = %q", cfg.SpecDir)
	}
	if got, want := cfg.ReportletsDir(), filepath.Join(dir, "work", "reportlets"); got != want {
		t.Errorf("ReportletsDir = %q, want %q", got, want)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := []struct {
		key, value, want string
	}{
		{"QSIRECON_OMP_NTHREADS", "0", "omp thread count"},
		{"LOG_LEVEL", "verbose", "invalid log level"},
		{"LOG_FORMAT", "xml", "invalid log format"},
		{"QSIRECON_OMP_NTHREADS", "many", "failed to parse config"},
	}
	for _, tc := range cases {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := config.Load()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}
