package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"screenflow/internal/domain"
)

func TestBatchExportReviewPreset(t *testing.T) {
	out := t.TempDir()
	canvases := []domain.Canvas{{ID: "c1", Name: "Main Flow", IsDefault: true}}

	err := BatchExport(sampleFeatures(), canvases, BatchOptions{Preset: PresetReview, OutDir: out})
	if err != nil {
		t.Fatalf("BatchExport: %v", err)
	}
	for _, rel := range []string{
		filepath.Join("pdf", "canvas-main-flow.pdf"),
		filepath.Join("svg", "canvas-main-flow.svg"),
	} {
		if _, err := os.Stat(filepath.Join(out, rel)); err != nil {
			t.Fatalf("expected %s: %v", rel, err)
		}
	}
	// review preset draws headers
	b, _ := os.ReadFile(filepath.Join(out, "svg", "canvas-main-flow.svg"))
	if !strings.Contains(string(b), "Onboarding [mobile]") {
		t.Fatalf("review preset should include headers")
	}
}

func TestBatchExportSharePresetSkipsHeaders(t *testing.T) {
	out := t.TempDir()
	canvases := []domain.Canvas{{ID: "c1", Name: "Main", IsDefault: true}}

	if err := BatchExport(sampleFeatures(), canvases, BatchOptions{Preset: PresetShare, OutDir: out}); err != nil {
		t.Fatalf("BatchExport: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(out, "svg", "canvas-main.svg"))
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if strings.Contains(string(b), "Onboarding [mobile]") {
		t.Fatalf("share preset should not include headers")
	}
	if _, err := os.Stat(filepath.Join(out, "png", "canvas-main.png")); err != nil {
		t.Fatalf("expected png output: %v", err)
	}
}

func TestBatchExportErrors(t *testing.T) {
	canvases := []domain.Canvas{{ID: "c1", Name: "Main", IsDefault: true}}

	if err := BatchExport(sampleFeatures(), nil, BatchOptions{}); err == nil {
		t.Fatalf("expected error for no canvases")
	}
	err := BatchExport(sampleFeatures(), canvases, BatchOptions{
		Formats: []string{"docx"}, OutDir: t.TempDir(),
	})
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Fatalf("expected unknown format error, got %v", err)
	}
	err = BatchExport(sampleFeatures(), canvases, BatchOptions{
		CanvasIDs: []string{"nope"}, OutDir: t.TempDir(),
	})
	if err == nil || !strings.Contains(err.Error(), "no canvases matched") {
		t.Fatalf("expected no-match error, got %v", err)
	}
}

func TestCanvasSlug(t *testing.T) {
	cases := []struct {
		name string
		id   string
		want string
	}{
		{"Main Flow", "c1", "main-flow"},
		{"  Spaced  ", "c2", "spaced"},
		{"Überblick", "c3", "berblick"},
		{"!!!", "c4", "c4"},
	}
	for _, tc := range cases {
		got := canvasSlug(domain.Canvas{ID: tc.id, Name: tc.name})
		if got != tc.want {
			t.Fatalf("slug(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}
