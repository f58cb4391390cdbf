package export

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"screenflow/internal/board"
	"screenflow/internal/domain"
)

func sampleFeatures() []domain.Feature {
	return []domain.Feature{{
		FeatureID:   "F1",
		FeatureName: "Onboarding",
		Platform:    domain.PlatformMobile,
		Pages: []domain.Page{
			{PageID: "P1", PageName: "Welcome", HTMLContent: "<div>w</div>"},
			{PageID: "P2", PageName: "Sign Up", HTMLContent: "<div>s</div>"},
		},
	}}
}

func sampleLayout(t *testing.T) *board.Layout {
	t.Helper()
	l := board.BuildLayout(sampleFeatures(), domain.Canvas{ID: "c1", Name: "Main", IsDefault: true})
	if l.Empty {
		t.Fatalf("expected non-empty layout")
	}
	return &l
}

func TestExportCanvasSVGWritesLabelledCards(t *testing.T) {
	out := filepath.Join(t.TempDir(), "overview.svg")
	if err := ExportCanvasSVG(sampleLayout(t), "Main", out, SVGOptions{IncludeHeaders: true}); err != nil {
		t.Fatalf("ExportCanvasSVG: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	s := string(b)
	for _, want := range []string{"<svg", "viewBox=", "Welcome", "Sign Up", "Onboarding [mobile] (2)"} {
		if !strings.Contains(s, want) {
			t.Fatalf("svg missing %q:\n%s", want, s)
		}
	}
	if got := strings.Count(s, "<rect"); got != 3 { // background + two cards
		t.Fatalf("expected 3 rects, got %d", got)
	}
}

func TestExportCanvasSVGOmitsHeadersWhenDisabled(t *testing.T) {
	out := filepath.Join(t.TempDir(), "overview.svg")
	if err := ExportCanvasSVG(sampleLayout(t), "Main", out, SVGOptions{}); err != nil {
		t.Fatalf("ExportCanvasSVG: %v", err)
	}
	b, _ := os.ReadFile(out)
	if strings.Contains(string(b), "Onboarding [mobile]") {
		t.Fatalf("header label should be absent without IncludeHeaders")
	}
}

func TestExportCanvasPNGDimensions(t *testing.T) {
	// Two cards in one row: bounds 600x220, plus 40pt padding each side.
	cases := []struct {
		scale   float64
		wantW   int
		wantH   int
		headers bool
	}{
		{scale: 0, wantW: 680, wantH: 300},
		{scale: 2, wantW: 1360, wantH: 600},
		{scale: 1, wantW: 680, wantH: 360, headers: true},
	}
	for _, tc := range cases {
		out := filepath.Join(t.TempDir(), "overview.png")
		opt := PNGOptions{Scale: tc.scale, IncludeHeaders: tc.headers}
		if err := ExportCanvasPNG(sampleLayout(t), "Main", out, opt); err != nil {
			t.Fatalf("ExportCanvasPNG: %v", err)
		}
		f, err := os.Open(out)
		if err != nil {
			t.Fatalf("open png: %v", err)
		}
		cfg, err := png.DecodeConfig(f)
		_ = f.Close()
		if err != nil {
			t.Fatalf("decode png: %v", err)
		}
		if cfg.Width != tc.wantW || cfg.Height != tc.wantH {
			t.Fatalf("scale %g: got %dx%d, want %dx%d", tc.scale, cfg.Width, cfg.Height, tc.wantW, tc.wantH)
		}
	}
}

func TestExportCanvasPDFWritesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "overview.pdf")
	if err := ExportCanvasPDF(sampleLayout(t), "Main", out, PDFOptions{IncludeHeaders: true}); err != nil {
		t.Fatalf("ExportCanvasPDF: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !strings.HasPrefix(string(b), "%PDF") {
		t.Fatalf("output is not a pdf")
	}
}

func TestExportEmptyLayoutFails(t *testing.T) {
	out := filepath.Join(t.TempDir(), "overview.svg")
	err := ExportCanvasSVG(&board.Layout{Empty: true}, "Main", out, SVGOptions{})
	if err == nil {
		t.Fatalf("expected error for empty layout")
	}
}
