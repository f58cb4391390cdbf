/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"screenflow/internal/board"
	"screenflow/internal/domain"
)

// PresetName represents a named export preset.
type PresetName string

const (
	// PresetShare targets handoff images: PNG and SVG, no header chrome.
	PresetShare PresetName = "share"
	// PresetReview targets annotated documents: PDF and SVG with feature
	// headers drawn above each section.
	PresetReview PresetName = "review"
)

// BatchOptions controls batch export across multiple formats and canvases.
//
// Path semantics:
//   - OutDir is the base directory; one subfolder per format is created
//     inside it (pdf/, png/, svg/).
//   - Files are named canvas-<slug>.<ext>, slug derived from the canvas name.
//
//nolint:revive // keep fields explicit for clarity
type BatchOptions struct {
	Preset         PresetName
	Formats        []string // allowed: pdf, png, svg; empty means preset defaults
	CanvasIDs      []string // empty means all canvases
	Scale          float64  // when > 0 overrides raster/vector pixel scale
	IncludeHeaders *bool    // when set, overrides the preset's default
	OutDir         string
}

// BatchExport renders every selected canvas in every selected format.
func BatchExport(features []domain.Feature, canvases []domain.Canvas, opt BatchOptions) error {
	if len(canvases) == 0 {
		return fmt.Errorf("no canvases to export")
	}

	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	// normalize format strings
	for i := range formats {
		formats[i] = strings.ToLower(strings.TrimSpace(formats[i]))
	}

	baseOut := opt.OutDir
	if baseOut == "" {
		baseOut = string(opt.Preset)
	}

	headers := presetIncludeHeaders(opt.Preset)
	if opt.IncludeHeaders != nil {
		headers = *opt.IncludeHeaders
	}

	selected := canvases
	if len(opt.CanvasIDs) > 0 {
		want := make(map[string]bool, len(opt.CanvasIDs))
		for _, id := range opt.CanvasIDs {
			want[id] = true
		}
		selected = selected[:0:0]
		for _, cv := range canvases {
			if want[cv.ID] {
				selected = append(selected, cv)
			}
		}
		if len(selected) == 0 {
			return fmt.Errorf("no canvases matched the requested ids")
		}
	}

	for _, cv := range selected {
		l := board.BuildLayout(features, cv)
		if l.Empty {
			continue
		}
		slug := canvasSlug(cv)

		for _, f := range formats {
			switch f {
			case "pdf":
				out := filepath.Join(baseOut, "pdf", fmt.Sprintf("canvas-%s.pdf", slug))
				po := PDFOptions{IncludeHeaders: headers}
				if err := ExportCanvasPDF(&l, cv.Name, out, po); err != nil {
					return fmt.Errorf("pdf canvas %s: %w", cv.Name, err)
				}
			case "png":
				out := filepath.Join(baseOut, "png", fmt.Sprintf("canvas-%s.png", slug))
				po := PNGOptions{IncludeHeaders: headers, Scale: opt.Scale}
				if err := ExportCanvasPNG(&l, cv.Name, out, po); err != nil {
					return fmt.Errorf("png canvas %s: %w", cv.Name, err)
				}
			case "svg":
				out := filepath.Join(baseOut, "svg", fmt.Sprintf("canvas-%s.svg", slug))
				so := SVGOptions{IncludeHeaders: headers, Scale: opt.Scale}
				if err := ExportCanvasSVG(&l, cv.Name, out, so); err != nil {
					return fmt.Errorf("svg canvas %s: %w", cv.Name, err)
				}
			default:
				return fmt.Errorf("unknown format: %s", f)
			}
		}
	}
	return nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetShare:
		return []string{"png", "svg"}
	case PresetReview:
		return []string{"pdf", "svg"}
	default:
		return []string{"pdf"}
	}
}

func presetIncludeHeaders(p PresetName) bool {
	switch p {
	case PresetShare:
		return false
	case PresetReview:
		return true
	default:
		return true
	}
}

// canvasSlug derives a filesystem-safe name fragment from the canvas.
func canvasSlug(cv domain.Canvas) string {
	s := strings.ToLower(strings.TrimSpace(cv.Name))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteByte('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = cv.ID
	}
	return out
}
