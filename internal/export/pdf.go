/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"screenflow/internal/board"
)

// PDFOptions controls PDF export behavior.
// Units are points (pt); one canvas unit maps to one point, so the page
// size follows the content bounds. Vector text uses built-in Helvetica
// for portability.
//
//nolint:revive // keep options grouped and explicit for clarity
type PDFOptions struct {
	IncludeHeaders bool
	CardStroke     Stroke
	CardFill       Color
	HeaderColor    Color
}

// ExportCanvasPDF writes a single-page vector PDF overview of the layout
// to outPath.
func ExportCanvasPDF(l *board.Layout, canvasName, outPath string, opt PDFOptions) error {
	frame, err := contentFrame(l, opt.IncludeHeaders)
	if err != nil {
		return err
	}

	cardStroke := defaultCardStroke(opt.CardStroke)
	cardFill := defaultCardFill(opt.CardFill)
	headerCol := defaultHeaderColor(opt.HeaderColor)

	// Use points for 1:1 mapping from canvas units to PDF
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: frame.W, Ht: frame.H},
		OrientationStr: "",
	})
	pdf.SetTitle(canvasName, false)
	pdf.SetAuthor("ScreenFlow", false)

	// Built-in Helvetica keeps text vector without embedding
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: frame.W, Ht: frame.H})

	// Translate canvas coordinates into the page frame
	tx := func(x float64) float64 { return x - frame.X }
	ty := func(y float64) float64 { return y - frame.Y }

	for _, sec := range l.Sections {
		if opt.IncludeHeaders {
			setTextColor(pdf, headerCol)
			pdf.SetFont("Helvetica", "B", 16)
			pdf.Text(tx(sec.Header.Pos.X), ty(sec.Header.Pos.Y), headerLabel(sec.Header))
		}
		setDrawColor(pdf, cardStroke.Color)
		setFillColor(pdf, cardFill)
		pdf.SetLineWidth(cardStroke.Width)
		for _, c := range sec.Cards {
			r := c.Bounds()
			pdf.Rect(tx(r.X), ty(r.Y), r.W, r.H, "FD")
			setTextColor(pdf, Color{A: 255})
			pdf.SetFont("Helvetica", "", 11)
			pdf.Text(tx(r.X)+8, ty(r.Y+r.H)-8, c.PageName)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func setDrawColor(pdf *gofpdf.Fpdf, c Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

func setTextColor(pdf *gofpdf.Fpdf, c Color) {
	pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
}
