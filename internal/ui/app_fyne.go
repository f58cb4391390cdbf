//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"screenflow/internal/backend"
	"screenflow/internal/board"
	"screenflow/internal/config"
	"screenflow/internal/crash"
	applog "screenflow/internal/log"
	"screenflow/internal/preview"
	"screenflow/internal/storage"
	"screenflow/internal/telemetry"
	"screenflow/internal/vector"
)

// Run starts the desktop board shell for the given project. An empty
// projectID falls back to the configured default project.
func Run(projectID string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI")
	telemetry.InitDefault()

	cfg, sec, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if projectID == "" {
		projectID = cfg.General.ProjectID
	}
	if projectID == "" {
		return fmt.Errorf("no project id given and none configured")
	}

	client := backend.NewClient(cfg.Backend.BaseURL, sec.Token, sec.AntiForgery)

	fyneApp := app.NewWithID("screenflow")
	w := fyneApp.NewWindow("ScreenFlow")
	// Restore window size from preferences (with sane minimums)
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")

	eng := board.NewEngine(board.Deps{
		Gateway:        client,
		Notifier:       &statusNotifier{status: status, win: w},
		ProjectID:      projectID,
		ConversationID: cfg.General.ConversationID,
	})

	// Crash recovery saves the in-memory board state into the local cache.
	ws := &crash.Workspace{
		Root:      ".",
		ProjectID: projectID,
		Snapshot: func() (storage.SnapshotPayload, error) {
			return storage.SnapshotPayload{
				ProjectID: projectID,
				Canvases:  eng.Registry.Canvases(),
				Features:  eng.Features.All(),
			}, nil
		},
	}
	defer func() { crash.Recover(ws) }()

	bw := NewBoardCanvas(eng)
	zoomLabel := widget.NewLabel("70%")
	refreshZoom := func() {
		zoomLabel.SetText(fmt.Sprintf("%d%%", int(eng.Viewport.Zoom*100+0.5)))
	}
	eng.Viewport.OnChange = func() {
		refreshZoom()
		bw.Refresh()
	}
	eng.OnRender = func() { bw.Refresh() }

	pv := &preview.Controller{}
	eng.OnOpenPreview = func(featureID, pageID string) {
		f, ok := eng.Features.Get(featureID)
		if !ok {
			return
		}
		pv.Open(f, pageID)
		showPreviewDialog(w, pv)
		telemetry.Event("preview.open", map[string]any{"platform": f.Platform})
	}

	// Animation driver: step pending zoom/pan animations on a frame tick.
	animStop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(16 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-animStop:
				return
			case <-ticker.C:
				fyne.Do(func() {
					if eng.Animator.Step() {
						bw.Refresh()
					}
				})
			}
		}
	}()
	w.SetOnClosed(func() {
		close(animStop)
		prefs.SetInt("window.width", int(w.Canvas().Size().Width))
		prefs.SetInt("window.height", int(w.Canvas().Size().Height))
	})

	// Canvas selector and lifecycle
	canvasSelect := widget.NewSelect(nil, nil)
	refreshCanvasList := func() {
		names := make([]string, 0, eng.Registry.Len())
		for _, cv := range eng.Registry.Canvases() {
			names = append(names, cv.Name)
		}
		canvasSelect.Options = names
		if cv, ok := eng.Registry.Active(); ok {
			canvasSelect.SetSelected(cv.Name)
		}
		canvasSelect.Refresh()
	}
	canvasSelect.OnChanged = func(name string) {
		for _, cv := range eng.Registry.Canvases() {
			if cv.Name == name && cv.ID != eng.Registry.ActiveID() {
				_ = eng.SwitchCanvas(context.Background(), cv.ID)
				return
			}
		}
	}

	newCanvasBtn := widget.NewButton("New Canvas", func() {
		entry := widget.NewEntry()
		entry.SetPlaceHolder("Canvas name")
		dialog.ShowForm("New Canvas", "Create", "Cancel",
			[]*widget.FormItem{widget.NewFormItem("Name", entry)},
			func(ok bool) {
				if !ok || strings.TrimSpace(entry.Text) == "" {
					return
				}
				if err := eng.CreateCanvas(context.Background(), strings.TrimSpace(entry.Text), false); err == nil {
					refreshCanvasList()
				}
			}, w)
	})
	deleteCanvasBtn := widget.NewButton("Delete Canvas", func() {
		cv, ok := eng.Registry.Active()
		if !ok {
			return
		}
		dialog.ShowConfirm("Delete Canvas",
			fmt.Sprintf("Delete canvas %q? Saved screen positions on it are lost.", cv.Name),
			func(ok bool) {
				if !ok {
					return
				}
				if err := eng.DeleteCanvas(context.Background(), cv.ID); err == nil {
					refreshCanvasList()
				}
			}, w)
	})

	// Tool buttons
	toolSelectBtn := widget.NewButton("Select (V)", func() { eng.Select.SetTool(board.ToolSelect) })
	toolHandBtn := widget.NewButton("Hand (H)", func() { eng.Select.SetTool(board.ToolHand) })
	toolAddBtn := widget.NewButton("Add Screen (A)", func() {
		eng.Select.SetTool(board.ToolAddScreen)
		showAddScreenDialog(w, eng)
	})
	urlBtn := widget.NewButton("Load URL (W)", func() { showLoadURLDialog(w, eng) })

	viewportSize := func() vector.Size {
		sz := bw.Size()
		return vector.Size{W: float64(sz.Width), H: float64(sz.Height)}
	}
	zoomOutBtn := widget.NewButton("-", func() { eng.ZoomStep(-1, viewportSize()) })
	zoomInBtn := widget.NewButton("+", func() { eng.ZoomStep(+1, viewportSize()) })
	fitBtn := widget.NewButton("Fit", func() { eng.FitToScreen(viewportSize()) })
	undoBtn := widget.NewButton("Undo", func() { eng.Undo(context.Background()) })
	redoBtn := widget.NewButton("Redo", func() { eng.Redo(context.Background()) })

	toolbar := container.NewHBox(
		toolSelectBtn, toolHandBtn, toolAddBtn, urlBtn,
		widget.NewSeparator(),
		zoomOutBtn, zoomLabel, zoomInBtn, fitBtn,
		widget.NewSeparator(),
		undoBtn, redoBtn,
		widget.NewSeparator(),
		canvasSelect, newCanvasBtn, deleteCanvasBtn,
	)

	// Keyboard shortcuts route through the engine; Delete asks for
	// confirmation naming the screens about to go.
	w.Canvas().SetOnTypedRune(func(r rune) {
		eng.KeyPressed(strings.ToLower(string(r)))
		bw.Refresh()
	})
	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			keys := eng.KeyPressed("Delete")
			if len(keys) > 0 {
				confirmDeleteScreens(w, eng, keys)
			}
		case fyne.KeyEscape:
			eng.Select.Clear()
			bw.Refresh()
		}
	})

	w.SetContent(container.NewBorder(toolbar, status, nil, nil, bw))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := eng.Bootstrap(ctx); err != nil {
		l.Error("bootstrap failed", slog.Any("err", err))
		if snap, serr := loadCachedSnapshot(ctx, projectID); serr == nil {
			eng.SeedFromSnapshot(snap.Canvases, snap.Features)
		} else {
			l.Warn("no usable offline snapshot", slog.Any("err", serr))
		}
	}
	refreshCanvasList()
	refreshZoom()
	eng.FitToScreen(viewportSize())

	w.ShowAndRun()
	return nil
}

// loadCachedSnapshot opens the workspace cache and returns the latest
// snapshot for the project, for offline opens when the backend is down.
func loadCachedSnapshot(ctx context.Context, projectID string) (storage.SnapshotPayload, error) {
	db, err := storage.InitOrOpenCache(".")
	if err != nil {
		return storage.SnapshotPayload{}, err
	}
	defer db.Close()
	return storage.LoadLatestSnapshot(ctx, db, projectID)
}

// statusNotifier surfaces engine toasts in the status bar; errors also get
// a dialog so they are not missed.
type statusNotifier struct {
	status *widget.Label
	win    fyne.Window
}

func (n *statusNotifier) Toast(level, message string) {
	n.status.SetText(message)
	if level == board.ToastError {
		dialog.ShowInformation("Error", message, n.win)
	}
}

func confirmDeleteScreens(w fyne.Window, eng *board.Engine, keys []string) {
	names := make([]string, 0, len(keys))
	byFeature := map[string][]string{}
	for _, key := range keys {
		fid, pid, ok := eng.Features.ResolveKey(key)
		if !ok {
			continue
		}
		byFeature[fid] = append(byFeature[fid], pid)
		if f, ok := eng.Features.Get(fid); ok {
			if p := f.FindPage(pid); p != nil {
				names = append(names, p.PageName)
			}
		}
	}
	if len(names) == 0 {
		return
	}
	dialog.ShowConfirm("Delete Screens",
		fmt.Sprintf("Delete %s? This removes the screen everywhere, not just from this canvas.", strings.Join(names, ", ")),
		func(ok bool) {
			if !ok {
				return
			}
			for fid, pids := range byFeature {
				_ = eng.DeleteScreens(context.Background(), fid, pids)
			}
		}, w)
}

func showAddScreenDialog(w fyne.Window, eng *board.Engine) {
	feature := widget.NewEntry()
	feature.SetPlaceHolder("Feature id")
	desc := widget.NewMultiLineEntry()
	desc.SetPlaceHolder("Describe the screen to generate")
	dialog.ShowForm("Add Screen", "Generate", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Feature", feature),
			widget.NewFormItem("Description", desc),
		},
		func(ok bool) {
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			_ = eng.GenerateScreen(ctx, strings.TrimSpace(feature.Text), strings.TrimSpace(desc.Text))
		}, w)
}

func showLoadURLDialog(w fyne.Window, eng *board.Engine) {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("https://example.com")
	dialog.ShowForm("Load External URL", "Load", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("URL", entry)},
		func(ok bool) {
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			_ = eng.LoadExternalURL(ctx, entry.Text)
		}, w)
}

// previewKeyHandler routes keyboard input while the preview modal is open:
// left/right arrows page, Escape closes. sync refreshes the dialog widgets
// after navigation.
func previewKeyHandler(pv *preview.Controller, sync func(), close func()) func(*fyne.KeyEvent) {
	return func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyLeft:
			pv.Prev()
			sync()
		case fyne.KeyRight:
			pv.Next()
			sync()
		case fyne.KeyEscape:
			close()
		}
	}
}

// showPreviewDialog opens the full-fidelity preview modal with pager
// controls. The composed document is shown as markup source; rendering it
// in an embedded browser is the job of a platform webview, not this shell.
// While the dialog is up it takes over the window's key handler so the
// arrow keys page and Escape closes; the board handler comes back on close.
func showPreviewDialog(w fyne.Window, pv *preview.Controller) {
	if !pv.IsOpen() {
		return
	}
	title := widget.NewLabelWithStyle(pv.Title(), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	counter := widget.NewLabel(pv.Counter())
	doc := widget.NewMultiLineEntry()
	doc.Wrapping = fyne.TextWrapWord
	doc.SetText(pv.Document())
	doc.Disable()

	var prevBtn, nextBtn *widget.Button
	sync := func() {
		title.SetText(pv.Title())
		counter.SetText(pv.Counter())
		doc.SetText(pv.Document())
		if pv.CanPrev() {
			prevBtn.Enable()
		} else {
			prevBtn.Disable()
		}
		if pv.CanNext() {
			nextBtn.Enable()
		} else {
			nextBtn.Disable()
		}
	}
	prevBtn = widget.NewButton("Previous", func() { pv.Prev(); sync() })
	nextBtn = widget.NewButton("Next", func() { pv.Next(); sync() })
	sync()

	content := container.NewBorder(
		container.NewVBox(title, container.NewHBox(prevBtn, counter, nextBtn)),
		nil, nil, nil, doc)
	d := dialog.NewCustom("Preview", "Close", content, w)
	boardKeys := w.Canvas().OnTypedKey()
	w.Canvas().SetOnTypedKey(previewKeyHandler(pv, sync, func() { d.Hide() }))
	d.SetOnClosed(func() {
		pv.Close()
		w.Canvas().SetOnTypedKey(boardKeys)
	})
	d.Resize(fyne.NewSize(900, 700))
	d.Show()
}

// BoardCanvas is the interactive board surface. It forwards pointer input
// to the engine and draws the engine's layout through its renderer.
type BoardCanvas struct {
	widget.BaseWidget
	eng     *board.Engine
	pressed bool
}

func NewBoardCanvas(eng *board.Engine) *BoardCanvas {
	bc := &BoardCanvas{eng: eng}
	bc.ExtendBaseWidget(bc)
	return bc
}

func (b *BoardCanvas) PreferredSize() fyne.Size { return fyne.NewSize(1000, 700) }

func (b *BoardCanvas) MouseDown(e *desktop.MouseEvent) {
	b.pressed = true
	b.eng.PointerDown(vector.Pt{X: float64(e.Position.X), Y: float64(e.Position.Y)})
}

func (b *BoardCanvas) MouseUp(e *desktop.MouseEvent) {
	b.pressed = false
	mods := board.Modifiers{
		Shift: e.Modifier&fyne.KeyModifierShift != 0,
		Ctrl:  e.Modifier&fyne.KeyModifierControl != 0,
		Meta:  e.Modifier&fyne.KeyModifierSuper != 0,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	b.eng.PointerUp(ctx, vector.Pt{X: float64(e.Position.X), Y: float64(e.Position.Y)}, mods)
	b.Refresh()
}

func (b *BoardCanvas) MouseIn(*desktop.MouseEvent) {}
func (b *BoardCanvas) MouseOut()                   {}

func (b *BoardCanvas) MouseMoved(e *desktop.MouseEvent) {
	if !b.pressed {
		return
	}
	b.eng.PointerMove(vector.Pt{X: float64(e.Position.X), Y: float64(e.Position.Y)})
}

func (b *BoardCanvas) Scrolled(e *fyne.ScrollEvent) {
	delta := float64(e.Scrolled.DY)
	if delta > 0 {
		delta = 1
	} else if delta < 0 {
		delta = -1
	}
	b.eng.ZoomWheel(delta, vector.Pt{X: float64(e.Position.X), Y: float64(e.Position.Y)})
	b.Refresh()
}

func (b *BoardCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 246, G: 246, B: 248, A: 255})
	return &boardRenderer{bc: b, bg: bg, objects: []fyne.CanvasObject{bg}}
}

// boardRenderer draws the current layout. The object list is rebuilt on
// every refresh because the card set changes with canvas switches,
// deletions, and generation.
type boardRenderer struct {
	bc      *BoardCanvas
	bg      *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *boardRenderer) Destroy()                     {}
func (r *boardRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *boardRenderer) MinSize() fyne.Size           { return fyne.NewSize(400, 300) }

func (r *boardRenderer) Refresh() {
	r.rebuild()
	r.Layout(r.bc.Size())
	canvas.Refresh(r.bc)
}

func (r *boardRenderer) rebuild() {
	r.objects = r.objects[:0]
	r.objects = append(r.objects, r.bg)

	eng := r.bc.eng
	l := eng.Layout()
	if l.Empty {
		empty := canvas.NewText("This canvas is empty. Add screens to get started.", color.RGBA{R: 120, G: 120, B: 120, A: 255})
		empty.TextSize = 16
		r.objects = append(r.objects, empty)
		return
	}
	for si := range l.Sections {
		sec := &l.Sections[si]
		header := canvas.NewText(
			fmt.Sprintf("%s  ·  %s  ·  %d screens", sec.Header.Name, sec.Header.Platform, sec.Header.ScreenCount),
			color.RGBA{R: 40, G: 40, B: 40, A: 255})
		header.TextStyle = fyne.TextStyle{Bold: true}
		r.objects = append(r.objects, header)
		for ci := range sec.Cards {
			card := &sec.Cards[ci]
			rect := canvas.NewRectangle(color.White)
			rect.CornerRadius = 8
			if eng.Select.Has(card.Key()) {
				rect.StrokeColor = color.RGBA{R: 0, G: 122, B: 255, A: 255}
				rect.StrokeWidth = 3
			} else {
				rect.StrokeColor = color.RGBA{R: 200, G: 200, B: 205, A: 255}
				rect.StrokeWidth = 1
			}
			label := canvas.NewText(card.PageName, color.Black)
			label.TextSize = 12
			r.objects = append(r.objects, rect, label)
		}
	}
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))

	eng := r.bc.eng
	l := eng.Layout()
	vp := eng.Viewport
	zoom := float32(vp.Zoom)

	i := 1 // objects[0] is the background
	if l.Empty {
		if i < len(r.objects) {
			r.objects[i].Move(fyne.NewPos(size.Width/2-180, size.Height/2))
		}
		return
	}
	for si := range l.Sections {
		sec := &l.Sections[si]
		if i >= len(r.objects) {
			return
		}
		hp := vp.CanvasToScreen(vector.Pt{X: sec.Header.Pos.X, Y: sec.Header.Pos.Y})
		h := r.objects[i].(*canvas.Text)
		h.TextSize = 18 * zoom
		h.Move(fyne.NewPos(float32(hp.X), float32(hp.Y)))
		i++
		for ci := range sec.Cards {
			card := &sec.Cards[ci]
			if i+1 >= len(r.objects) {
				return
			}
			bounds := card.Bounds()
			tl := vp.CanvasToScreen(vector.Pt{X: bounds.X, Y: bounds.Y})
			rect := r.objects[i].(*canvas.Rectangle)
			rect.Move(fyne.NewPos(float32(tl.X), float32(tl.Y)))
			rect.Resize(fyne.NewSize(float32(bounds.W)*zoom, float32(bounds.H)*zoom))
			label := r.objects[i+1].(*canvas.Text)
			label.TextSize = 12 * zoom
			label.Move(fyne.NewPos(float32(tl.X)+8*zoom, float32(tl.Y)+float32(bounds.H)*zoom-20*zoom))
			i += 2
		}
	}
}
