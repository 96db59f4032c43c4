// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"path/filepath"

	_ "image/gif"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"sketchpad/internal/app"
	"sketchpad/internal/board"
	"sketchpad/internal/element"
	"sketchpad/internal/export"
	"sketchpad/internal/version"
	"sketchpad/pkg/colorutil"
	"sketchpad/pkg/geometry"
	"sketchpad/ui/canvas"
	"sketchpad/ui/dialogs"
)

var imageFilter = storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff"})
var sketchFilter = storage.NewExtensionFileFilter([]string{".sketch"})

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	board *board.Board

	canvas    *canvas.BoardCanvas
	textDlg   *dialogs.TextFormatDialog
	statusBar *widget.Label

	toolButtons map[string]*widget.Button
	activeTool  string
	sizeSlider  *widget.Slider
}

// New creates the main window around an engine instance.
func New(fyneApp fyne.App, state *app.State, b *board.Board) *MainWindow {
	win := fyneApp.NewWindow("Sketchpad")

	mw := &MainWindow{
		Window:      win,
		app:         fyneApp,
		state:       state,
		board:       b,
		toolButtons: make(map[string]*widget.Button),
	}

	mw.textDlg = dialogs.NewTextFormatDialog(win, mw.onTextConfirm, b.CancelTextEdit)

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.applyStyle()

	win.SetCloseIntercept(func() {
		state.SavePreferences(fyneApp.Preferences())
		win.Close()
	})
	win.Resize(fyne.NewSize(1100, 750))
	return mw
}

// setupUI creates the main layout: toolbar, canvas, status bar.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.New(mw.board)
	mw.statusBar = widget.NewLabel("Ready")

	content := container.NewBorder(
		mw.createToolbar(),
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		mw.canvas,
	)
	mw.SetContent(content)
}

func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	tools := container.NewHBox(
		mw.toolButton("Pen", func() { mw.board.SetTool(board.ToolBrush) }),
		mw.toolButton("Line", mw.shapeTool(element.ShapeLine)),
		mw.toolButton("Arrow", mw.shapeTool(element.ShapeArrow)),
		mw.toolButton("Rect", mw.shapeTool(element.ShapeRectangle)),
		mw.toolButton("Circle", mw.shapeTool(element.ShapeCircle)),
		mw.toolButton("Text", func() { mw.board.SetTool(board.ToolText) }),
		mw.toolButton("Select", func() { mw.board.SetTool(board.ToolSelect) }),
		mw.toolButton("Eraser", func() { mw.board.SetTool(board.ToolEraserPixel) }),
		mw.toolButton("Stroke Eraser", func() { mw.board.SetTool(board.ToolEraserStroke) }),
	)
	mw.setActiveTool("Pen")

	mw.sizeSlider = widget.NewSlider(1, 40)
	mw.sizeSlider.Value = mw.state.BrushSize
	mw.sizeSlider.OnChanged = func(v float64) { mw.state.SetBrushSize(v) }

	smoothCheck := widget.NewCheck("Smooth", func(on bool) { mw.state.SetSmoothing(on) })
	smoothCheck.SetChecked(mw.state.Smoothing)

	swatches := container.NewHBox()
	for _, c := range colorutil.Palette {
		swatches.Add(newSwatch(c, mw.state.SetStrokeColor))
	}
	strokeBtn := widget.NewButton("Stroke...", func() {
		dialog.ShowColorPicker("Stroke Color", "", func(c color.Color) {
			mw.state.SetStrokeColor(toRGBA(c))
		}, mw.Window)
	})
	fillBtn := widget.NewButton("Fill...", func() {
		dialog.ShowColorPicker("Fill Color", "", func(c color.Color) {
			mw.state.SetFillColor(toRGBA(c))
		}, mw.Window)
	})

	zoomOutBtn := widget.NewButton("-", func() { mw.board.Wheel(-1) })
	zoomInBtn := widget.NewButton("+", func() { mw.board.Wheel(1) })

	return container.NewHBox(
		tools,
		widget.NewSeparator(),
		swatches,
		strokeBtn,
		fillBtn,
		widget.NewLabel("Size:"),
		container.NewGridWrap(fyne.NewSize(120, 36), mw.sizeSlider),
		smoothCheck,
		widget.NewSeparator(),
		widget.NewButton("Undo", mw.board.Undo),
		widget.NewButton("Redo", mw.board.Redo),
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"),
		zoomOutBtn,
		zoomInBtn,
	)
}

func (mw *MainWindow) toolButton(name string, action func()) *widget.Button {
	btn := widget.NewButton(name, func() {
		action()
		mw.setActiveTool(name)
	})
	mw.toolButtons[name] = btn
	return btn
}

func (mw *MainWindow) shapeTool(kind element.ShapeKind) func() {
	return func() {
		mw.board.SetShapeKind(kind)
		mw.board.SetTool(board.ToolShape)
	}
}

func (mw *MainWindow) setActiveTool(name string) {
	if prev, ok := mw.toolButtons[mw.activeTool]; ok {
		prev.Importance = widget.MediumImportance
		prev.Refresh()
	}
	mw.activeTool = name
	if btn, ok := mw.toolButtons[name]; ok {
		btn.Importance = widget.HighImportance
		btn.Refresh()
	}
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New", mw.onNew),
		fyne.NewMenuItem("Open...", mw.onOpen),
		fyne.NewMenuItem("Save", mw.onSave),
		fyne.NewMenuItem("Save As...", mw.onSaveAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Image...", mw.onImportImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export JPEG...", func() { mw.exportRaster(export.FormatJPEG, ".jpg") }),
		fyne.NewMenuItem("Export PNG...", func() { mw.exportRaster(export.FormatPNG, ".png") }),
		fyne.NewMenuItem("Export PDF...", mw.onExportPDF),
		fyne.NewMenuItem("Export Selection...", mw.onExportSelection),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.board.Undo),
		fyne.NewMenuItem("Redo", mw.board.Redo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear Board", mw.onClear),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() { mw.board.Wheel(1) }),
		fyne.NewMenuItem("Zoom Out", func() { mw.board.Wheel(-1) }),
		fyne.NewMenuItem("Actual Size", func() {
			mw.board.RestoreView(1.0, geometry.Point2D{})
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
}

// setupEventHandlers wires engine signals and state changes into the UI.
func (mw *MainWindow) setupEventHandlers() {
	mw.board.On(board.EventTextEditRequested, func(data interface{}) {
		req, ok := data.(*board.TextEditRequest)
		if !ok {
			return
		}
		format := req.Format
		if req.ExistingID == "" {
			format = mw.state.TextFormat
		}
		mw.textDlg.Show(req.Content, format)
	})

	mw.board.On(board.EventTextEditClosed, func(interface{}) {
		mw.textDlg.Close()
	})

	mw.board.On(board.EventSelectionCompleted, func(interface{}) {
		mw.onExportSelection()
	})

	mw.board.On(board.EventHistoryChanged, func(interface{}) {
		mw.state.SetModified(true)
		mw.updateStatus()
	})

	mw.state.On(app.EventStyleChanged, func(interface{}) {
		mw.applyStyle()
	})

	mw.state.On(app.EventDocumentChanged, func(interface{}) {
		title := "Sketchpad"
		if mw.state.DocumentPath != "" {
			title += " - " + filepath.Base(mw.state.DocumentPath)
		}
		if mw.state.Modified {
			title += " *"
		}
		mw.SetTitle(title)
	})
}

// applyStyle pushes the state's drawing defaults into the engine.
func (mw *MainWindow) applyStyle() {
	mw.board.SetStrokeColor(mw.state.StrokeColor)
	mw.board.SetFillColor(mw.state.FillColor)
	mw.board.SetBrushSize(mw.state.BrushSize)
	mw.board.SetOpacity(mw.state.Opacity)
	mw.board.SetSmoothing(mw.state.Smoothing)
	mw.board.SetTextFormat(mw.state.TextFormat)
	if mw.sizeSlider != nil && mw.sizeSlider.Value != mw.state.BrushSize {
		mw.sizeSlider.Value = mw.state.BrushSize
		mw.sizeSlider.Refresh()
	}
}

func (mw *MainWindow) updateStatus() {
	mw.statusBar.SetText(fmt.Sprintf("%d elements", len(mw.board.Elements())))
}

func (mw *MainWindow) onTextConfirm(content string, format element.TextFormat) {
	mw.board.ConfirmText(content, format)
	mw.state.SetTextFormat(format)
}

func (mw *MainWindow) onNew() {
	mw.board.Clear()
	mw.state.SetDocumentPath("")
}

func (mw *MainWindow) onClear() {
	dialog.ShowConfirm("Clear Board", "Remove all elements? This can be undone.",
		func(confirmed bool) {
			if confirmed {
				mw.board.Clear()
			}
		}, mw.Window)
}

func (mw *MainWindow) onOpen() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		path := reader.URI().Path()
		elements, scale, offset, err := app.LoadDocument(path)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.board.ReplaceAll(elements)
		mw.board.RestoreView(scale, offset)
		mw.state.SetLastDir(filepath.Dir(path))
		mw.state.SetDocumentPath(path)
	}, mw.Window)
	fd.SetFilter(sketchFilter)
	fd.Show()
}

func (mw *MainWindow) onSave() {
	if mw.state.DocumentPath == "" {
		mw.onSaveAs()
		return
	}
	mw.saveTo(mw.state.DocumentPath)
}

func (mw *MainWindow) onSaveAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		mw.saveTo(path)
	}, mw.Window)
	fd.SetFileName("untitled.sketch")
	fd.SetFilter(sketchFilter)
	fd.Show()
}

func (mw *MainWindow) saveTo(path string) {
	view := mw.board.View()
	err := app.SaveDocument(path, mw.board.Elements(), view.Scale(), view.Offset())
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.state.SetLastDir(filepath.Dir(path))
	mw.state.SetDocumentPath(path)
}

func (mw *MainWindow) onImportImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		img, _, err := image.Decode(reader)
		if err != nil {
			dialog.ShowError(fmt.Errorf("failed to decode image: %w", err), mw.Window)
			return
		}
		anchor := mw.board.View().ToWorld(geometry.Point2D{X: 40, Y: 40})
		mw.board.ImportImage(element.NewBitmap(img),
			geometry.NewRect(anchor.X, anchor.Y, 0, 0))
		mw.state.SetLastDir(filepath.Dir(reader.URI().Path()))
	}, mw.Window)
	fd.SetFilter(imageFilter)
	fd.Show()
}

func (mw *MainWindow) exportRaster(format export.Format, ext string) {
	data, ok := mw.board.ExportRaster(format, nil)
	if !ok {
		dialog.ShowInformation("Export", "Nothing to export.", mw.Window)
		return
	}
	mw.saveBytes(data, "sketch"+ext)
}

func (mw *MainWindow) onExportPDF() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		if err := mw.board.ExportPDF(writer); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("sketch.pdf")
	fd.Show()
}

// onExportSelection saves the current selection as a JPEG crop. With no
// selection it arms selection mode so the next drag captures one.
func (mw *MainWindow) onExportSelection() {
	if mw.board.Selection() == nil {
		mw.board.StartSelectionMode()
		mw.statusBar.SetText("Drag to select the export region")
		return
	}
	mw.board.RequestSelectionCrop(func(data []byte, ok bool) {
		if !ok {
			dialog.ShowInformation("Export", "The selection is empty.", mw.Window)
			return
		}
		mw.saveBytes(data, "selection.jpg")
	})
}

func (mw *MainWindow) saveBytes(data []byte, suggested string) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		if _, err := writer.Write(data); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		log.Printf("mainwindow: exported %d bytes to %s", len(data), writer.URI().Path())
	}, mw.Window)
	fd.SetFileName(suggested)
	fd.Show()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Sketchpad",
		fmt.Sprintf("Sketchpad v%s\nA freehand drawing surface.", version.Version),
		mw.Window)
}

// SavePreferences persists the drawing defaults.
func (mw *MainWindow) SavePreferences() {
	mw.state.SavePreferences(mw.app.Preferences())
}

// OpenDocument loads a document given on the command line.
func (mw *MainWindow) OpenDocument(path string) error {
	elements, scale, offset, err := app.LoadDocument(path)
	if err != nil {
		return err
	}
	mw.board.ReplaceAll(elements)
	mw.board.RestoreView(scale, offset)
	mw.state.SetDocumentPath(path)
	return nil
}

func toRGBA(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}
