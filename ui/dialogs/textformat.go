// Package dialogs provides application dialogs.
package dialogs

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"sketchpad/internal/element"
)

var fontSizes = []string{"10", "12", "14", "16", "18", "20", "24", "28", "32", "40", "48"}

// TextFormatDialog is the external text formatting surface. The engine seeds
// it with content and format, the user edits both, and confirm/cancel route
// the result back through the engine's text protocol.
type TextFormatDialog struct {
	window fyne.Window

	contentEntry *widget.Entry
	sizeSelect   *widget.Select
	boldCheck    *widget.Check
	italicCheck  *widget.Check
	underCheck   *widget.Check
	strikeCheck  *widget.Check

	dlg  *dialog.CustomDialog
	open bool

	onConfirm func(content string, format element.TextFormat)
	onCancel  func()
}

// NewTextFormatDialog creates the formatting surface bound to a window.
func NewTextFormatDialog(window fyne.Window,
	onConfirm func(content string, format element.TextFormat), onCancel func()) *TextFormatDialog {
	return &TextFormatDialog{
		window:    window,
		onConfirm: onConfirm,
		onCancel:  onCancel,
	}
}

// Show opens the surface seeded with the given content and format. A second
// Show while open replaces the previous edit.
func (d *TextFormatDialog) Show(content string, format element.TextFormat) {
	if d.open {
		d.dlg.Hide()
		d.open = false
	}

	d.contentEntry = widget.NewMultiLineEntry()
	d.contentEntry.SetText(content)
	d.contentEntry.SetPlaceHolder("Text...")

	d.sizeSelect = widget.NewSelect(fontSizes, nil)
	d.sizeSelect.SetSelected(strconv.Itoa(int(format.Size)))
	d.boldCheck = widget.NewCheck("Bold", nil)
	d.boldCheck.SetChecked(format.Bold)
	d.italicCheck = widget.NewCheck("Italic", nil)
	d.italicCheck.SetChecked(format.Italic)
	d.underCheck = widget.NewCheck("Underline", nil)
	d.underCheck.SetChecked(format.Underline)
	d.strikeCheck = widget.NewCheck("Strikethrough", nil)
	d.strikeCheck.SetChecked(format.Strikethrough)

	form := container.NewVBox(
		d.contentEntry,
		container.NewHBox(widget.NewLabel("Size"), d.sizeSelect),
		container.NewHBox(d.boldCheck, d.italicCheck, d.underCheck, d.strikeCheck),
	)

	title := "Add Text"
	if content != "" {
		title = "Edit Text"
	}
	d.dlg = dialog.NewCustomWithoutButtons(title, form, d.window)

	okBtn := widget.NewButton("OK", func() {
		result := d.result(format)
		d.dlg.Hide()
		d.open = false
		if d.onConfirm != nil {
			d.onConfirm(d.contentEntry.Text, result)
		}
	})
	okBtn.Importance = widget.HighImportance

	cancelBtn := widget.NewButton("Cancel", func() {
		d.dlg.Hide()
		d.open = false
		if d.onCancel != nil {
			d.onCancel()
		}
	})

	buttons := container.NewHBox(cancelBtn, okBtn)
	d.dlg = dialog.NewCustomWithoutButtons(title,
		container.NewBorder(nil, buttons, nil, nil, form), d.window)
	d.dlg.Resize(fyne.NewSize(420, 260))
	d.dlg.Show()
	d.open = true

	d.window.Canvas().Focus(d.contentEntry)
}

// Close hides the surface without invoking either callback. The engine uses
// this when a drag starts on the element under edit.
func (d *TextFormatDialog) Close() {
	if !d.open {
		return
	}
	d.dlg.Hide()
	d.open = false
}

func (d *TextFormatDialog) result(seed element.TextFormat) element.TextFormat {
	out := seed
	if size, err := strconv.ParseFloat(d.sizeSelect.Selected, 64); err == nil && size > 0 {
		out.Size = size
	}
	out.Bold = d.boldCheck.Checked
	out.Italic = d.italicCheck.Checked
	out.Underline = d.underCheck.Checked
	out.Strikethrough = d.strikeCheck.Checked
	return out
}
