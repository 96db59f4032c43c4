package mainwindow

import (
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// swatch is a small tappable color tile in the toolbar palette.
type swatch struct {
	widget.BaseWidget
	rect     *fynecanvas.Rectangle
	onTapped func(color.RGBA)
	col      color.RGBA
}

func newSwatch(c color.RGBA, onTapped func(color.RGBA)) *swatch {
	s := &swatch{
		rect:     fynecanvas.NewRectangle(c),
		onTapped: onTapped,
		col:      c,
	}
	s.rect.StrokeColor = color.NRGBA{A: 0x60}
	s.rect.StrokeWidth = 1
	s.ExtendBaseWidget(s)
	return s
}

func (s *swatch) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(s.rect)
}

func (s *swatch) MinSize() fyne.Size {
	return fyne.NewSize(22, 22)
}

func (s *swatch) Tapped(*fyne.PointEvent) {
	if s.onTapped != nil {
		s.onTapped(s.col)
	}
}
