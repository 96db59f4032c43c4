// Package app provides application-level state, preferences, and the custom
// theme. The drawing engine owns everything inside a sketch; State owns the
// externally configured defaults that survive between sessions.
package app

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"

	"sketchpad/internal/element"
	"sketchpad/pkg/colorutil"
)

// EventType identifies application events.
type EventType int

const (
	// EventStyleChanged fires when any drawing default changes.
	EventStyleChanged EventType = iota
	// EventDocumentChanged fires when the open document path or its
	// modified flag changes.
	EventDocumentChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Preference keys.
const (
	prefKeyStrokeColor = "style.strokeColor"
	prefKeyFillColor   = "style.fillColor"
	prefKeyBrushSize   = "style.brushSize"
	prefKeyOpacity     = "style.opacity"
	prefKeySmoothing   = "style.smoothing"
	prefKeyTextSize    = "style.textSize"
	prefKeyLastDir     = "io.lastDir"
)

// State holds the configurable drawing defaults, the open document path, and
// the application event hub.
type State struct {
	mu sync.RWMutex

	// Drawing defaults pushed into the engine.
	StrokeColor color.RGBA
	FillColor   color.RGBA
	BrushSize   float64
	Opacity     float64
	Smoothing   bool
	TextFormat  element.TextFormat

	// Document
	DocumentPath string
	Modified     bool

	// Last directory used by open/save/import dialogs.
	LastDir string

	listeners map[EventType][]EventListener
}

// NewState creates application state with the built-in defaults.
func NewState() *State {
	return &State{
		StrokeColor: colorutil.Black,
		FillColor:   color.RGBA{},
		BrushSize:   3.0,
		Opacity:     1.0,
		TextFormat:  element.TextFormat{Font: "Latin Modern", Size: 16},
		listeners:   make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the document as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	changed := s.Modified != modified
	s.Modified = modified
	s.mu.Unlock()
	if changed {
		s.Emit(EventDocumentChanged, modified)
	}
}

// SetDocumentPath records the open document path.
func (s *State) SetDocumentPath(path string) {
	s.mu.Lock()
	s.DocumentPath = path
	s.Modified = false
	s.mu.Unlock()
	s.Emit(EventDocumentChanged, path)
}

// LoadPreferences restores drawing defaults from the preference store.
func (s *State) LoadPreferences(p fyne.Preferences) {
	s.mu.Lock()
	s.StrokeColor = colorutil.FromHex(p.String(prefKeyStrokeColor), s.StrokeColor)
	s.FillColor = colorutil.FromHex(p.String(prefKeyFillColor), s.FillColor)
	s.BrushSize = p.FloatWithFallback(prefKeyBrushSize, s.BrushSize)
	s.Opacity = p.FloatWithFallback(prefKeyOpacity, s.Opacity)
	s.Smoothing = p.BoolWithFallback(prefKeySmoothing, s.Smoothing)
	s.TextFormat.Size = p.FloatWithFallback(prefKeyTextSize, s.TextFormat.Size)
	s.LastDir = p.String(prefKeyLastDir)
	s.mu.Unlock()
	s.Emit(EventStyleChanged, nil)
}

// SavePreferences writes the current drawing defaults to the preference store.
func (s *State) SavePreferences(p fyne.Preferences) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p.SetString(prefKeyStrokeColor, colorutil.ToHex(s.StrokeColor))
	p.SetString(prefKeyFillColor, colorutil.ToHex(s.FillColor))
	p.SetFloat(prefKeyBrushSize, s.BrushSize)
	p.SetFloat(prefKeyOpacity, s.Opacity)
	p.SetBool(prefKeySmoothing, s.Smoothing)
	p.SetFloat(prefKeyTextSize, s.TextFormat.Size)
	p.SetString(prefKeyLastDir, s.LastDir)
}

// SetStrokeColor updates the default stroke color.
func (s *State) SetStrokeColor(c color.RGBA) {
	s.mu.Lock()
	s.StrokeColor = c
	s.mu.Unlock()
	s.Emit(EventStyleChanged, nil)
}

// SetFillColor updates the default shape fill color.
func (s *State) SetFillColor(c color.RGBA) {
	s.mu.Lock()
	s.FillColor = c
	s.mu.Unlock()
	s.Emit(EventStyleChanged, nil)
}

// SetBrushSize updates the default stroke width and eraser diameter.
func (s *State) SetBrushSize(size float64) {
	s.mu.Lock()
	s.BrushSize = size
	s.mu.Unlock()
	s.Emit(EventStyleChanged, nil)
}

// SetOpacity updates the default element opacity.
func (s *State) SetOpacity(opacity float64) {
	s.mu.Lock()
	s.Opacity = opacity
	s.mu.Unlock()
	s.Emit(EventStyleChanged, nil)
}

// SetSmoothing toggles stroke smoothing.
func (s *State) SetSmoothing(on bool) {
	s.mu.Lock()
	s.Smoothing = on
	s.mu.Unlock()
	s.Emit(EventStyleChanged, nil)
}

// SetTextFormat updates the default text format.
func (s *State) SetTextFormat(f element.TextFormat) {
	s.mu.Lock()
	s.TextFormat = f
	s.mu.Unlock()
	s.Emit(EventStyleChanged, nil)
}

// SetLastDir records the directory of the most recent file dialog.
func (s *State) SetLastDir(dir string) {
	s.mu.Lock()
	s.LastDir = dir
	s.mu.Unlock()
}
