package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/color"
	"image/png"
	"os"

	"sketchpad/internal/element"
	"sketchpad/pkg/colorutil"
	"sketchpad/pkg/geometry"
)

const documentVersion = 1

// DocumentFile is the JSON structure of a .sketch file.
type DocumentFile struct {
	Version  int             `json:"version"`
	Elements []ElementRecord `json:"elements"`

	ViewScale  float64          `json:"view_scale,omitempty"`
	ViewOffset geometry.Point2D `json:"view_offset,omitempty"`
}

// ElementRecord is the serialized form of one element. Type selects which
// fields are meaningful.
type ElementRecord struct {
	Type        string  `json:"type"` // stroke, shape, text, image
	ID          string  `json:"id"`
	StrokeColor string  `json:"stroke_color"`
	FillColor   string  `json:"fill_color,omitempty"`
	Width       float64 `json:"width"`
	Opacity     float64 `json:"opacity"`

	Points []geometry.Point2D `json:"points,omitempty"`

	ShapeKind string           `json:"shape_kind,omitempty"`
	Anchor    geometry.Point2D `json:"anchor,omitempty"`
	Opposite  geometry.Point2D `json:"opposite,omitempty"`

	Content       string  `json:"content,omitempty"`
	Font          string  `json:"font,omitempty"`
	FontSize      float64 `json:"font_size,omitempty"`
	Bold          bool    `json:"bold,omitempty"`
	Italic        bool    `json:"italic,omitempty"`
	Underline     bool    `json:"underline,omitempty"`
	Strikethrough bool    `json:"strikethrough,omitempty"`

	ImageWidth  float64 `json:"image_width,omitempty"`
	ImageHeight float64 `json:"image_height,omitempty"`
	Generated   bool    `json:"generated,omitempty"`
	Overlay     bool    `json:"overlay,omitempty"`
	PNG         []byte  `json:"png,omitempty"`
}

// SaveDocument writes the element list and viewport to a .sketch JSON file.
// Images whose bitmaps never resolved are omitted.
func SaveDocument(path string, elements []element.Element, viewScale float64, viewOffset geometry.Point2D) error {
	doc := DocumentFile{
		Version:    documentVersion,
		ViewScale:  viewScale,
		ViewOffset: viewOffset,
	}
	for _, el := range elements {
		rec, ok, err := encodeElement(el)
		if err != nil {
			return err
		}
		if ok {
			doc.Elements = append(doc.Elements, rec)
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// LoadDocument reads a .sketch JSON file back into an element list and the
// saved viewport parameters.
func LoadDocument(path string) ([]element.Element, float64, geometry.Point2D, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, geometry.Point2D{}, fmt.Errorf("failed to read document: %w", err)
	}

	var doc DocumentFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, 0, geometry.Point2D{}, fmt.Errorf("failed to parse document: %w", err)
	}

	elements := make([]element.Element, 0, len(doc.Elements))
	for i, rec := range doc.Elements {
		el, err := decodeElement(rec)
		if err != nil {
			return nil, 0, geometry.Point2D{}, fmt.Errorf("element %d: %w", i, err)
		}
		elements = append(elements, el)
	}

	scale := doc.ViewScale
	if scale <= 0 {
		scale = 1.0
	}
	return elements, scale, doc.ViewOffset, nil
}

func encodeElement(el element.Element) (ElementRecord, bool, error) {
	attrs := el.Attrs()
	rec := ElementRecord{
		ID:          attrs.ID,
		StrokeColor: colorutil.ToHex(attrs.StrokeColor),
		Width:       attrs.Width,
		Opacity:     attrs.Opacity,
	}
	if attrs.FillColor.A > 0 {
		rec.FillColor = colorutil.ToHex(attrs.FillColor)
	}

	switch e := el.(type) {
	case *element.Stroke:
		rec.Type = "stroke"
		rec.Points = e.Points
	case *element.Shape:
		rec.Type = "shape"
		rec.ShapeKind = e.Kind.String()
		rec.Anchor = e.Anchor
		rec.Opposite = e.Opposite
	case *element.Text:
		rec.Type = "text"
		rec.Content = e.Content
		rec.Anchor = e.Anchor
		rec.Font = e.Format.Font
		rec.FontSize = e.Format.Size
		rec.Bold = e.Format.Bold
		rec.Italic = e.Format.Italic
		rec.Underline = e.Format.Underline
		rec.Strikethrough = e.Format.Strikethrough
	case *element.Image:
		if e.Bitmap == nil {
			return rec, false, nil
		}
		img, ok := e.Bitmap.Image()
		if !ok {
			return rec, false, nil
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return rec, false, fmt.Errorf("failed to encode image %s: %w", attrs.ID, err)
		}
		rec.Type = "image"
		rec.Anchor = e.Anchor
		rec.ImageWidth = e.Width
		rec.ImageHeight = e.Height
		rec.Generated = e.Generated
		rec.Overlay = e.Overlay
		rec.PNG = buf.Bytes()
	default:
		return rec, false, fmt.Errorf("unknown element variant %T", el)
	}
	return rec, true, nil
}

func decodeElement(rec ElementRecord) (element.Element, error) {
	common := element.Common{
		ID:          rec.ID,
		StrokeColor: colorutil.FromHex(rec.StrokeColor, colorutil.Black),
		FillColor:   colorutil.FromHex(rec.FillColor, color.RGBA{}),
		Width:       rec.Width,
		Opacity:     rec.Opacity,
	}
	if common.ID == "" {
		common.ID = element.NewID()
	}

	switch rec.Type {
	case "stroke":
		return &element.Stroke{Common: common, Points: rec.Points}, nil
	case "shape":
		return &element.Shape{
			Common:   common,
			Kind:     shapeKindFromString(rec.ShapeKind),
			Anchor:   rec.Anchor,
			Opposite: rec.Opposite,
		}, nil
	case "text":
		return &element.Text{
			Common:  common,
			Content: rec.Content,
			Anchor:  rec.Anchor,
			Format: element.TextFormat{
				Font:          rec.Font,
				Size:          rec.FontSize,
				Bold:          rec.Bold,
				Italic:        rec.Italic,
				Underline:     rec.Underline,
				Strikethrough: rec.Strikethrough,
			},
		}, nil
	case "image":
		img, err := png.Decode(bytes.NewReader(rec.PNG))
		if err != nil {
			return nil, fmt.Errorf("failed to decode embedded image: %w", err)
		}
		return &element.Image{
			Common:    common,
			Bitmap:    element.NewBitmap(img),
			Anchor:    rec.Anchor,
			Width:     rec.ImageWidth,
			Height:    rec.ImageHeight,
			Generated: rec.Generated,
			Overlay:   rec.Overlay,
		}, nil
	default:
		return nil, fmt.Errorf("unknown element type %q", rec.Type)
	}
}

func shapeKindFromString(s string) element.ShapeKind {
	switch s {
	case "circle":
		return element.ShapeCircle
	case "line":
		return element.ShapeLine
	case "arrow":
		return element.ShapeArrow
	default:
		return element.ShapeRectangle
	}
}
