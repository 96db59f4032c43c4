// Package export flattens rendered surfaces into encoded raster images and
// writes vector PDF exports of the committed element list.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
)

// Format selects the raster encoding.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
)

// jpegQuality matches the fixed lossy export quality of 0.9.
const jpegQuality = 90

// Flatten copies a region of the rendered surface onto an opaque white buffer
// of the region's size, discarding any transparency.
func Flatten(surface image.Image, region image.Rectangle) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, region.Dx(), region.Dy()))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), surface, region.Min, draw.Over)
	return out
}

// Encode serializes the image in the requested format. JPEG uses the fixed
// export quality.
func Encode(img image.Image, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode png: %w", err)
		}
	case FormatJPEG:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode jpeg: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown raster format %q", format)
	}
	return buf.Bytes(), nil
}

// Region flattens and encodes a screen-space pixel region of the surface.
// It returns false when the surface is missing or the region has no area.
func Region(surface image.Image, region image.Rectangle, format Format) ([]byte, bool) {
	if surface == nil || region.Dx() <= 0 || region.Dy() <= 0 {
		return nil, false
	}
	data, err := Encode(Flatten(surface, region), format)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Full flattens and encodes the entire surface.
func Full(surface image.Image, format Format) ([]byte, bool) {
	if surface == nil {
		return nil, false
	}
	return Region(surface, surface.Bounds(), format)
}
