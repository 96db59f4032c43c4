package element

import (
	"errors"
	"image"
)

// ErrNotResolved is returned when a pending bitmap's image is requested.
var ErrNotResolved = errors.New("bitmap not resolved")

// Bitmap is a one-shot future over decoded image data. A bitmap is either
// resolved at construction (imports that arrive decoded) or pending until a
// single Resolve call delivers the pixels or a decode error.
//
// Bitmaps follow the engine's single-threaded model: Resolve and OnResolve
// must be called from the event loop, never from a decode goroutine directly.
type Bitmap struct {
	img       image.Image
	err       error
	resolved  bool
	onResolve func()
}

// NewBitmap returns a bitmap already resolved to the given image.
func NewBitmap(img image.Image) *Bitmap {
	return &Bitmap{img: img, resolved: true}
}

// NewPendingBitmap returns a bitmap awaiting its decode completion.
func NewPendingBitmap() *Bitmap {
	return &Bitmap{}
}

// Resolve completes the bitmap with decoded pixels or a decode error and fires
// the completion callback, if any. Resolving twice is a no-op.
func (b *Bitmap) Resolve(img image.Image, err error) {
	if b.resolved {
		return
	}
	b.img = img
	b.err = err
	b.resolved = true
	if b.onResolve != nil {
		fn := b.onResolve
		b.onResolve = nil
		fn()
	}
}

// Image returns the decoded image, or false while the bitmap is pending or
// failed to decode.
func (b *Bitmap) Image() (image.Image, bool) {
	if !b.resolved || b.err != nil || b.img == nil {
		return nil, false
	}
	return b.img, true
}

// Err returns the decode error, ErrNotResolved while pending, or nil.
func (b *Bitmap) Err() error {
	if !b.resolved {
		return ErrNotResolved
	}
	return b.err
}

// OnResolve registers a one-shot callback fired when the bitmap resolves.
// If the bitmap is already resolved the callback fires immediately.
func (b *Bitmap) OnResolve(fn func()) {
	if b.resolved {
		fn()
		return
	}
	b.onResolve = fn
}
