package dialface

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // item image decoding
	_ "image/png"  // item image decoding
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	bmp "github.com/sergeymakinen/go-bmp"
	"golang.org/x/image/font/gofont/goregular"
)

// builtinFontSizes maps the internal font names descriptors may reference to
// point sizes of the embedded typeface. These never touch the filesystem.
var builtinFontSizes = map[string]float64{
	".default":       14,
	".montserrat_14": 14,
	".montserrat_16": 16,
}

// Cache holds the resources one load generation shares: fonts keyed by
// name (fixed-size) or name/size (scalable), glyph-image fonts, and decoded
// images keyed by virtual path.
//
// Fonts live for exactly one load generation and are released by ReleaseAll
// at unload. The image cache spans generations (faces commonly share assets
// with their own previews) and is dropped explicitly via DropImages to bound
// memory, e.g. between faces of a snapshot batch. Entries are shared by
// reference and never reference-counted.
type Cache struct {
	fonts      map[string]Font
	imageFonts []*ImageFont
	images     map[string]*ebiten.Image
}

// NewCache creates an empty resource cache. One cache belongs to exactly one
// renderer; two renderers must not share a cache.
func NewCache() *Cache {
	return &Cache{
		fonts:  make(map[string]Font),
		images: make(map[string]*ebiten.Image),
	}
}

// FontKey builds the cache key for a named font at a size. Fixed-size fonts
// carry size 0 so all sizes collapse to one entry.
func FontKey(name string, size int) string {
	return fmt.Sprintf("%s/%d", name, size)
}

// GetFont returns the cached font for key, invoking loader only on the first
// request within the current load generation. Loader failures are returned
// to the caller and nothing is cached.
func (c *Cache) GetFont(key string, loader func() (Font, error)) (Font, error) {
	if f, ok := c.fonts[key]; ok {
		return f, nil
	}
	f, err := loader()
	if err != nil {
		return nil, err
	}
	c.fonts[key] = f
	return f, nil
}

// BuiltinFont resolves an internal font name (".default" and friends) to a
// cached font rendered from the embedded typeface, or (nil, false) when the
// name is not a builtin.
func (c *Cache) BuiltinFont(name string) (Font, bool) {
	size, ok := builtinFontSizes[name]
	if !ok {
		return nil, false
	}
	f, err := c.GetFont(FontKey(name, int(size)), func() (Font, error) {
		return LoadTTFFont(goregular.TTF, size)
	})
	if err != nil {
		return nil, false
	}
	return f, true
}

// TrackImageFont registers a glyph-image font with the current generation so
// ReleaseAll can detach it.
func (c *Cache) TrackImageFont(f *ImageFont) {
	c.imageFonts = append(c.imageFonts, f)
}

// Image returns the cached decoded image for a virtual path, invoking loader
// only on the first request.
func (c *Cache) Image(path string, loader func() (*ebiten.Image, error)) (*ebiten.Image, error) {
	if img, ok := c.images[path]; ok {
		return img, nil
	}
	img, err := loader()
	if err != nil {
		return nil, err
	}
	c.images[path] = img
	return img, nil
}

// FontCount returns the number of cached fonts (builtin and file-backed).
func (c *Cache) FontCount() int {
	return len(c.fonts)
}

// ImageCount returns the number of cached decoded images.
func (c *Cache) ImageCount() int {
	return len(c.images)
}

// ReleaseAll ends the current load generation: every font entry and tracked
// glyph-image font is dropped. Safe to call repeatedly; the second call is a
// no-op on an already-empty cache.
func (c *Cache) ReleaseAll() {
	for k := range c.fonts {
		delete(c.fonts, k)
	}
	for i, f := range c.imageFonts {
		f.glyphs = nil
		c.imageFonts[i] = nil
	}
	c.imageFonts = c.imageFonts[:0]
}

// DropImages deallocates and clears the decoded-image cache. Callers must
// not hold nodes referencing the dropped images; it is meant for the gap
// between an unload and the next load.
func (c *Cache) DropImages() {
	for k, img := range c.images {
		img.Deallocate()
		delete(c.images, k)
	}
}

// DecodeImage decodes raw asset bytes into an ebiten image. PNG, JPEG, and
// GIF stills decode through image.Decode; BMP is dispatched by extension.
func DecodeImage(data []byte, path string) (*ebiten.Image, error) {
	var (
		img image.Image
		err error
	)
	if strings.HasSuffix(strings.ToLower(path), ".bmp") {
		img, err = bmp.Decode(bytes.NewReader(data))
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("dialface: failed to decode image %q: %w", path, err)
	}
	return ebiten.NewImageFromImage(img), nil
}
