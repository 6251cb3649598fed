package dialface

import (
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at draw submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// ColorBlack is opaque black, the default background and label color.
var ColorBlack = Color{0, 0, 0, 1}

// Vec2 is a 2D vector used for positions, offsets, and sizes.
type Vec2 struct {
	X, Y float64
}

// WhitePixel is a 1x1 white image used for solid color sprites
// (background color fills among them).
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(ColorWhite.toRGBA())
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// toRGBA converts to a premultiplied color.RGBA-compatible tuple via ebiten's
// expectations: straight alpha components scaled to bytes.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// colorRGBA satisfies image/color.Color without importing it at every call site.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	a32 := uint32(c.A) * 0x101
	r32 := uint32(c.R) * 0x101 * a32 / 0xffff
	g32 := uint32(c.G) * 0x101 * a32 / 0xffff
	b32 := uint32(c.B) * 0x101 * a32 / 0xffff
	return r32, g32, b32, a32
}

// ParseHexColor converts a "#RRGGBB" style string to a Color. The leading
// '#' is optional and the digits are read as one integer, so short forms
// like "#000" behave as their integer value would ("#FFF" is 0x000FFF, not
// white) — this matches how descriptors have always been interpreted.
// Malformed input yields opaque black.
func ParseHexColor(s string) Color {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil {
		return ColorBlack
	}
	v &= 0xFFFFFF
	return Color{
		R: float64(v>>16&0xFF) / 255,
		G: float64(v>>8&0xFF) / 255,
		B: float64(v&0xFF) / 255,
		A: 1,
	}
}

// Align is a nine-point anchor used to position an item inside its parent.
type Align uint8

const (
	AlignTopLeft Align = iota // default anchor
	AlignTopMid
	AlignTopRight
	AlignLeftMid
	AlignCenter
	AlignRightMid
	AlignBottomLeft
	AlignBottomMid
	AlignBottomRight
)

// ParseAlign maps a descriptor alignment name to an Align. Unknown names
// fall back to AlignTopLeft (forward compatibility: newer descriptors still
// render best-effort).
func ParseAlign(s string) Align {
	switch s {
	case "TOP_LEFT":
		return AlignTopLeft
	case "TOP_MID":
		return AlignTopMid
	case "TOP_RIGHT":
		return AlignTopRight
	case "LEFT_MID":
		return AlignLeftMid
	case "CENTER":
		return AlignCenter
	case "RIGHT_MID":
		return AlignRightMid
	case "BOTTOM_LEFT":
		return AlignBottomLeft
	case "BOTTOM_MID":
		return AlignBottomMid
	case "BOTTOM_RIGHT":
		return AlignBottomRight
	default:
		return AlignTopLeft
	}
}

// anchor returns the top-left position of a w×h box anchored inside a
// pw×ph parent at zero offset.
func (a Align) anchor(pw, ph, w, h float64) Vec2 {
	var p Vec2
	switch a {
	case AlignTopMid, AlignCenter, AlignBottomMid:
		p.X = (pw - w) / 2
	case AlignTopRight, AlignRightMid, AlignBottomRight:
		p.X = pw - w
	}
	switch a {
	case AlignLeftMid, AlignCenter, AlignRightMid:
		p.Y = (ph - h) / 2
	case AlignBottomLeft, AlignBottomMid, AlignBottomRight:
		p.Y = ph - h
	}
	return p
}

// TextAlign controls horizontal text alignment within a TextBlock.
type TextAlign uint8

const (
	TextAlignLeft   TextAlign = iota // align text to the left edge (default)
	TextAlignCenter                  // center text horizontally
	TextAlignRight                   // align text to the right edge
)

// ParseTextAlign maps a descriptor textalign name to a TextAlign.
// Unknown names fall back to TextAlignLeft.
func ParseTextAlign(s string) TextAlign {
	switch s {
	case "LEFT":
		return TextAlignLeft
	case "CENTER":
		return TextAlignCenter
	case "RIGHT":
		return TextAlignRight
	default:
		return TextAlignLeft
	}
}

// NodeKind distinguishes rendering behavior for a Node.
type NodeKind uint8

const (
	NodeKindContainer NodeKind = iota // group node with no visual output
	NodeKindSprite                    // renders an ebiten.Image
	NodeKindText                      // renders a TextBlock
	NodeKindGif                       // renders the current frame of a GifPlayer
)
