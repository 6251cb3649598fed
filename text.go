package dialface

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Font is the interface for text measurement and layout. Three
// implementations exist: TTFFont (scalable outline fonts), BitmapFont
// (fixed-size BMFont glyph atlases), and ImageFont (per-character images
// resolved through a glyph lookup function).
type Font interface {
	MeasureString(text string) (width, height float64)
	LineHeight() float64
}

// --- TextBlock ---

// TextBlock holds text content, formatting, and cached measurement.
type TextBlock struct {
	Content string
	Font    Font
	Align   TextAlign
	Color   Color

	// revision counts content writes; the renderer's change suppression is
	// observable through it.
	revision int

	measureDirty bool
	measuredW    float64
	measuredH    float64
}

// SetContent replaces the text content. Returns true if the content actually
// changed; unchanged writes are dropped without bumping the revision.
func (tb *TextBlock) SetContent(s string) bool {
	if s == tb.Content {
		return false
	}
	tb.Content = s
	tb.revision++
	tb.measureDirty = true
	return true
}

// Revision returns the number of content changes applied so far.
func (tb *TextBlock) Revision() int {
	return tb.revision
}

// Measure returns the rendered size of the current content.
func (tb *TextBlock) Measure() (w, h float64) {
	if tb.Font == nil {
		return 0, 0
	}
	if tb.measureDirty || (tb.measuredW == 0 && tb.measuredH == 0) {
		tb.measuredW, tb.measuredH = tb.Font.MeasureString(tb.Content)
		tb.measureDirty = false
	}
	return tb.measuredW, tb.measuredH
}

// draw paints the text onto target with the node's world transform and tint.
func (tb *TextBlock) draw(target *ebiten.Image, world [6]float64, nodeTint Color, alpha float64) {
	if tb.Content == "" {
		return
	}
	tint := Color{
		R: tb.Color.R * nodeTint.R,
		G: tb.Color.G * nodeTint.G,
		B: tb.Color.B * nodeTint.B,
		A: tb.Color.A * nodeTint.A,
	}
	switch f := tb.Font.(type) {
	case *TTFFont:
		tb.drawTTF(target, f, world, tint, alpha)
	case *BitmapFont:
		tb.drawGlyphs(target, world, tint, alpha, f.glyphLine)
	case *ImageFont:
		tb.drawGlyphs(target, world, tint, alpha, f.glyphLine)
	}
}

// drawTTF renders via Ebitengine's text/v2, one Draw per line so each line
// can carry its own alignment offset.
func (tb *TextBlock) drawTTF(target *ebiten.Image, f *TTFFont, world [6]float64, tint Color, alpha float64) {
	blockW, _ := tb.Measure()
	lh := f.LineHeight()
	for i, line := range strings.Split(tb.Content, "\n") {
		lineW, _ := f.MeasureString(line)
		op := &text.DrawOptions{}
		op.GeoM = geoM(multiplyAffine(world, translation(tb.alignOffset(blockW, lineW), float64(i)*lh)))
		op.ColorScale.Scale(
			float32(tint.R),
			float32(tint.G),
			float32(tint.B),
			float32(tint.A*alpha),
		)
		text.Draw(target, line, f.face, op)
	}
}

// glyphDraw is one positioned glyph image produced by a line layout.
type glyphDraw struct {
	img  *ebiten.Image
	x, y float64
}

// drawGlyphs renders line by line using a per-font glyph layout function.
func (tb *TextBlock) drawGlyphs(target *ebiten.Image, world [6]float64, tint Color, alpha float64, layout func(line string, buf []glyphDraw) ([]glyphDraw, float64)) {
	blockW, _ := tb.Measure()
	lh := tb.Font.LineHeight()
	var buf []glyphDraw
	var lineW float64
	for i, line := range strings.Split(tb.Content, "\n") {
		buf, lineW = layout(line, buf[:0])
		offX := tb.alignOffset(blockW, lineW)
		lineY := float64(i) * lh
		for _, g := range buf {
			var op ebiten.DrawImageOptions
			op.GeoM = geoM(multiplyAffine(world, translation(g.x+offX, g.y+lineY)))
			applyTint(&op.ColorScale, tint, alpha)
			target.DrawImage(g.img, &op)
		}
	}
}

// alignOffset returns the horizontal shift of a line within the block.
func (tb *TextBlock) alignOffset(blockW, lineW float64) float64 {
	switch tb.Align {
	case TextAlignCenter:
		return (blockW - lineW) / 2
	case TextAlignRight:
		return blockW - lineW
	}
	return 0
}

// translation builds an affine matrix that translates by (x, y).
func translation(x, y float64) [6]float64 {
	return [6]float64{1, 0, 0, 1, x, y}
}

// --- BitmapFont ---

type bitmapGlyph struct {
	id       rune
	x, y     uint16
	width    uint16
	height   uint16
	xOffset  int16
	yOffset  int16
	xAdvance int16
}

const asciiGlyphCount = 128

// BitmapFont renders text from a pre-rasterized glyph atlas in BMFont text
// format plus its page image. Bitmap fonts are fixed-size: the descriptor's
// font_size is ignored for them.
type BitmapFont struct {
	lineHeight float64
	base       float64
	page       *ebiten.Image

	asciiGlyphs [asciiGlyphCount]bitmapGlyph // fixed array for ASCII, zero-alloc lookup
	asciiSet    [asciiGlyphCount]bool
	extGlyphs   map[rune]*bitmapGlyph

	kernings map[[2]rune]int16

	subCache map[rune]*ebiten.Image // SubImage per glyph, built on demand
}

// LoadBitmapFont parses BMFont .fnt text-format data paired with its glyph
// page image.
func LoadBitmapFont(fntData []byte, page *ebiten.Image) (*BitmapFont, error) {
	f := &BitmapFont{page: page}

	scanner := bufio.NewScanner(bytes.NewReader(fntData))
	var charCount int

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tag, rest := splitTag(line)
		fields := parseFields(rest)

		switch tag {
		case "common":
			f.lineHeight = floatField(fields, "lineHeight")
			f.base = floatField(fields, "base")

		case "char":
			charCount++
			g := bitmapGlyph{
				id:       rune(intField(fields, "id")),
				x:        uint16(intField(fields, "x")),
				y:        uint16(intField(fields, "y")),
				width:    uint16(intField(fields, "width")),
				height:   uint16(intField(fields, "height")),
				xOffset:  int16(intField(fields, "xoffset")),
				yOffset:  int16(intField(fields, "yoffset")),
				xAdvance: int16(intField(fields, "xadvance")),
			}
			if g.id >= 0 && g.id < asciiGlyphCount {
				f.asciiGlyphs[g.id] = g
				f.asciiSet[g.id] = true
			} else {
				if f.extGlyphs == nil {
					f.extGlyphs = make(map[rune]*bitmapGlyph)
				}
				g := g // copy for heap allocation
				f.extGlyphs[g.id] = &g
			}

		case "kerning":
			if f.kernings == nil {
				f.kernings = make(map[[2]rune]int16)
			}
			first := rune(intField(fields, "first"))
			second := rune(intField(fields, "second"))
			f.kernings[[2]rune{first, second}] = int16(intField(fields, "amount"))
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dialface: error reading .fnt data: %w", err)
	}
	if f.lineHeight == 0 {
		return nil, fmt.Errorf("dialface: .fnt data missing common lineHeight")
	}
	if charCount == 0 {
		return nil, fmt.Errorf("dialface: .fnt data has no char definitions")
	}

	return f, nil
}

// MeasureString returns the width and height of the rendered text.
func (f *BitmapFont) MeasureString(s string) (width, height float64) {
	var maxW, cursorX float64
	var prevRune rune
	var hasPrev bool
	lines := 1

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size

		if r == '\n' {
			if cursorX > maxW {
				maxW = cursorX
			}
			cursorX = 0
			lines++
			hasPrev = false
			continue
		}

		g := f.glyph(r)
		if g == nil {
			hasPrev = false
			continue
		}
		if hasPrev {
			cursorX += float64(f.kern(prevRune, r))
		}
		cursorX += float64(g.xAdvance)
		prevRune = r
		hasPrev = true
	}

	if cursorX > maxW {
		maxW = cursorX
	}
	return maxW, float64(lines) * f.lineHeight
}

// LineHeight returns the vertical distance between baselines.
func (f *BitmapFont) LineHeight() float64 {
	return f.lineHeight
}

// glyphLine lays out a single line, appending positioned glyph images to buf.
// Returns the extended buffer and the line advance width.
func (f *BitmapFont) glyphLine(line string, buf []glyphDraw) ([]glyphDraw, float64) {
	var cursorX float64
	var prevRune rune
	var hasPrev bool

	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		i += size

		g := f.glyph(r)
		if g == nil {
			hasPrev = false
			continue
		}

		var kern int16
		if hasPrev {
			kern = f.kern(prevRune, r)
		}

		if img := f.glyphImage(r, g); img != nil {
			buf = append(buf, glyphDraw{
				img: img,
				x:   cursorX + float64(kern) + float64(g.xOffset),
				y:   float64(g.yOffset),
			})
		}
		cursorX += float64(g.xAdvance) + float64(kern)
		prevRune = r
		hasPrev = true
	}
	return buf, cursorX
}

// glyphImage returns (and caches) the page sub-image for a glyph.
// Zero-sized glyphs (the space character, typically) yield nil.
func (f *BitmapFont) glyphImage(r rune, g *bitmapGlyph) *ebiten.Image {
	if g.width == 0 || g.height == 0 || f.page == nil {
		return nil
	}
	if img, ok := f.subCache[r]; ok {
		return img
	}
	if f.subCache == nil {
		f.subCache = make(map[rune]*ebiten.Image)
	}
	b := f.page.Bounds()
	rect := image.Rect(int(g.x), int(g.y), int(g.x)+int(g.width), int(g.y)+int(g.height))
	sub := f.page.SubImage(b.Intersect(rect)).(*ebiten.Image)
	f.subCache[r] = sub
	return sub
}

// glyph returns the glyph for the given rune, or nil if not found.
func (f *BitmapFont) glyph(r rune) *bitmapGlyph {
	if r >= 0 && r < asciiGlyphCount {
		if f.asciiSet[r] {
			return &f.asciiGlyphs[r]
		}
		return nil
	}
	return f.extGlyphs[r]
}

// kern returns the kerning amount for the given rune pair.
func (f *BitmapFont) kern(first, second rune) int16 {
	if f.kernings == nil {
		return 0
	}
	return f.kernings[[2]rune{first, second}]
}

// --- TTFFont ---

// TTFFont wraps Ebitengine's text/v2 for TrueType font rendering.
type TTFFont struct {
	face   *text.GoTextFace
	source *text.GoTextFaceSource
	size   float64
	lh     float64 // cached line height
}

// LoadTTFFont loads a TrueType font from raw TTF/OTF data at the given size.
func LoadTTFFont(ttfData []byte, size float64) (*TTFFont, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("dialface: failed to parse TTF data: %w", err)
	}

	face := &text.GoTextFace{
		Source: source,
		Size:   size,
	}

	m := face.Metrics()
	lh := m.HAscent + m.HDescent + m.HLineGap

	return &TTFFont{
		face:   face,
		source: source,
		size:   size,
		lh:     lh,
	}, nil
}

// MeasureString returns the width and height of the rendered text.
func (f *TTFFont) MeasureString(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// LineHeight returns the vertical distance between baselines.
func (f *TTFFont) LineHeight() float64 {
	return f.lh
}

// Face returns the underlying GoTextFace for direct text/v2 rendering.
func (f *TTFFont) Face() *text.GoTextFace {
	return f.face
}

// --- ImageFont ---

// GlyphLookup maps a single character to the virtual path of the image that
// renders it. The second return value reports whether the character has a
// glyph; characters without one are skipped.
type GlyphLookup func(r rune) (path string, ok bool)

// ImageLoader resolves a virtual image path to a decoded image.
type ImageLoader func(path string) (*ebiten.Image, error)

// ImageFont is a font-like object that renders text as a sequence of
// per-character images. Faces use it for stylized digit strips.
type ImageFont struct {
	size   float64
	lookup GlyphLookup
	load   ImageLoader

	glyphs map[rune]*ebiten.Image // nil entry = known miss, don't retry
}

// NewImageFont creates an image font with the given nominal line height.
// Glyph images are resolved lazily through lookup and load on first use.
func NewImageFont(size float64, lookup GlyphLookup, load ImageLoader) *ImageFont {
	return &ImageFont{
		size:   size,
		lookup: lookup,
		load:   load,
		glyphs: make(map[rune]*ebiten.Image),
	}
}

// MeasureString returns the width and height of the rendered text.
func (f *ImageFont) MeasureString(s string) (width, height float64) {
	var maxW, cursorX, maxGlyphH float64
	lines := 1
	for _, r := range s {
		if r == '\n' {
			if cursorX > maxW {
				maxW = cursorX
			}
			cursorX = 0
			lines++
			continue
		}
		if img := f.glyph(r); img != nil {
			b := img.Bounds()
			cursorX += float64(b.Dx())
			if gh := float64(b.Dy()); gh > maxGlyphH {
				maxGlyphH = gh
			}
		}
	}
	if cursorX > maxW {
		maxW = cursorX
	}
	return maxW, float64(lines) * f.lineHeightFrom(maxGlyphH)
}

// LineHeight returns the configured size, or zero before any glyph has been
// resolved when no size was configured.
func (f *ImageFont) LineHeight() float64 {
	return f.lineHeightFrom(0)
}

func (f *ImageFont) lineHeightFrom(fallback float64) float64 {
	if f.size > 0 {
		return f.size
	}
	return fallback
}

// glyphLine lays out a single line of glyph images.
func (f *ImageFont) glyphLine(line string, buf []glyphDraw) ([]glyphDraw, float64) {
	var cursorX float64
	for _, r := range line {
		img := f.glyph(r)
		if img == nil {
			continue
		}
		buf = append(buf, glyphDraw{img: img, x: cursorX})
		cursorX += float64(img.Bounds().Dx())
	}
	return buf, cursorX
}

// glyph resolves the image for a character, caching hits and misses.
func (f *ImageFont) glyph(r rune) *ebiten.Image {
	if img, seen := f.glyphs[r]; seen {
		return img
	}
	var img *ebiten.Image
	if path, ok := f.lookup(r); ok {
		loaded, err := f.load(path)
		if err == nil {
			img = loaded
		}
	}
	f.glyphs[r] = img
	return img
}

// --- BMFont parsing helpers ---

// splitTag splits a BMFont line into its tag and the rest of the line.
func splitTag(line string) (string, string) {
	idx := strings.IndexByte(line, ' ')
	if idx == -1 {
		return line, ""
	}
	return line[:idx], line[idx+1:]
}

// parseFields parses "key=value key=value ..." into a map.
func parseFields(s string) map[string]string {
	fields := make(map[string]string)
	for _, part := range strings.Fields(s) {
		eq := strings.IndexByte(part, '=')
		if eq == -1 {
			continue
		}
		key := part[:eq]
		val := part[eq+1:]
		// Strip quotes from values like face="Arial"
		if len(val) >= 2 && val[0] == '"' && val[len(val)-1] == '"' {
			val = val[1 : len(val)-1]
		}
		fields[key] = val
	}
	return fields
}

func intField(fields map[string]string, key string) int {
	v, _ := strconv.Atoi(fields[key])
	return v
}

func floatField(fields map[string]string, key string) float64 {
	v, _ := strconv.ParseFloat(fields[key], 64)
	return v
}
