package dialface

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
)

// fontsDir is the base-relative directory all file-backed fonts load from.
const fontsDir = "fonts"

// labelItem tracks one label's drawable together with its unresolved
// template and the last resolved string for change suppression.
type labelItem struct {
	node     *Node
	template string
	value    string
	x, y     float64
	align    Align
}

// handleItem tracks one rotating indicator.
type handleItem struct {
	node   *Node
	source HandleSource
	rng    HandleRange
}

// Renderer materializes a face descriptor into a live scene subtree and
// refreshes it on every tick. One load generation at a time:
// Unloaded → Load → Loaded → Unload → Unloaded.
type Renderer struct {
	scene  *Scene
	driver *Driver
	cache  *Cache
	log    *logrus.Logger

	updateIntervalMS int
	smoothHandles    bool

	container *Node // mount point of the current generation, nil when unloaded
	labels    []*labelItem
	handles   []*handleItem
	images    []*Node
	gifs      []*Node
}

// NewRenderer creates a renderer drawing into scene, reading assets through
// driver, and sharing resources via cache. The cache must not be shared with
// another renderer.
func NewRenderer(scene *Scene, driver *Driver, cache *Cache, log *logrus.Logger) *Renderer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Renderer{
		scene:            scene,
		driver:           driver,
		cache:            cache,
		log:              log,
		updateIntervalMS: defaultUpdateIntervalMS,
	}
}

// Loaded reports whether a face is currently mounted.
func (r *Renderer) Loaded() bool {
	return r.container != nil
}

// UpdateIntervalMS returns the loaded face's tick period in milliseconds.
// The renderer does not schedule; the caller's loop consumes this.
func (r *Renderer) UpdateIntervalMS() int {
	return r.updateIntervalMS
}

// ItemCount returns the number of mounted scene items across all kinds.
func (r *Renderer) ItemCount() int {
	return len(r.labels) + len(r.handles) + len(r.images) + len(r.gifs)
}

// Load validates the descriptor and builds the scene subtree for the face
// whose assets live under facePath (base-relative, e.g. "faces/classic").
// A previously loaded face is unloaded first.
//
// Version and background-image failures are fatal: Load returns the error
// with nothing mounted. Per-item failures are logged and the item skipped.
func (r *Renderer) Load(facePath string, d *Descriptor) error {
	if d.Version != descriptorVersion {
		return fmt.Errorf("dialface: unsupported descriptor version %q", d.Version)
	}
	r.Unload()

	r.updateIntervalMS = d.UpdateIntervalMS
	if r.updateIntervalMS <= 0 {
		r.updateIntervalMS = defaultUpdateIntervalMS
	}
	r.smoothHandles = d.SmoothHandles

	w, h := r.scene.Size()
	container := NewContainer("face", float64(w), float64(h))
	r.scene.Root().AddChild(container)
	r.container = container

	// The positioning root: the container, or the background image once one
	// is mounted (item coordinates are then relative to the image).
	parent := container

	if bg := d.Background; bg != nil {
		if bg.Color != "" {
			fill := NewSprite("background_color", WhitePixel)
			fill.SetScale(float64(w), float64(h))
			fill.Color = ParseHexColor(bg.Color)
			container.AddChild(fill)
		}
		if bg.Image != "" {
			vpath := r.driver.VirtualPath(facePath + "/" + bg.Image)
			img, err := r.loadImageAsset(vpath)
			if err != nil {
				r.Unload()
				return fmt.Errorf("dialface: background image not found: %w", err)
			}
			node := NewSprite("background_image", img)
			p := AlignCenter.anchor(parent.Width, parent.Height, node.Width, node.Height)
			node.SetPosition(p.X, p.Y)
			parent.AddChild(node)
			r.images = append(r.images, node)
			parent = node
		}
	}

	// Items build in descriptor order; order is draw order.
	for i := range d.Items {
		item := &d.Items[i]
		switch item.Kind() {
		case ItemLabel:
			r.loadLabel(parent, item, facePath)
		case ItemImage:
			r.loadImage(parent, item, facePath)
		case ItemGif:
			r.loadGif(parent, item, facePath)
		case ItemHandle:
			r.loadHandle(parent, item, facePath)
		case ItemUnknown:
			// Forward compatibility: newer descriptors render best-effort.
			r.log.WithField("type", item.Type).Debug("skipping unknown item type")
		}
	}

	return nil
}

// Unload tears down the current generation: every scene item is disposed and
// the per-generation resource cache released exactly once. Safe to call on
// an already-unloaded renderer.
func (r *Renderer) Unload() {
	if r.container != nil {
		r.container.Dispose()
		r.container = nil
	}
	r.labels = nil
	r.handles = nil
	r.images = nil
	r.gifs = nil
	r.cache.ReleaseAll()
}

// Show refreshes the scene for the given time context: labels re-resolve
// their templates and write to their drawable only when the resolved string
// changed; handle angles recompute unconditionally (cheap, no change
// tracking needed). Images and gifs need no per-tick work.
func (r *Renderer) Show(c *Context) {
	for _, l := range r.labels {
		text := Resolve(l.template, c)
		if text == l.value {
			continue
		}
		l.value = text
		l.node.TextBlock.SetContent(text)
		// The anchor references the text box, so a size change re-anchors.
		l.node.Width, l.node.Height = l.node.TextBlock.Measure()
		r.alignNode(l.node, l.align, l.x, l.y)
	}

	for _, hd := range r.handles {
		var value float64
		if r.smoothHandles {
			value = hd.source.SmoothValue(c)
		} else {
			value = hd.source.Value(c)
		}
		hd.node.SetRotationTenths(AngleTenths(hd.rng, value))
	}
}

// alignNode positions a node's top-left at its anchor point plus offset
// within its parent, honoring the node's pivot.
func (r *Renderer) alignNode(n *Node, align Align, x, y float64) {
	p := n.Parent
	if p == nil {
		return
	}
	a := align.anchor(p.Width, p.Height, n.Width, n.Height)
	n.SetPosition(a.X+x+n.PivotX, a.Y+y+n.PivotY)
}

// --- Per-type builders ---

func (r *Renderer) loadLabel(parent *Node, item *Item, facePath string) {
	font := r.loadFont(item)
	if font == nil {
		font = r.loadImageFont(item, facePath)
	}
	if font == nil {
		// No usable requested font: fall back to the built-in default so the
		// label still renders (degrade, don't drop the item).
		font, _ = r.cache.BuiltinFont(".default")
	}
	if font == nil {
		r.log.WithField("item", item.Text).Warn("skipping label: no usable font")
		return
	}

	node := NewText("label", "", font)
	node.TextBlock.Color = ParseHexColor(itemColor(item))
	node.TextBlock.Align = ParseTextAlign(item.TextAlign)
	parent.AddChild(node)

	l := &labelItem{
		node:     node,
		template: item.Text,
		x:        float64(item.X),
		y:        float64(item.Y),
		align:    ParseAlign(item.Align),
	}
	r.alignNode(node, l.align, l.x, l.y)
	r.labels = append(r.labels, l)
}

func (r *Renderer) loadImage(parent *Node, item *Item, facePath string) {
	vpath := r.driver.VirtualPath(facePath + "/" + item.File)
	img, err := r.loadImageAsset(vpath)
	if err != nil {
		r.log.WithField("path", vpath).WithError(err).Warn("skipping image item")
		return
	}
	node := NewSprite("image", img)
	parent.AddChild(node)
	r.alignNode(node, ParseAlign(item.Align), float64(item.X), float64(item.Y))
	r.images = append(r.images, node)
}

func (r *Renderer) loadGif(parent *Node, item *Item, facePath string) {
	vpath := r.driver.VirtualPath(facePath + "/" + item.File)
	data, err := r.driver.ReadFile(vpath)
	if err != nil {
		r.log.WithField("path", vpath).WithError(err).Warn("skipping gif item")
		return
	}
	player, err := DecodeGif(data)
	if err != nil {
		r.log.WithField("path", vpath).WithError(err).Warn("skipping gif item")
		return
	}
	node := NewGif("gif", player)
	parent.AddChild(node)
	r.alignNode(node, ParseAlign(item.Align), float64(item.X), float64(item.Y))
	r.gifs = append(r.gifs, node)
}

func (r *Renderer) loadHandle(parent *Node, item *Item, facePath string) {
	vpath := r.driver.VirtualPath(facePath + "/" + item.Image)
	img, err := r.loadImageAsset(vpath)
	if err != nil {
		r.log.WithField("path", vpath).WithError(err).Warn("skipping handle item")
		return
	}

	source := ParseHandleSource(item.Source)
	node := NewSprite("handle", img)
	parent.AddChild(node)

	w, h := node.Width, node.Height
	px, py := float64(item.PivotX), float64(item.PivotY)
	align := ParseAlign(item.Align)

	a := align.anchor(parent.Width, parent.Height, w, h)
	topLeftX := a.X + float64(item.X)
	topLeftY := a.Y + float64(item.Y)

	// The anchor aligns the bounding box, but rotation must pivot around the
	// declared pivot point. For non-default alignment, re-anchor top-left at
	// a position corrected so the pivot lands where the alignment intended.
	if align != AlignTopLeft {
		topLeftX += -float64(int(w)/2) + (w - px)
		topLeftY += -float64(int(h)/2) + (h - py)
	}

	node.SetPosition(topLeftX+px, topLeftY+py)
	node.SetPivot(px, py)

	r.handles = append(r.handles, &handleItem{
		node:   node,
		source: source,
		rng:    item.HandleRange(source),
	})
}

// --- Resource loading ---

// loadFont resolves the item's conventional font reference: a builtin name,
// a .ttf scalable font at font_size, or a .fnt fixed-size bitmap font. A nil
// return means no font was requested or loading failed (already logged).
func (r *Renderer) loadFont(item *Item) Font {
	name := item.Font
	if name == "" {
		return nil
	}
	if f, ok := r.cache.BuiltinFont(name); ok {
		return f
	}

	f, err := r.cache.GetFont(FontKey(name, item.FontSize), func() (Font, error) {
		vpath := r.driver.VirtualPath(fontsDir + "/" + name)
		data, err := r.driver.ReadFile(vpath)
		if err != nil {
			return nil, err
		}
		lower := strings.ToLower(name)
		if strings.HasSuffix(lower, ".ttf") || strings.HasSuffix(lower, ".otf") {
			return LoadTTFFont(data, float64(item.FontSize))
		}
		// Fixed-size bitmap font: the glyph page sits next to the .fnt file.
		page, err := r.loadImageAsset(r.driver.VirtualPath(fontsDir + "/" + replaceExt(name, ".png")))
		if err != nil {
			return nil, err
		}
		return LoadBitmapFont(data, page)
	})
	if err != nil {
		r.log.WithField("font", name).WithError(err).Warn("error loading font")
		return nil
	}
	return f
}

// loadImageFont builds a glyph-image font from the item's character-to-file
// table. Glyph images resolve lazily relative to the item's path override or
// the face directory.
func (r *Renderer) loadImageFont(item *Item, facePath string) Font {
	if len(item.ImageFont) == 0 {
		return nil
	}
	base := item.Path
	if base == "" {
		base = facePath
	}
	table := item.ImageFont
	lookup := func(ch rune) (string, bool) {
		file, ok := table[string(ch)]
		if !ok {
			return "", false
		}
		return r.driver.VirtualPath(base + "/" + file), true
	}
	f := NewImageFont(float64(item.FontSize), lookup, r.loadImageAsset)
	r.cache.TrackImageFont(f)
	return f
}

// loadImageAsset streams and decodes an image through the driver, shared via
// the cache.
func (r *Renderer) loadImageAsset(vpath string) (*ebiten.Image, error) {
	return r.cache.Image(vpath, func() (*ebiten.Image, error) {
		data, err := r.driver.ReadFile(vpath)
		if err != nil {
			return nil, err
		}
		return DecodeImage(data, vpath)
	})
}

// itemColor returns the item's color string, defaulting to black exactly as
// descriptors have always been interpreted.
func itemColor(item *Item) string {
	if item.Color == "" {
		return "#000"
	}
	return item.Color
}

// replaceExt swaps the extension of name for ext.
func replaceExt(name, ext string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[:i] + ext
		}
	}
	return name + ext
}
