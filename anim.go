package dialface

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/gif"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// GifPlayer holds the decoded frames of an animated GIF and the playback
// position. Frames are pre-composited at decode time so playback is a plain
// index lookup. The animation loops forever; GIF loop counts are ignored
// (faces animate for as long as they are shown).
type GifPlayer struct {
	frames []*ebiten.Image
	delays []float64 // per-frame delay in seconds
	width  int
	height int

	index   int
	elapsed float64
}

// DecodeGif decodes GIF data into a player. Each frame is composited over
// the previous one onto the logical screen, which covers the disposal
// behavior of every GIF the face format has shipped with.
func DecodeGif(data []byte) (*GifPlayer, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("dialface: failed to decode gif: %w", err)
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("dialface: gif has no frames")
	}

	w, h := g.Config.Width, g.Config.Height
	if w == 0 || h == 0 {
		b := g.Image[0].Bounds()
		w, h = b.Dx(), b.Dy()
	}

	p := &GifPlayer{
		frames: make([]*ebiten.Image, 0, len(g.Image)),
		delays: make([]float64, 0, len(g.Image)),
		width:  w,
		height: h,
	}

	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, frame := range g.Image {
		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		p.frames = append(p.frames, ebiten.NewImageFromImage(canvas))

		delay := 0.1 // GIF default when unspecified
		if i < len(g.Delay) && g.Delay[i] > 0 {
			delay = float64(g.Delay[i]) / 100 // delays are in 1/100s
		}
		p.delays = append(p.delays, delay)
	}

	return p, nil
}

// Advance progresses playback by dt seconds.
func (p *GifPlayer) Advance(dt float64) {
	if len(p.frames) < 2 {
		return
	}
	p.elapsed += dt
	for p.elapsed >= p.delays[p.index] {
		p.elapsed -= p.delays[p.index]
		p.index = (p.index + 1) % len(p.frames)
	}
}

// CurrentFrame returns the frame to draw, or nil after release.
func (p *GifPlayer) CurrentFrame() *ebiten.Image {
	if len(p.frames) == 0 {
		return nil
	}
	return p.frames[p.index]
}

// Width returns the logical screen width in pixels.
func (p *GifPlayer) Width() int { return p.width }

// Height returns the logical screen height in pixels.
func (p *GifPlayer) Height() int { return p.height }

// FrameCount returns the number of decoded frames.
func (p *GifPlayer) FrameCount() int { return len(p.frames) }

// release deallocates the decoded frames. Called from Node disposal.
func (p *GifPlayer) release() {
	for i, f := range p.frames {
		f.Deallocate()
		p.frames[i] = nil
	}
	p.frames = nil
	p.delays = nil
}

// --- Face-switch fade ---

// FadeIn animates a node's alpha from 0 to 1. Used when a face is mounted so
// switching doesn't flash. If the target node is disposed mid-fade, the fade
// stops immediately.
//
// There is no global animation manager — Scene.Advance drives registered
// fades, or call Update yourself.
type FadeIn struct {
	tween  *gween.Tween
	target *Node
	Done   bool
}

// NewFadeIn creates a fade-in over the given duration in seconds and sets
// the target's alpha to the starting value.
func NewFadeIn(target *Node, duration float32) *FadeIn {
	f := &FadeIn{
		tween:  gween.New(0, 1, duration, ease.OutQuad),
		target: target,
	}
	target.SetAlpha(0)
	return f
}

// Update advances the fade by dt seconds and writes the alpha to the target.
func (f *FadeIn) Update(dt float32) {
	if f.Done {
		return
	}
	if f.target == nil || f.target.IsDisposed() {
		f.Done = true
		return
	}
	v, finished := f.tween.Update(dt)
	f.target.SetAlpha(float64(v))
	f.Done = finished
}
