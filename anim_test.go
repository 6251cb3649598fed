package dialface

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"testing"
)

// encodeTestGif builds a small animated GIF with the given per-frame delays
// in 1/100s units.
func encodeTestGif(t *testing.T, delays ...int) []byte {
	t.Helper()
	g := &gif.GIF{
		Config: image.Config{Width: 4, Height: 4},
	}
	palette := color.Palette{color.Black, color.White}
	for i, d := range delays {
		frame := image.NewPaletted(image.Rect(0, 0, 4, 4), palette)
		frame.SetColorIndex(i%4, 0, 1)
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, d)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatalf("gif encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeGif(t *testing.T) {
	p, err := DecodeGif(encodeTestGif(t, 10, 20, 30))
	if err != nil {
		t.Fatalf("DecodeGif: %v", err)
	}
	if p.FrameCount() != 3 {
		t.Fatalf("frames = %d, want 3", p.FrameCount())
	}
	if p.Width() != 4 || p.Height() != 4 {
		t.Fatalf("size = %dx%d, want 4x4", p.Width(), p.Height())
	}
	if p.CurrentFrame() == nil {
		t.Fatal("no current frame")
	}
}

func TestDecodeGifRejectsJunk(t *testing.T) {
	if _, err := DecodeGif([]byte("GIF89a but not really")); err == nil {
		t.Fatal("junk data decoded")
	}
}

func TestGifAdvance(t *testing.T) {
	p, err := DecodeGif(encodeTestGif(t, 10, 10)) // 0.1s per frame
	if err != nil {
		t.Fatalf("DecodeGif: %v", err)
	}

	first := p.CurrentFrame()

	p.Advance(0.05)
	if p.CurrentFrame() != first {
		t.Fatal("advanced before the frame delay elapsed")
	}

	p.Advance(0.06)
	if p.CurrentFrame() == first {
		t.Fatal("did not advance past the frame delay")
	}

	// Wraps back around to the first frame.
	p.Advance(0.1)
	if p.CurrentFrame() != first {
		t.Fatal("did not loop back to the first frame")
	}
}

func TestGifAdvanceSkipsFrames(t *testing.T) {
	p, err := DecodeGif(encodeTestGif(t, 10, 10, 10, 10))
	if err != nil {
		t.Fatalf("DecodeGif: %v", err)
	}
	// A long tick steps through multiple frames instead of clamping to one.
	p.Advance(0.25)
	if p.index != 2 {
		t.Fatalf("frame index = %d, want 2", p.index)
	}
}

func TestGifSingleFrameNeverAdvances(t *testing.T) {
	p, err := DecodeGif(encodeTestGif(t, 10))
	if err != nil {
		t.Fatalf("DecodeGif: %v", err)
	}
	frame := p.CurrentFrame()
	p.Advance(10)
	if p.CurrentFrame() != frame {
		t.Fatal("single-frame gif advanced")
	}
}

func TestGifDefaultDelay(t *testing.T) {
	p, err := DecodeGif(encodeTestGif(t, 0, 0))
	if err != nil {
		t.Fatalf("DecodeGif: %v", err)
	}
	if p.delays[0] != 0.1 || p.delays[1] != 0.1 {
		t.Fatalf("delays = %v, want the 0.1s default", p.delays)
	}
}

func TestGifRelease(t *testing.T) {
	p, err := DecodeGif(encodeTestGif(t, 10, 10))
	if err != nil {
		t.Fatalf("DecodeGif: %v", err)
	}
	p.release()
	if p.CurrentFrame() != nil {
		t.Fatal("frame available after release")
	}
	if p.FrameCount() != 0 {
		t.Fatal("frames retained after release")
	}
}

// --- FadeIn ---

func TestFadeIn(t *testing.T) {
	n := NewContainer("n", 10, 10)
	f := NewFadeIn(n, 1.0)

	if n.Alpha != 0 {
		t.Fatalf("starting alpha = %v, want 0", n.Alpha)
	}

	f.Update(0.5)
	if f.Done {
		t.Fatal("done at the halfway point")
	}
	if n.Alpha <= 0 || n.Alpha >= 1 {
		t.Fatalf("mid-fade alpha = %v", n.Alpha)
	}

	f.Update(0.6)
	if !f.Done {
		t.Fatal("not done after full duration")
	}
	assertNear(t, "final alpha", n.Alpha, 1)
}

func TestFadeInStopsOnDisposedTarget(t *testing.T) {
	n := NewContainer("n", 10, 10)
	f := NewFadeIn(n, 1.0)
	f.Update(0.2)

	n.Dispose()
	f.Update(0.2)
	if !f.Done {
		t.Fatal("fade kept running on a disposed node")
	}
}

func TestSceneAdvanceDrivesFades(t *testing.T) {
	s := NewScene(240, 240)
	n := NewContainer("n", 10, 10)
	s.Root().AddChild(n)

	f := s.StartFade(n, 0.5)
	s.Advance(0.25)
	if f.Done {
		t.Fatal("fade finished early")
	}
	s.Advance(0.5)
	if !f.Done {
		t.Fatal("fade not finished")
	}
	if len(s.fades) != 0 {
		t.Fatalf("finished fades retained: %d", len(s.fades))
	}
	assertNear(t, "final alpha", n.Alpha, 1)
}

func TestSceneAdvanceDrivesGifs(t *testing.T) {
	s := NewScene(240, 240)
	p, err := DecodeGif(encodeTestGif(t, 10, 10))
	if err != nil {
		t.Fatalf("DecodeGif: %v", err)
	}
	s.Root().AddChild(NewGif("g", p))

	s.Advance(0.15)
	if p.index != 1 {
		t.Fatalf("frame index = %d, want 1", p.index)
	}
}
