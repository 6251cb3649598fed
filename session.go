package dialface

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
)

// Config configures a Session. The zero value is usable: a 240×240 canvas
// over the current directory on drive 'S'.
type Config struct {
	// Width and Height are the canvas size in pixels.
	Width, Height int

	// BasePath is the directory the virtual drive is rooted at. Faces live
	// under BasePath/faces/<name>/, fonts under BasePath/fonts/.
	BasePath string

	// DriveLetter is the single-letter namespace assets are addressed by.
	DriveLetter byte

	// FSCacheSize is the driver's read-ahead chunk size in bytes.
	FSCacheSize int

	// FadeDuration is the face-switch fade-in length in seconds.
	// Zero disables the fade.
	FadeDuration float32

	// Log receives diagnostics. Nil uses the logrus standard logger.
	Log *logrus.Logger
}

const (
	defaultCanvasSize = 240
	facesDir          = "faces"
	faceFile          = "face.json"
)

// Session is the explicitly owned bundle of everything one canvas needs: the
// time context, the scene, the renderer, the virtual filesystem driver, and
// the resource cache. Construct it once at startup and pass it around; there
// are no package-level singletons. Face switches reuse the same session.
//
// A session is single-threaded: the goroutine that calls Tick/Show owns all
// of it, and nothing is synchronized.
type Session struct {
	cfg      Config
	log      *logrus.Logger
	driver   *Driver
	cache    *Cache
	scene    *Scene
	renderer *Renderer
	context  Context

	stopped bool
}

// NewSession creates a session from the given configuration.
func NewSession(cfg Config) *Session {
	if cfg.Width <= 0 {
		cfg.Width = defaultCanvasSize
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultCanvasSize
	}
	if cfg.BasePath == "" {
		cfg.BasePath = "."
	}
	if cfg.DriveLetter == 0 {
		cfg.DriveLetter = 'S'
	}
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	driver := NewDriver(cfg.BasePath, cfg.DriveLetter, cfg.FSCacheSize, log)
	cache := NewCache()
	scene := NewScene(cfg.Width, cfg.Height)

	return &Session{
		cfg:      cfg,
		log:      log,
		driver:   driver,
		cache:    cache,
		scene:    scene,
		renderer: NewRenderer(scene, driver, cache, log),
	}
}

// Scene returns the session's scene.
func (s *Session) Scene() *Scene { return s.scene }

// Context returns the session's time context.
func (s *Session) Context() *Context { return &s.context }

// Renderer returns the session's face renderer.
func (s *Session) Renderer() *Renderer { return s.renderer }

// Driver returns the session's virtual filesystem driver.
func (s *Session) Driver() *Driver { return s.driver }

// facePath returns the base-relative directory of a named face.
func facePath(name string) string {
	return facesDir + "/" + name
}

// loadDescriptor reads and parses a face's descriptor through the driver.
func (s *Session) loadDescriptor(name string) (*Descriptor, error) {
	vpath := s.driver.VirtualPath(facePath(name) + "/" + faceFile)
	data, err := s.driver.ReadFile(vpath)
	if err != nil {
		return nil, fmt.Errorf("dialface: face %q: %w", name, err)
	}
	return ParseDescriptor(data)
}

// LoadFace unloads any mounted face, then loads and shows the named one at
// the current real time. The new face fades in when the session is
// configured with a fade duration.
func (s *Session) LoadFace(name string) error {
	s.renderer.Unload()
	s.cache.DropImages()

	d, err := s.loadDescriptor(name)
	if err != nil {
		return err
	}
	if err := s.renderer.Load(facePath(name), d); err != nil {
		return err
	}

	s.context.Set(nil)
	s.renderer.Show(&s.context)

	if s.cfg.FadeDuration > 0 && s.renderer.container != nil {
		s.scene.StartFade(s.renderer.container, s.cfg.FadeDuration)
	}
	return nil
}

// Unload tears down the mounted face and drops the decoded-image cache.
func (s *Session) Unload() {
	s.renderer.Unload()
	s.cache.DropImages()
}

// Tick advances the time context and refreshes the scene once. Hosts with
// their own frame loop call this at the face's update interval and Draw
// every frame.
func (s *Session) Tick() {
	s.context.Set(nil)
	s.renderer.Show(&s.context)
}

// Draw paints the current scene onto target.
func (s *Session) Draw(target *ebiten.Image) {
	s.scene.Draw(target)
}

// UpdateInterval returns the loaded face's tick period.
func (s *Session) UpdateInterval() time.Duration {
	return time.Duration(s.renderer.UpdateIntervalMS()) * time.Millisecond
}

// Run ticks the session at the loaded face's update interval until Stop is
// called. The stop flag is checked once per tick; the in-flight tick always
// completes. Run owns the calling goroutine — callbacks running on the tick
// (not other goroutines) may call Stop.
func (s *Session) Run() {
	s.stopped = false
	for {
		s.Tick()
		if s.stopped {
			return
		}
		interval := s.UpdateInterval()
		s.scene.Advance(interval.Seconds())
		time.Sleep(interval)
		if s.stopped {
			return
		}
	}
}

// Stop ends Run after the in-flight tick completes.
func (s *Session) Stop() {
	s.stopped = true
}
