package dialface

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// snapshotBytesPerPixel is the size of one rasterized pixel: straight RGBA,
// byte order as emitted by the rasterizer. The dump format is width × height
// × 4 bytes with no header; downstream tooling converts it to a standard
// image container.
const snapshotBytesPerPixel = 4

// Snapshot renders the named face at a frozen synthetic time and writes the
// raw pixel buffer to outPath. The face is loaded, shown exactly once, and
// unloaded again; the session's mounted face (if any) is replaced.
func (s *Session) Snapshot(faceName, outPath string, tt *TimeTuple) error {
	d, err := s.loadDescriptor(faceName)
	if err != nil {
		return err
	}

	s.context.Set(tt)
	if err := s.renderer.Load(facePath(faceName), d); err != nil {
		return err
	}
	defer s.renderer.Unload()

	s.renderer.Show(&s.context)

	w, h := s.scene.Size()
	frame := ebiten.NewImage(w, h)
	defer frame.Deallocate()
	s.scene.Draw(frame)

	buf := make([]byte, w*h*snapshotBytesPerPixel)
	frame.ReadPixels(buf)

	if err := os.WriteFile(outPath, buf, 0o644); err != nil {
		return fmt.Errorf("dialface: failed to write snapshot %q: %w", outPath, err)
	}

	s.log.WithField("path", outPath).Infof("snapshot written (%d bytes)", len(buf))
	return nil
}

// SnapshotAll takes one snapshot per named face into outDir, each written as
// <name><postfix>. The decoded-image cache is dropped between faces to bound
// memory across a batch. The first failure aborts the batch.
func (s *Session) SnapshotAll(faceNames []string, postfix, outDir string, tt *TimeTuple) error {
	for _, name := range faceNames {
		outPath := outDir + "/" + name + postfix
		if err := s.Snapshot(name, outPath, tt); err != nil {
			return err
		}
		s.cache.DropImages()
	}
	return nil
}
