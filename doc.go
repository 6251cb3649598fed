// Package dialface renders configurable watch faces described by JSON
// descriptors onto a fixed-size canvas backed by [Ebitengine].
//
// A face is a directory containing a face.json descriptor plus the image,
// GIF, and font assets it references. The descriptor declares a background
// (solid color and/or image) and an ordered list of items — text labels with
// time placeholders, static images, animated GIFs, and rotating indicator
// handles. Item order defines draw order.
//
// # Quick start
//
//	session := dialface.NewSession(dialface.Config{
//		Width: 240, Height: 240,
//		BasePath: "assets",
//	})
//	if err := session.LoadFace("classic"); err != nil {
//		log.Fatal(err)
//	}
//	session.Run() // ticks at the face's update interval until Stop
//
// For host-driven loops (an [ebiten.Game], for example) call
// [Session.Tick] and [Session.Draw] yourself instead of Run.
//
// # Snapshots
//
// [Session.Snapshot] renders a face at a frozen synthetic time and writes
// the raw RGBA frame to disk, which is how face previews are produced:
//
//	tt := &dialface.TimeTuple{Year: 2023, Month: 1, Day: 1, Hour: 12, Yearday: 1}
//	session.Snapshot("classic", "classic.raw", tt)
//
// # Storage
//
// All face assets are read through a virtual filesystem [Driver] rooted at
// Config.BasePath and addressed by a single drive letter ("S:fonts/x.ttf").
// The driver exposes the open/read/write/seek/tell/close callback protocol
// with fixed [Result] error codes, so the same faces run unchanged against
// sandboxed runtimes that speak that protocol.
//
// [Ebitengine]: https://ebitengine.org
package dialface
