package dialface

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Result is the fixed error-code enum of the storage callback protocol.
// Native I/O failures never cross the callback boundary as errors; they are
// translated here and returned as codes, with the diagnostic detail (path,
// errno) logged locally.
type Result uint8

const (
	ResOK       Result = iota
	ResFSErr           // generic low-level I/O failure
	ResNotFound        // path does not exist
	ResInvParam        // invalid parameter (unsupported open mode, nil handle)
)

// String returns the protocol name of the result code.
func (r Result) String() string {
	switch r {
	case ResOK:
		return "OK"
	case ResFSErr:
		return "FS_ERR"
	case ResNotFound:
		return "NOT_EX"
	case ResInvParam:
		return "INV_PARAM"
	default:
		return "UNKNOWN"
	}
}

// Mode is the open-mode bitmask of the callback protocol.
type Mode uint8

const (
	ModeWrite Mode = 1 << iota // open for writing (create/truncate)
	ModeRead                   // open for reading
)

// FileHandle pairs an open native file with the virtual path it was opened
// under. The path is retained only for diagnostics; the driver owns the
// handle for the duration of one Open/Close bracket.
type FileHandle struct {
	file *os.File
	path string
}

// Path returns the virtual path the handle was opened with.
func (h *FileHandle) Path() string {
	return h.path
}

// Driver implements the sandboxed runtime's five storage callbacks over real
// files under a single fixed base directory, exposed as one virtual drive
// letter. All callbacks are synchronous and blocking; concurrent access to
// the same handle is not supported or guarded.
type Driver struct {
	base      string
	letter    byte
	cacheSize int
	log       *logrus.Logger
}

// defaultFSCacheSize is the read-ahead chunk size used by ReadFile when the
// driver is configured with a non-positive cache size.
const defaultFSCacheSize = 2048

// NewDriver creates a driver rooted at basePath, addressed by the given
// drive letter. cacheSize is the read-ahead chunk size in bytes for
// streaming reads; non-positive values use the default.
func NewDriver(basePath string, letter byte, cacheSize int, log *logrus.Logger) *Driver {
	if cacheSize <= 0 {
		cacheSize = defaultFSCacheSize
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Driver{
		base:      filepath.Clean(basePath),
		letter:    letter,
		cacheSize: cacheSize,
		log:       log,
	}
}

// Letter returns the virtual drive letter.
func (d *Driver) Letter() byte {
	return d.letter
}

// Base returns the native base directory.
func (d *Driver) Base() string {
	return d.base
}

// VirtualPath builds a drive-addressed path from a base-relative one.
func (d *Driver) VirtualPath(rel string) string {
	return string(d.letter) + ":" + rel
}

// nativePath resolves a virtual path (with or without the drive prefix) to
// the native path under the base directory.
func (d *Driver) nativePath(path string) string {
	if len(path) >= 2 && path[0] == d.letter && path[1] == ':' {
		path = path[2:]
	}
	return filepath.Join(d.base, filepath.FromSlash(strings.TrimPrefix(path, "/")))
}

// Open opens a file for the given mode combination. Unsupported combinations
// fail with ResInvParam; native failures are translated to result codes.
func (d *Driver) Open(path string, mode Mode) (*FileHandle, Result) {
	var flags int
	switch mode {
	case ModeWrite:
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case ModeRead:
		flags = os.O_RDONLY
	case ModeRead | ModeWrite:
		flags = os.O_RDWR
	default:
		d.log.WithField("path", path).Errorf("fs open: invalid mode 0x%02x", uint8(mode))
		return nil, ResInvParam
	}

	f, err := os.OpenFile(d.nativePath(path), flags, 0o644)
	if err != nil {
		return nil, d.translate("open", path, err)
	}
	return &FileHandle{file: f, path: path}, ResOK
}

// Read reads up to len(buf) bytes into buf, returning the byte count. A
// short count with ResOK signals end of file, matching the protocol.
func (d *Driver) Read(h *FileHandle, buf []byte) (int, Result) {
	if h == nil || h.file == nil {
		return 0, ResInvParam
	}
	total := 0
	for total < len(buf) {
		n, err := h.file.Read(buf[total:])
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, d.translate("read", h.path, err)
		}
	}
	return total, ResOK
}

// Write writes buf to the file, returning the byte count written.
func (d *Driver) Write(h *FileHandle, buf []byte) (int, Result) {
	if h == nil || h.file == nil {
		return 0, ResInvParam
	}
	n, err := h.file.Write(buf)
	if err != nil {
		return n, d.translate("write", h.path, err)
	}
	return n, ResOK
}

// Seek repositions the file offset. whence follows io.SeekStart/Current/End.
func (d *Driver) Seek(h *FileHandle, offset int64, whence int) Result {
	if h == nil || h.file == nil {
		return ResInvParam
	}
	if _, err := h.file.Seek(offset, whence); err != nil {
		return d.translate("seek", h.path, err)
	}
	return ResOK
}

// Tell returns the current file offset.
func (d *Driver) Tell(h *FileHandle) (int64, Result) {
	if h == nil || h.file == nil {
		return 0, ResInvParam
	}
	pos, err := h.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, d.translate("tell", h.path, err)
	}
	return pos, ResOK
}

// Close closes the handle. The handle is unusable afterwards.
func (d *Driver) Close(h *FileHandle) Result {
	if h == nil || h.file == nil {
		return ResInvParam
	}
	err := h.file.Close()
	h.file = nil
	if err != nil {
		return d.translate("close", h.path, err)
	}
	return ResOK
}

// ReadFile streams an entire file through the callback protocol, reading in
// cache-sized chunks. It is how the renderer pulls descriptors, fonts, and
// images; returning error instead of Result keeps it composable with the
// loaders above the protocol boundary.
func (d *Driver) ReadFile(path string) ([]byte, error) {
	h, res := d.Open(path, ModeRead)
	if res != ResOK {
		return nil, fmt.Errorf("dialface: fs open %q: %s", path, res)
	}
	defer d.Close(h)

	var data []byte
	chunk := make([]byte, d.cacheSize)
	for {
		n, res := d.Read(h, chunk)
		if res != ResOK {
			return nil, fmt.Errorf("dialface: fs read %q: %s", path, res)
		}
		data = append(data, chunk[:n]...)
		if n < len(chunk) {
			return data, nil
		}
	}
}

// translate converts a native error to a protocol result code, logging the
// diagnostic detail locally. This is the single error-mapping point for all
// five callbacks.
func (d *Driver) translate(op, path string, err error) Result {
	d.log.WithFields(logrus.Fields{
		"path":  path,
		"errno": errnoName(err),
	}).Errorf("fs %s: %v", op, err)

	if errors.Is(err, fs.ErrNotExist) {
		return ResNotFound
	}
	if errors.Is(err, fs.ErrInvalid) {
		return ResInvParam
	}
	return ResFSErr
}

// errnoName extracts the symbolic errno name ("ENOENT") from a native error,
// or empty when the error carries no errno.
func errnoName(err error) string {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return unix.ErrnoName(errno)
	}
	return ""
}
