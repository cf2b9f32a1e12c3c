package platform

import (
	"errors"
	"io"
)

// ErrUnsupported is returned by every capability on platforms without a
// native implementation.
var ErrUnsupported = errors.New("platform not supported")

// Window is an opaque native window handle. Zero means no window.
type Window uintptr

// Point is a screen or client coordinate.
type Point struct {
	X, Y int32
}

// Rect is a window rectangle; Right and Bottom are exclusive.
type Rect struct {
	Left, Top, Right, Bottom int32
}

// Width returns the horizontal extent of r.
func (r Rect) Width() int32 { return r.Right - r.Left }

// Height returns the vertical extent of r.
func (r Rect) Height() int32 { return r.Bottom - r.Top }

// Contains reports whether inner lies entirely within r.
func (r Rect) Contains(inner Rect) bool {
	return inner.Left >= r.Left && inner.Top >= r.Top &&
		inner.Right <= r.Right && inner.Bottom <= r.Bottom
}

// Show commands as stored in a window placement.
const (
	ShowNone      uint32 = 0
	ShowNormal    uint32 = 1
	ShowMinimized uint32 = 2
	ShowMaximized uint32 = 3
)

// Placement mirrors the native window placement record.
type Placement struct {
	Flags          uint32
	ShowCmd        uint32
	MinPosition    Point
	MaxPosition    Point
	NormalPosition Rect
}

// Maximized reports whether the placement describes a maximized window.
func (p Placement) Maximized() bool {
	return p.ShowCmd == ShowMaximized
}

// KeyState reports the live pressed state of a virtual key.
type KeyState interface {
	Pressed(vk int) bool
}

// WindowSystem is the subset of the window manager the overlay monitor needs.
type WindowSystem interface {
	ConsoleWindow() Window
	ForegroundWindow() (Window, error)
	Placement(w Window) (Placement, error)
	SetPlacement(w Window, p Placement) error
	WindowRect(w Window) (Rect, error)
	// ScreenToClient maps a desktop rectangle into w's client space.
	ScreenToClient(w Window, r Rect) (Rect, error)
	// ClientToScreen maps a rectangle in w's client space to the desktop.
	ClientToScreen(w Window, r Rect) (Rect, error)
	Show(w Window, visible bool) error
	SetForeground(w Window) error
}

// WindowStyler applies one-time decoration changes to the overlay.
type WindowStyler interface {
	SetBorderless(w Window) error
	SetOpacity(w Window, alpha uint8) error
	SetBufferSize(columns, rows int16) error
}

// Console is the interactive text surface of the register menu.
type Console interface {
	io.Writer
	// KeyAvailable reports whether a keystroke is buffered without consuming it.
	KeyAvailable() bool
	// ReadKey blocks until a keystroke is available and consumes it.
	ReadKey() (byte, error)
	Clear() error
}

// Format is one clipboard format with its raw bytes. Name is set for
// registered (non-predefined) formats so they can be re-registered on restore.
type Format struct {
	ID   uint32
	Name string
	Data []byte
}

// Clipboard gives access to the system clipboard.
type Clipboard interface {
	Text() (string, error)
	// Image returns the clipboard image PNG encoded, or nil when there is none.
	Image() ([]byte, error)
	// Formats captures every transferable clipboard format.
	Formats() ([]Format, error)
	// SetFormats replaces the clipboard with formats. The caller gives up
	// ownership of the slice.
	SetFormats(formats []Format) error
	SetText(text string) error
	SetImage(png []byte) error
}
