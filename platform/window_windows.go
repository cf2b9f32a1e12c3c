//go:build windows

package platform

import (
	"fmt"
	"unsafe"
)

type windowPlacement struct {
	length           uint32
	flags            uint32
	showCmd          uint32
	ptMinPosition    Point
	ptMaxPosition    Point
	rcNormalPosition Rect
}

// Win32Windows implements WindowSystem and WindowStyler with user32.
type Win32Windows struct{}

// NewWindowSystem creates the user32 backed window system.
func NewWindowSystem() WindowSystem {
	return &Win32Windows{}
}

// NewWindowStyler creates the user32 backed overlay styler.
func NewWindowStyler() WindowStyler {
	return &Win32Windows{}
}

func (w *Win32Windows) ConsoleWindow() Window {
	h, _, _ := getConsoleWindow.Call()
	return Window(h)
}

func (w *Win32Windows) ForegroundWindow() (Window, error) {
	h, _, _ := getForegroundWindow.Call()
	if h == 0 {
		return 0, fmt.Errorf("no foreground window")
	}
	return Window(h), nil
}

func (w *Win32Windows) Placement(win Window) (Placement, error) {
	wp := windowPlacement{length: uint32(unsafe.Sizeof(windowPlacement{}))}
	r, _, err := getWindowPlacement.Call(uintptr(win), uintptr(unsafe.Pointer(&wp)))
	if r == 0 {
		return Placement{}, fmt.Errorf("GetWindowPlacement failed: %w", err)
	}

	return Placement{
		Flags:          wp.flags,
		ShowCmd:        wp.showCmd,
		MinPosition:    wp.ptMinPosition,
		MaxPosition:    wp.ptMaxPosition,
		NormalPosition: wp.rcNormalPosition,
	}, nil
}

func (w *Win32Windows) SetPlacement(win Window, p Placement) error {
	wp := windowPlacement{
		length:           uint32(unsafe.Sizeof(windowPlacement{})),
		flags:            p.Flags,
		showCmd:          p.ShowCmd,
		ptMinPosition:    p.MinPosition,
		ptMaxPosition:    p.MaxPosition,
		rcNormalPosition: p.NormalPosition,
	}
	r, _, err := setWindowPlacement.Call(uintptr(win), uintptr(unsafe.Pointer(&wp)))
	if r == 0 {
		return fmt.Errorf("SetWindowPlacement failed: %w", err)
	}
	return nil
}

func (w *Win32Windows) WindowRect(win Window) (Rect, error) {
	var rect Rect
	r, _, err := getWindowRect.Call(uintptr(win), uintptr(unsafe.Pointer(&rect)))
	if r == 0 {
		return Rect{}, fmt.Errorf("GetWindowRect failed: %w", err)
	}
	return rect, nil
}

func (w *Win32Windows) ScreenToClient(win Window, r Rect) (Rect, error) {
	return mapRect(0, win, r)
}

func (w *Win32Windows) ClientToScreen(win Window, r Rect) (Rect, error) {
	return mapRect(win, 0, r)
}

// mapRect converts both corners of r between coordinate spaces; a zero
// window is the desktop.
func mapRect(from, to Window, r Rect) (Rect, error) {
	if from == 0 && to == 0 {
		return r, fmt.Errorf("MapWindowPoints: no window to map against")
	}

	// Zero is also a valid offset, so the return value cannot signal failure.
	out := r
	mapWindowPoints.Call(uintptr(from), uintptr(to), uintptr(unsafe.Pointer(&out)), 2)
	return out, nil
}

func (w *Win32Windows) Show(win Window, visible bool) error {
	cmd := uintptr(swHide)
	if visible {
		cmd = swShow
	}
	showWindow.Call(uintptr(win), cmd)
	return nil
}

func (w *Win32Windows) SetForeground(win Window) error {
	r, _, err := setForegroundWindow.Call(uintptr(win))
	if r == 0 {
		return fmt.Errorf("SetForegroundWindow failed: %w", err)
	}
	return nil
}

// SetBorderless strips the title bar and sizing frame.
func (w *Win32Windows) SetBorderless(win Window) error {
	style, _, err := getWindowLong.Call(uintptr(win), longIndex(gwlStyle))
	if style == 0 {
		return fmt.Errorf("GetWindowLong failed: %w", err)
	}

	style &^= wsBorder | wsCaption | wsThickFrame
	setWindowLong.Call(uintptr(win), longIndex(gwlStyle), style)
	return nil
}

// SetOpacity makes the window layered and applies alpha to it.
func (w *Win32Windows) SetOpacity(win Window, alpha uint8) error {
	exStyle, _, _ := getWindowLong.Call(uintptr(win), longIndex(gwlExStyle))
	setWindowLong.Call(uintptr(win), longIndex(gwlExStyle), exStyle|wsExLayered)

	const white = 0x00FFFFFF
	r, _, err := setLayeredWindowAttributes.Call(uintptr(win), white, uintptr(alpha), lwaColorKey|lwaAlpha)
	if r == 0 {
		return fmt.Errorf("SetLayeredWindowAttributes failed: %w", err)
	}
	return nil
}

func (w *Win32Windows) SetBufferSize(columns, rows int16) error {
	out, err := stdout()
	if err != nil {
		return err
	}

	r, _, err := setConsoleScreenBufferSize.Call(uintptr(out), coord(columns, rows))
	if r == 0 {
		return fmt.Errorf("SetConsoleScreenBufferSize failed: %w", err)
	}
	return nil
}
