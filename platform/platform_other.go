//go:build !windows

package platform

type unsupported struct{}

// NewKeyState returns a key state reader that never reports a press.
func NewKeyState() KeyState { return unsupported{} }

// NewWindowSystem returns a window system whose calls all fail.
func NewWindowSystem() WindowSystem { return unsupported{} }

// NewWindowStyler returns a styler whose calls all fail.
func NewWindowStyler() WindowStyler { return unsupported{} }

// NewConsole returns a console that has no input.
func NewConsole() Console { return unsupported{} }

// NewClipboard fails on this platform.
func NewClipboard() (Clipboard, error) { return nil, ErrUnsupported }

func (unsupported) Pressed(int) bool { return false }

func (unsupported) ConsoleWindow() Window { return 0 }
func (unsupported) ForegroundWindow() (Window, error) { return 0, ErrUnsupported }
func (unsupported) Placement(Window) (Placement, error) { return Placement{}, ErrUnsupported }
func (unsupported) SetPlacement(Window, Placement) error { return ErrUnsupported }
func (unsupported) WindowRect(Window) (Rect, error) { return Rect{}, ErrUnsupported }
func (unsupported) ScreenToClient(Window, Rect) (Rect, error) { return Rect{}, ErrUnsupported }
func (unsupported) ClientToScreen(Window, Rect) (Rect, error) { return Rect{}, ErrUnsupported }
func (unsupported) Show(Window, bool) error { return ErrUnsupported }
func (unsupported) SetForeground(Window) error { return ErrUnsupported }
func (unsupported) SetBorderless(Window) error { return ErrUnsupported }
func (unsupported) SetOpacity(Window, uint8) error { return ErrUnsupported }
func (unsupported) SetBufferSize(int16, int16) error { return ErrUnsupported }
func (unsupported) Write(p []byte) (int, error) { return 0, ErrUnsupported }
func (unsupported) KeyAvailable() bool { return false }
func (unsupported) ReadKey() (byte, error) { return 0, ErrUnsupported }
func (unsupported) Clear() error { return ErrUnsupported }
