//go:build windows

package platform

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Win32Console is the process console driven through the C runtime's
// keyboard buffer and the console screen buffer API.
type Win32Console struct {
	out *os.File
}

// NewConsole returns the console attached to this process.
func NewConsole() Console {
	return &Win32Console{out: os.Stdout}
}

func (c *Win32Console) Write(p []byte) (int, error) {
	return c.out.Write(p)
}

func (c *Win32Console) KeyAvailable() bool {
	r, _, _ := kbhit.Call()
	return r != 0
}

func (c *Win32Console) ReadKey() (byte, error) {
	r, _, _ := getch.Call()
	return byte(r), nil
}

// Clear blanks the whole screen buffer and homes the cursor.
func (c *Win32Console) Clear() error {
	h, err := stdout()
	if err != nil {
		return err
	}

	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(h, &info); err != nil {
		return fmt.Errorf("failed to get console buffer info: %w", err)
	}

	cells := uintptr(int32(info.Size.X) * int32(info.Size.Y))
	var written uint32

	fillConsoleOutputCharacter.Call(uintptr(h), ' ', cells, coord(0, 0), uintptr(unsafe.Pointer(&written)))
	fillConsoleOutputAttribute.Call(uintptr(h), uintptr(info.Attributes), cells, coord(0, 0), uintptr(unsafe.Pointer(&written)))
	setConsoleCursorPosition.Call(uintptr(h), coord(0, 0))

	return nil
}

func stdout() (windows.Handle, error) {
	h, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil {
		return 0, fmt.Errorf("failed to get stdout handle: %w", err)
	}
	return h, nil
}
