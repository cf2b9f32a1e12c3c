//go:build windows

package platform

import (
	"fmt"
	"time"
	"unsafe"

	"golang.design/x/clipboard"
	"golang.org/x/sys/windows"
)

// Formats whose clipboard handle is a GDI object rather than global memory.
// They cannot be copied byte-wise and are skipped when capturing.
var handleFormats = map[uint32]bool{
	2:    true, // CF_BITMAP
	3:    true, // CF_METAFILEPICT
	9:    true, // CF_PALETTE
	14:   true, // CF_ENHMETAFILE
	0x80: true, // CF_OWNERDISPLAY
	0x82: true, // CF_DSPBITMAP
	0x83: true, // CF_DSPMETAFILEPICT
	0x8E: true, // CF_DSPENHMETAFILE
}

const firstRegisteredFormat = 0xC000

// WindowsClipboard implements the Clipboard interface for Windows
type WindowsClipboard struct{}

// NewClipboard initializes clipboard access
func NewClipboard() (Clipboard, error) {
	if err := clipboard.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize clipboard: %w", err)
	}
	return &WindowsClipboard{}, nil
}

func (c *WindowsClipboard) Text() (string, error) {
	return string(clipboard.Read(clipboard.FmtText)), nil
}

func (c *WindowsClipboard) Image() ([]byte, error) {
	return clipboard.Read(clipboard.FmtImage), nil
}

func (c *WindowsClipboard) SetText(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

func (c *WindowsClipboard) SetImage(png []byte) error {
	clipboard.Write(clipboard.FmtImage, png)
	return nil
}

// Formats copies every global-memory format currently on the clipboard.
func (c *WindowsClipboard) Formats() ([]Format, error) {
	if err := c.open(); err != nil {
		return nil, err
	}
	defer c.close()

	var formats []Format
	var id uintptr
	for {
		id, _, _ = enumClipboardFormats.Call(id)
		if id == 0 {
			break
		}
		if handleFormats[uint32(id)] {
			continue
		}

		data, err := readGlobal(id)
		if err != nil {
			continue
		}

		formats = append(formats, Format{
			ID:   uint32(id),
			Name: formatName(uint32(id)),
			Data: data,
		})
	}

	return formats, nil
}

// SetFormats replaces the clipboard contents with formats.
func (c *WindowsClipboard) SetFormats(formats []Format) error {
	if err := c.open(); err != nil {
		return err
	}
	defer c.close()

	emptyClipboard.Call()

	for _, f := range formats {
		id := uintptr(f.ID)
		if f.Name != "" {
			name, err := windows.UTF16PtrFromString(f.Name)
			if err != nil {
				continue
			}
			if id, _, _ = registerClipboardFormat.Call(uintptr(unsafe.Pointer(name))); id == 0 {
				continue
			}
		}

		if err := writeGlobal(id, f.Data); err != nil {
			return fmt.Errorf("failed to restore clipboard format %d: %w", f.ID, err)
		}
	}

	return nil
}

func readGlobal(format uintptr) ([]byte, error) {
	h, _, err := getClipboardData.Call(format)
	if h == 0 {
		return nil, fmt.Errorf("GetClipboardData failed: %w", err)
	}

	size, _, _ := globalSize.Call(h)
	l, _, err := globalLock.Call(h)
	if l == 0 {
		return nil, fmt.Errorf("GlobalLock failed: %w", err)
	}
	defer globalUnlock.Call(h)

	data := make([]byte, size)
	copy(data, unsafe.Slice((*byte)(unsafe.Pointer(l)), size))
	return data, nil
}

func writeGlobal(format uintptr, data []byte) error {
	h, _, err := globalAlloc.Call(gmemMoveable, uintptr(len(data)))
	if h == 0 {
		return fmt.Errorf("GlobalAlloc failed: %w", err)
	}

	if len(data) > 0 {
		l, _, err := globalLock.Call(h)
		if l == 0 {
			globalFree.Call(h)
			return fmt.Errorf("GlobalLock failed: %w", err)
		}
		copy(unsafe.Slice((*byte)(unsafe.Pointer(l)), len(data)), data)
		globalUnlock.Call(h)
	}

	// On success the system owns h.
	r, _, err := setClipboardData.Call(format, h)
	if r == 0 {
		globalFree.Call(h)
		return fmt.Errorf("SetClipboardData failed: %w", err)
	}

	return nil
}

func formatName(id uint32) string {
	if id < firstRegisteredFormat {
		return ""
	}

	buf := make([]uint16, 256)
	n, _, _ := getClipboardFormatName.Call(uintptr(id), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}

func (c *WindowsClipboard) open() error {
	// Try to open clipboard with retries
	for i := 0; i < 10; i++ {
		r, _, _ := openClipboard.Call(0)
		if r != 0 {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return fmt.Errorf("failed to open clipboard after retries")
}

func (c *WindowsClipboard) close() {
	closeClipboard.Call()
}
