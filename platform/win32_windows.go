//go:build windows

package platform

import "golang.org/x/sys/windows"

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")
	msvcrt   = windows.NewLazySystemDLL("msvcrt.dll")

	// Keyboard
	getAsyncKeyState = user32.NewProc("GetAsyncKeyState")
	kbhit            = msvcrt.NewProc("_kbhit")
	getch            = msvcrt.NewProc("_getch")

	// Windows
	getConsoleWindow           = kernel32.NewProc("GetConsoleWindow")
	getForegroundWindow        = user32.NewProc("GetForegroundWindow")
	setForegroundWindow        = user32.NewProc("SetForegroundWindow")
	getWindowPlacement         = user32.NewProc("GetWindowPlacement")
	setWindowPlacement         = user32.NewProc("SetWindowPlacement")
	getWindowRect              = user32.NewProc("GetWindowRect")
	mapWindowPoints            = user32.NewProc("MapWindowPoints")
	showWindow                 = user32.NewProc("ShowWindow")
	getWindowLong              = user32.NewProc("GetWindowLongW")
	setWindowLong              = user32.NewProc("SetWindowLongW")
	setLayeredWindowAttributes = user32.NewProc("SetLayeredWindowAttributes")

	// Console buffer
	fillConsoleOutputCharacter = kernel32.NewProc("FillConsoleOutputCharacterW")
	fillConsoleOutputAttribute = kernel32.NewProc("FillConsoleOutputAttribute")
	setConsoleCursorPosition   = kernel32.NewProc("SetConsoleCursorPosition")
	setConsoleScreenBufferSize = kernel32.NewProc("SetConsoleScreenBufferSize")

	// Clipboard
	openClipboard           = user32.NewProc("OpenClipboard")
	closeClipboard          = user32.NewProc("CloseClipboard")
	emptyClipboard          = user32.NewProc("EmptyClipboard")
	enumClipboardFormats    = user32.NewProc("EnumClipboardFormats")
	getClipboardData        = user32.NewProc("GetClipboardData")
	setClipboardData        = user32.NewProc("SetClipboardData")
	getClipboardFormatName  = user32.NewProc("GetClipboardFormatNameW")
	registerClipboardFormat = user32.NewProc("RegisterClipboardFormatW")
	globalAlloc             = kernel32.NewProc("GlobalAlloc")
	globalFree              = kernel32.NewProc("GlobalFree")
	globalLock              = kernel32.NewProc("GlobalLock")
	globalUnlock            = kernel32.NewProc("GlobalUnlock")
	globalSize              = kernel32.NewProc("GlobalSize")
)

const (
	swHide = 0
	swShow = 5

	gwlStyle   int32 = -16
	gwlExStyle int32 = -20

	wsBorder     = 0x00800000
	wsCaption    = 0x00C00000
	wsThickFrame = 0x00040000
	wsExLayered  = 0x00080000

	lwaColorKey = 0x1
	lwaAlpha    = 0x2

	gmemMoveable = 0x0002
)

// coord packs a console COORD into the register-passed form.
func coord(x, y int16) uintptr {
	return uintptr(uint32(uint16(x)) | uint32(uint16(y))<<16)
}

// longIndex sign-extends a GWL_* index for the syscall.
func longIndex(index int32) uintptr {
	return uintptr(index)
}
