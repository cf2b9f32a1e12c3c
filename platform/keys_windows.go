//go:build windows

package platform

type asyncKeyState struct{}

// NewKeyState returns a KeyState backed by GetAsyncKeyState.
func NewKeyState() KeyState {
	return asyncKeyState{}
}

func (asyncKeyState) Pressed(vk int) bool {
	r, _, _ := getAsyncKeyState.Call(uintptr(vk))
	return r&0x8000 != 0
}
