// Package register holds the named clipboard slots the menu stores into and
// loads from.
package register

import (
	"errors"
	"fmt"

	"markestedt/clipdrawer/platform"
)

// Names is the closed set of register names in rendering order.
const Names = "0123456789abcdefghijklmnopqrstuvwxyz"

// Count is the number of registers in a Table.
const Count = len(Names)

// ErrInvalidName is returned for a register name outside Names.
var ErrInvalidName = errors.New("invalid register name")

// Index returns the slot of name, or ErrInvalidName.
func Index(name byte) (int, error) {
	switch {
	case name >= '0' && name <= '9':
		return int(name - '0'), nil
	case name >= 'a' && name <= 'z':
		return 10 + int(name-'a'), nil
	}
	return -1, fmt.Errorf("%w: %q", ErrInvalidName, name)
}

// Kind is the primary content type of a register.
type Kind string

const (
	KindEmpty Kind = ""
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Register is one clipboard snapshot. At most one of text and image is
// set; raw carries every captured clipboard format alongside it.
type Register struct {
	text  string
	image []byte
	raw   *Payload
}

// Text returns the stored text, empty when the register holds none.
func (r *Register) Text() string { return r.text }

// Image returns the stored PNG image, nil when the register holds none.
func (r *Register) Image() []byte { return r.image }

// Kind reports which primary content the register holds.
func (r *Register) Kind() Kind {
	switch {
	case r.text != "":
		return KindText
	case len(r.image) > 0:
		return KindImage
	}
	return KindEmpty
}

// Empty reports whether the register holds no primary content.
func (r *Register) Empty() bool {
	return r.Kind() == KindEmpty
}

// Size is the image size when an image is stored, else the text length in bytes.
func (r *Register) Size() int {
	if len(r.image) > 0 {
		return len(r.image)
	}
	return len(r.text)
}

// StoreText makes text the primary content and drops any image.
func (r *Register) StoreText(text string) {
	r.text = text
	r.image = nil
}

// StoreImage makes png the primary content and drops any text.
func (r *Register) StoreImage(png []byte) {
	r.image = png
	r.text = ""
}

// StoreRaw replaces the captured payload wholesale.
func (r *Register) StoreRaw(formats []platform.Format) {
	r.raw = NewPayload(formats)
}

// HasRaw reports whether a captured payload is present.
func (r *Register) HasRaw() bool {
	return r.raw != nil && !r.raw.Empty()
}

// HandOff gives the captured payload to the caller and keeps an
// independent copy, so the register never references a payload it no
// longer owns.
func (r *Register) HandOff() *Payload {
	out := r.raw
	r.raw = out.Clone()
	return out
}

// Reset returns the register to its empty state.
func (r *Register) Reset() {
	*r = Register{}
}
