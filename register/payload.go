package register

import "markestedt/clipdrawer/platform"

// Payload is the full multi-format clipboard capture. A Payload has a single
// owner; Release transfers the formats out and leaves the Payload empty.
type Payload struct {
	formats []platform.Format
}

// NewPayload takes ownership of formats.
func NewPayload(formats []platform.Format) *Payload {
	return &Payload{formats: formats}
}

// Empty reports whether p holds no formats. A nil Payload is empty.
func (p *Payload) Empty() bool {
	return p == nil || len(p.formats) == 0
}

// Len returns the number of formats held.
func (p *Payload) Len() int {
	if p == nil {
		return 0
	}
	return len(p.formats)
}

// Clone returns a deep copy sharing no memory with p.
func (p *Payload) Clone() *Payload {
	if p == nil {
		return nil
	}

	formats := make([]platform.Format, len(p.formats))
	for i, f := range p.formats {
		formats[i] = platform.Format{
			ID:   f.ID,
			Name: f.Name,
			Data: append([]byte(nil), f.Data...),
		}
	}
	return &Payload{formats: formats}
}

// Release hands the formats to the caller and empties p.
func (p *Payload) Release() []platform.Format {
	if p == nil {
		return nil
	}
	formats := p.formats
	p.formats = nil
	return formats
}
