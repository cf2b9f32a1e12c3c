package overlay

import (
	"fmt"

	"markestedt/clipdrawer/platform"
)

// Place computes the overlay placement for anchor: anchor's own placement
// with the normal position replaced by the overlay rectangle and the show
// state cleared so the overlay never maximizes itself.
func (m *Monitor) Place(anchor platform.Window) (platform.Placement, error) {
	p, err := m.windows.Placement(anchor)
	if err != nil {
		return platform.Placement{}, fmt.Errorf("failed to read placement: %w", err)
	}

	// The normal position of a maximized window still holds its restored
	// bounds; the live rectangle is what is on screen.
	bounds := p.NormalPosition
	if p.Maximized() {
		if rect, err := m.windows.WindowRect(anchor); err == nil {
			bounds = rect
		}
	}

	rel, err := m.windows.ScreenToClient(anchor, bounds)
	if err != nil {
		return platform.Placement{}, fmt.Errorf("failed to map to client space: %w", err)
	}

	if !m.opts.Fullscreen {
		rel = CenterBox(rel, m.opts.Width, m.opts.Height)
	}

	desktop, err := m.windows.ClientToScreen(anchor, rel)
	if err != nil {
		return platform.Placement{}, fmt.Errorf("failed to map to desktop: %w", err)
	}

	p.NormalPosition = desktop
	p.ShowCmd = platform.ShowNone
	return p, nil
}

// CenterBox returns a width x height box centered in bounds. A box larger
// than bounds is shrunk to fit, so the result is always inside bounds.
func CenterBox(bounds platform.Rect, width, height int32) platform.Rect {
	w := min(width, bounds.Width())
	h := min(height, bounds.Height())
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}

	left := bounds.Left + bounds.Width()/2 - w/2
	top := bounds.Top + bounds.Height()/2 - h/2
	return platform.Rect{Left: left, Top: top, Right: left + w, Bottom: top + h}
}
