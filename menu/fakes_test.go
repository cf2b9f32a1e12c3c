package menu

import (
	"errors"
	"strings"
	"sync"

	"markestedt/clipdrawer/platform"
	"markestedt/clipdrawer/register"
)

var errNoKey = errors.New("no key buffered")

// fakeConsole buffers keystrokes and captures output. ReadKey never blocks.
type fakeConsole struct {
	mu     sync.Mutex
	keys   []byte
	out    strings.Builder
	screen strings.Builder
	clears int
}

func (c *fakeConsole) push(keys string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = append(c.keys, keys...)
}

func (c *fakeConsole) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.out.Write(p)
	c.screen.Write(p)
	return len(p), nil
}

func (c *fakeConsole) KeyAvailable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.keys) > 0
}

func (c *fakeConsole) ReadKey() (byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.keys) == 0 {
		return 0, errNoKey
	}
	k := c.keys[0]
	c.keys = c.keys[1:]
	return k, nil
}

func (c *fakeConsole) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screen.Reset()
	c.clears++
	return nil
}

// output returns everything written since the start.
func (c *fakeConsole) output() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out.String()
}

// visible returns what was written since the last clear.
func (c *fakeConsole) visible() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screen.String()
}

func (c *fakeConsole) clearCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clears
}

func (c *fakeConsole) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.keys)
}

// fakeClipboard behaves like a system clipboard: every set replaces
// everything that was there.
type fakeClipboard struct {
	mu      sync.Mutex
	text    string
	image   []byte
	formats []platform.Format
	sets    int

	restored []platform.Format
}

func (c *fakeClipboard) Text() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, nil
}

func (c *fakeClipboard) Image() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.image, nil
}

func (c *fakeClipboard) Formats() ([]platform.Format, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]platform.Format, len(c.formats))
	for i, f := range c.formats {
		out[i] = platform.Format{ID: f.ID, Name: f.Name, Data: append([]byte(nil), f.Data...)}
	}
	return out, nil
}

func (c *fakeClipboard) SetFormats(formats []platform.Format) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text, c.image, c.formats = "", nil, formats
	c.restored = formats
	c.sets++
	return nil
}

func (c *fakeClipboard) SetText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text, c.image, c.formats = text, nil, nil
	c.sets++
	return nil
}

func (c *fakeClipboard) SetImage(png []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text, c.image, c.formats = "", png, nil
	c.sets++
	return nil
}

func (c *fakeClipboard) setCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *fakeRecorder) Record(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *fakeRecorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

type fakePublisher struct {
	mu   sync.Mutex
	last []register.Summary
	n    int
}

func (p *fakePublisher) Publish(s []register.Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = s
	p.n++
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.n
}
