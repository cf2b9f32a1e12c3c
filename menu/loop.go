// Package menu runs the console menu that stores clipboard contents into
// registers and loads them back.
package menu

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"markestedt/clipdrawer/display"
	"markestedt/clipdrawer/platform"
	"markestedt/clipdrawer/register"
)

// Command is a single menu keystroke.
type Command byte

const (
	CmdNone  Command = 0
	CmdStore Command = 's'
	CmdLoad  Command = 'l'
	CmdClear Command = 'c'
	CmdExit  Command = 'x'
)

const (
	DefaultInterval     = 300 * time.Millisecond
	DefaultConfirmPause = 200 * time.Millisecond
	DefaultClearPause   = 100 * time.Millisecond
	DefaultKeyPoll      = 20 * time.Millisecond

	// PublishWidth bounds the previews handed to a Publisher.
	PublishWidth = 40
)

// Recorder receives one Event per register operation.
type Recorder interface {
	Record(ev Event)
}

// Publisher receives the register summaries after every cycle that ran.
type Publisher interface {
	Publish(summaries []register.Summary)
}

// Loop is the timer driven menu. All register and clipboard access happens
// on the goroutine calling Run.
type Loop struct {
	console   platform.Console
	clipboard platform.Clipboard
	clock     clockwork.Clock
	preview   *display.Pipeline
	published *display.Pipeline
	recorder  Recorder
	publisher Publisher

	interval     time.Duration
	confirmPause time.Duration
	clearPause   time.Duration
	keyPoll      time.Duration

	commands  chan Command
	registers *register.Table
}

// Option configures a Loop.
type Option func(*Loop)

// WithClock replaces the real clock.
func WithClock(clock clockwork.Clock) Option {
	return func(l *Loop) { l.clock = clock }
}

// WithInterval sets how often pending input is polled.
func WithInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithPauses sets how long confirmations stay on screen after store/load
// and after clear.
func WithPauses(confirm, clear time.Duration) Option {
	return func(l *Loop) {
		l.confirmPause = confirm
		l.clearPause = clear
	}
}

// WithPreview sets the formatter for text previews.
func WithPreview(p *display.Pipeline) Option {
	return func(l *Loop) { l.preview = p }
}

// WithRecorder reports operations to r.
func WithRecorder(r Recorder) Option {
	return func(l *Loop) { l.recorder = r }
}

// WithPublisher reports register summaries to p.
func WithPublisher(p Publisher) Option {
	return func(l *Loop) { l.publisher = p }
}

// New creates a menu loop reading from console and operating on clipboard.
func New(console platform.Console, clipboard platform.Clipboard, opts ...Option) *Loop {
	l := &Loop{
		console:      console,
		clipboard:    clipboard,
		clock:        clockwork.NewRealClock(),
		preview:      display.Default(0),
		published:    display.Default(PublishWidth),
		interval:     DefaultInterval,
		confirmPause: DefaultConfirmPause,
		clearPause:   DefaultClearPause,
		keyPoll:      DefaultKeyPoll,
		commands:     make(chan Command, 8),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Submit queues cmd from another goroutine. It is executed at the next timer
// firing. Submit reports false when the queue is full.
func (l *Loop) Submit(cmd Command) bool {
	select {
	case l.commands <- cmd:
		return true
	default:
		return false
	}
}

// Run renders the menu once, then polls for input every interval until the
// exit command is given or ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	if !l.cycle(ctx) {
		slog.Info("Exit requested")
		return nil
	}

	timer := l.clock.NewTimer(l.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-timer.Chan():
			timer.Stop()

			running := true
			select {
			case cmd := <-l.commands:
				l.render()
				running = l.execute(ctx, cmd)
			default:
				if l.console.KeyAvailable() {
					running = l.cycle(ctx)
				}
			}

			if !running {
				slog.Info("Exit requested")
				return nil
			}
			timer.Reset(l.interval)
		}
	}
}

// cycle renders, reads at most one buffered command and executes it. It
// returns false once the exit command was read.
func (l *Loop) cycle(ctx context.Context) bool {
	l.render()

	cmd := CmdNone
	if l.console.KeyAvailable() {
		key, err := l.console.ReadKey()
		if err != nil {
			slog.Warn("Failed to read command", "error", err)
		} else {
			cmd = Command(key)
		}
	}

	return l.execute(ctx, cmd)
}

func (l *Loop) execute(ctx context.Context, cmd Command) bool {
	switch cmd {
	case CmdStore:
		l.store(ctx)
	case CmdLoad:
		l.load(ctx)
	case CmdClear:
		l.clear()
	case CmdExit:
		return false
	}

	l.render()
	if l.publisher != nil {
		l.publisher.Publish(l.table().Summaries(l.published.Format))
	}
	return true
}

// table creates the registers on first use.
func (l *Loop) table() *register.Table {
	if l.registers == nil {
		l.registers = register.NewTable()
	}
	return l.registers
}

func (l *Loop) pause(d time.Duration) {
	if d > 0 {
		l.clock.Sleep(d)
	}
}

// readKey waits for one keystroke. Pending input is polled so that
// cancelling ctx ends a wait at a prompt.
func (l *Loop) readKey(ctx context.Context) (byte, error) {
	for !l.console.KeyAvailable() {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-l.clock.After(l.keyPoll):
		}
	}
	return l.console.ReadKey()
}
