package menu

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"markestedt/clipdrawer/register"
)

// Op names a register operation.
type Op string

const (
	OpStore Op = "store"
	OpLoad  Op = "load"
	OpClear Op = "clear"
)

// Event describes the outcome of one register operation.
type Event struct {
	Time     time.Time
	Op       Op
	Register string
	Kind     register.Kind
	Size     int
	Success  bool
	Message  string
}

const menuPrompt = "(s)tore, (l)oad, (c)lear, e(x)it? "

func (l *Loop) render() {
	if err := l.console.Clear(); err != nil {
		slog.Debug("Failed to clear console", "error", err)
	}

	var b strings.Builder
	l.table().Each(func(name byte, r *register.Register) {
		switch r.Kind() {
		case register.KindText:
			fmt.Fprintf(&b, "%c [%d bytes]: %s\n", name, r.Size(), l.preview.Format(r.Text()))
		case register.KindImage:
			fmt.Fprintf(&b, "%c [%d bytes]: <Image>\n", name, r.Size())
		}
	})
	b.WriteString("\n" + strings.Repeat("-", 10) + "\n")
	b.WriteString(menuPrompt + "\n")

	l.print(b.String())
}

func (l *Loop) store(ctx context.Context) {
	l.print("Store To Register: ")
	name, ok := l.readName(ctx)
	if !ok {
		return
	}

	reg, err := l.table().Get(name)
	if err != nil {
		l.invalid(ctx, OpStore, name)
		return
	}

	text, err := l.clipboard.Text()
	if err != nil {
		slog.Warn("Failed to read clipboard text", "error", err)
	}

	var image []byte
	if text == "" {
		if image, err = l.clipboard.Image(); err != nil {
			slog.Warn("Failed to read clipboard image", "error", err)
		}
	}

	if text == "" && len(image) == 0 {
		l.print("\n No Content To Copy\n")
		l.record(Event{Op: OpStore, Register: string(name), Message: "no content"})
		l.pause(l.confirmPause)
		return
	}

	formats, err := l.clipboard.Formats()
	if err != nil {
		slog.Warn("Failed to capture clipboard formats", "error", err)
	}
	reg.StoreRaw(formats)

	if text != "" {
		reg.StoreText(text)
		l.print(fmt.Sprintf("\n Stored Text In Register '%c'\n", name))
	} else {
		reg.StoreImage(image)
		l.print(fmt.Sprintf("\n Stored Image In Register '%c'\n", name))
	}

	slog.Info("Stored register", "register", string(name), "kind", reg.Kind(), "size", reg.Size(), "formats", len(formats))
	l.record(Event{Op: OpStore, Register: string(name), Kind: reg.Kind(), Size: reg.Size(), Success: true})
	l.pause(l.confirmPause)
}

func (l *Loop) load(ctx context.Context) {
	l.print("Load From Register: ")
	name, ok := l.readName(ctx)
	if !ok {
		return
	}

	reg, err := l.table().Get(name)
	if err != nil {
		l.invalid(ctx, OpLoad, name)
		return
	}

	if reg.Empty() {
		l.print("\n No Content In Register\n")
		l.record(Event{Op: OpLoad, Register: string(name), Message: "no content"})
		l.pause(l.confirmPause)
		return
	}

	if payload := reg.HandOff(); !payload.Empty() {
		if err := l.clipboard.SetFormats(payload.Release()); err != nil {
			slog.Warn("Failed to restore clipboard formats", "register", string(name), "error", err)
		}
	}

	switch reg.Kind() {
	case register.KindText:
		err = l.clipboard.SetText(reg.Text())
		l.print(fmt.Sprintf("\n Loaded Text From Register '%c'\n", name))
	case register.KindImage:
		err = l.clipboard.SetImage(reg.Image())
		l.print(fmt.Sprintf("\n Loaded Image From Register '%c'\n", name))
	}

	ev := Event{Op: OpLoad, Register: string(name), Kind: reg.Kind(), Size: reg.Size(), Success: err == nil}
	if err != nil {
		slog.Warn("Failed to load register into clipboard", "register", string(name), "error", err)
		ev.Message = err.Error()
	}
	l.record(ev)
	l.pause(l.confirmPause)
}

func (l *Loop) clear() {
	l.table().Clear()
	l.print(" Cleared Registers\n")
	slog.Info("Cleared registers")
	l.record(Event{Op: OpClear, Success: true})
	l.pause(l.clearPause)
}

// invalid reports a bad register name and waits for acknowledgement.
func (l *Loop) invalid(ctx context.Context, op Op, name byte) {
	l.print(fmt.Sprintf("\n Invalid Register '%c'\n", name))
	l.record(Event{Op: op, Register: string(name), Message: "invalid register"})
	if _, err := l.readKey(ctx); err != nil {
		slog.Debug("Failed to read acknowledgement", "error", err)
	}
}

func (l *Loop) readName(ctx context.Context) (byte, bool) {
	name, err := l.readKey(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Warn("Failed to read register name", "error", err)
		}
		return 0, false
	}
	return name, true
}

func (l *Loop) record(ev Event) {
	if l.recorder == nil {
		return
	}
	ev.Time = l.clock.Now()
	l.recorder.Record(ev)
}

func (l *Loop) print(s string) {
	if _, err := l.console.Write([]byte(s)); err != nil {
		slog.Debug("Failed to write to console", "error", err)
	}
}
