package menu

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markestedt/clipdrawer/platform"
	"markestedt/clipdrawer/register"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G'}

func newTestLoop(opts ...Option) (*Loop, *fakeConsole, *fakeClipboard) {
	console := &fakeConsole{}
	clip := &fakeClipboard{}
	opts = append([]Option{WithClock(clockwork.NewFakeClock()), WithPauses(0, 0)}, opts...)
	return New(console, clip, opts...), console, clip
}

func TestCycle_StoreTextRendersEscapedNewlines(t *testing.T) {
	l, console, clip := newTestLoop()
	clip.text = "hello\nworld"
	console.push("sa")

	require.True(t, l.cycle(context.Background()))

	assert.Contains(t, console.output(), "Stored Text In Register 'a'")
	assert.Contains(t, console.visible(), "a [11 bytes]: hello\\nworld\n")
	assert.Contains(t, console.visible(), "(s)tore, (l)oad, (c)lear, e(x)it?")
}

func TestCycle_StoreLoadTextRoundTripEveryRegister(t *testing.T) {
	l, console, clip := newTestLoop()

	for i := 0; i < len(register.Names); i++ {
		name := register.Names[i]
		want := "value " + string(name) + "\r\n"

		require.NoError(t, clip.SetText(want))
		console.push("s" + string(name))
		require.True(t, l.cycle(context.Background()))

		require.NoError(t, clip.SetText("something else"))
		console.push("l" + string(name))
		require.True(t, l.cycle(context.Background()))

		got, _ := clip.Text()
		assert.Equal(t, want, got, "register %q", name)
	}
}

func TestCycle_StoreLoadImageRoundTrip(t *testing.T) {
	l, console, clip := newTestLoop()
	clip.image = pngBytes
	console.push("sb")
	require.True(t, l.cycle(context.Background()))

	assert.Contains(t, console.output(), "Stored Image In Register 'b'")
	assert.Contains(t, console.visible(), "b [4 bytes]: <Image>\n")

	require.NoError(t, clip.SetText("replaced"))
	console.push("lb")
	require.True(t, l.cycle(context.Background()))

	img, _ := clip.Image()
	assert.Equal(t, pngBytes, img)
	assert.Contains(t, console.output(), "Loaded Image From Register 'b'")
}

func TestCycle_StoringOneKindClearsTheOther(t *testing.T) {
	l, console, clip := newTestLoop()

	clip.image = pngBytes
	console.push("sc")
	l.cycle(context.Background())

	require.NoError(t, clip.SetText("text now"))
	console.push("sc")
	l.cycle(context.Background())

	reg, err := l.registers.Get('c')
	require.NoError(t, err)
	assert.Equal(t, register.KindText, reg.Kind())
	assert.Nil(t, reg.Image())

	require.NoError(t, clip.SetImage(pngBytes))
	console.push("sc")
	l.cycle(context.Background())

	assert.Equal(t, register.KindImage, reg.Kind())
	assert.Empty(t, reg.Text())
}

func TestCycle_TextTakesPriorityOverImage(t *testing.T) {
	l, console, clip := newTestLoop()
	clip.text = "both"
	clip.image = pngBytes
	console.push("sd")

	l.cycle(context.Background())

	reg, _ := l.registers.Get('d')
	assert.Equal(t, register.KindText, reg.Kind())
	assert.Equal(t, "both", reg.Text())
}

func TestCycle_StoreWithEmptyClipboard(t *testing.T) {
	l, console, _ := newTestLoop()
	console.push("se")

	l.cycle(context.Background())

	assert.Contains(t, console.output(), "No Content To Copy")
	reg, _ := l.registers.Get('e')
	assert.True(t, reg.Empty())
	assert.False(t, reg.HasRaw())
}

func TestCycle_LoadEmptyRegisterLeavesClipboard(t *testing.T) {
	l, console, clip := newTestLoop()
	require.NoError(t, clip.SetText("keep me"))
	before := clip.setCount()
	console.push("lf")

	l.cycle(context.Background())

	assert.Contains(t, console.output(), "No Content In Register")
	got, _ := clip.Text()
	assert.Equal(t, "keep me", got)
	assert.Equal(t, before, clip.setCount())
}

func TestCycle_InvalidRegisterWaitsForAcknowledgement(t *testing.T) {
	for _, op := range []string{"s", "l"} {
		t.Run(op, func(t *testing.T) {
			l, console, clip := newTestLoop()
			clip.text = "ignored"
			console.push(op + "Q" + "z")

			require.True(t, l.cycle(context.Background()))

			assert.Contains(t, console.output(), "Invalid Register 'Q'")
			assert.Zero(t, console.pending(), "acknowledgement key must be consumed")
			assert.Empty(t, l.registers.Summaries(nil))
		})
	}
}

func TestCycle_LoadRestoresRawPayloadAndKeepsCopy(t *testing.T) {
	l, console, clip := newTestLoop()
	html := platform.Format{ID: 0xC0FE, Name: "HTML Format", Data: []byte("<b>t</b>")}
	clip.text = "t"
	clip.formats = []platform.Format{{ID: 13, Data: []byte{'t', 0, 0, 0}}, html}
	console.push("sh")
	l.cycle(context.Background())

	console.push("lh")
	l.cycle(context.Background())

	require.Len(t, clip.restored, 2)
	assert.Equal(t, html, clip.restored[1])

	// The handed-off payload is the clipboard's now; the register keeps its own.
	clip.restored[1].Data[0] = 'X'
	reg, _ := l.registers.Get('h')
	require.True(t, reg.HasRaw())

	console.push("lh")
	l.cycle(context.Background())
	assert.Equal(t, byte('<'), clip.restored[1].Data[0])
	got, _ := clip.Text()
	assert.Equal(t, "t", got)
}

func TestCycle_WaitsForRegisterName(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l, console, clip := newTestLoop(WithClock(clock))
	clip.text = "late"
	console.push("s")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := make(chan bool, 1)
	go func() { done <- l.cycle(ctx) }()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	console.push("a")
	clock.Advance(DefaultKeyPoll)

	require.True(t, <-done)
	assert.Contains(t, console.visible(), "a [4 bytes]: late")
}

func TestCycle_CancelEndsPrompt(t *testing.T) {
	tests := []struct {
		name string
		keys string
	}{
		{"register name", "s"},
		{"invalid register acknowledgement", "lQ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := clockwork.NewFakeClock()
			l, console, clip := newTestLoop(WithClock(clock))
			clip.text = "unused"
			console.push(tt.keys)

			wait, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan bool, 1)
			go func() { done <- l.cycle(ctx) }()

			require.NoError(t, clock.BlockUntilContext(wait, 1))
			cancel()

			select {
			case <-done:
			case <-wait.Done():
				t.Fatal("prompt ignored cancellation")
			}
			assert.Empty(t, l.registers.Summaries(nil))
		})
	}
}

func TestCycle_PublishesFormattedPreviews(t *testing.T) {
	pub := &fakePublisher{}
	l, console, clip := newTestLoop(WithPublisher(pub))
	clip.text = "line one\n" + strings.Repeat("x", 2*PublishWidth)
	console.push("sa")

	l.cycle(context.Background())

	require.Len(t, pub.last, 1)
	preview := pub.last[0].Preview
	assert.True(t, strings.HasPrefix(preview, `line one\n`))
	assert.NotContains(t, preview, "\n")
	assert.Equal(t, PublishWidth, utf8.RuneCountInString(preview))
	assert.True(t, strings.HasSuffix(preview, "..."))
}

func TestCycle_ClearEmptiesEveryRegister(t *testing.T) {
	l, console, clip := newTestLoop()
	clip.text = "one"
	console.push("sa")
	l.cycle(context.Background())
	clip.image, clip.text = pngBytes, ""
	console.push("s7")
	l.cycle(context.Background())
	require.Contains(t, console.visible(), "7 [4 bytes]")

	console.push("c")
	l.cycle(context.Background())

	assert.Contains(t, console.output(), "Cleared Registers")
	assert.NotContains(t, console.visible(), "bytes]")
	assert.Empty(t, l.registers.Summaries(nil))
}

func TestCycle_ExitStopsWithoutRedraw(t *testing.T) {
	l, console, _ := newTestLoop()
	console.push("x")

	assert.False(t, l.cycle(context.Background()))
	assert.Equal(t, 1, console.clearCount())
}

func TestCycle_UnknownCommandRedraws(t *testing.T) {
	l, console, _ := newTestLoop()
	console.push("?")

	assert.True(t, l.cycle(context.Background()))
	assert.Equal(t, 2, console.clearCount())
}

func TestCycle_RecordsAndPublishes(t *testing.T) {
	rec := &fakeRecorder{}
	pub := &fakePublisher{}
	l, console, clip := newTestLoop(WithRecorder(rec), WithPublisher(pub))
	clip.text = "hello"
	console.push("sa")
	l.cycle(context.Background())
	console.push("lQ!")
	l.cycle(context.Background())
	console.push("c")
	l.cycle(context.Background())

	events := rec.all()
	require.Len(t, events, 3)
	assert.Equal(t, Event{Time: events[0].Time, Op: OpStore, Register: "a", Kind: register.KindText, Size: 5, Success: true}, events[0])
	assert.Equal(t, OpLoad, events[1].Op)
	assert.False(t, events[1].Success)
	assert.Equal(t, "invalid register", events[1].Message)
	assert.Equal(t, OpClear, events[2].Op)
	assert.Equal(t, 3, pub.count())
}

func TestRun_PollsOnlyWhenInputPending(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l, console, clip := newTestLoop(WithClock(clock))
	clip.text = "polled"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	assert.Equal(t, 2, console.clearCount(), "initial render and redraw")

	// Idle ticks re-arm the timer without rendering.
	for i := 0; i < 3; i++ {
		clock.Advance(DefaultInterval)
		require.NoError(t, clock.BlockUntilContext(ctx, 1))
	}
	assert.Equal(t, 2, console.clearCount())

	console.push("sa")
	clock.Advance(DefaultInterval)
	require.NoError(t, clock.BlockUntilContext(ctx, 1))

	assert.Equal(t, 4, console.clearCount())
	assert.Contains(t, console.visible(), "a [6 bytes]: polled")

	cancel()
	assert.NoError(t, <-done)
}

func TestRun_ExitTerminatesLoop(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l, console, _ := newTestLoop(WithClock(clock))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	console.push("x")
	clock.Advance(DefaultInterval)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("loop did not exit")
	}

	rendered := console.clearCount()
	clock.Advance(10 * DefaultInterval)
	assert.Equal(t, rendered, console.clearCount(), "no render after exit")
}

func TestRun_ExecutesSubmittedCommands(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l, console, clip := newTestLoop(WithClock(clock))
	clip.text = "queued"
	console.push("sq")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	require.Contains(t, console.visible(), "q [6 bytes]")

	require.True(t, l.Submit(CmdClear))
	clock.Advance(DefaultInterval)
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	assert.NotContains(t, console.visible(), "bytes]")

	require.True(t, l.Submit(CmdExit))
	clock.Advance(DefaultInterval)
	assert.NoError(t, <-done)
}

func TestRun_CancelWhileWaitingAtPrompt(t *testing.T) {
	clock := clockwork.NewFakeClock()
	l, console, _ := newTestLoop(WithClock(clock))
	console.push("l")

	wait, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	require.NoError(t, clock.BlockUntilContext(wait, 1))
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-wait.Done():
		t.Fatal("loop did not stop")
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	l, _, _ := newTestLoop()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, l.Run(ctx))
}
