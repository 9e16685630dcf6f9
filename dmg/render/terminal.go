// Package render runs a machine in a terminal, two pixels per cell.
package render

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/valerio/go-dmg/dmg"
	"github.com/valerio/go-dmg/dmg/debug"
	"github.com/valerio/go-dmg/dmg/memory"
	"github.com/valerio/go-dmg/dmg/timing"
	"github.com/valerio/go-dmg/dmg/video"
)

// statusRow is the terminal row under the picture.
const statusRow = video.Height / 2

var keyButtons = map[tcell.Key]memory.Buttons{
	tcell.KeyRight:      memory.ButtonRight,
	tcell.KeyLeft:       memory.ButtonLeft,
	tcell.KeyUp:         memory.ButtonUp,
	tcell.KeyDown:       memory.ButtonDown,
	tcell.KeyEnter:      memory.ButtonStart,
	tcell.KeyBackspace:  memory.ButtonSelect,
	tcell.KeyBackspace2: memory.ButtonSelect,
}

var runeButtons = map[rune]memory.Buttons{
	'z': memory.ButtonA,
	'a': memory.ButtonA,
	'x': memory.ButtonB,
	's': memory.ButtonB,
}

var runeLayers = map[rune]video.Layers{
	'1': video.LayerBackground,
	'2': video.LayerWindow,
	'3': video.LayerSprites,
}

// Terminal draws frames with upper half blocks, the foreground color being
// the top pixel and the background the bottom one.
//
//	arrows, enter, backspace  d-pad, start, select
//	z/a, x/s                  A, B
//	1, 2, 3                   toggle background, window, sprites
//	p                         export VRAM to the export directory
//	F12                       save the current frame
//	q, esc, ctrl-c            quit
type Terminal struct {
	screen    tcell.Screen
	keys      *Keys
	frame     *video.FrameBuffer
	exportDir string

	events chan tcell.Event
	done   chan struct{}
	quit   bool
}

// NewTerminal prepares a host on screen. exportDir receives VRAM exports
// and frame snapshots.
func NewTerminal(screen tcell.Screen, exportDir string) *Terminal {
	return &Terminal{
		screen:    screen,
		keys:      NewKeys(),
		frame:     video.NewFrameBuffer(),
		exportDir: exportDir,
		events:    make(chan tcell.Event, 64),
		done:      make(chan struct{}),
	}
}

// Options connects a machine to this host's frame buffer and keys.
func (t *Terminal) Options() []dmg.Option {
	return []dmg.Option{dmg.WithSink(t.frame), dmg.WithInput(t.keys)}
}

// Run drives m one frame at a time until the user quits or the process
// is signaled.
func (t *Terminal) Run(m *dmg.Machine, limiter timing.Limiter) error {
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer func() {
		close(t.done)
		t.screen.Fini()
		slog.Info("Terminal closed")
	}()

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	go t.poll()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	limiter.Reset()
	for !t.quit {
		select {
		case <-signals:
			slog.Info("Received signal to stop")
			return nil
		default:
		}

		t.drain(m)
		m.RunFrame()
		t.keys.Tick()
		t.draw(m)
		t.screen.Show()
		limiter.Wait()
	}

	return nil
}

// poll forwards screen events to the frame loop until the screen is finalized.
func (t *Terminal) poll() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case t.events <- ev:
		case <-t.done:
			return
		}
	}
}

func (t *Terminal) drain(m *dmg.Machine) {
	for {
		select {
		case ev := <-t.events:
			t.handle(ev, m)
		default:
			return
		}
	}
}

func (t *Terminal) handle(ev tcell.Event, m *dmg.Machine) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		t.handleKey(ev, m)
	case *tcell.EventResize:
		t.screen.Sync()
	}
}

func (t *Terminal) handleKey(ev *tcell.EventKey, m *dmg.Machine) {
	if b, ok := keyButtons[ev.Key()]; ok {
		t.keys.Press(b)
		return
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		t.quit = true
	case tcell.KeyF12:
		t.snapshot(m)
	case tcell.KeyRune:
		r := unicode.ToLower(ev.Rune())
		if b, ok := runeButtons[r]; ok {
			t.keys.Press(b)
			return
		}
		if l, ok := runeLayers[r]; ok {
			m.SetLayers(m.Layers().Toggle(l))
			slog.Debug("Layers changed", "layers", m.Layers().String())
			return
		}
		switch r {
		case 'p':
			if err := debug.Export(m.Bus(), t.exportDir); err != nil {
				slog.Error("Failed to export VRAM", "error", err)
			}
		case 'q':
			t.quit = true
		}
	}
}

func (t *Terminal) snapshot(m *dmg.Machine) {
	name := fmt.Sprintf("snapshot_%06d", m.Frames())
	path, err := debug.SaveFrame(t.frame.Frame(), t.exportDir, name)
	if err != nil {
		slog.Error("Failed to save snapshot", "error", err)
		return
	}
	slog.Info("Snapshot saved", "path", path)
}

func (t *Terminal) draw(m *dmg.Machine) {
	frame := t.frame.Frame()
	for y := 0; y < video.Height; y += 2 {
		for x := 0; x < video.Width; x++ {
			style := tcell.StyleDefault.
				Foreground(cellColor(frame[y][x])).
				Background(cellColor(frame[y+1][x]))
			t.screen.SetContent(x, y/2, '▀', nil, style)
		}
	}

	status := fmt.Sprintf("frame %d  layers %s", m.Frames(), m.Layers())
	for x := 0; x < video.Width; x++ {
		r := ' '
		if x < len(status) {
			r = rune(status[x])
		}
		t.screen.SetContent(x, statusRow, r, nil, tcell.StyleDefault)
	}
}

func cellColor(c video.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
