package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/urfave/cli"

	"github.com/valerio/go-dmg/dmg"
	"github.com/valerio/go-dmg/dmg/cartridge"
	"github.com/valerio/go-dmg/dmg/debug"
	"github.com/valerio/go-dmg/dmg/render"
	"github.com/valerio/go-dmg/dmg/timing"
	"github.com/valerio/go-dmg/dmg/video"
)

func main() {
	app := cli.NewApp()
	app.Name = "dmg"
	app.Description = "A DMG Game Boy emulator"
	app.Usage = "dmg [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file (.gb, .zip or .7z)",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without a terminal display",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save a BMP of every Nth frame in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory for frame snapshots (default: temp directory)",
		},
		cli.BoolFlag{
			Name:  "sprite-limit",
			Usage: "Draw at most 10 sprites per line with hardware overlap priority",
		},
		cli.IntFlag{
			Name:  "trace",
			Usage: "Keep the last N instructions and log them on exit (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "export-dir",
			Usage: "Directory for VRAM exports, written on exit in headless mode and with 'p' in the terminal",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Log at debug level",
		},
		cli.BoolFlag{
			Name:  "statsview",
			Usage: "Serve runtime statistics charts on " + statsAddress,
		},
	}
	app.Action = runEmulator

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	level := slog.LevelInfo
	if c.Bool("debug") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() == 0 {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
		romPath = c.Args().Get(0)
	}

	cart, err := cartridge.LoadFile(romPath)
	if err != nil {
		return err
	}

	if c.Bool("statsview") {
		defer launchStatsView()()
	}

	opts := []dmg.Option{dmg.WithSpriteLimit(c.Bool("sprite-limit"))}

	if c.Bool("headless") {
		fb := video.NewFrameBuffer()
		m := dmg.New(cart, append(opts, dmg.WithSink(fb))...)
		defer m.Close()
		defer attachTracer(m, c.Int("trace"))()

		return runHeadless(m, fb, headless{
			frames:           c.Int("frames"),
			snapshotInterval: c.Int("snapshot-interval"),
			snapshotDir:      c.String("snapshot-dir"),
			exportDir:        c.String("export-dir"),
			name:             romName(romPath),
		})
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}

	exportDir := c.String("export-dir")
	if exportDir == "" {
		exportDir = "."
	}
	term := render.NewTerminal(screen, exportDir)

	m := dmg.New(cart, append(opts, term.Options()...)...)
	defer m.Close()
	defer attachTracer(m, c.Int("trace"))()

	return term.Run(m, timing.NewPacer())
}

// attachTracer installs an instruction trace of size entries and returns
// the function that dumps it.
func attachTracer(m *dmg.Machine, size int) func() {
	if size <= 0 {
		return func() {}
	}

	tracer := debug.NewTracer(m.Bus(), size)
	m.SetDiagnostics(tracer)
	return tracer.Dump
}

func romName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
