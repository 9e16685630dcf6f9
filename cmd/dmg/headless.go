package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/valerio/go-dmg/dmg"
	"github.com/valerio/go-dmg/dmg/debug"
	"github.com/valerio/go-dmg/dmg/video"
)

type headless struct {
	frames           int
	snapshotInterval int
	snapshotDir      string
	exportDir        string
	name             string
}

// progressEvery frames headless mode logs how far it got.
const progressEvery = 60

func runHeadless(m *dmg.Machine, fb *video.FrameBuffer, h headless) error {
	if h.frames <= 0 {
		return errors.New("headless mode requires --frames option with a positive value")
	}

	if h.snapshotInterval > 0 {
		if h.snapshotDir == "" {
			dir, err := os.MkdirTemp("", "dmg-snapshots-*")
			if err != nil {
				return fmt.Errorf("creating snapshot directory: %w", err)
			}
			h.snapshotDir = dir
		} else if err := os.MkdirAll(h.snapshotDir, 0o755); err != nil {
			return fmt.Errorf("creating snapshot directory: %w", err)
		}
	}

	slog.Info("Running headless mode",
		"frames", h.frames,
		"snapshot_interval", h.snapshotInterval,
		"snapshot_dir", h.snapshotDir)

	for i := 1; i <= h.frames; i++ {
		m.RunFrame()
		if m.CPU().Stopped() {
			// nothing can press a button here
			slog.Warn("CPU stopped without an input source", "frame", i)
			break
		}

		if h.snapshotInterval > 0 && i%h.snapshotInterval == 0 {
			name := fmt.Sprintf("%s_frame_%06d", h.name, i)
			path, err := debug.SaveFrame(fb.Frame(), h.snapshotDir, name)
			if err != nil {
				slog.Error("Failed to save snapshot", "frame", i, "error", err)
			} else {
				slog.Info("Saved frame snapshot", "frame", i, "path", path, "hash", hashString(fb))
			}
		}

		if i%progressEvery == 0 {
			slog.Debug("Frame progress", "completed", i, "total", h.frames)
		}
	}

	slog.Info("Headless execution completed", "frames", m.Frames(), "hash", hashString(fb))

	if h.exportDir != "" {
		if err := debug.Export(m.Bus(), h.exportDir); err != nil {
			return fmt.Errorf("exporting VRAM: %w", err)
		}
	}

	return nil
}

func hashString(fb *video.FrameBuffer) string {
	return fmt.Sprintf("%016x", debug.FrameHash(fb.Frame()))
}
