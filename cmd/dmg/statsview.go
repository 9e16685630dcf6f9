package main

import (
	"log/slog"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

const statsAddress = "localhost:12600"

// launchStatsView serves live runtime charts (heap, GC, goroutines) while the
// emulator runs, and returns the function that shuts the server down.
func launchStatsView() func() {
	viewer.SetConfiguration(viewer.WithAddr(statsAddress))
	mgr := statsview.New()
	go func() {
		if err := mgr.Start(); err != nil {
			slog.Debug("Stats server stopped", "error", err)
		}
	}()

	slog.Info("Stats server available", "url", "http://"+statsAddress+"/debug/statsview")
	return mgr.Stop
}
