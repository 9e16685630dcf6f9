// Package timing paces an interactive host to the DMG frame rate.
package timing

import (
	"log/slog"
	"time"

	"github.com/valerio/go-dmg/dmg/video"
)

// ClockHz is the DMG master clock.
const ClockHz = 4194304

// Limiter blocks a host loop between frames.
type Limiter interface {
	// Wait returns when the next frame is due, immediately if the host is behind.
	Wait()
	// Reset forgets the schedule, after a pause for instance.
	Reset()
}

// FPS is the DMG refresh rate, about 59.73 frames per second.
func FPS() float64 {
	return float64(ClockHz) / float64(video.FrameCycles)
}

// FrameDuration is the wall time one frame should take.
func FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / FPS())
}

// NoOp never waits. Headless runs use it.
type NoOp struct{}

func (NoOp) Wait()  {}
func (NoOp) Reset() {}

const (
	// spinWindow is how close to the deadline the pacer stops sleeping and spins.
	spinWindow = 2 * time.Millisecond
	// maxLag is how far behind the pacer may fall before it drops the schedule.
	maxLag = 5 * time.Millisecond
	// reportEvery frames the pacer logs the rate it achieved.
	reportEvery = 600
)

// Pacer sleeps until each frame deadline, spinning over the last stretch
// to absorb scheduler jitter. Deadlines advance by a fixed period, so short
// overruns are made up on later frames.
type Pacer struct {
	period   time.Duration
	deadline time.Time
	frames   int64
	started  time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

func NewPacer() *Pacer {
	return newPacer(FrameDuration(), time.Now, time.Sleep)
}

func newPacer(period time.Duration, now func() time.Time, sleep func(time.Duration)) *Pacer {
	p := &Pacer{period: period, now: now, sleep: sleep}
	p.Reset()
	return p
}

func (p *Pacer) Wait() {
	p.deadline = p.deadline.Add(p.period)
	p.frames++

	remaining := p.deadline.Sub(p.now())
	switch {
	case remaining < -maxLag:
		p.deadline = p.now()
	case remaining > spinWindow:
		p.sleep(remaining - spinWindow)
		fallthrough
	case remaining > 0:
		for p.now().Before(p.deadline) {
		}
	}

	if p.frames%reportEvery == 0 {
		elapsed := p.now().Sub(p.started)
		slog.Debug("Frame pacing",
			"frames", p.frames,
			"fps", float64(p.frames)/elapsed.Seconds())
	}
}

func (p *Pacer) Reset() {
	p.deadline = p.now()
	p.started = p.deadline
	p.frames = 0
}
