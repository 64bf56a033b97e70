package profiler

import (
	"time"

	"github.com/Carmen-Shannon/oxy-probe/engine/log"
)

var logger = log.New("profiler")

// Profiler tracks frame rate and probe culling statistics.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount      int
	registeredTotal int
	visibleTotal    int
	lastTime        time.Time
	updateInterval  time.Duration
	now             func() time.Time
}

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often statistics are logged.
//
// Parameters:
//   - interval: the logging interval (values <= 0 keep the default of one second)
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithInterval(interval time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithClock replaces the time source, for deterministic intervals.
//
// Parameters:
//   - now: the clock
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.now = now
	}
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per culled frame.
// Logs performance statistics when the update interval has elapsed: frame rate and
// the average registered and visible probe counts over the interval.
//
// Parameters:
//   - registered: the number of probes registered this frame
//   - visible: the number of probes that passed culling this frame
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(registered, visible int) bool {
	p.frameCount++
	p.registeredTotal += registered
	p.visibleTotal += visible

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()
	avgRegistered := float64(p.registeredTotal) / float64(p.frameCount)
	avgVisible := float64(p.visibleTotal) / float64(p.frameCount)
	ratio := 0.0
	if p.registeredTotal > 0 {
		ratio = 100 * float64(p.visibleTotal) / float64(p.registeredTotal)
	}

	logger.Infof("[Profiler] FPS: %.2f | Probes: %.1f registered | %.1f visible (%.1f%%)",
		fps, avgRegistered, avgVisible, ratio)

	p.frameCount = 0
	p.registeredTotal = 0
	p.visibleTotal = 0
	p.lastTime = currentTime
	return true
}
