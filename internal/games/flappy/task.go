package flappy

import "time"

// periodicTask is a simulated-time interval timer. The game advances it once
// per tick; it fires every time a full period has elapsed while running.
type periodicTask struct {
	period  time.Duration
	elapsed time.Duration
	running bool
}

// Start begins a fresh interval. The first firing happens one period later.
func (t *periodicTask) Start(period time.Duration) {
	t.period = period
	t.elapsed = 0
	t.running = true
}

// Stop cancels the task immediately; partially elapsed time is discarded.
func (t *periodicTask) Stop() {
	t.running = false
	t.elapsed = 0
}

// Running reports whether the task is active.
func (t *periodicTask) Running() bool {
	return t.running
}

// SetPeriod changes the interval for the following firings.
func (t *periodicTask) SetPeriod(period time.Duration) {
	t.period = period
}

// Advance moves simulated time forward and returns how many times the task fired.
func (t *periodicTask) Advance(dt time.Duration) int {
	if !t.running || t.period <= 0 {
		return 0
	}
	t.elapsed += dt
	fired := 0
	for t.elapsed >= t.period {
		t.elapsed -= t.period
		fired++
	}
	return fired
}
