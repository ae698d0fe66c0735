package c64

import (
	"time"

	"golang.org/x/sys/unix"
)

// PAL clock rate, cycles per second, used to convert a cycle budget into
// a wall-clock pacing interval.
const palCyclesPerSecond = 985248

// PacingMode selects how the Scheduler throttles CPU execution against
// wall-clock time.
type PacingMode int

const (
	// PacingPAL throttles execution to real PAL speed.
	PacingPAL PacingMode = iota
	// PacingWarp runs as fast as the host allows.
	PacingWarp
)

// Scheduler drives a Machine instruction by instruction, optionally
// pacing execution to match real PAL hardware speed.
type Scheduler struct {
	Machine *Machine
	Pacing  PacingMode

	cyclesSinceBreath uint64
	lastBreath        time.Time
}

// NewScheduler returns a Scheduler bound to m, paced at real PAL speed by
// default.
func NewScheduler(m *Machine) *Scheduler {
	return &Scheduler{Machine: m, Pacing: PacingPAL, lastBreath: time.Now()}
}

// Run executes instructions until stop returns true, pacing itself to
// real PAL speed unless Pacing is PacingWarp.
func (s *Scheduler) Run(stop func() bool) {
	for !stop() {
		s.RunOne()
	}
}

// RunOne executes a single instruction, applying pacing if enabled.
func (s *Scheduler) RunOne() uint8 {
	cycles := s.Machine.Step()
	if s.Pacing == PacingWarp {
		return cycles
	}

	s.cyclesSinceBreath += uint64(cycles)
	const breathCycles = 1000
	if s.cyclesSinceBreath < breathCycles {
		return cycles
	}

	wantElapsed := time.Duration(s.cyclesSinceBreath) * time.Second / palCyclesPerSecond
	actualElapsed := time.Since(s.lastBreath)
	if actualElapsed < wantElapsed {
		sleepPrecise(wantElapsed - actualElapsed)
	}
	s.cyclesSinceBreath = 0
	s.lastBreath = time.Now()
	return cycles
}

// sleepPrecise sleeps for d using a nanosecond-resolution syscall rather
// than relying solely on the Go runtime's timer granularity, which is
// what real PAL pacing at a ~1MHz cycle rate needs to stay accurate.
func sleepPrecise(d time.Duration) {
	if d <= 0 {
		return
	}
	spec := unix.NsecToTimespec(d.Nanoseconds())
	_ = unix.Nanosleep(&spec, nil)
}
