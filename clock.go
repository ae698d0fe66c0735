package c64

import "time"

// Clock abstracts the host wall-clock reads the CIA TOD registers depend
// on, so test harnesses can inject a deterministic fake instead of the
// real system clock.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock, backed by time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock is a Clock that always returns the same instant, useful for
// the Dormann/Lorenz test harnesses where TOD must not drift between runs.
type FixedClock struct{ At time.Time }

func (f FixedClock) Now() time.Time { return f.At }
