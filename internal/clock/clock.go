package clock

import "time"

// Clock abstracts "now" so staleness thresholds and overdue checks can
// be tested against arbitrary times.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// System returns a clock backed by the wall clock, in UTC.
func System() Clock { return systemClock{} }

// Fixed returns a clock frozen at the given instant.
func Fixed(t time.Time) Clock { return fixedClock{t: t} }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }
