package retiming

import "time"

// Clock supplies host time in the same unit as Options.AllowableDrift.
type Clock interface {
	Now() float64
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() float64

func (f ClockFunc) Now() float64 {
	return f()
}

type systemClock struct {
	origin time.Time
}

// SystemClock returns a monotonic millisecond clock starting at zero.
func SystemClock() Clock {
	return systemClock{origin: time.Now()}
}

func (c systemClock) Now() float64 {
	return float64(time.Since(c.origin).Nanoseconds()) / float64(time.Millisecond)
}
