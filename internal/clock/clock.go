// Package clock provides the injectable time source used throughout
// the simulation so tests can drive deterministic ticks instead of
// depending on wall-clock time (§4.1, §9).
package clock

import "time"

// Clock reports the current simulation time in fractional seconds,
// matching the original engine's float "protocol.time" convention.
type Clock interface {
	Now() float64
}

// Real is a Clock backed by the OS monotonic clock.
type Real struct {
	start time.Time
}

// NewReal returns a Real clock whose Now() starts near zero.
func NewReal() *Real {
	return &Real{start: time.Now()}
}

// Now returns elapsed seconds since the clock was created.
func (r *Real) Now() float64 {
	return time.Since(r.start).Seconds()
}

// Fake is a manually-advanced Clock for deterministic tests.
type Fake struct {
	t float64
}

// NewFake returns a Fake clock starting at t=0.
func NewFake() *Fake { return &Fake{} }

// Now returns the current fake time.
func (f *Fake) Now() float64 { return f.t }

// Advance moves the fake clock forward by dt seconds.
func (f *Fake) Advance(dt float64) { f.t += dt }

// Set pins the fake clock to an absolute time, for tests that need to
// assert behavior at a specific instant.
func (f *Fake) Set(t float64) { f.t = t }
