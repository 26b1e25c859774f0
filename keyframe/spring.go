package keyframe

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

const (
	// SettleTolerance bounds both displacement from the target and speed
	// for a spring to count as settled.
	SettleTolerance = 0.001
	// SettleRate is the stepping resolution of the settle search.
	SettleRate = 120
	// SettleCap is the longest auto duration a spring can have.
	SettleCap = 10 * time.Second
)

// Spring holds the parameters of a damped harmonic oscillator
// m·x'' + c·x' + k·(x - target) = 0.
type Spring struct {
	Stiffness float64 `yaml:"stiffness"`
	Damping   float64 `yaml:"damping"`
	Mass      float64 `yaml:"mass"`
}

// SpringFromDuration creates a unit mass Spring from a perceptual duration in
// seconds and a bounce in [-1,1]. A bounce of 0 is critically damped.
func SpringFromDuration(duration, bounce float64) Spring {
	if duration <= 0 {
		duration = 0.5
	}
	return Spring{
		Stiffness: math.Pow(2*math.Pi/duration, 2),
		Damping:   4 * math.Pi * (1 - bounce) / duration,
		Mass:      1,
	}
}

var (
	// Smooth settles without overshoot.
	Smooth = SpringFromDuration(0.5, 0)
	// Snappy overshoots slightly.
	Snappy = SpringFromDuration(0.5, 0.15)
	// Bouncy overshoots noticeably.
	Bouncy = SpringFromDuration(0.5, 0.3)
)

// Validate reports whether the spring decays towards its target.
func (s Spring) Validate() error {
	if !(s.Mass > 0) || math.IsInf(s.Mass, 0) {
		return fmt.Errorf("%w: mass %v", ErrSpringMass, s.Mass)
	}
	if !(s.Stiffness > 0) || math.IsInf(s.Stiffness, 0) {
		return fmt.Errorf("%w: stiffness %v", ErrSpringStiffness, s.Stiffness)
	}
	if s.Damping < 0 || math.IsNaN(s.Damping) || math.IsInf(s.Damping, 0) {
		return fmt.Errorf("%w: damping %v", ErrUnstableSpring, s.Damping)
	}
	return nil
}

func (s Spring) angularFrequency() float64 {
	return math.Sqrt(s.Stiffness / s.Mass)
}

func (s Spring) dampingRatio() float64 {
	z := s.Damping / (2 * math.Sqrt(s.Stiffness*s.Mass))
	// Rounding can push a critically damped spring just over or under 1,
	// where the over- and under-damped solutions lose precision.
	if math.Abs(z-1) < 1e-9 {
		return 1
	}
	return z
}

func (s Spring) stepper(seconds float64) harmonica.Spring {
	return harmonica.NewSpring(seconds, s.angularFrequency(), s.dampingRatio())
}

// response holds the motion of a unit displacement (p) and of a unit
// initial velocity (v) after some elapsed time. The oscillator is linear, so
// any start state is a combination of the two.
type response struct {
	p, dp float64
	v, dv float64
}

func (r response) advance(h harmonica.Spring) response {
	p, dp := h.Update(r.p, r.dp, 0)
	v, dv := h.Update(r.v, r.dv, 0)
	return response{p: p, dp: dp, v: v, dv: dv}
}

func (s Spring) responseAt(seconds float64) response {
	return response{p: 1, v: 0, dp: 0, dv: 1}.advance(s.stepper(seconds))
}

// state combines a response with a start displacement and velocity into an
// absolute position and velocity.
func state[V Vector[V]](r response, target, displacement, velocity V) (V, V) {
	pos := target.Add(displacement.Scale(r.p)).Add(velocity.Scale(r.v))
	vel := displacement.Scale(r.dp).Add(velocity.Scale(r.dv))
	return pos, vel
}

// evaluateSpring returns position and velocity of a spring released at from
// with velocity v0, seconds after release.
func evaluateSpring[V Vector[V]](s Spring, from, target, v0 V, seconds float64) (V, V) {
	if seconds <= 0 {
		return from, v0
	}
	return state(s.responseAt(seconds), target, sub(from, target), v0)
}

// settleDuration steps the spring at SettleRate until displacement and
// velocity are both within SettleTolerance, or SettleCap is reached.
func settleDuration[V Vector[V]](s Spring, from, target, v0 V) time.Duration {
	displacement := sub(from, target)
	if displacement.Norm() < SettleTolerance && v0.Norm() < SettleTolerance {
		return 0
	}

	step := time.Second / SettleRate
	h := s.stepper(step.Seconds())
	r := response{p: 1, dv: 1}
	maxSteps := int(SettleCap / step)
	for i := 1; i <= maxSteps; i++ {
		r = r.advance(h)
		pos, vel := state(r, target, displacement, v0)
		if sub(pos, target).Norm() < SettleTolerance && vel.Norm() < SettleTolerance {
			return time.Duration(i) * step
		}
	}
	return SettleCap
}
