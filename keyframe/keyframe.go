// Package keyframe computes multi-track keyframe animations. Each track
// moves one property through linear, cubic, eased and spring segments; a
// Timeline samples all tracks at a time and a Player advances that time from
// frame ticks, restarting whenever its trigger token changes.
package keyframe

import (
	"fmt"
	"time"
)

// Kind selects how a keyframe interpolates towards its target.
type Kind int

const (
	// Linear blends at constant speed.
	Linear Kind = iota
	// Cubic blends along a smoothstep curve with zero speed at both ends.
	Cubic
	// SpringKind follows a damped spring towards the target.
	SpringKind
	// Move jumps to the target instantly.
	Move
	// Eased blends along an arbitrary Curve.
	Eased
)

func (k Kind) String() string {
	switch k {
	case Linear:
		return "linear"
	case Cubic:
		return "cubic"
	case SpringKind:
		return "spring"
	case Move:
		return "move"
	case Eased:
		return "eased"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// A Keyframe describes one segment of a track. Its start value is always the
// end of the previous segment, so only the target is given.
type Keyframe[V Vector[V]] struct {
	Kind     Kind
	Target   V
	Duration time.Duration
	// Settle derives the duration of a spring keyframe from the time the
	// spring takes to come to rest. Duration is ignored.
	Settle bool
	Spring Spring
	Curve  Curve
}

// LinearKeyframe creates a keyframe moving at constant speed.
func LinearKeyframe[V Vector[V]](target V, duration time.Duration) Keyframe[V] {
	return Keyframe[V]{Kind: Linear, Target: target, Duration: duration}
}

// CubicKeyframe creates a keyframe easing in and out of target.
func CubicKeyframe[V Vector[V]](target V, duration time.Duration) Keyframe[V] {
	return Keyframe[V]{Kind: Cubic, Target: target, Duration: duration}
}

// SpringKeyframe creates a spring keyframe cut off after duration, settled
// or not.
func SpringKeyframe[V Vector[V]](target V, duration time.Duration, spring Spring) Keyframe[V] {
	return Keyframe[V]{Kind: SpringKind, Target: target, Duration: duration, Spring: spring}
}

// SettleKeyframe creates a spring keyframe that lasts until the spring
// settles.
func SettleKeyframe[V Vector[V]](target V, spring Spring) Keyframe[V] {
	return Keyframe[V]{Kind: SpringKind, Target: target, Settle: true, Spring: spring}
}

// MoveKeyframe creates an instant jump. A move at the start of a track takes
// effect at time zero, so the track never shows its initial value and a
// restarted Player samples the move target rather than Initial.
func MoveKeyframe[V Vector[V]](target V) Keyframe[V] {
	return Keyframe[V]{Kind: Move, Target: target}
}

// EasedKeyframe creates a keyframe following curve, e.g. ease.OutBounce.
func EasedKeyframe[V Vector[V]](target V, duration time.Duration, curve Curve) Keyframe[V] {
	return Keyframe[V]{Kind: Eased, Target: target, Duration: duration, Curve: curve}
}

func (k Keyframe[V]) validate() error {
	switch k.Kind {
	case Linear, Cubic, Eased:
		if k.Duration <= 0 {
			return fmt.Errorf("%w: %s keyframe has %v", ErrDuration, k.Kind, k.Duration)
		}
		if k.Kind == Eased && k.Curve == nil {
			return fmt.Errorf("%w: eased keyframe has no curve", ErrKind)
		}
	case SpringKind:
		if !k.Settle && k.Duration <= 0 {
			return fmt.Errorf("%w: spring keyframe has %v", ErrDuration, k.Duration)
		}
		return k.Spring.Validate()
	case Move:
	default:
		return fmt.Errorf("%w: %d", ErrKind, int(k.Kind))
	}
	return nil
}

// segment is a keyframe resolved against its place in a track.
type segment[V Vector[V]] struct {
	Keyframe[V]
	start    time.Duration
	duration time.Duration
	from     V
	fromVel  V
	end      V
	endVel   V
}

func newSegment[V Vector[V]](k Keyframe[V], start time.Duration, from, fromVel V) segment[V] {
	s := segment[V]{Keyframe: k, start: start, from: from, fromVel: fromVel}
	switch {
	case k.Kind == Move:
		s.duration = 0
	case k.Kind == SpringKind && k.Settle:
		s.duration = settleDuration(k.Spring, from, k.Target, fromVel)
	default:
		s.duration = k.Duration
	}
	s.end, s.endVel = s.evaluate(s.duration)
	return s
}

// evaluate returns value and velocity (per second) at local time, which is
// clamped to the segment.
func (s *segment[V]) evaluate(local time.Duration) (V, V) {
	if local < 0 {
		local = 0
	}
	if local > s.duration {
		local = s.duration
	}
	d := s.duration.Seconds()
	p := progress(local.Seconds(), d)
	delta := sub(s.Target, s.from)
	still := zero(s.from)

	switch s.Kind {
	case Move:
		return s.Target, still
	case Linear:
		return lerp(s.from, s.Target, p), delta.Scale(1 / d)
	case Cubic:
		return lerp(s.from, s.Target, Smoothstep(p)), delta.Scale(smoothstepSlope(p) / d)
	case Eased:
		return lerp(s.from, s.Target, s.Curve(p)), delta.Scale(slope(s.Curve, p) / d)
	case SpringKind:
		return evaluateSpring(s.Spring, s.from, s.Target, s.fromVel, local.Seconds())
	}
	return s.from, still
}
