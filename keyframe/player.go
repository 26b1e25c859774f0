package keyframe

import (
	"fmt"
	"time"
)

// Phase is the playback state of a Player.
type Phase int

const (
	// Idle waits for the first trigger.
	Idle Phase = iota
	// Running advances the clock every tick.
	Running
	// Held freezes on the final value until the next trigger.
	Held
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Held:
		return "held"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for _, q := range []Phase{Idle, Running, Held} {
		if q.String() == string(text) {
			*p = q
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// A Player drives a Timeline from ticks. Changing the trigger token restarts
// playback from zero. A Player is owned by one tick driver and is not safe
// for concurrent use.
type Player[A any, T comparable] struct {
	timeline *Timeline[A]
	repeat   bool

	elapsed time.Duration
	phase   Phase
	trigger T
	seen    bool
}

// An Option configures a Player.
type Option func(o *options)

type options struct {
	repeat bool
}

// Looping wraps playback around to the start instead of holding.
func Looping() Option {
	return func(o *options) {
		o.repeat = true
	}
}

// NewPlayer creates an Idle Player that starts on its first tick, whatever
// trigger token that tick carries.
func NewPlayer[A any, T comparable](timeline *Timeline[A], opts ...Option) *Player[A, T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	p := new(Player[A, T])
	p.timeline = timeline
	p.repeat = o.repeat
	p.phase = Idle
	return p
}

// NewTriggeredPlayer creates an Idle Player that has already seen initial and
// waits for a different token before it starts.
func NewTriggeredPlayer[A any, T comparable](timeline *Timeline[A], initial T, opts ...Option) *Player[A, T] {
	p := NewPlayer[A, T](timeline, opts...)
	p.trigger = initial
	p.seen = true
	return p
}

// Tick observes trigger, advances the clock by delta and returns the sampled
// aggregate. A new trigger token restarts playback and the returned sample
// is the timeline's initial state; delta is not applied on that tick.
func (p *Player[A, T]) Tick(delta time.Duration, trigger T) A {
	if !p.seen || trigger != p.trigger {
		p.trigger = trigger
		p.seen = true
		p.Restart()
		return p.Sample()
	}

	if p.phase == Running && delta > 0 {
		p.advance(delta)
	}
	return p.Sample()
}

// Restart moves to Running at elapsed zero.
func (p *Player[A, T]) Restart() {
	p.elapsed = 0
	p.phase = Running
	if p.timeline.Duration() == 0 && !p.repeat {
		p.phase = Held
	}
}

func (p *Player[A, T]) advance(delta time.Duration) {
	duration := p.timeline.Duration()
	p.elapsed += delta
	if p.elapsed < duration {
		return
	}

	if p.repeat && duration > 0 {
		p.elapsed %= duration
		return
	}
	p.elapsed = duration
	p.phase = Held
}

// Sample returns the aggregate at the current elapsed time without advancing.
func (p *Player[A, T]) Sample() A {
	return p.timeline.Sample(p.elapsed)
}

// Elapsed returns the playback clock.
func (p *Player[A, T]) Elapsed() time.Duration {
	return p.elapsed
}

// Phase returns the playback state.
func (p *Player[A, T]) Phase() Phase {
	return p.phase
}

// Timeline returns the timeline being played.
func (p *Player[A, T]) Timeline() *Timeline[A] {
	return p.timeline
}
