package keyframe

import (
	"fmt"
	"time"
)

// A Property names one field of an aggregate value A and gives typed access
// to it.
type Property[A any, V Vector[V]] struct {
	Name string
	Get  func(A) V
	Set  func(*A, V)
}

// A TrackSpec is a track waiting for the timeline's initial value.
type TrackSpec[A any] interface {
	property() string
	build(initial A) (binding[A], error)
}

type binding[A any] interface {
	name() string
	duration() time.Duration
	apply(a *A, t time.Duration)
	value(t time.Duration) any
}

type spec[A any, V Vector[V]] struct {
	prop      Property[A, V]
	keyframes []Keyframe[V]
}

// Bind creates a track for prop from keyframes.
func Bind[A any, V Vector[V]](prop Property[A, V], keyframes ...Keyframe[V]) TrackSpec[A] {
	return spec[A, V]{prop: prop, keyframes: keyframes}
}

func (s spec[A, V]) property() string {
	return s.prop.Name
}

func (s spec[A, V]) build(initial A) (binding[A], error) {
	if s.prop.Get == nil || s.prop.Set == nil {
		return nil, ErrNilAccessor
	}
	track, err := NewTrack(s.prop.Get(initial), s.keyframes...)
	if err != nil {
		return nil, err
	}
	return &bound[A, V]{prop: s.prop, track: track}, nil
}

type bound[A any, V Vector[V]] struct {
	prop  Property[A, V]
	track *Track[V]
}

func (b *bound[A, V]) name() string                { return b.prop.Name }
func (b *bound[A, V]) duration() time.Duration     { return b.track.Duration() }
func (b *bound[A, V]) value(t time.Duration) any   { return b.track.ValueAt(t) }
func (b *bound[A, V]) apply(a *A, t time.Duration) { b.prop.Set(a, b.track.ValueAt(t)) }

// A Timeline plays independent tracks against one clock. Each track drives
// one property of an aggregate value; properties without a track keep their
// initial value.
type Timeline[A any] struct {
	initial  A
	tracks   []binding[A]
	duration time.Duration
}

// NewTimeline creates a Timeline. Every track is validated; an error means
// nothing was built.
func NewTimeline[A any](initial A, specs ...TrackSpec[A]) (*Timeline[A], error) {
	if len(specs) == 0 {
		return nil, ErrNoTracks
	}

	tl := new(Timeline[A])
	tl.initial = initial
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		name := s.property()
		if seen[name] {
			return nil, fmt.Errorf("track %q: %w", name, ErrDuplicateProperty)
		}
		seen[name] = true

		b, err := s.build(initial)
		if err != nil {
			return nil, fmt.Errorf("track %q: %w", name, err)
		}
		tl.tracks = append(tl.tracks, b)
		if d := b.duration(); d > tl.duration {
			tl.duration = d
		}
	}

	return tl, nil
}

// Duration is the longest track duration.
func (tl *Timeline[A]) Duration() time.Duration {
	return tl.duration
}

// Initial returns the aggregate the timeline starts from.
func (tl *Timeline[A]) Initial() A {
	return tl.initial
}

// Properties lists the animated property names in track order.
func (tl *Timeline[A]) Properties() []string {
	names := make([]string, len(tl.tracks))
	for i, b := range tl.tracks {
		names[i] = b.name()
	}
	return names
}

// TrackDuration returns the duration of the named track.
func (tl *Timeline[A]) TrackDuration(name string) (time.Duration, bool) {
	for _, b := range tl.tracks {
		if b.name() == name {
			return b.duration(), true
		}
	}
	return 0, false
}

// Sample returns the aggregate at time t. Shorter tracks hold their final
// value once done.
func (tl *Timeline[A]) Sample(t time.Duration) A {
	a := tl.initial
	for _, b := range tl.tracks {
		b.apply(&a, clampTime(t, b.duration()))
	}
	return a
}

// Values returns the animated properties at time t keyed by name.
func (tl *Timeline[A]) Values(t time.Duration) map[string]any {
	m := make(map[string]any, len(tl.tracks))
	for _, b := range tl.tracks {
		m[b.name()] = b.value(clampTime(t, b.duration()))
	}
	return m
}

func clampTime(t, max time.Duration) time.Duration {
	if t < 0 {
		return 0
	}
	if t > max {
		return max
	}
	return t
}
