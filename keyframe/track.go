package keyframe

import (
	"fmt"
	"sort"
	"time"
)

// A Track animates one value through an ordered list of keyframes.
type Track[V Vector[V]] struct {
	initial  V
	segments []segment[V]
	duration time.Duration
}

// NewTrack creates a Track starting at initial. Spring auto durations are
// resolved here, once.
func NewTrack[V Vector[V]](initial V, keyframes ...Keyframe[V]) (*Track[V], error) {
	if len(keyframes) == 0 {
		return nil, ErrNoKeyframes
	}

	t := new(Track[V])
	t.initial = initial
	t.segments = make([]segment[V], 0, len(keyframes))

	from, vel := initial, zero(initial)
	var start time.Duration
	for i, k := range keyframes {
		if err := k.validate(); err != nil {
			return nil, fmt.Errorf("keyframe %d: %w", i, err)
		}
		s := newSegment(k, start, from, vel)
		t.segments = append(t.segments, s)
		start += s.duration
		from, vel = s.end, s.endVel
	}
	t.duration = start

	return t, nil
}

// Duration is the sum of the segment durations.
func (t *Track[V]) Duration() time.Duration {
	return t.duration
}

// Len returns the number of segments.
func (t *Track[V]) Len() int {
	return len(t.segments)
}

// Initial returns the value the track starts from.
func (t *Track[V]) Initial() V {
	return t.initial
}

// Final returns the value the track holds once complete.
func (t *Track[V]) Final() V {
	return t.segments[len(t.segments)-1].end
}

// ValueAt returns the value at local time. Times before zero read as zero
// and times past the end hold the final value.
func (t *Track[V]) ValueAt(local time.Duration) V {
	v, _ := t.evaluate(local)
	return v
}

// VelocityAt returns the rate of change per second at local time. A
// completed track is at rest.
func (t *Track[V]) VelocityAt(local time.Duration) V {
	_, v := t.evaluate(local)
	return v
}

// Boundaries returns the start offset of every segment.
func (t *Track[V]) Boundaries() []time.Duration {
	b := make([]time.Duration, len(t.segments))
	for i, s := range t.segments {
		b[i] = s.start
	}
	return b
}

func (t *Track[V]) evaluate(local time.Duration) (V, V) {
	if local < 0 {
		local = 0
	}
	if local >= t.duration {
		return t.Final(), zero(t.initial)
	}

	// First segment still running at local. Zero length segments end where
	// they start and are skipped.
	i := sort.Search(len(t.segments), func(i int) bool {
		s := &t.segments[i]
		return s.start+s.duration > local
	})
	s := &t.segments[i]
	return s.evaluate(local - s.start)
}
