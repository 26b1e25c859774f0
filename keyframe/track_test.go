package keyframe

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/fogleman/ease"
)

const ms = time.Millisecond

func TestNewTrackValidation(t *testing.T) {
	tests := []struct {
		name      string
		keyframes []Keyframe[Scalar]
		err       error
	}{
		{"empty", nil, ErrNoKeyframes},
		{"zero linear", []Keyframe[Scalar]{LinearKeyframe(Scalar(1), 0)}, ErrDuration},
		{"negative cubic", []Keyframe[Scalar]{CubicKeyframe(Scalar(1), -ms)}, ErrDuration},
		{"zero spring", []Keyframe[Scalar]{SpringKeyframe(Scalar(1), 0, Bouncy)}, ErrDuration},
		{"massless spring", []Keyframe[Scalar]{SettleKeyframe(Scalar(1), Spring{Stiffness: 1})}, ErrSpringMass},
		{"unstable spring", []Keyframe[Scalar]{SettleKeyframe(Scalar(1), Spring{Stiffness: 1, Mass: 1, Damping: -3})}, ErrUnstableSpring},
		{"curveless", []Keyframe[Scalar]{{Kind: Eased, Target: 1, Duration: ms}}, ErrKind},
		{"unknown kind", []Keyframe[Scalar]{{Kind: Kind(42), Target: 1, Duration: ms}}, ErrKind},
	}

	for _, tc := range tests {
		track, err := NewTrack(Scalar(0), tc.keyframes...)
		if !errors.Is(err, tc.err) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.err, err)
		}
		if track != nil {
			t.Errorf("%s: expected no track on error", tc.name)
		}
	}
}

func mixedTrack(t *testing.T) *Track[Scalar] {
	t.Helper()
	track, err := NewTrack(Scalar(0),
		LinearKeyframe(Scalar(10), 100*ms),
		CubicKeyframe(Scalar(-5), 200*ms),
		SpringKeyframe(Scalar(30), 300*ms, Bouncy),
		SettleKeyframe(Scalar(0), Snappy),
		EasedKeyframe(Scalar(4), 100*ms, ease.OutQuad),
		LinearKeyframe(Scalar(1), 50*ms),
		SpringKeyframe(Scalar(-8), 250*ms, Smooth),
		CubicKeyframe(Scalar(2), 80*ms),
	)
	if err != nil {
		t.Fatalf("NewTrack failed: %v", err)
	}
	return track
}

func TestTrackContinuity(t *testing.T) {
	track := mixedTrack(t)

	for i := 0; i < len(track.segments)-1; i++ {
		cur, next := &track.segments[i], &track.segments[i+1]
		end, _ := cur.evaluate(cur.duration)
		start, _ := next.evaluate(0)
		if math.Abs(float64(end-start)) > 1e-9 {
			t.Errorf("Segment %d ends at %f but segment %d starts at %f", i, end, i+1, start)
		}
		if next.start != cur.start+cur.duration {
			t.Errorf("Segment %d starts at %v, expected %v", i+1, next.start, cur.start+cur.duration)
		}
	}

	// Sampling across each boundary must not jump.
	for i, b := range track.Boundaries()[1:] {
		before := track.ValueAt(b - time.Microsecond)
		after := track.ValueAt(b)
		if math.Abs(float64(before-after)) > 1e-2 {
			t.Errorf("Boundary %d at %v jumps from %f to %f", i+1, b, before, after)
		}
	}
}

func TestTrackSpringInheritsVelocity(t *testing.T) {
	track, err := NewTrack(Scalar(0),
		LinearKeyframe(Scalar(20), 150*ms),
		SpringKeyframe(Scalar(20), 500*ms, Bouncy),
	)
	if err != nil {
		t.Fatalf("NewTrack failed: %v", err)
	}

	// The spring starts at its target but still moving, so it overshoots.
	v := track.VelocityAt(150 * ms)
	if math.Abs(float64(v)-20/0.15) > 1e-6 {
		t.Errorf("Expected carried velocity %f, got %f", 20/0.15, v)
	}
	if track.ValueAt(200*ms) <= 20 {
		t.Errorf("Expected overshoot past 20, got %f", track.ValueAt(200*ms))
	}
}

func TestTrackDuration(t *testing.T) {
	track, err := NewTrack(Scalar(1),
		LinearKeyframe(Scalar(2), 100*ms),
		CubicKeyframe(Scalar(3), 250*ms),
		MoveKeyframe(Scalar(9)),
	)
	if err != nil {
		t.Fatalf("NewTrack failed: %v", err)
	}
	if track.Duration() != 350*ms {
		t.Errorf("Expected duration 350ms, got %v", track.Duration())
	}
	if track.Len() != 3 {
		t.Errorf("Expected 3 segments, got %d", track.Len())
	}
	if track.Final() != 9 {
		t.Errorf("Expected final value 9, got %f", track.Final())
	}
}

func TestTrackClamp(t *testing.T) {
	track := mixedTrack(t)
	d := track.Duration()

	if track.ValueAt(-5*time.Second) != track.ValueAt(0) {
		t.Errorf("Negative time should read as zero")
	}
	if track.ValueAt(d+100*time.Second) != track.ValueAt(d) {
		t.Errorf("Time past the end should hold the final value")
	}
	if track.ValueAt(0) != 0 {
		t.Errorf("Expected initial value 0, got %f", track.ValueAt(0))
	}
	if track.VelocityAt(d+time.Second) != 0 {
		t.Errorf("Expected a finished track at rest")
	}
}

func TestTrackZeroDuration(t *testing.T) {
	settled, err := NewTrack(Scalar(4), SettleKeyframe(Scalar(4), Bouncy))
	if err != nil {
		t.Fatalf("NewTrack failed: %v", err)
	}
	if settled.Duration() != 0 {
		t.Errorf("Expected zero duration, got %v", settled.Duration())
	}
	for _, at := range []time.Duration{-ms, 0, ms} {
		v := settled.ValueAt(at)
		if math.IsNaN(float64(v)) || v != 4 {
			t.Errorf("At %v expected 4, got %f", at, v)
		}
	}

	jump, err := NewTrack(Scalar(0),
		LinearKeyframe(Scalar(1), time.Second),
		MoveKeyframe(Scalar(5)),
		LinearKeyframe(Scalar(0), time.Second),
	)
	if err != nil {
		t.Fatalf("NewTrack failed: %v", err)
	}
	if v := jump.ValueAt(999 * ms); math.Abs(float64(v)-0.999) > 1e-9 {
		t.Errorf("Expected 0.999 before the jump, got %f", v)
	}
	if v := jump.ValueAt(time.Second); v != 5 {
		t.Errorf("Expected 5 right after the jump, got %f", v)
	}
	if v := jump.ValueAt(1500 * ms); math.Abs(float64(v)-2.5) > 1e-9 {
		t.Errorf("Expected 2.5 halfway back, got %f", v)
	}
}

func TestTrackRejectsInfiniteSpring(t *testing.T) {
	_, err := NewTrack(Scalar(0), SpringKeyframe(Scalar(1), time.Second, Spring{Stiffness: math.Inf(1), Damping: 1, Mass: 1}))
	if !errors.Is(err, ErrSpringStiffness) {
		t.Errorf("Expected %v, got %v", ErrSpringStiffness, err)
	}
}

func TestTrackLeadingMove(t *testing.T) {
	track, err := NewTrack(Scalar(0),
		MoveKeyframe(Scalar(5)),
		LinearKeyframe(Scalar(10), time.Second),
	)
	if err != nil {
		t.Fatalf("NewTrack failed: %v", err)
	}
	if track.Initial() != 0 {
		t.Errorf("Expected initial 0, got %f", track.Initial())
	}
	if v := track.ValueAt(0); v != 5 {
		t.Errorf("Expected the move target at 0, got %f", v)
	}
	if v := track.ValueAt(-ms); v != 5 {
		t.Errorf("Expected the move target before 0, got %f", v)
	}
}

func TestTrackLinearMonotonic(t *testing.T) {
	track, err := NewTrack(Scalar(0), LinearKeyframe(Scalar(20), time.Second))
	if err != nil {
		t.Fatalf("NewTrack failed: %v", err)
	}

	prev := track.ValueAt(0)
	for at := 10 * ms; at <= time.Second; at += 10 * ms {
		v := track.ValueAt(at)
		if v < prev || v > 20 {
			t.Errorf("Linear value %f at %v is not monotonic within [0,20]", v, at)
		}
		prev = v
	}
	if v := track.ValueAt(250 * ms); math.Abs(float64(v)-5) > 1e-9 {
		t.Errorf("Expected 5 at a quarter, got %f", v)
	}
}

func TestTrackCubicEased(t *testing.T) {
	track, err := NewTrack(Scalar(10), CubicKeyframe(Scalar(-10), time.Second))
	if err != nil {
		t.Fatalf("NewTrack failed: %v", err)
	}

	prev := track.ValueAt(0)
	for at := 10 * ms; at <= time.Second; at += 10 * ms {
		v := track.ValueAt(at)
		if v > prev || v < -10 || v > 10 {
			t.Errorf("Cubic value %f at %v overshoots or reverses", v, at)
		}
		prev = v
	}
	if v := track.ValueAt(500 * ms); math.Abs(float64(v)) > 1e-9 {
		t.Errorf("Expected midpoint 0, got %f", v)
	}
	if v := track.VelocityAt(0); v != 0 {
		t.Errorf("Expected zero starting speed, got %f", v)
	}
	if v := track.segments[0].endVel; math.Abs(float64(v)) > 1e-9 {
		t.Errorf("Expected zero ending speed, got %f", v)
	}
}

func TestTrackExampleScenario(t *testing.T) {
	track, err := NewTrack(Scalar(0),
		LinearKeyframe(Scalar(20), 150*ms),
		SpringKeyframe(Scalar(-60), time.Second, Bouncy),
		SettleKeyframe(Scalar(0), Bouncy),
	)
	if err != nil {
		t.Fatalf("NewTrack failed: %v", err)
	}

	if v := track.ValueAt(0); v != 0 {
		t.Errorf("Expected 0 at start, got %f", v)
	}
	if v := track.ValueAt(150 * ms); v != 20 {
		t.Errorf("Expected 20 at 150ms, got %f", v)
	}
	if v := track.ValueAt(1150 * ms); math.Abs(float64(v)+60) > 0.1 {
		t.Errorf("Expected about -60 at 1.15s, got %f", v)
	}

	spring := track.segments[1]
	settle := settleDuration(Bouncy, spring.end, Scalar(0), spring.endVel)
	if settle <= 0 || settle >= SettleCap {
		t.Fatalf("Unexpected settle time %v", settle)
	}
	if want := 1150*ms + settle; track.Duration() != want {
		t.Errorf("Expected duration %v, got %v", want, track.Duration())
	}
	if v := track.ValueAt(track.Duration()); math.Abs(float64(v)) >= SettleTolerance {
		t.Errorf("Expected settled final value, got %f", v)
	}
}

func TestTrackOffsets(t *testing.T) {
	track, err := NewTrack(Offset{},
		LinearKeyframe(Offset{X: 10, Y: -10}, 100*ms),
		SettleKeyframe(Offset{X: 0, Y: -64}, Smooth),
	)
	if err != nil {
		t.Fatalf("NewTrack failed: %v", err)
	}

	mid := track.ValueAt(50 * ms)
	if math.Abs(mid.X-5) > 1e-9 || math.Abs(mid.Y+5) > 1e-9 {
		t.Errorf("Expected (5,-5) at 50ms, got %+v", mid)
	}
	final := track.ValueAt(track.Duration())
	if final.Add(Offset{Y: 64}).Norm() >= SettleTolerance {
		t.Errorf("Expected settled at (0,-64), got %+v", final)
	}
}
