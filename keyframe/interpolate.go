package keyframe

// A Curve maps linear progress in [0,1] to eased progress.
type Curve func(t float64) float64

// Smoothstep is the cubic ease p²(3-2p). It starts and ends with zero slope
// and never leaves [0,1].
func Smoothstep(p float64) float64 {
	return p * p * (3 - 2*p)
}

func smoothstepSlope(p float64) float64 {
	return 6 * p * (1 - p)
}

// lerp blends from a towards b by p.
func lerp[V Vector[V]](a, b V, p float64) V {
	return a.Add(sub(b, a).Scale(p))
}

// progress returns local/duration clamped to [0,1]. A zero duration is
// already complete.
func progress(local, duration float64) float64 {
	if duration <= 0 {
		return 1
	}
	return clamp01(local / duration)
}

func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// slope estimates the derivative of an arbitrary curve at p by central
// difference, falling back to one-sided differences at the ends.
func slope(c Curve, p float64) float64 {
	const h = 1e-4
	lo, hi := p-h, p+h
	if lo < 0 {
		lo = 0
	}
	if hi > 1 {
		hi = 1
	}
	if hi == lo {
		return 0
	}
	return (c(hi) - c(lo)) / (hi - lo)
}
