package geom

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Path is an ordered sequence of points. Semantically the path is a closed
// loop: the last point connects back to the first unless an operation states
// otherwise. Most operations need at least 5 points for numerical stability.
type Path []Point

// Clone returns a copy of the path that shares no storage with p.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// SegmentLengths returns the length of each segment of the closed loop.
// Element i is the distance from p[i] to p[(i+1) mod n], so the final
// element is the wrap segment that closes the loop.
func (p Path) SegmentLengths() []float64 {
	n := len(p)
	segs := make([]float64, n)
	for i := 0; i < n; i++ {
		segs[i] = p[i].Distance(p[(i+1)%n])
	}
	return segs
}

// Perimeter returns the total arc length of the closed loop.
func (p Path) Perimeter() float64 {
	if len(p) < 2 {
		return 0
	}
	return floats.Sum(p.SegmentLengths())
}

// Resample returns a new path of n = max(2, round(perimeter/spacing)) points
// evenly spaced by arc length around the closed loop, interpolating linearly
// between consecutive input vertices via cumulative-distance lookup.
// Degenerate input (fewer than 2 points, non-positive spacing, or a loop of
// near-zero length) is returned as a copy, unchanged. Deterministic and
// side-effect free.
func Resample(p Path, spacing float64) Path {
	n := len(p)
	if n < 2 || spacing <= 0 {
		return p.Clone()
	}

	segs := p.SegmentLengths()
	cum := make([]float64, n+1)
	floats.CumSum(cum[1:], segs)
	total := cum[n]
	if total < Eps {
		return p.Clone()
	}

	m := int(math.Round(total / spacing))
	if m < 2 {
		m = 2
	}

	out := make(Path, m)
	j := 0
	for i := 0; i < m; i++ {
		target := total * float64(i) / float64(m)
		for j < n-1 && cum[j+1] <= target {
			j++
		}
		segLen := cum[j+1] - cum[j]
		t := 0.0
		if segLen > Eps {
			t = (target - cum[j]) / segLen
		}
		out[i] = p[j].Lerp(p[(j+1)%n], t)
	}
	return out
}

// Smooth applies iters rounds of corner-cutting subdivision. Each round
// replaces every segment with its 25% and 75% cut points while keeping the
// first and last path points fixed, growing an n-point path to 2n-1 points.
// Input with fewer than 3 points is returned as a copy, unchanged. Smoothing
// shortens overall arc length slightly; callers must not assume length
// preservation.
func Smooth(p Path, iters int) Path {
	if len(p) < 3 {
		return p.Clone()
	}
	cur := p
	for it := 0; it < iters; it++ {
		n := len(cur)
		out := make(Path, 0, 2*n-1)
		out = append(out, cur[0])
		for i := 0; i < n-1; i++ {
			q := cur[i].Lerp(cur[i+1], 0.25)
			r := cur[i].Lerp(cur[i+1], 0.75)
			if i == n-2 {
				// Last segment keeps the terminal endpoint fixed.
				out = append(out, q, cur[n-1])
			} else {
				out = append(out, q, r)
			}
		}
		cur = out
	}
	return cur
}
