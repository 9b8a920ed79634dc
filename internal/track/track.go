// Package track builds drivable geometry from raw boundary traces: the
// centerline between a pair of track edges and the lateral corridor within
// which a racing line may move.
package track

import (
	"math"

	"github.com/apexline/raceline/internal/geom"
)

// MinEdgePoints is the minimum number of samples each boundary trace must
// carry before a centerline can be built from it.
const MinEdgePoints = 5

// CenterlineSmoothRounds is the number of corner-cut rounds applied to the
// raw midpoint path.
const CenterlineSmoothRounds = 4

// EdgePair holds the two boundary traces of a track. The traces are
// independent paths: they need not have equal sample counts and are paired
// by fractional index position, not by nearest-point distance. That pairing
// is an accepted approximation for roughly parallel edges.
type EdgePair struct {
	Left  geom.Path `json:"left"`
	Right geom.Path `json:"right"`
}

// BuildCenterline pairs the resampled left and right edges by fractional
// index position over n = min(len(left), len(right)) samples, emits
// midpoints and smooths the result. When the edges have equal counts this
// degenerates to pairing sample i with sample i. The pairing is positional,
// not a nearest-point correspondence; it assumes roughly parallel traces
// drawn in the same direction. Both edges must have at least MinEdgePoints
// samples.
func BuildCenterline(left, right geom.Path) (geom.Path, error) {
	if len(left) < MinEdgePoints {
		return nil, &geom.InsufficientInputError{Op: "centerline (left edge)", Required: MinEdgePoints, Got: len(left)}
	}
	if len(right) < MinEdgePoints {
		return nil, &geom.InsufficientInputError{Op: "centerline (right edge)", Required: MinEdgePoints, Got: len(right)}
	}

	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	mid := make(geom.Path, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n)
		mid[i] = sampleAt(left, t).Midpoint(sampleAt(right, t))
	}
	return geom.Smooth(mid, CenterlineSmoothRounds), nil
}

// Bound is the signed lateral offset range of one centerline sample,
// measured along the local normal. Min is the lesser of the two edge
// projections and Max the greater, so Min <= 0 <= Max on any sample where
// the centerline lies between its edges.
type Bound struct {
	Min float64
	Max float64
}

// Range returns the width of the bound.
func (b Bound) Range() float64 {
	return b.Max - b.Min
}

// Clamp limits offset to the interval [Min, Max].
func (b Bound) Clamp(offset float64) float64 {
	return math.Min(b.Max, math.Max(b.Min, offset))
}

// BuildCorridor computes the lateral displacement range of every centerline
// sample. Each sample's left and right edge points are looked up by
// fractional index position around the closed edge loops and projected onto
// the local normal (the centerline tangent rotated 90 degrees). The result
// approximates the perpendicular half-widths of the track; it is a
// projection onto a locally estimated normal, not a true nearest-point
// distance.
func BuildCorridor(center geom.Path, edges EdgePair) ([]Bound, error) {
	if len(center) < MinEdgePoints {
		return nil, &geom.InsufficientInputError{Op: "corridor", Required: MinEdgePoints, Got: len(center)}
	}
	if len(edges.Left) < 2 || len(edges.Right) < 2 {
		short := len(edges.Left)
		if len(edges.Right) < short {
			short = len(edges.Right)
		}
		return nil, &geom.InsufficientInputError{Op: "corridor (edges)", Required: 2, Got: short}
	}

	normals := geom.Normals(center)
	n := len(center)
	bounds := make([]Bound, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n)
		lp := sampleAt(edges.Left, t)
		rp := sampleAt(edges.Right, t)

		projL := lp.Sub(center[i]).Dot(normals[i])
		projR := rp.Sub(center[i]).Dot(normals[i])
		bounds[i] = Bound{
			Min: math.Min(projL, projR),
			Max: math.Max(projL, projR),
		}
	}
	return bounds, nil
}

// sampleAt returns the point at fractional position t in [0, 1) around the
// closed loop p, interpolating linearly between neighbouring samples.
func sampleAt(p geom.Path, t float64) geom.Point {
	n := len(p)
	fi := t * float64(n)
	j := int(math.Floor(fi))
	frac := fi - float64(j)
	j = ((j % n) + n) % n
	return p[j].Lerp(p[(j+1)%n], frac)
}
