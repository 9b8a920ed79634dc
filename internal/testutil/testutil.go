// Package testutil provides shared test helpers and synthetic track
// fixtures.
//
// This package centralises the geometric fixtures the end-to-end scenarios
// rely on (circles, rounded rectangles, edge pairs with known widths) so
// individual test files do not rebuild them.
package testutil

import (
	"math"
	"testing"

	"github.com/apexline/raceline/internal/geom"
	"github.com/apexline/raceline/internal/track"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertFinite fails the test if any value is NaN or infinite.
func AssertFinite(t *testing.T, name string, values []float64) {
	t.Helper()
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("%s[%d] is not finite: %v", name, i, v)
		}
	}
}

// Circle returns n points on a counter-clockwise circle of the given
// radius, starting at angle zero.
func Circle(cx, cy, radius float64, n int) geom.Path {
	p := make(geom.Path, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		p[i] = geom.Pt(cx+radius*math.Cos(a), cy+radius*math.Sin(a))
	}
	return p
}

// CircleEdges returns concentric edge traces for a circular track of the
// given centerline radius and total width.
func CircleEdges(cx, cy, radius, width float64, n int) track.EdgePair {
	return track.EdgePair{
		Left:  Circle(cx, cy, radius+width/2, n),
		Right: Circle(cx, cy, radius-width/2, n),
	}
}

// RoundedRect returns a closed counter-clockwise loop around a rectangle
// of the given straight lengths with quarter-circle corners of radius r.
// spacing controls the approximate distance between consecutive samples.
// The shape gives a track with long straights interrupted by sharp 90°
// corners.
func RoundedRect(w, h, r, spacing float64) geom.Path {
	var p geom.Path

	// Corner centres, counter-clockwise from bottom-right.
	centres := []geom.Point{
		geom.Pt(w, 0),
		geom.Pt(w, h),
		geom.Pt(0, h),
		geom.Pt(0, 0),
	}
	startAngles := []float64{-math.Pi / 2, 0, math.Pi / 2, math.Pi}

	straights := []struct{ from, to geom.Point }{
		{geom.Pt(0, -r), geom.Pt(w, -r)},
		{geom.Pt(w+r, 0), geom.Pt(w+r, h)},
		{geom.Pt(w, h+r), geom.Pt(0, h+r)},
		{geom.Pt(-r, h), geom.Pt(-r, 0)},
	}

	arcLen := math.Pi / 2 * r
	arcSteps := int(math.Max(2, math.Round(arcLen/spacing)))
	for side := 0; side < 4; side++ {
		from, to := straights[side].from, straights[side].to
		steps := int(math.Max(1, math.Round(from.Distance(to)/spacing)))
		for i := 0; i < steps; i++ {
			p = append(p, from.Lerp(to, float64(i)/float64(steps)))
		}
		for i := 0; i < arcSteps; i++ {
			a := startAngles[side] + math.Pi/2*float64(i)/float64(arcSteps)
			p = append(p, geom.Pt(centres[side].X+r*math.Cos(a), centres[side].Y+r*math.Sin(a)))
		}
	}
	return p
}

// UniformLoop returns a closed square loop whose samples are exactly
// spacing apart, useful for resampling idempotence checks.
func UniformLoop(side float64, spacing float64) geom.Path {
	steps := int(math.Round(side / spacing))
	var p geom.Path
	for i := 0; i < steps; i++ {
		p = append(p, geom.Pt(float64(i)*spacing, 0))
	}
	for i := 0; i < steps; i++ {
		p = append(p, geom.Pt(side, float64(i)*spacing))
	}
	for i := 0; i < steps; i++ {
		p = append(p, geom.Pt(side-float64(i)*spacing, side))
	}
	for i := 0; i < steps; i++ {
		p = append(p, geom.Pt(0, side-float64(i)*spacing))
	}
	return p
}
