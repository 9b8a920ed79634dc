package track_test

import (
	"math"
	"testing"

	"github.com/apexline/raceline/internal/geom"
	"github.com/apexline/raceline/internal/testutil"
	"github.com/apexline/raceline/internal/track"
)

func TestBuildCenterlineOfConcentricCircles(t *testing.T) {
	edges := testutil.CircleEdges(0, 0, 50, 10, 120)

	center, err := track.BuildCenterline(edges.Left, edges.Right)
	testutil.AssertNoError(t, err)

	// Midpoints of concentric circle samples lie on the centre circle;
	// smoothing pulls chords slightly inward, so allow a small band.
	for i, p := range center {
		r := p.Distance(geom.Pt(0, 0))
		if r < 49 || r > 50.5 {
			t.Errorf("centerline sample %d at radius %g, want about 50", i, r)
		}
	}
}

func TestBuildCenterlinePointCount(t *testing.T) {
	edges := testutil.CircleEdges(0, 0, 50, 10, 40)
	short := edges.Right[:30]

	center, err := track.BuildCenterline(edges.Left, short)
	testutil.AssertNoError(t, err)

	// 30 midpoints, then 4 corner-cut rounds: n + (n-1)*(2^4 - 1).
	want := 30 + 29*15
	if len(center) != want {
		t.Errorf("centerline has %d points, want %d", len(center), want)
	}
}

func TestBuildCenterlineInsufficientInput(t *testing.T) {
	good := testutil.Circle(0, 0, 50, 40)
	bad := testutil.Circle(0, 0, 40, 4)

	_, err := track.BuildCenterline(bad, good)
	testutil.AssertError(t, err)
	_, err = track.BuildCenterline(good, bad)
	testutil.AssertError(t, err)

	var insufficient *geom.InsufficientInputError
	if _, err := track.BuildCenterline(good, bad); err != nil {
		var ok bool
		insufficient, ok = err.(*geom.InsufficientInputError)
		if !ok {
			t.Fatalf("want *geom.InsufficientInputError, got %T", err)
		}
	}
	if insufficient.Required != track.MinEdgePoints || insufficient.Got != 4 {
		t.Errorf("error detail = %+v", insufficient)
	}
}

func TestBuildCorridorWidths(t *testing.T) {
	const halfWidth = 5.0
	edges := testutil.CircleEdges(0, 0, 50, 2*halfWidth, 120)
	center := testutil.Circle(0, 0, 50, 120)

	bounds, err := track.BuildCorridor(center, edges)
	testutil.AssertNoError(t, err)
	if len(bounds) != len(center) {
		t.Fatalf("got %d bounds for %d samples", len(bounds), len(center))
	}

	for i, b := range bounds {
		if b.Min > b.Max {
			t.Fatalf("bound %d inverted: %+v", i, b)
		}
		if math.Abs(b.Min+halfWidth) > 0.5 || math.Abs(b.Max-halfWidth) > 0.5 {
			t.Errorf("bound %d = %+v, want about [-%g, %g]", i, b, halfWidth, halfWidth)
		}
	}
}

func TestBuildCorridorInsufficientInput(t *testing.T) {
	center := testutil.Circle(0, 0, 50, 40)

	_, err := track.BuildCorridor(center[:3], testutil.CircleEdges(0, 0, 50, 10, 40))
	testutil.AssertError(t, err)

	_, err = track.BuildCorridor(center, track.EdgePair{Left: center, Right: geom.Path{geom.Pt(0, 0)}})
	testutil.AssertError(t, err)
}

func TestBoundClampAndRange(t *testing.T) {
	b := track.Bound{Min: -4, Max: 6}
	if got := b.Range(); got != 10 {
		t.Errorf("Range = %g, want 10", got)
	}
	for _, tc := range []struct{ in, want float64 }{
		{-10, -4}, {0, 0}, {5.5, 5.5}, {9, 6},
	} {
		if got := b.Clamp(tc.in); got != tc.want {
			t.Errorf("Clamp(%g) = %g, want %g", tc.in, got, tc.want)
		}
	}
}
