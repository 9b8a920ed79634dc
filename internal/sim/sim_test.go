package sim_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexline/raceline/internal/geom"
	"github.com/apexline/raceline/internal/sim"
	"github.com/apexline/raceline/internal/testutil"
)

func baseParams() sim.Params {
	return sim.Params{
		Scale:       1.0,
		Grip:        1.6,
		BrakeDecel:  7.5,
		EnginePower: 7e4,
		TopSpeed:    22.0,
	}
}

func TestSimulateCircularTrackLapTime(t *testing.T) {
	// Radius 50m, grip 1.6: lateral limit sqrt(1.6*9.81*50) ~ 28 m/s,
	// clamped to the 22 m/s top speed, so the lap runs flat out and the
	// lap time is the circumference over top speed.
	path := testutil.Circle(0, 0, 50, 200)
	res, err := sim.Simulate(path, baseParams())
	require.NoError(t, err)

	want := 2 * math.Pi * 50 / 22
	assert.InEpsilon(t, want, res.TotalTime, 0.03)
	for i, v := range res.Speeds {
		assert.InDeltaf(t, 22.0, v, 1e-9, "sample %d should be at top speed", i)
	}
}

func TestSimulateGripLimitedCircle(t *testing.T) {
	// Radius 20m, grip 1.6: limit sqrt(1.6*9.81*20) ~ 17.7 m/s, below top
	// speed, so the whole lap is grip limited.
	path := testutil.Circle(0, 0, 20, 200)
	res, err := sim.Simulate(path, baseParams())
	require.NoError(t, err)

	wantLimit := math.Sqrt(1.6 * sim.Gravity * 20)
	for i, v := range res.SpeedLimits {
		assert.InEpsilonf(t, wantLimit, v, 0.02, "limit at sample %d", i)
	}
	wantTime := 2 * math.Pi * 20 / wantLimit
	assert.InEpsilon(t, wantTime, res.TotalTime, 0.03)
}

func TestSimulateSpeedInvariants(t *testing.T) {
	p := baseParams()
	for name, path := range map[string]geom.Path{
		"circle":       testutil.Circle(0, 0, 35, 150),
		"rounded rect": testutil.RoundedRect(400, 200, 20, 4),
		"tiny circle":  testutil.Circle(0, 0, 2, 30),
	} {
		t.Run(name, func(t *testing.T) {
			res, err := sim.Simulate(path, p)
			require.NoError(t, err)
			testutil.AssertFinite(t, "speeds", res.Speeds)
			testutil.AssertFinite(t, "limits", res.SpeedLimits)
			for i, v := range res.Speeds {
				assert.GreaterOrEqualf(t, v, 0.0, "sample %d", i)
				assert.LessOrEqualf(t, v, p.TopSpeed+1e-9, "sample %d", i)
			}
			assert.True(t, res.TotalTime > 0)
		})
	}
}

func TestSimulateCornerCausesLocalisedDip(t *testing.T) {
	// Long straights with 20m-radius corners: the profile must dip near
	// the corners and recover to a straight-line speed well above the
	// corner limit.
	p := baseParams()
	p.TopSpeed = 60
	path := testutil.RoundedRect(600, 300, 20, 4)

	res, err := sim.Simulate(path, p)
	require.NoError(t, err)

	cornerLimit := math.Sqrt(p.Grip * sim.Gravity * 20)
	minV, maxV := res.Speeds[0], res.Speeds[0]
	for _, v := range res.Speeds {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	assert.Less(t, minV, cornerLimit*1.1, "corner speed should approach the grip limit")
	assert.Greater(t, maxV, cornerLimit*1.8, "straights should run well above corner speed")

	// The dip is localised: the slowest sample sits on a high-curvature
	// sample, and its brake-limited approach obeys the decel bound.
	slowest := 0
	for i, v := range res.Speeds {
		if v < res.Speeds[slowest] {
			slowest = i
		}
	}
	curv := geom.Curvature(path)
	assert.Greater(t, math.Abs(curv[slowest].Kappa), 1.0/25,
		"slowest sample should sit on a corner")

	n := len(res.Speeds)
	for i := 0; i < n; i++ {
		next := (i + 1) % n
		maxEntry := math.Sqrt(res.Speeds[next]*res.Speeds[next] + 2*p.BrakeDecel*res.SegmentDistances[i])
		assert.LessOrEqualf(t, res.Speeds[i], maxEntry+1e-6, "brake limit violated entering sample %d", next)
	}
}

func TestSimulateScaleConvertsUnits(t *testing.T) {
	// The same pixel geometry at half the scale is half the track: lap
	// time should shrink accordingly once grip limited.
	path := testutil.Circle(0, 0, 100, 200)

	big := baseParams()
	big.Scale = 0.5 // 100px -> 50m radius
	resBig, err := sim.Simulate(path, big)
	require.NoError(t, err)

	small := baseParams()
	small.Scale = 0.2 // 100px -> 20m radius
	resSmall, err := sim.Simulate(path, small)
	require.NoError(t, err)

	wantBig := 2 * math.Pi * 50 / 22
	wantSmall := 2 * math.Pi * 20 / math.Sqrt(1.6*sim.Gravity*20)
	assert.InEpsilon(t, wantBig, resBig.TotalTime, 0.03)
	assert.InEpsilon(t, wantSmall, resSmall.TotalTime, 0.03)
}

func TestSimulateInsufficientInput(t *testing.T) {
	_, err := sim.Simulate(geom.Path{geom.Pt(0, 0)}, baseParams())
	require.Error(t, err)
	var insufficient *geom.InsufficientInputError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 2, insufficient.Required)
}

func TestSimulateRejectsInvalidParams(t *testing.T) {
	path := testutil.Circle(0, 0, 50, 50)

	p := baseParams()
	p.Scale = 0
	_, err := sim.Simulate(path, p)
	assert.Error(t, err)

	p = baseParams()
	p.TopSpeed = -1
	_, err = sim.Simulate(path, p)
	assert.Error(t, err)
}

func TestSimulateZeroLengthSegments(t *testing.T) {
	// Coincident points contribute no distance and therefore no time.
	path := geom.Path{
		geom.Pt(0, 0), geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10), geom.Pt(0, 10),
	}
	res, err := sim.Simulate(path, baseParams())
	require.NoError(t, err)
	testutil.AssertFinite(t, "speeds", res.Speeds)
	assert.Zero(t, res.SegmentDistances[0])
	assert.True(t, res.TotalTime > 0)
}

func TestParamsAccelCapped(t *testing.T) {
	p := baseParams()
	p.EnginePower = 1e9
	assert.LessOrEqual(t, p.Accel(), 12.0)

	p.EnginePower = 7e4
	assert.Greater(t, p.Accel(), 0.0)
}

func TestSummarize(t *testing.T) {
	path := testutil.RoundedRect(400, 200, 20, 4)
	res, err := sim.Simulate(path, baseParams())
	require.NoError(t, err)

	s := sim.Summarize(res)
	assert.Equal(t, res.TotalTime, s.TotalTime)
	assert.InDelta(t, path.Perimeter(), s.TotalDistance, 1e-6)
	assert.LessOrEqual(t, s.MinSpeed, s.MeanSpeed)
	assert.LessOrEqual(t, s.MeanSpeed, s.MaxSpeed)
	assert.Equal(t, res.Speeds[s.SlowestIndex], s.MinSpeed)

	assert.Equal(t, sim.Summary{}, sim.Summarize(nil))
}
