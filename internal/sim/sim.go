// Package sim computes achievable speed profiles and lap times for closed
// paths under a simplified point-mass vehicle model: lateral grip limits
// cornering speed, constant longitudinal rates limit acceleration and
// braking.
package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/apexline/raceline/internal/geom"
)

// Gravity is the gravitational acceleration used by the lateral grip limit,
// in m/s².
const Gravity = 9.81

const (
	// latSpeedSqFloor floors the squared lateral speed limit so that
	// near-zero curvature on straights cannot blow up the square root.
	latSpeedSqFloor = 0.01

	// speedFloor keeps per-segment time finite when a speed is zero.
	speedFloor = 0.1

	// brakeRounds is how many backward braking passes run; the loop wraps,
	// so a few repeats let the constraint propagate across the start line.
	brakeRounds = 3

	// assumedMassKG stands in for vehicle mass when deriving the constant
	// forward acceleration from engine power. The model is intentionally a
	// constant-rate simplification, not a power curve.
	assumedMassKG = 750.0

	// maxLongAccel caps the derived forward acceleration, m/s².
	maxLongAccel = 12.0
)

// Params is the vehicle and calibration bundle for one simulation call.
// It is treated as immutable for the duration of the call.
type Params struct {
	// Scale converts one input planar unit into metres.
	Scale float64 `json:"scale"`
	// Grip is the tyre grip coefficient (mu) for the lateral limit.
	Grip float64 `json:"grip"`
	// BrakeDecel is the maximum braking deceleration, m/s² (positive).
	BrakeDecel float64 `json:"brake_decel"`
	// EnginePower is engine output in watts; the forward pass derives a
	// constant acceleration from it.
	EnginePower float64 `json:"engine_power"`
	// TopSpeed is the speed ceiling, m/s.
	TopSpeed float64 `json:"top_speed"`
}

// Accel returns the constant forward acceleration derived from engine
// power at a mid-range reference speed, capped at maxLongAccel.
func (p Params) Accel() float64 {
	ref := math.Max(p.TopSpeed*0.5, 1)
	a := p.EnginePower / (assumedMassKG * ref)
	return math.Min(a, maxLongAccel)
}

// Result holds the simulated lap for one path. All slices are parallel to
// the simulated path; SegmentDistances[i] is the metres from sample i to
// the next sample around the loop.
type Result struct {
	TotalTime        float64   // seconds
	Speeds           []float64 // m/s, achievable speed at each sample
	SpeedLimits      []float64 // m/s, lateral grip limit at each sample
	SegmentDistances []float64 // metres
}

// Simulate computes the achievable speed profile and total lap time for a
// closed path. The path needs at least 2 points. The returned speeds always
// satisfy 0 <= v <= TopSpeed.
func Simulate(path geom.Path, p Params) (*Result, error) {
	n := len(path)
	if n < 2 {
		return nil, &geom.InsufficientInputError{Op: "lap simulation", Required: 2, Got: n}
	}
	if p.Scale <= 0 || p.TopSpeed <= 0 {
		return nil, fmt.Errorf("lap simulation: scale and top speed must be positive (scale=%g, top speed=%g)", p.Scale, p.TopSpeed)
	}

	// Per-segment distances in metres, closing the loop.
	dists := path.SegmentLengths()
	for i := range dists {
		dists[i] *= p.Scale
	}

	// Curvature per metre: the discrete estimate is per input unit, so
	// divide by the scale factor.
	curv := geom.Curvature(path)
	limits := make([]float64, n)
	for i, c := range curv {
		k := math.Abs(c.Kappa) / p.Scale
		if k < geom.Eps {
			limits[i] = p.TopSpeed
			continue
		}
		v := math.Sqrt(math.Max(latSpeedSqFloor, p.Grip*Gravity/k))
		limits[i] = math.Min(v, p.TopSpeed)
	}

	// Forward pass: constant-acceleration speed build-up from the previous
	// sample, never above the local limit or top speed.
	accel := p.Accel()
	speeds := make([]float64, n)
	speeds[0] = limits[0]
	for i := 1; i < n; i++ {
		reachable := math.Sqrt(speeds[i-1]*speeds[i-1] + 2*accel*dists[i-1])
		speeds[i] = math.Min(limits[i], math.Min(reachable, p.TopSpeed))
	}

	// Backward passes: cap each speed so braking to the next sample's speed
	// over the intervening distance stays within BrakeDecel. Repeated with
	// the wrap segment so the constraint settles around the loop.
	for round := 0; round < brakeRounds; round++ {
		speeds[n-1] = math.Min(speeds[n-1], brakeLimited(speeds[0], dists[n-1], p.BrakeDecel))
		for i := n - 2; i >= 0; i-- {
			speeds[i] = math.Min(speeds[i], brakeLimited(speeds[i+1], dists[i], p.BrakeDecel))
		}
	}

	times := make([]float64, n)
	for i := 0; i < n; i++ {
		times[i] = dists[i] / math.Max(speeds[i], speedFloor)
	}

	return &Result{
		TotalTime:        floats.Sum(times),
		Speeds:           speeds,
		SpeedLimits:      limits,
		SegmentDistances: dists,
	}, nil
}

// brakeLimited returns the highest entry speed from which the vehicle can
// still slow to next over dist metres at decel.
func brakeLimited(next, dist, decel float64) float64 {
	return math.Sqrt(next*next + 2*decel*dist)
}
