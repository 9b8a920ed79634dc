// Package raceline computes an optimized racing line and lap-time estimate
// for a closed-loop track bounded by two edge traces. It is the one-call
// façade over the pipeline: edge resampling and smoothing, centerline
// construction, corridor bounds, lap simulation and the stochastic
// racing-line search. Edge capture, calibration and presentation are
// external collaborators; this package only consumes their points and
// scale factor and hands back paths and speeds.
package raceline

import (
	"context"

	"github.com/apexline/raceline/internal/geom"
	"github.com/apexline/raceline/internal/optimize"
	"github.com/apexline/raceline/internal/sim"
	"github.com/apexline/raceline/internal/track"
)

// edgeSmoothRounds is applied to each resampled edge trace to knock the
// hand-drawn jitter out before pairing.
const edgeSmoothRounds = 1

// DefaultSpacing is the edge resample spacing in input units when the
// input does not specify one.
const DefaultSpacing = 4.0

// Input is everything one optimization session needs.
type Input struct {
	// Edges are the raw boundary traces, in input planar units.
	Edges track.EdgePair
	// Spacing is the resample spacing in input units; zero means
	// DefaultSpacing.
	Spacing float64
	// Params is the vehicle and calibration bundle.
	Params sim.Params
	// Options tunes the optimizer; zero values take optimizer defaults.
	Options optimize.Options
}

// Lap is the published result of a session: the data the presentation
// collaborator renders or exports.
type Lap struct {
	// Centerline is the midpoint path between the paired edges.
	Centerline geom.Path
	// RacingLine is the optimized path; never slower than the centerline.
	RacingLine geom.Path
	// Speeds is the per-sample speed profile of RacingLine, m/s.
	Speeds []float64
	// LapTime is the simulated lap time of RacingLine, seconds.
	LapTime float64
	// CenterlineTime is the simulated lap time of the unperturbed
	// centerline, seconds.
	CenterlineTime float64
	// Summary carries the headline figures of the racing-line lap.
	Summary sim.Summary
	// Iterations is how many optimizer iterations ran.
	Iterations int
	// Aborted reports that ctx was cancelled and the result is the best
	// found so far.
	Aborted bool
}

// Optimize runs the full pipeline on a pair of edge traces. Cancellation
// via ctx is not an error: the best-so-far lap is returned with Aborted
// set.
func Optimize(ctx context.Context, in Input) (*Lap, error) {
	spacing := in.Spacing
	if spacing <= 0 {
		spacing = DefaultSpacing
	}

	left := geom.Smooth(geom.Resample(in.Edges.Left, spacing), edgeSmoothRounds)
	right := geom.Smooth(geom.Resample(in.Edges.Right, spacing), edgeSmoothRounds)

	center, err := track.BuildCenterline(left, right)
	if err != nil {
		return nil, err
	}
	// Corner cutting multiplies the sample count; bring the centerline back
	// to uniform working spacing before estimating curvature on it.
	center = geom.Resample(center, spacing)
	bounds, err := track.BuildCorridor(center, track.EdgePair{Left: left, Right: right})
	if err != nil {
		return nil, err
	}

	res, err := optimize.Run(ctx, center, bounds, in.Params, in.Options)
	if err != nil {
		return nil, err
	}

	lapSim, err := sim.Simulate(res.Path, in.Params)
	if err != nil {
		return nil, err
	}

	return &Lap{
		Centerline:     center,
		RacingLine:     res.Path,
		Speeds:         lapSim.Speeds,
		LapTime:        res.LapTime,
		CenterlineTime: res.SeedTime,
		Summary:        sim.Summarize(lapSim),
		Iterations:     res.Iterations,
		Aborted:        res.Aborted,
	}, nil
}

// Simulate computes the speed profile and lap time of a single closed path
// without optimizing it.
func Simulate(path geom.Path, params sim.Params) (*sim.Result, error) {
	return sim.Simulate(path, params)
}
