// Package optimize searches for the racing line of a track: the laterally
// displaced version of the centerline, constrained to the corridor between
// the track edges, that minimises simulated lap time. The search is a
// stochastic hill-climb with an annealing-like step schedule; it accepts
// only strictly improving moves, so the best lap time is monotonically
// non-increasing and never worse than the seed centerline.
package optimize

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/apexline/raceline/internal/geom"
	"github.com/apexline/raceline/internal/sim"
	"github.com/apexline/raceline/internal/track"
)

// Defaults for Options fields left at their zero value.
const (
	DefaultIterations        = 400
	DefaultTriesPerIteration = 30
	DefaultMinIterations     = 30
	DefaultMaxOffset         = 10.0
	DefaultSmoothRounds      = 2
)

// Options tunes one optimization run.
type Options struct {
	// Iterations is the iteration budget N.
	Iterations int
	// TriesPerIteration is how many random perturbations each iteration
	// attempts.
	TriesPerIteration int
	// MinIterations is the stagnation floor: the run never stops for lack
	// of improvement before this many iterations have elapsed.
	MinIterations int
	// MaxOffset caps a single perturbation's lateral offset, in input
	// units, regardless of corridor width.
	MaxOffset float64
	// SmoothRounds is how many corner-cut rounds each perturbed candidate
	// receives before simulation, to avoid scoring a sharp kink.
	SmoothRounds int
	// Workers sets how many perturbation trials evaluate concurrently
	// within one iteration. Zero or one evaluates sequentially, accepting
	// each improvement as it is found; higher values evaluate the
	// iteration's trials as an independent batch and commit only the best.
	Workers int
	// Rand is the randomness source. Supplying a seeded source makes the
	// run reproducible; nil draws from the global source.
	Rand *rand.Rand
	// OnImprove, when non-nil, is called from the owning goroutine each
	// time a better candidate is accepted.
	OnImprove func(Progress)
}

func (o Options) withDefaults() Options {
	if o.Iterations <= 0 {
		o.Iterations = DefaultIterations
	}
	if o.TriesPerIteration <= 0 {
		o.TriesPerIteration = DefaultTriesPerIteration
	}
	if o.MinIterations <= 0 {
		o.MinIterations = DefaultMinIterations
	}
	if o.MaxOffset <= 0 {
		o.MaxOffset = DefaultMaxOffset
	}
	if o.SmoothRounds <= 0 {
		o.SmoothRounds = DefaultSmoothRounds
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.Workers > runtime.NumCPU() {
		o.Workers = runtime.NumCPU()
	}
	return o
}

// Progress is a snapshot published after each accepted improvement.
type Progress struct {
	Iteration int
	Total     int
	Fraction  float64
	BestTime  float64
	BestPath  geom.Path
}

// Result is the outcome of an optimization run.
type Result struct {
	// Path is the best racing line found. It carries more samples than the
	// input centerline because candidates are re-smoothed before scoring.
	Path geom.Path
	// LapTime is the simulated lap time of Path, seconds.
	LapTime float64
	// SeedTime is the simulated lap time of the unperturbed centerline.
	SeedTime float64
	// Iterations is how many iterations actually ran.
	Iterations int
	// Aborted reports that the run was cancelled and Path is the best
	// candidate found before cancellation.
	Aborted bool
	// Converged reports a stagnation stop: a full iteration produced no
	// improvement after the minimum iteration count.
	Converged bool
}

// trial is one candidate move: replace the lateral offset at a single
// centerline sample.
type trial struct {
	index  int
	offset float64
}

// Run searches the corridor around center for a faster racing line. The
// bounds slice must parallel the centerline. Cancellation via ctx is not an
// error: the best-so-far result is returned with Aborted set.
func Run(ctx context.Context, center geom.Path, bounds []track.Bound, params sim.Params, opts Options) (*Result, error) {
	if len(center) < track.MinEdgePoints {
		return nil, &geom.InsufficientInputError{Op: "optimizer", Required: track.MinEdgePoints, Got: len(center)}
	}
	if len(bounds) != len(center) {
		return nil, fmt.Errorf("optimizer: %d corridor bounds for %d centerline samples", len(bounds), len(center))
	}
	opts = opts.withDefaults()
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	seed, err := sim.Simulate(center, params)
	if err != nil {
		return nil, err
	}

	normals := geom.Normals(center)
	offsets := make([]float64, len(center))

	best := &Result{
		Path:     center.Clone(),
		LapTime:  seed.TotalTime,
		SeedTime: seed.TotalTime,
	}
	// The smoothed zero-offset candidate often already beats the raw
	// centerline; adopt it only when it does, so the result is never worse
	// than the seed.
	smoothed := geom.Smooth(center, opts.SmoothRounds)
	if r, err := sim.Simulate(smoothed, params); err == nil && r.TotalTime < best.LapTime {
		best.Path = smoothed
		best.LapTime = r.TotalTime
	}

	for it := 0; it < opts.Iterations; it++ {
		if ctx.Err() != nil {
			best.Aborted = true
			best.Iterations = it
			return best, nil
		}

		anneal := 0.08 + 0.92*(1.0-float64(it)/float64(opts.Iterations))
		var improved bool
		if opts.Workers > 1 {
			improved = runBatch(ctx, center, normals, bounds, offsets, params, opts, rng, anneal, it, best)
		} else {
			improved = runSequential(ctx, center, normals, bounds, offsets, params, opts, rng, anneal, it, best)
		}

		best.Iterations = it + 1
		if !improved && it+1 >= opts.MinIterations {
			best.Converged = true
			break
		}
	}
	return best, nil
}

// drawTrial picks a random sample and a bounded random lateral offset for
// it. The step size shrinks with the annealing multiplier so exploration is
// wide early and narrow late.
func drawTrial(rng *rand.Rand, bounds []track.Bound, offsets []float64, maxOffset, anneal float64) trial {
	i := rng.Intn(len(bounds))
	span := bounds[i].Range()
	if span > maxOffset {
		span = maxOffset
	}
	delta := (rng.Float64()*2 - 1) * span * anneal
	return trial{
		index:  i,
		offset: bounds[i].Clamp(offsets[i] + delta),
	}
}

// candidatePath rebuilds the racing-line candidate from its per-sample
// lateral offsets and re-smooths it so single-sample moves do not introduce
// a kink.
func candidatePath(center geom.Path, normals []geom.Vec, offsets []float64, smoothRounds int) geom.Path {
	p := make(geom.Path, len(center))
	for i := range center {
		p[i] = center[i].Add(normals[i].Scale(offsets[i]))
	}
	return geom.Smooth(p, smoothRounds)
}

// runSequential evaluates the iteration's trials one at a time, committing
// every strict improvement immediately. This is the reference behaviour.
func runSequential(ctx context.Context, center geom.Path, normals []geom.Vec, bounds []track.Bound, offsets []float64, params sim.Params, opts Options, rng *rand.Rand, anneal float64, it int, best *Result) bool {
	improved := false
	for try := 0; try < opts.TriesPerIteration; try++ {
		if ctx.Err() != nil {
			return improved
		}
		tr := drawTrial(rng, bounds, offsets, opts.MaxOffset, anneal)
		prev := offsets[tr.index]
		offsets[tr.index] = tr.offset

		p := candidatePath(center, normals, offsets, opts.SmoothRounds)
		r, err := sim.Simulate(p, params)
		if err != nil || r.TotalTime >= best.LapTime {
			offsets[tr.index] = prev
			continue
		}

		best.Path = p
		best.LapTime = r.TotalTime
		improved = true
		publish(opts, it, best)
	}
	return improved
}

// runBatch evaluates the iteration's trials concurrently. Trials are drawn
// up front from the owning goroutine so a seeded run stays reproducible,
// evaluated independently against the iteration's starting candidate, and
// only the single best of the batch is committed.
func runBatch(ctx context.Context, center geom.Path, normals []geom.Vec, bounds []track.Bound, offsets []float64, params sim.Params, opts Options, rng *rand.Rand, anneal float64, it int, best *Result) bool {
	trials := make([]trial, opts.TriesPerIteration)
	for i := range trials {
		trials[i] = drawTrial(rng, bounds, offsets, opts.MaxOffset, anneal)
	}

	times := make([]float64, len(trials))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range trials {
		i := i
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			local := make([]float64, len(offsets))
			copy(local, offsets)
			local[trials[i].index] = trials[i].offset

			p := candidatePath(center, normals, local, opts.SmoothRounds)
			r, err := sim.Simulate(p, params)
			if err != nil {
				return err
			}
			times[i] = r.TotalTime
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return false
	}

	bestIdx := -1
	bestTime := best.LapTime
	for i, t := range times {
		if t < bestTime {
			bestTime = t
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return false
	}

	offsets[trials[bestIdx].index] = trials[bestIdx].offset
	best.Path = candidatePath(center, normals, offsets, opts.SmoothRounds)
	best.LapTime = bestTime
	publish(opts, it, best)
	return true
}

// publish reports an accepted improvement to the observer. The path is
// copied so the observer can hold it across further iterations.
func publish(opts Options, it int, best *Result) {
	if opts.OnImprove == nil {
		return
	}
	opts.OnImprove(Progress{
		Iteration: it,
		Total:     opts.Iterations,
		Fraction:  float64(it+1) / float64(opts.Iterations),
		BestTime:  best.LapTime,
		BestPath:  best.Path.Clone(),
	})
}
