package optimize

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/apexline/raceline/internal/geom"
	"github.com/apexline/raceline/internal/sim"
	"github.com/apexline/raceline/internal/track"
)

// Status represents the lifecycle state of a runner.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusComplete  Status = "complete"
	StatusCancelled Status = "cancelled"
	StatusError     Status = "error"
)

// Request bundles the inputs for one optimization run.
type Request struct {
	Centerline geom.Path
	Bounds     []track.Bound
	Params     sim.Params
	Options    Options
}

// RunState is the externally observable state of a run. Snapshot reads
// return copies, so observers never share storage with the working
// candidate.
type RunState struct {
	Status      Status     `json:"status"`
	RunID       string     `json:"run_id,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Iteration   int        `json:"iteration"`
	Progress    float64    `json:"progress"`
	SeedTime    float64    `json:"seed_time"`
	BestTime    float64    `json:"best_time"`
	BestPath    geom.Path  `json:"best_path,omitempty"`
	Aborted     bool       `json:"aborted"`
	Converged   bool       `json:"converged"`
	Error       string     `json:"error,omitempty"`
}

// Runner owns one optimization run at a time: it launches the search,
// publishes improvements into a mutex-guarded state snapshot, and supports
// cancellation. Safe for concurrent use.
type Runner struct {
	mu     sync.RWMutex
	state  RunState
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRunner creates an idle runner.
func NewRunner() *Runner {
	return &Runner{state: RunState{Status: StatusIdle}}
}

// State returns a deep-copied snapshot of the current run state.
func (r *Runner) State() RunState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st := r.state
	st.BestPath = r.state.BestPath.Clone()
	return st
}

// Start begins a run in the background. It fails if a run is already in
// progress. The run ends on completion, convergence, cancellation, or
// context expiry; Wait blocks until then.
func (r *Runner) Start(ctx context.Context, req Request) (string, error) {
	r.mu.Lock()
	if r.state.Status == StatusRunning {
		r.mu.Unlock()
		return "", fmt.Errorf("optimizer already running (run %s)", r.state.RunID)
	}

	runID := uuid.New().String()
	now := time.Now()
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.state = RunState{
		Status:    StatusRunning,
		RunID:     runID,
		StartedAt: &now,
	}
	done := r.done
	r.mu.Unlock()

	opts := req.Options
	opts.OnImprove = func(p Progress) {
		r.mu.Lock()
		r.state.Iteration = p.Iteration
		r.state.Progress = p.Fraction
		r.state.BestTime = p.BestTime
		r.state.BestPath = p.BestPath
		r.mu.Unlock()
	}

	log.Printf("[Optimizer] Started run %s (%d centerline samples)", runID, len(req.Centerline))
	go func() {
		defer close(done)
		defer cancel()
		res, err := Run(runCtx, req.Centerline, req.Bounds, req.Params, opts)
		r.finish(runID, res, err)
	}()
	return runID, nil
}

// finish records the terminal state of a run.
func (r *Runner) finish(runID string, res *Result, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.state.CompletedAt = &now

	if err != nil {
		r.state.Status = StatusError
		r.state.Error = err.Error()
		log.Printf("[Optimizer] Run %s failed: %v", runID, err)
		return
	}

	r.state.Iteration = res.Iterations
	r.state.Progress = 1
	r.state.SeedTime = res.SeedTime
	r.state.BestTime = res.LapTime
	r.state.BestPath = res.Path
	r.state.Aborted = res.Aborted
	r.state.Converged = res.Converged
	if res.Aborted {
		r.state.Status = StatusCancelled
	} else {
		r.state.Status = StatusComplete
	}
	log.Printf("[Optimizer] Run %s finished after %d iterations: %.3fs -> %.3fs",
		runID, res.Iterations, res.SeedTime, res.LapTime)
}

// Cancel requests early termination of the active run. The run still
// publishes its best-so-far result; Cancel is a no-op when idle.
func (r *Runner) Cancel() {
	r.mu.RLock()
	cancel := r.cancel
	running := r.state.Status == StatusRunning
	r.mu.RUnlock()
	if running && cancel != nil {
		cancel()
	}
}

// Wait blocks until the active run finishes. It returns immediately if no
// run has been started.
func (r *Runner) Wait() {
	r.mu.RLock()
	done := r.done
	r.mu.RUnlock()
	if done != nil {
		<-done
	}
}
