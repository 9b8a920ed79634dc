package optimize_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexline/raceline/internal/optimize"
)

func TestRunnerLifecycle(t *testing.T) {
	center, bounds, params := gripLimitedSetup(t)
	r := optimize.NewRunner()
	assert.Equal(t, optimize.StatusIdle, r.State().Status)

	runID, err := r.Start(context.Background(), optimize.Request{
		Centerline: center,
		Bounds:     bounds,
		Params:     params,
		Options:    testOptions(4),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	r.Wait()
	st := r.State()
	assert.Equal(t, optimize.StatusComplete, st.Status)
	assert.Equal(t, runID, st.RunID)
	assert.NotNil(t, st.StartedAt)
	assert.NotNil(t, st.CompletedAt)
	assert.Equal(t, 1.0, st.Progress)
	assert.False(t, st.Aborted)
	assert.Greater(t, st.BestTime, 0.0)
	assert.LessOrEqual(t, st.BestTime, st.SeedTime)
	assert.NotEmpty(t, st.BestPath)
}

func TestRunnerRejectsConcurrentStart(t *testing.T) {
	center, bounds, params := gripLimitedSetup(t)
	r := optimize.NewRunner()

	opts := testOptions(8)
	opts.Iterations = 5000
	opts.MinIterations = 5000
	_, err := r.Start(context.Background(), optimize.Request{
		Centerline: center, Bounds: bounds, Params: params, Options: opts,
	})
	require.NoError(t, err)

	_, err = r.Start(context.Background(), optimize.Request{
		Centerline: center, Bounds: bounds, Params: params, Options: testOptions(9),
	})
	assert.Error(t, err)

	r.Cancel()
	r.Wait()
	assert.Equal(t, optimize.StatusCancelled, r.State().Status)
}

func TestRunnerCancelKeepsBestSoFar(t *testing.T) {
	center, bounds, params := gripLimitedSetup(t)
	r := optimize.NewRunner()

	opts := optimize.Options{
		Iterations:        100000,
		TriesPerIteration: 10,
		MinIterations:     100000,
		MaxOffset:         10,
		SmoothRounds:      2,
		Rand:              rand.New(rand.NewSource(2)),
	}
	_, err := r.Start(context.Background(), optimize.Request{
		Centerline: center, Bounds: bounds, Params: params, Options: opts,
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	r.Cancel()
	r.Wait()

	st := r.State()
	assert.Equal(t, optimize.StatusCancelled, st.Status)
	assert.True(t, st.Aborted)
	assert.NotEmpty(t, st.BestPath)
	assert.LessOrEqual(t, st.BestTime, st.SeedTime)
}

func TestRunnerStateSnapshotsAreIndependent(t *testing.T) {
	center, bounds, params := gripLimitedSetup(t)
	r := optimize.NewRunner()

	_, err := r.Start(context.Background(), optimize.Request{
		Centerline: center, Bounds: bounds, Params: params, Options: testOptions(6),
	})
	require.NoError(t, err)
	r.Wait()

	a := r.State()
	require.NotEmpty(t, a.BestPath)
	a.BestPath[0].X += 1000

	b := r.State()
	assert.NotEqual(t, a.BestPath[0], b.BestPath[0], "snapshots must not share path storage")
}

func TestRunnerErrorState(t *testing.T) {
	center, bounds, params := gripLimitedSetup(t)
	r := optimize.NewRunner()

	_, err := r.Start(context.Background(), optimize.Request{
		Centerline: center,
		Bounds:     bounds[:4], // mismatched on purpose
		Params:     params,
		Options:    testOptions(1),
	})
	require.NoError(t, err, "Start only validates lifecycle; input errors surface in state")
	r.Wait()

	st := r.State()
	assert.Equal(t, optimize.StatusError, st.Status)
	assert.NotEmpty(t, st.Error)
}
