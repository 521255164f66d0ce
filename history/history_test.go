package history

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/lifeexp/pkg/errors"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		id, err := s.Record(ctx, Run{
			StartedAt:    base.Add(time.Duration(i) * time.Hour),
			Duration:     1500 * time.Millisecond,
			Epochs:       100 * (i + 1),
			LearningRate: 1e-6,
			Samples:      163,
			FinalWeight:  0.1 * float64(i),
			FinalBias:    1,
			FinalLoss:    4250,
			WeightsPath:  "weights.gob",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), id)
	}

	runs, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, 300, runs[0].Epochs)
	assert.Equal(t, 200, runs[1].Epochs)
	assert.True(t, runs[0].StartedAt.Equal(base.Add(2*time.Hour)))
	assert.Equal(t, 1500*time.Millisecond, runs[0].Duration)
	assert.Equal(t, 1e-6, runs[0].LearningRate)
	assert.Equal(t, 163, runs[0].Samples)
	assert.Equal(t, 0.2, runs[0].FinalWeight)
	assert.Equal(t, "weights.gob", runs[0].WeightsPath)
}

func TestRecentEmpty(t *testing.T) {
	runs, err := openStore(t).Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRecentInvalidLimit(t *testing.T) {
	_, err := openStore(t).Recent(context.Background(), 0)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestRecordDivergedRun(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	_, err := s.Record(ctx, Run{
		StartedAt:   time.Now(),
		Epochs:      10,
		FinalWeight: math.NaN(),
		FinalBias:   math.Inf(1),
		FinalLoss:   math.NaN(),
		WeightsPath: "w.gob",
	})
	require.NoError(t, err)

	runs, err := s.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, math.IsNaN(runs[0].FinalWeight))
	assert.True(t, math.IsInf(runs[0].FinalBias, 1))
	assert.True(t, math.IsNaN(runs[0].FinalLoss))
}

func TestReopenKeepsRuns(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = s.Record(ctx, Run{StartedAt: time.Now(), Epochs: 7, WeightsPath: "w.gob"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	runs, err := s.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 7, runs[0].Epochs)
}

func TestOpenBadPath(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing", "runs.db"))
	assert.Error(t, err)
}
