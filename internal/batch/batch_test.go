package batch

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/infra"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedWriter fails the first failuresPerCall[i] attempts of call group i.
type scriptedWriter struct {
	calls     [][]FieldUpdate
	failUntil int // calls before this index return an error
	err       error
}

func (w *scriptedWriter) ApplyBatch(_ context.Context, updates []FieldUpdate) error {
	w.calls = append(w.calls, updates)
	if len(w.calls) <= w.failUntil {
		if w.err != nil {
			return w.err
		}
		return fmt.Errorf("write %d failed", len(w.calls))
	}
	return nil
}

func makeUpdates(n int) []FieldUpdate {
	out := make([]FieldUpdate, n)
	for i := range out {
		out[i] = FieldUpdate{
			Collection: CollectionFeatures,
			ID:         uuid.New(),
			Fields:     map[string]interface{}{"position": i},
		}
	}
	return out
}

func newCB() *infra.CircuitBreaker {
	return infra.NewCircuitBreaker(infra.DefaultCBConfig())
}

func fastRetry() Option {
	return WithRetry(3, time.Millisecond)
}

func TestCommitChunksAtStoreCeiling(t *testing.T) {
	w := &scriptedWriter{}
	c := NewCommitter(w, newCB(), fastRetry())

	report, err := c.Commit(context.Background(), makeUpdates(1001))
	require.NoError(t, err)

	require.Len(t, w.calls, 3)
	assert.Len(t, w.calls[0], 500)
	assert.Len(t, w.calls[1], 500)
	assert.Len(t, w.calls[2], 1)

	assert.Equal(t, 1001, report.TotalOps)
	assert.Equal(t, 3, report.AppliedChunks)
	assert.Equal(t, 1001, report.AppliedOps)
	assert.Empty(t, report.Failed)
}

func TestCommitEmptyIsNoOp(t *testing.T) {
	w := &scriptedWriter{}
	c := NewCommitter(w, newCB(), fastRetry())

	report, err := c.Commit(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, report.TotalOps)
	assert.Empty(t, w.calls)
}

func TestChunkSizeIsClampedToCeiling(t *testing.T) {
	w := &scriptedWriter{}
	c := NewCommitter(w, newCB(), fastRetry(), WithChunkSize(10_000))

	_, err := c.Commit(context.Background(), makeUpdates(501))
	require.NoError(t, err)
	require.Len(t, w.calls, 2)
	assert.Len(t, w.calls[0], MaxOpsPerCommit)
}

func TestCommitRetriesTransientFailures(t *testing.T) {
	w := &scriptedWriter{failUntil: 2} // first two attempts fail, third lands
	c := NewCommitter(w, newCB(), fastRetry())

	report, err := c.Commit(context.Background(), makeUpdates(10))
	require.NoError(t, err)
	assert.Len(t, w.calls, 3)
	assert.Equal(t, 1, report.AppliedChunks)
	assert.Equal(t, 10, report.AppliedOps)
}

func TestCommitAbandonsAfterMaxAttempts(t *testing.T) {
	w := &scriptedWriter{failUntil: 100}
	c := NewCommitter(w, newCB(), fastRetry())

	report, err := c.Commit(context.Background(), makeUpdates(10))
	require.ErrorIs(t, err, ErrCommitFailed)

	assert.Len(t, w.calls, 3)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, 3, report.Failed[0].Attempts)
	assert.Equal(t, 10, report.Failed[0].Ops)
	assert.Zero(t, report.AppliedChunks)
	assert.False(t, report.PartiallyApplied())
}

func TestPartialSuccessIsReported(t *testing.T) {
	// Chunk 1 lands on its first attempt; chunk 2 exhausts all three.
	var calls int
	fw := writerFunc(func(ctx context.Context, updates []FieldUpdate) error {
		calls++
		if calls == 1 {
			return nil
		}
		return errors.New("store down")
	})
	c := NewCommitter(fw, newCB(), fastRetry(), WithChunkSize(5))

	report, err := c.Commit(context.Background(), makeUpdates(10))
	require.ErrorIs(t, err, ErrCommitFailed)

	assert.Equal(t, 1, report.AppliedChunks)
	assert.Equal(t, 5, report.AppliedOps)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, 1, report.Failed[0].Index)
	assert.True(t, report.PartiallyApplied())
}

func TestOpenBreakerFailsFastWithoutRetries(t *testing.T) {
	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		OpenTimeout:      time.Hour,
	})
	var calls int
	fw := writerFunc(func(context.Context, []FieldUpdate) error {
		calls++
		return errors.New("store down")
	})
	c := NewCommitter(fw, cb, fastRetry(), WithChunkSize(5))

	report, err := c.Commit(context.Background(), makeUpdates(10))
	require.ErrorIs(t, err, ErrCommitFailed)

	// First chunk: one real attempt trips the breaker, the second attempt
	// fast-fails. Second chunk never reaches the store at all.
	assert.Equal(t, 1, calls)
	require.Len(t, report.Failed, 2)
	assert.Contains(t, report.Failed[1].Reason, infra.ErrCircuitOpen.Error())
}

func TestCommitHonorsContextCancellation(t *testing.T) {
	fw := writerFunc(func(context.Context, []FieldUpdate) error {
		return errors.New("store down")
	})
	c := NewCommitter(fw, newCB(), WithRetry(3, time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Commit(ctx, makeUpdates(1))
	require.ErrorIs(t, err, ErrCommitFailed)
}

// writerFunc adapts a function to the Writer interface.
type writerFunc func(ctx context.Context, updates []FieldUpdate) error

func (f writerFunc) ApplyBatch(ctx context.Context, updates []FieldUpdate) error {
	return f(ctx, updates)
}
