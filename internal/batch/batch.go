// Package batch turns an arbitrary list of per-document field updates into
// bounded atomic commits against the document store. The store accepts at
// most 500 operations per commit, so updates are chunked, each chunk is
// written atomically, and failed chunks are retried with exponential backoff.
//
// Partial success is a first-class outcome: chunks already committed stay
// committed, and the CommitReport tells the caller exactly which chunks
// landed and which were abandoned. Callers reconcile by rolling back their
// in-memory view — no attempt is made to un-commit durable chunks.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PriorityLexusVB/AFTERMARKET-MENU-sub001/internal/infra"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Collections the engine writes through the batch path.
const (
	CollectionFeatures       = "features"
	CollectionCatalogOptions = "catalog_options"
)

// MaxOpsPerCommit is the store's hard ceiling on operations per atomic commit.
const MaxOpsPerCommit = 500

// FieldUpdate is one partial-update operation against one document.
type FieldUpdate struct {
	Collection string                 `json:"collection"`
	ID         uuid.UUID              `json:"id"`
	Fields     map[string]interface{} `json:"fields"`
}

// Writer is the store-side primitive: apply a group of field updates as one
// atomic multi-document write.
type Writer interface {
	ApplyBatch(ctx context.Context, updates []FieldUpdate) error
}

// ChunkFailure records a chunk that exhausted its retries.
type ChunkFailure struct {
	Index    int    `json:"index"`
	Ops      int    `json:"ops"`
	Attempts int    `json:"attempts"`
	Reason   string `json:"reason"`
}

// CommitReport is the outcome of a Commit call. AppliedChunks chunks are
// durably written even when Failed is non-empty.
type CommitReport struct {
	TotalOps      int
	AppliedChunks int
	AppliedOps    int
	Failed        []ChunkFailure
}

// PartiallyApplied reports whether some chunks landed and some did not.
func (r *CommitReport) PartiallyApplied() bool {
	return r.AppliedChunks > 0 && len(r.Failed) > 0
}

// ErrCommitFailed is returned (wrapped) when at least one chunk was abandoned.
var ErrCommitFailed = errors.New("batch commit failed")

// Committer chunks, writes, and retries field updates.
type Committer struct {
	writer      Writer
	cb          *infra.CircuitBreaker
	rdb         *redis.Client // optional — nil disables the DLQ
	chunkSize   int
	maxAttempts int
	baseDelay   time.Duration
}

// Option configures a Committer.
type Option func(*Committer)

// WithChunkSize overrides the default chunk size. Values above the store
// ceiling are clamped to MaxOpsPerCommit.
func WithChunkSize(n int) Option {
	return func(c *Committer) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithRetry sets total attempts per chunk (including the first) and the base
// backoff delay, doubled after each failed attempt.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(c *Committer) {
		if maxAttempts > 0 {
			c.maxAttempts = maxAttempts
		}
		if baseDelay > 0 {
			c.baseDelay = baseDelay
		}
	}
}

// WithDLQ records abandoned chunks to a Redis dead-letter list for manual
// reconciliation.
func WithDLQ(rdb *redis.Client) Option {
	return func(c *Committer) { c.rdb = rdb }
}

// NewCommitter creates a Committer with the store's 500-op ceiling, 3 total
// attempts per chunk, and a 200ms base backoff.
func NewCommitter(writer Writer, cb *infra.CircuitBreaker, opts ...Option) *Committer {
	c := &Committer{
		writer:      writer,
		cb:          cb,
		chunkSize:   MaxOpsPerCommit,
		maxAttempts: 3,
		baseDelay:   200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.chunkSize > MaxOpsPerCommit {
		c.chunkSize = MaxOpsPerCommit
	}
	return c
}

// Commit splits updates into chunks and writes each chunk atomically. Chunks
// that fail are retried up to maxAttempts times with doubling backoff; a chunk
// that still fails is abandoned, recorded in the report (and the DLQ), and the
// call as a whole returns an error wrapping ErrCommitFailed. Earlier chunks
// remain committed.
func (c *Committer) Commit(ctx context.Context, updates []FieldUpdate) (*CommitReport, error) {
	report := &CommitReport{TotalOps: len(updates)}
	if len(updates) == 0 {
		return report, nil
	}

	chunks := chunk(updates, c.chunkSize)
	for i, ops := range chunks {
		attempts, err := c.commitChunk(ctx, ops)
		if err != nil {
			report.Failed = append(report.Failed, ChunkFailure{
				Index:    i,
				Ops:      len(ops),
				Attempts: attempts,
				Reason:   err.Error(),
			})
			c.sendToDLQ(ctx, i, ops, attempts, err)
			log.Error().
				Int("chunk", i).
				Int("ops", len(ops)).
				Int("attempts", attempts).
				Err(err).
				Msg("batch: chunk abandoned after retries")
			continue
		}
		report.AppliedChunks++
		report.AppliedOps += len(ops)
	}

	if len(report.Failed) > 0 {
		if report.PartiallyApplied() {
			log.Warn().
				Int("applied_chunks", report.AppliedChunks).
				Int("failed_chunks", len(report.Failed)).
				Msg("batch: commit partially applied — store and in-memory view may diverge")
		}
		return report, fmt.Errorf("%w: %d of %d chunks failed",
			ErrCommitFailed, len(report.Failed), len(chunks))
	}
	return report, nil
}

// commitChunk attempts one chunk through the circuit breaker, retrying with
// doubling backoff. Returns the number of attempts actually made.
func (c *Committer) commitChunk(ctx context.Context, ops []FieldUpdate) (int, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		err := c.cb.Execute(func() error {
			return c.writer.ApplyBatch(ctx, ops)
		})
		if err == nil {
			return attempt, nil
		}
		lastErr = err

		// Breaker open means the store is known down — backing off per-attempt
		// just delays the inevitable, so fail the chunk immediately.
		if errors.Is(err, infra.ErrCircuitOpen) {
			return attempt, err
		}
		if attempt == c.maxAttempts {
			break
		}

		delay := backoff(c.baseDelay, attempt)
		log.Warn().
			Int("attempt", attempt).
			Dur("next_delay", delay).
			Err(err).
			Msg("batch: chunk write failed, backing off")

		select {
		case <-ctx.Done():
			return attempt, ctx.Err()
		case <-time.After(delay):
		}
	}
	return c.maxAttempts, lastErr
}

// backoff returns baseDelay doubled for each completed attempt.
func backoff(base time.Duration, attempt int) time.Duration {
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
	}
	return d
}

func chunk(updates []FieldUpdate, size int) [][]FieldUpdate {
	var chunks [][]FieldUpdate
	for start := 0; start < len(updates); start += size {
		end := start + size
		if end > len(updates) {
			end = len(updates)
		}
		chunks = append(chunks, updates[start:end])
	}
	return chunks
}
