package batch

// dlq.go — Dead Letter Queue
// Chunks that exhaust their retries are recorded here for manual
// reconciliation. The engine never replays them automatically: the caller's
// in-memory rollback cannot un-commit chunks that already landed, so a human
// has to decide which side is right.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DLQKey is the Redis list holding abandoned batch chunks.
const DLQKey = "dlq:batch"

// DLQEntry wraps an abandoned chunk with metadata for debugging.
type DLQEntry struct {
	ChunkIndex int           `json:"chunk_index"`
	Updates    []FieldUpdate `json:"updates"`
	Reason     string        `json:"reason"`
	FailedAt   string        `json:"failed_at"` // ISO 8601
	Attempts   int           `json:"attempts"`
}

func (c *Committer) sendToDLQ(ctx context.Context, index int, ops []FieldUpdate, attempts int, cause error) {
	if c.rdb == nil {
		return
	}

	entry := DLQEntry{
		ChunkIndex: index,
		Updates:    ops,
		Reason:     cause.Error(),
		FailedAt:   time.Now().UTC().Format(time.RFC3339),
		Attempts:   attempts,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Msg("dlq: failed to marshal entry")
		return
	}

	if err := c.rdb.LPush(ctx, DLQKey, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", DLQKey).Msg("dlq: failed to push entry")
		return
	}

	log.Warn().
		Int("chunk_index", index).
		Int("ops", len(ops)).
		Int("attempts", attempts).
		Msg("dlq: abandoned chunk recorded for manual reconciliation")
}

// DLQLength returns the number of abandoned chunks for monitoring.
func DLQLength(ctx context.Context, rdb *redis.Client) (int64, error) {
	return rdb.LLen(ctx, DLQKey).Result()
}
