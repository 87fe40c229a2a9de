package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/studypilot-backend/internal/config"
	"github.com/stemsi/studypilot-backend/internal/model"
	"github.com/stemsi/studypilot-backend/internal/monitoring"
)

const (
	AttemptBatchSize    = 50
	AttemptBatchTimeout = 2 * time.Second
	AttemptPollTimeout  = 1 * time.Second
	// AttemptMaxRetries is how often a failed attempt is requeued before it
	// is parked on the dead-letter list.
	AttemptMaxRetries = 5
)

// AttemptStore persists graded attempts.
type AttemptStore interface {
	BulkCreate(ctx context.Context, attempts []model.ExamAttempt) error
	Create(ctx context.Context, a *model.ExamAttempt) error
}

// Queue is the Redis list API the worker drains and refills.
type Queue interface {
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// AttemptWorker drains the attempt queue into Postgres in batches.
type AttemptWorker struct {
	store AttemptStore
	rdb   Queue
	log   zerolog.Logger
}

func NewAttemptWorker(store AttemptStore, rdb Queue, log zerolog.Logger) *AttemptWorker {
	return &AttemptWorker{
		store: store,
		rdb:   rdb,
		log:   log.With().Str("component", "attempt_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

// Start blocks until ctx is cancelled, then flushes what it holds.
func (w *AttemptWorker) Start(ctx context.Context) {
	w.log.Info().Msg("AttemptWorker started")

	batch := make([]model.ExamAttempt, 0, AttemptBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= AttemptBatchSize || time.Since(lastFlush) >= AttemptBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Int("pending", len(batch)).Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, AttemptPollTimeout, config.WorkerKey.PersistAttemptsQueue).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
					time.Sleep(AttemptPollTimeout)
				}
				continue
			}
			if len(item) < 2 {
				continue
			}

			attempt, ok := w.decode(item[1])
			if !ok {
				continue
			}
			batch = append(batch, attempt)
		}
	}
}

func (w *AttemptWorker) decode(raw string) (model.ExamAttempt, bool) {
	var a model.ExamAttempt
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		w.log.Error().Err(err).Msg("Invalid JSON payload")
		monitoring.AttemptsPersisted.WithLabelValues("invalid").Inc()
		return a, false
	}
	return a, true
}

// ----------------------------------------------------------------
// Bulk insert with single-row fallback
// ----------------------------------------------------------------

func (w *AttemptWorker) flushSafe(ctx context.Context, batch []model.ExamAttempt) {
	if len(batch) == 0 {
		return
	}

	err := w.store.BulkCreate(ctx, batch)
	if err == nil {
		monitoring.AttemptsPersisted.WithLabelValues("bulk").Add(float64(len(batch)))
		w.log.Debug().Int("attempts", len(batch)).Msg("Attempt batch persisted")
		return
	}

	w.log.Warn().Err(err).Int("attempts", len(batch)).Msg("bulk attempt insert failed, using fallback")
	for i := range batch {
		if err := w.store.Create(ctx, &batch[i]); err != nil {
			w.log.Error().Err(err).Str("attempt_id", batch[i].ID.String()).Msg("persist attempt failed, requeueing")
			w.requeue(ctx, batch[i])
			continue
		}
		monitoring.AttemptsPersisted.WithLabelValues("single").Inc()
	}
}

// requeue puts a failed attempt back on the queue, or on the dead-letter
// list once it has used up its retries.
func (w *AttemptWorker) requeue(ctx context.Context, a model.ExamAttempt) {
	a.Retries++
	queue, outcome := config.WorkerKey.PersistAttemptsQueue, "requeued"
	if a.Retries > AttemptMaxRetries {
		queue, outcome = config.WorkerKey.DeadAttemptsQueue, "dead_letter"
	}

	raw, err := json.Marshal(a)
	if err != nil {
		return
	}
	if err := w.rdb.RPush(ctx, queue, raw).Err(); err != nil {
		w.log.Error().Err(err).Str("attempt_id", a.ID.String()).Msg("requeue failed, attempt dropped")
		monitoring.AttemptsPersisted.WithLabelValues("dropped").Inc()
		return
	}
	if outcome == "dead_letter" {
		w.log.Error().Str("attempt_id", a.ID.String()).Int("retries", a.Retries-1).Msg("attempt moved to dead-letter queue")
	}
	monitoring.AttemptsPersisted.WithLabelValues(outcome).Inc()
}
