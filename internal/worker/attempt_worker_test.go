package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/studypilot-backend/internal/config"
	"github.com/stemsi/studypilot-backend/internal/model"
)

type fakeStore struct {
	bulkErr   error
	createErr error
	bulkRuns  int
	singles   []uuid.UUID
}

func (f *fakeStore) BulkCreate(_ context.Context, attempts []model.ExamAttempt) error {
	f.bulkRuns++
	return f.bulkErr
}

func (f *fakeStore) Create(_ context.Context, a *model.ExamAttempt) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.singles = append(f.singles, a.ID)
	return nil
}

type fakeQueue struct {
	lists map[string][]model.ExamAttempt
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{lists: make(map[string][]model.ExamAttempt)}
}

func (q *fakeQueue) BLPop(context.Context, time.Duration, ...string) *redis.StringSliceCmd {
	return redis.NewStringSliceResult(nil, redis.Nil)
}

func (q *fakeQueue) RPush(_ context.Context, key string, values ...interface{}) *redis.IntCmd {
	for _, v := range values {
		var a model.ExamAttempt
		if err := json.Unmarshal(v.([]byte), &a); err != nil {
			return redis.NewIntResult(0, err)
		}
		q.lists[key] = append(q.lists[key], a)
	}
	return redis.NewIntResult(int64(len(q.lists[key])), nil)
}

// pop takes the oldest attempt off a list.
func (q *fakeQueue) pop(key string) (model.ExamAttempt, bool) {
	list := q.lists[key]
	if len(list) == 0 {
		return model.ExamAttempt{}, false
	}
	q.lists[key] = list[1:]
	return list[0], true
}

func attempts(n int) []model.ExamAttempt {
	out := make([]model.ExamAttempt, n)
	for i := range out {
		out[i] = model.ExamAttempt{ID: uuid.New(), UserID: "u1", Subject: "Mathematics"}
	}
	return out
}

func TestFlushSafe_Bulk(t *testing.T) {
	store := &fakeStore{}
	w := NewAttemptWorker(store, nil, zerolog.Nop())

	w.flushSafe(context.Background(), attempts(3))
	if store.bulkRuns != 1 || len(store.singles) != 0 {
		t.Fatalf("bulk=%d singles=%d", store.bulkRuns, len(store.singles))
	}
}

func TestFlushSafe_FallsBackToSingleInserts(t *testing.T) {
	store := &fakeStore{bulkErr: errors.New("deadlock detected")}
	w := NewAttemptWorker(store, nil, zerolog.Nop())

	batch := attempts(4)
	w.flushSafe(context.Background(), batch)
	if len(store.singles) != 4 {
		t.Fatalf("singles = %d, want 4", len(store.singles))
	}
	for i, id := range store.singles {
		if id != batch[i].ID {
			t.Fatalf("single %d = %s, want %s", i, id, batch[i].ID)
		}
	}
}

func TestFlushSafe_DeadLettersAfterMaxRetries(t *testing.T) {
	store := &fakeStore{bulkErr: errors.New("relation does not exist"), createErr: errors.New("relation does not exist")}
	q := newFakeQueue()
	w := NewAttemptWorker(store, q, zerolog.Nop())
	ctx := context.Background()

	q.lists[config.WorkerKey.PersistAttemptsQueue] = attempts(1)
	id := q.lists[config.WorkerKey.PersistAttemptsQueue][0].ID

	for flushes := 1; flushes <= AttemptMaxRetries+1; flushes++ {
		a, ok := q.pop(config.WorkerKey.PersistAttemptsQueue)
		if !ok {
			t.Fatalf("flush %d: queue empty", flushes)
		}
		w.flushSafe(ctx, []model.ExamAttempt{a})
	}

	if n := len(q.lists[config.WorkerKey.PersistAttemptsQueue]); n != 0 {
		t.Fatalf("attempt still queued %d times after %d retries", n, AttemptMaxRetries)
	}
	dead := q.lists[config.WorkerKey.DeadAttemptsQueue]
	if len(dead) != 1 || dead[0].ID != id {
		t.Fatalf("dead letters = %+v, want attempt %s", dead, id)
	}
	if dead[0].Retries != AttemptMaxRetries+1 {
		t.Fatalf("retries = %d, want %d", dead[0].Retries, AttemptMaxRetries+1)
	}
}

func TestFlushSafe_RequeueCountsRetries(t *testing.T) {
	store := &fakeStore{bulkErr: errors.New("timeout"), createErr: errors.New("timeout")}
	q := newFakeQueue()
	w := NewAttemptWorker(store, q, zerolog.Nop())

	w.flushSafe(context.Background(), attempts(2))

	requeued := q.lists[config.WorkerKey.PersistAttemptsQueue]
	if len(requeued) != 2 {
		t.Fatalf("requeued = %d, want 2", len(requeued))
	}
	for _, a := range requeued {
		if a.Retries != 1 {
			t.Fatalf("retries = %d, want 1", a.Retries)
		}
	}
	if len(q.lists[config.WorkerKey.DeadAttemptsQueue]) != 0 {
		t.Fatal("first failure was dead-lettered")
	}
}

func TestFlushSafe_EmptyBatch(t *testing.T) {
	store := &fakeStore{}
	NewAttemptWorker(store, nil, zerolog.Nop()).flushSafe(context.Background(), nil)
	if store.bulkRuns != 0 {
		t.Fatal("empty batch hit the store")
	}
}

func TestDecode(t *testing.T) {
	w := NewAttemptWorker(&fakeStore{}, nil, zerolog.Nop())
	if _, ok := w.decode("{not json"); ok {
		t.Fatal("invalid payload decoded")
	}
	a, ok := w.decode(`{"id":"7f1c2a0e-3b7d-4d7e-9a55-0c2f1d9b8e11","user_id":"u1","subject":"Physics","source":"mock","result":{"score":80,"grade":"B"},"xp_awarded":100}`)
	if !ok || a.UserID != "u1" || a.Result.Score != 80 || a.Source != model.AttemptSourceMock {
		t.Fatalf("decoded %+v", a)
	}
}
