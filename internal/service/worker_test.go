package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func TestWorkerProcessesJobs(t *testing.T) {
	var mu sync.Mutex
	seen := map[uuid.UUID]bool{}
	done := make(chan struct{}, 3)

	w := NewWorker(func(_ context.Context, job Job) {
		mu.Lock()
		seen[job.RequestID] = true
		mu.Unlock()
		done <- struct{}{}
	}, 2, 10, zerolog.Nop())
	w.Start(context.Background())
	defer w.Stop()

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, id := range ids {
		if err := w.Enqueue(Job{RequestID: id}); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}
	for range ids {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for jobs")
		}
	}
	mu.Lock()
	defer mu.Unlock()
	for _, id := range ids {
		if !seen[id] {
			t.Fatalf("job %s not processed", id)
		}
	}
}

func TestWorkerQueueFull(t *testing.T) {
	w := NewWorker(func(context.Context, Job) {}, 1, 1, zerolog.Nop())
	if err := w.Enqueue(Job{RequestID: uuid.New()}); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	if err := w.Enqueue(Job{RequestID: uuid.New()}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("err = %v, want ErrQueueFull", err)
	}
}

func TestWorkerStopReturnsPendingAndRejects(t *testing.T) {
	w := NewWorker(func(context.Context, Job) {}, 1, 4, zerolog.Nop())
	queued := Job{RequestID: uuid.New()}
	if err := w.Enqueue(queued); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	pending := w.Stop()
	if len(pending) != 1 || pending[0].RequestID != queued.RequestID {
		t.Fatalf("pending = %+v", pending)
	}
	if err := w.Enqueue(Job{RequestID: uuid.New()}); !errors.Is(err, ErrWorkerStopped) {
		t.Fatalf("err = %v, want ErrWorkerStopped", err)
	}
	if again := w.Stop(); len(again) != 0 {
		t.Fatalf("second Stop returned %d jobs", len(again))
	}
}
