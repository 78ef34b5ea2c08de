package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Job is one uploaded document waiting to be processed.
type Job struct {
	RequestID uuid.UUID
	FileName  string
	Content   []byte
}

type JobHandler func(ctx context.Context, job Job)

// Worker runs jobs from a bounded queue on a fixed number of goroutines.
type Worker struct {
	handler     JobHandler
	jobs        chan Job
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
	log         zerolog.Logger
}

func NewWorker(handler JobHandler, concurrency, queueSize int, log zerolog.Logger) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Worker{
		handler:     handler,
		jobs:        make(chan Job, queueSize),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
		log:         log,
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.log.Info().Int("concurrency", w.concurrency).Msg("starting worker")
	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}
}

// Stop waits for running jobs to finish and returns the jobs still queued.
func (w *Worker) Stop() []Job {
	w.stopOnce.Do(func() {
		close(w.stopChan)
	})
	w.wg.Wait()

	var pending []Job
	for {
		select {
		case job := <-w.jobs:
			pending = append(pending, job)
		default:
			w.log.Info().Int("pending", len(pending)).Msg("worker stopped")
			return pending
		}
	}
}

// Enqueue never blocks: a full queue is reported as ErrQueueFull.
func (w *Worker) Enqueue(job Job) error {
	select {
	case <-w.stopChan:
		return ErrWorkerStopped
	default:
	}

	select {
	case w.jobs <- job:
		w.log.Debug().Str("request_id", job.RequestID.String()).Msg("job enqueued")
		return nil
	default:
		return ErrQueueFull
	}
}

func (w *Worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log := w.log.With().Int("worker", workerID).Logger()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case job := <-w.jobs:
			log.Debug().Str("request_id", job.RequestID.String()).Msg("processing job")
			w.handler(ctx, job)
		}
	}
}
