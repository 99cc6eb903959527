package queue

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/piwi3910/CargoStow/internal/engine"
)

// Worker polls the pending queue and runs the placement engine on each
// job. One Worker processes jobs sequentially; several workers may share
// a queue because the pending pop is atomic. The engine itself knows
// nothing about cancellation, so shutdown takes effect between jobs.
type Worker struct {
	queue       *Client
	log         *logrus.Logger
	pollTimeout time.Duration
}

// NewWorker builds a worker on the given queue client.
func NewWorker(q *Client, log *logrus.Logger, pollTimeout time.Duration) *Worker {
	if pollTimeout <= 0 {
		pollTimeout = 5 * time.Second
	}
	return &Worker{queue: q, log: log, pollTimeout: pollTimeout}
}

// Run polls until the context is cancelled. Queue errors are logged and
// retried after a short backoff rather than killing the worker.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("placement worker started")
	for {
		select {
		case <-ctx.Done():
			w.log.Info("placement worker stopping")
			return ctx.Err()
		default:
		}

		job, err := w.queue.Dequeue(ctx, w.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				w.log.Info("placement worker stopping")
				return ctx.Err()
			}
			w.log.WithError(err).Error("failed to poll for jobs, backing off")
			select {
			case <-time.After(10 * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}
		if job == nil {
			continue // poll timed out, go around
		}

		w.process(ctx, job)
	}
}

func (w *Worker) process(ctx context.Context, job *Job) {
	log := w.log.WithField("job", job.ID)
	log.WithFields(logrus.Fields{
		"items":      len(job.Request.Items),
		"containers": len(job.Request.Containers),
	}).Info("processing job")

	started := time.Now()
	out := engine.PlaceBatch(job.Request.Items, job.Request.Containers, job.Request.CurrentPlacements)

	if err := w.queue.Complete(ctx, job, out); err != nil {
		log.WithError(err).Error("failed to store job result")
		return
	}

	log.WithFields(logrus.Fields{
		"status":         job.Status,
		"placements":     len(out.Placements),
		"rearrangements": len(out.Rearrangements),
		"failed":         len(out.FailedItemIDs),
		"duration":       time.Since(started).Round(time.Millisecond).String(),
	}).Info("job finished")
}
