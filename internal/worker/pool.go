package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	appdomain "github.com/cuongbtq/accessflow-be/internal/domain"
	"github.com/cuongbtq/accessflow-be/internal/worker/domain"
)

// spawnWorkerPool spawns N worker goroutines based on concurrency configuration
func (w *Worker) spawnWorkerPool(ctx context.Context) {
	w.logger.Info("Spawning worker pool",
		slog.Int("concurrency", w.concurrency),
		slog.String("worker_id", w.workerID),
	)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.workerLoop(ctx, i)
	}
}

// workerLoop is the main processing loop for each worker goroutine
func (w *Worker) workerLoop(ctx context.Context, workerNum int) {
	defer w.wg.Done()

	workerName := fmt.Sprintf("%s-%d", w.workerID, workerNum)
	w.logger.Debug("Worker goroutine started",
		slog.String("worker_name", workerName),
	)

	for {
		select {
		case <-w.stopChan:
			w.logger.Debug("Worker goroutine stopping - stopChan closed",
				slog.String("worker_name", workerName),
			)
			return

		case <-ctx.Done():
			w.logger.Debug("Worker goroutine stopping - context canceled",
				slog.String("worker_name", workerName),
			)
			return

		case msg := <-w.jobsChan:
			w.handle(ctx, workerName, msg)
		}
	}
}

// handle processes one message and settles its delivery
func (w *Worker) handle(ctx context.Context, workerName string, msg *message) {
	err := w.processMessage(ctx, msg)
	if err == nil {
		if ackErr := msg.delivery.Ack(false); ackErr != nil {
			w.logger.Error("Failed to ACK message",
				slog.String("worker_name", workerName),
				slog.String("clock_number", msg.update.ClockNumber),
				slog.String("error", ackErr.Error()),
			)
		}
		return
	}

	requeue := shouldRequeue(err)
	w.logger.Error("Status update failed",
		slog.String("worker_name", workerName),
		slog.String("clock_number", msg.update.ClockNumber),
		slog.Bool("requeue", requeue),
		slog.String("error", err.Error()),
	)

	if nackErr := msg.delivery.Nack(false, requeue); nackErr != nil {
		w.logger.Error("Failed to NACK message",
			slog.String("worker_name", workerName),
			slog.String("clock_number", msg.update.ClockNumber),
			slog.String("error", nackErr.Error()),
		)
	}
}

// shouldRequeue reports whether a failed update may succeed on redelivery.
// Only backend outages and timeouts qualify.
func shouldRequeue(err error) bool {
	switch {
	case errors.Is(err, domain.ErrInvalidPayload),
		errors.Is(err, appdomain.ErrValidation),
		errors.Is(err, appdomain.ErrNotFound),
		errors.Is(err, appdomain.ErrAmbiguousMatch):
		return false
	case errors.Is(err, appdomain.ErrBackendUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return true
	default:
		return false
	}
}
