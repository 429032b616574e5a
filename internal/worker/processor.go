package worker

import (
	"context"
	"fmt"
	"log/slog"
)

// processMessage applies one status update within the per-message timeout
func (w *Worker) processMessage(ctx context.Context, msg *message) error {
	if w.messageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.messageTimeout)
		defer cancel()
	}

	u := msg.update
	result, err := w.updater.ApplyByClockNumber(ctx, u.ClockNumber, u.NewStatus, u.Actor)
	if err != nil {
		return fmt.Errorf("failed to apply status update for clock number %q: %w", u.ClockNumber, err)
	}

	w.logger.Info("Applied queued status update",
		slog.String("job_id", result.Job.ID),
		slog.String("clock_number", u.ClockNumber),
		slog.String("from", string(result.PreviousStatus)),
		slog.String("to", string(result.Job.Status)),
		slog.Int("matches", result.Matches),
	)

	return nil
}
