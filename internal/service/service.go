// Package service holds the job lifecycle operations: CRUD, status
// transitions, soft delete and restore, listing and user preferences.
// Every operation takes the acting user explicitly.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/cuongbtq/accessflow-be/internal/events"
)

// DefaultLocation names the reference timezone for calendar-day comparisons
const DefaultLocation = "Europe/London"

// LoadLocation resolves name, falling back to DefaultLocation when empty
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultLocation
	}
	return time.LoadLocation(name)
}

// publishEvent is best effort: a failed publish is logged and never fails
// the mutation that produced it.
func publishEvent(ctx context.Context, publisher events.Publisher, logger *slog.Logger, event events.JobEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish job event",
			slog.String("event_type", string(event.Type)),
			slog.String("job_id", event.JobID),
			slog.Any("error", err),
		)
	}
}
