package reminder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kofadam/asahi-x-family/internal/events"
	"github.com/kofadam/asahi-x-family/internal/platform/logger"
)

// NewLogNotifier returns an event handler that logs reviews.due events.
// Other event types are ignored.
func NewLogNotifier(log *slog.Logger) events.EventHandler {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "log_notifier"))

	return events.HandlerFunc(func(ctx context.Context, event *events.Event) error {
		if event.Type != events.TypeReviewsDue {
			return nil
		}

		var payload events.ReviewsDuePayload
		if err := event.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("failed to decode reminder payload: %w", err)
		}

		logger.FromContextOrDefault(ctx, log).Info("reviews waiting",
			slog.String("profile_id", event.ProfileID.String()),
			slog.Int("due_count", payload.DueCount),
			slog.String("local_day", payload.LocalDay))
		return nil
	})
}
