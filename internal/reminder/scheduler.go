package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"github.com/kofadam/asahi-x-family/internal/domain"
	"github.com/kofadam/asahi-x-family/internal/engine"
	"github.com/kofadam/asahi-x-family/internal/events"
	"github.com/kofadam/asahi-x-family/internal/platform/logger"
	"github.com/kofadam/asahi-x-family/internal/redact"
	"github.com/kofadam/asahi-x-family/internal/store"
)

// DefaultInterval is how often the job runs when no interval is configured.
const DefaultInterval = 15 * time.Minute

// Scheduler periodically checks every stored learner and emits one
// reviews.due event per learner per local day.
type Scheduler struct {
	store    store.ProgressStore
	engine   *engine.Engine
	emitter  events.EventEmitter
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time

	cron *gocron.Scheduler

	mu sync.Mutex
	// sent records the local day of the last reminder per learner.
	sent map[uuid.UUID]domain.Date
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithInterval sets how often the job runs.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithClock replaces the wall clock used to decide reminders.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// NewScheduler creates a reminder scheduler. It does not start running until
// Start is called.
func NewScheduler(
	progressStore store.ProgressStore,
	eng *engine.Engine,
	emitter events.EventEmitter,
	log *slog.Logger,
	opts ...Option,
) *Scheduler {
	if progressStore == nil {
		panic("progressStore cannot be nil") // ALLOW-PANIC: constructor enforcing required dependency
	}
	if eng == nil {
		panic("engine cannot be nil") // ALLOW-PANIC: constructor enforcing required dependency
	}
	if emitter == nil {
		panic("emitter cannot be nil") // ALLOW-PANIC: constructor enforcing required dependency
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Scheduler{
		store:    progressStore,
		engine:   eng,
		emitter:  emitter,
		logger:   log.With(slog.String("component", "reminder_scheduler")),
		interval: DefaultInterval,
		now:      time.Now,
		cron:     gocron.NewScheduler(time.UTC),
		sent:     make(map[uuid.UUID]domain.Date),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start schedules the job and returns immediately. The first run happens
// right away. Runs never overlap.
func (s *Scheduler) Start(ctx context.Context) error {
	s.cron.SingletonModeAll()
	if _, err := s.cron.Every(s.interval).Do(s.run, ctx); err != nil {
		return fmt.Errorf("failed to schedule reminder job: %w", err)
	}
	s.cron.StartAsync()
	s.logger.Info("reminder scheduler started", slog.Duration("interval", s.interval))
	return nil
}

// Stop stops the job. A run in progress is allowed to finish.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("reminder scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	sent, err := s.CheckDue(ctx)
	if err != nil {
		s.logger.Error("reminder run failed", slog.String("error", redact.Error(err)))
		return
	}
	s.logger.Debug("reminder run finished", slog.Int("reminders_sent", sent))
}

// CheckDue evaluates every stored learner once and returns the number of
// reminders emitted. A learner that cannot be loaded is skipped.
func (s *Scheduler) CheckDue(ctx context.Context) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ids, err := s.store.ListProfileIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list profiles: %w", err)
	}

	now := s.now()
	sent := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		state, err := s.store.Load(ctx, id)
		if err != nil {
			if !errors.Is(err, store.ErrProfileNotFound) {
				log.Warn("skipping reminder check",
					slog.String("profile_id", id.String()),
					slog.String("error", redact.Error(err)))
			}
			continue
		}

		ok, err := s.remind(ctx, *state, now)
		if err != nil {
			log.Error("failed to emit reminder",
				slog.String("profile_id", id.String()),
				slog.String("error", redact.Error(err)))
			continue
		}
		if ok {
			sent++
		}
	}
	return sent, nil
}

// remind emits a reminder for one learner if one is due.
func (s *Scheduler) remind(ctx context.Context, state domain.ProfileState, now time.Time) (bool, error) {
	day, due, ok := s.shouldRemind(state, now)
	if !ok {
		return false, nil
	}

	payload := events.ReviewsDuePayload{DueCount: due, LocalDay: day.String()}
	event, err := events.NewEvent(events.TypeReviewsDue, state.Profile.ID, payload, now.UTC())
	if err != nil {
		return false, fmt.Errorf("failed to create reminder event: %w", err)
	}

	s.mu.Lock()
	s.sent[state.Profile.ID] = day
	s.mu.Unlock()

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		return true, fmt.Errorf("failed to emit reminder event: %w", err)
	}
	return true, nil
}

// shouldRemind returns the learner's local day and due count when a
// reminder should go out now.
func (s *Scheduler) shouldRemind(state domain.ProfileState, now time.Time) (domain.Date, int, bool) {
	prefs := state.Profile.Preferences
	if !prefs.NotificationsEnabled {
		return domain.Date{}, 0, false
	}

	hour, minute, err := prefs.ReminderClock()
	if err != nil {
		return domain.Date{}, 0, false
	}

	local := now.In(prefs.Location())
	day := domain.DateOf(local)
	if local.Hour()*60+local.Minute() < hour*60+minute {
		return domain.Date{}, 0, false
	}

	s.mu.Lock()
	last, seen := s.sent[state.Profile.ID]
	s.mu.Unlock()
	if seen && last == day {
		return domain.Date{}, 0, false
	}

	due := len(s.engine.DueItems(state, now))
	if due == 0 {
		return domain.Date{}, 0, false
	}
	return day, due, true
}
