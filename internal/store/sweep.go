package store

import (
	"context"
	"fmt"
	"time"

	"github.com/tgienger/taskdash/internal/models"
	"go.uber.org/zap"
)

// DefaultSweepInterval is how often the due-date sweep runs
const DefaultSweepInterval = 24 * time.Hour

// SweepDueDates emits a due-date notification for every task that is not
// done and is due today or overdue. Each (bucket, task, day) is notified at
// most once, keyed by Notification.Key, so repeated sweeps on the same day
// are no-ops.
func (s *Store) SweepDueDates() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpenLocked(); err != nil {
		return 0, err
	}

	now := s.clock()
	today := models.StartOfDay(now)
	day := today.Format(time.DateOnly)

	seen := make(map[string]bool)
	for _, n := range s.notifications {
		if n.Key != "" {
			seen[n.Key] = true
		}
	}

	var pending []models.NewNotification
	for _, t := range s.tasks {
		if t.DueDate == nil || t.Status == models.StatusDone {
			continue
		}

		var bucket, content string
		due := models.DueDay(*t.DueDate, now)
		switch {
		case due.Equal(today):
			bucket = string(models.DueToday)
			content = fmt.Sprintf("Task \"%s\" is due today.", t.Title)
		case due.Before(today):
			bucket = string(models.DueOverdue)
			content = fmt.Sprintf("Task \"%s\" is overdue.", t.Title)
		default:
			continue
		}

		key := dueDateKey(bucket, t.ID, day)
		if seen[key] {
			continue
		}
		seen[key] = true
		pending = append(pending, models.NewNotification{
			Type:      models.NotificationDueDate,
			Content:   content,
			TaskID:    t.ID,
			ProjectID: t.ProjectID,
			Key:       key,
		})
	}

	s.metrics.Sweep()
	if len(pending) == 0 {
		s.logger.Debug("due-date sweep found nothing new")
		return 0, nil
	}

	s.addNotificationsLocked(pending)
	s.logger.Info("due-date sweep completed", zap.Int("notifications", len(pending)))
	return len(pending), s.commit("sweep_due_dates", KeyNotifications)
}

func dueDateKey(bucket, taskID, day string) string {
	return "due-date:" + bucket + ":" + taskID + ":" + day
}

// Sweeper runs SweepDueDates once at start and then on every interval
// until its context is cancelled
type Sweeper struct {
	store    *Store
	interval time.Duration
	logger   *zap.Logger

	// OnSweep, if set, is called after each sweep with the number of new
	// notifications
	OnSweep func(n int)
}

// NewSweeper creates a sweeper. A non-positive interval uses
// DefaultSweepInterval.
func NewSweeper(s *Store, interval time.Duration, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{store: s, interval: interval, logger: logger}
}

// Run blocks until ctx is done
func (w *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("due-date sweeper started", zap.Duration("interval", w.interval))
	w.sweep()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("due-date sweeper stopped")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

// Start runs the sweeper in the background. The returned stop function
// cancels it and waits for the current sweep to finish.
func (w *Sweeper) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}

func (w *Sweeper) sweep() {
	n, err := w.store.SweepDueDates()
	if err != nil {
		w.logger.Error("due-date sweep failed", zap.Error(err))
	}
	if w.OnSweep != nil {
		w.OnSweep(n)
	}
}
