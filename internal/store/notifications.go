package store

import (
	"fmt"

	"github.com/tgienger/taskdash/internal/models"
	"go.uber.org/zap"
)

// ListNotifications returns every notification, newest first
func (s *Store) ListNotifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Notification{}, s.notifications...)
}

// UnreadNotificationCount counts notifications not yet marked read
func (s *Store) UnreadNotificationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unreadLocked()
}

func (s *Store) unreadLocked() int {
	n := 0
	for _, notification := range s.notifications {
		if !notification.Read {
			n++
		}
	}
	return n
}

// AddNotification records a notification directly, for events the store
// does not generate itself (mentions, for example)
func (s *Store) AddNotification(in models.NewNotification) (models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpenLocked(); err != nil {
		return models.Notification{}, err
	}

	added := s.addNotificationsLocked([]models.NewNotification{in})
	return added[0], s.commit("add_notification", KeyNotifications)
}

// MarkNotificationRead sets the read flag on one notification
func (s *Store) MarkNotificationRead(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpenLocked(); err != nil {
		return err
	}

	for i := range s.notifications {
		if s.notifications[i].ID != id {
			continue
		}
		if s.notifications[i].Read {
			return nil
		}
		s.notifications[i].Read = true
		return s.commit("mark_notification_read", KeyNotifications)
	}

	err := fmt.Errorf("%w: %s", ErrNotificationNotFound, id)
	s.metrics.Mutation("mark_notification_read", err)
	return err
}

// MarkAllNotificationsRead sets the read flag everywhere and returns how
// many notifications changed
func (s *Store) MarkAllNotificationsRead() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpenLocked(); err != nil {
		return 0, err
	}

	changed := 0
	for i := range s.notifications {
		if !s.notifications[i].Read {
			s.notifications[i].Read = true
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	return changed, s.commit("mark_all_notifications_read", KeyNotifications)
}

// addNotificationsLocked prepends the notifications in order, so the last
// one given ends up first
func (s *Store) addNotificationsLocked(pending []models.NewNotification) []models.Notification {
	if len(pending) == 0 {
		return nil
	}

	now := s.clock()
	added := make([]models.Notification, len(pending))
	for i, p := range pending {
		added[i] = models.Notification{
			ID:        s.newID(),
			Type:      p.Type,
			Content:   p.Content,
			TaskID:    p.TaskID,
			ProjectID: p.ProjectID,
			Key:       p.Key,
			CreatedAt: now,
		}
		s.metrics.Notification(string(p.Type))
		s.logger.Debug("notification generated",
			zap.String("type", string(p.Type)),
			zap.String("task_id", p.TaskID),
		)
	}

	merged := make([]models.Notification, 0, len(added)+len(s.notifications))
	for i := len(added) - 1; i >= 0; i-- {
		merged = append(merged, added[i])
	}
	s.notifications = append(merged, s.notifications...)
	return added
}
