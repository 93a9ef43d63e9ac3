// Package store implements the task store: the single owner of the task,
// project, user and notification collections.
//
// Every mutation runs under one lock, applies its change in memory,
// appends any notifications it triggers, then rewrites the affected
// collections through the Persister. Queries hand out copies, so callers
// can never modify the collections directly.
package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tgienger/taskdash/internal/metrics"
	"github.com/tgienger/taskdash/internal/models"
	"go.uber.org/zap"
)

// Collection keys in the snapshot store.
const (
	KeyTasks         = "tasks"
	KeyProjects      = "projects"
	KeyNotifications = "notifications"
	KeyUsers         = "users"
)

// Persister reads and writes whole collections as JSON arrays.
// *db.DB implements it.
type Persister interface {
	LoadCollection(key string, dst any) (bool, error)
	SaveCollections(collections map[string]any) error
}

// Options configures Open
type Options struct {
	Persister Persister
	Logger    *zap.Logger
	Metrics   *metrics.Metrics

	// Users seeds the user collection when none is persisted yet.
	Users []models.User
	// CurrentUserID names the local user. Defaults to the first user.
	CurrentUserID string

	// Now and NewID default to time.Now and random UUIDs.
	Now   func() time.Time
	NewID func() string
}

// Store is the task store
type Store struct {
	mu sync.Mutex

	persister Persister
	logger    *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
	newID     func() string

	currentUser   models.User
	users         []models.User
	tasks         []models.Task
	projects      []models.Project
	notifications []models.Notification

	// version changes whenever tasks or the filter change
	version uint64
	filter  models.FilterOptions
	cache   filterCache

	dirty  map[string]bool
	closed bool
}

type filterCache struct {
	valid   bool
	version uint64
	day     time.Time
	tasks   []models.Task
}

// Open loads every collection from the persister and returns a ready
// store. Missing collections start empty; a missing user collection is
// seeded from opts.Users and written back immediately.
func Open(opts Options) (*Store, error) {
	if opts.Persister == nil {
		return nil, fmt.Errorf("%w: persister is required", ErrInvalidInput)
	}

	s := &Store{
		persister: opts.Persister,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		now:       opts.Now,
		newID:     opts.NewID,
		dirty:     make(map[string]bool),
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}

	if _, err := s.persister.LoadCollection(KeyTasks, &s.tasks); err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	if _, err := s.persister.LoadCollection(KeyProjects, &s.projects); err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	if _, err := s.persister.LoadCollection(KeyNotifications, &s.notifications); err != nil {
		return nil, fmt.Errorf("load notifications: %w", err)
	}

	found, err := s.persister.LoadCollection(KeyUsers, &s.users)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if !found || len(s.users) == 0 {
		s.users = append([]models.User(nil), opts.Users...)
		s.dirty[KeyUsers] = true
	}
	if len(s.users) == 0 {
		return nil, fmt.Errorf("%w: at least one user is required", ErrInvalidInput)
	}

	s.currentUser = s.users[0]
	if opts.CurrentUserID != "" {
		u, ok := s.userLocked(opts.CurrentUserID)
		if !ok {
			return nil, fmt.Errorf("%w: current user %q is not a known user", ErrInvalidInput, opts.CurrentUserID)
		}
		s.currentUser = u
	}

	for i := range s.tasks {
		normalizeTask(&s.tasks[i])
	}

	if err := s.flushLocked(); err != nil {
		return nil, err
	}
	s.refreshGaugesLocked()

	s.logger.Info("task store opened",
		zap.Int("tasks", len(s.tasks)),
		zap.Int("projects", len(s.projects)),
		zap.Int("notifications", len(s.notifications)),
		zap.String("current_user", s.currentUser.ID),
	)
	return s, nil
}

// normalizeTask repairs nil slices and missing enums in loaded data
func normalizeTask(t *models.Task) {
	if t.Attachments == nil {
		t.Attachments = []models.Attachment{}
	}
	if t.Comments == nil {
		t.Comments = []models.Comment{}
	}
	if t.Status == "" {
		t.Status = models.StatusTodo
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
}

// Flush writes any collections whose last write failed
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

// Close flushes pending writes. Mutations fail with ErrClosed afterwards;
// queries keep working on the in-memory state.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.flushLocked()
	s.logger.Info("task store closed", zap.Error(err))
	return err
}

// CurrentUser returns the local user whose perspective drives notifications
func (s *Store) CurrentUser() models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentUser
}

func (s *Store) ensureOpenLocked() error {
	if s.closed {
		return ErrClosed
	}
	return nil
}

// clock returns the current time without a monotonic reading, so values
// compare equal after a JSON round trip
func (s *Store) clock() time.Time {
	return s.now().Round(0)
}

// stamp returns a modification time strictly after prev
func (s *Store) stamp(prev time.Time) time.Time {
	now := s.clock()
	if !now.After(prev) {
		now = prev.Add(time.Nanosecond)
	}
	return now
}

// commit marks keys dirty, invalidates derived state and persists.
// The in-memory change has already been applied and is kept even if the
// write fails.
func (s *Store) commit(op string, keys ...string) error {
	for _, key := range keys {
		s.dirty[key] = true
		if key == KeyTasks {
			s.version++
		}
	}
	err := s.flushLocked()
	s.metrics.Mutation(op, err)
	s.refreshGaugesLocked()
	return err
}

func (s *Store) flushLocked() error {
	if len(s.dirty) == 0 {
		return nil
	}

	collections := make(map[string]any, len(s.dirty))
	keys := make([]string, 0, len(s.dirty))
	for key := range s.dirty {
		keys = append(keys, key)
		switch key {
		case KeyTasks:
			collections[key] = nonNil(s.tasks)
		case KeyProjects:
			collections[key] = nonNil(s.projects)
		case KeyNotifications:
			collections[key] = nonNil(s.notifications)
		case KeyUsers:
			collections[key] = nonNil(s.users)
		}
	}
	sort.Strings(keys)

	if err := s.persister.SaveCollections(collections); err != nil {
		s.metrics.PersistError()
		s.logger.Warn("snapshot write failed; keeping in-memory state",
			zap.Strings("collections", keys),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	clear(s.dirty)
	s.logger.Debug("snapshot written", zap.Strings("collections", keys))
	return nil
}

func (s *Store) refreshGaugesLocked() {
	if s.metrics == nil {
		return
	}
	counts := make(map[string]int, 3)
	for _, st := range models.Statuses() {
		counts[string(st)] = 0
	}
	for _, t := range s.tasks {
		counts[string(t.Status)]++
	}
	s.metrics.SetTaskCounts(counts)
	s.metrics.SetUnread(s.unreadLocked())
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
