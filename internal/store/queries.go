package store

import (
	"strings"

	"github.com/tgienger/taskdash/internal/models"
)

// ListTasks returns every task in collection order
func (s *Store) ListTasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks)
}

// GetTask looks a task up by id
func (s *Store) GetTask(id string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.taskIndexLocked(id)
	if i < 0 {
		return models.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// ListTasksByStatus returns the tasks with the given status in collection order
func (s *Store) ListTasksByStatus(status models.Status) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Task
	for _, t := range s.tasks {
		if t.Status == status {
			out = append(out, t.Clone())
		}
	}
	return out
}

// ListProjects returns every project in collection order
func (s *Store) ListProjects() []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Project{}, s.projects...)
}

// GetProject looks a project up by id
func (s *Store) GetProject(id string) (models.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.projectIndexLocked(id)
	if i < 0 {
		return models.Project{}, false
	}
	return s.projects[i], true
}

// SearchProjects returns projects whose name or description contains
// query, ignoring case. An empty query returns every project.
func (s *Store) SearchProjects(query string) []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := strings.ToLower(query)
	var out []models.Project
	for _, p := range s.projects {
		if q == "" || strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}
	return out
}

// ListUsers returns every user
func (s *Store) ListUsers() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User{}, s.users...)
}

// GetUser looks a user up by id
func (s *Store) GetUser(id string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userLocked(id)
}

// FilterOptions returns the active view filter
func (s *Store) FilterOptions() models.FilterOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter.Clone()
}

// SetFilterOptions replaces the active view filter
func (s *Store) SetFilterOptions(opts models.FilterOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = opts.Clone()
	s.version++
}

// FilteredTasks returns the tasks matching the active filter, in collection
// order. The result is recomputed only when tasks, the filter, or the
// current day change.
func (s *Store) FilteredTasks() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	day := models.StartOfDay(now)
	if !s.cache.valid || s.cache.version != s.version || !s.cache.day.Equal(day) {
		s.cache = filterCache{
			valid:   true,
			version: s.version,
			day:     day,
			tasks:   FilterTasks(s.tasks, s.filter, now),
		}
	}
	return cloneTasks(s.cache.tasks)
}

func (s *Store) taskIndexLocked(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) projectIndexLocked(id string) int {
	for i := range s.projects {
		if s.projects[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) userLocked(id string) (models.User, bool) {
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// projectNameLocked resolves the denormalized project name; unknown ids
// resolve to ""
func (s *Store) projectNameLocked(id string) string {
	if i := s.projectIndexLocked(id); i >= 0 {
		return s.projects[i].Name
	}
	return ""
}

func (s *Store) userNameLocked(id string) string {
	if u, ok := s.userLocked(id); ok {
		return u.Name
	}
	return ""
}

func cloneTasks(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
