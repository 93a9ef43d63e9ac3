package store

import (
	"math"
	"sort"

	"github.com/tgienger/taskdash/internal/models"
)

// Dashboard summarizes the current user's work
type Dashboard struct {
	MyTasks  []models.Task
	DueToday []models.Task
	Overdue  []models.Task
	// Upcoming covers tomorrow through seven days out, excluding done tasks
	Upcoming []models.Task

	// InProgressProjects counts projects with both done and open tasks
	InProgressProjects int
	// CompletionRate is the rounded percentage of my tasks that are done
	CompletionRate int
}

// Dashboard computes the summary for the current user
func (s *Store) Dashboard() Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	today := models.StartOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	nextWeek := today.AddDate(0, 0, 7)

	var d Dashboard
	done := 0
	for _, t := range s.tasks {
		if t.AssigneeID != s.currentUser.ID {
			continue
		}
		d.MyTasks = append(d.MyTasks, t.Clone())
		if t.Status == models.StatusDone {
			done++
		}
		if models.IsDueToday(t, now) {
			d.DueToday = append(d.DueToday, t.Clone())
		}
		if models.IsOverdue(t, now) {
			d.Overdue = append(d.Overdue, t.Clone())
		}
		if t.DueDate != nil && t.Status != models.StatusDone {
			due := models.DueDay(*t.DueDate, now)
			if !due.Before(tomorrow) && !due.After(nextWeek) {
				d.Upcoming = append(d.Upcoming, t.Clone())
			}
		}
	}
	if len(d.MyTasks) > 0 {
		d.CompletionRate = int(math.Round(float64(done) / float64(len(d.MyTasks)) * 100))
	}

	for _, p := range s.projects {
		total, completed := s.progressLocked(p.ID)
		if completed > 0 && completed < total {
			d.InProgressProjects++
		}
	}
	return d
}

// ProjectProgress returns the number of tasks in the project and how many
// of them are done
func (s *Store) ProjectProgress(projectID string) (total, done int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progressLocked(projectID)
}

func (s *Store) progressLocked(projectID string) (total, done int) {
	for _, t := range s.tasks {
		if t.ProjectID != projectID {
			continue
		}
		total++
		if t.Status == models.StatusDone {
			done++
		}
	}
	return total, done
}

// RecentlyUpdated returns tasks ordered by UpdatedAt, newest first.
// A non-positive limit returns every task.
func (s *Store) RecentlyUpdated(limit int) []models.Task {
	s.mu.Lock()
	tasks := cloneTasks(s.tasks)
	s.mu.Unlock()

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].UpdatedAt.After(tasks[j].UpdatedAt)
	})
	if limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}
	return tasks
}

// CompletedTasks returns done tasks, most recently updated first
func (s *Store) CompletedTasks() []models.Task {
	var out []models.Task
	for _, t := range s.RecentlyUpdated(0) {
		if t.Status == models.StatusDone {
			out = append(out, t)
		}
	}
	return out
}
