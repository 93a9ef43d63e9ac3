package store

import (
	"slices"
	"strings"
	"time"

	"github.com/tgienger/taskdash/internal/models"
)

// FilterTasks applies every populated predicate of opts as a conjunction
// and returns copies of the matching tasks in their original order.
// Due-date buckets are evaluated at day granularity in now's location.
func FilterTasks(tasks []models.Task, opts models.FilterOptions, now time.Time) []models.Task {
	query := strings.ToLower(opts.SearchQuery)
	today := models.StartOfDay(now)

	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if !matchesSearch(t, query) {
			continue
		}
		if len(opts.Status) > 0 && !slices.Contains(opts.Status, t.Status) {
			continue
		}
		if len(opts.Priority) > 0 && !slices.Contains(opts.Priority, t.Priority) {
			continue
		}
		if opts.ProjectID != "" && t.ProjectID != opts.ProjectID {
			continue
		}
		if opts.AssigneeID != "" && t.AssigneeID != opts.AssigneeID {
			continue
		}
		if !matchesDue(t, opts.DueDate, today, now) {
			continue
		}
		out = append(out, t.Clone())
	}
	return out
}

// matchesSearch expects query already lowercased
func matchesSearch(t models.Task, query string) bool {
	if query == "" {
		return true
	}
	for _, field := range []string{t.Title, t.Description, t.ProjectName, t.AssigneeName} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func matchesDue(t models.Task, bucket models.DueBucket, today, now time.Time) bool {
	if bucket == models.DueAny {
		return true
	}
	if bucket == models.DueNoDueDate {
		return t.DueDate == nil
	}
	if t.DueDate == nil {
		return false
	}

	due := models.DueDay(*t.DueDate, now)
	switch bucket {
	case models.DueToday:
		return due.Equal(today)
	case models.DueThisWeek:
		return !due.Before(today) && !due.After(today.AddDate(0, 0, 7))
	case models.DueOverdue:
		// Completed work is never overdue, matching the task card indicator.
		return t.Status != models.StatusDone && due.Before(today)
	}
	return false
}
