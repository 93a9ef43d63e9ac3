package models

import "time"

// DueBucket names a class of tasks relative to today's date
type DueBucket string

const (
	DueAny       DueBucket = ""
	DueToday     DueBucket = "today"
	DueThisWeek  DueBucket = "thisWeek"
	DueOverdue   DueBucket = "overdue"
	DueNoDueDate DueBucket = "noDueDate"
)

// DueBuckets lists the selectable buckets, starting with "any"
func DueBuckets() []DueBucket {
	return []DueBucket{DueAny, DueToday, DueThisWeek, DueOverdue, DueNoDueDate}
}

// IsValid reports whether b is a known bucket or empty
func (b DueBucket) IsValid() bool {
	switch b {
	case DueAny, DueToday, DueThisWeek, DueOverdue, DueNoDueDate:
		return true
	}
	return false
}

// FilterOptions is the active view filter. Zero-valued fields do not filter.
type FilterOptions struct {
	Status      []Status
	Priority    []Priority
	ProjectID   string
	AssigneeID  string
	DueDate     DueBucket
	SearchQuery string
}

// IsEmpty reports whether no predicate is active
func (f FilterOptions) IsEmpty() bool {
	return len(f.Status) == 0 && len(f.Priority) == 0 && f.ProjectID == "" &&
		f.AssigneeID == "" && f.DueDate == DueAny && f.SearchQuery == ""
}

// Clone returns a copy that shares no slices with f
func (f FilterOptions) Clone() FilterOptions {
	c := f
	c.Status = append([]Status(nil), f.Status...)
	c.Priority = append([]Priority(nil), f.Priority...)
	return c
}

// StartOfDay truncates t to midnight in t's location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DueDay returns the due date at day granularity in now's location
func DueDay(due time.Time, now time.Time) time.Time {
	return StartOfDay(due.In(now.Location()))
}

// IsOverdue is the task card indicator: a due day before today on a task
// that is not done
func IsOverdue(t Task, now time.Time) bool {
	if t.DueDate == nil || t.Status == StatusDone {
		return false
	}
	return DueDay(*t.DueDate, now).Before(StartOfDay(now))
}

// IsDueToday reports whether the task's due day is today
func IsDueToday(t Task, now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return DueDay(*t.DueDate, now).Equal(StartOfDay(now))
}
