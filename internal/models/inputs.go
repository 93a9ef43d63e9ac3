package models

import "time"

// NewTask holds the caller-supplied fields of a task being created
type NewTask struct {
	Title       string   `validate:"required,max=500"`
	Description string   `validate:"max=5000"`
	Status      Status   `validate:"omitempty,oneof=todo in-progress done"`
	Priority    Priority `validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time
	ProjectID   string `validate:"required"`
	AssigneeID  string
}

// TaskUpdate is a partial task update. Nil fields are left unchanged.
// An empty AssigneeID or ProjectID clears the reference; ClearDueDate
// removes the due date and wins over DueDate.
type TaskUpdate struct {
	Title        *string
	Description  *string
	Status       *Status
	Priority     *Priority
	DueDate      *time.Time
	ClearDueDate bool
	ProjectID    *string
	AssigneeID   *string
}

// IsEmpty reports whether the update changes nothing
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil &&
		u.Priority == nil && u.DueDate == nil && !u.ClearDueDate &&
		u.ProjectID == nil && u.AssigneeID == nil
}

// NewProject holds the caller-supplied fields of a project being created
type NewProject struct {
	Name        string `validate:"required,max=100"`
	Description string `validate:"max=1000"`
}

// ProjectUpdate is a partial project update
type ProjectUpdate struct {
	Name        *string
	Description *string
}

// NewNotification holds the fields of a notification added directly
type NewNotification struct {
	Type      NotificationType
	Content   string
	TaskID    string
	ProjectID string
	Key       string
}

// Ptr returns a pointer to v, for building partial updates
func Ptr[T any](v T) *T {
	return &v
}
