package models

import "time"

// Status is the workflow state of a task
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Statuses lists every status in board order
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Label returns the display name used in notification text
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// Next cycles todo -> in-progress -> done -> todo
func (s Status) Next() Status {
	switch s {
	case StatusTodo:
		return StatusInProgress
	case StatusInProgress:
		return StatusDone
	}
	return StatusTodo
}

// Priority is the urgency of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from lowest to highest
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// IsValid reports whether p is a known priority
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// User is a person tasks can be assigned to
type User struct {
	ID        string `json:"id" toml:"id"`
	Name      string `json:"name" toml:"name"`
	Email     string `json:"email" toml:"email"`
	AvatarURL string `json:"avatarUrl,omitempty" toml:"avatar-url"`
}

// Project groups tasks
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Comment is an immutable note left on a task
type Comment struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	TaskID     string    `json:"taskId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Attachment is an immutable file reference on a task
type Attachment struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	TaskID     string    `json:"taskId"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Task represents a single unit of work.
//
// ProjectName and AssigneeName are copies of the referenced entity's name
// taken at the last mutation that touched the reference. An empty
// AssigneeID means unassigned and an empty ProjectID means the owning
// project was deleted.
type Task struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Status       Status       `json:"status"`
	Priority     Priority     `json:"priority"`
	DueDate      *time.Time   `json:"dueDate"`
	ProjectID    string       `json:"projectId"`
	ProjectName  string       `json:"projectName,omitempty"`
	AssigneeID   string       `json:"assigneeId,omitempty"`
	AssigneeName string       `json:"assigneeName,omitempty"`
	Attachments  []Attachment `json:"attachments"`
	Comments     []Comment    `json:"comments"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Clone returns a copy that shares no slices or pointers with t
func (t Task) Clone() Task {
	c := t
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	c.Attachments = append([]Attachment{}, t.Attachments...)
	c.Comments = append([]Comment{}, t.Comments...)
	return c
}

// NotificationType classifies notifications
type NotificationType string

const (
	NotificationAssignment   NotificationType = "assignment"
	NotificationDueDate      NotificationType = "due-date"
	NotificationMention      NotificationType = "mention"
	NotificationStatusUpdate NotificationType = "status-update"
	NotificationComment      NotificationType = "comment"
)

// Notification is an alert generated as a side effect of task activity.
// Content is rendered once at creation time. Key is only set by the
// due-date sweep and identifies (bucket, task, day).
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Content   string           `json:"content"`
	Read      bool             `json:"read"`
	TaskID    string           `json:"taskId,omitempty"`
	ProjectID string           `json:"projectId,omitempty"`
	Key       string           `json:"key,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}
