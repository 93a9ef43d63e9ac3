package store

import (
	"fmt"

	"github.com/tgienger/taskdash/internal/models"
	"go.uber.org/zap"
)

// CreateTask appends a new task, resolving its project and assignee names,
// and announces it with a status-update notification plus an assignment
// notification when an assignee is given.
func (s *Store) CreateTask(in models.NewTask) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpenLocked(); err != nil {
		return models.Task{}, err
	}

	if in.Status == "" {
		in.Status = models.StatusTodo
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if err := checkEnums(&in.Status, &in.Priority); err != nil {
		return models.Task{}, err
	}

	now := s.clock()
	task := models.Task{
		ID:           s.newID(),
		Title:        in.Title,
		Description:  in.Description,
		Status:       in.Status,
		Priority:     in.Priority,
		ProjectID:    in.ProjectID,
		ProjectName:  s.projectNameLocked(in.ProjectID),
		AssigneeID:   in.AssigneeID,
		AssigneeName: s.userNameLocked(in.AssigneeID),
		Attachments:  []models.Attachment{},
		Comments:     []models.Comment{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.DueDate != nil {
		due := *in.DueDate
		task.DueDate = &due
	}

	created := fmt.Sprintf("New task \"%s\" created.", task.Title)
	if task.ProjectName != "" {
		created = fmt.Sprintf("New task \"%s\" created in project \"%s\".", task.Title, task.ProjectName)
	}
	pending := []models.NewNotification{{
		Type:      models.NotificationStatusUpdate,
		Content:   created,
		TaskID:    task.ID,
		ProjectID: task.ProjectID,
	}}
	if task.AssigneeID != "" && task.AssigneeName != "" {
		pending = append(pending, assignmentNotification(task))
	}

	s.tasks = append(s.tasks, task)
	s.addNotificationsLocked(pending)

	s.logger.Info("task created",
		zap.String("task_id", task.ID),
		zap.String("project_id", task.ProjectID),
		zap.String("assignee_id", task.AssigneeID),
	)
	return task.Clone(), s.commit("create_task", KeyTasks, KeyNotifications)
}

// UpdateTask merges u into the task and refreshes UpdatedAt. Changing the
// project or assignee re-resolves the cached name; assigning someone other
// than the current user notifies them.
func (s *Store) UpdateTask(id string, u models.TaskUpdate) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpenLocked(); err != nil {
		return models.Task{}, err
	}

	i, next, pending, err := s.prepareTaskUpdateLocked(id, u)
	if err != nil {
		s.metrics.Mutation("update_task", err)
		return models.Task{}, err
	}

	s.tasks[i] = next
	s.addNotificationsLocked(pending)

	s.logger.Info("task updated", zap.String("task_id", id))
	return next.Clone(), s.commit("update_task", KeyTasks, KeyNotifications)
}

// UpdateTaskStatus is UpdateTask with only the status set, plus a
// status-update notification unless the task is assigned to the current
// user.
func (s *Store) UpdateTaskStatus(id string, status models.Status) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpenLocked(); err != nil {
		return models.Task{}, err
	}

	i, next, pending, err := s.prepareTaskUpdateLocked(id, models.TaskUpdate{Status: &status})
	if err != nil {
		s.metrics.Mutation("update_task_status", err)
		return models.Task{}, err
	}

	if next.AssigneeID != s.currentUser.ID {
		pending = append(pending, models.NewNotification{
			Type:      models.NotificationStatusUpdate,
			Content:   fmt.Sprintf("Status of task \"%s\" changed to %s.", next.Title, status.Label()),
			TaskID:    next.ID,
			ProjectID: next.ProjectID,
		})
	}

	s.tasks[i] = next
	s.addNotificationsLocked(pending)

	s.logger.Info("task status changed",
		zap.String("task_id", id),
		zap.String("status", string(status)),
	)
	return next.Clone(), s.commit("update_task_status", KeyTasks, KeyNotifications)
}

// prepareTaskUpdateLocked builds the updated task and the notifications the
// update triggers without modifying the store
func (s *Store) prepareTaskUpdateLocked(id string, u models.TaskUpdate) (int, models.Task, []models.NewNotification, error) {
	i := s.taskIndexLocked(id)
	if i < 0 {
		return -1, models.Task{}, nil, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if err := checkEnums(u.Status, u.Priority); err != nil {
		return -1, models.Task{}, nil, err
	}

	prev := s.tasks[i]
	next := prev.Clone()

	if u.Title != nil {
		next.Title = *u.Title
	}
	if u.Description != nil {
		next.Description = *u.Description
	}
	if u.Status != nil {
		next.Status = *u.Status
	}
	if u.Priority != nil {
		next.Priority = *u.Priority
	}
	if u.ClearDueDate {
		next.DueDate = nil
	} else if u.DueDate != nil {
		due := *u.DueDate
		next.DueDate = &due
	}
	if u.ProjectID != nil && *u.ProjectID != prev.ProjectID {
		next.ProjectID = *u.ProjectID
		next.ProjectName = s.projectNameLocked(next.ProjectID)
	}

	var pending []models.NewNotification
	if u.AssigneeID != nil && *u.AssigneeID != prev.AssigneeID {
		next.AssigneeID = *u.AssigneeID
		next.AssigneeName = s.userNameLocked(next.AssigneeID)
		if next.AssigneeID != "" && next.AssigneeName != "" && next.AssigneeID != s.currentUser.ID {
			pending = append(pending, assignmentNotification(next))
		}
	}

	next.UpdatedAt = s.stamp(prev.UpdatedAt)
	return i, next, pending, nil
}

// DeleteTask removes the task together with every notification that
// refers to it
func (s *Store) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpenLocked(); err != nil {
		return err
	}

	i := s.taskIndexLocked(id)
	if i < 0 {
		err := fmt.Errorf("%w: %s", ErrTaskNotFound, id)
		s.metrics.Mutation("delete_task", err)
		return err
	}

	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)

	kept := make([]models.Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if n.TaskID != id {
			kept = append(kept, n)
		}
	}
	removed := len(s.notifications) - len(kept)
	s.notifications = kept

	s.logger.Info("task deleted",
		zap.String("task_id", id),
		zap.Int("notifications_removed", removed),
	)
	return s.commit("delete_task", KeyTasks, KeyNotifications)
}

// AddComment appends a comment authored by the current user and notifies
// the assignee when that is someone else
func (s *Store) AddComment(taskID, content string) (models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpenLocked(); err != nil {
		return models.Comment{}, err
	}

	i := s.taskIndexLocked(taskID)
	if i < 0 {
		err := fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
		s.metrics.Mutation("add_comment", err)
		return models.Comment{}, err
	}

	next := s.tasks[i].Clone()
	comment := models.Comment{
		ID:         s.newID(),
		Content:    content,
		TaskID:     taskID,
		AuthorID:   s.currentUser.ID,
		AuthorName: s.currentUser.Name,
		CreatedAt:  s.clock(),
	}
	next.Comments = append(next.Comments, comment)
	next.UpdatedAt = s.stamp(s.tasks[i].UpdatedAt)

	var pending []models.NewNotification
	if next.AssigneeID != "" && next.AssigneeID != s.currentUser.ID {
		pending = append(pending, models.NewNotification{
			Type:      models.NotificationComment,
			Content:   fmt.Sprintf("%s commented on task \"%s\".", comment.AuthorName, next.Title),
			TaskID:    next.ID,
			ProjectID: next.ProjectID,
		})
	}

	s.tasks[i] = next
	s.addNotificationsLocked(pending)

	s.logger.Info("comment added",
		zap.String("task_id", taskID),
		zap.String("comment_id", comment.ID),
	)
	return comment, s.commit("add_comment", KeyTasks, KeyNotifications)
}

// AddAttachment appends a file reference to the task
func (s *Store) AddAttachment(taskID, name, url string) (models.Attachment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpenLocked(); err != nil {
		return models.Attachment{}, err
	}

	i := s.taskIndexLocked(taskID)
	if i < 0 {
		err := fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
		s.metrics.Mutation("add_attachment", err)
		return models.Attachment{}, err
	}

	next := s.tasks[i].Clone()
	attachment := models.Attachment{
		ID:         s.newID(),
		Name:       name,
		URL:        url,
		TaskID:     taskID,
		UploadedAt: s.clock(),
	}
	next.Attachments = append(next.Attachments, attachment)
	next.UpdatedAt = s.stamp(s.tasks[i].UpdatedAt)
	s.tasks[i] = next

	s.logger.Info("attachment added",
		zap.String("task_id", taskID),
		zap.String("attachment_id", attachment.ID),
	)
	return attachment, s.commit("add_attachment", KeyTasks)
}

func assignmentNotification(t models.Task) models.NewNotification {
	return models.NewNotification{
		Type:      models.NotificationAssignment,
		Content:   fmt.Sprintf("Task \"%s\" assigned to %s.", t.Title, t.AssigneeName),
		TaskID:    t.ID,
		ProjectID: t.ProjectID,
	}
}
