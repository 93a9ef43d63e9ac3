package store

import (
	"fmt"

	"github.com/tgienger/taskdash/internal/models"
	"go.uber.org/zap"
)

// CreateProject appends a new project
func (s *Store) CreateProject(in models.NewProject) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpenLocked(); err != nil {
		return models.Project{}, err
	}

	now := s.clock()
	project := models.Project{
		ID:          s.newID(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.projects = append(s.projects, project)

	s.logger.Info("project created", zap.String("project_id", project.ID))
	return project, s.commit("create_project", KeyProjects)
}

// UpdateProject merges u into the project. A new name is copied eagerly
// into ProjectName on every task of the project; those tasks keep their
// UpdatedAt since only the cached name changes.
func (s *Store) UpdateProject(id string, u models.ProjectUpdate) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpenLocked(); err != nil {
		return models.Project{}, err
	}

	i := s.projectIndexLocked(id)
	if i < 0 {
		err := fmt.Errorf("%w: %s", ErrProjectNotFound, id)
		s.metrics.Mutation("update_project", err)
		return models.Project{}, err
	}

	next := s.projects[i]
	if u.Name != nil {
		next.Name = *u.Name
	}
	if u.Description != nil {
		next.Description = *u.Description
	}
	next.UpdatedAt = s.stamp(next.UpdatedAt)

	keys := []string{KeyProjects}
	renamed := next.Name != s.projects[i].Name
	synced := 0
	if renamed {
		for j := range s.tasks {
			if s.tasks[j].ProjectID == id {
				s.tasks[j].ProjectName = next.Name
				synced++
			}
		}
		keys = append(keys, KeyTasks)
	}
	s.projects[i] = next

	s.logger.Info("project updated",
		zap.String("project_id", id),
		zap.Bool("renamed", renamed),
		zap.Int("tasks_synced", synced),
	)
	return next, s.commit("update_project", keys...)
}

// DeleteProject removes the project and orphans its tasks: their project
// reference and cached name are cleared and UpdatedAt advances. Tasks and
// their notifications are kept.
func (s *Store) DeleteProject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpenLocked(); err != nil {
		return err
	}

	i := s.projectIndexLocked(id)
	if i < 0 {
		err := fmt.Errorf("%w: %s", ErrProjectNotFound, id)
		s.metrics.Mutation("delete_project", err)
		return err
	}

	orphaned := 0
	for j := range s.tasks {
		if s.tasks[j].ProjectID == id {
			s.tasks[j].ProjectID = ""
			s.tasks[j].ProjectName = ""
			s.tasks[j].UpdatedAt = s.stamp(s.tasks[j].UpdatedAt)
			orphaned++
		}
	}
	s.projects = append(s.projects[:i:i], s.projects[i+1:]...)

	s.logger.Info("project deleted",
		zap.String("project_id", id),
		zap.Int("tasks_orphaned", orphaned),
	)
	return s.commit("delete_project", KeyProjects, KeyTasks)
}
