package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskdash/internal/models"
)

func TestCreateProject(t *testing.T) {
	env := newTestEnv(t)

	p, err := env.store.CreateProject(models.NewProject{Name: "Launch", Description: "Q4 launch"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)

	got, ok := env.store.GetProject(p.ID)
	require.True(t, ok)
	assert.Equal(t, p, got)
	assert.Zero(t, env.store.UnreadNotificationCount(), "projects do not notify")
}

func TestUpdateProjectRenameSyncsTasks(t *testing.T) {
	env := newTestEnv(t)
	p := env.project(t, "Old")
	other := env.project(t, "Other")
	inP := env.task(t, models.NewTask{Title: "a", ProjectID: p.ID})
	inOther := env.task(t, models.NewTask{Title: "b", ProjectID: other.ID})
	env.clock.Advance(time.Hour)

	updated, err := env.store.UpdateProject(p.ID, models.ProjectUpdate{Name: models.Ptr("New")})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.True(t, updated.UpdatedAt.After(p.UpdatedAt))

	got, _ := env.store.GetTask(inP.ID)
	assert.Equal(t, "New", got.ProjectName)
	assert.Equal(t, inP.UpdatedAt, got.UpdatedAt, "a rename only refreshes the cached name")

	got, _ = env.store.GetTask(inOther.ID)
	assert.Equal(t, "Other", got.ProjectName)

	var stored []models.Task
	env.persister.stored(t, KeyTasks, &stored)
	require.Len(t, stored, 2)
	assert.Equal(t, "New", stored[0].ProjectName)
}

func TestUpdateProjectDescriptionOnly(t *testing.T) {
	env := newTestEnv(t)
	p := env.project(t, "Keep")
	task := env.task(t, models.NewTask{Title: "a", ProjectID: p.ID})

	updated, err := env.store.UpdateProject(p.ID, models.ProjectUpdate{Description: models.Ptr("details")})
	require.NoError(t, err)
	assert.Equal(t, "Keep", updated.Name)
	assert.Equal(t, "details", updated.Description)

	got, _ := env.store.GetTask(task.ID)
	assert.Equal(t, task, got)
}

func TestUpdateProjectNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.store.UpdateProject("missing", models.ProjectUpdate{Name: models.Ptr("x")})
	assert.ErrorIs(t, err, ErrProjectNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteProjectOrphansTasks(t *testing.T) {
	env := newTestEnv(t)
	p := env.project(t, "Doomed")
	task := env.task(t, models.NewTask{Title: "survivor", ProjectID: p.ID, AssigneeID: userJane.ID})
	notificationsBefore := env.store.ListNotifications()

	require.NoError(t, env.store.DeleteProject(p.ID))

	_, ok := env.store.GetProject(p.ID)
	assert.False(t, ok)

	got, ok := env.store.GetTask(task.ID)
	require.True(t, ok)
	assert.Empty(t, got.ProjectID)
	assert.Empty(t, got.ProjectName)
	assert.True(t, got.UpdatedAt.After(task.UpdatedAt))

	assert.Equal(t, notificationsBefore, env.store.ListNotifications())
	assert.ErrorIs(t, env.store.DeleteProject(p.ID), ErrProjectNotFound)
}

func TestSearchProjects(t *testing.T) {
	env := newTestEnv(t)
	env.project(t, "Website Redesign")
	_, err := env.store.CreateProject(models.NewProject{Name: "Mobile", Description: "native website shell"})
	require.NoError(t, err)
	env.project(t, "Backend")

	assert.Len(t, env.store.SearchProjects(""), 3)
	assert.Len(t, env.store.SearchProjects("WEBSITE"), 2)
	assert.Empty(t, env.store.SearchProjects("frontend"))
}
