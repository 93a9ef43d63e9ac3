package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskdash/internal/models"
)

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	active := env.project(t, "Active")
	idle := env.project(t, "Idle")

	env.task(t, models.NewTask{Title: "due", ProjectID: active.ID, AssigneeID: userJohn.ID, DueDate: dayOffset(0)})
	env.task(t, models.NewTask{Title: "late", ProjectID: active.ID, AssigneeID: userJohn.ID, DueDate: dayOffset(-2)})
	env.task(t, models.NewTask{Title: "soon", AssigneeID: userJohn.ID, DueDate: dayOffset(3)})
	env.task(t, models.NewTask{Title: "finished", ProjectID: active.ID, AssigneeID: userJohn.ID, Status: models.StatusDone, DueDate: dayOffset(-1)})
	env.task(t, models.NewTask{Title: "theirs", ProjectID: idle.ID, AssigneeID: userJane.ID, DueDate: dayOffset(0)})

	d := env.store.Dashboard()
	assert.Len(t, d.MyTasks, 4)
	require.Len(t, d.DueToday, 1)
	assert.Equal(t, "due", d.DueToday[0].Title)
	require.Len(t, d.Overdue, 1)
	assert.Equal(t, "late", d.Overdue[0].Title)
	require.Len(t, d.Upcoming, 1)
	assert.Equal(t, "soon", d.Upcoming[0].Title)
	assert.Equal(t, 25, d.CompletionRate)
	assert.Equal(t, 1, d.InProgressProjects)
}

func TestDashboardEmpty(t *testing.T) {
	env := newTestEnv(t)
	d := env.store.Dashboard()
	assert.Empty(t, d.MyTasks)
	assert.Zero(t, d.CompletionRate)
	assert.Zero(t, d.InProgressProjects)
}

func TestProjectProgress(t *testing.T) {
	env := newTestEnv(t)
	p := env.project(t, "P")
	env.task(t, models.NewTask{Title: "a", ProjectID: p.ID, Status: models.StatusDone})
	env.task(t, models.NewTask{Title: "b", ProjectID: p.ID})
	env.task(t, models.NewTask{Title: "c", ProjectID: p.ID, Status: models.StatusInProgress})
	env.task(t, models.NewTask{Title: "elsewhere"})

	total, done := env.store.ProjectProgress(p.ID)
	assert.Equal(t, 3, total)
	assert.Equal(t, 1, done)

	total, done = env.store.ProjectProgress("missing")
	assert.Zero(t, total)
	assert.Zero(t, done)
}

func TestRecentlyUpdatedAndCompleted(t *testing.T) {
	env := newTestEnv(t)
	a := env.task(t, models.NewTask{Title: "a"})
	env.clock.Advance(time.Minute)
	b := env.task(t, models.NewTask{Title: "b"})
	env.clock.Advance(time.Minute)
	c := env.task(t, models.NewTask{Title: "c"})
	env.clock.Advance(time.Minute)

	_, err := env.store.UpdateTaskStatus(a.ID, models.StatusDone)
	require.NoError(t, err)

	assert.Equal(t, []string{a.ID, c.ID, b.ID}, ids(env.store.RecentlyUpdated(0)))
	assert.Equal(t, []string{a.ID, c.ID}, ids(env.store.RecentlyUpdated(2)))
	assert.Equal(t, []string{a.ID}, ids(env.store.CompletedTasks()))
}
