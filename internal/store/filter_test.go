package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskdash/internal/models"
)

func ids(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func fixtureTasks() []models.Task {
	return []models.Task{
		{ID: "t1", Title: "Fix login bug", Status: models.StatusTodo, Priority: models.PriorityHigh, ProjectID: "p1", ProjectName: "Website", AssigneeID: "user-1", AssigneeName: "John Doe", DueDate: dayOffset(-2)},
		{ID: "t2", Title: "Write docs", Description: "API reference", Status: models.StatusDone, Priority: models.PriorityLow, ProjectID: "p2", ProjectName: "Platform", AssigneeID: "user-2", AssigneeName: "Jane Smith", DueDate: dayOffset(-1)},
		{ID: "t3", Title: "Plan sprint", Status: models.StatusInProgress, Priority: models.PriorityMedium, ProjectID: "p1", ProjectName: "Website", DueDate: dayOffset(0)},
		{ID: "t4", Title: "Release", Status: models.StatusTodo, Priority: models.PriorityHigh, ProjectID: "p2", ProjectName: "Platform", AssigneeID: "user-2", AssigneeName: "Jane Smith", DueDate: dayOffset(7)},
		{ID: "t5", Title: "Retro", Status: models.StatusDone, Priority: models.PriorityMedium, DueDate: dayOffset(8)},
		{ID: "t6", Title: "Someday", Status: models.StatusTodo, Priority: models.PriorityLow},
	}
}

func TestFilterTasksEmptyFilterIsIdentity(t *testing.T) {
	tasks := fixtureTasks()
	got := FilterTasks(tasks, models.FilterOptions{}, testNow())
	assert.Equal(t, ids(tasks), ids(got))
	for i := range tasks {
		assert.Equal(t, tasks[i].Title, got[i].Title)
	}
}

func TestFilterTasksPredicates(t *testing.T) {
	tests := []struct {
		name string
		opts models.FilterOptions
		want []string
	}{
		{"status done", models.FilterOptions{Status: []models.Status{models.StatusDone}}, []string{"t2", "t5"}},
		{"status set", models.FilterOptions{Status: []models.Status{models.StatusDone, models.StatusInProgress}}, []string{"t2", "t3", "t5"}},
		{"priority", models.FilterOptions{Priority: []models.Priority{models.PriorityHigh}}, []string{"t1", "t4"}},
		{"project", models.FilterOptions{ProjectID: "p1"}, []string{"t1", "t3"}},
		{"assignee", models.FilterOptions{AssigneeID: "user-2"}, []string{"t2", "t4"}},
		{"search title", models.FilterOptions{SearchQuery: "LOGIN"}, []string{"t1"}},
		{"search description", models.FilterOptions{SearchQuery: "api"}, []string{"t2"}},
		{"search project name", models.FilterOptions{SearchQuery: "platform"}, []string{"t2", "t4"}},
		{"search assignee name", models.FilterOptions{SearchQuery: "jane"}, []string{"t2", "t4"}},
		{"search no match", models.FilterOptions{SearchQuery: "zebra"}, []string{}},
		{"due today", models.FilterOptions{DueDate: models.DueToday}, []string{"t3"}},
		{"due this week", models.FilterOptions{DueDate: models.DueThisWeek}, []string{"t3", "t4"}},
		{"overdue excludes done", models.FilterOptions{DueDate: models.DueOverdue}, []string{"t1"}},
		{"no due date", models.FilterOptions{DueDate: models.DueNoDueDate}, []string{"t6"}},
		{"conjunction", models.FilterOptions{Priority: []models.Priority{models.PriorityHigh}, ProjectID: "p2"}, []string{"t4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterTasks(fixtureTasks(), tt.opts, testNow())
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterTasksIsIdempotent(t *testing.T) {
	opts := models.FilterOptions{Status: []models.Status{models.StatusTodo}, SearchQuery: "e"}
	once := FilterTasks(fixtureTasks(), opts, testNow())
	twice := FilterTasks(once, opts, testNow())
	assert.Equal(t, once, twice)
}

func TestFilterTasksUsesDayGranularity(t *testing.T) {
	// Due late tonight, checked early this morning.
	due := time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC)
	tasks := []models.Task{{ID: "late", DueDate: &due}}
	now := time.Date(2026, 10, 18, 0, 1, 0, 0, time.UTC)

	assert.Len(t, FilterTasks(tasks, models.FilterOptions{DueDate: models.DueToday}, now), 1)
	assert.Empty(t, FilterTasks(tasks, models.FilterOptions{DueDate: models.DueOverdue}, now))
}

func TestFilteredTasksTracksMutations(t *testing.T) {
	env := newTestEnv(t)
	t1 := env.task(t, models.NewTask{Title: "T1", DueDate: dayOffset(-1)})
	env.task(t, models.NewTask{Title: "T2", DueDate: dayOffset(3)})

	env.store.SetFilterOptions(models.FilterOptions{DueDate: models.DueOverdue})
	assert.Equal(t, []string{t1.ID}, ids(env.store.FilteredTasks()))

	_, err := env.store.UpdateTaskStatus(t1.ID, models.StatusDone)
	require.NoError(t, err)
	assert.Empty(t, env.store.FilteredTasks(), "done tasks are not overdue")

	t3 := env.task(t, models.NewTask{Title: "T3", DueDate: dayOffset(-5)})
	assert.Equal(t, []string{t3.ID}, ids(env.store.FilteredTasks()))

	require.NoError(t, env.store.DeleteTask(t3.ID))
	assert.Empty(t, env.store.FilteredTasks())
}

func TestFilteredTasksTracksFilterAndDay(t *testing.T) {
	env := newTestEnv(t)
	env.task(t, models.NewTask{Title: "tomorrow", DueDate: dayOffset(1)})

	env.store.SetFilterOptions(models.FilterOptions{DueDate: models.DueToday})
	assert.Empty(t, env.store.FilteredTasks())

	env.clock.Advance(24 * time.Hour)
	assert.Len(t, env.store.FilteredTasks(), 1, "a new day re-evaluates buckets")

	env.store.SetFilterOptions(models.FilterOptions{})
	assert.Len(t, env.store.FilteredTasks(), 1)
}

func TestFilterOptionsAreCopied(t *testing.T) {
	env := newTestEnv(t)
	opts := models.FilterOptions{Status: []models.Status{models.StatusDone}}
	env.store.SetFilterOptions(opts)

	opts.Status[0] = models.StatusTodo
	assert.Equal(t, []models.Status{models.StatusDone}, env.store.FilterOptions().Status)
}
