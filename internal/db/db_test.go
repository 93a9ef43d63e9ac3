package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskdash/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "nested", "taskdash.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestLoadCollectionMissingKey(t *testing.T) {
	database := openTestDB(t)

	var tasks []models.Task
	found, err := database.LoadCollection("tasks", &tasks)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, tasks)
}

func TestSaveAndLoadCollections(t *testing.T) {
	database := openTestDB(t)
	created := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	projects := []models.Project{{ID: "p1", Name: "Website", CreatedAt: created, UpdatedAt: created}}
	tasks := []models.Task{{ID: "t1", Title: "Ship", ProjectID: "p1", ProjectName: "Website", Status: models.StatusTodo}}

	require.NoError(t, database.SaveCollections(map[string]any{
		"projects": projects,
		"tasks":    tasks,
	}))

	var gotProjects []models.Project
	found, err := database.LoadCollection("projects", &gotProjects)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Website", gotProjects[0].Name)
	assert.True(t, created.Equal(gotProjects[0].CreatedAt))

	var gotTasks []models.Task
	found, err = database.LoadCollection("tasks", &gotTasks)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Ship", gotTasks[0].Title)
	assert.Nil(t, gotTasks[0].DueDate)

	keys, err := database.CollectionKeys()
	require.NoError(t, err)
	assert.Equal(t, []string{"projects", "tasks"}, keys)
}

func TestSaveCollectionsOverwrites(t *testing.T) {
	database := openTestDB(t)

	require.NoError(t, database.SaveCollections(map[string]any{"tasks": []models.Task{{ID: "a"}, {ID: "b"}}}))
	require.NoError(t, database.SaveCollections(map[string]any{"tasks": []models.Task{{ID: "c"}}}))

	var got []models.Task
	_, err := database.LoadCollection("tasks", &got)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)
}

func TestSaveCollectionsRejectsUnencodable(t *testing.T) {
	database := openTestDB(t)

	err := database.SaveCollections(map[string]any{
		"tasks": []models.Task{{ID: "kept"}},
		"bad":   make(chan int),
	})
	require.Error(t, err)

	keys, err := database.CollectionKeys()
	require.NoError(t, err)
	assert.Empty(t, keys, "nothing should be written when encoding fails")
}

func TestSettings(t *testing.T) {
	database := openTestDB(t)

	value, err := database.GetSetting("last_view")
	require.NoError(t, err)
	assert.Equal(t, "", value)

	require.NoError(t, database.SetSetting("last_view", "projects"))
	require.NoError(t, database.SetSetting("last_view", "notifications"))

	value, err = database.GetSetting("last_view")
	require.NoError(t, err)
	assert.Equal(t, "notifications", value)
}
