package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskdash/internal/models"
)

func TestMarkNotificationRead(t *testing.T) {
	env := newTestEnv(t)
	env.task(t, models.NewTask{Title: "T1", AssigneeID: userJane.ID})
	notifications := env.store.ListNotifications()
	require.Len(t, notifications, 2)

	env.clock.Advance(time.Hour)
	require.NoError(t, env.store.MarkNotificationRead(notifications[1].ID))
	assert.Equal(t, 1, env.store.UnreadNotificationCount())

	saves := env.persister.saves
	require.NoError(t, env.store.MarkNotificationRead(notifications[1].ID))
	assert.Equal(t, saves, env.persister.saves, "marking a read notification again writes nothing")

	got := env.store.ListNotifications()
	assert.False(t, got[0].Read)
	assert.True(t, got[1].Read)
	assertOnlyReadChanged(t, notifications, got)
}

// assertOnlyReadChanged checks that marking notifications read left
// everything but the read flag alone
func assertOnlyReadChanged(t *testing.T, before, after []models.Notification) {
	t.Helper()
	require.Len(t, after, len(before))
	for i := range before {
		want := before[i]
		want.Read = after[i].Read
		assert.Equal(t, want, after[i])
	}
}

func TestMarkNotificationReadNotFound(t *testing.T) {
	env := newTestEnv(t)
	err := env.store.MarkNotificationRead("nope")
	assert.ErrorIs(t, err, ErrNotificationNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkAllNotificationsRead(t *testing.T) {
	env := newTestEnv(t)
	env.task(t, models.NewTask{Title: "T1", AssigneeID: userJane.ID})
	env.task(t, models.NewTask{Title: "T2"})
	require.Equal(t, 3, env.store.UnreadNotificationCount())
	before := env.store.ListNotifications()

	env.clock.Advance(time.Hour)
	n, err := env.store.MarkAllNotificationsRead()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Zero(t, env.store.UnreadNotificationCount())

	after := env.store.ListNotifications()
	assertOnlyReadChanged(t, before, after)
	for i, got := range after {
		assert.True(t, got.Read)
		assert.Equal(t, before[i].ID, got.ID)
		assert.Equal(t, before[i].CreatedAt, got.CreatedAt)
		assert.Equal(t, before[i].Content, got.Content)
		assert.Equal(t, before[i].Type, got.Type)
	}

	n, err = env.store.MarkAllNotificationsRead()
	require.NoError(t, err)
	assert.Zero(t, n)

	var stored []models.Notification
	env.persister.stored(t, KeyNotifications, &stored)
	for _, s := range stored {
		assert.True(t, s.Read)
	}
}

func TestNotificationsNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	env.task(t, models.NewTask{Title: "first"})
	env.task(t, models.NewTask{Title: "second"})

	notifications := env.store.ListNotifications()
	require.Len(t, notifications, 2)
	assert.Contains(t, notifications[0].Content, "second")
	assert.Contains(t, notifications[1].Content, "first")
}

func TestAddNotification(t *testing.T) {
	env := newTestEnv(t)
	task := env.task(t, models.NewTask{Title: "T"})

	n, err := env.store.AddNotification(models.NewNotification{
		Type:    models.NotificationMention,
		Content: "Jane Smith mentioned you.",
		TaskID:  task.ID,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.False(t, n.Read)
	assert.Equal(t, env.clock.Now(), n.CreatedAt)

	assert.Equal(t, n, env.store.ListNotifications()[0])
	assert.Equal(t, 2, env.store.UnreadNotificationCount())
}
