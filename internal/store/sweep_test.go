package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskdash/internal/models"
	"go.uber.org/zap/zaptest"
)

func TestSweepDueDates(t *testing.T) {
	env := newTestEnv(t)
	today := env.task(t, models.NewTask{Title: "Today", DueDate: dayOffset(0)})
	late := env.task(t, models.NewTask{Title: "Late", DueDate: dayOffset(-3)})
	env.task(t, models.NewTask{Title: "Done", DueDate: dayOffset(-3), Status: models.StatusDone})
	env.task(t, models.NewTask{Title: "Later", DueDate: dayOffset(2)})
	env.task(t, models.NewTask{Title: "Whenever"})
	before := len(env.store.ListNotifications())

	n, err := env.store.SweepDueDates()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	notifications := env.store.ListNotifications()
	require.Len(t, notifications, before+2)
	byTask := map[string]models.Notification{}
	for _, notification := range notifications[:2] {
		assert.Equal(t, models.NotificationDueDate, notification.Type)
		byTask[notification.TaskID] = notification
	}
	assert.Equal(t, `Task "Today" is due today.`, byTask[today.ID].Content)
	assert.Equal(t, "due-date:today:"+today.ID+":2026-10-18", byTask[today.ID].Key)
	assert.Equal(t, `Task "Late" is overdue.`, byTask[late.ID].Content)
}

func TestSweepDueDatesOncePerDay(t *testing.T) {
	env := newTestEnv(t)
	env.task(t, models.NewTask{Title: "Late", DueDate: dayOffset(-1)})

	n, err := env.store.SweepDueDates()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	env.clock.Advance(time.Hour)
	n, err = env.store.SweepDueDates()
	require.NoError(t, err)
	assert.Zero(t, n, "same day")

	env.clock.Advance(24 * time.Hour)
	n, err = env.store.SweepDueDates()
	require.NoError(t, err)
	assert.Equal(t, 1, n, "a new day notifies again")
}

func TestSweepDueDatesSkipsDeletedAndCompleted(t *testing.T) {
	env := newTestEnv(t)
	task := env.task(t, models.NewTask{Title: "Late", DueDate: dayOffset(-1)})
	_, err := env.store.UpdateTaskStatus(task.ID, models.StatusDone)
	require.NoError(t, err)

	n, err := env.store.SweepDueDates()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSweeperRunsImmediatelyAndStops(t *testing.T) {
	env := newTestEnv(t)
	env.task(t, models.NewTask{Title: "Late", DueDate: dayOffset(-1)})

	var mu sync.Mutex
	var counts []int
	swept := make(chan struct{}, 1)

	w := NewSweeper(env.store, time.Hour, zaptest.NewLogger(t))
	w.OnSweep = func(n int) {
		mu.Lock()
		counts = append(counts, n)
		mu.Unlock()
		select {
		case swept <- struct{}{}:
		default:
		}
	}

	stop := w.Start(context.Background())
	select {
	case <-swept:
	case <-time.After(5 * time.Second):
		t.Fatal("sweeper did not run")
	}
	stop()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, counts)
	assert.Equal(t, 1, counts[0])
}

func TestNewSweeperDefaults(t *testing.T) {
	env := newTestEnv(t)
	w := NewSweeper(env.store, 0, nil)
	assert.Equal(t, DefaultSweepInterval, w.interval)
	assert.NotNil(t, w.logger)
}
