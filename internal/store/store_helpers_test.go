package store

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskdash/internal/models"
)

var (
	userJohn = models.User{ID: "user-1", Name: "John Doe", Email: "john.doe@example.com"}
	userJane = models.User{ID: "user-2", Name: "Jane Smith", Email: "jane.smith@example.com"}
)

// memPersister keeps encoded collections in memory
type memPersister struct {
	mu       sync.Mutex
	data     map[string][]byte
	failSave error
	saves    int
}

func newMemPersister() *memPersister {
	return &memPersister{data: make(map[string][]byte)}
}

func (m *memPersister) LoadCollection(key string, dst any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (m *memPersister) SaveCollections(collections map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave != nil {
		return m.failSave
	}
	for key, items := range collections {
		raw, err := json.Marshal(items)
		if err != nil {
			return err
		}
		m.data[key] = raw
	}
	m.saves++
	return nil
}

func (m *memPersister) setFail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSave = err
}

func (m *memPersister) stored(t *testing.T, key string, dst any) {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	require.True(t, ok, "collection %s not stored", key)
	require.NoError(t, json.Unmarshal(raw, dst))
}

// fakeClock is a settable clock
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

type testEnv struct {
	store     *Store
	persister *memPersister
	clock     *fakeClock
}

func testNow() time.Time {
	return time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return openTestEnv(t, newMemPersister(), &fakeClock{t: testNow()})
}

func openTestEnv(t *testing.T, p *memPersister, clock *fakeClock) *testEnv {
	t.Helper()
	s, err := Open(Options{
		Persister:     p,
		Users:         []models.User{userJohn, userJane},
		CurrentUserID: userJohn.ID,
		Now:           clock.Now,
		NewID:         sequentialIDs(),
	})
	require.NoError(t, err)
	return &testEnv{store: s, persister: p, clock: clock}
}

func (e *testEnv) project(t *testing.T, name string) models.Project {
	t.Helper()
	p, err := e.store.CreateProject(models.NewProject{Name: name})
	require.NoError(t, err)
	return p
}

func (e *testEnv) task(t *testing.T, in models.NewTask) models.Task {
	t.Helper()
	task, err := e.store.CreateTask(in)
	require.NoError(t, err)
	return task
}

func dayOffset(days int) *time.Time {
	d := testNow().AddDate(0, 0, days)
	return &d
}
