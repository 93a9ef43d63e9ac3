package views

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskdash/internal/db"
	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "taskdash.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	s, err := store.Open(store.Options{
		Persister: database,
		Users: []models.User{
			{ID: "u1", Name: "Ann"},
			{ID: "u2", Name: "Bob"},
		},
		CurrentUserID: "u1",
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func keyPress(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// send delivers msg and then any message its command produces directly
func send(m tea.Model, msg tea.Msg) tea.Msg {
	_, cmd := m.Update(msg)
	if cmd == nil {
		return nil
	}
	out := cmd()
	switch out.(type) {
	case tasksLoadedMsg, notificationsLoadedMsg, projectsLoadedMsg:
		m.Update(out)
	}
	return out
}

func seedProject(t *testing.T, s *store.Store) models.Project {
	t.Helper()
	p, err := s.CreateProject(models.NewProject{Name: "Website"})
	require.NoError(t, err)
	_, err = s.CreateTask(models.NewTask{Title: "Mine", ProjectID: p.ID, AssigneeID: "u1", Priority: models.PriorityHigh})
	require.NoError(t, err)
	_, err = s.CreateTask(models.NewTask{Title: "Theirs", ProjectID: p.ID, AssigneeID: "u2", Priority: models.PriorityLow})
	require.NoError(t, err)
	return p
}

func TestTaskListScopesToProject(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s)
	_, err := s.CreateTask(models.NewTask{Title: "Elsewhere", ProjectID: "other"})
	require.NoError(t, err)

	v := NewTaskListView(s, &p)
	v.Update(v.Init()())

	assert.Equal(t, p.ID, s.FilterOptions().ProjectID)
	assert.Len(t, v.tasks, 2)
}

func TestTaskListFilterKeys(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s)
	v := NewTaskListView(s, &p)
	v.Update(v.Init()())

	send(v, keyPress("m"))
	assert.Equal(t, "u1", s.FilterOptions().AssigneeID)
	require.Len(t, v.tasks, 1)
	assert.Equal(t, "Mine", v.tasks[0].Title)

	send(v, keyPress("m"))
	assert.Empty(t, s.FilterOptions().AssigneeID)
	assert.Len(t, v.tasks, 2)

	for _, want := range [][]models.Priority{
		{models.PriorityHigh},
		{models.PriorityMedium},
		{models.PriorityLow},
		nil,
	} {
		send(v, keyPress("p"))
		assert.Equal(t, want, s.FilterOptions().Priority)
	}

	send(v, keyPress("c"))
	assert.Equal(t, []models.Status{models.StatusDone}, s.FilterOptions().Status)
	assert.Empty(t, v.tasks)

	send(v, keyPress("x"))
	assert.Equal(t, models.FilterOptions{ProjectID: p.ID}, s.FilterOptions())
	assert.Len(t, v.tasks, 2)
}

func TestTaskListDueDropdown(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s)
	v := NewTaskListView(s, &p)
	v.Update(v.Init()())

	send(v, keyPress("f"))
	require.True(t, v.dueDropdownOpen)
	send(v, keyPress("j"))
	send(v, keyPress("enter"))

	assert.False(t, v.dueDropdownOpen)
	assert.Equal(t, models.DueToday, s.FilterOptions().DueDate)
	assert.Empty(t, v.tasks)
}

func TestTaskListCyclesStatus(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s)
	v := NewTaskListView(s, &p)
	v.Update(v.Init()())

	id := v.tasks[0].ID
	send(v, keyPress("s"))

	task, ok := s.GetTask(id)
	require.True(t, ok)
	assert.Equal(t, models.StatusInProgress, task.Status)
}

func TestTaskFormValidatesAndCreates(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s)
	v := NewTaskListView(s, &p)
	v.Update(v.Init()())

	send(v, keyPress("n"))
	require.True(t, v.editing)

	send(v, keyPress("ctrl+s"))
	assert.True(t, v.editing)
	assert.Contains(t, v.formErr, "title is required")

	for _, r := range "Ship it" {
		send(v, keyPress(string(r)))
	}
	send(v, keyPress("ctrl+s"))

	assert.False(t, v.editing)
	assert.Len(t, v.tasks, 3)
	assert.Len(t, s.ListTasks(), 3)
}

func TestTaskFormRejectsBadDueDate(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s)
	v := NewTaskListView(s, &p)
	v.Update(v.Init()())

	v.startEditTask(nil)
	v.editTitle.SetValue("Dated")
	v.editDue.SetValue("next week")
	send(v, keyPress("ctrl+s"))

	assert.True(t, v.editing)
	assert.Equal(t, "due date must be YYYY-MM-DD", v.formErr)
}

func TestTaskViewAddsComment(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s)
	v := NewTaskListView(s, &p)
	v.Update(v.Init()())

	send(v, keyPress("enter"))
	require.True(t, v.viewingTask)
	id := v.viewTask.ID

	send(v, keyPress("c"))
	require.True(t, v.commentInputFocused)
	v.commentInput.SetValue("looks good")
	send(v, keyPress("ctrl+s"))

	task, ok := s.GetTask(id)
	require.True(t, ok)
	require.Len(t, task.Comments, 1)
	assert.Equal(t, "looks good", task.Comments[0].Content)
	assert.Len(t, v.viewTask.Comments, 1)
}

func TestNotificationListMarksReadAndOpensProject(t *testing.T) {
	s := newTestStore(t)
	p := seedProject(t, s)
	before := s.UnreadNotificationCount()
	require.Positive(t, before)

	v := NewNotificationListView(s)
	v.Update(v.Init()())
	require.NotEmpty(t, v.notifications)

	msg := send(v, keyPress("enter"))
	selected, ok := msg.(SelectedProject)
	require.True(t, ok)
	assert.Equal(t, p.ID, selected.Project.ID)
	assert.Equal(t, before-1, s.UnreadNotificationCount())

	send(v, keyPress("r"))
	assert.Zero(t, s.UnreadNotificationCount())
	assert.Zero(t, v.unread)
}

func TestProjectFormCreatesAndOpensProject(t *testing.T) {
	s := newTestStore(t)
	v := NewProjectListView(s)
	v.Update(v.Init()())

	send(v, keyPress("n"))
	require.True(t, v.creating)

	send(v, keyPress("ctrl+s"))
	assert.Contains(t, v.formErr, "name is required")

	for _, r := range "Launch" {
		send(v, keyPress(string(r)))
	}
	msg := send(v, keyPress("ctrl+s"))

	selected, ok := msg.(SelectedProject)
	require.True(t, ok)
	assert.Equal(t, "Launch", selected.Project.Name)
	assert.False(t, v.creating)
}

func TestProjectDeleteKeepsTasks(t *testing.T) {
	s := newTestStore(t)
	seedProject(t, s)
	v := NewProjectListView(s)
	v.Update(v.Init()())
	require.Len(t, v.list.Items(), 1)

	send(v, keyPress("d"))
	require.True(t, v.confirmingDelete)
	send(v, keyPress("y"))

	assert.Empty(t, v.list.Items())
	assert.Empty(t, s.ListProjects())
	for _, task := range s.ListTasks() {
		assert.Empty(t, task.ProjectID)
	}
	assert.Len(t, s.ListTasks(), 2)
}
