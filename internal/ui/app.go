package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskdash/internal/db"
	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/store"
	"github.com/tgienger/taskdash/internal/ui/styles"
	"github.com/tgienger/taskdash/internal/ui/views"
	"go.uber.org/zap"
)

// Currently active view
type View int

const (
	ViewProjects View = iota
	ViewTasks
	ViewNotifications
)

const lastProjectKey = "last_project_id"

// refreshInterval keeps relative due labels and the unread badge current
const refreshInterval = time.Minute

// SweptMsg is sent to the program after a due-date sweep
type SweptMsg struct {
	Created int
}

type tickMsg time.Time

type App struct {
	store         *store.Store
	db            *db.DB
	logger        *zap.Logger
	styles        *styles.Styles
	currentView   View
	projectList   *views.ProjectListView
	taskList      *views.TaskListView
	notifications *views.NotificationListView
	unread        int
	width         int
	height        int
}

// NewApp creates a new application. database holds UI settings; it may be nil.
func NewApp(s *store.Store, database *db.DB, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		store:       s,
		db:          database,
		logger:      logger,
		styles:      styles.NewStyles(),
		currentView: ViewProjects,
		projectList: views.NewProjectListView(s),
		unread:      s.UnreadNotificationCount(),
	}
}

func (a *App) Init() tea.Cmd {
	// Check for last opened project
	if id := a.getSetting(lastProjectKey); id != "" {
		if project, ok := a.store.GetProject(id); ok {
			return tea.Batch(a.openProject(&project), tick())
		}
	}

	return tea.Batch(a.projectList.Init(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (a *App) getSetting(key string) string {
	if a.db == nil {
		return ""
	}
	value, err := a.db.GetSetting(key)
	if err != nil {
		a.logger.Warn("read setting", zap.String("key", key), zap.Error(err))
	}
	return value
}

func (a *App) setSetting(key, value string) {
	if a.db == nil {
		return
	}
	if err := a.db.SetSetting(key, value); err != nil {
		a.logger.Warn("write setting", zap.String("key", key), zap.Error(err))
	}
}

// openProject shows the task list of project, or of every task when nil
func (a *App) openProject(project *models.Project) tea.Cmd {
	a.currentView = ViewTasks
	a.taskList = views.NewTaskListView(a.store, project)

	// Save as last opened project
	if project != nil {
		a.setSetting(lastProjectKey, project.ID)
	} else {
		a.setSetting(lastProjectKey, "")
	}

	// Initialize task list with window size
	return tea.Batch(a.taskList.Init(), a.resize())
}

func (a *App) resize() tea.Cmd {
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: a.width, Height: a.height}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Always update project list size since it persists
		a.projectList.Update(a.viewSize())
		if a.currentView == ViewProjects {
			return a, nil
		}
		msg = a.viewSize()
		return a, a.forward(msg)

	case views.SelectedProject:
		project := msg.Project
		return a, a.openProject(&project)

	case views.OpenAllTasks:
		return a, a.openProject(nil)

	case views.OpenNotifications:
		a.currentView = ViewNotifications
		a.notifications = views.NewNotificationListView(a.store)
		return a, tea.Batch(a.notifications.Init(), a.resize())

	case views.BackToProjects:
		a.currentView = ViewProjects
		a.setSetting(lastProjectKey, "")
		a.unread = a.store.UnreadNotificationCount()
		return a, tea.Batch(a.projectList.Init(), a.resize())

	case tickMsg:
		a.unread = a.store.UnreadNotificationCount()
		return a, tea.Batch(a.forward(views.Refresh{}), tick())

	case SweptMsg:
		a.logger.Debug("sweep delivered to ui", zap.Int("created", msg.Created))
		a.unread = a.store.UnreadNotificationCount()
		return a, a.forward(views.Refresh{})
	}

	cmd := a.forward(msg)
	a.unread = a.store.UnreadNotificationCount()
	return a, cmd
}

// viewSize is the window size minus the status bar
func (a *App) viewSize() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: a.width, Height: max(a.height-1, 0)}
}

func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case ViewProjects:
		_, cmd = a.projectList.Update(msg)
	case ViewTasks:
		if a.taskList != nil {
			_, cmd = a.taskList.Update(msg)
		}
	case ViewNotifications:
		if a.notifications != nil {
			_, cmd = a.notifications.Update(msg)
		}
	}
	return cmd
}

func (a *App) View() string {
	var body string
	switch {
	case a.currentView == ViewTasks && a.taskList != nil:
		body = a.taskList.View()
	case a.currentView == ViewNotifications && a.notifications != nil:
		body = a.notifications.View()
	default:
		body = a.projectList.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, a.statusBar())
}

func (a *App) statusBar() string {
	user := a.store.CurrentUser().Name
	inbox := a.styles.TitleMuted.Render("no unread notifications")
	if a.unread > 0 {
		inbox = a.styles.UnreadBadge.Render(fmt.Sprintf(" %d unread ", a.unread)) + " press i"
	}
	return a.styles.StatusBar.Width(a.width).Render(user + "  •  " + inbox)
}
