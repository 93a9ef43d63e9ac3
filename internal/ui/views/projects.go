package views

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/store"
	"github.com/tgienger/taskdash/internal/ui/keys"
	"github.com/tgienger/taskdash/internal/ui/styles"
)

type projectItem struct {
	project models.Project
	total   int
	done    int
}

func (i projectItem) Title() string { return i.project.Name }
func (i projectItem) Description() string {
	progress := "no tasks"
	if i.total > 0 {
		progress = fmt.Sprintf("%d/%d done", i.done, i.total)
	}
	if i.project.Description == "" {
		return progress
	}
	return i.project.Description + " • " + progress
}
func (i projectItem) FilterValue() string { return i.project.Name }

type projectDelegate struct {
	styles *styles.Styles
	width  int
}

func (d projectDelegate) Height() int                               { return 2 }
func (d projectDelegate) Spacing() int                              { return 1 }
func (d projectDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	p, ok := item.(projectItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	var titleStyle, descStyle lipgloss.Style
	if selected {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		titleStyle = d.styles.ListItem.Width(width)
		descStyle = d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	title := titleStyle.Render(p.Title())
	desc := descStyle.Render(p.Description())

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

// ProjectListView lists projects with their progress and a dashboard summary
type ProjectListView struct {
	store     *store.Store
	list      list.Model
	delegate  *projectDelegate
	search    textinput.Model
	searching bool
	styles    *styles.Styles
	keys      keys.KeyMap
	width     int
	height    int
	loaded    bool
	dashboard store.Dashboard
	errText   string

	// Create and rename share one form; editingID is empty when creating.
	creating  bool
	editingID string
	formErr   string
	newName   textinput.Model
	newDesc   textinput.Model
	focusIdx  int // 0=name, 1=desc, 2=confirm

	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

// NewProjectListView creates the project list
func NewProjectListView(s *store.Store) *ProjectListView {
	st := styles.NewStyles()

	search := textinput.New()
	search.Placeholder = "Search projects..."
	search.CharLimit = 100

	newName := textinput.New()
	newName.Placeholder = "Project name"
	newName.CharLimit = 100

	newDesc := textinput.New()
	newDesc.Placeholder = "Description (optional)"
	newDesc.CharLimit = 1000

	delegate := &projectDelegate{styles: st, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Projects"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = st.Title
	l.SetShowHelp(false)

	return &ProjectListView{
		store:    s,
		list:     l,
		delegate: delegate,
		search:   search,
		styles:   st,
		keys:     keys.DefaultKeyMap(),
		newName:  newName,
		newDesc:  newDesc,
	}
}

// Init loads the projects
func (v *ProjectListView) Init() tea.Cmd {
	return v.loadProjects
}

type projectsLoadedMsg struct {
	items     []projectItem
	dashboard store.Dashboard
}

func (v *ProjectListView) loadProjects() tea.Msg {
	projects := v.store.SearchProjects(strings.TrimSpace(v.search.Value()))
	items := make([]projectItem, len(projects))
	for i, p := range projects {
		total, done := v.store.ProjectProgress(p.ID)
		items[i] = projectItem{project: p, total: total, done: done}
	}
	return projectsLoadedMsg{items: items, dashboard: v.store.Dashboard()}
}

// Update handles messages
func (v *ProjectListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		// Use content width (capped at MaxWidth) for internal layout
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-9)
		return v, nil

	case Refresh:
		return v, v.loadProjects

	case projectsLoadedMsg:
		items := make([]list.Item, len(msg.items))
		for i, p := range msg.items {
			items[i] = p
		}
		v.list.SetItems(items)
		v.dashboard = msg.dashboard
		v.loaded = true
		return v, nil

	case tea.KeyMsg:
		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.creating {
			return v.updateCreating(msg)
		}

		if v.searching {
			return v.updateSearch(msg)
		}

		v.errText = ""
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			if v.search.Value() != "" {
				v.search.Reset()
				return v, v.loadProjects
			}
			// Don't quit on escape in project list - only q quits
			return v, nil
		case key.Matches(msg, v.keys.New):
			v.startForm(nil)
			return v, textinput.Blink
		case key.Matches(msg, v.keys.Edit):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				v.startForm(&item.project)
				return v, textinput.Blink
			}
		case key.Matches(msg, v.keys.Search):
			v.searching = true
			v.search.Focus()
			return v, textinput.Blink
		case key.Matches(msg, v.keys.AllTasks):
			return v, func() tea.Msg { return OpenAllTasks{} }
		case key.Matches(msg, v.keys.Notifications):
			return v, func() tea.Msg { return OpenNotifications{} }
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				return v, func() tea.Msg {
					return SelectedProject{Project: item.project}
				}
			}
		case key.Matches(msg, v.keys.Delete):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				v.confirmingDelete = true
				v.deleteTargetID = item.project.ID
				v.deleteTargetName = item.project.Name
				return v, nil
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *ProjectListView) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.searching = false
		v.search.Blur()
		v.search.Reset()
		return v, v.loadProjects
	case key.Matches(msg, v.keys.Enter):
		v.searching = false
		v.search.Blur()
		return v, v.loadProjects
	}
	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	return v, tea.Batch(cmd, v.loadProjects)
}

func (v *ProjectListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		err := v.store.DeleteProject(v.deleteTargetID)
		if err != nil && !errors.Is(err, store.ErrPersist) {
			v.errText = err.Error()
			return v, nil
		}
		v.errText = errText(err)
		return v, v.loadProjects
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

// startForm opens the create form, or the rename form when p is set
func (v *ProjectListView) startForm(p *models.Project) {
	v.creating = true
	v.focusIdx = 0
	v.formErr = ""
	v.editingID = ""
	v.newName.Reset()
	v.newDesc.Reset()
	if p != nil {
		v.editingID = p.ID
		v.newName.SetValue(p.Name)
		v.newDesc.SetValue(p.Description)
	}
	v.updateFocus()
}

func (v *ProjectListView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		return v, nil

	case key.Matches(msg, v.keys.Save):
		return v, v.saveProject()

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + 2) % 3
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % 3
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx == 0 || v.focusIdx == 1 {
			v.focusIdx++
			v.updateFocus()
			return v, nil
		}
		return v, v.saveProject()
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.newName, cmd = v.newName.Update(msg)
	case 1:
		v.newDesc, cmd = v.newDesc.Update(msg)
	}
	return v, cmd
}

func (v *ProjectListView) saveProject() tea.Cmd {
	in := models.NewProject{
		Name:        strings.TrimSpace(v.newName.Value()),
		Description: strings.TrimSpace(v.newDesc.Value()),
	}
	if err := store.ValidateNewProject(in); err != nil {
		v.formErr = strings.TrimPrefix(err.Error(), store.ErrInvalidInput.Error()+": ")
		return nil
	}

	if v.editingID != "" {
		_, err := v.store.UpdateProject(v.editingID, models.ProjectUpdate{
			Name:        &in.Name,
			Description: &in.Description,
		})
		if err != nil && !errors.Is(err, store.ErrPersist) {
			v.formErr = err.Error()
			return nil
		}
		v.creating = false
		v.errText = errText(err)
		return v.loadProjects
	}

	project, err := v.store.CreateProject(in)
	if err != nil && !errors.Is(err, store.ErrPersist) {
		v.formErr = err.Error()
		return nil
	}
	v.creating = false
	v.errText = errText(err)
	return func() tea.Msg {
		return SelectedProject{Project: project}
	}
}

func (v *ProjectListView) updateFocus() {
	v.newName.Blur()
	v.newDesc.Blur()
	switch v.focusIdx {
	case 0:
		v.newName.Focus()
	case 1:
		v.newDesc.Focus()
	}
}

// View renders the view
func (v *ProjectListView) View() string {
	if v.showHelpPopup {
		return renderHelpPopup(v.styles, v.width, v.height, [][2]string{
			{"↵", "open project"},
			{"a", "all tasks"},
			{"i", "notifications"},
			{"n", "new project"},
			{"e", "rename project"},
			{"d", "delete project"},
			{"/", "search"},
			{"q", "quit"},
		})
	}

	if v.confirmingDelete {
		return renderConfirm(v.styles, v.width, v.height, "Delete Project?",
			fmt.Sprintf("Tasks in %q are kept without a project.", v.deleteTargetName))
	}

	if v.creating {
		return v.renderCreateForm()
	}

	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	if len(v.list.Items()) == 0 && v.search.Value() == "" && !v.searching {
		return v.renderEmpty()
	}

	parts := []string{v.renderDashboard()}
	if v.searching || v.search.Value() != "" {
		searchStyle := v.styles.Input
		if v.searching {
			searchStyle = v.styles.InputFocused
		}
		width := clamp(styles.ContentWidth(v.width)-8, 10, 40)
		parts = append(parts, searchStyle.Width(width).Render(v.search.View()))
	}
	parts = append(parts, v.list.View())
	if v.errText != "" {
		parts = append(parts, v.styles.ErrorText.Render(v.errText))
	}
	parts = append(parts, v.renderHelp())

	return styles.CenterView(lipgloss.JoinVertical(lipgloss.Left, parts...), v.width, v.height)
}

func (v *ProjectListView) renderDashboard() string {
	s := v.styles
	d := v.dashboard

	overdue := s.TitleMuted.Render(fmt.Sprintf("%d overdue", len(d.Overdue)))
	if len(d.Overdue) > 0 {
		overdue = s.TaskOverdue.Render(fmt.Sprintf("%d overdue", len(d.Overdue)))
	}

	return s.StatusBar.Render(strings.Join([]string{
		fmt.Sprintf("%d my tasks", len(d.MyTasks)),
		fmt.Sprintf("%d due today", len(d.DueToday)),
		overdue,
		fmt.Sprintf("%d upcoming", len(d.Upcoming)),
		fmt.Sprintf("%d active projects", d.InProgressProjects),
		fmt.Sprintf("%d%% complete", d.CompletionRate),
	}, " • "))
}

func (v *ProjectListView) renderEmpty() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Projects"),
		"",
		s.TitleMuted.Render("Press 'n' to create your first project"),
		"",
		s.ButtonPrimary.Render(" New Project "),
	)

	// Center within content width, then center that in terminal
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectListView) renderCreateForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	nameStyle := s.Input
	descStyle := s.Input
	btnStyle := s.Button

	switch v.focusIdx {
	case 0:
		nameStyle = s.InputFocused
	case 1:
		descStyle = s.InputFocused
	case 2:
		btnStyle = s.ButtonFocused
	}

	formTitle, button := "New Project", " Create "
	if v.editingID != "" {
		formTitle, button = "Edit Project", " Save "
	}

	// Dynamic input width based on content width
	inputWidth := clamp(contentWidth-6, 20, 50)

	lines := []string{
		s.Title.Render(formTitle),
		"",
		"Name:",
		nameStyle.Width(inputWidth).Render(v.newName.View()),
		"",
		"Description:",
		descStyle.Width(inputWidth).Render(v.newDesc.View()),
		"",
		btnStyle.Render(button),
	}
	if v.formErr != "" {
		lines = append(lines, "", s.ErrorText.Render(v.formErr))
	}
	lines = append(lines, "", s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"))

	// Center within content width, then center that in terminal
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	return v.styles.Help.Render(
		fmt.Sprintf("%s open • %s all • %s inbox • %s new • %s edit • %s del • %s search • %s quit",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("a"),
			v.styles.HelpKey.Render("i"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("/"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

// errText shows persistence failures without blocking the UI
func errText(err error) string {
	if err == nil {
		return ""
	}
	return "not saved to disk: " + err.Error()
}
