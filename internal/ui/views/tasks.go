package views

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/store"
	"github.com/tgienger/taskdash/internal/ui/keys"
	"github.com/tgienger/taskdash/internal/ui/styles"
)

// FocusArea represents which part of the UI has focus
type FocusArea int

const (
	FocusBackButton FocusArea = iota
	FocusSearchInput
	FocusDueDropdown
	FocusTaskList
)

// Edit form fields, in tab order
const (
	fieldTitle = iota
	fieldDesc
	fieldStatus
	fieldPriority
	fieldDue
	fieldAssignee
	fieldProject
	fieldSave
	fieldCount
)

// TaskListView shows the tasks matching the active filter. With a project
// set, the filter is scoped to that project.
type TaskListView struct {
	store   *store.Store
	project *models.Project
	tasks   []models.Task
	styles  *styles.Styles
	keys    keys.KeyMap
	now     func() time.Time

	width  int
	height int

	// UI state
	focus       FocusArea
	cursor      int
	scrollY     int
	searchInput textinput.Model
	filter      models.FilterOptions
	errText     string

	// Due-date dropdown state
	dueDropdownOpen bool
	dueCursor       int

	// Task creation/editing
	editing      bool
	editingID    string
	editTitle    textinput.Model
	editDesc     textarea.Model
	editDue      textinput.Model
	editStatus   models.Status
	editPriority models.Priority
	editAssignee int // index into users, -1 = unassigned
	editProject  int // index into projects, -1 = none
	editFocusIdx int
	formErr      string
	users        []models.User
	projects     []models.Project

	// Task view mode (read-only detail view)
	viewingTask         bool
	viewTask            models.Task
	commentInput        textarea.Model
	commentInputFocused bool

	// Delete confirmation
	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

// NewTaskListView creates a task list. A nil project lists every task.
func NewTaskListView(s *store.Store, project *models.Project) *TaskListView {
	st := styles.NewStyles()

	search := textinput.New()
	search.Placeholder = "Search..."
	search.CharLimit = 100

	editTitle := textinput.New()
	editTitle.Placeholder = "Task title"
	editTitle.CharLimit = 500

	editDesc := textarea.New()
	editDesc.Placeholder = "Description"
	editDesc.CharLimit = 5000
	editDesc.SetWidth(50)
	editDesc.SetHeight(3)
	editDesc.ShowLineNumbers = false

	editDue := textinput.New()
	editDue.Placeholder = "YYYY-MM-DD"
	editDue.CharLimit = 10

	commentInput := textarea.New()
	commentInput.Placeholder = "Add a comment..."
	commentInput.CharLimit = 2000
	commentInput.SetWidth(50)
	commentInput.SetHeight(3)
	commentInput.ShowLineNumbers = false

	v := &TaskListView{
		store:        s,
		project:      project,
		styles:       st,
		keys:         keys.DefaultKeyMap(),
		now:          time.Now,
		focus:        FocusTaskList,
		searchInput:  search,
		editTitle:    editTitle,
		editDesc:     editDesc,
		editDue:      editDue,
		commentInput: commentInput,
	}
	if project != nil {
		v.filter.ProjectID = project.ID
	}
	return v
}

// Init applies the view's filter and loads tasks
func (v *TaskListView) Init() tea.Cmd {
	return v.applyFilter()
}

type tasksLoadedMsg struct {
	tasks []models.Task
}

func (v *TaskListView) applyFilter() tea.Cmd {
	v.filter.SearchQuery = strings.TrimSpace(v.searchInput.Value())
	v.store.SetFilterOptions(v.filter)
	return v.loadTasks
}

func (v *TaskListView) loadTasks() tea.Msg {
	return tasksLoadedMsg{tasks: v.store.FilteredTasks()}
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		// Update textarea widths dynamically based on content width
		contentWidth := styles.ContentWidth(v.width)
		inputWidth := clamp(contentWidth-10, 20, 50)
		v.editDesc.SetWidth(inputWidth)
		v.commentInput.SetWidth(inputWidth)
		return v, nil

	case Refresh:
		return v, v.loadTasks

	case tasksLoadedMsg:
		v.tasks = msg.tasks
		if v.cursor >= len(v.tasks) {
			v.cursor = max(0, len(v.tasks)-1)
		}
		if v.viewingTask {
			task, ok := v.store.GetTask(v.viewTask.ID)
			if !ok {
				v.viewingTask = false
			} else {
				v.viewTask = task
			}
		}
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

		if v.editing {
			return v.updateEditing(msg)
		}

		if v.viewingTask {
			return v.updateViewingTask(msg)
		}

		if v.dueDropdownOpen {
			return v.updateDueDropdown(msg)
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle search input typing first - don't process hotkeys while typing
	if v.focus == FocusSearchInput {
		switch {
		case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter):
			v.searchInput.Blur()
			v.focus = FocusTaskList
			return v, v.applyFilter()
		case key.Matches(msg, v.keys.Tab):
			v.cycleFocus(1)
			return v, v.applyFilter()
		default:
			var cmd tea.Cmd
			v.searchInput, cmd = v.searchInput.Update(msg)
			return v, tea.Batch(cmd, v.applyFilter())
		}
	}

	v.errText = ""
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackToProjects{} }

	case key.Matches(msg, v.keys.Tab):
		v.cycleFocus(1)
		return v, nil

	case msg.String() == "shift+tab":
		v.cycleFocus(-1)
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.focus == FocusTaskList && v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.focus == FocusTaskList && v.cursor < len(v.tasks)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.focus {
		case FocusBackButton:
			return v, func() tea.Msg { return BackToProjects{} }
		case FocusDueDropdown:
			v.openDueDropdown()
			return v, nil
		case FocusTaskList:
			if len(v.tasks) > 0 {
				v.viewingTask = true
				v.viewTask = v.tasks[v.cursor]
			}
		}
		return v, nil

	case key.Matches(msg, v.keys.Edit):
		if v.focus == FocusTaskList && len(v.tasks) > 0 {
			v.startEditTask(&v.tasks[v.cursor])
			return v, textinput.Blink
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startEditTask(nil)
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Delete):
		if v.focus == FocusTaskList && len(v.tasks) > 0 {
			v.confirmDelete(v.tasks[v.cursor])
		}
		return v, nil

	case key.Matches(msg, v.keys.Status):
		if v.focus == FocusTaskList && len(v.tasks) > 0 {
			return v, v.cycleStatus(v.tasks[v.cursor])
		}
		return v, nil

	case key.Matches(msg, v.keys.Search):
		v.focus = FocusSearchInput
		v.searchInput.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Filter):
		v.focus = FocusDueDropdown
		v.openDueDropdown()
		return v, nil

	case key.Matches(msg, v.keys.Priority):
		v.filter.Priority = nextPriorityFilter(v.filter.Priority)
		v.resetCursor()
		return v, v.applyFilter()

	case key.Matches(msg, v.keys.Mine):
		if v.filter.AssigneeID == "" {
			v.filter.AssigneeID = v.store.CurrentUser().ID
		} else {
			v.filter.AssigneeID = ""
		}
		v.resetCursor()
		return v, v.applyFilter()

	case key.Matches(msg, v.keys.ShowCompleted):
		if v.showingCompleted() {
			v.filter.Status = nil
		} else {
			v.filter.Status = []models.Status{models.StatusDone}
		}
		v.resetCursor()
		return v, v.applyFilter()

	case key.Matches(msg, v.keys.ClearFilter):
		projectID := v.filter.ProjectID
		v.filter = models.FilterOptions{ProjectID: projectID}
		v.searchInput.Reset()
		v.resetCursor()
		return v, v.applyFilter()

	case key.Matches(msg, v.keys.Notifications):
		return v, func() tea.Msg { return OpenNotifications{} }

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) showingCompleted() bool {
	return len(v.filter.Status) == 1 && v.filter.Status[0] == models.StatusDone
}

// nextPriorityFilter cycles none -> high -> medium -> low -> none
func nextPriorityFilter(current []models.Priority) []models.Priority {
	if len(current) != 1 {
		return []models.Priority{models.PriorityHigh}
	}
	switch current[0] {
	case models.PriorityHigh:
		return []models.Priority{models.PriorityMedium}
	case models.PriorityMedium:
		return []models.Priority{models.PriorityLow}
	}
	return nil
}

func (v *TaskListView) resetCursor() {
	v.cursor = 0
	v.scrollY = 0
}

func (v *TaskListView) openDueDropdown() {
	v.dueDropdownOpen = true
	v.dueCursor = 0
	for i, b := range models.DueBuckets() {
		if b == v.filter.DueDate {
			v.dueCursor = i
		}
	}
}

func (v *TaskListView) updateDueDropdown(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	buckets := models.DueBuckets()
	switch {
	case key.Matches(msg, v.keys.Back):
		v.dueDropdownOpen = false
		return v, nil

	case key.Matches(msg, v.keys.Up):
		if v.dueCursor > 0 {
			v.dueCursor--
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.dueCursor < len(buckets)-1 {
			v.dueCursor++
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		v.filter.DueDate = buckets[v.dueCursor]
		v.dueDropdownOpen = false
		v.resetCursor()
		return v, v.applyFilter()
	}

	return v, nil
}

func (v *TaskListView) cycleStatus(task models.Task) tea.Cmd {
	_, err := v.store.UpdateTaskStatus(task.ID, task.Status.Next())
	if err != nil && !errors.Is(err, store.ErrPersist) {
		v.errText = err.Error()
		return nil
	}
	v.errText = errText(err)
	return v.loadTasks
}

func (v *TaskListView) confirmDelete(task models.Task) {
	v.confirmingDelete = true
	v.deleteTargetID = task.ID
	v.deleteTargetName = task.Title
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		err := v.store.DeleteTask(v.deleteTargetID)
		if err != nil && !errors.Is(err, store.ErrPersist) {
			v.errText = err.Error()
			return v, nil
		}
		v.errText = errText(err)
		v.viewingTask = false
		return v, v.loadTasks
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) updateViewingTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle comment input mode
	if v.commentInputFocused {
		switch {
		case key.Matches(msg, v.keys.Back):
			v.commentInputFocused = false
			v.commentInput.Blur()
			return v, nil
		case key.Matches(msg, v.keys.Save):
			return v, v.submitComment()
		default:
			var cmd tea.Cmd
			v.commentInput, cmd = v.commentInput.Update(msg)
			return v, cmd
		}
	}

	v.errText = ""
	switch {
	case key.Matches(msg, v.keys.Back):
		v.viewingTask = false
		return v, nil
	case key.Matches(msg, v.keys.Edit):
		v.viewingTask = false
		task := v.viewTask
		v.startEditTask(&task)
		return v, textinput.Blink
	case key.Matches(msg, v.keys.Delete):
		v.confirmDelete(v.viewTask)
		return v, nil
	case key.Matches(msg, v.keys.Status):
		return v, v.cycleStatus(v.viewTask)
	case key.Matches(msg, v.keys.Comment):
		v.commentInputFocused = true
		v.commentInput.Focus()
		return v, textarea.Blink
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	}
	return v, nil
}

// submitComment adds a new comment to the viewed task
func (v *TaskListView) submitComment() tea.Cmd {
	content := strings.TrimSpace(v.commentInput.Value())
	if content == "" {
		return nil
	}

	_, err := v.store.AddComment(v.viewTask.ID, content)
	if err != nil && !errors.Is(err, store.ErrPersist) {
		v.errText = err.Error()
		return nil
	}
	v.errText = errText(err)

	// Clear the input and reload
	v.commentInput.Reset()
	v.commentInputFocused = false
	v.commentInput.Blur()

	return v.loadTasks
}

func (v *TaskListView) cycleFocus(dir int) {
	// Blur current
	v.searchInput.Blur()

	// Cycle
	v.focus = FocusArea((int(v.focus) + dir + 4) % 4)

	// Focus search if needed
	if v.focus == FocusSearchInput {
		v.searchInput.Focus()
	}
}

func (v *TaskListView) ensureVisible() {
	visibleItems := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

// visibleItems is how many tasks fit; each takes 2 lines + 1 margin
func (v *TaskListView) visibleItems() int {
	availableHeight := max(v.height-13, 3)
	return max(availableHeight/3, 1)
}

// startEditTask opens the form for task, or a blank form when task is nil
func (v *TaskListView) startEditTask(task *models.Task) {
	v.editing = true
	v.editFocusIdx = fieldTitle
	v.formErr = ""
	v.users = v.store.ListUsers()
	v.projects = v.store.ListProjects()

	v.editTitle.Reset()
	v.editDesc.Reset()
	v.editDue.Reset()
	v.editingID = ""
	v.editStatus = models.StatusTodo
	v.editPriority = models.PriorityMedium
	v.editAssignee = -1
	v.editProject = -1

	projectID := ""
	assigneeID := ""
	if v.project != nil {
		projectID = v.project.ID
	}
	if task != nil {
		v.editingID = task.ID
		v.editTitle.SetValue(task.Title)
		v.editDesc.SetValue(task.Description)
		v.editStatus = task.Status
		v.editPriority = task.Priority
		if task.DueDate != nil {
			v.editDue.SetValue(task.DueDate.In(time.Local).Format(time.DateOnly))
		}
		projectID = task.ProjectID
		assigneeID = task.AssigneeID
	}

	for i, p := range v.projects {
		if p.ID == projectID {
			v.editProject = i
		}
	}
	for i, u := range v.users {
		if u.ID == assigneeID {
			v.editAssignee = i
		}
	}
	v.updateEditFocus()
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case key.Matches(msg, v.keys.Save):
		return v, v.saveTask()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = (v.editFocusIdx + 1) % fieldCount
		v.updateEditFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = (v.editFocusIdx + fieldCount - 1) % fieldCount
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Left), key.Matches(msg, v.keys.Right), msg.String() == " ":
		dir := 1
		if key.Matches(msg, v.keys.Left) {
			dir = -1
		}
		if v.cycleChoice(dir) {
			return v, nil
		}

	case key.Matches(msg, v.keys.Enter):
		switch v.editFocusIdx {
		case fieldDesc:
			// For the textarea, let enter pass through for newlines
		case fieldSave:
			return v, v.saveTask()
		default:
			v.editFocusIdx++
			v.updateEditFocus()
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case fieldTitle:
		v.editTitle, cmd = v.editTitle.Update(msg)
	case fieldDesc:
		v.editDesc, cmd = v.editDesc.Update(msg)
	case fieldDue:
		v.editDue, cmd = v.editDue.Update(msg)
	}
	return v, cmd
}

// cycleChoice steps the focused choice field and reports whether one was focused
func (v *TaskListView) cycleChoice(dir int) bool {
	switch v.editFocusIdx {
	case fieldStatus:
		v.editStatus = cycle(models.Statuses(), v.editStatus, dir)
	case fieldPriority:
		v.editPriority = cycle(models.Priorities(), v.editPriority, dir)
	case fieldAssignee:
		// -1 (unassigned) is part of the cycle
		v.editAssignee = (v.editAssignee+1+dir+len(v.users)+1)%(len(v.users)+1) - 1
	case fieldProject:
		if len(v.projects) > 0 {
			v.editProject = (max(v.editProject, 0) + dir + len(v.projects)) % len(v.projects)
		}
	default:
		return false
	}
	return true
}

func cycle[T comparable](values []T, current T, dir int) T {
	for i, val := range values {
		if val == current {
			return values[(i+dir+len(values))%len(values)]
		}
	}
	return values[0]
}

func (v *TaskListView) updateEditFocus() {
	v.editTitle.Blur()
	v.editDesc.Blur()
	v.editDue.Blur()

	switch v.editFocusIdx {
	case fieldTitle:
		v.editTitle.Focus()
	case fieldDesc:
		v.editDesc.Focus()
	case fieldDue:
		v.editDue.Focus()
	}
}

func (v *TaskListView) saveTask() tea.Cmd {
	in := models.NewTask{
		Title:       strings.TrimSpace(v.editTitle.Value()),
		Description: strings.TrimSpace(v.editDesc.Value()),
		Status:      v.editStatus,
		Priority:    v.editPriority,
	}
	if v.editProject >= 0 && v.editProject < len(v.projects) {
		in.ProjectID = v.projects[v.editProject].ID
	}
	if v.editAssignee >= 0 && v.editAssignee < len(v.users) {
		in.AssigneeID = v.users[v.editAssignee].ID
	}
	if due := strings.TrimSpace(v.editDue.Value()); due != "" {
		d, err := time.ParseInLocation(time.DateOnly, due, time.Local)
		if err != nil {
			v.formErr = "due date must be YYYY-MM-DD"
			return nil
		}
		in.DueDate = &d
	}

	if err := store.ValidateNewTask(in); err != nil {
		v.formErr = strings.TrimPrefix(err.Error(), store.ErrInvalidInput.Error()+": ")
		return nil
	}

	var err error
	if v.editingID == "" {
		_, err = v.store.CreateTask(in)
	} else {
		_, err = v.store.UpdateTask(v.editingID, models.TaskUpdate{
			Title:        &in.Title,
			Description:  &in.Description,
			Status:       &in.Status,
			Priority:     &in.Priority,
			DueDate:      in.DueDate,
			ClearDueDate: in.DueDate == nil,
			ProjectID:    &in.ProjectID,
			AssigneeID:   &in.AssigneeID,
		})
	}
	if err != nil && !errors.Is(err, store.ErrPersist) {
		v.formErr = err.Error()
		return nil
	}

	v.errText = errText(err)
	v.editing = false
	return v.loadTasks
}

// View renders the view
func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirmingDelete {
		return renderConfirm(v.styles, v.width, v.height, "Delete Task?",
			fmt.Sprintf("%q and its notifications will be removed.", v.deleteTargetName))
	}

	if v.editing {
		return v.renderEditForm()
	}

	if v.viewingTask {
		return v.renderTaskView()
	}

	var b strings.Builder

	// Header with back button, search, and due filter
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")

	// Task list
	b.WriteString(v.renderTaskList())

	if v.errText != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.ErrorText.Render(v.errText))
	}

	// Help
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) title() string {
	if v.project != nil {
		return v.project.Name
	}
	return "All Tasks"
}

func dueLabel(b models.DueBucket) string {
	switch b {
	case models.DueToday:
		return "Today"
	case models.DueThisWeek:
		return "This week"
	case models.DueOverdue:
		return "Overdue"
	case models.DueNoDueDate:
		return "No due date"
	}
	return "Any"
}

func (v *TaskListView) renderHeader() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	isNarrow := contentWidth < 60

	// Search input - dynamic width
	searchStyle := s.Input
	if v.focus == FocusSearchInput {
		searchStyle = s.InputFocused
	}
	searchWidth := clamp(contentWidth-8, 10, 30)
	searchBox := searchStyle.Width(searchWidth).Render(v.searchInput.View())

	// Due filter dropdown - show just the bucket at narrow widths
	dueStyle := s.Button
	if v.focus == FocusDueDropdown {
		dueStyle = s.ButtonFocused
	}
	label := dueLabel(v.filter.DueDate)
	if !isNarrow {
		label = "Due: " + label
	}
	dueBtn := dueStyle.Render(label + " ▼")

	title := s.Title.Render(v.title())

	var header string
	if isNarrow {
		// Narrow: stack vertically, no back button (esc still works)
		header = lipgloss.JoinVertical(lipgloss.Left,
			searchBox,
			dueBtn,
		)
	} else {
		// Wide: horizontal with back button
		backStyle := s.Button
		if v.focus == FocusBackButton {
			backStyle = s.ButtonFocused
		}
		backBtn := backStyle.Render("← Projects")

		header = lipgloss.JoinHorizontal(lipgloss.Center,
			backBtn, "  ", searchBox, "  ", dueBtn,
		)
	}

	// Dropdown if open
	dropdown := ""
	if v.dueDropdownOpen {
		dropdown = "\n" + v.renderDueDropdown()
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, header+dropdown, v.renderActiveFilters())
}

// renderActiveFilters summarizes the filters without their own control
func (v *TaskListView) renderActiveFilters() string {
	var parts []string
	if v.showingCompleted() {
		parts = append(parts, "completed")
	}
	for _, p := range v.filter.Priority {
		parts = append(parts, string(p)+" priority")
	}
	if v.filter.AssigneeID != "" {
		parts = append(parts, "assigned to me")
	}
	if len(parts) == 0 {
		return ""
	}
	return v.styles.TitleMuted.Render("Filters: " + strings.Join(parts, ", ") + "  (x to clear)")
}

func (v *TaskListView) renderDueDropdown() string {
	s := v.styles
	var items []string
	for i, b := range models.DueBuckets() {
		itemStyle := s.ListItem
		if v.dueCursor == i {
			itemStyle = s.ListSelected
		}
		items = append(items, itemStyle.Render(dueLabel(b)))
	}
	return s.FilterBar.Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles

	if len(v.tasks) == 0 {
		unscoped := v.filter
		unscoped.ProjectID = ""
		if unscoped.IsEmpty() {
			return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
		}
		return s.TitleMuted.Render("No tasks match the filters.")
	}

	var items []string
	endIdx := min(v.scrollY+v.visibleItems(), len(v.tasks))
	now := v.now()

	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderTaskItem(v.tasks[i], i == v.cursor && v.focus == FocusTaskList, now))
	}

	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TaskListView) renderTaskItem(task models.Task, selected bool, now time.Time) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	width := max(contentWidth-4, 20)

	titleLine := fmt.Sprintf("%s  %s  %s",
		styles.StatusBadge(task.Status),
		task.Title,
		styles.PriorityBadge(task.Priority),
	)

	var meta []string
	if v.project == nil && task.ProjectName != "" {
		meta = append(meta, task.ProjectName)
	}
	if task.AssigneeName != "" {
		meta = append(meta, "@"+task.AssigneeName)
	}
	if due := renderDue(s, task, now); due != "" {
		meta = append(meta, due)
	}
	if n := len(task.Comments); n > 0 {
		meta = append(meta, fmt.Sprintf("%d comments", n))
	}
	metaLine := s.TitleMuted.Render("no details")
	if len(meta) > 0 {
		metaLine = strings.Join(meta, " • ")
	}

	// Apply styling based on selection state
	lineStyle := s.ListItem.Width(width)
	if selected {
		lineStyle = s.ListSelected.Width(width)
	}

	// Return two-line item with margin
	return lipgloss.JoinVertical(lipgloss.Left, lineStyle.Render(titleLine), lineStyle.Render(metaLine)) + "\n"
}

func (v *TaskListView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	formTitle := "New Task"
	if v.editingID != "" {
		formTitle = "Edit Task"
	}

	fieldStyle := func(idx int) lipgloss.Style {
		if v.editFocusIdx == idx {
			return s.InputFocused
		}
		return s.Input
	}
	btnStyle := s.Button
	if v.editFocusIdx == fieldSave {
		btnStyle = s.ButtonFocused
	}

	// Dynamic input width based on content width
	inputWidth := clamp(contentWidth-6, 20, 50)

	assignee := "Unassigned"
	if v.editAssignee >= 0 && v.editAssignee < len(v.users) {
		assignee = v.users[v.editAssignee].Name
	}
	project := "None"
	if v.editProject >= 0 && v.editProject < len(v.projects) {
		project = v.projects[v.editProject].Name
	}

	lines := []string{
		s.Title.Render(formTitle),
		"",
		"Title:",
		fieldStyle(fieldTitle).Width(inputWidth).Render(v.editTitle.View()),
		"Description:",
		fieldStyle(fieldDesc).Render(v.editDesc.View()),
		lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.JoinVertical(lipgloss.Left, "Status:",
				fieldStyle(fieldStatus).Width(16).Render("‹ "+styles.StatusBadge(v.editStatus)+" ›")),
			"  ",
			lipgloss.JoinVertical(lipgloss.Left, "Priority:",
				fieldStyle(fieldPriority).Width(14).Render("‹ "+styles.PriorityBadge(v.editPriority)+" ›")),
			"  ",
			lipgloss.JoinVertical(lipgloss.Left, "Due:",
				fieldStyle(fieldDue).Width(14).Render(v.editDue.View())),
		),
		"Assignee:",
		fieldStyle(fieldAssignee).Width(inputWidth).Render("‹ " + assignee + " ›"),
		"Project:",
		fieldStyle(fieldProject).Width(inputWidth).Render("‹ " + project + " ›"),
		"",
		btnStyle.Render(" Save "),
	}
	if v.formErr != "" {
		lines = append(lines, "", s.ErrorText.Render(v.formErr))
	}
	lines = append(lines, "", s.TitleMuted.Render("Tab: next • ←→: change • Ctrl+S: save • Esc: cancel"))

	// Center within content width, then center that in terminal
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}

	// Dynamic label for 'c' key based on current mode
	completedLabel := "done"
	if v.showingCompleted() {
		completedLabel = "open"
	}

	return v.styles.Help.Render(
		fmt.Sprintf("%s view • %s status • %s edit • %s new • %s del • %s search • %s due • %s priority • %s mine • %s %s • %s back • %s quit",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("s"),
			v.styles.HelpKey.Render("e"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("/"),
			v.styles.HelpKey.Render("f"),
			v.styles.HelpKey.Render("p"),
			v.styles.HelpKey.Render("m"),
			v.styles.HelpKey.Render("c"),
			completedLabel,
			v.styles.HelpKey.Render("esc"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *TaskListView) renderHelpPopup() string {
	completedLabel := "show completed"
	if v.showingCompleted() {
		completedLabel = "show all statuses"
	}
	return renderHelpPopup(v.styles, v.width, v.height, [][2]string{
		{"↵", "view task"},
		{"s", "cycle status"},
		{"e", "edit task"},
		{"n", "new task"},
		{"d", "delete task"},
		{"/", "search"},
		{"f", "filter by due date"},
		{"p", "filter by priority"},
		{"m", "only my tasks"},
		{"c", completedLabel},
		{"x", "clear filters"},
		{"i", "notifications"},
		{"esc", "back"},
		{"q", "quit"},
	})
}

func (v *TaskListView) renderTaskView() string {
	s := v.styles
	task := v.viewTask
	maxContentWidth := styles.ContentWidth(v.width)
	now := v.now()

	// Build the view - use content width for text wrapping
	titleStyle := s.Title.MarginBottom(1)
	labelStyle := s.TitleMuted
	textWidth := clamp(maxContentWidth-10, 20, 70)

	// Update comment input width
	v.commentInput.SetWidth(clamp(textWidth, 20, 50))

	descText := task.Description
	if descText == "" {
		descText = s.TitleMuted.Render("No description")
	}

	assignee := task.AssigneeName
	if assignee == "" {
		assignee = s.TitleMuted.Render("Unassigned")
	}
	project := task.ProjectName
	if project == "" {
		project = s.TitleMuted.Render("None")
	}
	due := renderDue(s, task, now)
	if due == "" {
		due = s.TitleMuted.Render("No due date")
	}

	var attachments string
	if len(task.Attachments) == 0 {
		attachments = s.TitleMuted.Render("None")
	} else {
		var lines []string
		for _, a := range task.Attachments {
			lines = append(lines, a.Name+" "+s.TitleMuted.Render(a.URL))
		}
		attachments = lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	// Build comments section
	var commentsContent string
	if len(task.Comments) == 0 {
		commentsContent = s.TitleMuted.Render("No comments yet")
	} else {
		var commentLines []string
		for _, comment := range task.Comments {
			header := comment.AuthorName + " • " + comment.CreatedAt.Local().Format("Jan 2, 2006 3:04 PM")
			commentLine := lipgloss.JoinVertical(lipgloss.Left,
				s.TitleMuted.Render(header),
				lipgloss.NewStyle().Width(textWidth).Render(comment.Content),
			)
			commentLines = append(commentLines, commentLine)
		}
		commentsContent = lipgloss.JoinVertical(lipgloss.Left, commentLines...)
	}

	// Comment input styling
	commentInputStyle := s.Input
	if v.commentInputFocused {
		commentInputStyle = s.InputFocused
	}

	// Help text changes based on whether comment input is focused
	var helpText string
	if v.commentInputFocused {
		helpText = s.Help.Render(
			fmt.Sprintf("%s submit • %s cancel",
				s.HelpKey.Render("ctrl+s"),
				s.HelpKey.Render("esc"),
			),
		)
	} else {
		helpText = s.Help.Render(
			fmt.Sprintf("%s status • %s edit • %s delete • %s comment • %s back",
				s.HelpKey.Render("s"),
				s.HelpKey.Render("e"),
				s.HelpKey.Render("d"),
				s.HelpKey.Render("c"),
				s.HelpKey.Render("esc"),
			),
		)
	}

	lines := []string{
		titleStyle.Render(task.Title),
		labelStyle.Render("Status") + "  " + styles.StatusBadge(task.Status) +
			"    " + labelStyle.Render("Priority") + "  " + styles.PriorityBadge(task.Priority),
		labelStyle.Render("Assignee") + "  " + assignee,
		labelStyle.Render("Project") + "  " + project,
		labelStyle.Render("Due") + "  " + due,
		"",
		labelStyle.Render("Description"),
		lipgloss.NewStyle().Width(textWidth).Render(descText),
		"",
		labelStyle.Render("Attachments"),
		attachments,
		"",
		labelStyle.Render("Comments"),
		commentsContent,
		"",
		commentInputStyle.Render(v.commentInput.View()),
	}
	if v.errText != "" {
		lines = append(lines, s.ErrorText.Render(v.errText))
	}
	lines = append(lines, helpText)

	// Return with padding, not centered vertically, but horizontally centered if wide
	padded := lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	return styles.CenterView(padded, v.width, v.height)
}
