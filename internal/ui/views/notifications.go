package views

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/store"
	"github.com/tgienger/taskdash/internal/ui/keys"
	"github.com/tgienger/taskdash/internal/ui/styles"
)

// NotificationListView lists notifications newest first
type NotificationListView struct {
	store         *store.Store
	notifications []models.Notification
	unread        int
	styles        *styles.Styles
	keys          keys.KeyMap
	now           func() time.Time

	width   int
	height  int
	cursor  int
	scrollY int
	errText string
}

// NewNotificationListView creates the notification list
func NewNotificationListView(s *store.Store) *NotificationListView {
	return &NotificationListView{
		store:  s,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
		now:    time.Now,
	}
}

// Init loads notifications
func (v *NotificationListView) Init() tea.Cmd {
	return v.loadNotifications
}

type notificationsLoadedMsg struct {
	notifications []models.Notification
	unread        int
}

func (v *NotificationListView) loadNotifications() tea.Msg {
	return notificationsLoadedMsg{
		notifications: v.store.ListNotifications(),
		unread:        v.store.UnreadNotificationCount(),
	}
}

// Update handles messages
func (v *NotificationListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case Refresh:
		return v, v.loadNotifications

	case notificationsLoadedMsg:
		v.notifications = msg.notifications
		v.unread = msg.unread
		if v.cursor >= len(v.notifications) {
			v.cursor = max(0, len(v.notifications)-1)
		}
		return v, nil

	case tea.KeyMsg:
		return v.updateKeys(msg)
	}
	return v, nil
}

func (v *NotificationListView) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.errText = ""
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackToProjects{} }

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.notifications)-1 {
			v.cursor++
			v.ensureVisible()
		}

	case key.Matches(msg, v.keys.Enter):
		if len(v.notifications) == 0 {
			return v, nil
		}
		n := v.notifications[v.cursor]
		if err := v.markRead(v.store.MarkNotificationRead(n.ID)); err != nil {
			return v, nil
		}
		// Jump to the related project when it still exists
		if project, ok := v.store.GetProject(n.ProjectID); ok {
			return v, func() tea.Msg { return SelectedProject{Project: project} }
		}
		return v, v.loadNotifications

	case key.Matches(msg, v.keys.ReadAll):
		_, err := v.store.MarkAllNotificationsRead()
		v.markRead(err)
		return v, v.loadNotifications
	}
	return v, nil
}

// markRead records the outcome of a read mutation and returns blocking errors
func (v *NotificationListView) markRead(err error) error {
	if err != nil && !errors.Is(err, store.ErrPersist) {
		v.errText = err.Error()
		return err
	}
	v.errText = errText(err)
	return nil
}

func (v *NotificationListView) ensureVisible() {
	visible := v.visibleItems()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

func (v *NotificationListView) visibleItems() int {
	return max((v.height-8)/3, 1)
}

// View renders the view
func (v *NotificationListView) View() string {
	s := v.styles
	var b strings.Builder

	title := s.Title.Render("Notifications")
	if v.unread > 0 {
		title += " " + s.UnreadBadge.Render(fmt.Sprintf(" %d unread ", v.unread))
	}
	b.WriteString(title)
	b.WriteString("\n\n")

	if len(v.notifications) == 0 {
		b.WriteString(s.TitleMuted.Render("You're all caught up."))
	} else {
		var items []string
		end := min(v.scrollY+v.visibleItems(), len(v.notifications))
		for i := v.scrollY; i < end; i++ {
			items = append(items, v.renderItem(v.notifications[i], i == v.cursor))
		}
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, items...))
	}

	if v.errText != "" {
		b.WriteString("\n")
		b.WriteString(s.ErrorText.Render(v.errText))
	}

	b.WriteString("\n")
	b.WriteString(s.Help.Render(fmt.Sprintf("%s open • %s read all • %s back • %s quit",
		s.HelpKey.Render("↵"),
		s.HelpKey.Render("r"),
		s.HelpKey.Render("esc"),
		s.HelpKey.Render("q"),
	)))

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *NotificationListView) renderItem(n models.Notification, selected bool) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 20)

	marker := "  "
	if !n.Read {
		marker = s.UnreadBadge.Render("•") + " "
	}
	meta := s.TitleMuted.Render(string(n.Type) + " • " + timeAgo(n.CreatedAt, v.now()))

	lineStyle := s.ListItem.Width(width)
	if selected {
		lineStyle = s.ListSelected.Width(width)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lineStyle.Render(marker+n.Content),
		lineStyle.Render("  "+meta),
	) + "\n"
}

// timeAgo renders a coarse relative time
func timeAgo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
	return t.Local().Format("Jan 2")
}
