package views

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/ui/styles"
)

// SelectedProject opens the task list of a project
type SelectedProject struct {
	Project models.Project
}

// OpenAllTasks opens the task list across every project
type OpenAllTasks struct{}

// OpenNotifications opens the notification list
type OpenNotifications struct{}

// BackToProjects signals to go back to project list
type BackToProjects struct{}

// Refresh asks the active view to reload from the store
type Refresh struct{}

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// formatDue renders a due date relative to now
func formatDue(t models.Task, now time.Time) string {
	if t.DueDate == nil {
		return ""
	}
	due := models.DueDay(*t.DueDate, now)
	today := models.StartOfDay(now)
	days := int(due.Sub(today).Hours() / 24)

	var label string
	switch {
	case days == 0:
		label = "today"
	case days == 1:
		label = "tomorrow"
	case days == -1:
		label = "yesterday"
	case days > 1 && days <= 7:
		label = due.Format("Mon")
	default:
		label = due.Format("Jan 2")
	}
	return "due " + label
}

// renderDue colors the due label red for overdue tasks
func renderDue(s *styles.Styles, t models.Task, now time.Time) string {
	label := formatDue(t, now)
	if label == "" {
		return ""
	}
	if models.IsOverdue(t, now) {
		return s.TaskOverdue.Render(label + " (overdue)")
	}
	return s.TitleMuted.Render(label)
}

// renderConfirm renders a yes/no dialog
func renderConfirm(s *styles.Styles, width, height int, title, detail string) string {
	contentWidth := styles.ContentWidth(width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render(title),
		"",
		s.TitleMuted.Render(detail),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, width, height)
}

// renderHelpPopup renders a boxed list of shortcuts
func renderHelpPopup(s *styles.Styles, width, height int, items [][2]string) string {
	contentWidth := styles.ContentWidth(width)

	lines := []string{s.Title.Render("Keyboard Shortcuts"), ""}
	for _, item := range items {
		pad := strings.Repeat(" ", max(1, 7-len([]rune(item[0]))))
		lines = append(lines, s.HelpKey.Render(item[0])+pad+item[1])
	}
	lines = append(lines, "", s.TitleMuted.Render("Press any key to close"))

	centered := lipgloss.Place(contentWidth, height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)),
	)
	return styles.CenterView(centered, width, height)
}
