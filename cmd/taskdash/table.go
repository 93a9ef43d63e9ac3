package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/store"
)

const (
	shortIDLen        = 8
	tableCellMaxWidth = 50
	tableCellEllipsis = "..."
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func formatTable(headers []string, rows [][]string) string {
	for _, row := range rows {
		for i, cell := range row {
			row[i] = truncateCell(cell)
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.Render() + "\n"
}

// truncateCell flattens newlines and shortens long cells
func truncateCell(cell string) string {
	cell = strings.Join(strings.Fields(cell), " ")
	runes := []rune(cell)
	if len(runes) <= tableCellMaxWidth {
		return cell
	}
	return string(runes[:tableCellMaxWidth-len(tableCellEllipsis)]) + tableCellEllipsis
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(time.DateOnly)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func taskRows(tasks []models.Task) [][]string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			shortID(t.ID),
			t.Title,
			string(t.Status),
			string(t.Priority),
			formatDate(t.DueDate),
			orDash(t.ProjectName),
			orDash(t.AssigneeName),
		})
	}
	return rows
}

// resolveID expands a unique id prefix to a full id
func resolveID(kind, prefix string, ids []string) (string, error) {
	if strings.TrimSpace(prefix) == "" {
		return "", fmt.Errorf("%s id is empty: %w", kind, store.ErrNotFound)
	}
	var match string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			if match != "" {
				return "", fmt.Errorf("%s id %q is ambiguous", kind, prefix)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("%s %q: %w", kind, prefix, store.ErrNotFound)
	}
	return match, nil
}

func resolveTaskID(s *store.Store, prefix string) (string, error) {
	tasks := s.ListTasks()
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return resolveID("task", prefix, ids)
}

func resolveProjectID(s *store.Store, prefix string) (string, error) {
	projects := s.ListProjects()
	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	return resolveID("project", prefix, ids)
}

// resolveUserID accepts "me", a user id, or a case-insensitive user name
func resolveUserID(s *store.Store, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	if ref == "me" {
		return s.CurrentUser().ID, nil
	}
	for _, u := range s.ListUsers() {
		if u.ID == ref || strings.EqualFold(u.Name, ref) {
			return u.ID, nil
		}
	}
	return "", fmt.Errorf("user %q: %w", ref, store.ErrNotFound)
}
