package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/ui/styles"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show tasks grouped by status",
	Args:  cobra.NoArgs,
	RunE:  runBoard,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently updated tasks",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var (
	historyLimit     int
	historyCompleted bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the dashboard summary for the current user",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(boardCmd, historyCmd, summaryCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of tasks (0 for all)")
	historyCmd.Flags().BoolVar(&historyCompleted, "completed", false, "Only show completed tasks")
}

const boardColumnWidth = 28

func runBoard(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	column := lipgloss.NewStyle().Width(boardColumnWidth).MarginRight(2)
	var columns []string
	for _, status := range models.Statuses() {
		tasks := e.store.ListTasksByStatus(status)
		lines := []string{
			lipgloss.NewStyle().Bold(true).Foreground(styles.StatusColor(status)).
				Render(fmt.Sprintf("%s (%d)", status.Label(), len(tasks))),
		}
		for _, t := range tasks {
			lines = append(lines, "- "+truncateCell(t.Title))
		}
		columns = append(columns, column.Render(strings.Join(lines, "\n")))
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), lipgloss.JoinHorizontal(lipgloss.Top, columns...))
	return err
}

func runHistory(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	var tasks []models.Task
	if historyCompleted {
		tasks = e.store.CompletedTasks()
		if historyLimit > 0 && len(tasks) > historyLimit {
			tasks = tasks[:historyLimit]
		}
	} else {
		tasks = e.store.RecentlyUpdated(historyLimit)
	}

	out := cmd.OutOrStdout()
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(out, "No tasks found.")
		return err
	}

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			shortID(t.ID),
			t.Title,
			string(t.Status),
			orDash(t.ProjectName),
			t.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	_, err = fmt.Fprint(out, formatTable([]string{"ID", "TITLE", "STATUS", "PROJECT", "UPDATED"}, rows))
	return err
}

func runSummary(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	keys, err := e.db.CollectionKeys()
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}

	d := e.store.Dashboard()
	rows := [][]string{
		{"User", e.store.CurrentUser().Name},
		{"My tasks", fmt.Sprint(len(d.MyTasks))},
		{"Due today", fmt.Sprint(len(d.DueToday))},
		{"Overdue", fmt.Sprint(len(d.Overdue))},
		{"Upcoming", fmt.Sprint(len(d.Upcoming))},
		{"Projects in progress", fmt.Sprint(d.InProgressProjects)},
		{"Completion", fmt.Sprintf("%d%%", d.CompletionRate)},
		{"Unread notifications", fmt.Sprint(e.store.UnreadNotificationCount())},
		{"Database", e.cfg.Storage.Path},
		{"Collections", strings.Join(keys, ", ")},
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), formatTable([]string{"", ""}, rows))
	return err
}
