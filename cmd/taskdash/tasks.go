package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/store"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List tasks matching filters",
	Long: `List tasks matching filters.

Filters combine with AND. Repeated --status or --priority values match any of them.
--due takes one of: today, thisWeek, overdue, noDueDate.`,
	Args: cobra.NoArgs,
	RunE: runTasksList,
}

var (
	tasksStatus   []string
	tasksPriority []string
	tasksProject  string
	tasksAssignee string
	tasksDue      string
	tasksSearch   string
)

// tasks add
var tasksAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksAdd,
}

var (
	tasksAddDescription string
	tasksAddStatus      string
	tasksAddPriority    string
	tasksAddDue         string
	tasksAddProject     string
	tasksAddAssignee    string
)

// tasks status
var tasksStatusCmd = &cobra.Command{
	Use:   "status <id> <todo|in-progress|done>",
	Short: "Change the status of a task",
	Args:  cobra.ExactArgs(2),
	RunE:  runTasksStatus,
}

// tasks comment
var tasksCommentCmd = &cobra.Command{
	Use:   "comment <id> <text>",
	Short: "Comment on a task as the current user",
	Args:  cobra.ExactArgs(2),
	RunE:  runTasksComment,
}

// tasks show
var tasksShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a task with its comments and attachments",
	Args:  cobra.ExactArgs(1),
	RunE:  runTasksShow,
}

// tasks attach
var tasksAttachCmd = &cobra.Command{
	Use:   "attach <id> <name> <url>",
	Short: "Attach a file reference to a task",
	Args:  cobra.ExactArgs(3),
	RunE:  runTasksAttach,
}

// tasks delete
var tasksDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete tasks and their notifications",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTasksDelete,
}

func init() {
	rootCmd.AddCommand(tasksCmd)
	tasksCmd.AddCommand(tasksAddCmd, tasksShowCmd, tasksStatusCmd, tasksCommentCmd, tasksAttachCmd, tasksDeleteCmd)

	tasksCmd.Flags().StringSliceVarP(&tasksStatus, "status", "s", nil, "Filter by status (todo, in-progress, done)")
	tasksCmd.Flags().StringSliceVarP(&tasksPriority, "priority", "p", nil, "Filter by priority (low, medium, high)")
	tasksCmd.Flags().StringVar(&tasksProject, "project", "", "Filter by project id or id prefix")
	tasksCmd.Flags().StringVarP(&tasksAssignee, "assignee", "a", "", "Filter by assignee (user id, name, or \"me\")")
	tasksCmd.Flags().StringVar(&tasksDue, "due", "", "Filter by due date bucket")
	tasksCmd.Flags().StringVarP(&tasksSearch, "search", "q", "", "Case-insensitive text search")

	tasksAddCmd.Flags().StringVarP(&tasksAddDescription, "description", "d", "", "Description")
	tasksAddCmd.Flags().StringVar(&tasksAddStatus, "status", string(models.StatusTodo), "Initial status")
	tasksAddCmd.Flags().StringVarP(&tasksAddPriority, "priority", "p", string(models.PriorityMedium), "Priority (low, medium, high)")
	tasksAddCmd.Flags().StringVar(&tasksAddDue, "due", "", "Due date (YYYY-MM-DD)")
	tasksAddCmd.Flags().StringVar(&tasksAddProject, "project", "", "Project id or id prefix (required)")
	tasksAddCmd.Flags().StringVarP(&tasksAddAssignee, "assignee", "a", "", "Assignee (user id, name, or \"me\")")
}

// buildFilter turns the list flags into filter options
func buildFilter(s *store.Store) (models.FilterOptions, error) {
	var opts models.FilterOptions
	for _, v := range tasksStatus {
		status := models.Status(strings.TrimSpace(v))
		if !status.IsValid() {
			return opts, fmt.Errorf("unknown status %q", v)
		}
		opts.Status = append(opts.Status, status)
	}
	for _, v := range tasksPriority {
		priority := models.Priority(strings.TrimSpace(v))
		if !priority.IsValid() {
			return opts, fmt.Errorf("unknown priority %q", v)
		}
		opts.Priority = append(opts.Priority, priority)
	}

	due := models.DueBucket(tasksDue)
	if !due.IsValid() {
		return opts, fmt.Errorf("unknown due bucket %q", tasksDue)
	}
	opts.DueDate = due

	if tasksProject != "" {
		id, err := resolveProjectID(s, tasksProject)
		if err != nil {
			return opts, err
		}
		opts.ProjectID = id
	}

	id, err := resolveUserID(s, tasksAssignee)
	if err != nil {
		return opts, err
	}
	opts.AssigneeID = id
	opts.SearchQuery = tasksSearch
	return opts, nil
}

func runTasksList(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	opts, err := buildFilter(e.store)
	if err != nil {
		return err
	}
	e.store.SetFilterOptions(opts)
	tasks := e.store.FilteredTasks()

	out := cmd.OutOrStdout()
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(out, "No tasks found.")
		return err
	}
	_, err = fmt.Fprint(out, formatTable(
		[]string{"ID", "TITLE", "STATUS", "PRIORITY", "DUE", "PROJECT", "ASSIGNEE"},
		taskRows(tasks),
	))
	return err
}

func runTasksAdd(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	in := models.NewTask{
		Title:       args[0],
		Description: tasksAddDescription,
		Status:      models.Status(tasksAddStatus),
		Priority:    models.Priority(tasksAddPriority),
	}
	if tasksAddProject != "" {
		in.ProjectID, err = resolveProjectID(e.store, tasksAddProject)
		if err != nil {
			return err
		}
	}
	in.AssigneeID, err = resolveUserID(e.store, tasksAddAssignee)
	if err != nil {
		return err
	}
	if tasksAddDue != "" {
		due, err := time.ParseInLocation(time.DateOnly, tasksAddDue, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --due %q: want YYYY-MM-DD", tasksAddDue)
		}
		in.DueDate = &due
	}

	if err := store.ValidateNewTask(in); err != nil {
		return err
	}

	task, err := e.store.CreateTask(in)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Created task %s: %s\n", shortID(task.ID), task.Title)
	return err
}

func runTasksStatus(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	status := models.Status(args[1])
	if !status.IsValid() {
		return fmt.Errorf("unknown status %q", args[1])
	}
	id, err := resolveTaskID(e.store, args[0])
	if err != nil {
		return err
	}
	task, err := e.store.UpdateTaskStatus(id, status)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", task.Title, task.Status.Label())
	return err
}

func runTasksComment(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	content := strings.TrimSpace(args[1])
	if content == "" {
		return errors.New("comment text is empty")
	}
	id, err := resolveTaskID(e.store, args[0])
	if err != nil {
		return err
	}
	if _, err := e.store.AddComment(id, content); err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "Comment added.")
	return err
}

func runTasksShow(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	id, err := resolveTaskID(e.store, args[0])
	if err != nil {
		return err
	}
	task, ok := e.store.GetTask(id)
	if !ok {
		return fmt.Errorf("%w: %s", store.ErrTaskNotFound, id)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", task.Title)
	fmt.Fprintf(&b, "ID:        %s\n", task.ID)
	fmt.Fprintf(&b, "Status:    %s\n", task.Status.Label())
	fmt.Fprintf(&b, "Priority:  %s\n", task.Priority)
	fmt.Fprintf(&b, "Due:       %s\n", formatDate(task.DueDate))
	fmt.Fprintf(&b, "Project:   %s\n", orDash(task.ProjectName))
	fmt.Fprintf(&b, "Assignee:  %s\n", orDash(task.AssigneeName))
	fmt.Fprintf(&b, "Updated:   %s\n", task.UpdatedAt.Local().Format("2006-01-02 15:04"))
	if task.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", task.Description)
	}
	if len(task.Attachments) > 0 {
		b.WriteString("\nAttachments:\n")
		for _, a := range task.Attachments {
			fmt.Fprintf(&b, "  %s  %s\n", a.Name, a.URL)
		}
	}
	if len(task.Comments) > 0 {
		b.WriteString("\nComments:\n")
		for _, c := range task.Comments {
			fmt.Fprintf(&b, "  %s (%s): %s\n", c.AuthorName, c.CreatedAt.Local().Format("Jan 2 15:04"), c.Content)
		}
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), b.String())
	return err
}

func runTasksAttach(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	id, err := resolveTaskID(e.store, args[0])
	if err != nil {
		return err
	}
	a, err := e.store.AddAttachment(id, args[1], args[2])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Attached %s to task %s\n", a.Name, shortID(id))
	return err
}

func runTasksDelete(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	for _, ref := range args {
		id, err := resolveTaskID(e.store, ref)
		if err != nil {
			return err
		}
		if err := e.store.DeleteTask(id); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", shortID(id)); err != nil {
			return err
		}
	}
	return nil
}
