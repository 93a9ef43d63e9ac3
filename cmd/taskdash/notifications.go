package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tgienger/taskdash/internal/models"
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"inbox"},
	Short:   "List notifications, newest first",
	Args:    cobra.NoArgs,
	RunE:    runNotifications,
}

var (
	notificationsUnread  bool
	notificationsReadAll bool
)

// notifications add
var notificationsAddCmd = &cobra.Command{
	Use:   "add <message>",
	Short: "Record a mention notification",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotificationsAdd,
}

var notificationsAddTask string

// sweep
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Create due-date reminders for tasks due today or overdue",
	Args:  cobra.NoArgs,
	RunE:  runSweep,
}

func init() {
	rootCmd.AddCommand(notificationsCmd, sweepCmd)
	notificationsCmd.AddCommand(notificationsAddCmd)

	notificationsCmd.Flags().BoolVarP(&notificationsUnread, "unread", "u", false, "Only show unread notifications")
	notificationsCmd.Flags().BoolVar(&notificationsReadAll, "read-all", false, "Mark every notification as read")
	notificationsAddCmd.Flags().StringVar(&notificationsAddTask, "task", "", "Related task id or id prefix")
}

func runNotifications(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	out := cmd.OutOrStdout()
	if notificationsReadAll {
		n, err := e.store.MarkAllNotificationsRead()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "Marked %d notifications as read.\n", n)
		return err
	}

	var rows [][]string
	for _, n := range e.store.ListNotifications() {
		if notificationsUnread && n.Read {
			continue
		}
		rows = append(rows, notificationRow(n))
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(out, "No notifications.")
		return err
	}
	_, err = fmt.Fprint(out, formatTable([]string{"", "TYPE", "MESSAGE", "WHEN"}, rows))
	return err
}

func notificationRow(n models.Notification) []string {
	marker := "*"
	if n.Read {
		marker = ""
	}
	return []string{
		marker,
		string(n.Type),
		n.Content,
		n.CreatedAt.Local().Format("2006-01-02 15:04"),
	}
}

func runNotificationsAdd(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	content := strings.TrimSpace(args[0])
	if content == "" {
		return errors.New("message is empty")
	}
	in := models.NewNotification{Type: models.NotificationMention, Content: content}
	if notificationsAddTask != "" {
		id, err := resolveTaskID(e.store, notificationsAddTask)
		if err != nil {
			return err
		}
		task, _ := e.store.GetTask(id)
		in.TaskID = task.ID
		in.ProjectID = task.ProjectID
	}

	if _, err := e.store.AddNotification(in); err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "Notification added.")
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	n, err := e.store.SweepDueDates()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Created %d due-date notifications.\n", n)
	return err
}
