package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tgienger/taskdash/internal/models"
	"github.com/tgienger/taskdash/internal/store"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects with their progress",
	Args:  cobra.NoArgs,
	RunE:  runProjectsList,
}

var projectsSearch string

// projects add
var projectsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsAdd,
}

var projectsAddDescription string

// projects rename
var projectsRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a project",
	Args:  cobra.ExactArgs(2),
	RunE:  runProjectsRename,
}

// projects delete
var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a project, keeping its tasks without a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsDelete,
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	projectsCmd.AddCommand(projectsAddCmd, projectsRenameCmd, projectsDeleteCmd)

	projectsCmd.Flags().StringVarP(&projectsSearch, "search", "q", "", "Filter by name or description")
	projectsAddCmd.Flags().StringVarP(&projectsAddDescription, "description", "d", "", "Description")
}

func runProjectsList(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	projects := e.store.SearchProjects(projectsSearch)
	out := cmd.OutOrStdout()
	if len(projects) == 0 {
		_, err := fmt.Fprintln(out, "No projects found.")
		return err
	}

	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		total, done := e.store.ProjectProgress(p.ID)
		rows = append(rows, []string{
			shortID(p.ID),
			p.Name,
			orDash(p.Description),
			fmt.Sprintf("%d/%d", done, total),
		})
	}
	_, err = fmt.Fprint(out, formatTable([]string{"ID", "NAME", "DESCRIPTION", "DONE"}, rows))
	return err
}

func runProjectsAdd(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	in := models.NewProject{Name: args[0], Description: projectsAddDescription}
	if err := store.ValidateNewProject(in); err != nil {
		return err
	}
	p, err := e.store.CreateProject(in)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Created project %s: %s\n", shortID(p.ID), p.Name)
	return err
}

func runProjectsRename(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if err := store.ValidateNewProject(models.NewProject{Name: args[1]}); err != nil {
		return err
	}
	id, err := resolveProjectID(e.store, args[0])
	if err != nil {
		return err
	}
	p, err := e.store.UpdateProject(id, models.ProjectUpdate{Name: &args[1]})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Renamed project %s to %s\n", shortID(p.ID), p.Name)
	return err
}

func runProjectsDelete(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	id, err := resolveProjectID(e.store, args[0])
	if err != nil {
		return err
	}
	if err := e.store.DeleteProject(id); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", shortID(id))
	return err
}
