package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/taskdash/internal/models"
)

func TestValidateNewTask(t *testing.T) {
	tests := []struct {
		name    string
		in      models.NewTask
		wantErr string
	}{
		{"valid", models.NewTask{Title: "Ship it", ProjectID: "p1"}, ""},
		{"blank title", models.NewTask{Title: "   ", ProjectID: "p1"}, "title is required"},
		{"missing project", models.NewTask{Title: "Ship it"}, "project is required"},
		{"long title", models.NewTask{Title: strings.Repeat("x", 501), ProjectID: "p1"}, "title must be at most 500 characters"},
		{"bad status", models.NewTask{Title: "x", ProjectID: "p1", Status: "blocked"}, "status must be one of"},
		{"bad priority", models.NewTask{Title: "x", ProjectID: "p1", Priority: "urgent"}, "priority must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNewTask(tt.in)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateNewTaskReportsEveryField(t *testing.T) {
	err := ValidateNewTask(models.NewTask{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is required")
	assert.Contains(t, err.Error(), "project is required")
}

func TestValidateNewProject(t *testing.T) {
	assert.NoError(t, ValidateNewProject(models.NewProject{Name: "Launch"}))

	err := ValidateNewProject(models.NewProject{Name: " "})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "name is required")

	err = ValidateNewProject(models.NewProject{Name: strings.Repeat("n", 101)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
