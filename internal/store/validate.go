package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tgienger/taskdash/internal/models"
)

var validate = validator.New()

// ValidateNewTask checks the required fields of a task form before it is
// submitted. The store itself accepts any well-typed payload, so callers
// run this first and show the message inline.
func ValidateNewTask(in models.NewTask) error {
	in.Title = strings.TrimSpace(in.Title)
	return validationError(validate.Struct(in))
}

// ValidateNewProject checks the required fields of a project form
func ValidateNewProject(in models.NewProject) error {
	in.Name = strings.TrimSpace(in.Name)
	return validationError(validate.Struct(in))
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
}

func fieldLabel(field string) string {
	switch field {
	case "ProjectID":
		return "project"
	case "AssigneeID":
		return "assignee"
	}
	return strings.ToLower(field)
}

// checkEnums rejects values that are not well-typed
func checkEnums(status *models.Status, priority *models.Priority) error {
	if status != nil && !status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *status)
	}
	if priority != nil && !priority.IsValid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, *priority)
	}
	return nil
}
