package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/boylish/Task-Manager-backend/models"
)

// These tests exercise the validation paths, which reject before any store call
// is made.

func TestCreateTask_Validation(t *testing.T) {
	service := NewTaskService(nil, nil)
	principal := models.Principal{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	valid := CreateTaskInput{
		Title:      "Write onboarding docs",
		DueDate:    time.Now().Add(48 * time.Hour),
		AssignedTo: []primitive.ObjectID{primitive.NewObjectID()},
	}

	tests := []struct {
		name   string
		mutate func(input *CreateTaskInput)
		field  string
	}{
		{
			name:   "missing title",
			mutate: func(input *CreateTaskInput) { input.Title = "  " },
			field:  "title",
		},
		{
			name:   "missing due date",
			mutate: func(input *CreateTaskInput) { input.DueDate = time.Time{} },
			field:  "dueDate",
		},
		{
			name:   "no assignees",
			mutate: func(input *CreateTaskInput) { input.AssignedTo = nil },
			field:  "assignedTo",
		},
		{
			name:   "unknown priority",
			mutate: func(input *CreateTaskInput) { input.Priority = "urgent" },
			field:  "priority",
		},
		{
			name: "checklist item without text",
			mutate: func(input *CreateTaskInput) {
				input.TodoChecklists = []models.ChecklistItem{{Text: ""}}
			},
			field: "todoChecklists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)

			_, err := service.CreateTask(context.Background(), principal, input)
			require.Error(t, err)

			var validationError *ValidationError
			require.ErrorAs(t, err, &validationError)
			assert.Equal(t, tt.field, validationError.Field)
		})
	}
}

func TestUpdateTaskStatus_RejectsUnknownLiteral(t *testing.T) {
	service := NewTaskService(nil, nil)
	principal := models.Principal{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	_, err := service.UpdateTaskStatus(context.Background(), principal, primitive.NewObjectID(), "In Progress ")
	require.Error(t, err)

	var validationError *ValidationError
	assert.ErrorAs(t, err, &validationError)
}

func TestUpdateTaskChecklist_RejectsItemWithoutText(t *testing.T) {
	service := NewTaskService(nil, nil)
	principal := models.Principal{ID: primitive.NewObjectID(), Role: models.RoleUser}

	items := []models.ChecklistItem{{Text: "ok", Completed: true}, {Text: "   "}}
	_, err := service.UpdateTaskChecklist(context.Background(), principal, primitive.NewObjectID(), items)
	require.Error(t, err)

	var validationError *ValidationError
	assert.ErrorAs(t, err, &validationError)
	assert.Equal(t, "todoChecklists", validationError.Field)
}

func TestValidateChecklist(t *testing.T) {
	assert.NoError(t, validateChecklist(nil))
	assert.NoError(t, validateChecklist([]models.ChecklistItem{{Text: "a"}}))
	assert.Error(t, validateChecklist([]models.ChecklistItem{{Text: ""}}))
}

func TestScopeFilter(t *testing.T) {
	service := NewTaskService(nil, nil)
	userID := primitive.NewObjectID()

	adminScope := service.scopeFilter(models.Principal{ID: userID, Role: models.RoleAdmin})
	assert.Empty(t, adminScope)

	userScope := service.scopeFilter(models.Principal{ID: userID, Role: models.RoleUser})
	assert.Equal(t, userID, userScope["assignedTo"])
}
