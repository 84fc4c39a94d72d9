package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestApplyChecklist_DerivesProgressAndStatus(t *testing.T) {
	tests := []struct {
		name         string
		items        []ChecklistItem
		wantProgress int
		wantStatus   TaskStatus
	}{
		{
			name:         "empty checklist is pending",
			items:        []ChecklistItem{},
			wantProgress: 0,
			wantStatus:   StatusPending,
		},
		{
			name:         "nil checklist is pending",
			items:        nil,
			wantProgress: 0,
			wantStatus:   StatusPending,
		},
		{
			name: "half done is in progress",
			items: []ChecklistItem{
				{Text: "a", Completed: true},
				{Text: "b", Completed: false},
			},
			wantProgress: 50,
			wantStatus:   StatusInProgress,
		},
		{
			name: "nothing done is pending",
			items: []ChecklistItem{
				{Text: "a"},
				{Text: "b"},
			},
			wantProgress: 0,
			wantStatus:   StatusPending,
		},
		{
			name: "all done is completed",
			items: []ChecklistItem{
				{Text: "a", Completed: true},
				{Text: "b", Completed: true},
			},
			wantProgress: 100,
			wantStatus:   StatusCompleted,
		},
		{
			name: "one of three rounds to 33",
			items: []ChecklistItem{
				{Text: "a", Completed: true},
				{Text: "b"},
				{Text: "c"},
			},
			wantProgress: 33,
			wantStatus:   StatusInProgress,
		},
		{
			name: "two of three rounds to 67",
			items: []ChecklistItem{
				{Text: "a", Completed: true},
				{Text: "b", Completed: true},
				{Text: "c"},
			},
			wantProgress: 67,
			wantStatus:   StatusInProgress,
		},
		{
			name: "half of an eighth rounds up",
			items: []ChecklistItem{
				{Text: "a", Completed: true},
				{Text: "b"},
				{Text: "c"},
				{Text: "d"},
				{Text: "e"},
				{Text: "f"},
				{Text: "g"},
				{Text: "h"},
			},
			// 1/8 = 12.5%, round half up
			wantProgress: 13,
			wantStatus:   StatusInProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &Task{Status: StatusCompleted, Progress: 100}
			task.ApplyChecklist(tt.items)

			assert.Equal(t, tt.wantProgress, task.Progress)
			assert.Equal(t, tt.wantStatus, task.Status)
			assert.NotNil(t, task.TodoChecklists)
		})
	}
}

func TestApplyChecklist_ReopensCompletedTask(t *testing.T) {
	task := &Task{}
	task.ApplyChecklist([]ChecklistItem{{Text: "a", Completed: true}})
	assert.Equal(t, StatusCompleted, task.Status)

	task.ApplyChecklist([]ChecklistItem{{Text: "a", Completed: true}, {Text: "b"}})
	assert.Equal(t, StatusInProgress, task.Status)
	assert.Equal(t, 50, task.Progress)
}

func TestForceComplete_OverridesChecklistState(t *testing.T) {
	task := &Task{
		TodoChecklists: []ChecklistItem{
			{Text: "a", Completed: false},
			{Text: "b", Completed: false},
		},
		Progress: 0,
		Status:   StatusPending,
	}

	task.ForceComplete()

	assert.Equal(t, StatusCompleted, task.Status)
	assert.Equal(t, 100, task.Progress)
	for _, item := range task.TodoChecklists {
		assert.True(t, item.Completed)
	}
}

func TestForceComplete_EmptyChecklist(t *testing.T) {
	task := &Task{}
	task.ForceComplete()

	assert.Equal(t, StatusCompleted, task.Status)
	assert.Equal(t, 100, task.Progress)
}

func TestCanBeModifiedBy(t *testing.T) {
	assigned := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	admin := primitive.NewObjectID()

	task := &Task{AssignedTo: []primitive.ObjectID{assigned}}

	assert.True(t, task.CanBeModifiedBy(Principal{ID: assigned, Role: RoleUser}))
	assert.False(t, task.CanBeModifiedBy(Principal{ID: stranger, Role: RoleUser}))
	assert.True(t, task.CanBeModifiedBy(Principal{ID: admin, Role: RoleAdmin}))
}

func TestIsOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	overdue := &Task{DueDate: past, Status: StatusInProgress}
	assert.True(t, overdue.IsOverdue(now))

	// Completed tasks are never overdue, even past their due date.
	completed := &Task{DueDate: past, Status: StatusCompleted}
	assert.False(t, completed.IsOverdue(now))

	upcoming := &Task{DueDate: future, Status: StatusPending}
	assert.False(t, upcoming.IsOverdue(now))
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleUser, ParseRole("user"))
	assert.Equal(t, RoleUser, ParseRole(""))
	assert.Equal(t, RoleUser, ParseRole("superuser"))
}

func TestValidStatusAndPriority(t *testing.T) {
	assert.True(t, ValidStatus(StatusPending))
	assert.True(t, ValidStatus(StatusInProgress))
	assert.True(t, ValidStatus(StatusCompleted))
	assert.False(t, ValidStatus("In Progress"))
	assert.False(t, ValidStatus(""))

	assert.True(t, ValidPriority(PriorityLow))
	assert.True(t, ValidPriority(PriorityMedium))
	assert.True(t, ValidPriority(PriorityHigh))
	assert.False(t, ValidPriority("urgent"))
}
