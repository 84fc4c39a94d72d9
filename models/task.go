package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// TaskStatuses lists every status in enum order, for building dashboard maps with
// total key coverage.
var TaskStatuses = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted}

// ValidStatus reports whether the literal names a known status.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

var TaskPriorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh}

// ValidPriority reports whether the literal names a known priority.
func ValidPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ChecklistItem is one sub-task line. It lives embedded in its parent task and has
// no identity of its own.
type ChecklistItem struct {
	Text      string `bson:"text" json:"text"`
	Completed bool   `bson:"completed" json:"completed"`
}

type Task struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title          string               `bson:"title" json:"title"`
	Description    string               `bson:"description" json:"description"`
	Priority       TaskPriority         `bson:"priority" json:"priority"`
	Status         TaskStatus           `bson:"status" json:"status"`
	DueDate        time.Time            `bson:"dueDate" json:"dueDate"`
	AssignedTo     []primitive.ObjectID `bson:"assignedTo" json:"assignedTo"`
	CreatedBy      primitive.ObjectID   `bson:"createdBy" json:"createdBy"`
	Attachments    []string             `bson:"attachments" json:"attachments"`
	TodoChecklists []ChecklistItem      `bson:"todoChecklists" json:"todoChecklists"`
	Progress       int                  `bson:"progress" json:"progress"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// IsAssignedTo reports whether the given user is one of the task's assignees.
func (t *Task) IsAssignedTo(userID primitive.ObjectID) bool {
	for _, id := range t.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}

// CanBeModifiedBy is the authorization gate for task mutations: admins always,
// everyone else only when assigned.
func (t *Task) CanBeModifiedBy(p Principal) bool {
	if p.IsAdmin() {
		return true
	}
	return t.IsAssignedTo(p.ID)
}

// ApplyChecklist replaces the checklist wholesale and re-derives progress and
// status. This is the only place the derivation rule lives; every checklist
// mutation must go through it. An empty checklist yields progress 0 and pending.
func (t *Task) ApplyChecklist(items []ChecklistItem) {
	if items == nil {
		items = []ChecklistItem{}
	}
	t.TodoChecklists = items
	t.Progress = checklistProgress(items)
	t.Status = statusForProgress(t.Progress)
}

// ForceComplete marks the task completed regardless of checklist state: every item
// is flipped to completed and progress pinned to 100. This is a one-way override;
// moving away from completed afterwards does not undo it.
func (t *Task) ForceComplete() {
	for i := range t.TodoChecklists {
		t.TodoChecklists[i].Completed = true
	}
	t.Progress = 100
	t.Status = StatusCompleted
}

// IsOverdue reports whether the task's due date has passed without completion,
// evaluated against the given wall-clock instant.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate.Before(now) && t.Status != StatusCompleted
}

func checklistProgress(items []ChecklistItem) int {
	if len(items) == 0 {
		return 0
	}
	completed := 0
	for _, item := range items {
		if item.Completed {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(items)) * 100))
}

func statusForProgress(progress int) TaskStatus {
	switch {
	case progress == 100:
		return StatusCompleted
	case progress > 0:
		return StatusInProgress
	default:
		return StatusPending
	}
}

// TaskPatch is the partial-update payload. Pointer fields distinguish "clear this
// field" from "leave it alone": only non-nil fields are applied.
type TaskPatch struct {
	Title          *string               `json:"title"`
	Description    *string               `json:"description"`
	Priority       *TaskPriority         `json:"priority"`
	DueDate        *time.Time            `json:"dueDate"`
	AssignedTo     *[]primitive.ObjectID `json:"assignedTo"`
	Attachments    *[]string             `json:"attachments"`
	TodoChecklists *[]ChecklistItem      `json:"todoChecklists"`
}

// TaskWithAssignees is the read model returned by single-task fetches: the task
// plus the resolved summaries of its assignees.
type TaskWithAssignees struct {
	Task
	AssignedTo []AssigneeSummary `json:"assignedTo"`
}

// StatusSummary accompanies task listings with per-status counts over the same
// scope as the listing itself.
type StatusSummary struct {
	All             int64 `json:"all"`
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
}
