package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/boylish/Task-Manager-backend/logging"
	"github.com/boylish/Task-Manager-backend/models"
)

// TaskService owns the task collection: CRUD, the checklist mutations and the
// assignment-based authorization gate.
type TaskService struct {
	tasksCollection *mongo.Collection
	usersCollection *mongo.Collection
}

func NewTaskService(tasksCollection, usersCollection *mongo.Collection) *TaskService {
	return &TaskService{
		tasksCollection: tasksCollection,
		usersCollection: usersCollection,
	}
}

// CreateTaskInput is the creation payload. Status and progress are not accepted
// from the caller; they are derived from the checklist.
type CreateTaskInput struct {
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	Priority       models.TaskPriority    `json:"priority"`
	DueDate        time.Time              `json:"dueDate"`
	AssignedTo     []primitive.ObjectID   `json:"assignedTo"`
	Attachments    []string               `json:"attachments"`
	TodoChecklists []models.ChecklistItem `json:"todoChecklists"`
}

// CreateTask validates the input, derives the initial progress and status from the
// checklist and inserts the task.
func (s *TaskService) CreateTask(ctx context.Context, principal models.Principal, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, validationErr("title", "task title is required")
	}
	if input.DueDate.IsZero() {
		return nil, validationErr("dueDate", "due date is required")
	}
	if len(input.AssignedTo) == 0 {
		return nil, validationErr("assignedTo", "at least one assigned user is required")
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !models.ValidPriority(input.Priority) {
		return nil, validationErr("priority", fmt.Sprintf("unknown priority %q", input.Priority))
	}
	if err := validateChecklist(input.TodoChecklists); err != nil {
		return nil, err
	}

	now := time.Now()
	task := &models.Task{
		ID:          primitive.NewObjectID(),
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		AssignedTo:  input.AssignedTo,
		CreatedBy:   principal.ID,
		Attachments: input.Attachments,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Attachments == nil {
		task.Attachments = []string{}
	}
	task.ApplyChecklist(input.TodoChecklists)

	if _, err := s.tasksCollection.InsertOne(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %v", err)
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created by %s", task.ID.Hex(), principal.ID.Hex())
	return task, nil
}

// GetTaskByID returns a task with its assignees resolved. Non-admin principals may
// only read tasks they are assigned to.
func (s *TaskService) GetTaskByID(ctx context.Context, principal models.Principal, taskID primitive.ObjectID) (*models.TaskWithAssignees, error) {
	var task models.Task
	err := s.tasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve task: %v", err)
	}

	if !principal.IsAdmin() && !task.IsAssignedTo(principal.ID) {
		return nil, ErrForbidden
	}

	return s.withAssignees(ctx, &task)
}

// ListTasks returns the tasks visible to the principal, optionally filtered by
// status, plus a status summary over the same scope. Non-admins are scoped to their
// own assignments inside the query filter, never as a post-filter.
func (s *TaskService) ListTasks(ctx context.Context, principal models.Principal, status string) ([]models.TaskWithAssignees, models.StatusSummary, error) {
	scope := s.scopeFilter(principal)

	filter := bson.M{}
	for k, v := range scope {
		filter[k] = v
	}
	if status != "" {
		filter["status"] = strings.ToLower(status)
	}

	cursor, err := s.tasksCollection.Find(ctx, filter)
	if err != nil {
		return nil, models.StatusSummary{}, fmt.Errorf("failed to retrieve tasks: %v", err)
	}
	defer cursor.Close(ctx)

	tasks := []models.TaskWithAssignees{}
	for cursor.Next(ctx) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			return nil, models.StatusSummary{}, fmt.Errorf("failed to decode task: %v", err)
		}
		resolved, err := s.withAssignees(ctx, &task)
		if err != nil {
			return nil, models.StatusSummary{}, err
		}
		tasks = append(tasks, *resolved)
	}
	if err := cursor.Err(); err != nil {
		return nil, models.StatusSummary{}, fmt.Errorf("cursor error: %v", err)
	}

	summary, err := s.statusSummary(ctx, scope)
	if err != nil {
		return nil, models.StatusSummary{}, err
	}

	return tasks, summary, nil
}

// UpdateTask applies a partial update. Only non-nil patch fields are written; a
// checklist replacement re-derives progress and status.
func (s *TaskService) UpdateTask(ctx context.Context, principal models.Principal, taskID primitive.ObjectID, patch models.TaskPatch) (*models.Task, error) {
	var task models.Task
	err := s.tasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve task: %v", err)
	}

	if !task.CanBeModifiedBy(principal) {
		return nil, ErrForbidden
	}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, validationErr("title", "task title cannot be empty")
		}
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Priority != nil {
		if !models.ValidPriority(*patch.Priority) {
			return nil, validationErr("priority", fmt.Sprintf("unknown priority %q", *patch.Priority))
		}
		task.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		if patch.DueDate.IsZero() {
			return nil, validationErr("dueDate", "due date cannot be cleared")
		}
		task.DueDate = *patch.DueDate
	}
	if patch.AssignedTo != nil {
		if len(*patch.AssignedTo) == 0 {
			return nil, validationErr("assignedTo", "at least one assigned user is required")
		}
		task.AssignedTo = *patch.AssignedTo
	}
	if patch.Attachments != nil {
		task.Attachments = *patch.Attachments
	}
	if patch.TodoChecklists != nil {
		if err := validateChecklist(*patch.TodoChecklists); err != nil {
			return nil, err
		}
		task.ApplyChecklist(*patch.TodoChecklists)
	}
	task.UpdatedAt = time.Now()

	if _, err := s.tasksCollection.ReplaceOne(ctx, bson.M{"_id": taskID}, &task); err != nil {
		return nil, fmt.Errorf("failed to update task: %v", err)
	}

	return &task, nil
}

// DeleteTask hard-deletes a task. The admin-only restriction is enforced at the
// route level.
func (s *TaskService) DeleteTask(ctx context.Context, taskID primitive.ObjectID) error {
	result, err := s.tasksCollection.DeleteOne(ctx, bson.M{"_id": taskID})
	if err != nil {
		return fmt.Errorf("failed to delete task: %v", err)
	}
	if result.DeletedCount == 0 {
		return ErrTaskNotFound
	}
	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted", taskID.Hex())
	return nil
}

// UpdateTaskStatus sets the task status for an admin or an assigned user. Setting
// completed force-marks every checklist item and pins progress to 100; any other
// status leaves the checklist and progress untouched.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, principal models.Principal, taskID primitive.ObjectID, status models.TaskStatus) (*models.Task, error) {
	status = models.TaskStatus(strings.ToLower(string(status)))
	if !models.ValidStatus(status) {
		return nil, validationErr("status", fmt.Sprintf("unknown status %q", status))
	}

	var task models.Task
	err := s.tasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve task: %v", err)
	}

	if !task.CanBeModifiedBy(principal) {
		return nil, ErrForbidden
	}

	if status == models.StatusCompleted {
		task.ForceComplete()
	} else {
		task.Status = status
	}
	task.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"status":         task.Status,
		"todoChecklists": task.TodoChecklists,
		"progress":       task.Progress,
		"updatedAt":      task.UpdatedAt,
	}}
	if _, err := s.tasksCollection.UpdateOne(ctx, bson.M{"_id": taskID}, update); err != nil {
		return nil, fmt.Errorf("failed to update task status: %v", err)
	}

	logging.Logger.Infof("Event ID: TASK_STATUS_UPDATED, Description: Task %s status set to %s by %s", taskID.Hex(), task.Status, principal.ID.Hex())
	return &task, nil
}

// UpdateTaskChecklist replaces the checklist wholesale, re-derives progress and
// status, and returns the task with assignees resolved.
func (s *TaskService) UpdateTaskChecklist(ctx context.Context, principal models.Principal, taskID primitive.ObjectID, items []models.ChecklistItem) (*models.TaskWithAssignees, error) {
	if err := validateChecklist(items); err != nil {
		return nil, err
	}

	var task models.Task
	err := s.tasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve task: %v", err)
	}

	if !task.CanBeModifiedBy(principal) {
		return nil, ErrForbidden
	}

	task.ApplyChecklist(items)
	task.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"todoChecklists": task.TodoChecklists,
		"progress":       task.Progress,
		"status":         task.Status,
		"updatedAt":      task.UpdatedAt,
	}}
	if _, err := s.tasksCollection.UpdateOne(ctx, bson.M{"_id": taskID}, update); err != nil {
		return nil, fmt.Errorf("failed to update checklist: %v", err)
	}

	return s.withAssignees(ctx, &task)
}

// scopeFilter is the visibility filter baked into every task query: admins see
// everything, everyone else only their own assignments.
func (s *TaskService) scopeFilter(principal models.Principal) bson.M {
	if principal.IsAdmin() {
		return bson.M{}
	}
	return bson.M{"assignedTo": principal.ID}
}

func (s *TaskService) statusSummary(ctx context.Context, scope bson.M) (models.StatusSummary, error) {
	var summary models.StatusSummary

	countWithStatus := func(status models.TaskStatus) (int64, error) {
		filter := bson.M{}
		for k, v := range scope {
			filter[k] = v
		}
		if status != "" {
			filter["status"] = status
		}
		return s.tasksCollection.CountDocuments(ctx, filter)
	}

	var err error
	if summary.All, err = countWithStatus(""); err != nil {
		return summary, fmt.Errorf("failed to count tasks: %v", err)
	}
	if summary.PendingTasks, err = countWithStatus(models.StatusPending); err != nil {
		return summary, fmt.Errorf("failed to count tasks: %v", err)
	}
	if summary.InProgressTasks, err = countWithStatus(models.StatusInProgress); err != nil {
		return summary, fmt.Errorf("failed to count tasks: %v", err)
	}
	if summary.CompletedTasks, err = countWithStatus(models.StatusCompleted); err != nil {
		return summary, fmt.Errorf("failed to count tasks: %v", err)
	}

	return summary, nil
}

// withAssignees resolves the task's assignee ids into user summaries.
func (s *TaskService) withAssignees(ctx context.Context, task *models.Task) (*models.TaskWithAssignees, error) {
	resolved := models.TaskWithAssignees{Task: *task, AssignedTo: []models.AssigneeSummary{}}
	if len(task.AssignedTo) == 0 {
		return &resolved, nil
	}

	projection := options.Find().SetProjection(bson.M{"name": 1, "email": 1, "profileImageUrl": 1})
	cursor, err := s.usersCollection.Find(ctx, bson.M{"_id": bson.M{"$in": task.AssignedTo}}, projection)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve assignees: %v", err)
	}
	defer cursor.Close(ctx)

	byID := make(map[primitive.ObjectID]models.AssigneeSummary)
	for cursor.Next(ctx) {
		var summary models.AssigneeSummary
		if err := cursor.Decode(&summary); err != nil {
			return nil, fmt.Errorf("failed to decode assignee: %v", err)
		}
		byID[summary.ID] = summary
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	// Preserve the task's assignment order; skip ids whose user no longer exists.
	for _, id := range task.AssignedTo {
		if summary, ok := byID[id]; ok {
			resolved.AssignedTo = append(resolved.AssignedTo, summary)
		}
	}

	return &resolved, nil
}

func validateChecklist(items []models.ChecklistItem) error {
	for i, item := range items {
		if strings.TrimSpace(item.Text) == "" {
			return validationErr("todoChecklists", fmt.Sprintf("checklist item %d is missing its text", i))
		}
	}
	return nil
}
