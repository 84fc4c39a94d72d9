package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/boylish/Task-Manager-backend/middleware"
	"github.com/boylish/Task-Manager-backend/models"
	"github.com/boylish/Task-Manager-backend/services"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func taskIDFromRequest(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	return id, err == nil
}

// GetAllTasks lists the tasks visible to the principal, optionally filtered by the
// status query parameter, together with a status summary over the same scope.
func (h *TaskHandler) GetAllTasks(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	tasks, summary, err := h.service.ListTasks(r.Context(), principal, r.URL.Query().Get("status"))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tasks":         tasks,
		"statusSummary": summary,
	})
}

// CreateTask creates a task. Admin-only, enforced on the route.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	var input services.CreateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body", Error: err.Error()})
		return
	}

	task, err := h.service.CreateTask(r.Context(), principal, input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Task created successfully",
		"task":    task,
	})
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	taskID, ok := taskIDFromRequest(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid task id"})
		return
	}

	task, err := h.service.GetTaskByID(r.Context(), principal, taskID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// UpdateTask applies a partial update; absent fields keep their value.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	taskID, ok := taskIDFromRequest(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid task id"})
		return
	}

	var patch models.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body", Error: err.Error()})
		return
	}

	task, err := h.service.UpdateTask(r.Context(), principal, taskID, patch)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Task updated",
		"task":    task,
	})
}

// DeleteTask hard-deletes a task. Admin-only, enforced on the route.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDFromRequest(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid task id"})
		return
	}

	if err := h.service.DeleteTask(r.Context(), taskID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}

// UpdateTaskStatus sets the task status for an admin or an assigned user.
func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	taskID, ok := taskIDFromRequest(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid task id"})
		return
	}

	var body struct {
		Status models.TaskStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body", Error: err.Error()})
		return
	}

	task, err := h.service.UpdateTaskStatus(r.Context(), principal, taskID, body.Status)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Task status updated successfully",
		"task":    task,
	})
}

// UpdateTaskChecklist replaces the checklist wholesale. A missing or malformed
// todoChecklists field is a validation failure, not an empty replacement.
func (h *TaskHandler) UpdateTaskChecklist(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	taskID, ok := taskIDFromRequest(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid task id"})
		return
	}

	var body struct {
		TodoChecklists *[]models.ChecklistItem `json:"todoChecklists"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body", Error: err.Error()})
		return
	}
	if body.TodoChecklists == nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Checklist data missing or invalid"})
		return
	}

	task, err := h.service.UpdateTaskChecklist(r.Context(), principal, taskID, *body.TodoChecklists)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Task checklist updated",
		"task":    task,
	})
}
