package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/boylish/Task-Manager-backend/services"
)

func TestRespondError_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "validation", err: &services.ValidationError{Field: "title", Reason: "required"}, wantCode: http.StatusBadRequest},
		{name: "task not found", err: services.ErrTaskNotFound, wantCode: http.StatusNotFound},
		{name: "user not found", err: services.ErrUserNotFound, wantCode: http.StatusNotFound},
		{name: "forbidden", err: services.ErrForbidden, wantCode: http.StatusForbidden},
		{name: "bad credentials", err: services.ErrInvalidCredentials, wantCode: http.StatusUnauthorized},
		{name: "wrapped not found", err: fmt.Errorf("while loading: %w", services.ErrTaskNotFound), wantCode: http.StatusNotFound},
		{name: "store failure", err: fmt.Errorf("connection reset"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), "message")
		})
	}
}

func withTaskID(req *http.Request, id string) *http.Request {
	return mux.SetURLVars(req, map[string]string{"id": id})
}

func TestTaskHandler_RejectsMalformedTaskID(t *testing.T) {
	handler := NewTaskHandler(nil)

	calls := []struct {
		name string
		call func(w http.ResponseWriter, r *http.Request)
	}{
		{name: "get", call: handler.GetTaskByID},
		{name: "update", call: handler.UpdateTask},
		{name: "delete", call: handler.DeleteTask},
		{name: "status", call: handler.UpdateTaskStatus},
		{name: "checklist", call: handler.UpdateTaskChecklist},
	}

	for _, tt := range calls {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/tasks/nope", strings.NewReader("{}"))
			tt.call(rec, withTaskID(req, "nope"))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestUpdateTaskChecklist_MissingChecklistField(t *testing.T) {
	handler := NewTaskHandler(nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/tasks/65f000000000000000000001/todo", strings.NewReader(`{}`))
	handler.UpdateTaskChecklist(rec, withTaskID(req, "65f000000000000000000001"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Checklist data missing or invalid")
}

func TestUpdateTaskChecklist_MalformedBody(t *testing.T) {
	handler := NewTaskHandler(nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/tasks/65f000000000000000000001/todo", strings.NewReader(`{"todoChecklists": "oops"}`))
	handler.UpdateTaskChecklist(rec, withTaskID(req, "65f000000000000000000001"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTask_MalformedBody(t *testing.T) {
	handler := NewTaskHandler(nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(`{"title": 42}`))
	handler.CreateTask(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserHandler_RejectsMalformedUserID(t *testing.T) {
	handler := NewUserHandler(nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users/nope", nil)
	handler.GetUserByID(rec, withTaskID(req, "nope"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/users/nope", nil)
	handler.DeleteUser(rec, withTaskID(req, "nope"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
