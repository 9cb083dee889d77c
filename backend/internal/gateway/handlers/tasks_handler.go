package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"campus_electives/backend/internal/gateway/util"
	"campus_electives/backend/internal/tasks"
)

// TaskHandler exposes the per-student to-do list.
type TaskHandler struct {
	Tasks *tasks.TaskService
}

// RESTCreateTaskRequest mirrors the expected JSON input for POST /tasks
type RESTCreateTaskRequest struct {
	Email       string `json:"email"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Priority    string `json:"priority"`
}

// RESTUpdateTaskRequest mirrors the expected JSON input for PUT /tasks/{id}
type RESTUpdateTaskRequest struct {
	Email string `json:"email"`
	tasks.TaskUpdate
}

// List handles GET /tasks?email=
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	list, err := h.Tasks.List(r.Context(), email)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, map[string]interface{}{"tasks": list})
}

// Create handles POST /tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var reqBody RESTCreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	task, err := h.Tasks.Create(r.Context(), reqBody.Email, reqBody.Title, reqBody.Description, reqBody.DueDate, reqBody.Priority)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, map[string]interface{}{"task": task})
}

// Update handles PUT /tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var reqBody RESTUpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	err := h.Tasks.Update(r.Context(), reqBody.Email, id, &reqBody.TaskUpdate)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// Delete handles DELETE /tasks/{id}?email=
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	email := r.URL.Query().Get("email")

	err := h.Tasks.Delete(r.Context(), email, id)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
