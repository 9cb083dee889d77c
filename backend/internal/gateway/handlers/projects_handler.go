package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"campus_electives/backend/internal/gateway/util"
	"campus_electives/backend/internal/marks"
	"campus_electives/backend/internal/projects"
)

// ProjectHandler exposes the guide-request workflow and the marks ledger.
type ProjectHandler struct {
	Projects *projects.ProjectService
	Marks    *marks.MarksService
}

// RESTRequestGuideRequest mirrors the expected JSON input for
// /projects/request-guide
type RESTRequestGuideRequest struct {
	StudentEmail string `json:"studentEmail"`
	TeacherEmail string `json:"teacherEmail"`
	Domain       string `json:"domain"`
}

// RESTRespondRequest mirrors the expected JSON input for
// /projects/respond-request
type RESTRespondRequest struct {
	TeacherEmail string `json:"teacherEmail"`
	StudentEmail string `json:"studentEmail"`
	Accept       *bool  `json:"accept"`
}

// RESTUnassignRequest mirrors the expected JSON input for
// /projects/unassign-student
type RESTUnassignRequest struct {
	TeacherEmail string `json:"teacherEmail"`
	StudentEmail string `json:"studentEmail"`
}

// RESTSaveMarksRequest mirrors the expected JSON input for
// /projects/marks/save
type RESTSaveMarksRequest struct {
	TeacherEmail string            `json:"teacherEmail"`
	Marks        []marks.MarkEntry `json:"marks"`
}

// ListDomains handles GET /projects/domains
func (h *ProjectHandler) ListDomains(w http.ResponseWriter, r *http.Request) {
	docs, err := h.Projects.ListDomains(r.Context())
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, docs)
}

// TeachersByDomain handles GET /projects/teachers/by-domain?domain=
func (h *ProjectHandler) TeachersByDomain(w http.ResponseWriter, r *http.Request) {
	domain := r.URL.Query().Get("domain")

	docs, err := h.Projects.TeachersByDomain(r.Context(), domain)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, docs)
}

// GetTeacher handles GET /projects/teachers/{email}
func (h *ProjectHandler) GetTeacher(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	doc, err := h.Projects.GetTeacher(r.Context(), email)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, doc)
}

// RequestGuide handles POST /projects/request-guide
func (h *ProjectHandler) RequestGuide(w http.ResponseWriter, r *http.Request) {
	var reqBody RESTRequestGuideRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	requestID, err := h.Projects.RequestGuide(r.Context(), reqBody.StudentEmail, reqBody.TeacherEmail, reqBody.Domain)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"requestId": requestID,
	})
}

// RespondRequest handles POST /projects/respond-request
func (h *ProjectHandler) RespondRequest(w http.ResponseWriter, r *http.Request) {
	var reqBody RESTRespondRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if reqBody.Accept == nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Missing fields")
		return
	}

	err := h.Projects.RespondRequest(r.Context(), reqBody.TeacherEmail, reqBody.StudentEmail, *reqBody.Accept)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// UnassignStudent handles POST /projects/unassign-student
func (h *ProjectHandler) UnassignStudent(w http.ResponseWriter, r *http.Request) {
	var reqBody RESTUnassignRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	err := h.Projects.UnassignStudent(r.Context(), reqBody.TeacherEmail, reqBody.StudentEmail)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// ListMarks handles GET /projects/marks/{teacherEmail}
func (h *ProjectHandler) ListMarks(w http.ResponseWriter, r *http.Request) {
	teacherEmail := chi.URLParam(r, "teacherEmail")

	records, err := h.Marks.ListMarks(r.Context(), teacherEmail)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, records)
}

// SaveMarks handles POST /projects/marks/save
func (h *ProjectHandler) SaveMarks(w http.ResponseWriter, r *http.Request) {
	var reqBody RESTSaveMarksRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	err := h.Marks.SaveMarks(r.Context(), reqBody.TeacherEmail, reqBody.Marks)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
