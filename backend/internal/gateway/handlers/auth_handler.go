package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"campus_electives/backend/internal/auth"
	"campus_electives/backend/internal/gateway/util"
)

// AuthHandler exposes the auth service over REST.
type AuthHandler struct {
	Auth *auth.AuthService
}

// RESTLoginRequest mirrors the expected JSON input for /auth/login
type RESTLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// RESTUpdatePasswordRequest mirrors the expected JSON input for
// /auth/update-teacher-password
type RESTUpdatePasswordRequest struct {
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var reqBody auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		if errors.Is(err, io.EOF) {
			util.WriteJSONError(w, http.StatusBadRequest, "Request body is empty")
			return
		}
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	userDoc, err := h.Auth.Register(r.Context(), &reqBody)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, userDoc)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var reqBody RESTLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		if errors.Is(err, io.EOF) {
			util.WriteJSONError(w, http.StatusBadRequest, "Request body is empty")
			return
		}
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	result, err := h.Auth.Login(r.Context(), reqBody.Email, reqBody.Password, reqBody.Role)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	// The sanitized record is returned at the top level (the frontend reads
	// it directly); the token rides alongside.
	response := result.User
	response["token"] = result.Token
	util.WriteJSON(w, http.StatusOK, response)
}

// Lookup handles GET /auth/lookup?email=
func (h *AuthHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	doc, err := h.Auth.Lookup(r.Context(), email)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, doc)
}

// UpdateTeacherPassword handles PUT /auth/update-teacher-password
func (h *AuthHandler) UpdateTeacherPassword(w http.ResponseWriter, r *http.Request) {
	var reqBody RESTUpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	err := h.Auth.UpdateTeacherPassword(r.Context(), reqBody.Email, reqBody.CurrentPassword, reqBody.NewPassword)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password updated successfully",
	})
}

// Validate handles GET /auth/validate
func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	tokenStr, err := util.ExtractToken(r)
	if err != nil {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	claims, err := h.Auth.ValidateToken(tokenStr)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"valid": true,
		"email": claims.Email,
		"role":  claims.Role,
		"name":  claims.Name,
	})
}
