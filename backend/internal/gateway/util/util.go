package util

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"campus_electives/backend/internal/shared"
)

// JSONError structure for error responses
type JSONError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WriteJSON writes a payload as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("WARN: Error writing JSON response: %v", err)
	}
}

// WriteJSONError writes a standardized error JSON response.
func WriteJSONError(w http.ResponseWriter, status int, message string) {
	log.Printf("WARN: HTTP Error %d: %s", status, message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errorResponse := JSONError{
		Success: false,
		Message: message,
	}

	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Printf("WARN: Error writing JSON error response: %v", err)
	}
}

// HandleServiceError translates service error codes to HTTP responses.
// This is the single error mapping point for the gateway.
func HandleServiceError(w http.ResponseWriter, err error) {
	switch shared.CodeOf(err) {
	case shared.CodeInvalidArgument:
		WriteJSONError(w, http.StatusBadRequest, shared.MessageOf(err))
	case shared.CodeUnauthenticated:
		WriteJSONError(w, http.StatusUnauthorized, shared.MessageOf(err))
	case shared.CodeNotFound:
		WriteJSONError(w, http.StatusNotFound, shared.MessageOf(err))
	case shared.CodeAlreadyExists, shared.CodeFailedPrecondition:
		// Duplicates and precondition failures surface as plain client
		// errors; the frontend only branches on the message.
		WriteJSONError(w, http.StatusBadRequest, shared.MessageOf(err))
	case shared.CodeUnavailable:
		WriteJSONError(w, http.StatusServiceUnavailable, shared.MessageOf(err))
	default:
		WriteJSONError(w, http.StatusInternalServerError, shared.MessageOf(err))
	}
}

// ExtractToken extracts the token from the Authorization header (Bearer <token>)
func ExtractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header missing")
	}

	// Expect header: "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("invalid authorization header format")
	}

	return parts[1], nil
}
