package handlers

import (
	"encoding/json"
	"net/http"

	"campus_electives/backend/internal/chat"
	"campus_electives/backend/internal/gateway/util"
)

// ChatHandler exposes the course-assistant chat proxy.
type ChatHandler struct {
	Chat *chat.ChatService
}

// RESTChatRequest mirrors the expected JSON input for POST /chat
type RESTChatRequest struct {
	Prompt string `json:"prompt"`
}

// Ask handles POST /chat
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var reqBody RESTChatRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	resp, err := h.Chat.Ask(r.Context(), reqBody.Prompt)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, resp)
}
