package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/friendscore/backend/internal/service"
)

type MessageHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

func NewMessageHandler(chatService *service.ChatService, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{chatService: chatService, logger: logger}
}

// History returns the full conversation between the caller and another user,
// oldest first.
func (h *MessageHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := authedUser(w, r)
	if !ok {
		return
	}

	otherID, err := uuid.Parse(r.PathValue("userId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	messages, err := h.chatService.History(r.Context(), userID, otherID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidReceiver) {
			writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		} else {
			h.logger.Error("load chat history failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, messages)
}
