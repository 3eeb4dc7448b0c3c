package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"haven-backend/internal/middleware"
	"haven-backend/internal/models"
)

type chatService interface {
	SendMessage(ctx context.Context, userID uuid.UUID, text string) (string, error)
	History(ctx context.Context, userID uuid.UUID) (*models.Conversation, error)
}

type ChatHandler struct {
	chatService chatService
}

func NewChatHandler(chatService chatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message is required", r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	reply, err := h.chatService.SendMessage(r.Context(), userID, req.Message)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Response: reply})
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	conv, err := h.chatService.History(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if conv == nil {
		writeJSON(w, http.StatusOK, models.HistoryResponse{Messages: []*models.Message{}})
		return
	}

	writeJSON(w, http.StatusOK, models.HistoryResponse{
		ConversationID: conv.ID,
		Messages:       conv.Messages,
	})
}
