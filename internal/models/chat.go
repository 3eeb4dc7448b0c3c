package models

import (
	"time"

	"github.com/google/uuid"
)

// Message roles persisted in the store. The "system" role only exists
// inside a prompt and is never written to the database.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation is one user's ongoing thread of messages.
type Conversation struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	Messages  []*Message `json:"messages,omitempty"`
}

// Message is one turn in a Conversation. Rows are insert-only.
type Message struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	Seq            int64     `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the assistant's reply for one turn.
type ChatResponse struct {
	Response string `json:"response"`
}

type HistoryResponse struct {
	ConversationID uuid.UUID  `json:"conversation_id"`
	Messages       []*Message `json:"messages"`
}
