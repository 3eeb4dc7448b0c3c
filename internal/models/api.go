package models

type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

// WSMessage is the envelope pushed to websocket clients.
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ChatTurnEvent is published after an assistant reply is persisted so
// every open tab of the same user can append the turn.
type ChatTurnEvent struct {
	ConversationID string `json:"conversation_id"`
	UserMessage    string `json:"user_message"`
	Reply          string `json:"reply"`
}
