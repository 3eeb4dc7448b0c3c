package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/sashabaranov/go-openai"

	"haven-backend/internal/models"
)

type conversationStore interface {
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Conversation, error)
	FindOrCreate(ctx context.Context, userID uuid.UUID) (*models.Conversation, error)
	CreateMessage(ctx context.Context, conversationID uuid.UUID, role, content string) (*models.Message, error)
	LastActivityAt(ctx context.Context, conversationID uuid.UUID) (time.Time, error)
	Deactivate(ctx context.Context, conversationID uuid.UUID) error
}

type completionClient interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error)
}

// ChatService orchestrates one chat turn: resolve the user's conversation,
// persist the user message, ask the completion provider for a reply under
// the counselor persona, persist and return the reply.
type ChatService struct {
	store        conversationStore
	completion   completionClient
	pubsub       *redis.Client
	persona      string
	fallback     string
	historyLimit int
	sessionTTL   time.Duration
}

func NewChatService(
	store conversationStore,
	completion completionClient,
	pubsubClient *redis.Client,
	persona, fallback string,
	historyLimit int,
	sessionTTL time.Duration,
) *ChatService {
	return &ChatService{
		store:        store,
		completion:   completion,
		pubsub:       pubsubClient,
		persona:      persona,
		fallback:     fallback,
		historyLimit: historyLimit,
		sessionTTL:   sessionTTL,
	}
}

// SendMessage handles one turn for an authenticated user. On success
// exactly two messages are appended: the user's, then the assistant's.
// A provider failure leaves the user message persisted and returns a
// ProviderError; no assistant message is written.
func (s *ChatService) SendMessage(ctx context.Context, userID uuid.UUID, text string) (string, error) {
	if userID == uuid.Nil {
		return "", &UnauthorizedError{Message: "Not authenticated"}
	}
	if strings.TrimSpace(text) == "" {
		return "", &ValidationError{Fields: map[string]string{"message": "Message is required"}}
	}

	conv, err := s.resolveConversation(ctx, userID)
	if err != nil {
		return "", err
	}

	if _, err := s.store.CreateMessage(ctx, conv.ID, models.RoleUser, text); err != nil {
		return "", err
	}

	prompt := s.buildPrompt(conv.Messages, text)

	reply, err := s.completion.Complete(ctx, prompt)
	if err != nil {
		return "", &ProviderError{Err: err}
	}
	if strings.TrimSpace(reply) == "" {
		reply = s.fallback
	}

	if _, err := s.store.CreateMessage(ctx, conv.ID, models.RoleAssistant, reply); err != nil {
		return "", err
	}

	s.publishTurn(ctx, userID, conv.ID, text, reply)

	return reply, nil
}

// History returns the user's active conversation, or nil when the user
// hasn't sent a message yet.
func (s *ChatService) History(ctx context.Context, userID uuid.UUID) (*models.Conversation, error) {
	if userID == uuid.Nil {
		return nil, &UnauthorizedError{Message: "Not authenticated"}
	}

	conv, err := s.store.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return conv, nil
}

// resolveConversation finds or lazily creates the user's active
// conversation. With a session TTL configured, a conversation idle past
// the TTL is retired and a fresh one started.
func (s *ChatService) resolveConversation(ctx context.Context, userID uuid.UUID) (*models.Conversation, error) {
	conv, err := s.store.FindOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.sessionTTL <= 0 || len(conv.Messages) == 0 {
		return conv, nil
	}

	lastAt, err := s.store.LastActivityAt(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	if time.Since(lastAt) <= s.sessionTTL {
		return conv, nil
	}

	if err := s.store.Deactivate(ctx, conv.ID); err != nil {
		return nil, err
	}
	return s.store.FindOrCreate(ctx, userID)
}

// buildPrompt projects stored history to (role, content) pairs, bounded
// to the most recent turns, with the persona prepended and the new user
// message last. Only user/assistant rows are forwarded; anything else in
// the store is dropped rather than sent to the provider.
func (s *ChatService) buildPrompt(history []*models.Message, text string) []openai.ChatCompletionMessage {
	if s.historyLimit > 0 && len(history) > s.historyLimit {
		history = history[len(history)-s.historyLimit:]
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: s.persona,
	})

	for _, m := range history {
		if m.Role != models.RoleUser && m.Role != models.RoleAssistant {
			continue
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: text,
	})

	return messages
}

func (s *ChatService) publishTurn(ctx context.Context, userID, conversationID uuid.UUID, userMessage, reply string) {
	if s.pubsub == nil {
		return
	}

	data, _ := json.Marshal(models.WSMessage{
		Type: "chat_turn",
		Payload: models.ChatTurnEvent{
			ConversationID: conversationID.String(),
			UserMessage:    userMessage,
			Reply:          reply,
		},
	})
	if err := s.pubsub.Publish(ctx, fmt.Sprintf("user_updates:%s", userID.String()), string(data)).Err(); err != nil {
		log.Printf("failed to publish chat turn for user %s: %v", userID, err)
	}
}
