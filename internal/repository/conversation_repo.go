package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"haven-backend/internal/models"
)

type ConversationRepo struct {
	pool *pgxpool.Pool
}

func NewConversationRepo(pool *pgxpool.Pool) *ConversationRepo {
	return &ConversationRepo{pool: pool}
}

// FindActiveByUser returns the user's active conversation with its messages
// in chronological order, or pgx.ErrNoRows if none exists.
func (r *ConversationRepo) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.Conversation, error) {
	conv := &models.Conversation{}
	query := `SELECT id, user_id, is_active, created_at
		FROM conversations WHERE user_id = $1 AND is_active = TRUE`

	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&conv.ID, &conv.UserID, &conv.IsActive, &conv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	messages, err := r.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	conv.Messages = messages
	return conv, nil
}

// FindOrCreate resolves the user's active conversation, creating one if
// none exists. The partial unique index on conversations(user_id) makes
// this safe under concurrent first messages: the losing insert is a no-op
// and the follow-up select returns the winner's row.
func (r *ConversationRepo) FindOrCreate(ctx context.Context, userID uuid.UUID) (*models.Conversation, error) {
	conv, err := r.FindActiveByUser(ctx, userID)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	conv = &models.Conversation{ID: uuid.New(), UserID: userID, IsActive: true}
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO conversations (id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) WHERE is_active DO NOTHING
	`, conv.ID, userID)
	if err != nil {
		return nil, err
	}

	if tag.RowsAffected() == 0 {
		// Lost the race; another request created it first.
		return r.FindActiveByUser(ctx, userID)
	}

	err = r.pool.QueryRow(ctx, "SELECT created_at FROM conversations WHERE id = $1", conv.ID).Scan(&conv.CreatedAt)
	if err != nil {
		return nil, err
	}
	conv.Messages = []*models.Message{}
	return conv, nil
}

func (r *ConversationRepo) CreateMessage(ctx context.Context, conversationID uuid.UUID, role, content string) (*models.Message, error) {
	msg := &models.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	}

	query := `INSERT INTO messages (id, conversation_id, role, content)
		VALUES ($1, $2, $3, $4) RETURNING seq, created_at`

	err := r.pool.QueryRow(ctx, query,
		msg.ID, msg.ConversationID, msg.Role, msg.Content,
	).Scan(&msg.Seq, &msg.CreatedAt)
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (r *ConversationRepo) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.Message, error) {
	query := `SELECT id, conversation_id, role, content, seq, created_at
		FROM messages WHERE conversation_id = $1 ORDER BY seq ASC`

	rows, err := r.pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]*models.Message, 0)
	for rows.Next() {
		m := &models.Message{}
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.Seq, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// LastActivityAt returns the timestamp of the conversation's newest message,
// or the conversation's creation time when it has none.
func (r *ConversationRepo) LastActivityAt(ctx context.Context, conversationID uuid.UUID) (time.Time, error) {
	var ts time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(
			(SELECT MAX(created_at) FROM messages WHERE conversation_id = $1),
			(SELECT created_at FROM conversations WHERE id = $1)
		)
	`, conversationID).Scan(&ts)
	return ts, err
}

func (r *ConversationRepo) Deactivate(ctx context.Context, conversationID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "UPDATE conversations SET is_active = FALSE WHERE id = $1", conversationID)
	return err
}
