package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/friendscore/backend/internal/domain"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, msg *domain.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (id, sender_id, receiver_id, text, media_url, media_type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(ctx, query,
		msg.ID, msg.SenderID, msg.ReceiverID, msg.Text,
		msg.MediaURL, msg.MediaType, msg.Status, msg.CreatedAt,
	)
	return err
}

func (r *MessageRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChatMessage, error) {
	query := `
		SELECT id, sender_id, receiver_id, text, media_url, media_type, status, created_at
		FROM chat_messages
		WHERE id = $1`
	var m domain.ChatMessage
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.SenderID, &m.ReceiverID, &m.Text,
		&m.MediaURL, &m.MediaType, &m.Status, &m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &m, err
}

func (r *MessageRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.MessageStatus) error {
	_, err := r.pool.Exec(ctx, `UPDATE chat_messages SET status = $2 WHERE id = $1`, id, status)
	return err
}

// ListBetween returns the full conversation between two users, oldest first.
func (r *MessageRepo) ListBetween(ctx context.Context, userA, userB uuid.UUID) ([]domain.ChatMessage, error) {
	query := `
		SELECT id, sender_id, receiver_id, text, media_url, media_type, status, created_at
		FROM chat_messages
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, userA, userB)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(
			&m.ID, &m.SenderID, &m.ReceiverID, &m.Text,
			&m.MediaURL, &m.MediaType, &m.Status, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
