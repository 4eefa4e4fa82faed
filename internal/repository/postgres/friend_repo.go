package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/friendscore/backend/internal/domain"
)

type FriendRepo struct {
	pool *pgxpool.Pool
}

func NewFriendRepo(pool *pgxpool.Pool) *FriendRepo {
	return &FriendRepo{pool: pool}
}

func (r *FriendRepo) CreateRequest(ctx context.Context, req *domain.FriendRequest) error {
	query := `
		INSERT INTO friend_requests (id, from_user_id, to_user_id, is_accepted, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.pool.Exec(ctx, query,
		req.ID, req.FromUserID, req.ToUserID, req.IsAccepted, req.CreatedAt,
	)
	return err
}

func (r *FriendRepo) GetRequestByID(ctx context.Context, id uuid.UUID) (*domain.FriendRequest, error) {
	query := `
		SELECT id, from_user_id, to_user_id, is_accepted, created_at
		FROM friend_requests
		WHERE id = $1`
	var req domain.FriendRequest
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.FromUserID, &req.ToUserID, &req.IsAccepted, &req.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &req, err
}

func (r *FriendRepo) PendingRequestExists(ctx context.Context, fromUserID, toUserID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM friend_requests WHERE from_user_id = $1 AND to_user_id = $2 AND NOT is_accepted)`,
		fromUserID, toUserID,
	).Scan(&exists)
	return exists, err
}

func (r *FriendRepo) AcceptRequest(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE friend_requests SET is_accepted = TRUE WHERE id = $1`, id)
	return err
}

func (r *FriendRepo) DeleteRequest(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM friend_requests WHERE id = $1`, id)
	return err
}

func (r *FriendRepo) ListPending(ctx context.Context, toUserID uuid.UUID) ([]domain.FriendRequest, error) {
	query := `
		SELECT r.id, r.from_user_id, r.to_user_id, r.is_accepted, r.created_at,
			u.full_name, u.profile_image_url
		FROM friend_requests r
		JOIN users u ON r.from_user_id = u.id
		WHERE r.to_user_id = $1 AND NOT r.is_accepted
		ORDER BY r.created_at DESC`

	rows, err := r.pool.Query(ctx, query, toUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []domain.FriendRequest
	for rows.Next() {
		var req domain.FriendRequest
		if err := rows.Scan(
			&req.ID, &req.FromUserID, &req.ToUserID, &req.IsAccepted, &req.CreatedAt,
			&req.FromUserName, &req.FromUserImageURL,
		); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// ListByUser returns every request the user is a party to, pending or
// accepted. Used to compute friend suggestions.
func (r *FriendRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.FriendRequest, error) {
	query := `
		SELECT id, from_user_id, to_user_id, is_accepted, created_at
		FROM friend_requests
		WHERE from_user_id = $1 OR to_user_id = $1`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []domain.FriendRequest
	for rows.Next() {
		var req domain.FriendRequest
		if err := rows.Scan(
			&req.ID, &req.FromUserID, &req.ToUserID, &req.IsAccepted, &req.CreatedAt,
		); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

func (r *FriendRepo) ListFriends(ctx context.Context, userID uuid.UUID) ([]domain.UserSummary, error) {
	query := `
		SELECT DISTINCT u.id, u.full_name, u.profile_image_url
		FROM friend_requests r
		JOIN users u ON u.id = CASE WHEN r.from_user_id = $1 THEN r.to_user_id ELSE r.from_user_id END
		WHERE r.is_accepted AND (r.from_user_id = $1 OR r.to_user_id = $1)
		ORDER BY u.full_name ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var friends []domain.UserSummary
	for rows.Next() {
		var f domain.UserSummary
		if err := rows.Scan(&f.ID, &f.FullName, &f.ProfileImageURL); err != nil {
			return nil, err
		}
		friends = append(friends, f)
	}
	return friends, rows.Err()
}

func (r *FriendRepo) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM friend_requests WHERE NOT is_accepted`,
	).Scan(&count)
	return count, err
}
