package postgres

import (
	"context"

	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/gdugdh24/heartmatch-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) repository.LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(ctx context.Context, like *domain.Like) error {
	query := `
		INSERT INTO likes (id, from_user_id, to_user_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (from_user_id, to_user_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, like.ID, like.FromUserID, like.ToUserID, like.CreatedAt)
	return err
}

func (r *likeRepository) Exists(ctx context.Context, fromUserID, toUserID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM likes WHERE from_user_id = $1 AND to_user_id = $2)`
	err := r.db.GetContext(ctx, &exists, query, fromUserID, toUserID)
	return exists, err
}
