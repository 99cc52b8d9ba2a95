package repository

import (
	"context"

	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/google/uuid"
)

//go:generate mockgen -destination=mocks/like_repository_mock.go -package=mocks github.com/gdugdh24/heartmatch-backend/internal/repository LikeRepository

type LikeRepository interface {
	// Create records a like. Liking the same user twice is a no-op.
	Create(ctx context.Context, like *domain.Like) error
	Exists(ctx context.Context, fromUserID, toUserID uuid.UUID) (bool, error)
}
