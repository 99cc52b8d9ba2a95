package repository

import (
	"context"

	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/google/uuid"
)

//go:generate mockgen -destination=mocks/match_repository_mock.go -package=mocks github.com/gdugdh24/heartmatch-backend/internal/repository MatchRepository

type MatchRepository interface {
	// CreateIfAbsent stores match unless the pair already has one. When the
	// pair exists, match is overwritten with the stored row and created is false.
	CreateIfAbsent(ctx context.Context, match *domain.Match) (created bool, err error)
	GetByUsers(ctx context.Context, user1ID, user2ID uuid.UUID) (*domain.Match, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Match, error)
	UpdateAIFields(ctx context.Context, matchID uuid.UUID, explanation string, icebreakers []string) error
}
