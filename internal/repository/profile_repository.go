package repository

import (
	"context"

	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/google/uuid"
)

//go:generate mockgen -destination=mocks/profile_repository_mock.go -package=mocks github.com/gdugdh24/heartmatch-backend/internal/repository ProfileRepository

type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error)
	// ListExcluding returns at most limit profiles other than excludeID,
	// newest first.
	ListExcluding(ctx context.Context, excludeID uuid.UUID, limit int) ([]*domain.UserProfile, error)
	Update(ctx context.Context, profile *domain.UserProfile) error
	Upsert(ctx context.Context, profile *domain.UserProfile) error
}
