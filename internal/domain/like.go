package domain

import (
	"time"

	"github.com/google/uuid"
)

// Like is a one-directional interest from FromUserID in ToUserID.
type Like struct {
	ID         uuid.UUID `json:"id" db:"id"`
	FromUserID uuid.UUID `json:"from_user_id" db:"from_user_id"`
	ToUserID   uuid.UUID `json:"to_user_id" db:"to_user_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

func NewLike(from, to uuid.UUID, now time.Time) *Like {
	return &Like{
		ID:         uuid.New(),
		FromUserID: from,
		ToUserID:   to,
		CreatedAt:  now,
	}
}
