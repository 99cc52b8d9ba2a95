package domain

import (
	"time"

	"github.com/google/uuid"
)

// MatchCreatedEvent is emitted once per newly created match.
type MatchCreatedEvent struct {
	MatchID   uuid.UUID `json:"match_id"`
	User1ID   uuid.UUID `json:"user1_id"`
	User2ID   uuid.UUID `json:"user2_id"`
	CreatedAt time.Time `json:"created_at"`
}

func NewMatchCreatedEvent(m *Match) *MatchCreatedEvent {
	return &MatchCreatedEvent{
		MatchID:   m.ID,
		User1ID:   m.User1ID,
		User2ID:   m.User2ID,
		CreatedAt: m.CreatedAt,
	}
}
