package domain

import (
	"bytes"
	"time"

	"github.com/google/uuid"
)

type Match struct {
	ID          uuid.UUID `json:"id"`
	User1ID     uuid.UUID `json:"user1_id"`
	User2ID     uuid.UUID `json:"user2_id"`
	IsActive    bool      `json:"is_active"`
	Explanation *string   `json:"explanation,omitempty"`
	Icebreakers []string  `json:"icebreakers,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewMatch builds an active match with the pair in canonical order.
func NewMatch(a, b uuid.UUID, now time.Time) *Match {
	user1, user2 := CanonicalPair(a, b)
	return &Match{
		ID:        uuid.New(),
		User1ID:   user1,
		User2ID:   user2,
		IsActive:  true,
		CreatedAt: now,
	}
}

// CanonicalPair orders two user ids the way the matches table stores them:
// byte-wise ascending, which is also how Postgres compares uuid values.
func CanonicalPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) > 0 {
		return b, a
	}
	return a, b
}

func (m *Match) HasUser(userID uuid.UUID) bool {
	return m.User1ID == userID || m.User2ID == userID
}

func (m *Match) GetOtherUserID(userID uuid.UUID) (uuid.UUID, bool) {
	if m.User1ID == userID {
		return m.User2ID, true
	}
	if m.User2ID == userID {
		return m.User1ID, true
	}
	return uuid.Nil, false
}
