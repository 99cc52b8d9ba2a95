package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/gdugdh24/heartmatch-backend/internal/repository"
	"github.com/google/uuid"
)

type pairKey struct {
	user1, user2 uuid.UUID
}

type MatchRepository struct {
	mu      sync.RWMutex
	matches []*domain.Match
	byPair  map[pairKey]*domain.Match
}

var _ repository.MatchRepository = (*MatchRepository)(nil)

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{byPair: make(map[pairKey]*domain.Match)}
}

func cloneMatch(m *domain.Match) *domain.Match {
	cp := *m
	cp.Icebreakers = slices.Clone(m.Icebreakers)
	return &cp
}

func (r *MatchRepository) CreateIfAbsent(ctx context.Context, match *domain.Match) (bool, error) {
	match.User1ID, match.User2ID = domain.CanonicalPair(match.User1ID, match.User2ID)
	k := pairKey{match.User1ID, match.User2ID}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byPair[k]; ok {
		*match = *cloneMatch(existing)
		return false, nil
	}
	stored := cloneMatch(match)
	r.byPair[k] = stored
	r.matches = append(r.matches, stored)
	return true, nil
}

func (r *MatchRepository) GetByUsers(ctx context.Context, user1ID, user2ID uuid.UUID) (*domain.Match, error) {
	user1ID, user2ID = domain.CanonicalPair(user1ID, user2ID)

	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byPair[pairKey{user1ID, user2ID}]
	if !ok {
		return nil, domain.ErrMatchNotFound
	}
	return cloneMatch(m), nil
}

func (r *MatchRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Match
	for i := len(r.matches) - 1; i >= 0; i-- {
		m := r.matches[i]
		if m.IsActive && m.HasUser(userID) {
			result = append(result, cloneMatch(m))
		}
	}
	slices.SortStableFunc(result, func(a, b *domain.Match) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	if offset >= len(result) {
		return []*domain.Match{}, nil
	}
	result = result[offset:]
	if limit >= 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *MatchRepository) UpdateAIFields(ctx context.Context, matchID uuid.UUID, explanation string, icebreakers []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.matches {
		if m.ID == matchID {
			m.Explanation = &explanation
			m.Icebreakers = slices.Clone(icebreakers)
			return nil
		}
	}
	return domain.ErrMatchNotFound
}

// Count reports how many matches are stored.
func (r *MatchRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matches)
}
