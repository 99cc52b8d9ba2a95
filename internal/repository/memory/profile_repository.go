// Package memory holds map-backed repositories with the same uniqueness
// rules as the postgres schema. They back STORE_DRIVER=memory and tests.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/gdugdh24/heartmatch-backend/internal/repository"
	"github.com/google/uuid"
)

type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]*domain.UserProfile
	seq      map[uuid.UUID]int
	next     int
	now      func() time.Time
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{
		profiles: make(map[uuid.UUID]*domain.UserProfile),
		seq:      make(map[uuid.UUID]int),
		now:      time.Now,
	}
}

func cloneProfile(p *domain.UserProfile) *domain.UserProfile {
	cp := *p
	cp.Preferences.Genders = slices.Clone(p.Preferences.Genders)
	if cp.Preferences.Genders == nil {
		cp.Preferences.Genders = []domain.Gender{}
	}
	return &cp
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return cloneProfile(p), nil
}

func (r *ProfileRepository) ListExcluding(ctx context.Context, excludeID uuid.UUID, limit int) ([]*domain.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.UserProfile, 0, len(r.profiles))
	for id, p := range r.profiles {
		if id == excludeID {
			continue
		}
		result = append(result, cloneProfile(p))
	}
	// Newest first; insertion order breaks ties so equal timestamps stay stable.
	slices.SortFunc(result, func(a, b *domain.UserProfile) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return r.seq[b.ID] - r.seq[a.ID]
	})
	if limit >= 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// usernameTaken reports whether another profile already uses username.
// Callers hold the write lock.
func (r *ProfileRepository) usernameTaken(id uuid.UUID, username string) bool {
	if username == "" {
		return false
	}
	for otherID, p := range r.profiles {
		if otherID != id && p.Username == username {
			return true
		}
	}
	return false
}

func (r *ProfileRepository) Update(ctx context.Context, profile *domain.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.profiles[profile.ID]
	if !ok {
		return domain.ErrProfileNotFound
	}
	if r.usernameTaken(profile.ID, profile.Username) {
		return domain.ErrUsernameTaken
	}
	profile.Email = existing.Email
	profile.IsVerified = existing.IsVerified
	profile.IsOnline = existing.IsOnline
	profile.LastActive = existing.LastActive
	profile.CreatedAt = existing.CreatedAt
	profile.UpdatedAt = r.now()
	r.profiles[profile.ID] = cloneProfile(profile)
	return nil
}

func (r *ProfileRepository) Upsert(ctx context.Context, profile *domain.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.usernameTaken(profile.ID, profile.Username) {
		return domain.ErrUsernameTaken
	}
	now := r.now()
	if existing, ok := r.profiles[profile.ID]; ok {
		profile.CreatedAt = existing.CreatedAt
	} else {
		if profile.CreatedAt.IsZero() {
			profile.CreatedAt = now
		}
		r.next++
		r.seq[profile.ID] = r.next
	}
	profile.UpdatedAt = now
	r.profiles[profile.ID] = cloneProfile(profile)
	return nil
}

// Len reports how many profiles are stored.
func (r *ProfileRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles)
}
