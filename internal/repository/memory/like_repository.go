package memory

import (
	"context"
	"sync"

	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/gdugdh24/heartmatch-backend/internal/repository"
	"github.com/google/uuid"
)

type likeKey struct {
	from, to uuid.UUID
}

type LikeRepository struct {
	mu    sync.RWMutex
	likes map[likeKey]domain.Like
}

var _ repository.LikeRepository = (*LikeRepository)(nil)

func NewLikeRepository() *LikeRepository {
	return &LikeRepository{likes: make(map[likeKey]domain.Like)}
}

func (r *LikeRepository) Create(ctx context.Context, like *domain.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := likeKey{like.FromUserID, like.ToUserID}
	if _, ok := r.likes[k]; ok {
		return nil
	}
	r.likes[k] = *like
	return nil
}

func (r *LikeRepository) Exists(ctx context.Context, fromUserID, toUserID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.likes[likeKey{fromUserID, toUserID}]
	return ok, nil
}

// Count reports how many likes are stored.
func (r *LikeRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.likes)
}
