package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/gdugdh24/heartmatch-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const matchColumns = `id, user1_id, user2_id, is_active, match_explanation, icebreakers, created_at`

type matchRow struct {
	ID          uuid.UUID      `db:"id"`
	User1ID     uuid.UUID      `db:"user1_id"`
	User2ID     uuid.UUID      `db:"user2_id"`
	IsActive    bool           `db:"is_active"`
	Explanation *string        `db:"match_explanation"`
	Icebreakers pq.StringArray `db:"icebreakers"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (r *matchRow) toDomain() *domain.Match {
	return &domain.Match{
		ID:          r.ID,
		User1ID:     r.User1ID,
		User2ID:     r.User2ID,
		IsActive:    r.IsActive,
		Explanation: r.Explanation,
		Icebreakers: []string(r.Icebreakers),
		CreatedAt:   r.CreatedAt,
	}
}

type matchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) repository.MatchRepository {
	return &matchRepository{db: db}
}

// CreateIfAbsent relies on the unique (user1_id, user2_id) key: when two
// transactions race on the same pair only one insert returns a row, the
// other reads the winner back.
func (r *matchRepository) CreateIfAbsent(ctx context.Context, match *domain.Match) (bool, error) {
	// Ensure user1_id < user2_id for constraint
	match.User1ID, match.User2ID = domain.CanonicalPair(match.User1ID, match.User2ID)

	query := `
		INSERT INTO matches (id, user1_id, user2_id, is_active, match_explanation, icebreakers, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user1_id, user2_id) DO NOTHING
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(
		ctx, query,
		match.ID, match.User1ID, match.User2ID, match.IsActive,
		match.Explanation, pq.StringArray(match.Icebreakers), match.CreatedAt,
	).Scan(&match.ID, &match.CreatedAt)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	existing, err := r.GetByUsers(ctx, match.User1ID, match.User2ID)
	if err != nil {
		return false, err
	}
	*match = *existing
	return false, nil
}

func (r *matchRepository) GetByUsers(ctx context.Context, user1ID, user2ID uuid.UUID) (*domain.Match, error) {
	user1ID, user2ID = domain.CanonicalPair(user1ID, user2ID)

	var row matchRow
	query := `SELECT ` + matchColumns + ` FROM matches WHERE user1_id = $1 AND user2_id = $2`
	err := r.db.GetContext(ctx, &row, query, user1ID, user2ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *matchRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Match, error) {
	var rows []matchRow
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE (user1_id = $1 OR user2_id = $1) AND is_active = true
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit, offset); err != nil {
		return nil, err
	}

	matches := make([]*domain.Match, 0, len(rows))
	for i := range rows {
		matches = append(matches, rows[i].toDomain())
	}
	return matches, nil
}

func (r *matchRepository) UpdateAIFields(ctx context.Context, matchID uuid.UUID, explanation string, icebreakers []string) error {
	query := `UPDATE matches SET match_explanation = $1, icebreakers = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, explanation, pq.StringArray(icebreakers), matchID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrMatchNotFound
	}
	return nil
}
