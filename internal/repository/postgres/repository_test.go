package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

var profileRowColumns = []string{
	"id", "full_name", "username", "email", "gender", "birthdate", "bio", "avatar_url",
	"location_lat", "location_lng",
	"pref_min_age", "pref_max_age", "pref_max_distance_km", "pref_genders",
	"is_verified", "is_online", "last_active", "created_at", "updated_at",
}

func TestProfileRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProfileRepository(db)

	id := uuid.New()
	birth := time.Date(1995, 3, 15, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(profileRowColumns).AddRow(
			id.String(), "Mai Nguyen", "mai_nguyen", "mai@example.com", "female", birth, "hi", "",
			37.77, -122.45,
			25, 35, 50, "{male}",
			true, false, nil, created, created,
		))

	p, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if p.ID != id || p.Username != "mai_nguyen" || p.Gender != domain.GenderFemale {
		t.Errorf("unexpected profile: %+v", p)
	}
	if p.Preferences.MinAge != 25 || p.Preferences.MaxAge != 35 || p.Preferences.MaxDistanceKm != 50 {
		t.Errorf("unexpected preferences: %+v", p.Preferences)
	}
	if len(p.Preferences.Genders) != 1 || p.Preferences.Genders[0] != domain.GenderMale {
		t.Errorf("genders = %v, want [male]", p.Preferences.Genders)
	}
	if lat, lon, ok := p.Coordinates(); !ok || lat != 37.77 || lon != -122.45 {
		t.Errorf("coordinates = %v %v %v", lat, lon, ok)
	}
	if p.LastActive != nil {
		t.Errorf("LastActive = %v, want nil", p.LastActive)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestProfileRepository_GetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProfileRepository(db)

	mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(profileRowColumns))

	_, err := repo.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("err = %v, want ErrProfileNotFound", err)
	}
}

func TestProfileRepository_ListExcluding(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProfileRepository(db)

	self := uuid.New()
	a, b := uuid.New(), uuid.New()
	now := time.Now().UTC()
	birth := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(profileRowColumns).
		AddRow(a.String(), "A", "a", "a@x", "male", birth, "", "", nil, nil, 18, 100, 100, "{}", false, false, nil, now, now).
		AddRow(b.String(), "B", "b", "b@x", "other", birth, "", "", nil, nil, 18, 100, 100, "{}", false, true, now, now, now)

	mock.ExpectQuery(`FROM users\s+WHERE id <> \$1\s+ORDER BY created_at DESC\s+LIMIT \$2`).
		WithArgs(self, 100).
		WillReturnRows(rows)

	got, err := repo.ListExcluding(context.Background(), self, 100)
	if err != nil {
		t.Fatalf("ListExcluding: %v", err)
	}
	if len(got) != 2 || got[0].ID != a || got[1].ID != b {
		t.Fatalf("unexpected order: %+v", got)
	}
	if len(got[0].Preferences.Genders) != 0 {
		t.Errorf("empty gender array should map to no genders, got %v", got[0].Preferences.Genders)
	}
	if _, _, ok := got[0].Coordinates(); ok {
		t.Error("profile without location should report no coordinates")
	}
}

func TestProfileRepository_UpdateNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProfileRepository(db)

	mock.ExpectQuery(`UPDATE users`).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))

	p := &domain.UserProfile{ID: uuid.New(), Preferences: domain.DefaultPreferences()}
	if err := repo.Update(context.Background(), p); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("err = %v, want ErrProfileNotFound", err)
	}
}

func TestProfileRepository_Upsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProfileRepository(db)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO users .* ON CONFLICT \(id\) DO UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	p := &domain.UserProfile{
		ID:          uuid.New(),
		Username:    "nam_tran",
		Gender:      domain.GenderMale,
		Preferences: domain.Preferences{MinAge: 28, MaxAge: 38, MaxDistanceKm: 30, Genders: []domain.Gender{domain.GenderFemale}},
	}
	if err := repo.Upsert(context.Background(), p); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !p.CreatedAt.Equal(now) || !p.UpdatedAt.Equal(now) {
		t.Errorf("timestamps not populated: %v %v", p.CreatedAt, p.UpdatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestLikeRepository_CreateIsIdempotentInsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLikeRepository(db)

	like := domain.NewLike(uuid.New(), uuid.New(), time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC))
	mock.ExpectExec(`INSERT INTO likes .* ON CONFLICT \(from_user_id, to_user_id\) DO NOTHING`).
		WithArgs(like.ID, like.FromUserID, like.ToUserID, like.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Create(context.Background(), like); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestLikeRepository_Exists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLikeRepository(db)

	from, to := uuid.New(), uuid.New()
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.Exists(context.Background(), from, to)
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v; want true, nil", ok, err)
	}
}

func TestLikeRepository_ExistsError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLikeRepository(db)

	boom := errors.New("connection reset")
	mock.ExpectQuery(`SELECT EXISTS`).WillReturnError(boom)

	if _, err := repo.Exists(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

var matchRowColumns = []string{"id", "user1_id", "user2_id", "is_active", "match_explanation", "icebreakers", "created_at"}

func TestMatchRepository_CreateIfAbsentInserts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMatchRepository(db)

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	m := domain.NewMatch(uuid.New(), uuid.New(), now)

	mock.ExpectQuery(`INSERT INTO matches .* ON CONFLICT \(user1_id, user2_id\) DO NOTHING`).
		WithArgs(m.ID, m.User1ID, m.User2ID, true, sqlmock.AnyArg(), sqlmock.AnyArg(), now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(m.ID.String(), now))

	created, err := repo.CreateIfAbsent(context.Background(), m)
	if err != nil {
		t.Fatalf("CreateIfAbsent: %v", err)
	}
	if !created {
		t.Error("created = false, want true")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestMatchRepository_CreateIfAbsentReturnsExisting(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMatchRepository(db)

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	m := domain.NewMatch(uuid.New(), uuid.New(), now)
	existingID := uuid.New()
	earlier := now.Add(-time.Minute)

	mock.ExpectQuery(`INSERT INTO matches`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}))
	mock.ExpectQuery(`SELECT .* FROM matches WHERE user1_id = \$1 AND user2_id = \$2`).
		WithArgs(m.User1ID, m.User2ID).
		WillReturnRows(sqlmock.NewRows(matchRowColumns).
			AddRow(existingID.String(), m.User1ID.String(), m.User2ID.String(), true, nil, "{}", earlier))

	created, err := repo.CreateIfAbsent(context.Background(), m)
	if err != nil {
		t.Fatalf("CreateIfAbsent: %v", err)
	}
	if created {
		t.Error("created = true, want false")
	}
	if m.ID != existingID || !m.CreatedAt.Equal(earlier) {
		t.Errorf("match not replaced by stored row: %+v", m)
	}
}

func TestMatchRepository_GetByUsersCanonicalizes(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMatchRepository(db)

	a, b := uuid.New(), uuid.New()
	low, high := domain.CanonicalPair(a, b)

	mock.ExpectQuery(`FROM matches WHERE user1_id = \$1 AND user2_id = \$2`).
		WithArgs(low, high).
		WillReturnRows(sqlmock.NewRows(matchRowColumns))

	_, err := repo.GetByUsers(context.Background(), high, low)
	if !errors.Is(err, domain.ErrMatchNotFound) {
		t.Fatalf("err = %v, want ErrMatchNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestMatchRepository_ListByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMatchRepository(db)

	user := uuid.New()
	other := uuid.New()
	low, high := domain.CanonicalPair(user, other)
	explanation := "both love hiking"
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM matches\s+WHERE \(user1_id = \$1 OR user2_id = \$1\) AND is_active = true`).
		WithArgs(user, 20, 0).
		WillReturnRows(sqlmock.NewRows(matchRowColumns).
			AddRow(uuid.NewString(), low.String(), high.String(), true, explanation, `{"say hi","ask about trails"}`, now))

	got, err := repo.ListByUser(context.Background(), user, 20, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Explanation == nil || *got[0].Explanation != explanation {
		t.Errorf("explanation = %v", got[0].Explanation)
	}
	if len(got[0].Icebreakers) != 2 || got[0].Icebreakers[1] != "ask about trails" {
		t.Errorf("icebreakers = %v", got[0].Icebreakers)
	}
}

func TestMatchRepository_UpdateAIFieldsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMatchRepository(db)

	mock.ExpectExec(`UPDATE matches SET match_explanation`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateAIFields(context.Background(), uuid.New(), "x", []string{"y"})
	if !errors.Is(err, domain.ErrMatchNotFound) {
		t.Fatalf("err = %v, want ErrMatchNotFound", err)
	}
}

func TestProfileRepository_UpsertUsernameTaken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProfileRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

	p := &domain.UserProfile{ID: uuid.New(), Username: "taken", Preferences: domain.DefaultPreferences()}
	if err := repo.Upsert(context.Background(), p); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("err = %v, want ErrUsernameTaken", err)
	}
}
