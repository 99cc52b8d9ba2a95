package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gdugdh24/heartmatch-backend/internal/domain"
	"github.com/google/uuid"
)

type fakeSink struct {
	mu     sync.Mutex
	name   string
	err    error
	events []*domain.MatchCreatedEvent
}

func (s *fakeSink) Name() string { return s.name }

func (s *fakeSink) PublishMatchCreated(_ context.Context, event *domain.MatchCreatedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

func (s *fakeSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func testEvent() *domain.MatchCreatedEvent {
	return &domain.MatchCreatedEvent{
		MatchID:   uuid.New(),
		User1ID:   uuid.New(),
		User2ID:   uuid.New(),
		CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFanout_DeliversToAllSinks(t *testing.T) {
	a := &fakeSink{name: "a"}
	b := &fakeSink{name: "b"}
	f := NewFanout(a, b)

	if err := f.PublishMatchCreated(context.Background(), testEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.count() != 1 || b.count() != 1 {
		t.Errorf("expected one event per sink, got a=%d b=%d", a.count(), b.count())
	}
}

func TestFanout_FailingSinkDoesNotBlockOthers(t *testing.T) {
	boom := errors.New("boom")
	a := &fakeSink{name: "a", err: boom}
	b := &fakeSink{name: "b"}
	f := NewFanout(a, b)

	err := f.PublishMatchCreated(context.Background(), testEvent())
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined error to wrap sink error, got %v", err)
	}
	if b.count() != 1 {
		t.Error("second sink should still receive the event")
	}
}

func TestFanout_Empty(t *testing.T) {
	f := NewFanout()
	if f.Len() != 0 {
		t.Fatalf("expected no sinks, got %d", f.Len())
	}
	if err := f.PublishMatchCreated(context.Background(), testEvent()); err != nil {
		t.Fatalf("empty fanout should not fail: %v", err)
	}
}

func TestMatchCreatedSubject(t *testing.T) {
	id := uuid.MustParse("7d0c1a8e-0000-4000-8000-000000000001")
	got := MatchCreatedSubject(id.String())
	want := "match.created.7d0c1a8e-0000-4000-8000-000000000001"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
