package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/rfp-quotation/internal/model"
)

func TestSweeperRejectsBadSchedule(t *testing.T) {
	if _, err := NewSweeper(NewResultStore(), "every now and then", time.Hour, zerolog.Nop()); err == nil {
		t.Fatalf("expected schedule error")
	}
}

func TestSweeperSweep(t *testing.T) {
	store := NewResultStore()
	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	id := uuid.New()
	store.Start(id, "a.txt")
	_ = store.Finish(id, model.RunResult{Status: model.RunStatusSuccess})
	current = current.Add(25 * time.Hour)

	s, err := NewSweeper(store, "@every 1h", 24*time.Hour, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSweeper: %v", err)
	}
	s.Start()
	defer s.Stop()

	if evicted := s.Sweep(); evicted != 1 {
		t.Fatalf("evicted = %d, want 1", evicted)
	}
}
