package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/rfp-quotation/internal/model"
)

// Record is the tracked state of one submitted document.
type Record struct {
	RequestID uuid.UUID
	FileName  string
	Status    model.RunStatus
	Result    *model.RunResult
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResultStore keeps request records in memory, keyed by request id.
type ResultStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]Record
	now     func() time.Time
}

func NewResultStore() *ResultStore {
	return &ResultStore{
		records: make(map[uuid.UUID]Record),
		now:     time.Now,
	}
}

func (s *ResultStore) Start(id uuid.UUID, fileName string) Record {
	now := s.now()
	record := Record{
		RequestID: id,
		FileName:  fileName,
		Status:    model.RunStatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.mu.Lock()
	s.records[id] = record
	s.mu.Unlock()
	return record
}

func (s *ResultStore) Finish(id uuid.UUID, result model.RunResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return ErrNotFound
	}
	record.Status = result.Status
	record.Result = &result
	record.UpdatedAt = s.now()
	s.records[id] = record
	return nil
}

func (s *ResultStore) Get(id uuid.UUID) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return record, nil
}

// EvictOlderThan removes finished records last updated before now-age.
// Records still processing are kept.
func (s *ResultStore) EvictOlderThan(age time.Duration) int {
	cutoff := s.now().Add(-age)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, record := range s.records {
		if record.Status == model.RunStatusProcessing {
			continue
		}
		if record.UpdatedAt.Before(cutoff) {
			delete(s.records, id)
			evicted++
		}
	}
	return evicted
}

func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
