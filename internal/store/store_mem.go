package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemStore is an in-memory Store for tests and single-shot CLI runs.
type MemStore struct {
	mu   sync.RWMutex
	recs map[string]Record
}

func NewMemStore() *MemStore {
	return &MemStore{recs: make(map[string]Record)}
}

func (s *MemStore) Put(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().Unix()
	}
	s.recs[rec.ID] = rec
	return nil
}

func (s *MemStore) Get(ctx context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.recs[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *MemStore) List(ctx context.Context, userID string) ([]ListEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []ListEntry
	for _, rec := range s.recs {
		if rec.UserID != userID {
			continue
		}
		out = append(out, ListEntry{
			ID:            rec.ID,
			ExamType:      rec.ExamType,
			RollNumber:    rec.RollNumber,
			CandidateName: rec.CandidateName,
			TotalScore:    rec.TotalScore,
			MaxScore:      rec.MaxScore,
			CreatedAt:     rec.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (s *MemStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recs[id]; !ok {
		return ErrNotFound
	}
	delete(s.recs, id)
	return nil
}
