package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps records in process memory. Used by the duel bot, whose
// standings are not durable, and by tests.
type MemoryStore struct {
	mu            sync.Mutex
	records       map[string]*Record
	defaultRating int
}

func NewMemoryStore(defaultRating int) *MemoryStore {
	return &MemoryStore{
		records:       make(map[string]*Record),
		defaultRating: defaultRating,
	}
}

func (s *MemoryStore) GetOrCreate(_ context.Context, participantID string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[participantID]; ok {
		c := *rec
		return &c, nil
	}

	now := time.Now()
	rec := &Record{
		ParticipantID: participantID,
		Rating:        s.defaultRating,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.records[participantID] = rec
	c := *rec
	return &c, nil
}

func (s *MemoryStore) Save(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *rec
	c.UpdatedAt = time.Now()
	s.records[rec.ParticipantID] = &c
	return nil
}

func (s *MemoryStore) TopByRating(ctx context.Context, n int) ([]Record, error) {
	return s.top(ctx, n, func(a, b *Record) bool { return a.Rating > b.Rating })
}

func (s *MemoryStore) TopByWins(ctx context.Context, n int) ([]Record, error) {
	return s.top(ctx, n, func(a, b *Record) bool { return a.Wins > b.Wins })
}

func (s *MemoryStore) top(_ context.Context, n int, less func(a, b *Record) bool) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]*Record, 0, len(s.records))
	for _, rec := range s.records {
		all = append(all, rec)
	}
	// Ties keep map iteration order, which is unspecified.
	sort.SliceStable(all, func(i, j int) bool { return less(all[i], all[j]) })

	if n < 0 {
		n = 0
	}
	if n > len(all) {
		n = len(all)
	}
	out := make([]Record, n)
	for i := 0; i < n; i++ {
		out[i] = *all[i]
	}
	return out, nil
}

func (s *MemoryStore) ResetStandings(_ context.Context, mode ResetMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.records {
		rec.Wins = 0
		rec.Losses = 0
		if mode == ResetFull {
			rec.Rating = s.defaultRating
		}
		rec.UpdatedAt = time.Now()
	}
	return nil
}

var _ Store = (*MemoryStore)(nil)
