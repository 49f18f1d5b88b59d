package repository

import (
	"context"
	"sync"

	"github.com/jwd-portfolio/portfolio-backend/internal/projects/domain"
)

// MemoryStore keeps projects in process memory, in insertion order.
type MemoryStore struct {
	mu    sync.RWMutex
	items []domain.Project
	index map[string]int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{index: make(map[string]int)}
}

func (s *MemoryStore) List(_ context.Context) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Project, 0, len(s.items))
	for _, p := range s.items {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p := s.items[i].Clone()
	return &p, nil
}

func (s *MemoryStore) Insert(_ context.Context, p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[p.ID]; exists {
		return domain.ErrDuplicateID
	}
	s.index[p.ID] = len(s.items)
	s.items = append(s.items, p.Clone())
	return nil
}

func (s *MemoryStore) UpdateByID(_ context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	updated := s.items[i].Clone()
	updated.Apply(patch)
	s.items[i] = updated

	out := updated.Clone()
	return &out, nil
}

func (s *MemoryStore) DeleteByID(_ context.Context, id string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	removed := s.items[i]

	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j].ID] = j
	}
	return &removed, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items), nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}
