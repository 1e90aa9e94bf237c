package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aradsms/contactbook/internal/weather_service/domain"
)

type HistoryStore struct {
	mu     sync.Mutex
	cities []string
}

var _ domain.HistoryStore = (*HistoryStore)(nil)

func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

func (s *HistoryStore) Add(_ context.Context, city string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(s.cities, city); i >= 0 {
		s.cities = slices.Delete(s.cities, i, i+1)
	}
	s.cities = slices.Insert(s.cities, 0, city)
	if len(s.cities) > domain.HistoryLimit {
		s.cities = s.cities[:domain.HistoryLimit]
	}
	return nil
}

func (s *HistoryStore) List(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cities), nil
}
