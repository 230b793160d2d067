package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/EpicMandM/reservation-system/internal/models"
)

type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]models.Reservation
}

// NewMemoryStore returns an empty store preloaded with the given fixtures.
// Fixtures without an id get one assigned; fixtures with an id keep it.
func NewMemoryStore(seed ...models.Reservation) (*MemoryStore, error) {
	s := &MemoryStore{rows: make(map[int64]models.Reservation)}
	for _, r := range seed {
		if _, err := s.Save(context.Background(), r); err != nil {
			return nil, fmt.Errorf("failed to seed reservation: %w", err)
		}
	}
	return s, nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id int64) (models.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return models.Reservation{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rows[id]
	if !ok {
		return models.Reservation{}, ErrNotFound
	}
	return r, nil
}

func (s *MemoryStore) FindAll(ctx context.Context) ([]models.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Reservation, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Save(ctx context.Context, r models.Reservation) (models.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return models.Reservation{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == 0 {
		s.nextID++
		r.ID = s.nextID
	} else if r.ID > s.nextID {
		s.nextID = r.ID
	}
	s.rows[r.ID] = r
	return r, nil
}

func (s *MemoryStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.rows[id]
	return ok, nil
}

func (s *MemoryStore) DeleteByID(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.rows, id)
	return nil
}

func (s *MemoryStore) SetStatus(ctx context.Context, id int64, status models.ReservationStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rows[id]
	if !ok {
		return ErrNotFound
	}
	r.Status = status
	s.rows[id] = r
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
