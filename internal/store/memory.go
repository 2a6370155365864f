package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rcliao/person-registry/internal/model"
)

// MemoryStore implements Store in process memory. Records live only as long as
// the store; ids are never reused.
type MemoryStore struct {
	mu         sync.Mutex
	records    map[int64]model.Person
	byNational map[string]int64
	lastID     int64
	now        func() time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:    map[int64]model.Person{},
		byNational: map[string]int64{},
		now:        time.Now,
	}
}

func (s *MemoryStore) List(_ context.Context, p ListParams) ([]model.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Person{}
	for _, m := range s.records {
		if matches(m, p) {
			out = append(out, m)
		}
	}

	// ids increase with registration time, so they give a stable total order.
	sort.Slice(out, func(i, j int) bool {
		if p.Order == OrderOldest {
			return out[i].ID < out[j].ID
		}
		return out[i].ID > out[j].ID
	})

	if p.Limit > 0 && len(out) > p.Limit {
		out = out[:p.Limit]
	}
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id int64) (*model.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", model.ErrNotFound, id)
	}
	return &m, nil
}

func (s *MemoryStore) FindByNationalID(_ context.Context, nationalID string) (*model.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byNational[nationalID]
	if !ok {
		return nil, fmt.Errorf("%w: national ID %s", model.ErrNotFound, nationalID)
	}
	m := s.records[id]
	return &m, nil
}

func (s *MemoryStore) Create(_ context.Context, in model.PersonInput) (*model.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byNational[in.NationalID]; taken {
		return nil, fmt.Errorf("%w: %s", model.ErrDuplicateKey, in.NationalID)
	}

	s.lastID++
	m := model.Person{
		ID:           s.lastID,
		NationalID:   in.NationalID,
		FirstNames:   in.FirstNames,
		LastNames:    in.LastNames,
		BirthDate:    in.BirthDate,
		Gender:       in.Gender,
		City:         in.City,
		RegisteredAt: s.now().UTC().Truncate(time.Second),
	}
	s.records[m.ID] = m
	s.byNational[m.NationalID] = m.ID

	return &m, nil
}

func (s *MemoryStore) Update(_ context.Context, id int64, in model.PersonInput) (*model.Person, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", model.ErrNotFound, id)
	}
	if owner, taken := s.byNational[in.NationalID]; taken && owner != id {
		return nil, fmt.Errorf("%w: %s", model.ErrDuplicateKey, in.NationalID)
	}

	delete(s.byNational, m.NationalID)
	m.NationalID = in.NationalID
	m.FirstNames = in.FirstNames
	m.LastNames = in.LastNames
	m.BirthDate = in.BirthDate
	m.Gender = in.Gender
	m.City = in.City
	s.records[id] = m
	s.byNational[m.NationalID] = id

	return &m, nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.records[id]
	if !ok {
		return fmt.Errorf("%w: id %d", model.ErrNotFound, id)
	}
	delete(s.records, id)
	delete(s.byNational, m.NationalID)
	return nil
}

func (s *MemoryStore) Stats(_ context.Context) (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := newStats()
	st.Total = len(s.records)
	for _, m := range s.records {
		st.ByCity[m.City]++
		st.ByGender[m.Gender]++
	}
	return st, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
