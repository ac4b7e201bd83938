package location

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"populationservice/internal/api"
)

// MemoryRepository is a mutex-guarded in-process Repository. It backs the
// unit tests and the DB_DRIVER=memory development mode. The name check and
// the write happen under one lock, so the uniqueness guarantee matches the
// database-backed implementation.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]Location
	order   []uuid.UUID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[uuid.UUID]Location)}
}

func (r *MemoryRepository) Create(_ context.Context, loc *Location) (*Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(loc.Name, uuid.Nil) {
		return nil, api.ErrDuplicate
	}

	created := *loc
	created.ID = uuid.New()
	r.records[created.ID] = created
	r.order = append(r.order, created.ID)
	return &created, nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id uuid.UUID) (*Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loc, ok := r.records[id]
	if !ok {
		return nil, api.ErrNotFound
	}
	return &loc, nil
}

// FindAll returns records in insertion order.
func (r *MemoryRepository) FindAll(_ context.Context) ([]Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var locations []Location
	for _, id := range r.order {
		locations = append(locations, r.records[id])
	}
	return locations, nil
}

func (r *MemoryRepository) FindAndUpdate(_ context.Context, id uuid.UUID, loc *Location) (*Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return nil, api.ErrNotFound
	}
	if r.nameTaken(loc.Name, id) {
		return nil, api.ErrDuplicate
	}

	updated := *loc
	updated.ID = id
	r.records[id] = updated
	return &updated, nil
}

func (r *MemoryRepository) FindAndDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return api.ErrNotFound
	}
	delete(r.records, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// nameTaken must be called with the lock held. self is excluded so an update
// may keep its own name.
func (r *MemoryRepository) nameTaken(name string, self uuid.UUID) bool {
	for id, existing := range r.records {
		if id != self && existing.Name == name {
			return true
		}
	}
	return false
}
