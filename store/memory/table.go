// Package memory implements the store interfaces in process memory.
// It backs the "memory" storage driver used for local development and the
// HTTP tests; contents are lost on restart.
package memory

import (
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/pet-adoption-go/models"
	"github.com/phillip/pet-adoption-go/store"
)

// New returns a fresh, empty set of stores.
func New() store.Stores {
	return store.Stores{
		Users:     &users{t: newTable[models.User]()},
		Pets:      &pets{t: newTable[models.Pet]()},
		Adoptions: &adoptions{t: newTable[models.AdoptionRequest]()},
		Campaigns: &campaigns{t: newTable[models.DonationCampaign]()},
		Payments:  &payments{t: newTable[models.Payment]()},
	}
}

// table keeps rows in insertion order, which stands in for Mongo's natural
// order on an unsorted find.
type table[T any] struct {
	mu    sync.RWMutex
	rows  map[primitive.ObjectID]T
	order []primitive.ObjectID
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[primitive.ObjectID]T)}
}

func (t *table[T]) insert(id primitive.ObjectID, v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) get(id primitive.ObjectID) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[id]
	return v, ok
}

// filter returns matching rows in insertion order.
func (t *table[T]) filter(match func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		if v := t.rows[id]; match == nil || match(v) {
			out = append(out, v)
		}
	}
	return out
}

// first returns the first row, in insertion order, accepted by match.
func (t *table[T]) first(match func(T) bool) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, id := range t.order {
		if v := t.rows[id]; match(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// update applies fn to the row with id under the write lock. fn reports
// whether it changed the row.
func (t *table[T]) update(id primitive.ObjectID, fn func(*T) bool) (matched, modified bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.rows[id]
	if !ok {
		return false, false
	}
	if fn(&v) {
		t.rows[id] = v
		return true, true
	}
	return true, false
}

// updateFirst is update for the first row accepted by match.
func (t *table[T]) updateFirst(match func(T) bool, fn func(*T) bool) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range t.order {
		v := t.rows[id]
		if !match(v) {
			continue
		}
		if fn(&v) {
			t.rows[id] = v
		}
		return v, true
	}
	var zero T
	return zero, false
}

func (t *table[T]) delete(id primitive.ObjectID) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return 0
	}
	delete(t.rows, id)
	for i, oid := range t.order {
		if oid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return 1
}

func boolCount(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
