package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/pet-adoption-go/models"
	"github.com/phillip/pet-adoption-go/store"
)

type pets struct {
	t *table[models.Pet]
}

func (s *pets) Create(_ context.Context, p *models.Pet) (models.InsertResult, error) {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	s.t.insert(p.ID, *p)
	return models.Inserted(p.ID), nil
}

func (s *pets) Get(_ context.Context, id primitive.ObjectID) (*models.Pet, error) {
	p, ok := s.t.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *pets) List(_ context.Context, q store.PetQuery) ([]models.Pet, error) {
	category := strings.TrimSpace(q.Category)
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := s.t.filter(func(p models.Pet) bool {
		if category != "" && p.Category.Value != category {
			return false
		}
		if search != "" && !strings.Contains(strings.ToLower(p.PetName), search) {
			return false
		}
		if q.OwnerEmail != "" && p.Email != q.OwnerEmail {
			return false
		}
		return true
	})

	switch q.Sort {
	case store.SortDateDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	case store.SortAgeDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Age > out[j].Age })
	}
	return out, nil
}

func (s *pets) Update(_ context.Context, id primitive.ObjectID, patch models.PetPatch) (models.UpdateResult, error) {
	now := time.Now().UTC()
	matched, modified := s.t.update(id, func(p *models.Pet) bool { return patch.Apply(p, now) })
	res := models.UpdateResult{Acknowledged: true, MatchedCount: boolCount(matched), ModifiedCount: boolCount(modified)}
	if !matched {
		return res, store.ErrNotFound
	}
	return res, nil
}

func (s *pets) Delete(_ context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	return models.DeleteResult{Acknowledged: true, DeletedCount: s.t.delete(id)}, nil
}
