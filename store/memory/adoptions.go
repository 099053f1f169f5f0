package memory

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/pet-adoption-go/models"
	"github.com/phillip/pet-adoption-go/store"
)

type adoptions struct {
	t *table[models.AdoptionRequest]
}

func (s *adoptions) Create(_ context.Context, a *models.AdoptionRequest) (models.InsertResult, error) {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	s.t.insert(a.ID, *a)
	return models.Inserted(a.ID), nil
}

func (s *adoptions) Get(_ context.Context, id primitive.ObjectID) (*models.AdoptionRequest, error) {
	a, ok := s.t.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

func (s *adoptions) ListByEmail(_ context.Context, email string) ([]models.AdoptionRequest, error) {
	return s.t.filter(func(a models.AdoptionRequest) bool { return a.Email == email }), nil
}

func (s *adoptions) SetStatus(_ context.Context, id primitive.ObjectID, accepted bool) (models.UpdateResult, error) {
	matched, modified := s.t.update(id, func(a *models.AdoptionRequest) bool {
		if a.Status == accepted {
			return false
		}
		a.Status = accepted
		return true
	})
	res := models.UpdateResult{Acknowledged: true, MatchedCount: boolCount(matched), ModifiedCount: boolCount(modified)}
	if !matched {
		return res, store.ErrNotFound
	}
	return res, nil
}

func (s *adoptions) Delete(_ context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	return models.DeleteResult{Acknowledged: true, DeletedCount: s.t.delete(id)}, nil
}
