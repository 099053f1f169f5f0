package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/phillip/pet-adoption-go/models"
)

type mongoPets struct {
	col *mongo.Collection
}

func (s *mongoPets) Create(ctx context.Context, p *models.Pet) (models.InsertResult, error) {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if _, err := s.col.InsertOne(ctx, p); err != nil {
		return models.InsertResult{}, fmt.Errorf("insert pet: %w", err)
	}
	return models.Inserted(p.ID), nil
}

func (s *mongoPets) Get(ctx context.Context, id primitive.ObjectID) (*models.Pet, error) {
	return findOne[models.Pet](ctx, s.col, bson.M{"_id": id})
}

func (s *mongoPets) List(ctx context.Context, q PetQuery) ([]models.Pet, error) {
	return findAll[models.Pet](ctx, s.col, PetFilter(q), sortOpts(PetSort(q.Sort)))
}

func (s *mongoPets) Update(ctx context.Context, id primitive.ObjectID, patch models.PetPatch) (models.UpdateResult, error) {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": patch.SetDoc(time.Now().UTC())})
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("update pet: %w", err)
	}
	if res.MatchedCount == 0 {
		return updateResult(res), ErrNotFound
	}
	return updateResult(res), nil
}

func (s *mongoPets) Delete(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("delete pet: %w", err)
	}
	return deleteResult(res), nil
}
