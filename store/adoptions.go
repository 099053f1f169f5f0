package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/phillip/pet-adoption-go/models"
)

type mongoAdoptions struct {
	col *mongo.Collection
}

func (s *mongoAdoptions) Create(ctx context.Context, a *models.AdoptionRequest) (models.InsertResult, error) {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if _, err := s.col.InsertOne(ctx, a); err != nil {
		return models.InsertResult{}, fmt.Errorf("insert adoption: %w", err)
	}
	return models.Inserted(a.ID), nil
}

func (s *mongoAdoptions) Get(ctx context.Context, id primitive.ObjectID) (*models.AdoptionRequest, error) {
	return findOne[models.AdoptionRequest](ctx, s.col, bson.M{"_id": id})
}

func (s *mongoAdoptions) ListByEmail(ctx context.Context, email string) ([]models.AdoptionRequest, error) {
	return findAll[models.AdoptionRequest](ctx, s.col, bson.M{"email": email})
}

func (s *mongoAdoptions) SetStatus(ctx context.Context, id primitive.ObjectID, accepted bool) (models.UpdateResult, error) {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": accepted}})
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("update adoption: %w", err)
	}
	if res.MatchedCount == 0 {
		return updateResult(res), ErrNotFound
	}
	return updateResult(res), nil
}

func (s *mongoAdoptions) Delete(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("delete adoption: %w", err)
	}
	return deleteResult(res), nil
}
