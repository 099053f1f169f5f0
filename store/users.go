package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/phillip/pet-adoption-go/models"
)

type mongoUsers struct {
	col *mongo.Collection
}

func (s *mongoUsers) CreateIfAbsent(ctx context.Context, u *models.User) (*models.User, bool, error) {
	onInsert := bson.M{
		"role":      u.Role,
		"timestamp": u.CreatedAt,
	}
	if u.Name != "" {
		onInsert["name"] = u.Name
	}
	if u.Photo != "" {
		onInsert["photo"] = u.Photo
	}

	res, err := s.col.UpdateOne(ctx,
		bson.M{"email": u.Email},
		bson.M{"$setOnInsert": onInsert},
		options.Update().SetUpsert(true),
	)
	created := err == nil && res.UpsertedCount == 1
	// A concurrent upsert of the same email loses on the unique index; the
	// winner's document is what both callers should see.
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return nil, false, fmt.Errorf("upsert user: %w", err)
	}

	stored, err := s.FindByEmail(ctx, u.Email)
	if err != nil {
		return nil, false, err
	}
	return stored, created, nil
}

func (s *mongoUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, s.col, bson.M{"email": email})
}

func (s *mongoUsers) List(ctx context.Context) ([]models.User, error) {
	return findAll[models.User](ctx, s.col, bson.M{})
}

func (s *mongoUsers) SetRole(ctx context.Context, id primitive.ObjectID, role string) (models.UpdateResult, error) {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("set role: %w", err)
	}
	return updateResult(res), nil
}

func (s *mongoUsers) EnsureRole(ctx context.Context, email, role string) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{
			"$set":         bson.M{"role": role},
			"$setOnInsert": bson.M{"timestamp": time.Now().UTC()},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("ensure role: %w", err)
	}
	return nil
}
