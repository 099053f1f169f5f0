package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/phillip/pet-adoption-go/models"
)

type mongoPayments struct {
	col *mongo.Collection
}

func (s *mongoPayments) Insert(ctx context.Context, p *models.Payment) (models.InsertResult, error) {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if _, err := s.col.InsertOne(ctx, p); err != nil {
		return models.InsertResult{}, fmt.Errorf("insert payment: %w", err)
	}
	return models.Inserted(p.ID), nil
}

func (s *mongoPayments) FindIntent(ctx context.Context, paymentIntentID string) (*models.Payment, error) {
	return findOne[models.Payment](ctx, s.col, bson.M{
		"kind":            models.PaymentKindIntent,
		"paymentIntentId": paymentIntentID,
	})
}

func (s *mongoPayments) ConsumeIntent(ctx context.Context, paymentIntentID string) (*models.Payment, error) {
	filter := bson.M{
		"kind":            models.PaymentKindIntent,
		"paymentIntentId": paymentIntentID,
		"consumed":        bson.M{"$ne": true},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var out models.Payment
	err := s.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": bson.M{"consumed": true}}, opts).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("consume intent: %w", err)
	}
	return &out, nil
}

func (s *mongoPayments) ReleaseIntent(ctx context.Context, paymentIntentID string) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"kind": models.PaymentKindIntent, "paymentIntentId": paymentIntentID},
		bson.M{"$set": bson.M{"consumed": false}},
	)
	if err != nil {
		return fmt.Errorf("release intent: %w", err)
	}
	return nil
}

func (s *mongoPayments) ListDonations(ctx context.Context, q PaymentQuery) ([]models.Payment, error) {
	return findAll[models.Payment](ctx, s.col, DonationFilter(q))
}

func (s *mongoPayments) Delete(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("delete payment: %w", err)
	}
	return deleteResult(res), nil
}
