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

type mongoCampaigns struct {
	col *mongo.Collection
}

func (s *mongoCampaigns) Create(ctx context.Context, c *models.DonationCampaign) (models.InsertResult, error) {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if _, err := s.col.InsertOne(ctx, c); err != nil {
		return models.InsertResult{}, fmt.Errorf("insert campaign: %w", err)
	}
	return models.Inserted(c.ID), nil
}

func (s *mongoCampaigns) Get(ctx context.Context, id primitive.ObjectID) (*models.DonationCampaign, error) {
	return findOne[models.DonationCampaign](ctx, s.col, bson.M{"_id": id})
}

func (s *mongoCampaigns) List(ctx context.Context, ownerEmail string) ([]models.DonationCampaign, error) {
	filter := bson.M{}
	if ownerEmail != "" {
		filter["email"] = ownerEmail
	}
	return findAll[models.DonationCampaign](ctx, s.col, filter)
}

func (s *mongoCampaigns) Page(ctx context.Context, sortOrder string, skip, limit int64) ([]models.DonationCampaign, int64, error) {
	opts := sortOpts(CampaignSort(sortOrder)).SetSkip(skip).SetLimit(limit)
	items, err := findAll[models.DonationCampaign](ctx, s.col, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count campaigns: %w", err)
	}
	return items, total, nil
}

func (s *mongoCampaigns) Update(ctx context.Context, id primitive.ObjectID, patch models.CampaignPatch) (models.UpdateResult, error) {
	return s.set(ctx, id, patch.SetDoc(time.Now().UTC()))
}

func (s *mongoCampaigns) SetPaused(ctx context.Context, id primitive.ObjectID, paused bool) (models.UpdateResult, error) {
	return s.set(ctx, id, bson.M{"paused": paused, "updatedAt": time.Now().UTC()})
}

func (s *mongoCampaigns) set(ctx context.Context, id primitive.ObjectID, set bson.M) (models.UpdateResult, error) {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("update campaign: %w", err)
	}
	if res.MatchedCount == 0 {
		return updateResult(res), ErrNotFound
	}
	return updateResult(res), nil
}

func (s *mongoCampaigns) Delete(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("delete campaign: %w", err)
	}
	return deleteResult(res), nil
}
