package memory

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/pet-adoption-go/models"
	"github.com/phillip/pet-adoption-go/store"
)

type campaigns struct {
	t *table[models.DonationCampaign]
}

func (s *campaigns) Create(_ context.Context, c *models.DonationCampaign) (models.InsertResult, error) {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	s.t.insert(c.ID, *c)
	return models.Inserted(c.ID), nil
}

func (s *campaigns) Get(_ context.Context, id primitive.ObjectID) (*models.DonationCampaign, error) {
	c, ok := s.t.get(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s *campaigns) List(_ context.Context, ownerEmail string) ([]models.DonationCampaign, error) {
	if ownerEmail == "" {
		return s.t.filter(nil), nil
	}
	return s.t.filter(func(c models.DonationCampaign) bool { return c.Email == ownerEmail }), nil
}

func (s *campaigns) Page(_ context.Context, sortOrder string, skip, limit int64) ([]models.DonationCampaign, int64, error) {
	all := s.t.filter(nil)
	switch sortOrder {
	case store.SortDateDesc:
		sort.SliceStable(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	case store.SortAgeDesc, store.SortAmountDesc:
		sort.SliceStable(all, func(i, j int) bool { return all[i].MaxDonation > all[j].MaxDonation })
	}

	total := int64(len(all))
	if skip >= total {
		return []models.DonationCampaign{}, total, nil
	}
	end := total
	if limit > 0 && skip+limit < total {
		end = skip + limit
	}
	return all[skip:end], total, nil
}

func (s *campaigns) Update(_ context.Context, id primitive.ObjectID, patch models.CampaignPatch) (models.UpdateResult, error) {
	now := time.Now().UTC()
	return s.result(s.t.update(id, func(c *models.DonationCampaign) bool { return patch.Apply(c, now) }))
}

func (s *campaigns) SetPaused(_ context.Context, id primitive.ObjectID, paused bool) (models.UpdateResult, error) {
	now := time.Now().UTC()
	return s.result(s.t.update(id, func(c *models.DonationCampaign) bool {
		if c.Paused == paused {
			return false
		}
		c.Paused, c.UpdatedAt = paused, now
		return true
	}))
}

func (s *campaigns) result(matched, modified bool) (models.UpdateResult, error) {
	res := models.UpdateResult{Acknowledged: true, MatchedCount: boolCount(matched), ModifiedCount: boolCount(modified)}
	if !matched {
		return res, store.ErrNotFound
	}
	return res, nil
}

func (s *campaigns) Delete(_ context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	return models.DeleteResult{Acknowledged: true, DeletedCount: s.t.delete(id)}, nil
}
