package memory

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/pet-adoption-go/models"
	"github.com/phillip/pet-adoption-go/store"
)

type payments struct {
	t *table[models.Payment]
}

func intentWithHandle(handle string) func(models.Payment) bool {
	return func(p models.Payment) bool {
		return p.Kind == models.PaymentKindIntent && p.PaymentIntentID == handle
	}
}

func (s *payments) Insert(_ context.Context, p *models.Payment) (models.InsertResult, error) {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	s.t.insert(p.ID, *p)
	return models.Inserted(p.ID), nil
}

func (s *payments) FindIntent(_ context.Context, paymentIntentID string) (*models.Payment, error) {
	p, ok := s.t.first(intentWithHandle(paymentIntentID))
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *payments) ConsumeIntent(_ context.Context, paymentIntentID string) (*models.Payment, error) {
	match := intentWithHandle(paymentIntentID)
	p, ok := s.t.updateFirst(
		func(p models.Payment) bool { return match(p) && !p.Consumed },
		func(p *models.Payment) bool { p.Consumed = true; return true },
	)
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *payments) ReleaseIntent(_ context.Context, paymentIntentID string) error {
	s.t.updateFirst(intentWithHandle(paymentIntentID), func(p *models.Payment) bool {
		p.Consumed = false
		return true
	})
	return nil
}

func (s *payments) ListDonations(_ context.Context, q store.PaymentQuery) ([]models.Payment, error) {
	return s.t.filter(func(p models.Payment) bool {
		legacy := p.Kind == "" && p.ClientSecret == ""
		if p.Kind != models.PaymentKindDonation && !legacy {
			return false
		}
		if q.DonationID != "" && p.DonationID != q.DonationID {
			return false
		}
		if q.UserEmail != "" && p.UserEmail != q.UserEmail {
			return false
		}
		return true
	}), nil
}

func (s *payments) Delete(_ context.Context, id primitive.ObjectID) (models.DeleteResult, error) {
	return models.DeleteResult{Acknowledged: true, DeletedCount: s.t.delete(id)}, nil
}
