package memory

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/pet-adoption-go/models"
	"github.com/phillip/pet-adoption-go/store"
)

type users struct {
	create sync.Mutex // serializes check-then-insert on email
	t      *table[models.User]
}

func byEmail(email string) func(models.User) bool {
	return func(u models.User) bool { return u.Email == email }
}

func (s *users) CreateIfAbsent(_ context.Context, u *models.User) (*models.User, bool, error) {
	s.create.Lock()
	defer s.create.Unlock()

	if existing, ok := s.t.first(byEmail(u.Email)); ok {
		return &existing, false, nil
	}
	row := *u
	if row.ID.IsZero() {
		row.ID = primitive.NewObjectID()
	}
	s.t.insert(row.ID, row)
	return &row, true, nil
}

func (s *users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := s.t.first(byEmail(email))
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *users) List(context.Context) ([]models.User, error) {
	return s.t.filter(nil), nil
}

func (s *users) SetRole(_ context.Context, id primitive.ObjectID, role string) (models.UpdateResult, error) {
	matched, modified := s.t.update(id, func(u *models.User) bool {
		if u.Role == role {
			return false
		}
		u.Role = role
		return true
	})
	return models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  boolCount(matched),
		ModifiedCount: boolCount(modified),
	}, nil
}

func (s *users) EnsureRole(_ context.Context, email, role string) error {
	s.create.Lock()
	defer s.create.Unlock()

	_, ok := s.t.updateFirst(byEmail(email), func(u *models.User) bool {
		u.Role = role
		return true
	})
	if !ok {
		id := primitive.NewObjectID()
		s.t.insert(id, models.User{ID: id, Email: email, Role: role, CreatedAt: time.Now().UTC()})
	}
	return nil
}
