// Package store holds the document collections behind the API. Each
// collection is exposed as a small interface with a MongoDB implementation in
// this package and an in-process one in store/memory.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/pet-adoption-go/models"
)

// ErrNotFound is returned by point lookups and updates that match nothing.
var ErrNotFound = errors.New("document not found")

// Collection names, shared by both drivers.
const (
	UsersCollection     = "users"
	PetsCollection      = "pets"
	AdoptionsCollection = "adoptions"
	CampaignsCollection = "donation"
	PaymentsCollection  = "payments"
)

// Sort orders accepted by listing endpoints.
const (
	SortDateDesc   = "desc"
	SortAgeDesc    = "age_desc"
	SortAmountDesc = "amount_desc"
)

type PetQuery struct {
	Category   string // exact match on category.value
	Search     string // case-insensitive substring of petName
	OwnerEmail string
	Sort       string
}

type PaymentQuery struct {
	DonationID string
	UserEmail  string
}

type UserStore interface {
	// CreateIfAbsent inserts u unless a user with the same email exists. It
	// returns the stored document and whether it was created by this call.
	CreateIfAbsent(ctx context.Context, u *models.User) (*models.User, bool, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	SetRole(ctx context.Context, id primitive.ObjectID, role string) (models.UpdateResult, error)
	// EnsureRole upserts a user with the given role, used to bootstrap admins.
	EnsureRole(ctx context.Context, email, role string) error
}

type PetStore interface {
	Create(ctx context.Context, p *models.Pet) (models.InsertResult, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Pet, error)
	List(ctx context.Context, q PetQuery) ([]models.Pet, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.PetPatch) (models.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error)
}

type AdoptionStore interface {
	Create(ctx context.Context, a *models.AdoptionRequest) (models.InsertResult, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.AdoptionRequest, error)
	ListByEmail(ctx context.Context, email string) ([]models.AdoptionRequest, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, accepted bool) (models.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error)
}

type CampaignStore interface {
	Create(ctx context.Context, c *models.DonationCampaign) (models.InsertResult, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.DonationCampaign, error)
	// List returns every campaign, or only those owned by ownerEmail when set.
	List(ctx context.Context, ownerEmail string) ([]models.DonationCampaign, error)
	// Page returns one page of campaigns plus the total campaign count.
	Page(ctx context.Context, sortOrder string, skip, limit int64) ([]models.DonationCampaign, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.CampaignPatch) (models.UpdateResult, error)
	SetPaused(ctx context.Context, id primitive.ObjectID, paused bool) (models.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error)
}

type PaymentStore interface {
	Insert(ctx context.Context, p *models.Payment) (models.InsertResult, error)
	// FindIntent looks up an intent record by the processor's handle.
	FindIntent(ctx context.Context, paymentIntentID string) (*models.Payment, error)
	// ConsumeIntent marks an unconsumed intent as consumed. It returns
	// ErrNotFound when no unconsumed intent carries the handle.
	ConsumeIntent(ctx context.Context, paymentIntentID string) (*models.Payment, error)
	// ReleaseIntent reverts ConsumeIntent after a failed follow-up write.
	ReleaseIntent(ctx context.Context, paymentIntentID string) error
	ListDonations(ctx context.Context, q PaymentQuery) ([]models.Payment, error)
	Delete(ctx context.Context, id primitive.ObjectID) (models.DeleteResult, error)
}

// Stores bundles the five collections handed to the HTTP layer.
type Stores struct {
	Users     UserStore
	Pets      PetStore
	Adoptions AdoptionStore
	Campaigns CampaignStore
	Payments  PaymentStore
}
