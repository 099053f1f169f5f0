package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/phillip/pet-adoption-go/models"
)

// Connect opens a client pinned to the Stable API v1 and verifies the
// deployment answers a ping. The client is safe for concurrent use and is
// meant to live for the whole process.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the indexes the API relies on. The unique email
// index is what makes user creation idempotent under concurrency.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		PetsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}},
			{Keys: bson.D{{Key: "category.value", Value: 1}}},
		},
		AdoptionsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
		CampaignsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
		PaymentsCollection: {
			{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "paymentIntentId", Value: 1}}},
			{Keys: bson.D{{Key: "userEmail", Value: 1}}},
			{Keys: bson.D{{Key: "donationId", Value: 1}}},
		},
	}
	for name, idx := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}

// NewMongoStores binds every store to its collection in db.
func NewMongoStores(db *mongo.Database) Stores {
	return Stores{
		Users:     &mongoUsers{col: db.Collection(UsersCollection)},
		Pets:      &mongoPets{col: db.Collection(PetsCollection)},
		Adoptions: &mongoAdoptions{col: db.Collection(AdoptionsCollection)},
		Campaigns: &mongoCampaigns{col: db.Collection(CampaignsCollection)},
		Payments:  &mongoPayments{col: db.Collection(PaymentsCollection)},
	}
}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter any) (*T, error) {
	var out T
	if err := col.FindOne(ctx, filter).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find %s: %w", col.Name(), err)
	}
	return &out, nil
}

func findAll[T any](ctx context.Context, col *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", col.Name(), err)
	}
	var out []T
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", col.Name(), err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// sortOpts returns find options carrying sort, or none for natural order.
func sortOpts(sort bson.D) *options.FindOptions {
	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	return opts
}

func updateResult(res *mongo.UpdateResult) models.UpdateResult {
	return models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}
}

func deleteResult(res *mongo.DeleteResult) models.DeleteResult {
	return models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}
}
