package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/phillip/pet-adoption-go/models"
)

func TestPetFilter(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, bson.M{}, PetFilter(PetQuery{}))
	})

	t.Run("category and search", func(t *testing.T) {
		got := PetFilter(PetQuery{Category: "dog", Search: "rex"})
		assert.Equal(t, bson.M{
			"category.value": "dog",
			"petName":        bson.M{"$regex": "rex", "$options": "i"},
		}, got)
	})

	t.Run("search is literal", func(t *testing.T) {
		got := PetFilter(PetQuery{Search: "a.b*"})
		assert.Equal(t, bson.M{"$regex": `a\.b\*`, "$options": "i"}, got["petName"])
	})

	t.Run("owner", func(t *testing.T) {
		got := PetFilter(PetQuery{OwnerEmail: "o@example.com"})
		assert.Equal(t, "o@example.com", got["email"])
	})
}

func TestSorts(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "date", Value: -1}}, PetSort("desc"))
	assert.Equal(t, bson.D{{Key: "age", Value: -1}}, PetSort("age_desc"))
	assert.Empty(t, PetSort("whatever"))

	assert.Equal(t, bson.D{{Key: "date", Value: -1}}, CampaignSort("desc"))
	assert.Equal(t, bson.D{{Key: "maxDonation", Value: -1}}, CampaignSort("age_desc"))
	assert.Equal(t, bson.D{{Key: "maxDonation", Value: -1}}, CampaignSort("amount_desc"))
	assert.Empty(t, CampaignSort(""))
}

func TestDonationFilter(t *testing.T) {
	kinds := bson.A{
		bson.M{"kind": models.PaymentKindDonation},
		bson.M{"kind": bson.M{"$exists": false}, "clientSecret": bson.M{"$exists": false}},
	}
	assert.Equal(t, bson.M{"$or": kinds}, DonationFilter(PaymentQuery{}))
	assert.Equal(t, bson.M{
		"$or":        kinds,
		"donationId": "abc",
		"userEmail":  "u@example.com",
	}, DonationFilter(PaymentQuery{DonationID: "abc", UserEmail: "u@example.com"}))
}
