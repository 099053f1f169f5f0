package store

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/phillip/pet-adoption-go/models"
)

// PetFilter builds the Mongo filter for a pet listing. Search text is matched
// literally, never as a pattern.
func PetFilter(q PetQuery) bson.M {
	filter := bson.M{}
	if c := strings.TrimSpace(q.Category); c != "" {
		filter["category.value"] = c
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		filter["petName"] = bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
	}
	if q.OwnerEmail != "" {
		filter["email"] = q.OwnerEmail
	}
	return filter
}

// PetSort maps the sortOrder query flag onto a sort document. Unknown values
// keep natural order.
func PetSort(order string) bson.D {
	switch order {
	case SortDateDesc:
		return bson.D{{Key: "date", Value: -1}}
	case SortAgeDesc:
		return bson.D{{Key: "age", Value: -1}}
	}
	return bson.D{}
}

// CampaignSort maps sortOrder for campaigns; age_desc is kept as an alias of
// amount_desc for existing clients.
func CampaignSort(order string) bson.D {
	switch order {
	case SortDateDesc:
		return bson.D{{Key: "date", Value: -1}}
	case SortAgeDesc, SortAmountDesc:
		return bson.D{{Key: "maxDonation", Value: -1}}
	}
	return bson.D{}
}

// legacyDonation matches payment records written before records carried a
// kind. Intents of that era stored a clientSecret; donations never did.
var legacyDonation = bson.M{
	"kind":         bson.M{"$exists": false},
	"clientSecret": bson.M{"$exists": false},
}

// DonationFilter selects recorded donations; intent records never match.
func DonationFilter(q PaymentQuery) bson.M {
	filter := bson.M{"$or": bson.A{bson.M{"kind": models.PaymentKindDonation}, legacyDonation}}
	if q.DonationID != "" {
		filter["donationId"] = q.DonationID
	}
	if q.UserEmail != "" {
		filter["userEmail"] = q.UserEmail
	}
	return filter
}
