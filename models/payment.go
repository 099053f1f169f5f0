package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentKindIntent   = "intent"
	PaymentKindDonation = "donation"
)

// Payment is either a processor intent (Kind "intent") or a recorded donation
// (Kind "donation"). Both live in the payments collection.
type Payment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Kind            string             `bson:"kind" json:"kind"`
	Amount          float64            `bson:"amount" json:"amount"`
	Currency        string             `bson:"currency,omitempty" json:"currency,omitempty"`
	PaymentIntentID string             `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
	ClientSecret    string             `bson:"clientSecret,omitempty" json:"-"`
	Consumed        bool               `bson:"consumed,omitempty" json:"consumed,omitempty"`

	DonationID string    `bson:"donationId,omitempty" json:"donationId,omitempty"`
	PetImage   string    `bson:"petImage,omitempty" json:"petImage,omitempty"`
	PetName    string    `bson:"petName,omitempty" json:"petName,omitempty"`
	UserName   string    `bson:"userName,omitempty" json:"userName,omitempty"`
	UserEmail  string    `bson:"userEmail,omitempty" json:"userEmail,omitempty"`
	Date       time.Time `bson:"date,omitempty" json:"date,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// MinorUnits converts a major-unit amount (dollars) to the processor's minor
// unit (cents), rounding to the nearest unit.
func MinorUnits(amount float64) int64 {
	if amount < 0 {
		return -int64(-amount*100 + 0.5)
	}
	return int64(amount*100 + 0.5)
}
