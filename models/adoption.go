package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdoptionRequest references its pet by identifier only; nothing joins them
// server-side.
type AdoptionRequest struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email      string             `bson:"email" json:"email"` // requester
	Name       string             `bson:"name,omitempty" json:"name,omitempty"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address    string             `bson:"address,omitempty" json:"address,omitempty"`
	PetID      string             `bson:"petId" json:"petId"`
	PetName    string             `bson:"petName,omitempty" json:"petName,omitempty"`
	PetImage   string             `bson:"petImage,omitempty" json:"petImage,omitempty"`
	OwnerEmail string             `bson:"ownerEmail,omitempty" json:"ownerEmail,omitempty"`
	Status     bool               `bson:"status" json:"status"` // true once accepted
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// AdoptionAccepted is the only status string that marks a request accepted.
const AdoptionAccepted = "accepted"
