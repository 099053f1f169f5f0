package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category mirrors the {value, label} pair the web client sends.
type Category struct {
	Value string `bson:"value" json:"value"`
	Label string `bson:"label,omitempty" json:"label,omitempty"`
}

type Pet struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	PetName          string             `bson:"petName" json:"petName"`
	Age              int                `bson:"age" json:"age"`
	Image            string             `bson:"image,omitempty" json:"image,omitempty"`
	Location         string             `bson:"location,omitempty" json:"location,omitempty"`
	Category         Category           `bson:"category" json:"category"`
	ShortDescription string             `bson:"shortDescription,omitempty" json:"shortDescription,omitempty"`
	LongDescription  string             `bson:"longDescription,omitempty" json:"longDescription,omitempty"`
	Email            string             `bson:"email" json:"email"` // owner
	Status           string             `bson:"status,omitempty" json:"status,omitempty"`
	Date             time.Time          `bson:"date" json:"date"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PetPatch is a merge-patch: nil fields are left untouched.
type PetPatch struct {
	PetName          *string
	Age              *int
	Image            *string
	Location         *string
	Category         *Category
	ShortDescription *string
	LongDescription  *string
	Status           *string
}

func (p PetPatch) Empty() bool {
	return p.PetName == nil && p.Age == nil && p.Image == nil && p.Location == nil &&
		p.Category == nil && p.ShortDescription == nil && p.LongDescription == nil && p.Status == nil
}

// SetDoc renders the patch as the body of a $set update.
func (p PetPatch) SetDoc(now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if p.PetName != nil {
		set["petName"] = *p.PetName
	}
	if p.Age != nil {
		set["age"] = *p.Age
	}
	if p.Image != nil {
		set["image"] = *p.Image
	}
	if p.Location != nil {
		set["location"] = *p.Location
	}
	if p.Category != nil {
		set["category"] = *p.Category
	}
	if p.ShortDescription != nil {
		set["shortDescription"] = *p.ShortDescription
	}
	if p.LongDescription != nil {
		set["longDescription"] = *p.LongDescription
	}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	return set
}

// Apply merges the patch into pet and reports whether any field changed.
func (p PetPatch) Apply(pet *Pet, now time.Time) bool {
	before := *pet
	if p.PetName != nil {
		pet.PetName = *p.PetName
	}
	if p.Age != nil {
		pet.Age = *p.Age
	}
	if p.Image != nil {
		pet.Image = *p.Image
	}
	if p.Location != nil {
		pet.Location = *p.Location
	}
	if p.Category != nil {
		pet.Category = *p.Category
	}
	if p.ShortDescription != nil {
		pet.ShortDescription = *p.ShortDescription
	}
	if p.LongDescription != nil {
		pet.LongDescription = *p.LongDescription
	}
	if p.Status != nil {
		pet.Status = *p.Status
	}
	if *pet == before {
		return false
	}
	pet.UpdatedAt = now
	return true
}
