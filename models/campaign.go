package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DonationCampaign struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name             string             `bson:"name" json:"name"`
	MaxDonation      float64            `bson:"maxDonation" json:"maxDonation"`
	ShortDescription string             `bson:"shortDescription,omitempty" json:"shortDescription,omitempty"`
	LongDescription  string             `bson:"longDescription,omitempty" json:"longDescription,omitempty"`
	LastDateDonation *time.Time         `bson:"lastDateDonation,omitempty" json:"lastDateDonation,omitempty"`
	ImageURL         string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Paused           bool               `bson:"paused" json:"paused"`
	Email            string             `bson:"email" json:"email"` // owner
	Date             time.Time          `bson:"date" json:"date"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CampaignPatch is a merge-patch over the editable campaign fields.
type CampaignPatch struct {
	Name             *string
	MaxDonation      *float64
	ShortDescription *string
	LongDescription  *string
	LastDateDonation *time.Time
	ImageURL         *string
}

func (p CampaignPatch) Empty() bool {
	return p.Name == nil && p.MaxDonation == nil && p.ShortDescription == nil &&
		p.LongDescription == nil && p.LastDateDonation == nil && p.ImageURL == nil
}

func (p CampaignPatch) SetDoc(now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.MaxDonation != nil {
		set["maxDonation"] = *p.MaxDonation
	}
	if p.ShortDescription != nil {
		set["shortDescription"] = *p.ShortDescription
	}
	if p.LongDescription != nil {
		set["longDescription"] = *p.LongDescription
	}
	if p.LastDateDonation != nil {
		set["lastDateDonation"] = *p.LastDateDonation
	}
	if p.ImageURL != nil {
		set["imageUrl"] = *p.ImageURL
	}
	return set
}

func (p CampaignPatch) Apply(c *DonationCampaign, now time.Time) bool {
	changed := false
	if p.Name != nil && *p.Name != c.Name {
		c.Name, changed = *p.Name, true
	}
	if p.MaxDonation != nil && *p.MaxDonation != c.MaxDonation {
		c.MaxDonation, changed = *p.MaxDonation, true
	}
	if p.ShortDescription != nil && *p.ShortDescription != c.ShortDescription {
		c.ShortDescription, changed = *p.ShortDescription, true
	}
	if p.LongDescription != nil && *p.LongDescription != c.LongDescription {
		c.LongDescription, changed = *p.LongDescription, true
	}
	if p.LastDateDonation != nil && (c.LastDateDonation == nil || !p.LastDateDonation.Equal(*c.LastDateDonation)) {
		t := *p.LastDateDonation
		c.LastDateDonation, changed = &t, true
	}
	if p.ImageURL != nil && *p.ImageURL != c.ImageURL {
		c.ImageURL, changed = *p.ImageURL, true
	}
	if changed {
		c.UpdatedAt = now
	}
	return changed
}
