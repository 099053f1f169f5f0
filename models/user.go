package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)

// User is created on first authenticated contact and is never deleted.
// Role only moves from User to Admin through an administrative action.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email     string             `bson:"email" json:"email"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Photo     string             `bson:"photo,omitempty" json:"photo,omitempty"`
	Role      string             `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"timestamp" json:"timestamp"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }
