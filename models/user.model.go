package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a user of the marketplace. A user with role "owner" is
// simply one permitted to list items; a "renter" can be upgraded by editing
// the role through the profile endpoints.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name            string             `bson:"name" json:"name" validate:"required"`
	Mobile          string             `bson:"mobile" json:"mobile" validate:"required"`
	Email           string             `bson:"email" json:"email" validate:"required,email"`
	PIN             string             `bson:"pin,omitempty" json:"-" validate:"required,len=4,numeric"`
	Address         string             `bson:"address" json:"address" validate:"required"`
	Aadhar          string             `bson:"aadhar" json:"aadhar" validate:"required,len=12,numeric"`
	Role            string             `bson:"role" json:"role" validate:"required,oneof=owner renter"`
	ProfileImageURL string             `bson:"profile_image_url,omitempty" json:"profile_image_url,omitempty"`
}
