package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking represents a rental of an item for a date range
type Booking struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ItemID        primitive.ObjectID `bson:"item_id" json:"item_id"`
	UserID        primitive.ObjectID `bson:"user_id" json:"user_id"`
	DateFrom      string             `bson:"date_from" json:"date_from"`
	DateTo        string             `bson:"date_to" json:"date_to"`
	PaymentStatus string             `bson:"payment_status" json:"payment_status"` // "pending", "completed" or "failed"
	Status        string             `bson:"status" json:"status"`                 // "upcoming", "active", "completed" or "cancelled"
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}
