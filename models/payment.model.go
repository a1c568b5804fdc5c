package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment records the listing fee paid to publish an item beyond the free
// quota
type Payment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	ItemID         primitive.ObjectID `bson:"item_id" json:"item_id"`
	PaymentMethod  string             `bson:"payment_method" json:"payment_method"` // "upi" or "card"
	ConvenienceFee float64            `bson:"convenience_fee" json:"convenience_fee"`
	ProcessingFee  float64            `bson:"processing_fee" json:"processing_fee"`
	Amount         float64            `bson:"amount" json:"amount"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}
