package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Location is a WGS84 point with its resolved address. Immutable once
// attached to an item.
type Location struct {
	Lat     float64 `bson:"lat" json:"lat"`
	Lng     float64 `bson:"lng" json:"lng"`
	Address string  `bson:"address" json:"address"`
}

// Review is appended to exactly one item. Only the author's name is
// embedded, not a full user reference, so it can go stale if the author
// renames themselves.
type Review struct {
	ID       string `bson:"id" json:"id"`
	UserName string `bson:"user_name" json:"user_name"`
	Rating   int    `bson:"rating" json:"rating" validate:"required,min=1,max=5"`
	Text     string `bson:"text" json:"text"`
}

// Item represents a listed rental item. The owner is embedded wholesale,
// so `owner._id` partitions the catalog into per-owner subsets.
type Item struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Category    string             `bson:"category" json:"category"`
	Price       float64            `bson:"price" json:"price"`
	ImageURL    string             `bson:"image_url" json:"image_url"`
	Available   bool               `bson:"available" json:"available"`
	Description string             `bson:"description" json:"description"`
	Owner       User               `bson:"owner" json:"owner"`
	Reviews     []Review           `bson:"reviews" json:"reviews"`
	Location    *Location          `bson:"location,omitempty" json:"location,omitempty"`
}

// ItemDraft is a listing submission before the quota gate has decided its
// fate. It lives only in controller memory, never in the database.
type ItemDraft struct {
	Name        string    `json:"name" validate:"required"`
	Category    string    `json:"category" validate:"required"`
	Price       float64   `json:"price" validate:"required,gt=0"`
	ImageURL    string    `json:"image_url"`
	Description string    `json:"description" validate:"required"`
	Location    *Location `json:"location" validate:"required"`
}
