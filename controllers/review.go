package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"go-rentmart/middleware"
	"go-rentmart/models"
	"go-rentmart/utils"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ReviewController handles item reviews
type ReviewController struct {
	ItemCollection *mongo.Collection
	UserCollection *mongo.Collection
	RedisClient    *redis.Client
}

// NewReviewController creates a new ReviewController
func NewReviewController(client *mongo.Client, redisClient *redis.Client) *ReviewController {
	db := client.Database("rentmart")
	return &ReviewController{
		ItemCollection: db.Collection("items"),
		UserCollection: db.Collection("users"),
		RedisClient:    redisClient,
	}
}

// AddReview appends a review to an item. Reviews are append-only and embed
// the author's name rather than a user reference.
func (rc *ReviewController) AddReview(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserClaims(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	itemID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	var reviewData struct {
		Rating int    `json:"rating" validate:"required,min=1,max=5"`
		Text   string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&reviewData); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if err := utils.Validate.Struct(reviewData); err != nil {
		http.Error(w, "Rating must be between 1 and 5", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var author models.User
	err = rc.UserCollection.FindOne(ctx, bson.M{"_id": ownerObjectID(claims.UserID)}).Decode(&author)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	review := models.Review{
		ID:       uuid.NewString(),
		UserName: author.Name,
		Rating:   reviewData.Rating,
		Text:     reviewData.Text,
	}

	res, err := rc.ItemCollection.UpdateOne(ctx, bson.M{"_id": itemID}, bson.M{
		"$push": bson.M{"reviews": review},
	})
	if err != nil {
		log.Printf("Error adding review to item %s: %v", itemID.Hex(), err)
		http.Error(w, "Failed to submit review", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Item not found", http.StatusNotFound)
		return
	}

	go func() {
		utils.InvalidateCache(context.Background(), rc.RedisClient, itemCachePattern)
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(review)
}
