package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"go-rentmart/middleware"
	"go-rentmart/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// BookingController handles rental bookings
type BookingController struct {
	BookingCollection *mongo.Collection
	ItemCollection    *mongo.Collection
}

// NewBookingController creates a new BookingController
func NewBookingController(client *mongo.Client) *BookingController {
	db := client.Database("rentmart")
	return &BookingController{
		BookingCollection: db.Collection("bookings"),
		ItemCollection:    db.Collection("items"),
	}
}

// CreateBooking books an available item for a date range
func (bc *BookingController) CreateBooking(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserClaims(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		ItemID   string `json:"item_id"`
		DateFrom string `json:"date_from"`
		DateTo   string `json:"date_to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	itemID, err := primitive.ObjectIDFromHex(req.ItemID)
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	from, err := time.Parse("2006-01-02", req.DateFrom)
	if err != nil {
		http.Error(w, "Invalid date_from", http.StatusBadRequest)
		return
	}
	to, err := time.Parse("2006-01-02", req.DateTo)
	if err != nil {
		http.Error(w, "Invalid date_to", http.StatusBadRequest)
		return
	}
	if to.Before(from) {
		http.Error(w, "date_to must not be before date_from", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var item models.Item
	err = bc.ItemCollection.FindOne(ctx, bson.M{"_id": itemID}).Decode(&item)
	if err != nil {
		http.Error(w, "Item not found", http.StatusNotFound)
		return
	}
	if !item.Available {
		http.Error(w, "Item is not available", http.StatusBadRequest)
		return
	}

	booking := models.Booking{
		ItemID:        itemID,
		UserID:        ownerObjectID(claims.UserID),
		DateFrom:      req.DateFrom,
		DateTo:        req.DateTo,
		PaymentStatus: "pending",
		Status:        "upcoming",
		CreatedAt:     time.Now(),
	}

	result, err := bc.BookingCollection.InsertOne(ctx, booking)
	if err != nil {
		log.Printf("Error creating booking for %s: %v", claims.UserID, err)
		http.Error(w, "Failed to create booking", http.StatusInternalServerError)
		return
	}
	booking.ID = result.InsertedID.(primitive.ObjectID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(booking)
}

// GetBookings retrieves the caller's bookings
func (bc *BookingController) GetBookings(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserClaims(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := bc.BookingCollection.Find(ctx, bson.M{"user_id": ownerObjectID(claims.UserID)})
	if err != nil {
		log.Printf("Error fetching bookings for %s: %v", claims.UserID, err)
		http.Error(w, "Error fetching bookings", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		http.Error(w, "Error decoding bookings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(bookings)
}
