package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"go-rentmart/middleware"
	"go-rentmart/models"
	"go-rentmart/quota"
	"go-rentmart/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Listing fee charged once the free quota is used up
const (
	ConvenienceFee = 25.0
	ProcessingFee  = 2.0
)

// CreateItem submits a new listing through the quota gate. The first listing
// is created immediately; later ones are held as a pending draft until the
// listing fee is confirmed, or until an item is deleted when the owner is at
// the hard cap.
func (ic *ItemController) CreateItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserClaims(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var draft models.ItemDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if err := utils.Validate.Struct(draft); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := ic.ownedItemCount(ctx, claims.UserID)
	if err != nil {
		log.Printf("Error counting items for %s: %v", claims.UserID, err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	session := ic.sessionFor(claims.UserID)
	decision, err := session.Submit(draft, int(count))
	if err != nil {
		http.Error(w, "A submission is already pending", http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	switch decision {
	case quota.DecisionFree:
		item, err := ic.insertListing(ctx, draft, claims.UserID)
		if err != nil {
			log.Printf("Error creating item for %s: %v", claims.UserID, err)
			http.Error(w, "Failed to list item", http.StatusInternalServerError)
			return
		}

		go ic.invalidateItemCache()
		go ic.sendListingEmail(item, false)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(item)

	case quota.DecisionPayment:
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": quota.StateAwaitingPayment.String(),
			"fees":   feeBreakdown(),
		})

	case quota.DecisionBlocked:
		items, err := ic.ownedItems(ctx, claims.UserID)
		if err != nil {
			log.Printf("Error listing items for %s: %v", claims.UserID, err)
			items = nil
		}
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": quota.StateAwaitingQuotaResolution.String(),
			"items":  items,
		})
	}
}

// GetPendingListing reports the state of the caller's submission attempt
func (ic *ItemController) GetPendingListing(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserClaims(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	session := ic.sessionFor(claims.UserID)

	response := map[string]interface{}{"status": session.State().String()}
	if draft, ok := session.Draft(); ok {
		response["draft"] = draft
	}
	if session.State() == quota.StateAwaitingPayment {
		response["fees"] = feeBreakdown()
	}
	if session.State() == quota.StateAwaitingQuotaResolution {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if items, err := ic.ownedItems(ctx, claims.UserID); err == nil {
			response["items"] = items
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// ConfirmListingPayment finalizes a held draft after the listing fee is
// paid. The session resets only once the store accepted the item, so a
// failed insert keeps the draft for another attempt.
func (ic *ItemController) ConfirmListingPayment(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserClaims(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var paymentRequest struct {
		PaymentMethod string `json:"payment_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&paymentRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	paymentMethod := strings.ToLower(paymentRequest.PaymentMethod)
	if paymentMethod != "upi" && paymentMethod != "card" {
		http.Error(w, "Invalid payment method", http.StatusBadRequest)
		return
	}

	session := ic.sessionFor(claims.UserID)
	draft, err := session.BeginPayment()
	switch err {
	case nil:
	case quota.ErrPaymentNotDue:
		http.Error(w, "Delete an item before paying for a new listing", http.StatusConflict)
		return
	case quota.ErrSubmissionInProgress:
		http.Error(w, "Payment confirmation already in progress", http.StatusConflict)
		return
	default:
		http.Error(w, "No pending listing", http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	item, err := ic.insertListing(ctx, draft, claims.UserID)
	if err != nil {
		log.Printf("Error creating paid item for %s: %v", claims.UserID, err)
		session.Fail()
		http.Error(w, "Failed to list item after payment", http.StatusInternalServerError)
		return
	}
	session.Complete()

	payment := models.Payment{
		UserID:         ownerObjectID(claims.UserID),
		ItemID:         item.ID,
		PaymentMethod:  paymentMethod,
		ConvenienceFee: ConvenienceFee,
		ProcessingFee:  ProcessingFee,
		Amount:         ConvenienceFee + ProcessingFee,
		CreatedAt:      time.Now(),
	}
	if _, err := ic.PaymentCollection.InsertOne(ctx, payment); err != nil {
		// The item is already live; the fee record is best effort
		log.Printf("Error recording listing payment for %s: %v", claims.UserID, err)
	}

	go ic.invalidateItemCache()
	go ic.sendListingEmail(item, true)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

// CancelPendingListing discards the held draft without creating anything
func (ic *ItemController) CancelPendingListing(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserClaims(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := ic.sessionFor(claims.UserID).Cancel(); err != nil {
		http.Error(w, "No pending listing", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Listing cancelled"})
}

// insertListing creates the item the same way on the free and the paid path:
// available, owner embedded, empty review list.
func (ic *ItemController) insertListing(ctx context.Context, draft models.ItemDraft, userID string) (models.Item, error) {
	var owner models.User
	usersCollection := ic.ItemCollection.Database().Collection("users")
	if err := usersCollection.FindOne(ctx, bson.M{"_id": ownerObjectID(userID)}).Decode(&owner); err != nil {
		return models.Item{}, err
	}
	owner.PIN = ""

	item := models.Item{
		Name:        draft.Name,
		Category:    draft.Category,
		Price:       draft.Price,
		ImageURL:    draft.ImageURL,
		Available:   true,
		Description: draft.Description,
		Owner:       owner,
		Reviews:     []models.Review{},
		Location:    draft.Location,
	}

	result, err := ic.ItemCollection.InsertOne(ctx, item)
	if err != nil {
		return models.Item{}, err
	}
	item.ID = result.InsertedID.(primitive.ObjectID)
	return item, nil
}

func (ic *ItemController) sendListingEmail(item models.Item, paid bool) {
	if err := ic.EmailService.SendListingConfirmationEmail(item.Owner.Email, item.Name, paid); err != nil {
		log.Printf("Error sending listing confirmation email: %v", err)
	}
}

func feeBreakdown() map[string]float64 {
	return map[string]float64{
		"convenience_fee": ConvenienceFee,
		"processing_fee":  ProcessingFee,
		"total":           ConvenienceFee + ProcessingFee,
	}
}
