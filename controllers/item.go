package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go-rentmart/catalog"
	"go-rentmart/middleware"
	"go-rentmart/models"
	"go-rentmart/quota"
	"go-rentmart/utils"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	itemCachePrefix  = "items"
	itemCachePattern = itemCachePrefix + ":*"
	itemCacheTTL     = 10 * time.Minute
)

// ItemController handles the item catalog and the listing submission flow.
// Quota sessions are held in memory per owner; pending drafts are never
// persisted.
type ItemController struct {
	ItemCollection    *mongo.Collection
	PaymentCollection *mongo.Collection
	RedisClient       *redis.Client
	EmailService      *utils.EmailService

	mu       sync.Mutex
	sessions map[string]*quota.Session
}

// NewItemController creates a new ItemController
func NewItemController(client *mongo.Client, redisClient *redis.Client, emailService *utils.EmailService) *ItemController {
	db := client.Database("rentmart")
	return &ItemController{
		ItemCollection:    db.Collection("items"),
		PaymentCollection: db.Collection("payments"),
		RedisClient:       redisClient,
		EmailService:      emailService,
		sessions:          make(map[string]*quota.Session),
	}
}

func (ic *ItemController) sessionFor(userID string) *quota.Session {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	s, ok := ic.sessions[userID]
	if !ok {
		s = quota.NewSession()
		ic.sessions[userID] = s
	}
	return s
}

// GetItems retrieves the visible item list for the browse screen. The full
// catalog is loaded and filtered in-process; responses are cached per query.
func (ic *ItemController) GetItems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	cacheKey := utils.CacheKey(itemCachePrefix, query)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cachedData, err := ic.RedisClient.Get(ctx, cacheKey).Result()
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(cachedData))
		return
	}
	if err != redis.Nil {
		log.Printf("Redis GET error for key %s: %v", cacheKey, err)
	}

	filter, err := parseCatalogQuery(query.Get("search"), query.Get("category"), query.Get("lat"), query.Get("lng"))
	if err != nil {
		http.Error(w, "Invalid location filter", http.StatusBadRequest)
		return
	}

	cursor, err := ic.ItemCollection.Find(ctx, bson.M{})
	if err != nil {
		log.Printf("Error fetching items: %v", err)
		http.Error(w, "Error fetching items", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var items []models.Item
	if err := cursor.All(ctx, &items); err != nil {
		log.Printf("Error decoding items: %v", err)
		http.Error(w, "Error decoding items", http.StatusInternalServerError)
		return
	}

	visible := catalog.Filter(items, filter)

	resultBytes, err := json.Marshal(visible)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	if err := ic.RedisClient.Set(ctx, cacheKey, resultBytes, itemCacheTTL).Err(); err != nil {
		log.Printf("Failed to cache response for key %s: %v", cacheKey, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(resultBytes)
}

// GetItemByID retrieves a single item, including the embedded owner contact
// details shown on the detail page
func (ic *ItemController) GetItemByID(w http.ResponseWriter, r *http.Request) {
	objID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var item models.Item
	err = ic.ItemCollection.FindOne(ctx, bson.M{"_id": objID}).Decode(&item)
	if err != nil {
		http.Error(w, "Item not found", http.StatusNotFound)
		return
	}

	item.Owner.PIN = ""
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(item)
}

// ToggleAvailability flips an owned item's availability in a single
// pipeline update, so concurrent toggles never lose a write. The response
// reflects only the confirmed state.
func (ic *ItemController) ToggleAvailability(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserClaims(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	objID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var item models.Item
	err = ic.ItemCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID, "owner._id": ownerObjectID(claims.UserID)},
		toggleAvailabilityUpdate(),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&item)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "No item found or unauthorized", http.StatusForbidden)
		return
	}
	if err != nil {
		log.Printf("Error toggling availability for item %s: %v", objID.Hex(), err)
		http.Error(w, "Failed to update item status", http.StatusInternalServerError)
		return
	}

	go ic.invalidateItemCache()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"id": objID.Hex(), "available": item.Available})
}

// toggleAvailabilityUpdate inverts the stored availability flag on the
// server, so the read and the write cannot interleave with another toggle.
func toggleAvailabilityUpdate() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{"available": bson.M{"$not": "$available"}}}},
	}
}

// DeleteItem removes an owned item. A blocked quota session is re-evaluated
// afterwards: once the owner is back under the hard cap the held draft moves
// to the payment step on its own.
func (ic *ItemController) DeleteItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserClaims(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	objID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := ic.ItemCollection.DeleteOne(ctx, bson.M{"_id": objID, "owner._id": ownerObjectID(claims.UserID)})
	if err != nil {
		log.Printf("Delete failed for item %s: %v", objID.Hex(), err)
		http.Error(w, "Delete failed", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "No item found or unauthorized", http.StatusForbidden)
		return
	}

	go ic.invalidateItemCache()

	response := map[string]interface{}{"message": "Item deleted successfully"}

	count, err := ic.ownedItemCount(ctx, claims.UserID)
	if err != nil {
		log.Printf("Error counting items for %s after delete: %v", claims.UserID, err)
	} else if ic.sessionFor(claims.UserID).OwnedCountChanged(int(count)) {
		response["pending_status"] = quota.StateAwaitingPayment.String()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (ic *ItemController) ownedItemCount(ctx context.Context, userID string) (int64, error) {
	return ic.ItemCollection.CountDocuments(ctx, bson.M{"owner._id": ownerObjectID(userID)})
}

func (ic *ItemController) ownedItems(ctx context.Context, userID string) ([]models.Item, error) {
	cursor, err := ic.ItemCollection.Find(ctx, bson.M{"owner._id": ownerObjectID(userID)})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.Item
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (ic *ItemController) invalidateItemCache() {
	utils.InvalidateCache(context.Background(), ic.RedisClient, itemCachePattern)
}

func parseCatalogQuery(search, category, latStr, lngStr string) (catalog.Query, error) {
	q := catalog.Query{Search: search, Category: category}

	if latStr == "" && lngStr == "" {
		return q, nil
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return q, err
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return q, err
	}
	q.Near = &models.Location{Lat: lat, Lng: lng}
	return q, nil
}

func ownerObjectID(userID string) primitive.ObjectID {
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID
	}
	return objID
}
