package controllers

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"strings"
	"time"

	"go-rentmart/middleware"
	"go-rentmart/models"
	"go-rentmart/utils"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const otpTTL = 5 * time.Minute

// UserController handles user-related requests
type UserController struct {
	Collection   *mongo.Collection
	RedisClient  *redis.Client
	EmailService *utils.EmailService
}

// NewUserController creates a new UserController
func NewUserController(client *mongo.Client, redisClient *redis.Client, emailService *utils.EmailService) *UserController {
	collection := client.Database("rentmart").Collection("users")
	return &UserController{
		Collection:   collection,
		RedisClient:  redisClient,
		EmailService: emailService,
	}
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var user models.User
	// Decode the request body into user
	err := json.NewDecoder(r.Body).Decode(&user)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	user.Email = strings.ToLower(user.Email)
	if err := utils.Validate.Struct(user); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	// Check if user already exists
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	count, err := uc.Collection.CountDocuments(ctx, bson.M{"email": user.Email})
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if count > 0 {
		http.Error(w, "User already exists", http.StatusBadRequest)
		return
	}

	// PINs are stored hashed, never in plaintext
	hashedPIN, err := bcrypt.GenerateFromPassword([]byte(user.PIN), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing PIN", http.StatusInternalServerError)
		return
	}
	user.PIN = string(hashedPIN)
	if user.ProfileImageURL == "" {
		user.ProfileImageURL = fmt.Sprintf("https://i.pravatar.cc/150?u=%d", time.Now().UnixNano())
	}

	// Insert the user into the database
	result, err := uc.Collection.InsertOne(ctx, user)
	if err != nil {
		http.Error(w, "Error creating user", http.StatusInternalServerError)
		return
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	// Log the user straight in
	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}

	user.PIN = ""
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{"token": token, "user": user})
}

// Login handles user authentication
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email string `json:"email"`
		PIN   string `json:"pin"`
	}
	// Decode the request body
	err := json.NewDecoder(r.Body).Decode(&creds)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	// Find the user in the database
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var user models.User
	err = uc.Collection.FindOne(ctx, bson.M{"email": strings.ToLower(creds.Email)}).Decode(&user)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	// Compare the hashed PIN
	err = bcrypt.CompareHashAndPassword([]byte(user.PIN), []byte(creds.PIN))
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	// Generate JWT token
	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}

	user.PIN = ""
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"token": token, "user": user})
}

// RequestPINReset sends a one-time passcode to the user found by mobile number
func (uc *UserController) RequestPINReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mobile string `json:"mobile"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Mobile == "" {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var user models.User
	err := uc.Collection.FindOne(ctx, bson.M{"mobile": req.Mobile}).Decode(&user)
	if err != nil {
		http.Error(w, "No account found for this mobile number", http.StatusNotFound)
		return
	}

	otp, err := generateOTP()
	if err != nil {
		http.Error(w, "Error generating OTP", http.StatusInternalServerError)
		return
	}

	// OTP lives in Redis only, bound to the mobile number
	if err := uc.RedisClient.Set(ctx, otpKey(req.Mobile), otp, otpTTL).Err(); err != nil {
		log.Printf("Error storing OTP for %s: %v", req.Mobile, err)
		http.Error(w, "Error processing PIN reset", http.StatusInternalServerError)
		return
	}

	if err := uc.EmailService.SendOTPEmail(user.Email, otp); err != nil {
		log.Printf("Error sending OTP email to %s: %v", user.Email, err)
		http.Error(w, "Error sending OTP", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "OTP sent"})
}

// ConfirmPINReset verifies the OTP and updates the user's PIN
func (uc *UserController) ConfirmPINReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mobile string `json:"mobile" validate:"required"`
		OTP    string `json:"otp" validate:"required"`
		NewPIN string `json:"new_pin" validate:"required,len=4,numeric"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		http.Error(w, "PIN must be 4 digits", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	storedOTP, err := uc.RedisClient.Get(ctx, otpKey(req.Mobile)).Result()
	if err != nil && err != redis.Nil {
		log.Printf("Error reading OTP for %s: %v", req.Mobile, err)
		http.Error(w, "Error verifying OTP", http.StatusInternalServerError)
		return
	}
	if err == redis.Nil || storedOTP != req.OTP {
		http.Error(w, "Invalid or expired OTP", http.StatusNotFound)
		return
	}

	hashedPIN, err := bcrypt.GenerateFromPassword([]byte(req.NewPIN), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing PIN", http.StatusInternalServerError)
		return
	}

	res, err := uc.Collection.UpdateOne(ctx, bson.M{"mobile": req.Mobile}, bson.M{
		"$set": bson.M{"pin": string(hashedPIN)},
	})
	if err != nil {
		http.Error(w, "Error resetting PIN", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "No account found for this mobile number", http.StatusNotFound)
		return
	}

	uc.RedisClient.Del(ctx, otpKey(req.Mobile))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "PIN reset successfully"})
}

// GetProfile retrieves the authenticated user's profile
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserClaims(r)
	if !ok {
		http.Error(w, "Could not parse user from context", http.StatusUnauthorized)
		return
	}

	user, err := uc.findByID(claims.UserID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	user.PIN = ""
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// UpdateProfile applies a partial update to the authenticated user's profile.
// Identity and credential fields are stripped; role edits pass through, which
// is how a renter becomes an owner.
func (uc *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserClaims(r)
	if !ok {
		http.Error(w, "Could not parse user from context", http.StatusUnauthorized)
		return
	}

	var updateData map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
		http.Error(w, "Invalid update data", http.StatusBadRequest)
		return
	}

	delete(updateData, "_id")
	delete(updateData, "id")
	delete(updateData, "email")
	delete(updateData, "pin")
	delete(updateData, "aadhar")

	if role, ok := updateData["role"].(string); ok && role != "owner" && role != "renter" {
		http.Error(w, "Invalid role", http.StatusBadRequest)
		return
	}
	if len(updateData) == 0 {
		http.Error(w, "No updatable fields provided", http.StatusBadRequest)
		return
	}

	objID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = uc.Collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": updateData})
	if err != nil {
		log.Printf("Error updating profile for %s: %v", claims.UserID, err)
		http.Error(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	user, err := uc.findByID(claims.UserID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	user.PIN = ""
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// UpdateProfileImage replaces the profile image once the store confirms the
// update, so the response never reflects an unpersisted image.
func (uc *UserController) UpdateProfileImage(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserClaims(r)
	if !ok {
		http.Error(w, "Could not parse user from context", http.StatusUnauthorized)
		return
	}

	var req struct {
		ImageURL string `json:"image_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ImageURL == "" {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	objID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = uc.Collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{
		"$set": bson.M{"profile_image_url": req.ImageURL},
	})
	if err != nil {
		log.Printf("Error updating profile image for %s: %v", claims.UserID, err)
		http.Error(w, "Failed to update profile image", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"profile_image_url": req.ImageURL})
}

func (uc *UserController) findByID(id string) (models.User, error) {
	var user models.User
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return user, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = uc.Collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	return user, err
}

func otpKey(mobile string) string {
	return "otp:" + mobile
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
