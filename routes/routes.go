// routes/routes.go
package routes

import (
	"go-rentmart/controllers"
	"go-rentmart/middleware"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, userController *controllers.UserController, itemController *controllers.ItemController, reviewController *controllers.ReviewController, bookingController *controllers.BookingController, geocodeController *controllers.GeocodeController) {
	// Public routes
	router.HandleFunc("/register", userController.Register).Methods("POST")
	router.HandleFunc("/login", userController.Login).Methods("POST")
	router.HandleFunc("/pin-reset/request", userController.RequestPINReset).Methods("POST")
	router.HandleFunc("/pin-reset/confirm", userController.ConfirmPINReset).Methods("POST")

	// Routes that require authentication
	authenticated := router.PathPrefix("/api").Subrouter()
	authenticated.Use(middleware.AuthMiddleware)

	// Profile routes
	authenticated.HandleFunc("/profile", userController.GetProfile).Methods("GET")
	authenticated.HandleFunc("/profile", userController.UpdateProfile).Methods("PUT")
	authenticated.HandleFunc("/profile/image", userController.UpdateProfileImage).Methods("PUT")

	// Item routes
	authenticated.HandleFunc("/items", itemController.GetItems).Methods("GET")
	authenticated.HandleFunc("/items", itemController.CreateItem).Methods("POST")
	authenticated.HandleFunc("/items/pending", itemController.GetPendingListing).Methods("GET")
	authenticated.HandleFunc("/items/pending/confirm", itemController.ConfirmListingPayment).Methods("POST")
	authenticated.HandleFunc("/items/pending", itemController.CancelPendingListing).Methods("DELETE")
	authenticated.HandleFunc("/items/{id}", itemController.GetItemByID).Methods("GET")
	authenticated.HandleFunc("/items/{id}", itemController.DeleteItem).Methods("DELETE")
	authenticated.HandleFunc("/items/{id}/availability", itemController.ToggleAvailability).Methods("PATCH")

	// Review routes
	authenticated.HandleFunc("/items/{id}/reviews", reviewController.AddReview).Methods("POST")

	// Booking routes
	authenticated.HandleFunc("/bookings", bookingController.CreateBooking).Methods("POST")
	authenticated.HandleFunc("/bookings", bookingController.GetBookings).Methods("GET")

	// Geocoding routes
	authenticated.HandleFunc("/geocode", geocodeController.Geocode).Methods("GET")
	authenticated.HandleFunc("/geocode/reverse", geocodeController.ReverseGeocode).Methods("GET")
}
