package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"go-rentmart/utils"
)

// GeocodeController proxies the external geocoding service
type GeocodeController struct {
	Service *utils.GeocodeService
}

// NewGeocodeController creates a new GeocodeController
func NewGeocodeController(service *utils.GeocodeService) *GeocodeController {
	return &GeocodeController{Service: service}
}

// Geocode resolves a free-text query to zero or one location
func (gc *GeocodeController) Geocode(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		http.Error(w, "Missing query parameter", http.StatusBadRequest)
		return
	}

	location, err := gc.Service.Geocode(r.Context(), query)
	if err != nil {
		log.Printf("Geocoding failed for %q: %v", query, err)
		http.Error(w, "Geocoding failed", http.StatusBadGateway)
		return
	}
	if location == nil {
		http.Error(w, "No results", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(location)
}

// ReverseGeocode resolves a point to its address
func (gc *GeocodeController) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		http.Error(w, "Invalid lat/lng", http.StatusBadRequest)
		return
	}

	location, err := gc.Service.ReverseGeocode(r.Context(), lat, lng)
	if err != nil {
		log.Printf("Reverse geocoding failed for (%f, %f): %v", lat, lng, err)
		http.Error(w, "Geocoding failed", http.StatusBadGateway)
		return
	}
	if location == nil {
		http.Error(w, "No results", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(location)
}
