package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocode_ResolvesFirstResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "MG Road Bangalore", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"12.9752","lon":"77.6057","display_name":"MG Road, Bengaluru, India"}]`))
	}))
	defer server.Close()

	gs := NewGeocodeServiceWithURL(server.URL)

	loc, err := gs.Geocode(context.Background(), "MG Road Bangalore")
	require.NoError(t, err)
	require.NotNil(t, loc)

	assert.InDelta(t, 12.9752, loc.Lat, 1e-6)
	assert.InDelta(t, 77.6057, loc.Lng, 1e-6)
	assert.Equal(t, "MG Road, Bengaluru, India", loc.Address)
}

func TestGeocode_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	gs := NewGeocodeServiceWithURL(server.URL)

	loc, err := gs.Geocode(context.Background(), "nowhere at all")
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestGeocode_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	gs := NewGeocodeServiceWithURL(server.URL)

	_, err := gs.Geocode(context.Background(), "anything")
	assert.Error(t, err)
}

func TestReverseGeocode_ResolvesAddress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "12.9752", r.URL.Query().Get("lat"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"lat":"12.9752","lon":"77.6057","display_name":"MG Road, Bengaluru, India"}`))
	}))
	defer server.Close()

	gs := NewGeocodeServiceWithURL(server.URL)

	loc, err := gs.ReverseGeocode(context.Background(), 12.9752, 77.6057)
	require.NoError(t, err)
	require.NotNil(t, loc)

	assert.Equal(t, "MG Road, Bengaluru, India", loc.Address)
	assert.InDelta(t, 12.9752, loc.Lat, 1e-6)
}
