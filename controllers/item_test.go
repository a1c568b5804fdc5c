package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestToggleAvailabilityUpdate_InvertsFlagOnTheServer(t *testing.T) {
	pipeline := toggleAvailabilityUpdate()

	// A single $set stage negating the stored value: the flip happens in
	// one document update, with no read-then-write window between two
	// concurrent toggles.
	require.Len(t, pipeline, 1)
	require.Len(t, pipeline[0], 1)
	assert.Equal(t, "$set", pipeline[0][0].Key)
	assert.Equal(t, bson.M{"available": bson.M{"$not": "$available"}}, pipeline[0][0].Value)
}

func TestParseCatalogQuery_WithoutCoordinates(t *testing.T) {
	q, err := parseCatalogQuery("camera", "electronics", "", "")
	require.NoError(t, err)

	assert.Equal(t, "camera", q.Search)
	assert.Equal(t, "electronics", q.Category)
	assert.Nil(t, q.Near)
}

func TestParseCatalogQuery_WithCoordinates(t *testing.T) {
	q, err := parseCatalogQuery("", "all", "12.9716", "77.5946")
	require.NoError(t, err)

	require.NotNil(t, q.Near)
	assert.InDelta(t, 12.9716, q.Near.Lat, 1e-6)
	assert.InDelta(t, 77.5946, q.Near.Lng, 1e-6)
}

func TestParseCatalogQuery_RejectsPartialCoordinates(t *testing.T) {
	_, err := parseCatalogQuery("", "", "12.9716", "")
	assert.Error(t, err)
}
