package catalog

import (
	"math"
	"testing"

	"go-rentmart/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() []models.Item {
	return []models.Item{
		{
			Name:      "Canon DSLR Camera",
			Category:  "electronics",
			Available: true,
			Location:  &models.Location{Lat: 12.9716, Lng: 77.5946}, // Bangalore
		},
		{
			Name:      "Camping Tent",
			Category:  "outdoors",
			Available: false,
			Location:  &models.Location{Lat: 12.9716, Lng: 77.5946},
		},
		{
			Name:      "Power Drill",
			Category:  "tools",
			Available: true,
		},
	}
}

func TestFilter_SearchTermMatchesOneAvailableItem(t *testing.T) {
	items := testCatalog()

	result := Filter(items, Query{Search: "cam", Category: CategoryAll})

	require.Len(t, result, 1)
	assert.Equal(t, "Canon DSLR Camera", result[0].Name)
}

func TestFilter_SearchIsCaseInsensitive(t *testing.T) {
	items := testCatalog()

	result := Filter(items, Query{Search: "DRILL"})

	require.Len(t, result, 1)
	assert.Equal(t, "Power Drill", result[0].Name)
}

func TestFilter_UnavailableItemsAreNeverShown(t *testing.T) {
	items := testCatalog()

	result := Filter(items, Query{})

	require.Len(t, result, 2)
	for _, item := range result {
		assert.True(t, item.Available)
	}
}

func TestFilter_CategorySentinelAllKeepsEveryCategory(t *testing.T) {
	items := testCatalog()

	all := Filter(items, Query{Category: CategoryAll})
	unset := Filter(items, Query{})

	assert.Equal(t, unset, all)
}

func TestFilter_CategorySelectsExactMatch(t *testing.T) {
	items := testCatalog()

	result := Filter(items, Query{Category: "tools"})

	require.Len(t, result, 1)
	assert.Equal(t, "Power Drill", result[0].Name)
}

func TestFilter_LocationFilterExcludesItemsWithoutLocation(t *testing.T) {
	items := testCatalog()
	center := &models.Location{Lat: 12.9716, Lng: 77.5946}

	result := Filter(items, Query{Near: center})

	// The drill has no location and must be excluded even though the
	// center would otherwise match everything nearby.
	require.Len(t, result, 1)
	assert.Equal(t, "Canon DSLR Camera", result[0].Name)
}

func TestFilter_LocationFilterExcludesItemsBeyondRadius(t *testing.T) {
	items := []models.Item{
		{Name: "Near Bike", Available: true, Location: &models.Location{Lat: 12.98, Lng: 77.60}},
		{Name: "Far Bike", Available: true, Location: &models.Location{Lat: 13.5, Lng: 79.0}}, // ~160km away
	}
	center := &models.Location{Lat: 12.9716, Lng: 77.5946}

	result := Filter(items, Query{Near: center})

	require.Len(t, result, 1)
	assert.Equal(t, "Near Bike", result[0].Name)
}

func TestFilter_EmptyCatalog(t *testing.T) {
	result := Filter(nil, Query{Search: "anything"})
	assert.Empty(t, result)
}

func TestFilter_PreservesOriginalOrder(t *testing.T) {
	items := []models.Item{
		{Name: "Bike A", Available: true},
		{Name: "Bike B", Available: true},
		{Name: "Bike C", Available: true},
	}

	result := Filter(items, Query{Search: "bike"})

	require.Len(t, result, 3)
	assert.Equal(t, "Bike A", result[0].Name)
	assert.Equal(t, "Bike B", result[1].Name)
	assert.Equal(t, "Bike C", result[2].Name)
}

func TestDistanceKm_IdenticalPointsAreZero(t *testing.T) {
	p := models.Location{Lat: 25.0330, Lng: 121.5654}
	assert.Zero(t, DistanceKm(p, p))
}

func TestDistanceKm_IsSymmetric(t *testing.T) {
	a := models.Location{Lat: 12.9716, Lng: 77.5946}
	b := models.Location{Lat: 28.6139, Lng: 77.2090}

	assert.InDelta(t, DistanceKm(a, b), DistanceKm(b, a), 1e-9)
}

func TestDistanceKm_KnownDistance(t *testing.T) {
	bangalore := models.Location{Lat: 12.9716, Lng: 77.5946}
	delhi := models.Location{Lat: 28.6139, Lng: 77.2090}

	// Great-circle distance is roughly 1740 km
	assert.InDelta(t, 1740, DistanceKm(bangalore, delhi), 20)
}

func TestDistanceKm_AntipodalPointsApproachHalfCircumference(t *testing.T) {
	a := models.Location{Lat: 0, Lng: 0}
	b := models.Location{Lat: 0, Lng: 180}

	halfCircumference := math.Pi * earthRadiusKm
	assert.InDelta(t, halfCircumference, DistanceKm(a, b), 1)
}
