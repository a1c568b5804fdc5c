// Package catalog computes the visible item list for the browse screen.
// Filtering is pure so it can safely run on every request and is applied
// in-process rather than pushed into the store query.
package catalog

import (
	"math"
	"strings"

	"go-rentmart/models"
)

// SearchRadiusKm bounds the location filter around the chosen center point.
const SearchRadiusKm = 30.0

const earthRadiusKm = 6371.0

// CategoryAll disables category filtering.
const CategoryAll = "all"

// Query holds the browse filters. Near is optional; a nil center point
// disables the radius predicate entirely.
type Query struct {
	Search   string
	Category string
	Near     *models.Location
}

// Filter returns the subsequence of items, in original order, that are
// available, match the search term case-insensitively, belong to the
// selected category, and sit within SearchRadiusKm of the center point.
// Items without a location are excluded whenever a center point is set.
func Filter(items []models.Item, q Query) []models.Item {
	term := strings.ToLower(q.Search)

	matched := make([]models.Item, 0, len(items))
	for _, item := range items {
		if !item.Available {
			continue
		}
		if !strings.Contains(strings.ToLower(item.Name), term) {
			continue
		}
		if !matchesCategory(item.Category, q.Category) {
			continue
		}
		if q.Near != nil {
			if item.Location == nil || DistanceKm(*q.Near, *item.Location) > SearchRadiusKm {
				continue
			}
		}
		matched = append(matched, item)
	}
	return matched
}

func matchesCategory(itemCategory, selected string) bool {
	return selected == "" || selected == CategoryAll || itemCategory == selected
}

// DistanceKm calculates the great circle distance between two points in
// kilometers using the haversine formula on a mean-radius sphere.
func DistanceKm(a, b models.Location) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}
