package search

import (
	"sort"

	"github.com/beinghadibadami/medinexus-connect/entities"
)

// Rank sorts results by ascending distance in place and returns them.
// Equal distances keep their catalog order.
func Rank(results []entities.SearchResult) []entities.SearchResult {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceMeters < results[j].DistanceMeters
	})
	return results
}
