package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearchCacheKeyCoversAllOptions(t *testing.T) {
	base := searchCacheKey("bouquets", Options{})

	variants := []Options{
		{Limit: 1},
		{Budget: 160},
		{Category: "bouquets"},
		{Budget: 160, Limit: 2},
	}
	seen := map[string]bool{base: true}
	for _, opts := range variants {
		key := searchCacheKey("bouquets", opts)
		require.False(t, seen[key], "options %+v must not collide with another key", opts)
		seen[key] = true
	}

	// identical requests do share a key
	require.Equal(t,
		searchCacheKey("roses", Options{Budget: 100, Limit: 3}),
		searchCacheKey("roses", Options{Budget: 100, Limit: 3}))
}
