package search

import (
	"testing"

	"verbena/catalog"
	"verbena/models"

	"github.com/stretchr/testify/require"
)

func fixtureCatalog() *catalog.Catalog {
	return catalog.NewFromProducts([]models.Product{
		{ProductID: "F1", Name: "Red Rose Bouquet", Description: "A dozen red roses", Price: 150, Category: "bouquets", FlowerTypes: []string{"rose"}, Available: true},
		{ProductID: "F2", Name: "White Lily Basket", Description: "Fresh white lilies", Price: 200, Category: "bouquets", FlowerTypes: []string{"lily"}, Available: true},
		{ProductID: "F3", Name: "Plant Fertilizer", Description: "All-purpose plant food", Price: 80, Category: "care", Available: true},
		{ProductID: "F4", Name: "Glass Vase", Description: "Classic clear vase", Price: 120, Category: "accessories", Available: true},
		{ProductID: "F5", Name: "Red Rose Bouquet", Description: "Duplicate listing of the dozen roses", Price: 150, Category: "bouquets", FlowerTypes: []string{"rose"}, Available: true},
		{ProductID: "F6", Name: "Tulip Mix", Description: "Seasonal tulips", Price: 0, Category: "bouquets", FlowerTypes: []string{"tulip"}, Available: true},
		{ProductID: "F7", Name: "Pink Carnation Bunch", Description: "Sweet pink carnations", Price: 90, Category: "bouquets", FlowerTypes: []string{"carnation"}, Available: true},
	})
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(fixtureCatalog(), DefaultMaxResults)
}

func TestSearchDedupByName(t *testing.T) {
	e := newTestEngine(t)

	results := e.Search("red roses", Options{})
	require.NotEmpty(t, results)

	seen := map[string]bool{}
	for _, p := range results {
		require.False(t, seen[p.Name], "duplicate name %q in results", p.Name)
		seen[p.Name] = true
	}
	require.Equal(t, "Red Rose Bouquet", results[0].Name)
	require.Equal(t, "F1", results[0].ProductID, "first source row wins the dedup")
}

func TestSearchBudgetInvariant(t *testing.T) {
	e := newTestEngine(t)

	results := e.Search("bouquets", Options{Budget: 160})
	require.NotEmpty(t, results)
	for _, p := range results {
		require.Greater(t, p.Price, 0.0)
		require.LessOrEqual(t, p.Price, 160.0)
	}
}

func TestSearchBudgetExcludesTooExpensive(t *testing.T) {
	e := newTestEngine(t)

	// cheapest rose costs 150: a 100 budget yields nothing, never an
	// unrelated substitute
	results := e.Search("roses", Options{Budget: 100})
	require.Empty(t, results)
}

func TestSearchUnknownPriceNeverFree(t *testing.T) {
	e := newTestEngine(t)

	require.NotEmpty(t, e.Search("tulip", Options{}))
	require.Empty(t, e.Search("tulip", Options{Budget: 500}),
		"price 0 means unknown and is excluded under a budget")
}

func TestSearchIrrelevantCategoriesExcluded(t *testing.T) {
	e := newTestEngine(t)

	require.Empty(t, e.Search("fertilizer", Options{}))
	require.Empty(t, e.Search("vase", Options{}))

	// naming the category opts back in
	results := e.Search("care fertilizer", Options{})
	require.Len(t, results, 1)
	require.Equal(t, "Plant Fertilizer", results[0].Name)
}

func TestSearchNoMatch(t *testing.T) {
	e := newTestEngine(t)
	require.Empty(t, e.Search("pizza delivery", Options{}))
}

func TestSearchEmptyCatalog(t *testing.T) {
	e := NewEngine(catalog.NewFromProducts(nil), DefaultMaxResults)
	require.Empty(t, e.Search("roses", Options{}))
	require.Empty(t, e.Search("", Options{}))
}

func TestSearchEmptyQueryFallback(t *testing.T) {
	e := newTestEngine(t)

	results := e.Search("", Options{})
	require.NotEmpty(t, results)
	require.LessOrEqual(t, len(results), DefaultMaxResults)

	seen := map[string]bool{}
	for _, p := range results {
		require.False(t, seen[p.Name])
		seen[p.Name] = true
		require.NotContains(t, []string{"care", "accessories"}, p.Category)
	}
	require.Equal(t, "Red Rose Bouquet", results[0].Name, "catalog order is preserved")
}

func TestSearchLimit(t *testing.T) {
	e := newTestEngine(t)

	results := e.Search("bouquets", Options{Limit: 2})
	require.LessOrEqual(t, len(results), 2)
}

func TestSearchDeterministicTieBreak(t *testing.T) {
	e := newTestEngine(t)

	first := e.Search("bouquets", Options{})
	for i := 0; i < 5; i++ {
		require.Equal(t, first, e.Search("bouquets", Options{}))
	}
}

func TestTokenize(t *testing.T) {
	require.Nil(t, Tokenize("   "))
	require.Equal(t, []string{"red", "roses"}, Tokenize("I want some RED roses for the roses"))
}
