package search

import (
	"sort"
	"strings"
	"sync/atomic"

	"verbena/catalog"
	"verbena/models"
)

const DefaultMaxResults = 5

// Categories a plain flower query must not surface. Products in these
// buckets only appear when the query names the bucket itself.
var excludedCategories = map[string]bool{
	"accessories": true,
	"care":        true,
	"cards":       true,
	"merchandise": true,
	"tools":       true,
}

// Engine answers product queries against the current catalog snapshot.
// Every call is a fresh computation; there is no cursor state.
type Engine struct {
	cat        *catalog.Catalog
	maxResults int
	idx        atomic.Pointer[index]
}

// Options narrows one search call.
type Options struct {
	Budget   float64 // 0 = no ceiling
	Category string  // optional category hint
	Limit    int     // 0 = engine default
}

// index is the per-snapshot lexical index: one token set per product, in
// catalog order.
type index struct {
	products []models.Product
	tokens   []map[string]bool
	names    []string // lowercased, for dedup and substring match
}

func NewEngine(cat *catalog.Catalog, maxResults int) *Engine {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	e := &Engine{cat: cat, maxResults: maxResults}
	e.Refresh()
	return e
}

// Refresh rebuilds the index from the catalog's current snapshot. Call it
// after a catalog reload; concurrent searches keep using the old index
// until the swap.
func (e *Engine) Refresh() {
	e.idx.Store(buildIndex(e.cat.Products()))
}

func buildIndex(products []models.Product) *index {
	idx := &index{
		products: products,
		tokens:   make([]map[string]bool, len(products)),
		names:    make([]string, len(products)),
	}
	for i, p := range products {
		set := map[string]bool{}
		for _, t := range Tokenize(p.Name + " " + p.Description + " " + p.Category) {
			set[t] = true
		}
		for _, ft := range p.FlowerTypes {
			set[ft] = true
		}
		idx.tokens[i] = set
		idx.names[i] = strings.ToLower(p.Name)
	}
	return idx
}

// Search returns a deduplicated, ranked product list for a free-text query.
// With a budget, every result satisfies 0 < price <= budget. An empty
// catalog or an unmatched query yields an empty slice, never an error.
func (e *Engine) Search(query string, opts Options) []models.Product {
	idx := e.idx.Load()
	if idx == nil || len(idx.products) == 0 {
		return []models.Product{}
	}

	limit := opts.Limit
	if limit <= 0 || limit > e.maxResults {
		limit = e.maxResults
	}

	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return e.fallback(idx, opts, limit)
	}

	type scored struct {
		pos   int
		score int
	}
	var candidates []scored
	for i, p := range idx.products {
		if !p.Available {
			continue
		}
		if excludedCategories[p.Category] && !mentionsCategory(tokens, p.Category) {
			continue
		}

		score := 0
		for _, t := range tokens {
			st := singular(t)
			switch {
			case idx.tokens[i][t], idx.tokens[i][st]:
				score += 3
			case strings.Contains(idx.names[i], t):
				score += 3
			default:
				continue
			}
			// exact flower-type or category hit ranks above a plain
			// description match
			if st == p.Category || t == p.Category ||
				containsString(p.FlowerTypes, st) || containsString(p.FlowerTypes, t) {
				score += 4
			}
		}
		if score == 0 {
			continue
		}
		if opts.Category != "" && strings.EqualFold(opts.Category, p.Category) {
			score += 7
		}
		candidates = append(candidates, scored{pos: i, score: score})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].score != candidates[b].score {
			return candidates[a].score > candidates[b].score
		}
		return candidates[a].pos < candidates[b].pos
	})

	results := make([]models.Product, 0, limit)
	seenNames := map[string]bool{}
	for _, c := range candidates {
		p := idx.products[c.pos]
		if seenNames[idx.names[c.pos]] {
			continue
		}
		if !withinBudget(p, opts.Budget) {
			continue
		}
		seenNames[idx.names[c.pos]] = true
		results = append(results, p)
		if len(results) >= limit {
			break
		}
	}
	return results
}

// fallback handles the explicit empty-query case with a representative
// sequence: available products in catalog order, same dedup and budget
// rules as a real search.
func (e *Engine) fallback(idx *index, opts Options, limit int) []models.Product {
	results := make([]models.Product, 0, limit)
	seenNames := map[string]bool{}
	for i, p := range idx.products {
		if !p.Available || excludedCategories[p.Category] {
			continue
		}
		if seenNames[idx.names[i]] || !withinBudget(p, opts.Budget) {
			continue
		}
		seenNames[idx.names[i]] = true
		results = append(results, p)
		if len(results) >= limit {
			break
		}
	}
	return results
}

// withinBudget treats price 0 as unknown, never as free: with an active
// budget such products are excluded outright.
func withinBudget(p models.Product, budget float64) bool {
	if budget <= 0 {
		return true
	}
	return p.Price > 0 && p.Price <= budget
}

func mentionsCategory(tokens []string, category string) bool {
	for _, t := range tokens {
		if t == category || strings.HasPrefix(category, t) || strings.HasPrefix(t, category) {
			return true
		}
	}
	return false
}

// singular trims a plural "s" so "roses" still reaches "rose". Tokens of
// three letters or fewer are left alone.
func singular(t string) string {
	if len(t) > 3 && strings.HasSuffix(t, "s") {
		return strings.TrimSuffix(t, "s")
	}
	return t
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
