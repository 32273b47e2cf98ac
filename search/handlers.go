package search

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"verbena/catalog"
	"verbena/globals"
	"verbena/rdx"
	"verbena/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
)

const (
	resultCacheTTL  = 30 * time.Second
	autocompleteKey = "autocomplete:products"
)

// Handlers exposes the search engine over HTTP.
type Handlers struct {
	Engine  *Engine
	Catalog *catalog.Catalog
}

func NewHandlers(engine *Engine, cat *catalog.Catalog) *Handlers {
	return &Handlers{Engine: engine, Catalog: cat}
}

// SearchProducts handles GET /api/search/products?query=&budget=&category=&limit=
func (h *Handlers) SearchProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query().Get("query")
	opts := Options{
		Budget:   utils.ParseFloatQuery(r, "budget"),
		Category: r.URL.Query().Get("category"),
		Limit:    utils.ParseIntQuery(r, "limit", 0),
	}

	cacheKey := searchCacheKey(query, opts)
	if cached := rdx.CacheGet(cacheKey); cached != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(cached)
		return
	}

	results := h.Engine.Search(query, opts)
	log.Printf("[SearchProducts] query=%q budget=%v results=%d", query, opts.Budget, len(results))

	payload, err := json.Marshal(map[string]interface{}{"products": results})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error encoding results")
		return
	}
	rdx.CacheSet(cacheKey, payload, resultCacheTTL)
	recordQueryTokens(query)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// Autocomplete handles GET /api/search/autocomplete?prefix=
func (h *Handlers) Autocomplete(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	prefix := r.URL.Query().Get("prefix")
	if prefix == "" {
		utils.RespondWithJSON(w, http.StatusOK, []string{})
		return
	}
	terms, err := rdx.Conn.ZRangeByLex(r.Context(), autocompleteKey, &redis.ZRangeBy{
		Min:   "[" + prefix,
		Max:   "[" + prefix + "\xff",
		Count: 10,
	}).Result()
	if err != nil {
		log.Println("[Autocomplete] Redis error:", err)
		terms = []string{}
	}
	utils.RespondWithJSON(w, http.StatusOK, terms)
}

// ReloadCatalog handles POST /api/catalog/reload: whole-sale re-read of the
// CSV source plus an index rebuild, behind an atomic snapshot swap.
func (h *Handlers) ReloadCatalog(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.Catalog.Reload(); err != nil {
		log.Println("[ReloadCatalog] reload error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Catalog reload failed")
		return
	}
	h.Engine.Refresh()
	invalidateSearchCache()
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "reloaded",
		"products": len(h.Catalog.Products()),
	})
}

// invalidateSearchCache drops cached search responses after a snapshot
// swap; they may describe products that no longer exist.
func invalidateSearchCache() {
	iter := rdx.Conn.Scan(globals.Ctx, 0, "search:*", 100).Iterator()
	var keys []string
	for iter.Next(globals.Ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Println("[invalidateSearchCache] Redis scan error:", err)
		return
	}
	rdx.CacheDel(keys...)
}

// searchCacheKey covers every option that changes the result set, so two
// requests share a cached payload only when their answers are identical.
func searchCacheKey(query string, opts Options) string {
	return fmt.Sprintf("search:%s:%g:%s:%d", query, opts.Budget, opts.Category, opts.Limit)
}

// recordQueryTokens feeds query tokens into the autocomplete set.
func recordQueryTokens(query string) {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return
	}
	pipe := rdx.Conn.Pipeline()
	for _, t := range tokens {
		pipe.ZAdd(globals.Ctx, autocompleteKey, redis.Z{Score: 0, Member: t})
	}
	if _, err := pipe.Exec(globals.Ctx); err != nil {
		log.Println("[recordQueryTokens] Redis pipeline error:", err)
	}
}
