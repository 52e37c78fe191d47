package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storekit/translations-backend/internal/services"
)

// CacheHandler serves cache administration: clear, stats, warmup.
type CacheHandler struct {
	cache services.TranslationCache
	store *services.LanguageValueStore
}

func NewCacheHandler(cache services.TranslationCache, store *services.LanguageValueStore) *CacheHandler {
	return &CacheHandler{cache: cache, store: store}
}

// ClearCache evicts cached translations, scoped to one language when given.
// POST /api/translations/cache/clear
func (h *CacheHandler) ClearCache(c *gin.Context) {
	var req struct {
		LanguageCode string `json:"languageCode"`
	}
	// Body is optional; an empty body clears everything.
	_ = c.ShouldBindJSON(&req)

	removed := h.cache.Clear(services.NormalizeLanguageCode(req.LanguageCode, ""))

	c.JSON(http.StatusOK, gin.H{
		"message": "Cache cleared successfully",
		"removed": removed,
	})
}

// CacheStats reports the live entry count and a key sample.
// GET /api/translations/cache/stats
func (h *CacheHandler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.cache.Stats())
}

// WarmUpCache bulk-loads all persisted entries for a language into the cache.
// POST /api/translations/cache/warmup
func (h *CacheHandler) WarmUpCache(c *gin.Context) {
	var req struct {
		LanguageCode string `json:"languageCode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lang := services.NormalizeLanguageCode(req.LanguageCode, "")
	entries, err := h.store.FindAllByLanguage(lang)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	loaded := h.cache.WarmUp(lang, entries)

	c.JSON(http.StatusOK, gin.H{
		"message": "Cache warmed up successfully",
		"entries": loaded,
	})
}
