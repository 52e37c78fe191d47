package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/storekit/translations-backend/internal/services"
)

// TranslationHandler serves the read path (translate, format, batch) and the
// administrative translation entry endpoints.
type TranslationHandler struct {
	translate  *services.TranslateService
	dictionary *services.DictionaryService
	store      *services.LanguageValueStore
}

func NewTranslationHandler(translate *services.TranslateService, dictionary *services.DictionaryService, store *services.LanguageValueStore) *TranslationHandler {
	return &TranslationHandler{
		translate:  translate,
		dictionary: dictionary,
		store:      store,
	}
}

// requestLanguage picks the language for a request: X-Language header first,
// then the first Accept-Language entry. Empty means the registry default.
func requestLanguage(c *gin.Context) string {
	if lang := c.GetHeader("X-Language"); lang != "" {
		return lang
	}

	accept := c.GetHeader("Accept-Language")
	if accept == "" {
		return ""
	}
	// "fr-CH, fr;q=0.9" -> "fr-ch"
	first := strings.SplitN(accept, ",", 2)[0]
	first = strings.SplitN(first, ";", 2)[0]
	return strings.TrimSpace(first)
}

// Translate resolves a single key.
// GET /api/translations/translate/:key
func (h *TranslationHandler) Translate(c *gin.Context) {
	key := c.Param("key")
	if decoded, err := url.QueryUnescape(key); err == nil {
		key = decoded
	}
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "translation key is required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"translation": h.translate.Get(requestLanguage(c), key),
	})
}

// TranslateFormat resolves text and substitutes positional placeholders.
// POST /api/translations/translate/format
func (h *TranslationHandler) TranslateFormat(c *gin.Context) {
	var req struct {
		Text   string        `json:"text" binding:"required"`
		Params []interface{} `json:"params"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"translation": h.translate.GetWithFormat(requestLanguage(c), req.Text, req.Params...),
	})
}

// TranslateArray translates every value of a key/value map, preserving keys.
// POST /api/translations/translate/array
func (h *TranslationHandler) TranslateArray(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.translate.TranslateBatch(requestLanguage(c), req))
}

// Refresh re-warms the cache entry for one key.
// POST /api/translations/refresh
func (h *TranslationHandler) Refresh(c *gin.Context) {
	var req struct {
		LanguageCode string `json:"languageCode"`
		Key          string `json:"key"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lang := req.LanguageCode
	if lang == "" {
		lang = requestLanguage(c)
	}
	h.dictionary.Refresh(lang, req.Key)

	c.JSON(http.StatusOK, gin.H{"message": "Translation cache refreshed successfully"})
}

// CreateTranslation upserts a translation entry.
// POST /api/translations/translations
func (h *TranslationHandler) CreateTranslation(c *gin.Context) {
	var req struct {
		LanguageCode     string `json:"languageCode" binding:"required"`
		OriginalKey      string `json:"originalKey" binding:"required"`
		DestinationValue string `json:"destinationValue" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.dictionary.Insert(req.LanguageCode, req.OriginalKey, req.DestinationValue); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Translation created successfully"})
}

// UpdateTranslation edits an entry by id.
// PUT /api/translations/translations/:id
func (h *TranslationHandler) UpdateTranslation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid translation id"})
		return
	}

	var req struct {
		OriginalKey      *string `json:"originalKey"`
		DestinationValue *string `json:"destinationValue"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.OriginalKey != nil {
		updates["original_key"] = *req.OriginalKey
	}
	if req.DestinationValue != nil {
		updates["destination_value"] = *req.DestinationValue
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	value, err := h.store.Update(uint(id), updates)
	if err != nil {
		if errors.Is(err, services.ErrTranslationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "translation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Stale cache entries would otherwise serve the old value until expiry.
	h.dictionary.Refresh(value.LanguageCode, value.OriginalKey)

	c.JSON(http.StatusOK, value)
}

// DeleteTranslation removes an entry by id.
// DELETE /api/translations/translations/:id
func (h *TranslationHandler) DeleteTranslation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid translation id"})
		return
	}

	if err := h.store.Delete(uint(id)); err != nil {
		if errors.Is(err, services.ErrTranslationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "translation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Translation deleted successfully"})
}
