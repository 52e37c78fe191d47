package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/storekit/translations-backend/internal/models"
	"github.com/storekit/translations-backend/internal/services"
)

// LanguageHandler serves language registry administration and per-language
// translation listings.
type LanguageHandler struct {
	registry *services.LanguageRegistry
	store    *services.LanguageValueStore
	exports  *services.ExportService
}

func NewLanguageHandler(registry *services.LanguageRegistry, store *services.LanguageValueStore, exports *services.ExportService) *LanguageHandler {
	return &LanguageHandler{
		registry: registry,
		store:    store,
		exports:  exports,
	}
}

// ListLanguages returns all languages, default first.
// GET /api/translations/languages
func (h *LanguageHandler) ListLanguages(c *gin.Context) {
	languages, err := h.registry.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, languages)
}

// CreateLanguage registers a new language.
// POST /api/translations/languages
func (h *LanguageHandler) CreateLanguage(c *gin.Context) {
	var req struct {
		Code       string `json:"code" binding:"required"`
		Name       string `json:"name" binding:"required"`
		NativeName string `json:"nativeName"`
		IsDefault  bool   `json:"isDefault"`
		IsActive   *bool  `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lang := models.Language{
		Code:       req.Code,
		Name:       req.Name,
		NativeName: req.NativeName,
		IsDefault:  req.IsDefault,
		IsActive:   true,
	}
	if req.IsActive != nil {
		lang.IsActive = *req.IsActive
	}

	if err := h.registry.Create(&lang); err != nil {
		if strings.Contains(err.Error(), "invalid language code") ||
			strings.Contains(err.Error(), "required") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, lang)
}

// UpdateLanguage applies a partial update.
// PUT /api/translations/languages/:id
func (h *LanguageHandler) UpdateLanguage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid language id"})
		return
	}

	var req struct {
		Code       *string `json:"code"`
		Name       *string `json:"name"`
		NativeName *string `json:"nativeName"`
		IsDefault  *bool   `json:"isDefault"`
		IsActive   *bool   `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Code != nil {
		updates["code"] = *req.Code
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.NativeName != nil {
		updates["native_name"] = *req.NativeName
	}
	if req.IsDefault != nil {
		updates["is_default"] = *req.IsDefault
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	lang, err := h.registry.Update(uint(id), updates)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrLanguageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "language not found"})
		case errors.Is(err, services.ErrDefaultLanguage):
			c.JSON(http.StatusConflict, gin.H{"error": "set another language as default first"})
		case strings.Contains(err.Error(), "invalid language code"):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, lang)
}

// DeleteLanguage removes a language (the default is protected).
// DELETE /api/translations/languages/:id
func (h *LanguageHandler) DeleteLanguage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid language id"})
		return
	}

	if err := h.registry.Delete(uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrLanguageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "language not found"})
		case errors.Is(err, services.ErrDefaultLanguage):
			c.JSON(http.StatusConflict, gin.H{"error": "cannot delete the default language"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Language deleted successfully"})
}

// SetDefaultLanguage promotes a language to default.
// POST /api/translations/languages/:id/default
func (h *LanguageHandler) SetDefaultLanguage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid language id"})
		return
	}

	if err := h.registry.SetDefault(uint(id)); err != nil {
		if errors.Is(err, services.ErrLanguageNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "language not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Default language updated successfully"})
}

// ListTranslationsByLanguage returns all entries for a language.
// GET /api/translations/languages/:code/translations
func (h *LanguageHandler) ListTranslationsByLanguage(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "language code is required"})
		return
	}

	values, err := h.store.FindAllByLanguage(code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, values)
}

// ListMissingTranslations returns keys present in other languages but absent
// from the given one.
// GET /api/translations/languages/:code/missing
func (h *LanguageHandler) ListMissingTranslations(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "language code is required"})
		return
	}

	values, err := h.store.FindMissingTranslations(code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, values)
}

// ExportLanguage dumps a language's translations to a TOML file.
// GET /api/translations/languages/:code/export
func (h *LanguageHandler) ExportLanguage(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "language code is required"})
		return
	}

	filename, err := h.exports.ExportLanguage(code)
	if err != nil {
		if strings.Contains(err.Error(), "no translations found") {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Export completed successfully",
		"file":    filename,
	})
}
