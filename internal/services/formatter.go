package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// placeholderPattern matches positional placeholders: {0}, {1}, ...
var placeholderPattern = regexp.MustCompile(`\{[0-9]+\}`)

// TranslateService layers positional-placeholder formatting and batch
// translation on top of the dictionary resolver. Like the resolver, its read
// path never returns errors.
type TranslateService struct {
	dictionary *DictionaryService

	// disabled short-circuits all resolution, returning input unchanged.
	// Used when an operator needs to bypass the dictionary entirely.
	disabled bool
}

func NewTranslateService(dictionary *DictionaryService, disabled bool) *TranslateService {
	return &TranslateService{dictionary: dictionary, disabled: disabled}
}

// Get resolves a key for a language (empty langCode means the default).
func (s *TranslateService) Get(langCode, key string) string {
	if s.disabled {
		return key
	}
	return s.dictionary.Get(langCode, key)
}

// GetWithFormat resolves text and substitutes positional placeholders.
// Placeholder {i} is replaced with params[i+1]: the first parameter slot is
// reserved, a convention inherited from the previous generation of this API
// that storefront callers still depend on. Out-of-range placeholders are
// left literal in the output.
func (s *TranslateService) GetWithFormat(langCode, text string, params ...interface{}) string {
	if !s.disabled {
		text = s.dictionary.Get(langCode, text)
	}

	formats := placeholderPattern.FindAllString(text, -1)
	if len(formats) == 0 {
		return text
	}

	for _, format := range formats {
		i, err := strconv.Atoi(format[1 : len(format)-1])
		if err != nil {
			continue
		}
		if i+1 < len(params) {
			text = strings.ReplaceAll(text, format, fmt.Sprint(params[i+1]))
		}
	}
	return text
}

// TranslateBatch translates every value of the input map, preserving keys.
// Empty or nil input is returned unchanged.
func (s *TranslateService) TranslateBatch(langCode string, values map[string]string) map[string]string {
	if len(values) == 0 {
		return values
	}

	result := make(map[string]string, len(values))
	for key, value := range values {
		result[key] = s.Get(langCode, value)
	}
	return result
}
