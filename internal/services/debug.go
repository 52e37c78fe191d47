package services

import (
	"log"
	"os"
	"strings"
)

var translationDebugEnabled = false

func init() {
	if v := os.Getenv("TRANSLATION_DEBUG"); v != "" {
		v = strings.ToLower(v)
		translationDebugEnabled = v == "1" || v == "true" || v == "yes"
		if translationDebugEnabled {
			log.Println("[TRANSLATIONS] Debug logging: ENABLED")
		}
	}
}

// debugLog logs only when TRANSLATION_DEBUG is enabled.
// Use for per-request details: cache hits/misses, fallback walks, key hashes.
func debugLog(format string, args ...interface{}) {
	if translationDebugEnabled {
		log.Printf("[TRANSLATIONS DEBUG] "+format, args...)
	}
}

// infoLog always logs important translation events: placeholder inserts,
// swallowed store errors, cache administration.
func infoLog(format string, args ...interface{}) {
	log.Printf("[TRANSLATIONS] "+format, args...)
}
