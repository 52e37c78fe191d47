package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "translations_http_requests_total",
		Help: "Total HTTP requests by method, route pattern, and status code",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "translations_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route pattern",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// Resolver
	TranslationLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "translations_lookups_total",
		Help: "Translation lookups by resolution source (cache, store, fallback, miss)",
	}, []string{"source"})

	TranslationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "translations_errors_total",
		Help: "Errors swallowed by the read path, by stage",
	}, []string{"stage"})

	PlaceholderInsertsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "translations_placeholder_inserts_total",
		Help: "Placeholder rows auto-inserted for missing translations",
	})

	// Cache
	TranslationCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "translations_cache_hits_total",
		Help: "Translation cache hits",
	})

	TranslationCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "translations_cache_misses_total",
		Help: "Translation cache misses (including expired entries)",
	})

	TranslationCacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "translations_cache_entries",
		Help: "Live entries in the translation cache",
	})

	CacheEvictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "translations_cache_evictions_total",
		Help: "Cache evictions by reason (expired, cleared, removed)",
	}, []string{"reason"})

	// Store-level gauges, refreshed periodically from the database
	LanguagesActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "translations_languages_active",
		Help: "Number of active languages",
	})

	EntriesByLanguage = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "translations_entries",
		Help: "Persisted translation entries per language",
	}, []string{"language"})

	PlaceholdersByLanguage = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "translations_placeholders",
		Help: "Entries per language whose value still equals the original key",
	}, []string{"language"})
)
