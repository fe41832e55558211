package config

import "time"

// Server defaults
const (
	DefaultServerPort  = "8080"
	DefaultLogLevel    = "info"
	DefaultServiceName = "translation-gateway"
)

// Upstream defaults
const (
	// DefaultUpstreamEndpoint is the public demo space used when no endpoint
	// is configured.
	DefaultUpstreamEndpoint = "KMayanja/testTranslate"
	DefaultUpstreamAPIName  = "/predict"
	DefaultUpstreamTimeout  = 60 * time.Second

	// DefaultMaxLength is the generation cap applied when a translate request
	// omits max_length.
	DefaultMaxLength = 512
)

// Cache defaults
const (
	DefaultCacheBackend = "memory"
	DefaultCacheTTL     = 24 * time.Hour
)

// Security configuration constants
const (
	// Content Security Policy served on every response
	DefaultCSP = "default-src 'self'"
)
