// Package serviceinterfaces holds the service contracts shared between the
// HTTP handlers and their implementations.
package serviceinterfaces

import "context"

// TranslateRequest is the input to a translation operation
type TranslateRequest struct {
	Text       string
	SourceLang string
	TargetLang string
	// MaxLength caps the upstream generation length; 0 means the default.
	MaxLength int
}

// TranslateResponse is the result of a translation operation
type TranslateResponse struct {
	TranslatedText string
	SourceLang     string
	TargetLang     string
}

// TranslationService defines the translation operations exposed to handlers
type TranslationService interface {
	// Translate performs the full translate sequence: client acquisition,
	// language tag validation, then the upstream predict call.
	Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error)

	// ValidateLanguageTag reports whether a language tag is well-formed.
	ValidateLanguageTag(tag string) error
}

// PredictClient is the upstream inference handle used by the translation
// service. Satisfied by *gradio.Client.
type PredictClient interface {
	Predict(ctx context.Context, apiName string, args ...interface{}) ([]interface{}, error)
}

// ClientProvider hands out the shared upstream client, creating it lazily
type ClientProvider interface {
	// Get returns the shared client, constructing it on first use.
	Get(ctx context.Context) (PredictClient, error)

	// Warm eagerly constructs the client so the first request is not
	// penalized by connection setup.
	Warm(ctx context.Context) error

	// Loaded reports whether the client has been constructed.
	Loaded() bool
}
