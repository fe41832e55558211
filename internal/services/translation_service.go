package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"translategw/internal/config"
	"translategw/internal/observability"
	"translategw/internal/serviceinterfaces"
	contextutils "translategw/internal/utils"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/language"
)

// TranslationServiceInterface defines the interface for translation services
type TranslationServiceInterface = serviceinterfaces.TranslationService

// languageTagPattern restricts tags to language[-script][-region]. The
// gateway has no use for BCP 47 variants or extension singletons, and
// rejecting them up front keeps junk like "not-a-lang" out of the registry
// lookup below.
var languageTagPattern = regexp.MustCompile(`^[a-zA-Z]{2,3}(-[a-zA-Z]{4})?(-(?:[a-zA-Z]{2}|[0-9]{3}))?$`)

// GatewayTranslationService forwards translate requests to the shared
// upstream client, guarded by a circuit breaker and fronted by an optional
// translation cache.
type GatewayTranslationService struct {
	cfg      *config.Config
	provider serviceinterfaces.ClientProvider
	cache    TranslationCache
	metrics  *observability.GatewayMetrics
	logger   *observability.Logger
	breaker  *gobreaker.CircuitBreaker
}

// NewGatewayTranslationService creates the translation service. cache and
// metrics may be nil.
func NewGatewayTranslationService(
	cfg *config.Config,
	provider serviceinterfaces.ClientProvider,
	cache TranslationCache,
	metrics *observability.GatewayMetrics,
	logger *observability.Logger,
) *GatewayTranslationService {
	s := &GatewayTranslationService{
		cfg:      cfg,
		provider: provider,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
	}

	if threshold := cfg.Upstream.BreakerThreshold; threshold > 0 {
		s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "upstream-predict",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= uint32(threshold)
			},
		})
	}

	return s
}

// Translate performs the translate sequence in its contractual order: client
// acquisition first, then source and target tag validation, then the upstream
// predict call. Each failure carries the error code its HTTP mapping depends on.
func (s *GatewayTranslationService) Translate(ctx context.Context, req serviceinterfaces.TranslateRequest) (result *serviceinterfaces.TranslateResponse, err error) {
	ctx, span := observability.TraceTranslationFunction(ctx, "translate",
		attribute.String("translation.source_language", req.SourceLang),
		attribute.String("translation.target_language", req.TargetLang),
		attribute.Int("translation.text_length", len(req.Text)),
	)
	defer observability.FinishSpan(span, &err)

	client, err := s.provider.Get(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.ValidateLanguageTag(req.SourceLang); err != nil {
		return nil, contextutils.NewAppErrorWithCause(
			contextutils.ErrorCodeInvalidLanguageTag,
			contextutils.SeverityWarn,
			fmt.Sprintf("Invalid source language tag: %s", req.SourceLang),
			"source_lang",
			err,
		)
	}

	if err := s.ValidateLanguageTag(req.TargetLang); err != nil {
		return nil, contextutils.NewAppErrorWithCause(
			contextutils.ErrorCodeInvalidLanguageTag,
			contextutils.SeverityWarn,
			fmt.Sprintf("Invalid target language tag: %s", req.TargetLang),
			"target_lang",
			err,
		)
	}

	cacheKey := CacheKey(req.Text, req.SourceLang, req.TargetLang)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, cacheKey); ok {
			s.metrics.RecordCacheHit(ctx)
			return &serviceinterfaces.TranslateResponse{
				TranslatedText: cached,
				SourceLang:     req.SourceLang,
				TargetLang:     req.TargetLang,
			}, nil
		}
	}

	translated, err := s.predict(ctx, client, req)
	if err != nil {
		s.metrics.RecordUpstreamFailure(ctx)
		s.logger.Error(ctx, "Upstream predict call failed", err, map[string]interface{}{
			"source_lang": req.SourceLang,
			"target_lang": req.TargetLang,
		})
		return nil, contextutils.NewAppErrorWithCause(
			contextutils.ErrorCodeUpstreamCall,
			contextutils.SeverityError,
			"Upstream translation call failed",
			err.Error(),
			err,
		)
	}

	if s.cache != nil {
		// Best effort; a write failure must not fail the request
		_ = s.cache.Set(ctx, cacheKey, translated)
	}

	s.metrics.RecordTranslation(ctx, req.SourceLang, req.TargetLang)

	return &serviceinterfaces.TranslateResponse{
		TranslatedText: translated,
		SourceLang:     req.SourceLang,
		TargetLang:     req.TargetLang,
	}, nil
}

// predict invokes the upstream route, through the circuit breaker when one is
// configured, and extracts the translated text from the outputs.
func (s *GatewayTranslationService) predict(ctx context.Context, client serviceinterfaces.PredictClient, req serviceinterfaces.TranslateRequest) (string, error) {
	args := []interface{}{req.Text, req.SourceLang, req.TargetLang}
	if s.cfg.Upstream.ForwardMaxLength {
		maxLength := req.MaxLength
		if maxLength <= 0 {
			maxLength = config.DefaultMaxLength
		}
		args = append(args, maxLength)
	}

	call := func() (interface{}, error) {
		return client.Predict(ctx, s.cfg.Upstream.APIName, args...)
	}

	var outputs interface{}
	var err error
	if s.breaker != nil {
		outputs, err = s.breaker.Execute(call)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("upstream circuit open: %v", err)
		}
	} else {
		outputs, err = call()
	}
	if err != nil {
		return "", err
	}

	values, ok := outputs.([]interface{})
	if !ok || len(values) == 0 {
		return "", fmt.Errorf("upstream returned no outputs")
	}
	translated, ok := values[0].(string)
	if !ok {
		return "", fmt.Errorf("upstream returned a non-text output (%T)", values[0])
	}
	return translated, nil
}

// ValidateLanguageTag reports whether a language tag is well-formed. It checks
// the language[-script][-region] shape first, then the BCP 47 registry via
// x/text. The registry lookup catches shapes like "xx" that are syntactically
// fine but name no known language.
func (s *GatewayTranslationService) ValidateLanguageTag(tag string) error {
	if tag == "" {
		return contextutils.NewAppError(contextutils.ErrorCodeInvalidLanguageTag, contextutils.SeverityWarn, "Language tag cannot be empty", "")
	}

	if !languageTagPattern.MatchString(tag) {
		return contextutils.NewAppError(contextutils.ErrorCodeInvalidLanguageTag, contextutils.SeverityWarn,
			fmt.Sprintf("Language tag %q is not of the form language[-script][-region]", tag), "")
	}

	if _, err := language.Parse(tag); err != nil {
		return contextutils.NewAppErrorWithCause(contextutils.ErrorCodeInvalidLanguageTag, contextutils.SeverityWarn,
			fmt.Sprintf("Unknown language tag %q", tag), "", err)
	}

	return nil
}
