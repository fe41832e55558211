package handlers

import (
	"net/http"

	"translategw/internal/config"
	"translategw/internal/observability"
	"translategw/internal/serviceinterfaces"
	"translategw/internal/services"
	contextutils "translategw/internal/utils"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// TranslationHandler handles the gateway's HTTP requests
type TranslationHandler struct {
	translationService services.TranslationServiceInterface
	clientProvider     serviceinterfaces.ClientProvider
	cfg                *config.Config
	logger             *observability.Logger
}

// NewTranslationHandler creates a new TranslationHandler instance
func NewTranslationHandler(
	translationService services.TranslationServiceInterface,
	clientProvider serviceinterfaces.ClientProvider,
	cfg *config.Config,
	logger *observability.Logger,
) *TranslationHandler {
	return &TranslationHandler{
		translationService: translationService,
		clientProvider:     clientProvider,
		cfg:                cfg,
		logger:             logger,
	}
}

// Root handles GET /
func (h *TranslationHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the Translation Gateway. Use /translate for translations or /health to check status.",
	})
}

// Health handles GET /health. It never fails; it only reports whether the
// upstream client handle has been created.
func (h *TranslationHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:       "healthy",
		ClientLoaded: h.clientProvider.Loaded(),
	})
}

// Warm handles POST /warm. Call it on deploy so the first real request is not
// penalized by connection setup latency.
func (h *TranslationHandler) Warm(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "warm")
	var err error
	defer observability.FinishSpan(span, &err)

	if err = h.clientProvider.Warm(ctx); err != nil {
		h.logger.Error(ctx, "Warm-up failed", err)
		HandleAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, WarmResponse{Status: "warmed"})
}

// Translate handles POST /translate
func (h *TranslationHandler) Translate(c *gin.Context) {
	ctx, span := observability.TraceHandlerFunction(c.Request.Context(), "translate")
	var err error
	defer observability.FinishSpan(span, &err)

	var req TranslateRequest
	if err = c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn(ctx, "Invalid translation request format", map[string]interface{}{"error": err.Error()})
		StandardizeAppError(c, contextutils.NewAppErrorWithCause(
			contextutils.ErrorCodeInvalidInput,
			contextutils.SeverityWarn,
			"Invalid request format",
			err.Error(),
			err,
		))
		return
	}

	span.SetAttributes(
		attribute.String("translation.source_language", req.SourceLang),
		attribute.String("translation.target_language", req.TargetLang),
		attribute.Int("translation.text_length", len(req.Text)),
	)

	response, err := h.translationService.Translate(ctx, serviceinterfaces.TranslateRequest{
		Text:       req.Text,
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
		MaxLength:  req.MaxLength,
	})
	if err != nil {
		h.logger.Error(ctx, "Translation failed", err, map[string]interface{}{
			"source_lang": req.SourceLang,
			"target_lang": req.TargetLang,
		})
		HandleAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, TranslateResponse{
		TranslatedText: response.TranslatedText,
		SourceLang:     response.SourceLang,
		TargetLang:     response.TargetLang,
	})
}
