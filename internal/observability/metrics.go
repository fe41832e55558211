package observability

import (
	"context"

	"translategw/internal/config"
	contextutils "translategw/internal/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// InitMetrics initializes OpenTelemetry metrics with an OTLP gRPC exporter
// and registers the meter provider globally.
func InitMetrics(cfg *config.OpenTelemetryConfig) (result0 *sdkmetric.MeterProvider, err error) {
	ctx := context.Background()

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to create otel resource: %v", err)
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
		otlpmetricgrpc.WithHeaders(cfg.Headers),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, contextutils.WrapErrorf(contextutils.ErrInternalError, "failed to create otlp grpc metric exporter: %v", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// GatewayMetrics holds the counters emitted by the translate path
type GatewayMetrics struct {
	TranslationsServed metric.Int64Counter
	UpstreamFailures   metric.Int64Counter
	CacheHits          metric.Int64Counter
}

// NewGatewayMetrics creates the gateway counters on the global meter provider.
// Safe to call when no meter provider is registered; the instruments become no-ops.
func NewGatewayMetrics() (*GatewayMetrics, error) {
	meter := otel.Meter("translategw")

	served, err := meter.Int64Counter("gateway.translations.served",
		metric.WithDescription("Completed translation requests"))
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("gateway.upstream.failures",
		metric.WithDescription("Failed upstream predict calls"))
	if err != nil {
		return nil, err
	}
	hits, err := meter.Int64Counter("gateway.cache.hits",
		metric.WithDescription("Translation cache hits"))
	if err != nil {
		return nil, err
	}

	return &GatewayMetrics{
		TranslationsServed: served,
		UpstreamFailures:   failures,
		CacheHits:          hits,
	}, nil
}

// RecordTranslation records a served translation for a language pair
func (m *GatewayMetrics) RecordTranslation(ctx context.Context, sourceLang, targetLang string) {
	if m == nil {
		return
	}
	m.TranslationsServed.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("translation.source_language", sourceLang),
			attribute.String("translation.target_language", targetLang),
		))
}

// RecordUpstreamFailure records a failed upstream call
func (m *GatewayMetrics) RecordUpstreamFailure(ctx context.Context) {
	if m == nil {
		return
	}
	m.UpstreamFailures.Add(ctx, 1)
}

// RecordCacheHit records a translation served from the cache
func (m *GatewayMetrics) RecordCacheHit(ctx context.Context) {
	if m == nil {
		return
	}
	m.CacheHits.Add(ctx, 1)
}
