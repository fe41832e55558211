package services

import (
	"context"
	"sync"

	"translategw/internal/config"
	"translategw/internal/gradio"
	"translategw/internal/observability"
	"translategw/internal/serviceinterfaces"
	contextutils "translategw/internal/utils"
)

// ClientFactory builds the upstream client. Swapped out in tests.
type ClientFactory func(ctx context.Context) (serviceinterfaces.PredictClient, error)

// GradioClientProvider hands out a single process-wide upstream client.
// Construction is serialized by the mutex; a successful handle is cached for
// the process lifetime while failures are retried on the next call.
type GradioClientProvider struct {
	factory ClientFactory
	logger  *observability.Logger

	mu     sync.Mutex
	client serviceinterfaces.PredictClient
}

// NewGradioClientProvider creates a provider that builds a gradio client from
// the upstream config.
func NewGradioClientProvider(cfg *config.Config, logger *observability.Logger) *GradioClientProvider {
	upstream := cfg.Upstream
	return &GradioClientProvider{
		factory: func(ctx context.Context) (serviceinterfaces.PredictClient, error) {
			return gradio.New(ctx, gradio.Config{
				Endpoint: upstream.Endpoint,
				Token:    upstream.AccessToken,
				Timeout:  upstream.RequestTimeout,
			})
		},
		logger: logger,
	}
}

// NewClientProviderWithFactory creates a provider around an explicit factory
func NewClientProviderWithFactory(factory ClientFactory, logger *observability.Logger) *GradioClientProvider {
	return &GradioClientProvider{factory: factory, logger: logger}
}

// Get returns the shared client, constructing it on first use. Concurrent
// cold-start callers block on the mutex and observe the handle built by the
// winner; only a construction failure is ever repeated.
func (p *GradioClientProvider) Get(ctx context.Context) (serviceinterfaces.PredictClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}

	client, err := p.factory(ctx)
	if err != nil {
		p.logger.Error(ctx, "Failed to initialize upstream client", err)
		return nil, contextutils.NewAppErrorWithCause(
			contextutils.ErrorCodeClientInit,
			contextutils.SeverityError,
			"Failed to initialize inference client",
			err.Error(),
			err,
		)
	}

	p.client = client
	p.logger.Info(ctx, "Upstream client initialized", nil)
	return p.client, nil
}

// Warm eagerly constructs the client
func (p *GradioClientProvider) Warm(ctx context.Context) error {
	_, err := p.Get(ctx)
	return err
}

// Loaded reports whether the client handle has been constructed
func (p *GradioClientProvider) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.client != nil
}
