// Package noop is the metrics client wired when collection is disabled;
// every operation is a cheap no-op.
package noop

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
)

type MetricsClient struct{}

func NewMetricsClient() MetricsClient {
	return MetricsClient{}
}

func (c MetricsClient) Inc(_ context.Context, _ string, _ any, _ ...attribute.KeyValue) {}

// Handler answers 404 so a scrape against a disabled client fails loudly
// instead of returning an empty exposition.
func (c MetricsClient) Handler() http.Handler {
	return http.NotFoundHandler()
}

func (c MetricsClient) Shutdown(_ context.Context) error {
	return nil
}
