package main

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/sdk/trace"

	"github.com/weegigs/wee-counter-go/support"
	"github.com/weegigs/wee-counter-go/we"
)

const serviceName = "wee-counter"

// installTracing installs the configured span exporter. The returned function
// flushes pending spans.
func installTracing(ctx context.Context, cfg support.TraceConfig) (func(context.Context) error, error) {
	var exporter trace.SpanExporter
	var err error

	switch cfg.Exporter {
	case "", "none":
		return func(context.Context) error { return nil }, nil
	case "console":
		exporter, err = we.ConsoleExporter()
	case "jaeger":
		exporter, err = we.JaegerExporter(cfg.JaegerEndpoint)
	case "honeycomb":
		exporter, err = we.HoneycombExporter(ctx, cfg.HoneycombTeam, cfg.HoneycombDataset)
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", cfg.Exporter)
	}

	if err != nil {
		return nil, err
	}

	return we.InstallTracing(serviceName, exporter), nil
}
