package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/WailSalutem-Health-Care/hospital-service/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// exporterTimeout bounds exporter setup and each export call
const exporterTimeout = 5 * time.Second

// Provider holds the OpenTelemetry providers. Either provider may be nil when
// its exporter could not be created.
type Provider struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
}

// InitProvider installs global tracer and meter providers exporting over OTLP
// gRPC. A missing collector only disables export; the service keeps running.
// With telemetry disabled it returns an empty Provider and the otel no-op
// globals stay in place.
func InitProvider(ctx context.Context, cfg config.TelemetryConfig) (*Provider, error) {
	if !cfg.Enabled {
		log.Println("OpenTelemetry export disabled")
		return &Provider{}, nil
	}

	log.Printf("Initializing OpenTelemetry with endpoint: %s", cfg.OTLPEndpoint)

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceNamespace(cfg.ServiceNamespace),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	p := &Provider{}

	if tp, err := newTracerProvider(ctx, cfg, res); err != nil {
		log.Printf("Warning: failed to initialize tracer provider: %v", err)
	} else {
		p.TracerProvider = tp
		otel.SetTracerProvider(tp)
		log.Println("✓ OpenTelemetry tracer provider initialized")
	}

	if mp, err := newMeterProvider(ctx, cfg, res); err != nil {
		log.Printf("Warning: failed to initialize meter provider: %v", err)
	} else {
		p.MeterProvider = mp
		otel.SetMeterProvider(mp)
		log.Println("✓ OpenTelemetry meter provider initialized")
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return p, nil
}

// samplerFor maps the OTEL_TRACES_SAMPLER value to a sampler
func samplerFor(name string) trace.Sampler {
	switch name {
	case "always_off":
		return trace.NeverSample()
	case "traceidratio":
		return trace.TraceIDRatioBased(0.1)
	default:
		return trace.AlwaysSample()
	}
}

func newTracerProvider(ctx context.Context, cfg config.TelemetryConfig, res *resource.Resource) (*trace.TracerProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, exporterTimeout)
	defer cancel()

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		otlptracegrpc.WithTimeout(exporterTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	return trace.NewTracerProvider(
		trace.WithResource(res),
		trace.WithSampler(samplerFor(cfg.TracesSampler)),
		trace.WithBatcher(exporter,
			trace.WithBatchTimeout(exporterTimeout),
			trace.WithMaxExportBatchSize(512),
		),
	), nil
}

func newMeterProvider(ctx context.Context, cfg config.TelemetryConfig, res *resource.Resource) (*metric.MeterProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, exporterTimeout)
	defer cancel()

	exporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		otlpmetricgrpc.WithTimeout(exporterTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}

	return metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(exporter,
			metric.WithInterval(cfg.MetricsInterval),
		)),
	), nil
}

// Shutdown flushes and stops whichever providers were started
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	log.Println("✓ OpenTelemetry providers shut down")
	return nil
}
