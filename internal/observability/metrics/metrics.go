package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	slipBatches      metric.Int64Counter
	slipRecords      metric.Int64Counter
	depositUsages    metric.Int64Counter
	rateFallbacks    metric.Int64Counter
	rateSyncFailures metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "cloudslip"
	}
	meter := provider.Meter(name)

	slipBatches, err := meter.Int64Counter("cloudslip_slip_batches_total")
	if err != nil {
		return nil, err
	}
	slipRecords, err := meter.Int64Counter("cloudslip_slip_records_total")
	if err != nil {
		return nil, err
	}
	depositUsages, err := meter.Int64Counter("cloudslip_deposit_usages_total")
	if err != nil {
		return nil, err
	}
	rateFallbacks, err := meter.Int64Counter("cloudslip_rate_fallbacks_total")
	if err != nil {
		return nil, err
	}
	rateSyncFailures, err := meter.Int64Counter("cloudslip_rate_sync_failures_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		slipBatches:      slipBatches,
		slipRecords:      slipRecords,
		depositUsages:    depositUsages,
		rateFallbacks:    rateFallbacks,
		rateSyncFailures: rateSyncFailures,
	}, nil
}

// RecordSlipBatch increments generated batch counts.
func (m *Metrics) RecordSlipBatch(ctx context.Context, vendor, slipType string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("vendor", strings.TrimSpace(vendor)),
		attribute.String("slip_type", strings.TrimSpace(slipType)),
	)
	m.slipBatches.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordSlipRecords adds generated slip row counts.
func (m *Metrics) RecordSlipRecords(ctx context.Context, vendor, slipType string, count int64) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("vendor", strings.TrimSpace(vendor)),
		attribute.String("slip_type", strings.TrimSpace(slipType)),
	)
	m.slipRecords.Add(ctx, count, metric.WithAttributes(attrs...))
}

// RecordDepositUsage increments deposit consumption counts.
func (m *Metrics) RecordDepositUsage(ctx context.Context, currency string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("currency", strings.TrimSpace(currency)))
	m.depositUsages.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRateFallback increments degraded rate resolution counts.
func (m *Metrics) RecordRateFallback(ctx context.Context, currency string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("currency", strings.TrimSpace(currency)))
	m.rateFallbacks.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordRateSyncFailure increments rate feed failure counts.
func (m *Metrics) RecordRateSyncFailure(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("reason", strings.TrimSpace(reason)))
	m.rateSyncFailures.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"vendor":      {},
	"slip_type":   {},
	"currency":    {},
	"reason":      {},
	"endpoint":    {},
	"status_code": {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
